package formatter

import (
	"fmt"
	"strings"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderCapacity renders a selection meter like [████░░░░] 4/12. The bar
// turns yellow when one slot is left and red when full.
func RenderCapacity(n, capacity, width int) string {
	if capacity <= 0 {
		capacity = 1
	}
	if width < 2 {
		width = 2
	}
	n = min(max(n, 0), capacity)

	filled := n * width / capacity
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)

	style := StyleGreen
	switch {
	case n >= capacity:
		style = StyleRed
	case capacity-n == 1:
		style = StyleYellow
	}
	return fmt.Sprintf("[%s] %d/%d", style.Render(bar), n, capacity)
}
