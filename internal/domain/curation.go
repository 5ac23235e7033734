package domain

import "time"

// CurationConfiguration is the per-enterprise record that owns the
// enterprise's highlight sets and the learner catalog visibility mode.
type CurationConfiguration struct {
	UUID                     string
	Title                    string
	EnterpriseCustomer       string
	IsHighlightFeatureActive bool
	CanOnlyViewHighlightSets bool
	HighlightSets            []HighlightSet
	ToastText                *string
	Created                  time.Time
	Modified                 time.Time
}

// Normalize enforces that a configuration without highlight sets cannot
// restrict the learner catalog to highlighted content.
func (c *CurationConfiguration) Normalize() {
	if len(c.HighlightSets) == 0 {
		c.CanOnlyViewHighlightSets = false
	}
}

// FindHighlightSet returns the set with the given UUID.
func (c *CurationConfiguration) FindHighlightSet(uuid string) (HighlightSet, bool) {
	for _, h := range c.HighlightSets {
		if h.UUID == uuid {
			return h, true
		}
	}
	return HighlightSet{}, false
}

// Clone returns a deep copy of the configuration.
func (c CurationConfiguration) Clone() CurationConfiguration {
	out := c
	out.HighlightSets = make([]HighlightSet, 0, len(c.HighlightSets))
	for _, h := range c.HighlightSets {
		out.HighlightSets = append(out.HighlightSets, h.Clone())
	}
	if c.ToastText != nil {
		text := *c.ToastText
		out.ToastText = &text
	}
	return out
}
