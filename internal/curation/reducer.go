package curation

import (
	"fmt"

	"github.com/alexanderramin/curator/internal/domain"
)

// State is the store's full value: the configuration plus load status.
type State struct {
	Config   *domain.CurationConfiguration
	Loading  bool
	FetchErr error
}

// reduce applies one action to s and reports whether the highlight-set list
// changed. s is never mutated; the returned state shares nothing with it.
func reduce(s State, a Action) (State, bool) {
	next := s.clone()
	setsChanged := false

	switch a := a.(type) {
	case nil:
		return s, false
	case SetLoading:
		next.Loading = true
		next.FetchErr = nil
	case SetConfig:
		cfg := a.Config.Clone()
		next.Config = &cfg
		next.Loading = false
		next.FetchErr = nil
		setsChanged = true
	case SetFetchError:
		next.Loading = false
		next.FetchErr = a.Err
	case AddHighlightSet:
		if next.Config == nil {
			return s, false
		}
		sets := make([]domain.HighlightSet, 0, len(next.Config.HighlightSets)+1)
		sets = append(sets, a.Set.Clone())
		sets = append(sets, next.Config.HighlightSets...)
		next.Config.HighlightSets = sets
		setsChanged = true
	case DeleteHighlightSet:
		if next.Config == nil {
			return s, false
		}
		kept := next.Config.HighlightSets[:0]
		for _, h := range next.Config.HighlightSets {
			if h.UUID != a.UUID {
				kept = append(kept, h)
			}
		}
		setsChanged = len(kept) != len(s.Config.HighlightSets)
		next.Config.HighlightSets = kept
	case RemoveHighlightedContent:
		if next.Config == nil {
			return s, false
		}
		for i, h := range next.Config.HighlightSets {
			if h.UUID == a.SetUUID {
				next.Config.HighlightSets[i] = h.WithoutContent(a.ContentKeys)
				setsChanged = true
			}
		}
	case StageToast:
		if next.Config == nil {
			return s, false
		}
		text := a.Text
		next.Config.ToastText = &text
	case ClearToast:
		if next.Config == nil {
			return s, false
		}
		next.Config.ToastText = nil
	default:
		panic(fmt.Sprintf("curation: unhandled action %T", a))
	}

	if next.Config != nil {
		next.Config.Normalize()
	}
	return next, setsChanged
}

func (s State) clone() State {
	out := s
	if s.Config != nil {
		cfg := s.Config.Clone()
		out.Config = &cfg
	}
	return out
}
