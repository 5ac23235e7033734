package domain

type HighlightSet struct {
	UUID                    string
	Title                   string
	IsPublished             bool
	EnterpriseCuration      string
	CardImageURL            string
	HighlightedContentUUIDs []string
	HighlightedContent      []HighlightedContentItem
}

// ArchivedContent returns the items whose only course run is archived.
func (h HighlightSet) ArchivedContent() []HighlightedContentItem {
	var out []HighlightedContentItem
	for _, item := range h.HighlightedContent {
		if item.IsArchived() {
			out = append(out, item)
		}
	}
	return out
}

// WithoutContent returns a copy of the set with every item whose content key
// is in keys removed, along with its entry in HighlightedContentUUIDs.
func (h HighlightSet) WithoutContent(keys []string) HighlightSet {
	drop := make(map[string]bool, len(keys))
	for _, k := range keys {
		drop[k] = true
	}
	out := h.Clone()
	out.HighlightedContent = out.HighlightedContent[:0]
	droppedUUIDs := make(map[string]bool)
	for _, item := range h.HighlightedContent {
		if drop[item.ContentKey] {
			if item.UUID != "" {
				droppedUUIDs[item.UUID] = true
			}
			continue
		}
		out.HighlightedContent = append(out.HighlightedContent, item.clone())
	}
	out.HighlightedContentUUIDs = out.HighlightedContentUUIDs[:0]
	for _, id := range h.HighlightedContentUUIDs {
		if !droppedUUIDs[id] {
			out.HighlightedContentUUIDs = append(out.HighlightedContentUUIDs, id)
		}
	}
	return out
}

// Clone returns a deep copy.
func (h HighlightSet) Clone() HighlightSet {
	out := h
	out.HighlightedContentUUIDs = append([]string(nil), h.HighlightedContentUUIDs...)
	out.HighlightedContent = make([]HighlightedContentItem, 0, len(h.HighlightedContent))
	for _, item := range h.HighlightedContent {
		out.HighlightedContent = append(out.HighlightedContent, item.clone())
	}
	return out
}

// ContentKeys lists the content keys of the set in display order.
func (h HighlightSet) ContentKeys() []string {
	keys := make([]string, 0, len(h.HighlightedContent))
	for _, item := range h.HighlightedContent {
		keys = append(keys, item.ContentKey)
	}
	return keys
}
