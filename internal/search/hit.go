package search

import "github.com/alexanderramin/curator/internal/domain"

const (
	// BrowsePageSize is the page size of the content browse step.
	BrowsePageSize = 25
	// ConfirmPageSize bounds the confirm step to one full selection.
	ConfirmPageSize = domain.MaxContentItemsPerHighlightSet
)

type Partner struct {
	Name         string `json:"name"`
	LogoImageURL string `json:"logo_image_url"`
}

// Hit is one document returned by the search index.
type Hit struct {
	ObjectID         string    `json:"objectID"`
	AggregationKey   string    `json:"aggregation_key"`
	ContentType      string    `json:"content_type"`
	Key              string    `json:"key"`
	UUID             string    `json:"uuid"`
	Title            string    `json:"title"`
	CardImageURL     string    `json:"card_image_url"`
	ShortDescription string    `json:"short_description"`
	Partners         []Partner `json:"partners"`
}

// ContentKey is the key a highlight set stores for this hit.
func (h Hit) ContentKey() string {
	if h.AggregationKey != "" {
		return ContentKeyFromAggregation(h.AggregationKey)
	}
	if h.Key != "" {
		return h.Key
	}
	return h.UUID
}

// SelectionKey is the key the wizard's selection ledger tracks for this hit.
func (h Hit) SelectionKey() string {
	if h.AggregationKey != "" {
		return h.AggregationKey
	}
	return AggregationKey(h.ContentType, h.ContentKey())
}

// PartnerNames lists partner names for display.
func (h Hit) PartnerNames() []string {
	out := make([]string, 0, len(h.Partners))
	for _, p := range h.Partners {
		out = append(out, p.Name)
	}
	return out
}

// Result is one page of hits.
type Result struct {
	Hits        []Hit `json:"hits"`
	NbHits      int   `json:"nbHits"`
	NbPages     int   `json:"nbPages"`
	Page        int   `json:"page"`
	HitsPerPage int   `json:"hitsPerPage"`
}

// OrderBySelection returns the hits whose selection keys appear in
// orderedKeys, in that order. The index has no notion of caller ordering, so
// the confirm step re-sorts client side.
func OrderBySelection(hits []Hit, orderedKeys []string) []Hit {
	byKey := make(map[string]Hit, len(hits))
	for _, h := range hits {
		byKey[h.SelectionKey()] = h
	}
	out := make([]Hit, 0, len(orderedKeys))
	for _, k := range orderedKeys {
		if h, ok := byKey[k]; ok {
			out = append(out, h)
		}
	}
	return out
}
