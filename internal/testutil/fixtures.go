package testutil

import (
	"fmt"

	"github.com/alexanderramin/curator/internal/domain"
	"github.com/google/uuid"
)

// HighlightSetOption customizes a fixture highlight set.
type HighlightSetOption func(*domain.HighlightSet)

// WithContent appends one content item per key with a single published run.
func WithContent(keys ...string) HighlightSetOption {
	return func(h *domain.HighlightSet) {
		for _, k := range keys {
			h.HighlightedContent = append(h.HighlightedContent, NewTestContent(k))
		}
	}
}

// WithArchivedContent appends one content item per key whose only run is archived.
func WithArchivedContent(keys ...string) HighlightSetOption {
	return func(h *domain.HighlightSet) {
		for _, k := range keys {
			item := NewTestContent(k)
			item.CourseRunStatuses = []string{domain.CourseRunArchived}
			h.HighlightedContent = append(h.HighlightedContent, item)
		}
	}
}

// WithItems appends fully specified content items.
func WithItems(items ...domain.HighlightedContentItem) HighlightSetOption {
	return func(h *domain.HighlightSet) {
		h.HighlightedContent = append(h.HighlightedContent, items...)
	}
}

func WithSetUUID(id string) HighlightSetOption {
	return func(h *domain.HighlightSet) {
		h.UUID = id
	}
}

func NewTestHighlightSet(title string, opts ...HighlightSetOption) domain.HighlightSet {
	h := domain.HighlightSet{
		UUID:        uuid.New().String(),
		Title:       title,
		IsPublished: true,
	}
	for _, opt := range opts {
		opt(&h)
	}
	for _, item := range h.HighlightedContent {
		h.HighlightedContentUUIDs = append(h.HighlightedContentUUIDs, item.UUID)
	}
	return h
}

// NewTestContent returns a published course with the given key.
func NewTestContent(key string) domain.HighlightedContentItem {
	return domain.HighlightedContentItem{
		UUID:              uuid.New().String(),
		ContentKey:        key,
		ContentType:       domain.ContentCourse,
		Title:             fmt.Sprintf("Course %s", key),
		CourseRunStatuses: []string{"published"},
		AuthoringOrganizations: []domain.Organization{
			{UUID: uuid.New().String(), Name: "edX"},
		},
	}
}

// NewTestConfig returns a curation configuration for enterpriseID holding sets.
func NewTestConfig(enterpriseID string, sets ...domain.HighlightSet) domain.CurationConfiguration {
	return domain.CurationConfiguration{
		UUID:                     uuid.New().String(),
		Title:                    "Test Enterprise",
		EnterpriseCustomer:       enterpriseID,
		IsHighlightFeatureActive: true,
		HighlightSets:            sets,
	}
}
