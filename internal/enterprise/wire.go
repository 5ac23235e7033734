package enterprise

import (
	"time"

	"github.com/alexanderramin/curator/internal/domain"
)

type organizationJSON struct {
	UUID         string `json:"uuid"`
	Name         string `json:"name"`
	LogoImageURL string `json:"logo_image_url"`
}

type contentItemJSON struct {
	UUID                   string             `json:"uuid"`
	ContentKey             string             `json:"content_key"`
	ContentType            string             `json:"content_type"`
	Title                  string             `json:"title"`
	CardImageURL           string             `json:"card_image_url"`
	AuthoringOrganizations []organizationJSON `json:"authoring_organizations"`
	CourseRunStatuses      []string           `json:"course_run_statuses"`
}

type highlightSetJSON struct {
	UUID                    string            `json:"uuid"`
	Title                   string            `json:"title"`
	IsPublished             bool              `json:"is_published"`
	EnterpriseCuration      string            `json:"enterprise_curation"`
	CardImageURL            string            `json:"card_image_url"`
	HighlightedContentUUIDs []string          `json:"highlighted_content_uuids"`
	HighlightedContent      []contentItemJSON `json:"highlighted_content"`
}

type curationConfigJSON struct {
	UUID                     string             `json:"uuid"`
	Title                    string             `json:"title"`
	Created                  string             `json:"created"`
	Modified                 string             `json:"modified"`
	EnterpriseCustomer       string             `json:"enterprise_customer"`
	IsHighlightFeatureActive bool               `json:"is_highlight_feature_active"`
	CanOnlyViewHighlightSets bool               `json:"can_only_view_highlight_sets"`
	HighlightSets            []highlightSetJSON `json:"highlight_sets"`
}

type curationConfigList struct {
	Count   int                  `json:"count"`
	Results []curationConfigJSON `json:"results"`
}

type createConfigRequest struct {
	EnterpriseCustomer string `json:"enterprise_customer"`
	Title              string `json:"title"`
}

// ConfigPatch lists the writable configuration fields. Nil fields are omitted.
type ConfigPatch struct {
	CanOnlyViewHighlightSets *bool `json:"can_only_view_highlight_sets,omitempty"`
}

// HighlightSetInput is the body of a highlight-set create call.
type HighlightSetInput struct {
	EnterpriseCustomer string   `json:"enterprise_customer"`
	Title              string   `json:"title"`
	ContentKeys        []string `json:"content_keys"`
}

type removeContentRequest struct {
	ContentKeys []string `json:"content_keys"`
}

// SecuredKey is a time-limited search credential scoped to the caller's catalogs.
type SecuredKey struct {
	Key        string
	ValidUntil time.Time
}

type securedKeyJSON struct {
	Algolia struct {
		SecuredAPIKey string `json:"secured_api_key"`
		ValidUntil    string `json:"valid_until"`
	} `json:"algolia"`
}

func (c contentItemJSON) toDomain() domain.HighlightedContentItem {
	orgs := make([]domain.Organization, 0, len(c.AuthoringOrganizations))
	for _, o := range c.AuthoringOrganizations {
		orgs = append(orgs, domain.Organization{UUID: o.UUID, Name: o.Name, LogoURL: o.LogoImageURL})
	}
	ct, err := domain.ParseContentType(c.ContentType)
	if err != nil {
		ct = domain.ContentType(c.ContentType)
	}
	return domain.HighlightedContentItem{
		UUID:                   c.UUID,
		ContentKey:             c.ContentKey,
		ContentType:            ct,
		Title:                  c.Title,
		CardImageURL:           c.CardImageURL,
		AuthoringOrganizations: orgs,
		CourseRunStatuses:      append([]string(nil), c.CourseRunStatuses...),
	}
}

func (h highlightSetJSON) toDomain() domain.HighlightSet {
	items := make([]domain.HighlightedContentItem, 0, len(h.HighlightedContent))
	for _, c := range h.HighlightedContent {
		items = append(items, c.toDomain())
	}
	return domain.HighlightSet{
		UUID:                    h.UUID,
		Title:                   h.Title,
		IsPublished:             h.IsPublished,
		EnterpriseCuration:      h.EnterpriseCuration,
		CardImageURL:            h.CardImageURL,
		HighlightedContentUUIDs: append([]string(nil), h.HighlightedContentUUIDs...),
		HighlightedContent:      items,
	}
}

func (c curationConfigJSON) toDomain() domain.CurationConfiguration {
	sets := make([]domain.HighlightSet, 0, len(c.HighlightSets))
	for _, h := range c.HighlightSets {
		sets = append(sets, h.toDomain())
	}
	cfg := domain.CurationConfiguration{
		UUID:                     c.UUID,
		Title:                    c.Title,
		EnterpriseCustomer:       c.EnterpriseCustomer,
		IsHighlightFeatureActive: c.IsHighlightFeatureActive,
		CanOnlyViewHighlightSets: c.CanOnlyViewHighlightSets,
		HighlightSets:            sets,
		Created:                  parseTime(c.Created),
		Modified:                 parseTime(c.Modified),
	}
	cfg.Normalize()
	return cfg
}

// parseTime accepts RFC 3339 with or without fractional seconds. Anything
// else yields the zero time.
func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC()
	}
	if t, err := time.Parse("2006-01-02T15:04:05.999999", s); err == nil {
		return t.UTC()
	}
	return time.Time{}
}
