package domain

type Organization struct {
	UUID    string
	Name    string
	LogoURL string
}

// HighlightedContentItem is the denormalized content record attached to a
// highlight set.
type HighlightedContentItem struct {
	UUID                   string
	ContentKey             string
	ContentType            ContentType
	Title                  string
	CardImageURL           string
	AuthoringOrganizations []Organization
	CourseRunStatuses      []string
}

// IsArchived reports whether the item's only course run is archived. An item
// with an archived run alongside any other run is still offered.
func (c HighlightedContentItem) IsArchived() bool {
	return len(c.CourseRunStatuses) == 1 && c.CourseRunStatuses[0] == CourseRunArchived
}

// OrganizationNames joins the authoring organization names for display.
func (c HighlightedContentItem) OrganizationNames() []string {
	names := make([]string, 0, len(c.AuthoringOrganizations))
	for _, o := range c.AuthoringOrganizations {
		names = append(names, o.Name)
	}
	return names
}

func (c HighlightedContentItem) clone() HighlightedContentItem {
	out := c
	out.AuthoringOrganizations = append([]Organization(nil), c.AuthoringOrganizations...)
	out.CourseRunStatuses = append([]string(nil), c.CourseRunStatuses...)
	return out
}
