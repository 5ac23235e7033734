package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsArchived(t *testing.T) {
	cases := []struct {
		name     string
		statuses []string
		archived bool
	}{
		{"single archived run", []string{"archived"}, true},
		{"no runs", nil, false},
		{"empty slice", []string{}, false},
		{"single published run", []string{"published"}, false},
		{"archived alongside published", []string{"archived", "published"}, false},
		{"two archived runs", []string{"archived", "archived"}, false},
		{"unpublished", []string{"unpublished"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			item := HighlightedContentItem{ContentKey: "edX+DemoX", CourseRunStatuses: tc.statuses}
			assert.Equal(t, tc.archived, item.IsArchived())
		})
	}
}

func TestParseContentType(t *testing.T) {
	for _, s := range []string{"course", "program", "learnerpathway"} {
		ct, err := ParseContentType(s)
		require.NoError(t, err)
		assert.Equal(t, ContentType(s), ct)
	}
	_, err := ParseContentType("video")
	assert.Error(t, err)
}

func TestHighlightSet_WithoutContent(t *testing.T) {
	set := HighlightSet{
		UUID:                    "set-1",
		Title:                   "Spring Picks",
		HighlightedContentUUIDs: []string{"u1", "u2", "u3"},
		HighlightedContent: []HighlightedContentItem{
			{UUID: "u1", ContentKey: "a"},
			{UUID: "u2", ContentKey: "b", CourseRunStatuses: []string{"archived"}},
			{UUID: "u3", ContentKey: "c"},
		},
	}

	trimmed := set.WithoutContent([]string{"b"})

	assert.Equal(t, []string{"a", "c"}, trimmed.ContentKeys())
	assert.Equal(t, []string{"u1", "u3"}, trimmed.HighlightedContentUUIDs)
	// Original untouched.
	assert.Equal(t, []string{"a", "b", "c"}, set.ContentKeys())
	assert.Len(t, set.ArchivedContent(), 1)
	assert.Empty(t, trimmed.ArchivedContent())
}

func TestCurationConfiguration_Normalize(t *testing.T) {
	c := CurationConfiguration{CanOnlyViewHighlightSets: true}
	c.Normalize()
	assert.False(t, c.CanOnlyViewHighlightSets)

	c = CurationConfiguration{
		CanOnlyViewHighlightSets: true,
		HighlightSets:            []HighlightSet{{UUID: "set-1"}},
	}
	c.Normalize()
	assert.True(t, c.CanOnlyViewHighlightSets)
}

func TestCurationConfiguration_CloneIsDeep(t *testing.T) {
	text := "hello"
	c := CurationConfiguration{
		ToastText: &text,
		HighlightSets: []HighlightSet{{
			UUID:               "set-1",
			HighlightedContent: []HighlightedContentItem{{ContentKey: "a", CourseRunStatuses: []string{"published"}}},
		}},
	}
	cp := c.Clone()
	cp.HighlightSets[0].HighlightedContent[0].CourseRunStatuses[0] = "archived"
	*cp.ToastText = "changed"

	assert.Equal(t, "published", c.HighlightSets[0].HighlightedContent[0].CourseRunStatuses[0])
	assert.Equal(t, "hello", *c.ToastText)
}
