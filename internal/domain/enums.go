package domain

import "fmt"

const (
	// MaxContentItemsPerHighlightSet bounds how many content items one
	// highlight set may carry.
	MaxContentItemsPerHighlightSet = 12

	// MaxHighlightTitleLength is the longest title a highlight set may have.
	MaxHighlightTitleLength = 60
)

type ContentType string

const (
	ContentCourse         ContentType = "course"
	ContentProgram        ContentType = "program"
	ContentLearnerPathway ContentType = "learnerpathway"
)

// ValidContentTypes is the canonical set of accepted content type strings.
var ValidContentTypes = map[ContentType]bool{
	ContentCourse:         true,
	ContentProgram:        true,
	ContentLearnerPathway: true,
}

// ParseContentType validates s against the known content types.
func ParseContentType(s string) (ContentType, error) {
	ct := ContentType(s)
	if !ValidContentTypes[ct] {
		return "", fmt.Errorf("unknown content type %q (want course, program or learnerpathway)", s)
	}
	return ct, nil
}

// Label returns the human-facing name of the content type.
func (c ContentType) Label() string {
	switch c {
	case ContentCourse:
		return "Course"
	case ContentProgram:
		return "Program"
	case ContentLearnerPathway:
		return "Pathway"
	default:
		return string(c)
	}
}

// CourseRunArchived is the run status that marks a course as no longer offered.
const CourseRunArchived = "archived"
