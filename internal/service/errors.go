package service

import "errors"

var (
	ErrConfigLoad      = errors.New("could not load curation configuration")
	ErrConfigUpdate    = errors.New("could not update learner visibility")
	ErrPublish         = errors.New("could not publish highlight set")
	ErrDelete          = errors.New("could not delete highlight set")
	ErrRemoveContent   = errors.New("could not remove content from highlight set")
	ErrNotLoaded       = errors.New("curation configuration not loaded")
	ErrUnknownSet      = errors.New("highlight set not found")
	ErrNoHighlightSets = errors.New("create a highlight set before limiting learners to highlighted content")
	ErrStaleUpdate     = errors.New("update superseded by a newer one")
)
