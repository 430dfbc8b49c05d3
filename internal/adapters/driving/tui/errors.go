package tui

import "errors"

// ErrMissingSession is returned when the editing session is not provided.
var ErrMissingSession = errors.New("tui: editing session is required")

// ErrMissingLayout is returned when the page layout is not provided.
var ErrMissingLayout = errors.New("tui: page layout is required")
