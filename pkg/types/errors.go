package types

import "errors"

// ErrMissingArgument is returned when a caller omits a required input, such
// as the document id on a provision lookup. It signals a caller bug; data
// quality problems are reported as values instead.
var ErrMissingArgument = errors.New("missing required argument")
