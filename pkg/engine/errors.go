package engine

import "errors"

// ErrInvalidParameter rejects malformed inputs at construction time.
// Constructors wrap it with the offending field and value; callers match
// with errors.Is. Zero interest, inflation or appreciation rates are valid
// inputs handled by explicit formula branches, never by this error.
var ErrInvalidParameter = errors.New("invalid parameter")
