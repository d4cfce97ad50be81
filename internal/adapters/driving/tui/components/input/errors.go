package input

import "errors"

var errNotNumber = errors.New("input: not a whole number")
