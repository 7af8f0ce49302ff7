package error

import "errors"

var ErrTypeAssertMismatch = errors.New("mismatched type when asserting type")
