package errors

import "errors"

var ErrNotFound = errors.New("calendar credentials not found")
