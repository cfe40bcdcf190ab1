package database

import "errors"

var (
	ErrLookupNotFound = errors.New("lookup value not found")
)
