package store

import "errors"

// Sentinel errors returned by the repositories. Callers match with
// errors.Is; raw gorm errors never cross the store boundary.
var (
	ErrRecordNotFound = errors.New("record not found")
	ErrDuplicateKey   = errors.New("record already exists")
)
