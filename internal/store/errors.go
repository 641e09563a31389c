package store

import "errors"

var (
	// ErrDuplicateUser は username の一意制約に違反したことを示します。
	ErrDuplicateUser = errors.New("duplicate user")
	// ErrUserNotFound は該当する行が存在しないことを示します。
	ErrUserNotFound = errors.New("user not found")
)
