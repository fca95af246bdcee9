package apperr

import "errors"

var (
	ErrRootNotFound    = errors.New("root directory not found")
	ErrNotDirectory    = errors.New("not a directory")
	ErrPathEscapesRoot = errors.New("path escapes root")
)
