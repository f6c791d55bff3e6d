package service

import "errors"

var (
	ErrNotAuthenticated = errors.New("Not authenticated")
	ErrEmptySpaceID     = errors.New("space id is empty")
	ErrEmptySpaceName   = errors.New("space name is empty")
	ErrNoFiles          = errors.New("no files to upload")
)
