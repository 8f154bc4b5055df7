package model

import "errors"

var (
	ErrCreatorNotFound   = errors.New("creator not found")
	ErrUsernameRequired  = errors.New("username is required")
	ErrUsernameTaken     = errors.New("username already exists")
	ErrEmptyImport       = errors.New("import data contains no records")
	ErrInvalidImportData = errors.New("import data could not be parsed")
)
