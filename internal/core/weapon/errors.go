package weapon

import "errors"

var (
	ErrInvalidProfile      = errors.New("invalid weapon profile")
	ErrMissingCollaborator = errors.New("missing required collaborator")
	ErrDuplicateProfile    = errors.New("duplicate weapon profile")
)
