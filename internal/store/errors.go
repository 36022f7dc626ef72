package store

import "github.com/mrlokans/bookreviews/internal/entities"

var (
	ErrLoginRequired      = entities.NewError(entities.ErrAuthentication, "login required")
	ErrInvalidCredentials = entities.NewError(entities.ErrAuthentication, "invalid credentials")
	ErrAdminRequired      = entities.NewError(entities.ErrAuthorization, "only admins can perform this action")
	ErrTitleRequired      = entities.NewError(entities.ErrValidation, "title is required")
	ErrAuthorRequired     = entities.NewError(entities.ErrValidation, "author is required")
	ErrInvalidRating      = entities.NewError(entities.ErrValidation, "rating must be 1..5")
	ErrNameRequired       = entities.NewError(entities.ErrValidation, "name is required")
	ErrEmailRequired      = entities.NewError(entities.ErrValidation, "email is required")
	ErrPasswordRequired   = entities.NewError(entities.ErrValidation, "password is required")
	ErrEmailTaken         = entities.NewError(entities.ErrConflict, "email already registered")
	ErrBookNotFound       = entities.NewError(entities.ErrNotFound, "book not found")
)
