package server

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// LoginRequest carries credentials for password login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate will run validation rules
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

// RegisterRequest carries the fields for account creation.
type RegisterRequest struct {
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
}

// Validate will run validation rules
func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.DisplayName, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.Email, validation.Required, validation.Length(6, 100), is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 100)),
	)
}

// CommentRequest carries the body of a comment create or update.
type CommentRequest struct {
	Content string `json:"content"`
}

// Validate runs after authentication and before any store access. The
// message is part of the response contract for empty-content writes.
func (r CommentRequest) Validate() error {
	return validation.Validate(strings.TrimSpace(r.Content),
		validation.Required.Error("Comment content is required and must be a non-empty string."),
		validation.Length(0, 4000),
	)
}

// GameRequest carries the admin catalog create/update fields.
type GameRequest struct {
	Title       string `json:"title"`
	Genre       string `json:"genre"`
	Platform    string `json:"platform"`
	ReleaseYear int    `json:"release_year"`
	CoverURL    string `json:"cover_url"`
	Description string `json:"description"`
}

// Validate will run validation rules
func (r GameRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Genre, validation.Length(0, 100)),
		validation.Field(&r.Platform, validation.Length(0, 100)),
		validation.Field(&r.ReleaseYear, validation.Min(1950), validation.Max(2100)),
		validation.Field(&r.CoverURL, is.URL),
	)
}

// ProfileRequest carries the self-service profile update fields.
type ProfileRequest struct {
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
}

// Validate will run validation rules
func (r ProfileRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.DisplayName, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.AvatarURL, is.URL),
	)
}
