package models

import "io"

type User struct {
	ID             string  `json:"id" yaml:"id"`
	Name           string  `json:"name" yaml:"name"`
	Email          string  `json:"email" yaml:"email"`
	ProfilePicture string  `json:"profilePicture" yaml:"profilePicture"`
	Rating         float64 `json:"rating" yaml:"rating"`
}

// Session is the token/user pair. Both halves are persisted and removed together.
type Session struct {
	Token string `json:"token" yaml:"token"`
	User  User   `json:"user" yaml:"user"`
}

type LoginRequest struct {
	Email    string `json:"email" form:"email" validate:"required,contains=@"`
	Password string `json:"password" form:"password" validate:"required,min=6"`
}

// Upload is a file part of a multipart request.
type Upload struct {
	FileName    string
	ContentType string
	Content     io.Reader
}

type RegisterRequest struct {
	Name           string  `json:"name" form:"name" validate:"required,min=3"`
	Email          string  `json:"email" form:"email" validate:"required,email"`
	Password       string  `json:"password" form:"password" validate:"required,min=6"`
	ProfilePicture *Upload `json:"-" form:"-"`
}
