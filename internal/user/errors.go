package user

import (
	"errors"
	"strings"

	"github.com/rathee95/bookhub/internal/database"
)

var (
	ErrNotFound      = errors.New("user not found")
	ErrEmailTaken    = errors.New("a user with that email already exists")
	ErrPhoneTaken    = errors.New("a user with that phone number already exists")
	ErrUsernameTaken = errors.New("a user with that username already exists")

	ErrInvalidGender      = errors.New("invalid gender")
	ErrInvalidContributor = errors.New("invalid contributor status")
	ErrInvalidUser        = errors.New("invalid user")
)

// uniqueError traduit une violation d'unicité Postgres en erreur métier.
func uniqueError(err error) error {
	constraint, ok := database.UniqueViolation(err)
	if !ok {
		return nil
	}
	switch {
	case strings.Contains(constraint, "email"):
		return ErrEmailTaken
	case strings.Contains(constraint, "phone"):
		return ErrPhoneTaken
	case strings.Contains(constraint, "username"):
		return ErrUsernameTaken
	default:
		return nil
	}
}

// checkError traduit une violation de contrainte CHECK sur les choix.
func checkError(err error) error {
	constraint, ok := database.CheckViolation(err)
	if !ok {
		return nil
	}
	switch {
	case strings.Contains(constraint, "gender"):
		return ErrInvalidGender
	case strings.Contains(constraint, "contributor"):
		return ErrInvalidContributor
	default:
		return nil
	}
}
