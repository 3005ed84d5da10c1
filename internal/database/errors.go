package database

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
)

// UniqueViolation retourne le nom de la contrainte unique violée, s'il y en a une.
func UniqueViolation(err error) (string, bool) {
	return violation(err, codeUniqueViolation)
}

func ForeignKeyViolation(err error) (string, bool) {
	return violation(err, codeForeignKeyViolation)
}

func CheckViolation(err error) (string, bool) {
	return violation(err, codeCheckViolation)
}

func violation(err error, code string) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == code {
		return pgErr.ConstraintName, true
	}
	return "", false
}
