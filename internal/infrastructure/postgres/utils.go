package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE que el almacén distingue.
const (
	codeUniqueViolation      = "23505"
	codeSerializationFailure = "40001"
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// isUniqueViolation clave duplicada (documento o entrada de auditoría con id repetido).
func isUniqueViolation(err error) bool {
	return pgCode(err) == codeUniqueViolation
}

// isSerializationFailure otra transacción ganó la carrera sobre la misma colección.
func isSerializationFailure(err error) bool {
	return pgCode(err) == codeSerializationFailure
}
