package relational

import (
	"database/sql"
	"errors"

	"todos/internal/repository"
)

// mapError translates a database/sql or driver error into the repository
// error taxonomy. It is the only place driver errors are inspected.
func mapError(op string, id int64, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return repository.NotFound(id)
	}
	return repository.Unexpected(op, err)
}
