package relational

import (
	"database/sql"

	"todos/internal/domain"
)

// taskColumns is the column list shared by every SELECT and RETURNING clause.
// Order must match taskRow.scanArgs.
const taskColumns = "id, text, completed"

// taskRow holds the columns of a todos row for scanning
type taskRow struct {
	ID        int64
	Text      string
	Completed bool
}

// scanArgs returns pointers in taskColumns order
func (r *taskRow) scanArgs() []any {
	return []any{&r.ID, &r.Text, &r.Completed}
}

func (r *taskRow) toDomain() domain.Task {
	return domain.Task{
		ID:        r.ID,
		Text:      r.Text,
		Completed: r.Completed,
	}
}

// scanner is satisfied by *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...any) error
}

func scanTask(s scanner) (domain.Task, error) {
	var row taskRow
	if err := s.Scan(row.scanArgs()...); err != nil {
		return domain.Task{}, err
	}
	return row.toDomain(), nil
}

// stringPtrToNull converts an optional update field into a bind parameter
func stringPtrToNull(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// boolPtrToNull converts an optional update field into a bind parameter
func boolPtrToNull(b *bool) sql.NullBool {
	if b == nil {
		return sql.NullBool{}
	}
	return sql.NullBool{Bool: *b, Valid: true}
}
