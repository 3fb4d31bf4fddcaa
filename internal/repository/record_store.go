package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

// Predicate is a single column equality check.
type Predicate struct {
	Column string
	Value  interface{}
}

// Filter is an OR of equality predicates. A single-predicate filter is a plain
// equality; multiple predicates on the same column behave like IN.
type Filter struct {
	Any []Predicate
}

// Eq builds a single-equality filter.
func Eq(column string, value interface{}) Filter {
	return Filter{Any: []Predicate{{Column: column, Value: value}}}
}

// AnyOf builds an OR filter over the given predicates.
func AnyOf(preds ...Predicate) Filter {
	return Filter{Any: preds}
}

// In builds an OR filter matching the column against each value.
func In(column string, values []string) Filter {
	preds := make([]Predicate, 0, len(values))
	for _, v := range values {
		preds = append(preds, Predicate{Column: column, Value: v})
	}
	return Filter{Any: preds}
}

// ListSpec describes one scoped, ordered fetch. Filters are ANDed together.
type ListSpec struct {
	Filters   []Filter
	OrderBy   string
	Ascending bool
	Limit     int
}

// RecordStore is the shared data-access component behind every record kind.
// Table name, column list and ordering are configuration; the per-record
// repositories are thin wrappers choosing filters appropriate to the caller.
type RecordStore[T any] struct {
	db      *sqlx.DB
	table   string
	columns []string
}

// NewRecordStore configures a store for one table.
func NewRecordStore[T any](db *sqlx.DB, table string, columns []string) *RecordStore[T] {
	return &RecordStore[T]{db: db, table: table, columns: columns}
}

// Select fetches rows matching the spec in the requested order.
func (s *RecordStore[T]) Select(ctx context.Context, spec ListSpec) ([]T, error) {
	query, args := s.buildSelect(spec)
	rows := []T{}
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select %s: %w", s.table, err)
	}
	return rows, nil
}

// GetByID fetches a single row keyed by id.
func (s *RecordStore[T]) GetByID(ctx context.Context, id string) (*T, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1 LIMIT 1", strings.Join(s.columns, ", "), s.table)
	var row T
	if err := s.db.GetContext(ctx, &row, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("get %s by id: %w", s.table, err)
	}
	return &row, nil
}

// Insert persists a row using the store's column configuration.
func (s *RecordStore[T]) Insert(ctx context.Context, row *T) error {
	placeholders := make([]string, len(s.columns))
	for i, col := range s.columns {
		placeholders[i] = ":" + col
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		s.table, strings.Join(s.columns, ", "), strings.Join(placeholders, ", "))
	if _, err := s.db.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("insert %s: %w", s.table, err)
	}
	return nil
}

// UpdateByID patches the given columns on a single row.
func (s *RecordStore[T]) UpdateByID(ctx context.Context, id string, patch map[string]interface{}) error {
	if len(patch) == 0 {
		return nil
	}
	sets := make([]string, 0, len(patch))
	args := make([]interface{}, 0, len(patch)+1)
	args = append(args, id)
	for col, val := range patch {
		args = append(args, val)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = $1", s.table, strings.Join(sets, ", "))
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update %s: %w", s.table, err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteByID removes a single row.
func (s *RecordStore[T]) DeleteByID(ctx context.Context, id string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE id = $1", s.table)
	res, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", s.table, err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (s *RecordStore[T]) buildSelect(spec ListSpec) (string, []interface{}) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "SELECT %s FROM %s", strings.Join(s.columns, ", "), s.table)

	var args []interface{}
	var groups []string
	for _, filter := range spec.Filters {
		if len(filter.Any) == 0 {
			continue
		}
		terms := make([]string, 0, len(filter.Any))
		for _, pred := range filter.Any {
			args = append(args, pred.Value)
			terms = append(terms, fmt.Sprintf("%s = $%d", pred.Column, len(args)))
		}
		groups = append(groups, "("+strings.Join(terms, " OR ")+")")
	}
	if len(groups) > 0 {
		sb.WriteString(" WHERE " + strings.Join(groups, " AND "))
	}

	orderBy := spec.OrderBy
	if orderBy == "" {
		orderBy = "created_at"
	}
	direction := "DESC"
	if spec.Ascending {
		direction = "ASC"
	}
	fmt.Fprintf(&sb, " ORDER BY %s %s", orderBy, direction)

	if spec.Limit > 0 {
		fmt.Fprintf(&sb, " LIMIT %d", spec.Limit)
	}

	return sb.String(), args
}
