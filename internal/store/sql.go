package store

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/dmitrijs2005/werkstatt/internal/dbx"
	"github.com/dmitrijs2005/werkstatt/internal/store/migrations"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// Dialect selects placeholder style for the generated SQL.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

// identRe guards collection and column identifiers interpolated into SQL.
// All identifiers originate in this codebase, never from user input.
var identRe = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// SQLStore implements Store over a dbx.DBTX (*sql.DB or *sql.Tx).
type SQLStore struct {
	db      dbx.DBTX
	dialect Dialect
}

// NewSQLStore returns a store bound to the given DBTX.
func NewSQLStore(db dbx.DBTX, dialect Dialect) *SQLStore {
	return &SQLStore{db: db, dialect: dialect}
}

// Open connects to PostgreSQL via the pgx stdlib driver, runs the embedded
// schema migrations, and returns a ready store.
func Open(ctx context.Context, dsn string) (*SQLStore, *sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("db open error: %w", err)
	}
	if err := RunMigrations(ctx, db); err != nil {
		return nil, nil, fmt.Errorf("migration error: %w", err)
	}
	return NewSQLStore(db, DialectPostgres), db, nil
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and runs them
// against the provided database connection.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return gooseUpContext(ctx, db, ".")
}

func (s *SQLStore) placeholder(n int) string {
	if s.dialect == DialectPostgres {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

// sortedColumns returns the map keys in deterministic order so generated
// SQL is stable.
func sortedColumns(m map[string]any) []string {
	cols := make([]string, 0, len(m))
	for c := range m {
		cols = append(cols, c)
	}
	sort.Strings(cols)
	return cols
}

func checkIdent(name string) error {
	if !identRe.MatchString(name) {
		return fmt.Errorf("invalid identifier %q", name)
	}
	return nil
}

func (s *SQLStore) Select(ctx context.Context, collection string) ([]Row, error) {
	if err := checkIdent(collection); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, "SELECT * FROM "+collection)
	if err != nil {
		return nil, fmt.Errorf("failed to select %s: %w", collection, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var result []Row
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		rec := make(Row, len(cols))
		for i, c := range cols {
			rec[c] = normalize(values[i])
		}
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// normalize folds driver-specific scan types into the Row value set.
func normalize(v any) any {
	switch value := v.(type) {
	case []byte:
		return string(value)
	default:
		return v
	}
}

func (s *SQLStore) Insert(ctx context.Context, collection string, rec Row) error {
	if err := checkIdent(collection); err != nil {
		return err
	}
	cols := sortedColumns(rec)
	placeholders := make([]string, len(cols))
	args := make([]any, len(cols))
	for i, c := range cols {
		if err := checkIdent(c); err != nil {
			return err
		}
		placeholders[i] = s.placeholder(i + 1)
		args[i] = rec[c]
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		collection, strings.Join(cols, ", "), strings.Join(placeholders, ", "))
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert into %s: %w", collection, err)
	}
	return nil
}

func (s *SQLStore) Update(ctx context.Context, collection string, patch Row, match Filter) error {
	if err := checkIdent(collection); err != nil {
		return err
	}

	var sets, where []string
	var args []any
	n := 1
	for _, c := range sortedColumns(patch) {
		if err := checkIdent(c); err != nil {
			return err
		}
		sets = append(sets, fmt.Sprintf("%s = %s", c, s.placeholder(n)))
		args = append(args, patch[c])
		n++
	}
	for _, c := range sortedColumns(match) {
		if err := checkIdent(c); err != nil {
			return err
		}
		where = append(where, fmt.Sprintf("%s = %s", c, s.placeholder(n)))
		args = append(args, match[c])
		n++
	}
	if len(sets) == 0 || len(where) == 0 {
		return fmt.Errorf("update on %s requires patch and filter", collection)
	}

	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s",
		collection, strings.Join(sets, ", "), strings.Join(where, " AND "))
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to update %s: %w", collection, err)
	}
	return nil
}

func (s *SQLStore) Delete(ctx context.Context, collection string, match Filter) error {
	if err := checkIdent(collection); err != nil {
		return err
	}

	var where []string
	var args []any
	n := 1
	for _, c := range sortedColumns(match) {
		if err := checkIdent(c); err != nil {
			return err
		}
		where = append(where, fmt.Sprintf("%s = %s", c, s.placeholder(n)))
		args = append(args, match[c])
		n++
	}
	if len(where) == 0 {
		return fmt.Errorf("delete on %s requires a filter", collection)
	}

	query := fmt.Sprintf("DELETE FROM %s WHERE %s", collection, strings.Join(where, " AND "))
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to delete from %s: %w", collection, err)
	}
	return nil
}

func (s *SQLStore) Upsert(ctx context.Context, collection string, rec Row, conflictKey string) error {
	if err := checkIdent(collection); err != nil {
		return err
	}
	if err := checkIdent(conflictKey); err != nil {
		return err
	}
	if _, ok := rec[conflictKey]; !ok {
		return fmt.Errorf("upsert into %s: record lacks conflict key %s", collection, conflictKey)
	}

	cols := sortedColumns(rec)
	placeholders := make([]string, len(cols))
	args := make([]any, len(cols))
	var updates []string
	for i, c := range cols {
		if err := checkIdent(c); err != nil {
			return err
		}
		placeholders[i] = s.placeholder(i + 1)
		args[i] = rec[c]
		if c != conflictKey {
			updates = append(updates, fmt.Sprintf("%s = excluded.%s", c, c))
		}
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (%s) DO UPDATE SET %s",
		collection, strings.Join(cols, ", "), strings.Join(placeholders, ", "),
		conflictKey, strings.Join(updates, ", "))
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to upsert into %s: %w", collection, err)
	}
	return nil
}
