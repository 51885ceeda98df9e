package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/adfharrison1/bookshelf/pkg/domain"
)

// Store implements domain.BookStore on one table.
type Store struct {
	db    *sql.DB
	table string
}

// Name returns the table name.
func (s *Store) Name() string { return s.table }

// Count implements domain.BookStore.
func (s *Store) Count(ctx context.Context, filter domain.Filter) (int64, error) {
	if err := filter.Validate(); err != nil {
		return 0, err
	}
	return s.count(ctx, s.db, filter)
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *Store) count(ctx context.Context, q queryer, filter domain.Filter) (int64, error) {
	where, args := whereClause(filter)
	var n int64
	err := q.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+quote(s.table)+where, args...).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", s.table, err)
	}
	return n, nil
}

// Find implements domain.BookStore.
func (s *Store) Find(ctx context.Context, filter domain.Filter, opts *domain.FindOptions) ([]domain.Book, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if opts == nil {
		opts = &domain.FindOptions{}
	}
	return s.find(ctx, s.db, filter, opts)
}

func (s *Store) find(ctx context.Context, q queryer, filter domain.Filter, opts *domain.FindOptions) ([]domain.Book, error) {
	cols := selectColumns(opts.Projection)
	where, args := whereClause(filter)
	query := "SELECT " + columnList(cols) + " FROM " + quote(s.table) + where +
		orderClause(opts.Sort) + limitClause(opts.Skip, opts.Limit)

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("find in %s: %w", s.table, err)
	}
	defer rows.Close()

	books := []domain.Book{}
	for rows.Next() {
		var b domain.Book
		if err := rows.Scan(destinations(&b, cols)...); err != nil {
			return nil, fmt.Errorf("scan book: %w", err)
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate books: %w", err)
	}
	return books, nil
}

// InsertMany implements domain.BookStore. The batch runs in one transaction.
func (s *Store) InsertMany(ctx context.Context, books []domain.Book) ([]domain.Book, error) {
	if err := domain.ValidateAll(books); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin insert: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	cols := append([]string{"id"}, domain.BookFields...)
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
	stmt, err := tx.PrepareContext(ctx, "INSERT INTO "+quote(s.table)+" ("+columnList(cols)+") VALUES ("+placeholders+")")
	if err != nil {
		return nil, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	out := make([]domain.Book, len(books))
	for i, b := range books {
		if b.ID == "" {
			b.ID = uuid.NewString()
		}
		_, err := stmt.ExecContext(ctx, b.ID, b.Title, b.Author, b.Genre, b.PublishedYear, b.Price, bindValue(b.InStock), b.Pages, b.Publisher)
		if err != nil {
			return nil, fmt.Errorf("insert record %d (%q): %w", i, b.Title, err)
		}
		out[i] = b
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit insert: %w", err)
	}
	return out, nil
}

// DeleteMany implements domain.BookStore.
func (s *Store) DeleteMany(ctx context.Context, filter domain.Filter) (int64, error) {
	if err := filter.Validate(); err != nil {
		return 0, err
	}
	where, args := whereClause(filter)
	res, err := s.db.ExecContext(ctx, "DELETE FROM "+quote(s.table)+where, args...)
	if err != nil {
		return 0, fmt.Errorf("delete from %s: %w", s.table, err)
	}
	return res.RowsAffected()
}

// DeleteOne implements domain.BookStore.
func (s *Store) DeleteOne(ctx context.Context, filter domain.Filter) (int64, error) {
	if err := filter.Validate(); err != nil {
		return 0, err
	}
	where, args := whereClause(filter)
	query := "DELETE FROM " + quote(s.table) +
		" WHERE seq = (SELECT seq FROM " + quote(s.table) + where + " ORDER BY seq LIMIT 1)"
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete from %s: %w", s.table, err)
	}
	return res.RowsAffected()
}

// UpdateOne implements domain.BookStore.
func (s *Store) UpdateOne(ctx context.Context, filter domain.Filter, set domain.Document) (*domain.Book, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	set, err := domain.NormalizeUpdate(set)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin update: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	where, args := whereClause(filter)
	var seq int64
	err = tx.QueryRowContext(ctx, "SELECT seq FROM "+quote(s.table)+where+" ORDER BY seq LIMIT 1", args...).Scan(&seq)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select for update: %w", err)
	}

	fields := make([]string, 0, len(set))
	for k := range set {
		fields = append(fields, k)
	}
	sort.Strings(fields)
	assignments := make([]string, len(fields))
	setArgs := make([]any, 0, len(fields)+1)
	for i, f := range fields {
		assignments[i] = quote(f) + " = ?"
		setArgs = append(setArgs, bindValue(set[f]))
	}
	setArgs = append(setArgs, seq)
	if _, err := tx.ExecContext(ctx, "UPDATE "+quote(s.table)+" SET "+strings.Join(assignments, ", ")+" WHERE seq = ?", setArgs...); err != nil {
		return nil, fmt.Errorf("update %s: %w", s.table, err)
	}

	cols := selectColumns(nil)
	var b domain.Book
	err = tx.QueryRowContext(ctx, "SELECT "+columnList(cols)+" FROM "+quote(s.table)+" WHERE seq = ?", seq).Scan(destinations(&b, cols)...)
	if err != nil {
		return nil, fmt.Errorf("reload updated book: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit update: %w", err)
	}
	return &b, nil
}

// CreateIndex implements domain.BookStore.
func (s *Store) CreateIndex(ctx context.Context, spec domain.IndexSpec) (string, error) {
	if err := spec.Validate(); err != nil {
		return "", err
	}
	parts := make([]string, len(spec.Keys))
	for i, k := range spec.Keys {
		dir := "ASC"
		if k.Desc {
			dir = "DESC"
		}
		parts[i] = quote(k.Field) + " " + dir
	}
	name := spec.Name()
	stmt := fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON %s (%s)", quote(s.indexName(name)), quote(s.table), strings.Join(parts, ", "))
	if _, err := s.db.ExecContext(ctx, stmt); err != nil {
		return "", fmt.Errorf("create index %s: %w", name, err)
	}
	return name, nil
}

// indexName prefixes name with the table, since SQLite index names are
// shared by every table of the database.
func (s *Store) indexName(name string) string {
	return s.table + "_" + name
}

// Explain reports the index SQLite plans to use and times the query.
// SQLite has no examined-rows counter: a full scan examines every row and
// an index search examines the rows matching the index columns.
func (s *Store) Explain(ctx context.Context, filter domain.Filter) (*domain.ExplainStats, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	where, args := whereClause(filter)
	query := "SELECT " + columnList(selectColumns(nil)) + " FROM " + quote(s.table) + where

	sqlIndex, err := s.planIndex(ctx, query, args)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	books, err := s.find(ctx, s.db, filter, &domain.FindOptions{})
	if err != nil {
		return nil, err
	}
	elapsed := time.Since(start)

	examined, err := s.examined(ctx, filter, sqlIndex)
	if err != nil {
		return nil, err
	}
	return &domain.ExplainStats{
		ExecutionTime: elapsed,
		DocsExamined:  examined,
		DocsReturned:  int64(len(books)),
		IndexName:     strings.TrimPrefix(sqlIndex, s.table+"_"),
	}, nil
}

func (s *Store) planIndex(ctx context.Context, query string, args []any) (string, error) {
	rows, err := s.db.QueryContext(ctx, "EXPLAIN QUERY PLAN "+query, args...)
	if err != nil {
		return "", fmt.Errorf("explain query plan: %w", err)
	}
	defer rows.Close()

	var indexName string
	for rows.Next() {
		var id, parent, notUsed int64
		var detail string
		if err := rows.Scan(&id, &parent, &notUsed, &detail); err != nil {
			return "", fmt.Errorf("scan query plan: %w", err)
		}
		if name := indexNameFromPlan(detail); name != "" && indexName == "" {
			indexName = name
		}
	}
	return indexName, rows.Err()
}

func (s *Store) examined(ctx context.Context, filter domain.Filter, indexName string) (int64, error) {
	if indexName == "" {
		return s.count(ctx, s.db, nil)
	}
	rows, err := s.db.QueryContext(ctx, "SELECT name FROM pragma_index_info(?)", indexName)
	if err != nil {
		return 0, fmt.Errorf("index info %s: %w", indexName, err)
	}
	indexed := map[string]bool{}
	for rows.Next() {
		var col string
		if err := rows.Scan(&col); err != nil {
			rows.Close()
			return 0, err
		}
		indexed[col] = true
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, err
	}

	var prefix domain.Filter
	for _, c := range filter {
		if indexed[c.Field] {
			prefix = append(prefix, c)
		}
	}
	return s.count(ctx, s.db, prefix)
}
