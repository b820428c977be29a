// Package store is the SQLite-backed ledger: categories and cost entries
// scoped by account, plus the grouped aggregation query behind the stat
// reports. Every write is durable before the call returns.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"costbot/internal/core"

	_ "modernc.org/sqlite"
)

// ErrConflict is returned when a category alias already exists for the
// account. The handlers pre-check via FindCategoryByAlias, but the UNIQUE
// constraint keeps the invariant when the pre-check races.
var ErrConflict = errors.New("category alias already exists")

type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at dbPath and runs migrations.
func Open(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

// OpenInMemory opens a private in-memory database, used by tests.
func OpenInMemory() (*Store, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open in-memory database: %w", err)
	}
	// An in-memory database is private to its connection; cap the pool at
	// one so migrations and queries all see the same database.
	db.SetMaxOpenConns(1)

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// ListCategories returns the account's categories in creation order.
func (s *Store) ListCategories(ctx context.Context, account core.Account) ([]core.Category, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, account, alias, name FROM categories WHERE account = ? ORDER BY id`,
		int64(account))
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var cats []core.Category
	for rows.Next() {
		var c core.Category
		if err := rows.Scan(&c.ID, &c.Account, &c.Alias, &c.Name); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		cats = append(cats, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return cats, nil
}

// FindCategoryByAlias returns the category with the exact alias, or nil
// when the account has none.
func (s *Store) FindCategoryByAlias(ctx context.Context, account core.Account, alias string) (*core.Category, error) {
	var c core.Category
	err := s.db.QueryRowContext(ctx,
		`SELECT id, account, alias, name FROM categories WHERE account = ? AND alias = ? LIMIT 1`,
		int64(account), alias).Scan(&c.ID, &c.Account, &c.Alias, &c.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by alias: %w", err)
	}
	return &c, nil
}

// CreateCategory inserts a category and returns its id. Returns ErrConflict
// when (account, alias) already exists.
func (s *Store) CreateCategory(ctx context.Context, account core.Account, alias, name string) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO categories (account, alias, name) VALUES (?, ?, ?)`,
		int64(account), alias, name)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrConflict
		}
		return 0, fmt.Errorf("create category: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("create category id: %w", err)
	}

	slog.InfoContext(ctx, "Category created",
		"id", id,
		"account", int64(account),
		"alias", alias)
	return id, nil
}

// RenameCategory updates alias and name of the category addressed by its
// stable id. Addressing by id rather than by current alias keeps two
// interleaved renames from shifting which row the alias points at.
func (s *Store) RenameCategory(ctx context.Context, account core.Account, id int64, newAlias, newName string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE categories SET alias = ?, name = ? WHERE id = ? AND account = ?`,
		newAlias, newName, id, int64(account))
	if err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return fmt.Errorf("rename category: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rename category rows: %w", err)
	}
	if n == 0 {
		return core.ErrUnknownCategory
	}

	slog.InfoContext(ctx, "Category renamed",
		"id", id,
		"account", int64(account),
		"alias", newAlias)
	return nil
}

// CreateCost inserts a cost entry and returns its id. A zero timestamp
// defaults to now.
func (s *Store) CreateCost(ctx context.Context, categoryID int64, amount core.Money, at time.Time) (int64, error) {
	if at.IsZero() {
		at = time.Now().UTC()
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO costs (category_id, at, amount_cents) VALUES (?, ?, ?)`,
		categoryID, at.Unix(), amount.Cents)
	if err != nil {
		return 0, fmt.Errorf("create cost: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("create cost id: %w", err)
	}

	slog.InfoContext(ctx, "Cost created",
		"id", id,
		"category_id", categoryID,
		"amount_cents", amount.Cents)
	return id, nil
}

// RemoveLastCost deletes and returns the account's most recently created
// cost entry, or nil when there is nothing to remove. "Most recent" means
// highest insertion id, not latest logged timestamp: a back-dated entry
// logged last is still the one removed.
func (s *Store) RemoveLastCost(ctx context.Context, account core.Account) (*core.CostEntry, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin remove last cost: %w", err)
	}
	defer tx.Rollback()

	var e core.CostEntry
	var at int64
	err = tx.QueryRowContext(ctx,
		`SELECT s.id, s.category_id, s.at, s.amount_cents
		 FROM costs s JOIN categories c ON s.category_id = c.id
		 WHERE c.account = ?
		 ORDER BY s.id DESC LIMIT 1`,
		int64(account)).Scan(&e.ID, &e.CategoryID, &at, &e.Amount.Cents)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find last cost: %w", err)
	}
	e.At = time.Unix(at, 0).UTC()

	if _, err := tx.ExecContext(ctx, `DELETE FROM costs WHERE id = ?`, e.ID); err != nil {
		return nil, fmt.Errorf("delete last cost: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit remove last cost: %w", err)
	}

	slog.InfoContext(ctx, "Cost removed",
		"id", e.ID,
		"account", int64(account))
	return &e, nil
}

// GetCost returns a single cost entry with its category, used by the
// export worker.
func (s *Store) GetCost(ctx context.Context, id int64) (core.CostEntry, core.Category, error) {
	var e core.CostEntry
	var c core.Category
	var at int64
	err := s.db.QueryRowContext(ctx,
		`SELECT s.id, s.category_id, s.at, s.amount_cents, c.id, c.account, c.alias, c.name
		 FROM costs s JOIN categories c ON s.category_id = c.id
		 WHERE s.id = ?`,
		id).Scan(&e.ID, &e.CategoryID, &at, &e.Amount.Cents, &c.ID, &c.Account, &c.Alias, &c.Name)
	if err != nil {
		return core.CostEntry{}, core.Category{}, fmt.Errorf("get cost %d: %w", id, err)
	}
	e.At = time.Unix(at, 0).UTC()
	return e, c, nil
}

// QueryStats aggregates cost entries per category over the half-open
// window [From, To). Zero bounds are unbounded. Sums are computed in
// integer cents inside the database; no floating point is involved.
func (s *Store) QueryStats(ctx context.Context, account core.Account, w core.Window) (core.Stat, error) {
	q := `SELECT c.alias, c.name, count(*), sum(s.amount_cents)
	      FROM costs s JOIN categories c ON s.category_id = c.id
	      WHERE c.account = ?`
	args := []any{int64(account)}
	if !w.From.IsZero() {
		q += ` AND s.at >= ?`
		args = append(args, w.From.Unix())
	}
	if !w.To.IsZero() {
		q += ` AND s.at < ?`
		args = append(args, w.To.Unix())
	}
	q += ` GROUP BY c.id ORDER BY c.id`

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return core.Stat{}, fmt.Errorf("query stats: %w", err)
	}
	defer rows.Close()

	var stat core.Stat
	for rows.Next() {
		var g core.StatGroup
		if err := rows.Scan(&g.Alias, &g.Name, &g.Count, &g.Amount.Cents); err != nil {
			return core.Stat{}, fmt.Errorf("scan stat group: %w", err)
		}
		stat.Groups = append(stat.Groups, g)
	}
	if err := rows.Err(); err != nil {
		return core.Stat{}, fmt.Errorf("query stats: %w", err)
	}
	return stat, nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
