// Package storage implements the transactional relational store for
// accounts and payment cards on top of bun.
//
// The store exposes point lookups, predicate-filtered paginated scans, and
// bulk conditional updates. Bulk updates apply directly at the storage
// layer without loading the row first and report how many rows they
// touched, so callers can tell "not found" (0 rows) from "updated" (1 row)
// without a second query.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
)

// Store bundles the entity sub-stores over a shared bun handle, which may
// be the root *bun.DB or a transaction.
type Store struct {
	db     bun.IDB
	logger *slog.Logger
}

// New creates a Store over db. A nil logger falls back to slog.Default().
func New(db bun.IDB, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{db: db, logger: logger}
}

// Accounts returns the account sub-store bound to the current executor.
func (s *Store) Accounts() *AccountStore {
	return &AccountStore{db: s.db, logger: s.logger}
}

// Cards returns the card sub-store bound to the current executor.
func (s *Store) Cards() *CardStore {
	return &CardStore{db: s.db, logger: s.logger}
}

// RunInTx executes fn inside a single database transaction. Every store
// method called through the tx-bound Store shares the transaction. If the
// Store is already transactional, fn joins the open transaction instead of
// nesting a new one.
func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context, tx *Store) error) error {
	db, ok := s.db.(*bun.DB)
	if !ok {
		return fn(ctx, s)
	}
	return db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		return fn(ctx, &Store{db: tx, logger: s.logger})
	})
}

// Page describes pagination and ordering for scan operations.
type Page struct {
	Number int
	Size   int
	SortBy string
}

// DefaultPage mirrors the caller-facing defaults: first page, 10 records,
// ordered by id.
func DefaultPage() Page {
	return Page{Number: 0, Size: 10, SortBy: "id"}
}

func (p Page) normalized() Page {
	if p.Size <= 0 {
		p.Size = 10
	}
	if p.Number < 0 {
		p.Number = 0
	}
	return p
}

// orderExpr maps the requested sort key onto a whitelisted column. Unknown
// keys fall back to id; the sort key is caller input and never reaches SQL
// verbatim.
func orderExpr(sortBy string, allowed map[string]string) string {
	if col, ok := allowed[sortBy]; ok {
		return col + " ASC"
	}
	return "id ASC"
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}
