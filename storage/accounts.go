package storage

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"

	"github.com/goliatone/go-cardholder/errs"
	"github.com/goliatone/go-cardholder/model"
)

var accountSortColumns = map[string]string{
	"id":      "id",
	"name":    "name",
	"surname": "surname",
	"email":   "email",
}

// AccountStore persists account rows.
type AccountStore struct {
	db     bun.IDB
	logger *slog.Logger
}

// Insert persists a new account and assigns its id. The email column's
// unique constraint is the only uniqueness enforcement; there is no
// pre-check.
func (s *AccountStore) Insert(ctx context.Context, a *model.Account) error {
	now := time.Now()
	a.CreatedAt = now
	a.UpdatedAt = now

	if _, err := s.db.NewInsert().Model(a).Exec(ctx); err != nil {
		s.logger.Error("account insert failed", "email", a.Email, "error", err)
		if isUniqueViolation(err) {
			return errs.BusinessRulef("email %s is already registered", a.Email)
		}
		return errs.Internal(err, "inserting account")
	}
	return nil
}

// ByID returns the account with the given id, or NotFound.
func (s *AccountStore) ByID(ctx context.Context, id int64) (*model.Account, error) {
	a := new(model.Account)
	err := s.db.NewSelect().Model(a).Where("a.id = ?", id).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.NotFoundf("account %d not found", id)
		}
		return nil, errs.Internal(err, "loading account %d", id)
	}
	return a, nil
}

// ByIDForUpdate loads the account while taking a row lock that lasts until
// the surrounding transaction commits. On Postgres this serializes
// concurrent card creates for the same owner; sqlite serializes writing
// transactions on its own, so the lock clause is skipped there.
func (s *AccountStore) ByIDForUpdate(ctx context.Context, id int64) (*model.Account, error) {
	a := new(model.Account)
	q := s.db.NewSelect().Model(a).Where("a.id = ?", id)
	if s.db.Dialect().Name() == dialect.PG {
		q = q.For("UPDATE")
	}
	if err := q.Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.NotFoundf("account %d not found", id)
		}
		return nil, errs.Internal(err, "locking account %d", id)
	}
	return a, nil
}

// Exists reports whether an account row with the given id exists.
func (s *AccountStore) Exists(ctx context.Context, id int64) (bool, error) {
	exists, err := s.db.NewSelect().Model((*model.Account)(nil)).Where("a.id = ?", id).Exists(ctx)
	if err != nil {
		return false, errs.Internal(err, "checking account %d", id)
	}
	return exists, nil
}

// Scan returns one page of accounts matching the criteria, plus the total
// match count ignoring pagination.
func (s *AccountStore) Scan(ctx context.Context, criteria repository.SelectCriteria, page Page) ([]model.Account, int, error) {
	var accounts []model.Account
	q := s.db.NewSelect().Model(&accounts)
	if criteria != nil {
		q = q.Apply(criteria)
	}

	p := page.normalized()
	total, err := q.Order(orderExpr(p.SortBy, accountSortColumns)).
		Limit(p.Size).
		Offset(p.Number * p.Size).
		ScanAndCount(ctx)
	if err != nil {
		return nil, 0, errs.Internal(err, "scanning accounts")
	}
	return accounts, total, nil
}

// UpdateName applies the editable name fields directly at the storage
// layer, without loading the row, and reports how many rows were touched.
func (s *AccountStore) UpdateName(ctx context.Context, id int64, name, surname string) (int64, error) {
	res, err := s.db.NewUpdate().Model((*model.Account)(nil)).
		Set("name = ?", name).
		Set("surname = ?", surname).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return 0, errs.Internal(err, "updating account %d", id)
	}
	return rowsAffected(res)
}

// SetActive flips the active flag in place and reports how many rows were
// touched.
func (s *AccountStore) SetActive(ctx context.Context, id int64, active bool) (int64, error) {
	res, err := s.db.NewUpdate().Model((*model.Account)(nil)).
		Set("active = ?", active).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return 0, errs.Internal(err, "updating account %d active flag", id)
	}
	return rowsAffected(res)
}

// Delete removes the account row and reports how many rows were touched.
// Cascading the owner's cards is the service's job, inside the same
// transaction.
func (s *AccountStore) Delete(ctx context.Context, id int64) (int64, error) {
	res, err := s.db.NewDelete().Model((*model.Account)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return 0, errs.Internal(err, "deleting account %d", id)
	}
	return rowsAffected(res)
}

func rowsAffected(res sql.Result) (int64, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return 0, errs.Internal(err, "reading affected row count")
	}
	return n, nil
}
