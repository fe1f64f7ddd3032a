package storage

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-cardholder/errs"
	"github.com/goliatone/go-cardholder/model"
)

var cardSortColumns = map[string]string{
	"id":     "id",
	"number": "number",
	"holder": "holder",
}

// CardStore persists payment card rows.
type CardStore struct {
	db     bun.IDB
	logger *slog.Logger
}

// Insert persists a new card and assigns its id. The owner id must already
// have been resolved against the account store by the caller.
func (s *CardStore) Insert(ctx context.Context, c *model.Card) error {
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now

	if _, err := s.db.NewInsert().Model(c).Exec(ctx); err != nil {
		s.logger.Error("card insert failed", "account_id", c.AccountID, "error", err)
		return errs.Internal(err, "inserting card for account %d", c.AccountID)
	}
	return nil
}

// ByID returns the card with the given id, or NotFound.
func (s *CardStore) ByID(ctx context.Context, id int64) (*model.Card, error) {
	c := new(model.Card)
	err := s.db.NewSelect().Model(c).Where("c.id = ?", id).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.NotFoundf("card %d not found", id)
		}
		return nil, errs.Internal(err, "loading card %d", id)
	}
	return c, nil
}

// ByOwner returns every card owned by the given account, ordered by id. An
// owner with no cards yields an empty slice, not an error.
func (s *CardStore) ByOwner(ctx context.Context, ownerID int64) ([]model.Card, error) {
	var cards []model.Card
	err := s.db.NewSelect().Model(&cards).
		Where("c.account_id = ?", ownerID).
		Order("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, errs.Internal(err, "loading cards for account %d", ownerID)
	}
	return cards, nil
}

// CountByOwner returns the number of cards owned by the given account.
func (s *CardStore) CountByOwner(ctx context.Context, ownerID int64) (int, error) {
	n, err := s.db.NewSelect().Model((*model.Card)(nil)).
		Where("c.account_id = ?", ownerID).
		Count(ctx)
	if err != nil {
		return 0, errs.Internal(err, "counting cards for account %d", ownerID)
	}
	return n, nil
}

// Scan returns one page of cards matching the criteria, plus the total
// match count ignoring pagination. Criteria may join through the owning
// account, as the owner-name filter does.
func (s *CardStore) Scan(ctx context.Context, criteria repository.SelectCriteria, page Page) ([]model.Card, int, error) {
	var cards []model.Card
	q := s.db.NewSelect().Model(&cards)
	if criteria != nil {
		q = q.Apply(criteria)
	}

	p := page.normalized()
	total, err := q.Order(orderExpr(p.SortBy, cardSortColumns)).
		Limit(p.Size).
		Offset(p.Number * p.Size).
		ScanAndCount(ctx)
	if err != nil {
		return nil, 0, errs.Internal(err, "scanning cards")
	}
	return cards, total, nil
}

// UpdateCard applies the editable number and holder fields directly at the
// storage layer and reports how many rows were touched.
func (s *CardStore) UpdateCard(ctx context.Context, id int64, number, holder string) (int64, error) {
	res, err := s.db.NewUpdate().Model((*model.Card)(nil)).
		Set("number = ?", number).
		Set("holder = ?", holder).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return 0, errs.Internal(err, "updating card %d", id)
	}
	return rowsAffected(res)
}

// SetActive flips the active flag in place and reports how many rows were
// touched.
func (s *CardStore) SetActive(ctx context.Context, id int64, active bool) (int64, error) {
	res, err := s.db.NewUpdate().Model((*model.Card)(nil)).
		Set("active = ?", active).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return 0, errs.Internal(err, "updating card %d active flag", id)
	}
	return rowsAffected(res)
}

// Delete removes the card row and reports how many rows were touched.
func (s *CardStore) Delete(ctx context.Context, id int64) (int64, error) {
	res, err := s.db.NewDelete().Model((*model.Card)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return 0, errs.Internal(err, "deleting card %d", id)
	}
	return rowsAffected(res)
}

// DeleteByOwner removes every card owned by the given account and reports
// how many rows were touched. Used by the account-delete cascade.
func (s *CardStore) DeleteByOwner(ctx context.Context, ownerID int64) (int64, error) {
	res, err := s.db.NewDelete().Model((*model.Card)(nil)).Where("account_id = ?", ownerID).Exec(ctx)
	if err != nil {
		return 0, errs.Internal(err, "deleting cards for account %d", ownerID)
	}
	return rowsAffected(res)
}
