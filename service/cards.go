package service

import (
	"context"
	"log/slog"

	"github.com/goliatone/go-cardholder/auth"
	"github.com/goliatone/go-cardholder/cache"
	"github.com/goliatone/go-cardholder/errs"
	"github.com/goliatone/go-cardholder/model"
	"github.com/goliatone/go-cardholder/storage"
)

// maxCardsPerAccount caps how many cards one account may hold.
const maxCardsPerAccount = 5

// Cards is the record service for payment cards.
type Cards struct {
	store  *storage.Store
	cache  cache.CacheService
	logger *slog.Logger
}

// NewCards creates the card service. A nil logger falls back to
// slog.Default().
func NewCards(store *storage.Store, cacheService cache.CacheService, logger *slog.Logger) *Cards {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cards{store: store, cache: cacheService, logger: logger}
}

// Create issues a new card for the owner named in the input. Non-admin
// callers may only issue cards for themselves. Owner existence and the
// per-account card limit are checked inside one transaction with the owner
// row locked, so concurrent creates for the same owner cannot overshoot the
// limit. The point cache is populated and the owner's collection entry
// evicted before returning.
func (s *Cards) Create(ctx context.Context, in model.CardInput) (model.CardRecord, error) {
	if err := in.Validate(); err != nil {
		return model.CardRecord{}, errs.Validationf("invalid card: %v", err)
	}
	if err := auth.Authorize(ctx, in.AccountID); err != nil {
		return model.CardRecord{}, err
	}

	c := model.CardFromInput(in)
	err := s.store.RunInTx(ctx, func(ctx context.Context, tx *storage.Store) error {
		owner, err := tx.Accounts().ByIDForUpdate(ctx, in.AccountID)
		if err != nil {
			return err
		}
		count, err := tx.Cards().CountByOwner(ctx, owner.ID)
		if err != nil {
			return err
		}
		if count >= maxCardsPerAccount {
			return errs.BusinessRulef("account %d already holds the maximum of %d cards", owner.ID, maxCardsPerAccount)
		}
		return tx.Cards().Insert(ctx, c)
	})
	if err != nil {
		return model.CardRecord{}, err
	}

	record := model.CardToRecord(c)
	s.populate(ctx, cache.Key(cache.NSCards, record.ID), record)
	if err := s.evict(ctx, cache.Key(cache.NSCardsByOwner, record.AccountID)); err != nil {
		return model.CardRecord{}, err
	}
	s.logger.Info("card created", "id", record.ID, "owner", record.AccountID)
	return record, nil
}

// GetByID returns one card through the read-through point cache. The owner
// is taken from the loaded row, never from the caller, so the guard runs
// after the fetch. A card that does not exist is reported as not found even
// to callers who could not have read it.
func (s *Cards) GetByID(ctx context.Context, id int64) (model.CardRecord, error) {
	record, err := cache.GetOrFetch(ctx, s.cache, cache.Key(cache.NSCards, id),
		func(ctx context.Context) (model.CardRecord, error) {
			c, err := s.store.Cards().ByID(ctx, id)
			if err != nil {
				return model.CardRecord{}, err
			}
			return model.CardToRecord(c), nil
		})
	if err != nil {
		return model.CardRecord{}, err
	}
	if err := auth.Authorize(ctx, record.AccountID); err != nil {
		return model.CardRecord{}, err
	}
	return record, nil
}

// List returns one page of cards plus the total match count, optionally
// filtered by the owner's name. Listing across owners is an administrative
// operation. Results are served straight from the store and never cached.
func (s *Cards) List(ctx context.Context, ownerName, ownerSurname string, page storage.Page) ([]model.CardRecord, int, error) {
	if err := auth.AuthorizeAdmin(ctx); err != nil {
		return nil, 0, err
	}
	cards, total, err := s.store.Cards().Scan(ctx,
		storage.CardOwnerNameFilter(ownerName, ownerSurname), page)
	if err != nil {
		return nil, 0, err
	}
	return model.CardsToRecords(cards), total, nil
}

// ListByOwner returns every card owned by one account, cached as a
// collection under the owner's id. Owners may list their own cards;
// administrators may list anyone's. An absent owner is not found; an owner
// with no cards is an empty list.
func (s *Cards) ListByOwner(ctx context.Context, ownerID int64) ([]model.CardRecord, error) {
	if err := auth.Authorize(ctx, ownerID); err != nil {
		return nil, err
	}
	return cache.GetOrFetch(ctx, s.cache, cache.Key(cache.NSCardsByOwner, ownerID),
		func(ctx context.Context) ([]model.CardRecord, error) {
			exists, err := s.store.Accounts().Exists(ctx, ownerID)
			if err != nil {
				return nil, err
			}
			if !exists {
				return nil, errs.NotFoundf("account %d not found", ownerID)
			}
			cards, err := s.store.Cards().ByOwner(ctx, ownerID)
			if err != nil {
				return nil, err
			}
			return model.CardsToRecords(cards), nil
		})
}

// Update applies the editable card fields as a single bulk conditional
// update. The row is loaded first only to resolve the owner for the guard;
// the update itself does not depend on the loaded state. The point entry
// and the owner's collection entry are evicted, then the fresh row is
// re-cached.
func (s *Cards) Update(ctx context.Context, id int64, u model.CardUpdate) (model.CardRecord, error) {
	if err := u.Validate(); err != nil {
		return model.CardRecord{}, errs.Validationf("invalid card update: %v", err)
	}

	current, err := s.store.Cards().ByID(ctx, id)
	if err != nil {
		return model.CardRecord{}, err
	}
	if err := auth.Authorize(ctx, current.AccountID); err != nil {
		return model.CardRecord{}, err
	}

	affected, err := s.store.Cards().UpdateCard(ctx, id, u.Number, u.Holder)
	if err != nil {
		return model.CardRecord{}, err
	}
	if affected == 0 {
		return model.CardRecord{}, errs.NotFoundf("card %d not found", id)
	}

	key := cache.Key(cache.NSCards, id)
	if err := s.evict(ctx, key); err != nil {
		return model.CardRecord{}, err
	}
	if err := s.evict(ctx, cache.Key(cache.NSCardsByOwner, current.AccountID)); err != nil {
		return model.CardRecord{}, err
	}

	c, err := s.store.Cards().ByID(ctx, id)
	if err != nil {
		return model.CardRecord{}, err
	}
	record := model.CardToRecord(c)
	s.populate(ctx, key, record)
	return record, nil
}

// SetActive flips the card's active flag in place. Zero affected rows means
// the card does not exist. The point entry and the owner's collection entry
// are evicted so the next lookup observes the new flag.
func (s *Cards) SetActive(ctx context.Context, id int64, active bool) error {
	current, err := s.store.Cards().ByID(ctx, id)
	if err != nil {
		return err
	}
	if err := auth.Authorize(ctx, current.AccountID); err != nil {
		return err
	}

	affected, err := s.store.Cards().SetActive(ctx, id, active)
	if err != nil {
		return err
	}
	if affected == 0 {
		return errs.NotFoundf("card %d not found", id)
	}

	if err := s.evict(ctx, cache.Key(cache.NSCards, id)); err != nil {
		return err
	}
	return s.evict(ctx, cache.Key(cache.NSCardsByOwner, current.AccountID))
}

// Delete removes one card. The point entry and the owner's collection entry
// are evicted before returning.
func (s *Cards) Delete(ctx context.Context, id int64) error {
	current, err := s.store.Cards().ByID(ctx, id)
	if err != nil {
		return err
	}
	if err := auth.Authorize(ctx, current.AccountID); err != nil {
		return err
	}

	affected, err := s.store.Cards().Delete(ctx, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return errs.NotFoundf("card %d not found", id)
	}

	if err := s.evict(ctx, cache.Key(cache.NSCards, id)); err != nil {
		return err
	}
	if err := s.evict(ctx, cache.Key(cache.NSCardsByOwner, current.AccountID)); err != nil {
		return err
	}
	s.logger.Info("card deleted", "id", id, "owner", current.AccountID)
	return nil
}

func (s *Cards) populate(ctx context.Context, key string, value any) {
	if err := s.cache.Set(ctx, key, value); err != nil {
		s.logger.Warn("cache populate failed", "key", key, "error", err)
	}
}

func (s *Cards) evict(ctx context.Context, key string) error {
	if err := s.cache.Delete(ctx, key); err != nil {
		return errs.Internal(err, "evicting %s", key)
	}
	return nil
}
