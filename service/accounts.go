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

// Accounts is the record service for account holders.
type Accounts struct {
	store  *storage.Store
	cache  cache.CacheService
	logger *slog.Logger
}

// NewAccounts creates the account service. A nil logger falls back to
// slog.Default().
func NewAccounts(store *storage.Store, cacheService cache.CacheService, logger *slog.Logger) *Accounts {
	if logger == nil {
		logger = slog.Default()
	}
	return &Accounts{store: store, cache: cacheService, logger: logger}
}

// Create registers a new account. Registration is open: there is no
// authorization check, only validation. Email uniqueness is enforced by the
// store's unique constraint and reported as a business-rule failure. The
// point cache is populated before returning so the creator's next lookup
// hits.
func (s *Accounts) Create(ctx context.Context, in model.AccountInput) (model.AccountRecord, error) {
	if err := in.Validate(); err != nil {
		return model.AccountRecord{}, errs.Validationf("invalid account: %v", err)
	}

	a := model.AccountFromInput(in)
	if err := s.store.Accounts().Insert(ctx, a); err != nil {
		return model.AccountRecord{}, err
	}

	record := model.AccountToRecord(a)
	s.populate(ctx, cache.Key(cache.NSAccounts, record.ID), record)
	s.logger.Info("account created", "id", record.ID)
	return record, nil
}

// GetByID returns one account through the read-through point cache. Callers
// may only read their own account unless they are administrators.
func (s *Accounts) GetByID(ctx context.Context, id int64) (model.AccountRecord, error) {
	if err := auth.Authorize(ctx, id); err != nil {
		return model.AccountRecord{}, err
	}
	return cache.GetOrFetch(ctx, s.cache, cache.Key(cache.NSAccounts, id),
		func(ctx context.Context) (model.AccountRecord, error) {
			a, err := s.store.Accounts().ByID(ctx, id)
			if err != nil {
				return model.AccountRecord{}, err
			}
			return model.AccountToRecord(a), nil
		})
}

// List returns one page of accounts plus the total match count. Listing is
// an administrative operation whether or not a name filter is supplied.
// Results are served straight from the store and never cached.
func (s *Accounts) List(ctx context.Context, name, surname string, page storage.Page) ([]model.AccountRecord, int, error) {
	if err := auth.AuthorizeAdmin(ctx); err != nil {
		return nil, 0, err
	}
	accounts, total, err := s.store.Accounts().Scan(ctx,
		storage.AccountNameFilter(name, surname), page)
	if err != nil {
		return nil, 0, err
	}
	return model.AccountsToRecords(accounts), total, nil
}

// Update applies the editable name fields as a single bulk conditional
// update. Zero affected rows means the account does not exist. The stale
// point entry is evicted, then the fresh row is re-cached.
func (s *Accounts) Update(ctx context.Context, id int64, u model.AccountUpdate) (model.AccountRecord, error) {
	if err := auth.Authorize(ctx, id); err != nil {
		return model.AccountRecord{}, err
	}
	if err := u.Validate(); err != nil {
		return model.AccountRecord{}, errs.Validationf("invalid account update: %v", err)
	}

	affected, err := s.store.Accounts().UpdateName(ctx, id, u.Name, u.Surname)
	if err != nil {
		return model.AccountRecord{}, err
	}
	if affected == 0 {
		return model.AccountRecord{}, errs.NotFoundf("account %d not found", id)
	}

	key := cache.Key(cache.NSAccounts, id)
	if err := s.evict(ctx, key); err != nil {
		return model.AccountRecord{}, err
	}

	a, err := s.store.Accounts().ByID(ctx, id)
	if err != nil {
		return model.AccountRecord{}, err
	}
	record := model.AccountToRecord(a)
	s.populate(ctx, key, record)
	return record, nil
}

// SetActive flips the account's active flag in place. Zero affected rows
// means the account does not exist. The point entry is evicted so the next
// lookup observes the new flag.
func (s *Accounts) SetActive(ctx context.Context, id int64, active bool) error {
	if err := auth.Authorize(ctx, id); err != nil {
		return err
	}

	affected, err := s.store.Accounts().SetActive(ctx, id, active)
	if err != nil {
		return err
	}
	if affected == 0 {
		return errs.NotFoundf("account %d not found", id)
	}
	return s.evict(ctx, cache.Key(cache.NSAccounts, id))
}

// Delete removes the account and all of its cards in one transaction. The
// owned card ids are collected inside the transaction so their point
// entries, the owner's collection entry, and the account's point entry can
// all be evicted before returning.
func (s *Accounts) Delete(ctx context.Context, id int64) error {
	if err := auth.Authorize(ctx, id); err != nil {
		return err
	}

	var cardIDs []int64
	err := s.store.RunInTx(ctx, func(ctx context.Context, tx *storage.Store) error {
		cards, err := tx.Cards().ByOwner(ctx, id)
		if err != nil {
			return err
		}
		for _, c := range cards {
			cardIDs = append(cardIDs, c.ID)
		}
		if _, err := tx.Cards().DeleteByOwner(ctx, id); err != nil {
			return err
		}
		affected, err := tx.Accounts().Delete(ctx, id)
		if err != nil {
			return err
		}
		if affected == 0 {
			return errs.NotFoundf("account %d not found", id)
		}
		return nil
	})
	if err != nil {
		return err
	}

	keys := []string{
		cache.Key(cache.NSAccounts, id),
		cache.Key(cache.NSCardsByOwner, id),
	}
	for _, cardID := range cardIDs {
		keys = append(keys, cache.Key(cache.NSCards, cardID))
	}
	for _, key := range keys {
		if err := s.evict(ctx, key); err != nil {
			return err
		}
	}
	s.logger.Info("account deleted", "id", id, "cards", len(cardIDs))
	return nil
}

func (s *Accounts) populate(ctx context.Context, key string, value any) {
	if err := s.cache.Set(ctx, key, value); err != nil {
		s.logger.Warn("cache populate failed", "key", key, "error", err)
	}
}

func (s *Accounts) evict(ctx context.Context, key string) error {
	if err := s.cache.Delete(ctx, key); err != nil {
		return errs.Internal(err, "evicting %s", key)
	}
	return nil
}
