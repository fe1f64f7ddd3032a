package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-cardholder/cache"
	"github.com/goliatone/go-cardholder/model"
	"github.com/goliatone/go-cardholder/pkg/testsupport"
	"github.com/goliatone/go-cardholder/service"
	"github.com/goliatone/go-cardholder/storage"
)

// newServices wires both record services over a shared in-memory store and
// a shared cache, mirroring production wiring.
func newServices(t *testing.T) (*service.Accounts, *service.Cards, *storage.Store) {
	t.Helper()

	store := testsupport.NewTestStore(t)
	cacheService, err := cache.NewCacheService(cache.DefaultConfig())
	require.NoError(t, err)

	return service.NewAccounts(store, cacheService, nil),
		service.NewCards(store, cacheService, nil),
		store
}

func accountInput() model.AccountInput {
	return model.AccountInput{
		Name:      "John",
		Surname:   "Doe",
		BirthDate: time.Date(1990, 4, 12, 0, 0, 0, 0, time.UTC),
		Email:     testsupport.UniqueEmail(),
		Active:    true,
	}
}

func cardInput(ownerID int64, n int) model.CardInput {
	return model.CardInput{
		AccountID:      ownerID,
		Number:         testsupport.CardNumber(n),
		Holder:         "JOHN DOE",
		ExpirationDate: time.Now().AddDate(2, 0, 0),
		Active:         true,
	}
}

// createAccount registers an account and returns it with its owner context.
func createAccount(t *testing.T, accounts *service.Accounts) (model.AccountRecord, context.Context) {
	t.Helper()

	record, err := accounts.Create(context.Background(), accountInput())
	require.NoError(t, err)
	return record, testsupport.OwnerContext(record.ID)
}
