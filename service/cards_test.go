package service_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-cardholder/errs"
	"github.com/goliatone/go-cardholder/model"
	"github.com/goliatone/go-cardholder/pkg/testsupport"
	"github.com/goliatone/go-cardholder/storage"
)

func TestCardsCreate(t *testing.T) {
	accounts, cards, _ := newServices(t)

	owner, ownerCtx := createAccount(t, accounts)

	in := cardInput(owner.ID, 1)
	record, err := cards.Create(ownerCtx, in)
	require.NoError(t, err)
	assert.NotZero(t, record.ID)
	assert.Equal(t, owner.ID, record.AccountID)
	assert.Equal(t, in.Number, record.Number)
}

func TestCardsCreate_Validation(t *testing.T) {
	accounts, cards, _ := newServices(t)

	owner, ownerCtx := createAccount(t, accounts)

	cases := map[string]func(*model.CardInput){
		"short number":    func(in *model.CardInput) { in.Number = "123456789012345" },
		"alpha number":    func(in *model.CardInput) { in.Number = "4000abcd00000000" },
		"missing holder":  func(in *model.CardInput) { in.Holder = "" },
		"expired card":    func(in *model.CardInput) { in.ExpirationDate = in.ExpirationDate.AddDate(-10, 0, 0) },
		"missing account": func(in *model.CardInput) { in.AccountID = 0 },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			in := cardInput(owner.ID, 1)
			mutate(&in)
			_, err := cards.Create(ownerCtx, in)
			assert.True(t, errs.IsValidation(err), "expected validation failure, got %v", err)
		})
	}
}

func TestCardsCreate_OwnerMissing(t *testing.T) {
	_, cards, _ := newServices(t)

	_, err := cards.Create(testsupport.AdminContext(), cardInput(9999, 1))
	assert.True(t, errs.IsNotFound(err), "expected not-found, got %v", err)
}

func TestCardsCreate_Authorization(t *testing.T) {
	accounts, cards, _ := newServices(t)

	owner, _ := createAccount(t, accounts)

	t.Run("caller may not issue for another account", func(t *testing.T) {
		_, err := cards.Create(testsupport.OwnerContext(owner.ID+1), cardInput(owner.ID, 1))
		assert.True(t, errs.IsForbidden(err))
	})

	t.Run("admin may issue for anyone", func(t *testing.T) {
		_, err := cards.Create(testsupport.AdminContext(), cardInput(owner.ID, 2))
		assert.NoError(t, err)
	})
}

func TestCardsCreate_Limit(t *testing.T) {
	accounts, cards, _ := newServices(t)

	owner, ownerCtx := createAccount(t, accounts)

	for i := 0; i < 5; i++ {
		_, err := cards.Create(ownerCtx, cardInput(owner.ID, i))
		require.NoError(t, err, "card %d within the limit", i+1)
	}

	_, err := cards.Create(ownerCtx, cardInput(owner.ID, 5))
	assert.True(t, errs.IsBusinessRule(err), "expected business-rule failure, got %v", err)
}

func TestCardsCreate_LimitUnderConcurrency(t *testing.T) {
	accounts, cards, store := newServices(t)

	owner, ownerCtx := createAccount(t, accounts)

	const attempts = 10
	results := make([]error, attempts)

	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = cards.Create(ownerCtx, cardInput(owner.ID, i))
		}(i)
	}
	wg.Wait()

	created := 0
	for _, err := range results {
		if err == nil {
			created++
			continue
		}
		assert.True(t, errs.IsBusinessRule(err), "rejected attempt must fail the limit check, got %v", err)
	}
	assert.Equal(t, 5, created)

	n, err := store.Cards().CountByOwner(context.Background(), owner.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, n, "the store must never overshoot the limit")
}

func TestCardsGetByID_ServedFromCache(t *testing.T) {
	accounts, cards, store := newServices(t)

	owner, ownerCtx := createAccount(t, accounts)
	record, err := cards.Create(ownerCtx, cardInput(owner.ID, 1))
	require.NoError(t, err)

	// Remove the row behind the cache's back. The point entry populated by
	// Create must still answer the lookup.
	affected, err := store.Cards().Delete(context.Background(), record.ID)
	require.NoError(t, err)
	require.EqualValues(t, 1, affected)

	got, err := cards.GetByID(ownerCtx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, record, got)
}

func TestCardsGetByID_Authorization(t *testing.T) {
	accounts, cards, _ := newServices(t)

	owner, ownerCtx := createAccount(t, accounts)
	record, err := cards.Create(ownerCtx, cardInput(owner.ID, 1))
	require.NoError(t, err)

	t.Run("owner reads own card", func(t *testing.T) {
		got, err := cards.GetByID(ownerCtx, record.ID)
		require.NoError(t, err)
		assert.Equal(t, record.ID, got.ID)
	})

	t.Run("admin reads any card", func(t *testing.T) {
		_, err := cards.GetByID(testsupport.AdminContext(), record.ID)
		assert.NoError(t, err)
	})

	t.Run("foreign caller is denied, not told not-found", func(t *testing.T) {
		_, err := cards.GetByID(testsupport.OwnerContext(owner.ID+1), record.ID)
		assert.True(t, errs.IsForbidden(err), "expected denial, got %v", err)
	})

	t.Run("absent card is not found even for non-owners", func(t *testing.T) {
		_, err := cards.GetByID(testsupport.OwnerContext(owner.ID+1), 9999)
		assert.True(t, errs.IsNotFound(err))
	})
}

func TestCardsList(t *testing.T) {
	accounts, cards, _ := newServices(t)
	admin := testsupport.AdminContext()

	john, johnCtx := createAccount(t, accounts)
	amyIn := accountInput()
	amyIn.Name = "Amy"
	amyIn.Surname = "Jones"
	amy, err := accounts.Create(context.Background(), amyIn)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err := cards.Create(johnCtx, cardInput(john.ID, i))
		require.NoError(t, err)
	}
	_, err = cards.Create(testsupport.OwnerContext(amy.ID), cardInput(amy.ID, 0))
	require.NoError(t, err)

	t.Run("admin filters by owner name", func(t *testing.T) {
		records, total, err := cards.List(admin, "john", "", storage.DefaultPage())
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		for _, r := range records {
			assert.Equal(t, john.ID, r.AccountID)
		}
	})

	t.Run("admin lists unfiltered", func(t *testing.T) {
		_, total, err := cards.List(admin, "", "", storage.DefaultPage())
		require.NoError(t, err)
		assert.Equal(t, 3, total)
	})

	t.Run("non-admin is denied", func(t *testing.T) {
		_, _, err := cards.List(johnCtx, "", "", storage.DefaultPage())
		assert.True(t, errs.IsForbidden(err))
	})
}

func TestCardsListByOwner(t *testing.T) {
	accounts, cards, store := newServices(t)

	owner, ownerCtx := createAccount(t, accounts)

	first, err := cards.Create(ownerCtx, cardInput(owner.ID, 1))
	require.NoError(t, err)

	records, err := cards.ListByOwner(ownerCtx, owner.ID)
	require.NoError(t, err)
	require.Len(t, records, 1)

	// The collection is cached: a row removed behind the cache's back stays
	// visible until a service write evicts the entry.
	_, err = store.Cards().Delete(context.Background(), first.ID)
	require.NoError(t, err)

	records, err = cards.ListByOwner(ownerCtx, owner.ID)
	require.NoError(t, err)
	assert.Len(t, records, 1, "collection entry should still be cached")

	// A create through the service evicts the stale collection.
	second, err := cards.Create(ownerCtx, cardInput(owner.ID, 2))
	require.NoError(t, err)

	records, err = cards.ListByOwner(ownerCtx, owner.ID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, second.ID, records[0].ID)
}

func TestCardsListByOwner_Authorization(t *testing.T) {
	accounts, cards, _ := newServices(t)

	owner, ownerCtx := createAccount(t, accounts)

	t.Run("owner with no cards gets an empty list", func(t *testing.T) {
		records, err := cards.ListByOwner(ownerCtx, owner.ID)
		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("foreign caller is denied", func(t *testing.T) {
		_, err := cards.ListByOwner(testsupport.OwnerContext(owner.ID+1), owner.ID)
		assert.True(t, errs.IsForbidden(err))
	})

	t.Run("admin lists an absent owner as not found", func(t *testing.T) {
		_, err := cards.ListByOwner(testsupport.AdminContext(), 9999)
		assert.True(t, errs.IsNotFound(err))
	})
}

func TestCardsUpdate(t *testing.T) {
	accounts, cards, _ := newServices(t)

	owner, ownerCtx := createAccount(t, accounts)
	record, err := cards.Create(ownerCtx, cardInput(owner.ID, 1))
	require.NoError(t, err)

	updated, err := cards.Update(ownerCtx, record.ID, model.CardUpdate{
		Number: testsupport.CardNumber(500),
		Holder: "J DOE",
	})
	require.NoError(t, err)
	assert.Equal(t, testsupport.CardNumber(500), updated.Number)
	assert.Equal(t, "J DOE", updated.Holder)

	got, err := cards.GetByID(ownerCtx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, "J DOE", got.Holder)
}

func TestCardsUpdate_Failures(t *testing.T) {
	accounts, cards, _ := newServices(t)

	owner, ownerCtx := createAccount(t, accounts)
	record, err := cards.Create(ownerCtx, cardInput(owner.ID, 1))
	require.NoError(t, err)

	valid := model.CardUpdate{Number: testsupport.CardNumber(2), Holder: "H"}

	t.Run("invalid payload", func(t *testing.T) {
		_, err := cards.Update(ownerCtx, record.ID, model.CardUpdate{Number: "123", Holder: "H"})
		assert.True(t, errs.IsValidation(err))
	})

	t.Run("absent card", func(t *testing.T) {
		_, err := cards.Update(testsupport.AdminContext(), 9999, valid)
		assert.True(t, errs.IsNotFound(err))
	})

	t.Run("foreign caller is denied", func(t *testing.T) {
		_, err := cards.Update(testsupport.OwnerContext(owner.ID+1), record.ID, valid)
		assert.True(t, errs.IsForbidden(err))
	})
}

func TestCardsSetActive_ReadYourWrites(t *testing.T) {
	accounts, cards, _ := newServices(t)

	owner, ownerCtx := createAccount(t, accounts)
	record, err := cards.Create(ownerCtx, cardInput(owner.ID, 1))
	require.NoError(t, err)

	// Prime the point cache, then deactivate.
	_, err = cards.GetByID(ownerCtx, record.ID)
	require.NoError(t, err)

	require.NoError(t, cards.SetActive(ownerCtx, record.ID, false))

	got, err := cards.GetByID(ownerCtx, record.ID)
	require.NoError(t, err)
	assert.False(t, got.Active)

	// The owner collection was evicted too.
	records, err := cards.ListByOwner(ownerCtx, owner.ID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.False(t, records[0].Active)
}

func TestCardsDelete(t *testing.T) {
	accounts, cards, _ := newServices(t)

	owner, ownerCtx := createAccount(t, accounts)
	record, err := cards.Create(ownerCtx, cardInput(owner.ID, 1))
	require.NoError(t, err)

	// Prime both entries the delete must invalidate.
	_, err = cards.GetByID(ownerCtx, record.ID)
	require.NoError(t, err)
	_, err = cards.ListByOwner(ownerCtx, owner.ID)
	require.NoError(t, err)

	require.NoError(t, cards.Delete(ownerCtx, record.ID))

	_, err = cards.GetByID(ownerCtx, record.ID)
	assert.True(t, errs.IsNotFound(err))

	records, err := cards.ListByOwner(ownerCtx, owner.ID)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestCardsDelete_Authorization(t *testing.T) {
	accounts, cards, _ := newServices(t)

	owner, ownerCtx := createAccount(t, accounts)
	record, err := cards.Create(ownerCtx, cardInput(owner.ID, 1))
	require.NoError(t, err)

	err = cards.Delete(testsupport.OwnerContext(owner.ID+1), record.ID)
	assert.True(t, errs.IsForbidden(err))

	// The denied delete must not have touched the row.
	_, err = cards.GetByID(ownerCtx, record.ID)
	assert.NoError(t, err)
}
