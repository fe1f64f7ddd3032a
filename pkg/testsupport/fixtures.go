// Package testsupport provides the in-memory database, schema setup, and
// seed fixtures shared by storage and service tests.
package testsupport

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-cardholder/auth"
	"github.com/goliatone/go-cardholder/model"
	"github.com/goliatone/go-cardholder/storage"
)

// NewTestDB opens an in-memory sqlite database with the accounts and
// payment_cards tables created from the bun models. The handle is closed
// when the test finishes.
func NewTestDB(t *testing.T) *bun.DB {
	t.Helper()

	db, err := storage.OpenSQLite("file::memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	for _, m := range []any{(*model.Account)(nil), (*model.Card)(nil)} {
		if _, err := db.NewCreateTable().Model(m).IfNotExists().Exec(ctx); err != nil {
			t.Fatalf("failed to create table for %T: %v", m, err)
		}
	}

	return db
}

// NewTestStore is a convenience wrapper returning a Store over a fresh test
// database.
func NewTestStore(t *testing.T) *storage.Store {
	t.Helper()
	return storage.New(NewTestDB(t), nil)
}

// UniqueEmail returns an email address that will not collide with any other
// fixture in the process.
func UniqueEmail() string {
	return fmt.Sprintf("user-%s@example.com", uuid.NewString()[:8])
}

// CardNumber returns a deterministic 16-digit card number for n.
func CardNumber(n int) string {
	return fmt.Sprintf("4%015d", n)
}

// SeedAccount inserts an active account with the given names and a unique
// email, failing the test on error.
func SeedAccount(t *testing.T, store *storage.Store, name, surname string) *model.Account {
	t.Helper()

	a := &model.Account{
		Name:      name,
		Surname:   surname,
		BirthDate: time.Date(1990, 1, 15, 0, 0, 0, 0, time.UTC),
		Email:     UniqueEmail(),
		Active:    true,
	}
	if err := store.Accounts().Insert(context.Background(), a); err != nil {
		t.Fatalf("failed to seed account: %v", err)
	}
	return a
}

// SeedCard inserts an active card owned by ownerID, failing the test on
// error. n disambiguates the card number when seeding several cards for
// one owner.
func SeedCard(t *testing.T, store *storage.Store, ownerID int64, n int) *model.Card {
	t.Helper()

	c := &model.Card{
		AccountID:      ownerID,
		Number:         CardNumber(int(ownerID)*100 + n),
		Holder:         "TEST HOLDER",
		ExpirationDate: time.Now().AddDate(3, 0, 0),
		Active:         true,
	}
	if err := store.Cards().Insert(context.Background(), c); err != nil {
		t.Fatalf("failed to seed card: %v", err)
	}
	return c
}

// AdminContext returns a context carrying an administrative principal.
func AdminContext() context.Context {
	return auth.WithPrincipal(context.Background(), auth.Principal{ID: 1_000_000, Role: auth.RoleAdmin})
}

// OwnerContext returns a context carrying a non-administrative principal
// for the given account id.
func OwnerContext(id int64) context.Context {
	return auth.WithPrincipal(context.Background(), auth.Principal{ID: id, Role: auth.RoleUser})
}
