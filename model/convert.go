package model

import (
	"errors"
	"time"
)

// Conversion between storage entities, caller input, and external records is
// done with stateless functions. There is no mapper instance to configure or
// share; each call produces a fresh value.

// AccountFromInput builds a storage entity from validated caller input. The
// id stays zero until the store assigns one.
func AccountFromInput(in AccountInput) *Account {
	return &Account{
		Name:      in.Name,
		Surname:   in.Surname,
		BirthDate: in.BirthDate,
		Email:     in.Email,
		Active:    in.Active,
	}
}

// AccountToRecord converts a storage entity into its external
// representation.
func AccountToRecord(a *Account) AccountRecord {
	return AccountRecord{
		ID:        a.ID,
		Name:      a.Name,
		Surname:   a.Surname,
		BirthDate: a.BirthDate,
		Email:     a.Email,
		Active:    a.Active,
	}
}

// AccountsToRecords converts a slice of entities, preserving order.
func AccountsToRecords(accounts []Account) []AccountRecord {
	records := make([]AccountRecord, len(accounts))
	for i := range accounts {
		records[i] = AccountToRecord(&accounts[i])
	}
	return records
}

// CardFromInput builds a storage entity from validated caller input.
func CardFromInput(in CardInput) *Card {
	return &Card{
		AccountID:      in.AccountID,
		Number:         in.Number,
		Holder:         in.Holder,
		ExpirationDate: in.ExpirationDate,
		Active:         in.Active,
	}
}

// CardToRecord converts a storage entity into its external representation.
func CardToRecord(c *Card) CardRecord {
	return CardRecord{
		ID:             c.ID,
		AccountID:      c.AccountID,
		Number:         c.Number,
		Holder:         c.Holder,
		ExpirationDate: c.ExpirationDate,
		Active:         c.Active,
	}
}

// CardsToRecords converts a slice of entities, preserving order.
func CardsToRecords(cards []Card) []CardRecord {
	records := make([]CardRecord, len(cards))
	for i := range cards {
		records[i] = CardToRecord(&cards[i])
	}
	return records
}

func pastDate(value any) error {
	t, ok := value.(time.Time)
	if !ok {
		return errors.New("must be a date")
	}
	if !t.Before(time.Now()) {
		return errors.New("must be a date in the past")
	}
	return nil
}

func futureDate(value any) error {
	t, ok := value.(time.Time)
	if !ok {
		return errors.New("must be a date")
	}
	if !t.After(time.Now()) {
		return errors.New("must be a date in the future")
	}
	return nil
}
