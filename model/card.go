package model

import (
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/uptrace/bun"
)

var cardNumberPattern = regexp.MustCompile(`^[0-9]{16}$`)

// Card is the bun-mapped payment card row. It references its owner through
// the account id column only; there is no in-memory link back to the
// Account, so loading a card never drags its owner along.
type Card struct {
	bun.BaseModel `bun:"table:payment_cards,alias:c"`

	ID             int64     `bun:"id,pk,autoincrement" json:"id"`
	AccountID      int64     `bun:"account_id,notnull" json:"account_id"`
	Number         string    `bun:"number,notnull" json:"number"`
	Holder         string    `bun:"holder,notnull" json:"holder"`
	ExpirationDate time.Time `bun:"expiration_date,notnull" json:"expiration_date"`
	Active         bool      `bun:"active,notnull" json:"active"`
	CreatedAt      time.Time `bun:"created_at,notnull" json:"created_at"`
	UpdatedAt      time.Time `bun:"updated_at,notnull" json:"updated_at"`
}

// CardRecord is the external, serializable representation of a card.
type CardRecord struct {
	ID             int64     `json:"id"`
	AccountID      int64     `json:"account_id"`
	Number         string    `json:"number"`
	Holder         string    `json:"holder"`
	ExpirationDate time.Time `json:"expiration_date"`
	Active         bool      `json:"active"`
}

// CardInput carries the caller-supplied fields for card creation. The
// account id names the intended owner; the service still resolves and
// authorizes it against the store before anything is persisted.
type CardInput struct {
	AccountID      int64     `json:"account_id"`
	Number         string    `json:"number"`
	Holder         string    `json:"holder"`
	ExpirationDate time.Time `json:"expiration_date"`
	Active         bool      `json:"active"`
}

// Validate checks the input's format constraints: owner id present, exactly
// 16 digits in the number, holder within column bounds, expiration in the
// future.
func (in CardInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.AccountID, validation.Required, validation.Min(int64(1))),
		validation.Field(&in.Number, validation.Required, validation.Match(cardNumberPattern)),
		validation.Field(&in.Holder, validation.Required, validation.Length(1, 255)),
		validation.Field(&in.ExpirationDate, validation.Required, validation.By(futureDate)),
	)
}

// CardUpdate carries the editable card fields for bulk conditional updates.
type CardUpdate struct {
	Number string `json:"number"`
	Holder string `json:"holder"`
}

// Validate checks the update payload against the same constraints as
// creation.
func (u CardUpdate) Validate() error {
	return validation.ValidateStruct(&u,
		validation.Field(&u.Number, validation.Required, validation.Match(cardNumberPattern)),
		validation.Field(&u.Holder, validation.Required, validation.Length(1, 255)),
	)
}
