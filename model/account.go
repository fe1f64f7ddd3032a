package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/uptrace/bun"
)

// Account is the bun-mapped account holder row. The store assigns the id on
// insert and it is immutable afterwards. Accounts do not carry their cards
// in memory; "all cards for an account" is always a query against the card
// store keyed by owner id.
type Account struct {
	bun.BaseModel `bun:"table:accounts,alias:a"`

	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	Name      string    `bun:"name,notnull" json:"name"`
	Surname   string    `bun:"surname,notnull" json:"surname"`
	BirthDate time.Time `bun:"birth_date,notnull" json:"birth_date"`
	Email     string    `bun:"email,notnull,unique" json:"email"`
	Active    bool      `bun:"active,notnull" json:"active"`
	CreatedAt time.Time `bun:"created_at,notnull" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,notnull" json:"updated_at"`
}

// AccountRecord is the external, serializable representation of an account.
// It is what the record services return and what the cache stores.
type AccountRecord struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Surname   string    `json:"surname"`
	BirthDate time.Time `json:"birth_date"`
	Email     string    `json:"email"`
	Active    bool      `json:"active"`
}

// AccountInput carries the caller-supplied fields for account creation.
type AccountInput struct {
	Name      string    `json:"name"`
	Surname   string    `json:"surname"`
	BirthDate time.Time `json:"birth_date"`
	Email     string    `json:"email"`
	Active    bool      `json:"active"`
}

// Validate checks the input's format constraints: names present and within
// column bounds, email well-formed, birth date in the past.
func (in AccountInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.Required, validation.Length(1, 255)),
		validation.Field(&in.Surname, validation.Required, validation.Length(1, 255)),
		validation.Field(&in.Email, validation.Required, is.EmailFormat),
		validation.Field(&in.BirthDate, validation.Required, validation.By(pastDate)),
	)
}

// AccountUpdate carries the editable account fields for bulk conditional
// updates. The store applies these without loading the row first.
type AccountUpdate struct {
	Name    string `json:"name"`
	Surname string `json:"surname"`
}

// Validate checks the update payload against the same column bounds as
// creation.
func (u AccountUpdate) Validate() error {
	return validation.ValidateStruct(&u,
		validation.Field(&u.Name, validation.Required, validation.Length(1, 255)),
		validation.Field(&u.Surname, validation.Required, validation.Length(1, 255)),
	)
}
