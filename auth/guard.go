package auth

import (
	"context"

	"github.com/goliatone/go-cardholder/errs"
)

// Authorize decides whether the caller on ctx may act on a record owned by
// targetOwnerID. Administrators are allowed everywhere; everyone else only
// on records owned by their own account.
//
// The owner id must come from the store (or a payload the service is about
// to persist under the caller's identity), never from a client-supplied
// path or query parameter. Denials are authorization failures, never
// not-found: the caller layer may mask the distinction, this layer does
// not.
func Authorize(ctx context.Context, targetOwnerID int64) error {
	p, ok := PrincipalFrom(ctx)
	if !ok {
		return errs.Forbiddenf("no verified principal on request")
	}
	if p.IsAdmin() {
		return nil
	}
	if p.ID == targetOwnerID {
		return nil
	}
	return errs.Forbiddenf("principal %d may not act on records owned by account %d", p.ID, targetOwnerID)
}

// AuthorizeAdmin allows only administrative callers. Unfiltered collection
// listings go through here.
func AuthorizeAdmin(ctx context.Context) error {
	p, ok := PrincipalFrom(ctx)
	if !ok {
		return errs.Forbiddenf("no verified principal on request")
	}
	if !p.IsAdmin() {
		return errs.Forbiddenf("principal %d lacks the administrative role", p.ID)
	}
	return nil
}
