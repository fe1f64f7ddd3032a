package storage

import (
	"strings"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
)

// Filter criteria are composed as conjuncts over the scan query. An absent
// or blank value is a no-op conjunct: it excludes nothing. Matching is a
// case-insensitive substring match, lowercasing both sides so behavior is
// identical across Postgres and sqlite.

// AccountNameFilter matches accounts whose name and surname contain the
// given fragments.
func AccountNameFilter(name, surname string) repository.SelectCriteria {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		if s := strings.TrimSpace(name); s != "" {
			q = q.Where("lower(a.name) LIKE ?", containsPattern(s))
		}
		if s := strings.TrimSpace(surname); s != "" {
			q = q.Where("lower(a.surname) LIKE ?", containsPattern(s))
		}
		return q
	}
}

// CardOwnerNameFilter matches cards whose owning account's name and surname
// contain the given fragments, joining through the accounts table. With
// both fragments blank the join is skipped entirely and every card
// matches.
func CardOwnerNameFilter(name, surname string) repository.SelectCriteria {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		n := strings.TrimSpace(name)
		sn := strings.TrimSpace(surname)
		if n == "" && sn == "" {
			return q
		}

		q = q.Join("JOIN accounts AS a ON a.id = c.account_id")
		if n != "" {
			q = q.Where("lower(a.name) LIKE ?", containsPattern(n))
		}
		if sn != "" {
			q = q.Where("lower(a.surname) LIKE ?", containsPattern(sn))
		}
		return q
	}
}

func containsPattern(s string) string {
	return "%" + strings.ToLower(s) + "%"
}
