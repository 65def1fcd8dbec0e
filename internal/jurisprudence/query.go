// Package jurisprudence searches the local collection of court decisions.
// The relational table is the source of truth and answers the default
// substring mode. A Meilisearch index, when configured, serves the ranked
// relevance mode.
package jurisprudence

import (
	"strings"
	"time"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// Search modes. ModeSubstring ORs case-insensitive substring matches over
// case number, summary and full text. ModeRelevance ranks word matches and
// tolerates typos, so its hits may differ; filters apply the same way.
const (
	ModeSubstring = "substring"
	ModeRelevance = "relevance"
)

// ValidMode reports whether m names a search mode. Empty means the default.
func ValidMode(m string) bool {
	switch strings.ToLower(strings.TrimSpace(m)) {
	case "", ModeSubstring, ModeRelevance:
		return true
	}
	return false
}

// Query composes a free-text OR match with court and date filters. Unset
// filters are ignored; set filters are ANDed together.
type Query struct {
	Text      string
	Courts    []string
	StartDate *time.Time
	EndDate   *time.Time
	Skip      int
	Limit     int
	Mode      string
}

func (q *Query) Normalize() {
	q.Text = strings.TrimSpace(q.Text)

	if q.Mode = strings.ToLower(strings.TrimSpace(q.Mode)); q.Mode != ModeRelevance {
		q.Mode = ModeSubstring
	}

	courts := make([]string, 0, len(q.Courts))
	for _, c := range q.Courts {
		if c = strings.ToUpper(strings.TrimSpace(c)); c != "" {
			courts = append(courts, c)
		}
	}
	q.Courts = courts

	if q.Skip < 0 {
		q.Skip = 0
	}
	if q.Limit <= 0 {
		q.Limit = DefaultLimit
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
}

// endExclusive turns the inclusive end day into an exclusive bound.
func (q *Query) endExclusive() *time.Time {
	if q.EndDate == nil {
		return nil
	}
	y, m, d := q.EndDate.Date()
	next := time.Date(y, m, d, 0, 0, 0, 0, q.EndDate.Location()).AddDate(0, 0, 1)
	return &next
}
