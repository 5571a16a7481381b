package listing

import (
	"slices"
	"strings"
	"time"

	"golang.org/x/text/cases"
)

// Filter returns the records that satisfy every active constraint in c,
// in their original order. The input slice is never modified.
func Filter[T Record](records []T, c Criteria) []T {
	if c.IsEmpty() {
		return slices.Clone(records)
	}

	m := newMatcher(c)
	out := make([]T, 0, len(records))
	for _, r := range records {
		if m.match(r) {
			out = append(out, r)
		}
	}
	return out
}

// Match reports whether a single record satisfies c.
func Match(r Record, c Criteria) bool {
	return newMatcher(c).match(r)
}

type matcher struct {
	fold   cases.Caser
	needle string
	sets   map[Dimension]map[string]struct{}
	from   *time.Time
	to     *time.Time
}

func newMatcher(c Criteria) *matcher {
	m := &matcher{
		fold: cases.Fold(),
		sets: make(map[Dimension]map[string]struct{}, 3),
		from: c.From,
		to:   c.To,
	}
	if s := trimmed(c.Search); s != "" {
		m.needle = m.fold.String(s)
	}
	for _, d := range []Dimension{DimCategory, DimStatus, DimType} {
		vals := c.values(d)
		if len(vals) == 0 {
			continue
		}
		set := make(map[string]struct{}, len(vals))
		for _, v := range vals {
			set[v] = struct{}{}
		}
		m.sets[d] = set
	}
	return m
}

func (m *matcher) match(r Record) bool {
	if m.needle != "" && !strings.Contains(m.fold.String(r.DisplayName()), m.needle) {
		return false
	}
	for d, set := range m.sets {
		if _, ok := set[r.Attr(d)]; !ok {
			return false
		}
	}
	return m.inRange(r.Timestamp())
}

// A record without a timestamp cannot be placed in a range, so it fails any
// active bound.
func (m *matcher) inRange(ts time.Time) bool {
	if m.from == nil && m.to == nil {
		return true
	}
	if ts.IsZero() {
		return false
	}
	if m.from != nil && ts.Before(*m.from) {
		return false
	}
	if m.to != nil && ts.After(*m.to) {
		return false
	}
	return true
}

func trimmed(s string) string {
	return strings.TrimSpace(s)
}
