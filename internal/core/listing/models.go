package listing

import (
	"time"
)

// Dimension names one of the classifiable attributes a record exposes.
type Dimension string

const (
	DimCategory Dimension = "category"
	DimStatus   Dimension = "status"
	DimType     Dimension = "type"
)

// Record is anything that can be shown in a filtered list.
type Record interface {
	DisplayName() string
	Attr(d Dimension) string
	// Timestamp returns the zero time when the record has none.
	Timestamp() time.Time
}

// Criteria is the set of constraints a user picked for one list.
// The zero value places no constraint on anything.
type Criteria struct {
	Search     string     `json:"search,omitempty"`
	Categories []string   `json:"categories,omitempty"`
	Statuses   []string   `json:"statuses,omitempty"`
	Types      []string   `json:"types,omitempty"`
	From       *time.Time `json:"from,omitempty"`
	To         *time.Time `json:"to,omitempty"`
}

// IsEmpty reports whether c restricts nothing.
func (c Criteria) IsEmpty() bool {
	return trimmed(c.Search) == "" &&
		len(c.Categories) == 0 &&
		len(c.Statuses) == 0 &&
		len(c.Types) == 0 &&
		c.From == nil &&
		c.To == nil
}

// Clone returns a deep copy so callers can hand out snapshots.
func (c Criteria) Clone() Criteria {
	out := Criteria{
		Search:     c.Search,
		Categories: cloneStrings(c.Categories),
		Statuses:   cloneStrings(c.Statuses),
		Types:      cloneStrings(c.Types),
	}
	if c.From != nil {
		from := *c.From
		out.From = &from
	}
	if c.To != nil {
		to := *c.To
		out.To = &to
	}
	return out
}

func (c Criteria) values(d Dimension) []string {
	switch d {
	case DimCategory:
		return c.Categories
	case DimStatus:
		return c.Statuses
	case DimType:
		return c.Types
	}
	return nil
}

// SortKey selects the ordering applied after filtering.
type SortKey string

const (
	SortNameAsc  SortKey = "name-asc"
	SortNameDesc SortKey = "name-desc"
	SortDateAsc  SortKey = "date-asc"
	SortDateDesc SortKey = "date-desc"
)

// DefaultSort is used when no key, or an unknown key, is given.
const DefaultSort = SortDateDesc

func (k SortKey) Valid() bool {
	switch k {
	case SortNameAsc, SortNameDesc, SortDateAsc, SortDateDesc:
		return true
	}
	return false
}

// Reverse returns the key that orders the opposite way.
func (k SortKey) Reverse() SortKey {
	switch k {
	case SortNameAsc:
		return SortNameDesc
	case SortNameDesc:
		return SortNameAsc
	case SortDateAsc:
		return SortDateDesc
	default:
		return SortDateAsc
	}
}

// ParseSortKey maps user input to a key, falling back to DefaultSort.
func ParseSortKey(s string) SortKey {
	k := SortKey(trimmed(s))
	if k.Valid() {
		return k
	}
	return DefaultSort
}

// State is everything a single list view remembers.
type State struct {
	Criteria Criteria `json:"criteria"`
	Sort     SortKey  `json:"sort"`
}

// DefaultState is the state a view starts with when mounted.
func DefaultState() State {
	return State{Sort: DefaultSort}
}

func cloneStrings(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
