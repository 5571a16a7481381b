package listing

import (
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Sorter orders records by a SortKey. Name keys use collation rules for the
// configured language.
type Sorter struct {
	tag language.Tag
}

// NewSorter parses a BCP 47 tag. An empty or invalid tag falls back to the
// root collation order.
func NewSorter(lang string) *Sorter {
	tag, err := language.Parse(lang)
	if err != nil || lang == "" {
		tag = language.Und
	}
	return &Sorter{tag: tag}
}

// Language returns the collation language in use.
func (s *Sorter) Language() string {
	return s.tag.String()
}

// Sort returns a new, stably ordered slice. Unknown keys use DefaultSort.
func Sort[T Record](records []T, key SortKey) []T {
	return SortWith(defaultSorter, records, key)
}

var defaultSorter = NewSorter("")

// SortWith is Sort with an explicit Sorter.
func SortWith[T Record](s *Sorter, records []T, key SortKey) []T {
	if !key.Valid() {
		key = DefaultSort
	}
	out := slices.Clone(records)

	var cmp func(a, b T) int
	switch key {
	case SortNameAsc, SortNameDesc:
		// collators keep internal buffers and are not safe to share
		col := collate.New(s.tag)
		cmp = func(a, b T) int {
			return col.CompareString(a.DisplayName(), b.DisplayName())
		}
	default:
		cmp = func(a, b T) int {
			return a.Timestamp().Compare(b.Timestamp())
		}
	}

	if key == SortNameDesc || key == SortDateDesc {
		asc := cmp
		cmp = func(a, b T) int { return asc(b, a) }
	}

	slices.SortStableFunc(out, cmp)
	return out
}

// Apply filters then sorts with the given sorter.
func Apply[T Record](s *Sorter, records []T, st State) []T {
	return SortWith(s, Filter(records, st.Criteria), st.Sort)
}
