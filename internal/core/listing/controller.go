package listing

import (
	"slices"
	"strings"
	"time"
)

// Field identifies one editable part of a Criteria.
type Field string

const (
	FieldSearch     Field = "search"
	FieldCategories Field = "categories"
	FieldStatuses   Field = "statuses"
	FieldTypes      Field = "types"
	FieldFrom       Field = "from"
	FieldTo         Field = "to"
)

func (f Field) Valid() bool {
	switch f {
	case FieldSearch, FieldCategories, FieldStatuses, FieldTypes, FieldFrom, FieldTo:
		return true
	}
	return false
}

func (f Field) setValued() bool {
	return f == FieldCategories || f == FieldStatuses || f == FieldTypes
}

// SetField returns a copy of c with one field replaced. Set fields take every
// non-blank value, deduplicated; scalar fields take the first value. Values
// that cannot be parsed clear the field.
func SetField(c Criteria, f Field, values ...string) Criteria {
	out := c.Clone()
	switch f {
	case FieldSearch:
		out.Search = firstValue(values)
	case FieldCategories:
		out.Categories = normalizeSet(values)
	case FieldStatuses:
		out.Statuses = normalizeSet(values)
	case FieldTypes:
		out.Types = normalizeSet(values)
	case FieldFrom:
		out.From = ParseBound(firstValue(values), false)
	case FieldTo:
		out.To = ParseBound(firstValue(values), true)
	}
	return out
}

// RemoveValue drops one member from a set field, or resets a scalar field.
func RemoveValue(c Criteria, f Field, value string) Criteria {
	out := c.Clone()
	if !f.setValued() {
		switch f {
		case FieldSearch:
			out.Search = ""
		case FieldFrom:
			out.From = nil
		case FieldTo:
			out.To = nil
		}
		return out
	}

	drop := func(in []string) []string {
		res := slices.DeleteFunc(in, func(v string) bool { return v == value })
		if len(res) == 0 {
			return nil
		}
		return res
	}
	switch f {
	case FieldCategories:
		out.Categories = drop(out.Categories)
	case FieldStatuses:
		out.Statuses = drop(out.Statuses)
	case FieldTypes:
		out.Types = drop(out.Types)
	}
	return out
}

// Normalize trims the search text and drops blank or repeated set members,
// so a blank member never becomes a constraint.
func (c Criteria) Normalize() Criteria {
	out := c.Clone()
	out.Search = trimmed(c.Search)
	out.Categories = normalizeSet(c.Categories)
	out.Statuses = normalizeSet(c.Statuses)
	out.Types = normalizeSet(c.Types)
	return out
}

// Reset returns the empty criteria.
func Reset() Criteria {
	return Criteria{}
}

var boundLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

// ParseBound parses a date bound. A bare date used as an upper bound covers
// the whole day. Blank or malformed input yields nil.
func ParseBound(s string, upper bool) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range boundLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		if upper && layout == "2006-01-02" {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		return &t
	}
	return nil
}

// SplitValues flattens repeated and comma separated query values.
func SplitValues(raw []string) []string {
	var out []string
	for _, r := range raw {
		for _, part := range strings.Split(r, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func firstValue(values []string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func normalizeSet(values []string) []string {
	var out []string
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
