package listing

const (
	DefaultLimit = 50
	MaxLimit     = 100
)

// Result is one page of a filtered, sorted list.
type Result[T Record] struct {
	Items  []T   `json:"items"`
	Total  int   `json:"total"`
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
	State  State `json:"state"`
}

// NormalizeLimit applies the default and the cap.
func NormalizeLimit(limit int) int {
	if limit <= 0 || limit > MaxLimit {
		return DefaultLimit
	}
	return limit
}

// Page cuts one window out of records. Total is the full length.
func Page[T Record](records []T, limit, offset int) Result[T] {
	limit = NormalizeLimit(limit)
	if offset < 0 {
		offset = 0
	}

	res := Result[T]{Total: len(records), Limit: limit, Offset: offset}
	if offset >= len(records) {
		res.Items = []T{}
		return res
	}
	end := min(offset+limit, len(records))
	res.Items = records[offset:end:end]
	return res
}

// Query filters, sorts, and pages records for the given state.
func Query[T Record](s *Sorter, records []T, st State, limit, offset int) Result[T] {
	res := Page(Apply(s, records, st), limit, offset)
	res.State = snapshot(st)
	return res
}
