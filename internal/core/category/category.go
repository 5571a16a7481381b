// Package category lists the business categories shared by documents and the
// templates they are created from.
package category

type Category string

const (
	Contract       Category = "contract"
	Invoice        Category = "invoice"
	Report         Category = "report"
	Policy         Category = "policy"
	Correspondence Category = "correspondence"
	Other          Category = "other"
)

var All = []Category{Contract, Invoice, Report, Policy, Correspondence, Other}

func (c Category) Valid() bool {
	for _, known := range All {
		if c == known {
			return true
		}
	}
	return false
}
