package analytics

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/Veraticus/ledger/internal/model"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortField is a transaction field that a table can be ordered by.
type SortField string

// Sortable fields.
const (
	SortByDate     SortField = "date"
	SortByAmount   SortField = "amount"
	SortByCategory SortField = "category"
)

// SortDirection is ascending or descending.
type SortDirection string

// Sort directions.
const (
	Ascending  SortDirection = "asc"
	Descending SortDirection = "desc"
)

// SortSpec holds the current ordering of a table.
type SortSpec struct {
	Field     SortField
	Direction SortDirection
}

// DefaultSortSpec returns newest-first ordering.
func DefaultSortSpec() SortSpec {
	return SortSpec{Field: SortByDate, Direction: Descending}
}

// Toggle returns the sort order after a click on field: the same field flips
// direction, a new field starts ascending.
func (s SortSpec) Toggle(field SortField) SortSpec {
	if s.Field == field && s.Direction == Ascending {
		return SortSpec{Field: field, Direction: Descending}
	}
	return SortSpec{Field: field, Direction: Ascending}
}

// String renders the sort order as "field:direction".
func (s SortSpec) String() string {
	return string(s.Field) + ":" + string(s.Direction)
}

// ParseSortSpec parses "field" or "field:direction".
func ParseSortSpec(s string) (SortSpec, error) {
	field, dir, hasDir := strings.Cut(strings.ToLower(strings.TrimSpace(s)), ":")
	spec := SortSpec{Field: SortField(field), Direction: Ascending}

	switch spec.Field {
	case SortByDate, SortByAmount, SortByCategory:
	default:
		return SortSpec{}, fmt.Errorf("unknown sort field %q: must be date, amount, or category", field)
	}

	if hasDir {
		switch SortDirection(dir) {
		case Ascending, Descending:
			spec.Direction = SortDirection(dir)
		default:
			return SortSpec{}, fmt.Errorf("unknown sort direction %q: must be asc or desc", dir)
		}
	}

	return spec, nil
}

// Sorter orders transactions. Category comparison is collated for the
// sorter's language.
type Sorter struct {
	locale language.Tag
}

// NewSorter creates a sorter that collates categories for the given locale.
func NewSorter(locale language.Tag) *Sorter {
	return &Sorter{locale: locale}
}

// DefaultSorter collates categories in English.
var DefaultSorter = NewSorter(language.English)

// Sort returns a sorted copy of transactions using the default sorter.
func Sort(transactions []model.Transaction, spec SortSpec) []model.Transaction {
	return DefaultSorter.Sort(transactions, spec)
}

// Sort returns a sorted copy of transactions. Ties on the sort field are
// broken by ID, so reversing the direction reverses the output exactly.
// An unknown field leaves the input order untouched.
func (s *Sorter) Sort(transactions []model.Transaction, spec SortSpec) []model.Transaction {
	sorted := slices.Clone(transactions)
	if sorted == nil {
		sorted = []model.Transaction{}
	}

	compare := s.comparator(spec.Field)
	if compare == nil {
		return sorted
	}

	slices.SortStableFunc(sorted, func(a, b model.Transaction) int {
		c := compare(&a, &b)
		if c == 0 {
			c = strings.Compare(a.ID, b.ID)
		}
		if spec.Direction == Descending {
			return -c
		}
		return c
	})

	return sorted
}

func (s *Sorter) comparator(field SortField) func(a, b *model.Transaction) int {
	switch field {
	case SortByDate:
		return func(a, b *model.Transaction) int {
			return a.Date.Compare(b.Date)
		}
	case SortByAmount:
		return func(a, b *model.Transaction) int {
			return cmp.Compare(a.SafeAmount(), b.SafeAmount())
		}
	case SortByCategory:
		// A collator carries internal buffers, one per sort call.
		collator := collate.New(s.locale)
		return func(a, b *model.Transaction) int {
			return collator.CompareString(a.Category, b.Category)
		}
	default:
		return nil
	}
}
