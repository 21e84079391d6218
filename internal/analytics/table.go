package analytics

import "github.com/Veraticus/ledger/internal/model"

// TableState is everything a transaction table needs to derive its rows.
// It is passed explicitly to Query; nothing is kept between queries.
type TableState struct {
	Criteria FilterCriteria
	Sort     SortSpec
	Page     int
	PageSize int
}

// NewTableState returns the initial state: no filters, newest first, page 1.
func NewTableState() TableState {
	return TableState{
		Sort:     DefaultSortSpec(),
		Page:     1,
		PageSize: DefaultPageSize,
	}
}

// SetSearch changes the search text and returns to the first page.
func (s *TableState) SetSearch(text string) {
	s.Criteria.SearchText = text
	s.Page = 1
}

// SetTypeFilter changes the type filter and returns to the first page.
func (s *TableState) SetTypeFilter(f TypeFilter) {
	s.Criteria.Type = f
	s.Page = 1
}

// SetRecurringFilter changes the recurring filter and returns to the first page.
func (s *TableState) SetRecurringFilter(f RecurringFilter) {
	s.Criteria.Recurring = f
	s.Page = 1
}

// ToggleSort applies a sort click on field and returns to the first page.
func (s *TableState) ToggleSort(field SortField) {
	s.Sort = s.Sort.Toggle(field)
	s.Page = 1
}

// ClearFilters drops every filter, clears selection if given, and returns
// to the first page.
func (s *TableState) ClearFilters(selection *Selection) {
	s.Criteria = FilterCriteria{}
	s.Page = 1
	if selection != nil {
		selection.Clear()
	}
}

// HasFilters reports whether any filter is active.
func (s *TableState) HasFilters() bool {
	return !s.Criteria.IsEmpty()
}

// NextPage advances one page unless already on the last.
func (s *TableState) NextPage(pageCount int) {
	s.Page = ClampPage(s.Page+1, pageCount)
}

// PrevPage moves back one page unless already on the first.
func (s *TableState) PrevPage(pageCount int) {
	s.Page = ClampPage(s.Page-1, pageCount)
}

// TableView is the derived content of one table page.
type TableView struct {
	Rows      []model.Transaction
	Page      int
	PageCount int
	PageSize  int
	Matches   int
}

// VisibleIDs returns the ids of the rows on the page.
func (v TableView) VisibleIDs() []string {
	ids := make([]string, len(v.Rows))
	for i, txn := range v.Rows {
		ids[i] = txn.ID
	}
	return ids
}

// HasPrev reports whether a previous page exists.
func (v TableView) HasPrev() bool {
	return v.Page > 1
}

// HasNext reports whether a following page exists.
func (v TableView) HasNext() bool {
	return v.Page < v.PageCount
}

// Query runs filter, sort and paginate over transactions for state.
// A nil sorter uses DefaultSorter.
func Query(transactions []model.Transaction, state TableState, sorter *Sorter) TableView {
	if sorter == nil {
		sorter = DefaultSorter
	}
	pageSize := normalizePageSize(state.PageSize)

	sorted := sorter.Sort(Filter(transactions, state.Criteria), state.Sort)

	return TableView{
		Rows:      Paginate(sorted, pageSize, state.Page),
		Page:      state.Page,
		PageCount: PageCount(len(sorted), pageSize),
		PageSize:  pageSize,
		Matches:   len(sorted),
	}
}
