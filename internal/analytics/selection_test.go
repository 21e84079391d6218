package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelection_Toggle(t *testing.T) {
	s := NewSelection()

	s.Toggle("a")
	s.Toggle("b")
	assert.True(t, s.IsSelected("a"))
	assert.True(t, s.IsSelected("b"))
	assert.Equal(t, 2, s.Len())

	s.Toggle("a")
	assert.False(t, s.IsSelected("a"))
	assert.Equal(t, []string{"b"}, s.IDs())
}

func TestSelection_SelectAllVisible(t *testing.T) {
	visible := []string{"c", "a", "b"}

	t.Run("selects exactly the visible set", func(t *testing.T) {
		s := NewSelection()
		s.Toggle("z")

		s.SelectAllVisible(visible)

		assert.Equal(t, []string{"a", "b", "c"}, s.IDs())
		assert.False(t, s.IsSelected("z"))
		assert.True(t, s.AllVisibleSelected(visible))
	})

	t.Run("second press clears", func(t *testing.T) {
		s := NewSelection()

		s.SelectAllVisible(visible)
		s.SelectAllVisible(visible)

		assert.Equal(t, 0, s.Len())
		assert.False(t, s.AllVisibleSelected(visible))
	})

	t.Run("partial selection is completed rather than cleared", func(t *testing.T) {
		s := NewSelection()
		s.Toggle("a")

		s.SelectAllVisible(visible)

		assert.Equal(t, 3, s.Len())
	})

	t.Run("superset of visible is replaced", func(t *testing.T) {
		s := NewSelection()
		for _, id := range []string{"a", "b", "c", "d"} {
			s.Toggle(id)
		}
		assert.False(t, s.AllVisibleSelected(visible))

		s.SelectAllVisible(visible)

		assert.Equal(t, []string{"a", "b", "c"}, s.IDs())
	})
}

func TestSelection_AllVisibleSelectedNeedsRows(t *testing.T) {
	s := NewSelection()

	assert.False(t, s.AllVisibleSelected(nil))
	assert.False(t, s.AllVisibleSelected([]string{}))
}

func TestSelection_SurvivesFilterChange(t *testing.T) {
	txns := generateTransactions(20)
	state := NewTableState()
	state.PageSize = 10
	selection := NewSelection()

	view := Query(txns, state, nil)
	assert.Equal(t, 2, view.PageCount)
	selection.SelectAllVisible(view.VisibleIDs())
	assert.Equal(t, 10, selection.Len())

	state.SetSearch("no transaction says this")
	view = Query(txns, state, nil)

	assert.Empty(t, view.Rows)
	assert.Equal(t, 10, selection.Len())
	assert.False(t, selection.AllVisibleSelected(view.VisibleIDs()))
}

func TestSelection_Clear(t *testing.T) {
	s := NewSelection()
	s.Toggle("a")

	s.Clear()

	assert.Equal(t, 0, s.Len())
	assert.Empty(t, s.IDs())
}
