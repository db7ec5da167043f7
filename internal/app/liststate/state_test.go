package liststate

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClickSort_Cycle(t *testing.T) {
	s := New()

	s.ClickSort("name")
	assert.Equal(t, "name", s.SortBy)
	assert.Equal(t, "asc", s.SortOrder)

	s.ClickSort("name")
	assert.Equal(t, "name", s.SortBy)
	assert.Equal(t, "desc", s.SortOrder)

	s.ClickSort("name")
	assert.Empty(t, s.SortBy)
	assert.Empty(t, s.SortOrder)
}

func TestClickSort_SwitchingColumnStartsAscending(t *testing.T) {
	s := New()
	s.ClickSort("name")
	s.ClickSort("name")

	s.ClickSort("email")

	assert.Equal(t, "email", s.SortBy)
	assert.Equal(t, "asc", s.SortOrder)
}

func TestClickSort_UnknownColumnIgnored(t *testing.T) {
	s := New()
	s.ClickSort("passwordHash")

	assert.Empty(t, s.SortBy)
}

func TestSetLimit_ResetsOffsetAndClamps(t *testing.T) {
	s := New()
	s.Offset = 40

	s.SetLimit(20)
	assert.Equal(t, 20, s.Limit)
	assert.Equal(t, 0, s.Offset)

	s.Offset = 20
	s.SetLimit(37)
	assert.Equal(t, 300, s.Limit)
	assert.Equal(t, 0, s.Offset)
}

func TestFilterEditsResetOffset(t *testing.T) {
	s := New()
	s.SetLimit(10)

	s.NextPage(100)
	require.Equal(t, 10, s.Offset)

	s.SetNameFilter("smith")
	assert.Equal(t, 0, s.Offset)

	s.NextPage(100)
	s.SetStatusFilter([]string{"active"})
	assert.Equal(t, 0, s.Offset)
}

func TestNextPage_NoOpAtEnd(t *testing.T) {
	s := New()
	s.SetLimit(10)

	s.NextPage(25)
	assert.Equal(t, 10, s.Offset)
	s.NextPage(25)
	assert.Equal(t, 20, s.Offset)

	// offset + limit >= total, so the window stays put
	s.NextPage(25)
	assert.Equal(t, 20, s.Offset)
}

func TestPrevPage_StopsAtFirstPage(t *testing.T) {
	s := New()
	s.SetLimit(10)
	s.Offset = 10

	s.PrevPage()
	assert.Equal(t, 0, s.Offset)
	s.PrevPage()
	assert.Equal(t, 0, s.Offset)
}

func TestSetDateRange_DropsMalformedBound(t *testing.T) {
	s := New()

	s.SetDateRange("2024-01-01", "not-a-date")

	assert.Equal(t, "2024-01-01", s.Filters.DateFrom)
	assert.Empty(t, s.Filters.DateTo)
}

func TestClearFilters_KeepsSortAndLimit(t *testing.T) {
	s := New()
	s.SetLimit(50)
	s.ClickSort("email")
	s.SetNameFilter("smith")
	s.SetStatusFilter([]string{"active", "pending"})

	s.ClearFilters()

	assert.Equal(t, Filters{}, s.Filters)
	assert.Equal(t, "email", s.SortBy)
	assert.Equal(t, 50, s.Limit)
	assert.Equal(t, 0, s.Offset)
}

func TestToggleExpand(t *testing.T) {
	s := New()

	s.ToggleExpand(7)
	s.ToggleExpand(9)
	assert.True(t, s.IsExpanded(7))
	assert.True(t, s.IsExpanded(9))
	require.NotNil(t, s.LastExpandedID)
	assert.Equal(t, int64(9), *s.LastExpandedID)

	// collapsing the most recently expanded row clears the pointer
	s.ToggleExpand(9)
	assert.False(t, s.IsExpanded(9))
	assert.Nil(t, s.LastExpandedID)
	assert.True(t, s.IsExpanded(7))
}

func TestApplyQueryParams_SetsNamedFields(t *testing.T) {
	s := New()
	s.SetNameFilter("old")
	s.SetLimit(50)
	s.Offset = 100

	values, err := url.ParseQuery("status=active,pending&limit=10&offset=0")
	require.NoError(t, err)

	applied := s.ApplyQueryParams(values)

	assert.True(t, applied)
	assert.Equal(t, []string{"active", "pending"}, s.Filters.Status)
	assert.Equal(t, 10, s.Limit)
	assert.Equal(t, 0, s.Offset)
	// fields the URL does not name are untouched
	assert.Equal(t, "old", s.Filters.Name)
}

func TestApplyQueryParams_NoRecognizedParams(t *testing.T) {
	s := New()
	s.SetNameFilter("kept")

	values, err := url.ParseQuery("utm_source=mail")
	require.NoError(t, err)

	assert.False(t, s.ApplyQueryParams(values))
	assert.Equal(t, "kept", s.Filters.Name)
}

func TestNormalize_RepairsLoadedState(t *testing.T) {
	s := &State{
		SortBy:    "secret",
		SortOrder: "asc",
		Offset:    -5,
		Limit:     42,
	}
	s.Filters.DateFrom = "13/13/2024"

	s.Normalize()

	assert.Empty(t, s.SortBy)
	assert.Equal(t, 0, s.Offset)
	assert.Equal(t, 300, s.Limit)
	assert.Empty(t, s.Filters.DateFrom)
}

func TestFilter_ConvertsDates(t *testing.T) {
	s := New()
	s.SetDateRange("2024-01-01", "2024-06-30")
	s.SetStatusFilter([]string{"enrolled"})

	f := s.Filter()

	require.NotNil(t, f.DateFrom)
	require.NotNil(t, f.DateTo)
	assert.Equal(t, "2024-01-01", f.DateFrom.Format("2006-01-02"))
	assert.Equal(t, []string{"enrolled"}, f.Status)
	assert.Equal(t, 300, f.Limit)
}
