// Package liststate models the dashboard's list view state: filters, sort,
// page window and row expansion. The state is an explicit object with an
// explicit load/save lifecycle; it is persisted per session and can be
// overridden by URL query parameters on load.
package liststate

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/deniz/regdesk/internal/app/models/dto"
	"github.com/deniz/regdesk/internal/pkg/helpers"
)

// Filters holds the seven independent filter fields. Dates are kept as plain
// calendar date strings; a malformed bound is dropped rather than rejected.
type Filters struct {
	Name             string   `json:"name"`
	Email            string   `json:"email"`
	Phone            string   `json:"phone"`
	CourseInterested []string `json:"courseInterested"`
	Status           []string `json:"status"`
	Location         string   `json:"location"`
	DateFrom         string   `json:"registrationDateFrom"`
	DateTo           string   `json:"registrationDateTo"`
}

// State is the complete list view state. The expanded-row set is transient;
// only the most recently expanded ID survives persistence, to drive
// scroll-into-view on restore.
type State struct {
	Filters        Filters `json:"filters"`
	SortBy         string  `json:"sortBy"`
	SortOrder      string  `json:"sortOrder"`
	Offset         int     `json:"offset"`
	Limit          int     `json:"limit"`
	LastExpandedID *int64  `json:"lastExpandedId"`

	expanded map[int64]bool
}

// New returns the default view state: no filters, no sort, first page.
func New() *State {
	return &State{
		Limit:    helpers.DefaultLimit,
		expanded: map[int64]bool{},
	}
}

// Normalize repairs a state loaded from an untrusted source: out-of-range
// page windows are clamped and unknown sort columns cleared.
func (s *State) Normalize() {
	s.Limit = helpers.NormalizeLimit(s.Limit)
	s.Offset = helpers.NormalizeOffset(s.Offset)
	if s.SortBy != "" && !dto.ValidSortField(s.SortBy) {
		s.SortBy = ""
		s.SortOrder = ""
	}
	if s.SortBy != "" && s.SortOrder != "asc" && s.SortOrder != "desc" {
		s.SortOrder = "asc"
	}
	if s.Filters.DateFrom != "" {
		if _, ok := helpers.ParseDate(s.Filters.DateFrom); !ok {
			s.Filters.DateFrom = ""
		}
	}
	if s.Filters.DateTo != "" {
		if _, ok := helpers.ParseDate(s.Filters.DateTo); !ok {
			s.Filters.DateTo = ""
		}
	}
	if s.expanded == nil {
		s.expanded = map[int64]bool{}
	}
}

// Filter edits reset the page window to the first page.

func (s *State) SetNameFilter(v string)  { s.Filters.Name = v; s.Offset = 0 }
func (s *State) SetEmailFilter(v string) { s.Filters.Email = v; s.Offset = 0 }
func (s *State) SetPhoneFilter(v string) { s.Filters.Phone = v; s.Offset = 0 }

func (s *State) SetLocationFilter(v string) {
	s.Filters.Location = v
	s.Offset = 0
}

func (s *State) SetCourseFilter(values []string) {
	s.Filters.CourseInterested = values
	s.Offset = 0
}

func (s *State) SetStatusFilter(values []string) {
	s.Filters.Status = values
	s.Offset = 0
}

// SetDateRange sets the registration date bounds. A bound that does not parse
// as a calendar date is dropped rather than stored.
func (s *State) SetDateRange(from, to string) {
	s.Filters.DateFrom = ""
	if _, ok := helpers.ParseDate(from); ok {
		s.Filters.DateFrom = from
	}
	s.Filters.DateTo = ""
	if _, ok := helpers.ParseDate(to); ok {
		s.Filters.DateTo = to
	}
	s.Offset = 0
}

// ClearFilters resets all filter fields and returns to the first page. Sort
// and limit survive.
func (s *State) ClearFilters() {
	s.Filters = Filters{}
	s.Offset = 0
}

// ClickSort advances the sort cycle for a column: ascending on first click,
// descending on the second, cleared on the third. Clicking a different
// column starts its cycle at ascending.
func (s *State) ClickSort(column string) {
	if !dto.ValidSortField(column) {
		return
	}
	switch {
	case s.SortBy != column:
		s.SortBy = column
		s.SortOrder = "asc"
	case s.SortOrder == "asc":
		s.SortOrder = "desc"
	default:
		s.SortBy = ""
		s.SortOrder = ""
	}
	s.Offset = 0
}

// SetLimit changes the page size and returns to the first page.
func (s *State) SetLimit(limit int) {
	s.Limit = helpers.NormalizeLimit(limit)
	s.Offset = 0
}

// NextPage advances the page window. Advancing past the last record of a
// result set of the given total is a no-op.
func (s *State) NextPage(total int64) {
	if int64(s.Offset+s.Limit) >= total {
		return
	}
	s.Offset += s.Limit
}

// PrevPage moves the page window back, stopping at the first page.
func (s *State) PrevPage() {
	s.Offset -= s.Limit
	if s.Offset < 0 {
		s.Offset = 0
	}
}

// ToggleExpand flips a row's expansion. Expanding records the ID as the most
// recently expanded; collapsing that same row clears the pointer.
func (s *State) ToggleExpand(id int64) {
	if s.expanded == nil {
		s.expanded = map[int64]bool{}
	}
	if s.expanded[id] {
		delete(s.expanded, id)
		if s.LastExpandedID != nil && *s.LastExpandedID == id {
			s.LastExpandedID = nil
		}
		return
	}
	s.expanded[id] = true
	s.LastExpandedID = &id
}

// IsExpanded reports whether a row is currently expanded.
func (s *State) IsExpanded(id int64) bool {
	return s.expanded[id]
}

// queryParams are the recognized URL parameter names, matching the
// GET /api/students contract.
var queryParams = []string{
	"name", "email", "phone", "courseInterested", "location", "status",
	"registrationDateFrom", "registrationDateTo", "limit", "offset",
	"sortBy", "sortOrder",
}

// ApplyQueryParams sets every field a recognized URL parameter names and
// reports whether any was present. Whether the URL beats a saved snapshot
// is the caller's call; this only applies the values.
func (s *State) ApplyQueryParams(values url.Values) bool {
	applied := false
	for _, name := range queryParams {
		if !values.Has(name) {
			continue
		}
		applied = true
		v := values.Get(name)
		switch name {
		case "name":
			s.Filters.Name = v
		case "email":
			s.Filters.Email = v
		case "phone":
			s.Filters.Phone = v
		case "courseInterested":
			s.Filters.CourseInterested = splitCSVParam(v)
		case "location":
			s.Filters.Location = v
		case "status":
			s.Filters.Status = splitCSVParam(v)
		case "registrationDateFrom":
			s.Filters.DateFrom = v
		case "registrationDateTo":
			s.Filters.DateTo = v
		case "limit":
			if n, err := strconv.Atoi(v); err == nil {
				s.Limit = n
			}
		case "offset":
			if n, err := strconv.Atoi(v); err == nil {
				s.Offset = n
			}
		case "sortBy":
			s.SortBy = v
		case "sortOrder":
			s.SortOrder = v
		}
	}
	if applied {
		s.Normalize()
	}
	return applied
}

// Filter converts the view state into the query filter the student listing
// understands.
func (s *State) Filter() *dto.StudentFilter {
	filter := &dto.StudentFilter{
		Name:             s.Filters.Name,
		Email:            s.Filters.Email,
		Phone:            s.Filters.Phone,
		CourseInterested: s.Filters.CourseInterested,
		Status:           s.Filters.Status,
		Location:         s.Filters.Location,
		SortBy:           s.SortBy,
		SortOrder:        s.SortOrder,
		Offset:           s.Offset,
		Limit:            s.Limit,
	}
	if t, ok := helpers.ParseDate(s.Filters.DateFrom); ok {
		filter.DateFrom = &t
	}
	if t, ok := helpers.ParseDate(s.Filters.DateTo); ok {
		filter.DateTo = &t
	}
	return filter
}

// splitCSVParam splits a comma-joined multi-value parameter, dropping empty
// segments.
func splitCSVParam(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
