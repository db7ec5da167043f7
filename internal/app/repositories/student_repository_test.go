package repositories

import (
	"testing"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deniz/regdesk/internal/app/models/dto"
)

func buildWhere(t *testing.T, filter *dto.StudentFilter) (string, []interface{}) {
	t.Helper()
	sql, args, err := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar).
		Select("COUNT(*)").
		From("students").
		Where(studentFilterConditions(filter)).
		ToSql()
	require.NoError(t, err)
	return sql, args
}

func TestStudentFilterConditions_Empty(t *testing.T) {
	sql, args := buildWhere(t, &dto.StudentFilter{})

	assert.Equal(t, "SELECT COUNT(*) FROM students WHERE (1=1)", sql)
	assert.Empty(t, args)
}

func TestStudentFilterConditions_SubstringFields(t *testing.T) {
	sql, args := buildWhere(t, &dto.StudentFilter{
		Name:  "ali",
		Email: "example.com",
		Phone: "555",
	})

	assert.Contains(t, sql, "name ILIKE $1")
	assert.Contains(t, sql, "email ILIKE $2")
	assert.Contains(t, sql, "phone ILIKE $3")
	assert.Equal(t, []interface{}{"%ali%", "%example.com%", "%555%"}, args)
}

func TestStudentFilterConditions_MultiValueSets(t *testing.T) {
	sql, args := buildWhere(t, &dto.StudentFilter{
		Status:           []string{"active", "pending"},
		CourseInterested: []string{"Nursing"},
	})

	assert.Contains(t, sql, "course_interested IN ($1)")
	assert.Contains(t, sql, "status IN ($2,$3)")
	assert.Equal(t, []interface{}{"Nursing", "active", "pending"}, args)
}

func TestStudentFilterConditions_BlankLocationIgnored(t *testing.T) {
	sql, args := buildWhere(t, &dto.StudentFilter{Location: "   "})

	assert.NotContains(t, sql, "location")
	assert.Empty(t, args)
}

func TestStudentFilterConditions_LocationExactMatch(t *testing.T) {
	sql, args := buildWhere(t, &dto.StudentFilter{Location: "Toronto"})

	assert.Contains(t, sql, "location = $1")
	assert.Equal(t, []interface{}{"Toronto"}, args)
}

func TestStudentFilterConditions_DateRangeInclusive(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)

	sql, args := buildWhere(t, &dto.StudentFilter{DateFrom: &from, DateTo: &to})

	assert.Contains(t, sql, "registration_date >= $1")
	assert.Contains(t, sql, "registration_date <= $2")
	assert.Equal(t, []interface{}{from, to}, args)
}

func TestStudentFilterConditions_CombinedFiltersAreANDed(t *testing.T) {
	sql, _ := buildWhere(t, &dto.StudentFilter{
		Name:   "smith",
		Status: []string{"enrolled"},
	})

	assert.Contains(t, sql, "name ILIKE $1 AND status IN ($2)")
}

func TestOrderClause(t *testing.T) {
	tests := []struct {
		name      string
		sortBy    string
		sortOrder string
		want      string
	}{
		{"no sort falls back to insertion order", "", "", "id ASC"},
		{"unknown column falls back to insertion order", "password_hash", "asc", "id ASC"},
		{"ascending name", "name", "asc", "name ASC, id ASC"},
		{"descending registration date", "registrationDate", "desc", "registration_date DESC, id ASC"},
		{"camel case column mapped", "courseInterested", "asc", "course_interested ASC, id ASC"},
		{"missing direction defaults to ascending", "email", "", "email ASC, id ASC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, orderClause(tt.sortBy, tt.sortOrder))
		})
	}
}
