package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/deniz/regdesk/internal/app/models"
	"github.com/deniz/regdesk/internal/app/models/dto"
	"github.com/deniz/regdesk/internal/pkg/apperrors"
	"github.com/deniz/regdesk/internal/pkg/dberrors"
	"github.com/deniz/regdesk/internal/pkg/logger"
)

const studentEmailConstraint = "students_email_key"

var studentColumns = []string{
	"id", "name", "email", "phone", "course_interested", "location",
	"citizenship_status", "current_situation", "status", "registration_date",
	"created_at", "updated_at",
}

// sortColumnMap maps API sort field names to table columns. Anything not
// listed is rejected.
var sortColumnMap = map[string]string{
	"name":             "name",
	"email":            "email",
	"phone":            "phone",
	"courseInterested": "course_interested",
	"location":         "location",
	"status":           "status",
	"registrationDate": "registration_date",
	"createdAt":        "created_at",
	"updatedAt":        "updated_at",
}

// StudentRepository handles database operations for student records
type StudentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewStudentRepository creates a new student repository
func NewStudentRepository(db *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// studentFilterConditions translates a filter into a WHERE
// condition. Predicates are ANDed; multi-value fields become IN sets.
// A blank or whitespace-only location means no location filter.
func studentFilterConditions(filter *dto.StudentFilter) squirrel.And {
	cond := squirrel.And{}
	if filter == nil {
		return cond
	}

	if name := strings.TrimSpace(filter.Name); name != "" {
		cond = append(cond, squirrel.ILike{"name": "%" + name + "%"})
	}
	if email := strings.TrimSpace(filter.Email); email != "" {
		cond = append(cond, squirrel.ILike{"email": "%" + email + "%"})
	}
	if phone := strings.TrimSpace(filter.Phone); phone != "" {
		cond = append(cond, squirrel.ILike{"phone": "%" + phone + "%"})
	}
	if len(filter.CourseInterested) > 0 {
		cond = append(cond, squirrel.Eq{"course_interested": filter.CourseInterested})
	}
	if len(filter.Status) > 0 {
		cond = append(cond, squirrel.Eq{"status": filter.Status})
	}
	if strings.TrimSpace(filter.Location) != "" {
		cond = append(cond, squirrel.Eq{"location": filter.Location})
	}
	if filter.DateFrom != nil {
		cond = append(cond, squirrel.GtOrEq{"registration_date": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		cond = append(cond, squirrel.LtOrEq{"registration_date": *filter.DateTo})
	}

	return cond
}

// orderClause resolves the requested sort into a SQL ORDER BY expression.
// Without an explicit sort the listing falls back to insertion order.
func orderClause(sortBy, sortOrder string) string {
	column, ok := sortColumnMap[sortBy]
	if !ok {
		return "id ASC"
	}
	direction := "ASC"
	if strings.EqualFold(sortOrder, "desc") {
		direction = "DESC"
	}
	return fmt.Sprintf("%s %s, id ASC", column, direction)
}

// List returns the page of students matching the filter plus the total match
// count. An empty result is a valid outcome, never an error.
func (r *StudentRepository) List(ctx context.Context, filter *dto.StudentFilter) ([]models.Student, int64, error) {
	cond := studentFilterConditions(filter)

	countSql, countArgs, err := r.sb.Select("COUNT(*)").
		From("students").
		Where(cond).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count students query: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, countSql, countArgs...).Scan(&total); err != nil {
		logger.Error().Err(err).Msg("Error executing count students query")
		return nil, 0, fmt.Errorf("failed to count students: %w", err)
	}

	if total == 0 {
		return []models.Student{}, 0, nil
	}

	query := r.sb.Select(studentColumns...).
		From("students").
		Where(cond).
		OrderBy(orderClause(filter.SortBy, filter.SortOrder))

	if !filter.Unbounded {
		query = query.Limit(uint64(filter.Limit)).Offset(uint64(filter.Offset))
	}

	querySql, queryArgs, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list students query: %w", err)
	}

	rows, err := r.db.Query(ctx, querySql, queryArgs...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list students query")
		return nil, 0, fmt.Errorf("failed to query students: %w", err)
	}
	defer rows.Close()

	var students []models.Student
	for rows.Next() {
		var student models.Student
		if err := scanStudent(rows, &student); err != nil {
			return nil, 0, fmt.Errorf("failed to scan student row: %w", err)
		}
		students = append(students, student)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	if students == nil {
		students = []models.Student{}
	}
	return students, total, nil
}

// GetByID retrieves a student record by ID
func (r *StudentRepository) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	sql, args, err := r.sb.Select(studentColumns...).
		From("students").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get student query: %w", err)
	}

	var student models.Student
	row := r.db.QueryRow(ctx, sql, args...)
	if err := scanStudent(row, &student); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("error retrieving student: %w", err)
	}

	return &student, nil
}

// Create inserts a new student record and fills in the assigned ID and
// store timestamps.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	sql, args, err := r.sb.Insert("students").
		Columns("name", "email", "phone", "course_interested", "location",
			"citizenship_status", "current_situation", "status", "registration_date").
		Values(student.Name, student.Email, student.Phone, student.CourseInterested,
			student.Location, student.CitizenshipStatus, student.CurrentSituation,
			student.Status, student.RegistrationDate).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create student query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&student.ID, &student.CreatedAt, &student.UpdatedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, studentEmailConstraint) {
			return apperrors.ErrStudentEmailExists
		}
		logger.Error().Err(err).Str("email", student.Email).Msg("Error executing create student query")
		return fmt.Errorf("error creating student: %w", err)
	}

	return nil
}

// Update applies the non-nil fields of the change set to an existing record
// and refreshes updated_at.
func (r *StudentRepository) Update(ctx context.Context, id int64, changes map[string]interface{}) (*models.Student, error) {
	if len(changes) == 0 {
		return r.GetByID(ctx, id)
	}

	update := r.sb.Update("students").
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + strings.Join(studentColumns, ", "))
	for column, value := range changes {
		update = update.Set(column, value)
	}

	sql, args, err := update.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build update student query: %w", err)
	}

	var student models.Student
	row := r.db.QueryRow(ctx, sql, args...)
	if err := scanStudent(row, &student); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		if dberrors.IsDuplicateConstraintError(err, studentEmailConstraint) {
			return nil, apperrors.ErrStudentEmailExists
		}
		logger.Error().Err(err).Int64("studentID", id).Msg("Error executing update student query")
		return nil, fmt.Errorf("error updating student: %w", err)
	}

	return &student, nil
}

// Delete removes a student record. Notes cascade at the schema level.
func (r *StudentRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("students").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete student query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("studentID", id).Msg("Error executing delete student query")
		return fmt.Errorf("error deleting student: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}

	return nil
}

// scanStudent reads a student row in studentColumns order.
func scanStudent(row pgx.Row, student *models.Student) error {
	return row.Scan(
		&student.ID,
		&student.Name,
		&student.Email,
		&student.Phone,
		&student.CourseInterested,
		&student.Location,
		&student.CitizenshipStatus,
		&student.CurrentSituation,
		&student.Status,
		&student.RegistrationDate,
		&student.CreatedAt,
		&student.UpdatedAt,
	)
}
