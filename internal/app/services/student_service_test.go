package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deniz/regdesk/internal/app/models"
	"github.com/deniz/regdesk/internal/app/models/dto"
	"github.com/deniz/regdesk/internal/pkg/apperrors"
	"github.com/deniz/regdesk/internal/pkg/helpers"
)

// stubStudentStore is an in-memory studentStore for service tests.
type stubStudentStore struct {
	students   map[int64]*models.Student
	nextID     int64
	lastFilter *dto.StudentFilter
}

func newStubStudentStore() *stubStudentStore {
	return &stubStudentStore{students: map[int64]*models.Student{}}
}

func (s *stubStudentStore) List(_ context.Context, filter *dto.StudentFilter) ([]models.Student, int64, error) {
	s.lastFilter = filter
	out := make([]models.Student, 0, len(s.students))
	for _, st := range s.students {
		out = append(out, *st)
	}
	return out, int64(len(out)), nil
}

func (s *stubStudentStore) GetByID(_ context.Context, id int64) (*models.Student, error) {
	st, ok := s.students[id]
	if !ok {
		return nil, apperrors.ErrStudentNotFound
	}
	copied := *st
	return &copied, nil
}

func (s *stubStudentStore) Create(_ context.Context, student *models.Student) error {
	for _, existing := range s.students {
		if existing.Email == student.Email {
			return apperrors.ErrStudentEmailExists
		}
	}
	s.nextID++
	student.ID = s.nextID
	student.CreatedAt = time.Now()
	student.UpdatedAt = student.CreatedAt
	copied := *student
	s.students[student.ID] = &copied
	return nil
}

func (s *stubStudentStore) Update(_ context.Context, id int64, changes map[string]interface{}) (*models.Student, error) {
	st, ok := s.students[id]
	if !ok {
		return nil, apperrors.ErrStudentNotFound
	}
	if v, ok := changes["name"]; ok {
		st.Name = v.(string)
	}
	if v, ok := changes["status"]; ok {
		st.Status = v.(string)
	}
	if v, ok := changes["course_interested"]; ok {
		st.CourseInterested, _ = v.(*string)
	}
	if v, ok := changes["location"]; ok {
		st.Location, _ = v.(*string)
	}
	if v, ok := changes["citizenship_status"]; ok {
		st.CitizenshipStatus, _ = v.(*string)
	}
	if v, ok := changes["current_situation"]; ok {
		st.CurrentSituation, _ = v.(*string)
	}
	if v, ok := changes["registration_date"]; ok {
		st.RegistrationDate = v.(time.Time)
	}
	st.UpdatedAt = time.Now()
	copied := *st
	return &copied, nil
}

func (s *stubStudentStore) Delete(_ context.Context, id int64) error {
	if _, ok := s.students[id]; !ok {
		return apperrors.ErrStudentNotFound
	}
	delete(s.students, id)
	return nil
}

// stubNoteWriter records created notes.
type stubNoteWriter struct {
	created []models.StudentNote
}

func (w *stubNoteWriter) Create(_ context.Context, note *models.StudentNote) error {
	note.ID = int64(len(w.created) + 1)
	note.CreatedAt = time.Now()
	note.UpdatedAt = note.CreatedAt
	w.created = append(w.created, *note)
	return nil
}

func TestStudentService_Create_Defaults(t *testing.T) {
	store := newStubStudentStore()
	svc := NewStudentService(store, &stubNoteWriter{})

	student, err := svc.Create(context.Background(), &dto.CreateStudentRequest{
		Name:  "Jane Smith",
		Email: "jane@example.com",
		Phone: "5551234",
	})

	require.NoError(t, err)
	assert.Equal(t, string(models.StatusPending), student.Status)
	assert.Equal(t, helpers.FormatDate(time.Now()), helpers.FormatDate(student.RegistrationDate))
	assert.NotZero(t, student.ID)
}

func TestStudentService_Create_StoresOptionalFields(t *testing.T) {
	store := newStubStudentStore()
	svc := NewStudentService(store, &stubNoteWriter{})

	course := "Nursing"
	location := "Toronto, ON"
	student, err := svc.Create(context.Background(), &dto.CreateStudentRequest{
		Name:             "Jane Smith",
		Email:            "jane@example.com",
		Phone:            "5551234",
		CourseInterested: &course,
		Location:         &location,
	})
	require.NoError(t, err)

	stored, err := store.GetByID(context.Background(), student.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.CourseInterested)
	assert.Equal(t, "Nursing", *stored.CourseInterested)
	require.NotNil(t, stored.Location)
	assert.Equal(t, "Toronto, ON", *stored.Location)
	assert.Nil(t, stored.CitizenshipStatus)
}

func TestStudentService_Update_EmptyOptionalClearsField(t *testing.T) {
	store := newStubStudentStore()
	svc := NewStudentService(store, &stubNoteWriter{})

	course := "Nursing"
	student, err := svc.Create(context.Background(), &dto.CreateStudentRequest{
		Name: "Jane", Email: "jane@example.com", Phone: "5551234", CourseInterested: &course,
	})
	require.NoError(t, err)

	blank := ""
	updated, err := svc.Update(context.Background(), student.ID, 1, &dto.UpdateStudentRequest{CourseInterested: &blank})
	require.NoError(t, err)
	assert.Nil(t, updated.CourseInterested)
}

func TestStudentService_Create_InvalidStatus(t *testing.T) {
	svc := NewStudentService(newStubStudentStore(), &stubNoteWriter{})

	_, err := svc.Create(context.Background(), &dto.CreateStudentRequest{
		Name:   "Jane",
		Email:  "jane@example.com",
		Phone:  "5551234",
		Status: "vanished",
	})

	assert.ErrorIs(t, err, apperrors.ErrInvalidStudentStatus)
}

func TestStudentService_Create_InvalidRegistrationDate(t *testing.T) {
	svc := NewStudentService(newStubStudentStore(), &stubNoteWriter{})

	_, err := svc.Create(context.Background(), &dto.CreateStudentRequest{
		Name:             "Jane",
		Email:            "jane@example.com",
		Phone:            "5551234",
		RegistrationDate: "01/15/2024",
	})

	assert.ErrorIs(t, err, apperrors.ErrInvalidRegistrationDate)
}

func TestStudentService_Create_DuplicateEmail(t *testing.T) {
	store := newStubStudentStore()
	svc := NewStudentService(store, &stubNoteWriter{})

	req := &dto.CreateStudentRequest{Name: "A", Email: "dup@example.com", Phone: "1"}
	_, err := svc.Create(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, apperrors.ErrStudentEmailExists)
}

func TestStudentService_Update_StatusChangeRecordsSystemNote(t *testing.T) {
	store := newStubStudentStore()
	notes := &stubNoteWriter{}
	svc := NewStudentService(store, notes)

	student, err := svc.Create(context.Background(), &dto.CreateStudentRequest{
		Name: "Jane", Email: "jane@example.com", Phone: "5551234", Status: "pending",
	})
	require.NoError(t, err)

	newStatus := "enrolled"
	updated, err := svc.Update(context.Background(), student.ID, 42, &dto.UpdateStudentRequest{Status: &newStatus})
	require.NoError(t, err)
	assert.Equal(t, "enrolled", updated.Status)

	require.Len(t, notes.created, 1)
	note := notes.created[0]
	assert.Equal(t, "Status changed from pending to enrolled", note.Content)
	assert.True(t, note.IsSystemGenerated)
	// system notes carry no author
	assert.Nil(t, note.CreatedBy)
}

func TestStudentService_Update_SameStatusNoNote(t *testing.T) {
	store := newStubStudentStore()
	notes := &stubNoteWriter{}
	svc := NewStudentService(store, notes)

	student, err := svc.Create(context.Background(), &dto.CreateStudentRequest{
		Name: "Jane", Email: "jane@example.com", Phone: "5551234", Status: "active",
	})
	require.NoError(t, err)

	name := "Jane Q. Smith"
	status := "active"
	_, err = svc.Update(context.Background(), student.ID, 42, &dto.UpdateStudentRequest{Name: &name, Status: &status})
	require.NoError(t, err)

	assert.Empty(t, notes.created)
}

func TestStudentService_Update_NotFound(t *testing.T) {
	svc := NewStudentService(newStubStudentStore(), &stubNoteWriter{})

	name := "x"
	_, err := svc.Update(context.Background(), 999, 1, &dto.UpdateStudentRequest{Name: &name})
	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)
}

func TestStudentService_List_NormalizesWindowAndRejectsBadSort(t *testing.T) {
	store := newStubStudentStore()
	svc := NewStudentService(store, &stubNoteWriter{})

	_, err := svc.List(context.Background(), &dto.StudentFilter{Limit: 42, Offset: -3})
	require.NoError(t, err)
	assert.Equal(t, helpers.DefaultLimit, store.lastFilter.Limit)
	assert.Equal(t, 0, store.lastFilter.Offset)

	_, err = svc.List(context.Background(), &dto.StudentFilter{SortBy: "passwordHash"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidSortColumn)
}
