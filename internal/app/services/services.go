// Package services contains the business logic layer sitting between the
// HTTP controllers and the repositories.
package services

import (
	"time"

	"github.com/deniz/regdesk/internal/app/repositories"
	"github.com/deniz/regdesk/internal/pkg/session"
)

// Services bundles all service instances for dependency injection
type Services struct {
	Student   StudentService
	Note      NoteService
	Auth      AuthService
	Export    ExportService
	ListState ListStateService
}

// NewServices wires the service layer on top of the repositories and the
// chosen session store.
func NewServices(repos *repositories.Repositories, sessions session.Store, sessionTTL time.Duration) *Services {
	studentService := NewStudentService(repos.Student, repos.Note)
	return &Services{
		Student:   studentService,
		Note:      NewNoteService(repos.Note, repos.Student),
		Auth:      NewAuthService(repos.User, sessions, sessionTTL),
		Export:    NewExportService(repos.Student),
		ListState: NewListStateService(repos.ListState),
	}
}
