// Package repositories contains the data access layer. Each repository owns
// the SQL for one aggregate and maps database failures to application errors.
package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories bundles all repository instances for dependency injection
type Repositories struct {
	Student   *StudentRepository
	Note      *NoteRepository
	User      *UserRepository
	ListState *ListStateRepository
}

// NewRepositories creates all repositories backed by the given pool
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		Student:   NewStudentRepository(db),
		Note:      NewNoteRepository(db),
		User:      NewUserRepository(db),
		ListState: NewListStateRepository(db),
	}
}
