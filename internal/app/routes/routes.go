package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/deniz/regdesk/internal/app/controllers"
	"github.com/deniz/regdesk/internal/app/services"
	"github.com/deniz/regdesk/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	studentController *controllers.StudentController,
	noteController *controllers.NoteController,
	listStateController *controllers.ListStateController,
	authService services.AuthService,
) {
	api := router.Group("/api")

	// --- Public auth routes ---
	auth := api.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
		auth.POST("/logout", authController.Logout)
	}

	// --- Authenticated routes ---
	authenticated := api.Group("")
	authenticated.Use(middleware.SessionAuth(authService))
	{
		authenticated.GET("/auth/me", authController.Me)

		students := authenticated.Group("/students")
		{
			students.GET("", studentController.ListStudents)
			students.POST("", studentController.CreateStudent)
			students.POST("/import", studentController.ImportStudents)
			students.GET("/export", studentController.ExportStudents)
			students.GET("/:id", studentController.GetStudent)
			students.PUT("/:id", studentController.UpdateStudent)
			students.DELETE("/:id", studentController.DeleteStudent)

			students.GET("/:id/notes", noteController.ListNotes)
			students.POST("/:id/notes", noteController.CreateNote)
		}

		notes := authenticated.Group("/notes")
		{
			notes.PUT("/:id", noteController.UpdateNote)
			notes.DELETE("/:id", noteController.DeleteNote)
		}

		listState := authenticated.Group("/list-state")
		{
			listState.GET("", listStateController.GetListState)
			listState.PUT("", listStateController.PutListState)
		}
	}
}
