// ============================================================================
// internal/gateway/routes.go
// Chi router, middleware stack, and route tree for the grading gateway
// ============================================================================

package gateway

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"internhub/internal/auth"
	"internhub/internal/gateway/handlers"
	"internhub/internal/grading"
	"internhub/internal/shared"
)

// Dependencies groups what the router needs wired in
type Dependencies struct {
	Config  *shared.ServiceConfig
	Service *grading.GradingService
	Inbox   handlers.NotificationInbox
}

// SetupRoutes configures the Chi router, middleware, and route handlers.
func SetupRoutes(deps Dependencies) *chi.Mux {
	r := chi.NewRouter()

	// 1. Global Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(60 * time.Second))

	// CORS Configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Config.CORS.AllowedOrigins,
		AllowedMethods:   deps.Config.CORS.AllowedMethods,
		AllowedHeaders:   deps.Config.CORS.AllowedHeaders,
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: deps.Config.CORS.AllowCredentials,
		MaxAge:           deps.Config.CORS.MaxAge,
	}))

	// 2. Initialize Handlers
	gradeHandler := &handlers.GradeHandler{Service: deps.Service}
	committeeHandler := &handlers.CommitteeHandler{Service: deps.Service}
	studentHandler := &handlers.StudentHandler{Service: deps.Service, Inbox: deps.Inbox}
	officeHandler := &handlers.OfficeHandler{Service: deps.Service}

	// 3. Define Routes (grouped by prefix)
	r.Route("/api", func(r chi.Router) {

		// --- Public Routes ---

		r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"status":"ok"}`))
		})

		// --- Protected Routes (Require Valid Token) ---
		r.Group(func(r chi.Router) {
			// Inject Auth Middleware
			r.Use(auth.Middleware(deps.Config.Security.JWTSecret))

			// Supervisor Grading
			r.Route("/grades", func(r chi.Router) {
				r.Get("/mine", gradeHandler.ListMine)

				r.Route("/students/{student_id}", func(r chi.Router) {
					r.Get("/", gradeHandler.GetOrCreateForStudent)

					// Milestones
					r.Post("/milestones", gradeHandler.AddMilestone)
					r.Patch("/milestones/{milestone_id}", gradeHandler.UpdateMilestoneStatus)
					r.Put("/milestones/{milestone_id}", gradeHandler.EditMilestone)
					r.Delete("/milestones/{milestone_id}", gradeHandler.DeleteMilestone)

					// Milestone Files (supervisor or student)
					r.Post("/milestones/{milestone_id}/files", gradeHandler.AttachFiles)
					r.Delete("/milestones/{milestone_id}/files/{file_id}", gradeHandler.RemoveFile)

					// Components & Submission
					r.Put("/components", gradeHandler.UpdateComponents)
					r.Post("/submit", gradeHandler.SubmitGrade)
				})
			})

			// Committee Review
			r.Route("/committee", func(r chi.Router) {
				r.Get("/subjects/{subject_id}/pending", committeeHandler.ListPending)
				r.Get("/subjects/{subject_id}/statistics", committeeHandler.GetStatistics)
				r.Post("/records/{record_id}/review", committeeHandler.ReviewGrade)
			})

			// Student Self-Service
			r.Route("/me", func(r chi.Router) {
				r.Get("/progress", studentHandler.GetMyProgress)
				r.Get("/notifications", studentHandler.ListNotifications)
				r.Post("/notifications/{notification_id}/read", studentHandler.MarkNotificationRead)
			})

			// Training Office Oversight
			r.Route("/office", func(r chi.Router) {
				r.Get("/records", officeHandler.ListRecords)
			})
		})
	})

	return r
}
