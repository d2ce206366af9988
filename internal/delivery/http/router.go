package http

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"sponsorregistration/internal/delivery/http/controllers"
	"sponsorregistration/internal/delivery/http/middleware"
)

//go:embed static
var staticFS embed.FS

// RouterDeps bundles everything the router mounts.
type RouterDeps struct {
	Registrations *controllers.RegistrationController
	Auth          *controllers.AuthController
	Dashboard     *controllers.DashboardController
	API           *controllers.APIController
	LoginLimiter  *middleware.RateLimiter
	// UploadDir is the on-disk directory served under /uploads/.
	UploadDir string
}

// NewRouter initializes the HTTP router with all application routes.
func NewRouter(deps RouterDeps) *http.ServeMux {
	mux := http.NewServeMux()

	// Public pages
	mux.HandleFunc("GET /{$}", deps.Registrations.Index)
	mux.HandleFunc("GET /register", deps.Registrations.ShowRegisterForm)
	mux.HandleFunc("POST /register", deps.Registrations.SubmitRegistration)
	mux.HandleFunc("GET /confirmation", deps.Registrations.ShowConfirmation)
	mux.HandleFunc("GET /sponsor/{id}", deps.Registrations.ShowSponsor)

	// Auth
	mux.HandleFunc("GET /login", deps.Auth.ShowLoginForm)
	mux.HandleFunc("POST /login", deps.LoginLimiter.Limit(deps.Auth.Login))
	mux.HandleFunc("GET /logout", deps.Auth.Logout)

	// Admin
	mux.HandleFunc("GET /dashboard", middleware.RequireAdmin(deps.Dashboard.Dashboard))
	mux.HandleFunc("GET /registration/{id}", middleware.RequireAdmin(deps.Dashboard.ShowRegistration))
	mux.HandleFunc("GET /export_registrations", middleware.RequireAdmin(deps.Dashboard.ExportRegistrations))
	mux.HandleFunc("GET /reset_registrations", middleware.RequireAdmin(deps.Dashboard.ResetRegistrations))
	mux.HandleFunc("POST /load-test-data", middleware.RequireAdmin(deps.Dashboard.LoadTestData))

	// JSON API
	mux.HandleFunc("GET /api/availability", middleware.CORS(deps.API.Availability))
	mux.HandleFunc("OPTIONS /api/availability", middleware.CORS(deps.API.Availability))

	// Assets
	staticDir, _ := fs.Sub(staticFS, "static")
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(staticDir)))
	mux.Handle("GET /uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(deps.UploadDir))))

	// Operational endpoints
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","service":"sponsorregistration"}`))
	})

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
