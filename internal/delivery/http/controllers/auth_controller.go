package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"sponsorregistration/config"
	h "sponsorregistration/internal/delivery/http/helpers"
	"sponsorregistration/internal/delivery/http/middleware"
	"sponsorregistration/internal/domain"
)

// AuthController serves the admin login and logout pages.
type AuthController struct {
	auth     domain.AuthService
	sessions domain.SessionCodec
	config   *config.Config
	renderer *h.Renderer
	logger   *slog.Logger
}

// NewAuthController creates a new auth controller.
func NewAuthController(auth domain.AuthService, sessions domain.SessionCodec, cfg *config.Config, renderer *h.Renderer, logger *slog.Logger) *AuthController {
	return &AuthController{
		auth:     auth,
		sessions: sessions,
		config:   cfg,
		renderer: renderer,
		logger:   logger,
	}
}

// ShowLoginForm renders the login page. Already-authenticated users are
// sent straight to the dashboard.
func (c *AuthController) ShowLoginForm(w http.ResponseWriter, r *http.Request) {
	if accountFrom(r) != nil {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	c.renderer.Render(w, r, http.StatusOK, "login", h.PageData{Title: "Admin Login"})
}

// Login verifies the submitted credentials and issues the session cookie.
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.Redirect(w, r, "/login", "error", "Could not read the submitted form.")
		return
	}
	form := LoginForm{Email: r.FormValue("email"), Password: r.FormValue("password")}
	if errs := form.Validate(); len(errs) > 0 {
		h.Redirect(w, r, "/login", "error", errs[0])
		return
	}

	account, err := c.auth.Login(r.Context(), form.Email, form.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			h.Redirect(w, r, "/login", "error", "Invalid email or password.")
			return
		}
		c.logger.Error("login failed", "err", err)
		h.Redirect(w, r, "/login", "error", "Something went wrong. Please try again.")
		return
	}

	token, err := c.sessions.Issue(account.ID, account.IsAdmin, c.config.SessionExpiry)
	if err != nil {
		c.logger.Error("failed to issue session token", "err", err)
		h.Redirect(w, r, "/login", "error", "Something went wrong. Please try again.")
		return
	}
	http.SetCookie(w, c.sessionCookie(token, c.config.SessionExpiry))
	h.Redirect(w, r, "/dashboard", "success", "Logged in successfully.")
}

// Logout clears the session cookie. Safe to call while unauthenticated.
func (c *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, c.sessionCookie("", -time.Hour))
	h.Redirect(w, r, "/", "info", "You have been logged out.")
}

func (c *AuthController) sessionCookie(token string, maxAge time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   c.config.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	}
}
