package helpers

import (
	"net/http"
	"net/url"
	"strings"
)

const flashCookieName = "flash"

// Flash is a one-shot message shown on the next rendered page.
// Category is one of "success", "error", "info".
type Flash struct {
	Category string
	Message  string
}

// SetFlash stores a one-shot message in a short-lived cookie.
func SetFlash(w http.ResponseWriter, category, message string) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    url.QueryEscape(category + "|" + message),
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
	})
}

// PopFlash returns the pending flash message, if any, and clears it.
func PopFlash(w http.ResponseWriter, r *http.Request) *Flash {
	cookie, err := r.Cookie(flashCookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	raw, err := url.QueryUnescape(cookie.Value)
	if err != nil {
		return nil
	}
	category, message, found := strings.Cut(raw, "|")
	if !found {
		return &Flash{Category: "info", Message: raw}
	}
	return &Flash{Category: category, Message: message}
}

// Redirect sets a flash message and redirects with 303 See Other, the
// right status for redirecting after a form POST.
func Redirect(w http.ResponseWriter, r *http.Request, target, category, message string) {
	if message != "" {
		SetFlash(w, category, message)
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
