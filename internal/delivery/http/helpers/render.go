package helpers

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"

	"sponsorregistration/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

// PageData is the envelope every page template receives.
type PageData struct {
	Title   string
	Flash   *Flash
	Account *domain.Account
	Data    any
}

// Renderer renders the embedded page templates.
type Renderer struct {
	templates map[string]*template.Template
	logger    *slog.Logger
}

var templateFuncs = template.FuncMap{
	"tierLabel": domain.TierLabel,
}

// NewRenderer parses every embedded page template. Each file is a
// standalone document keyed by its base name without extension.
func NewRenderer(logger *slog.Logger) (*Renderer, error) {
	entries, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to list page templates: %w", err)
	}
	templates := make(map[string]*template.Template, len(entries))
	for _, path := range entries {
		name := strings.TrimSuffix(strings.TrimPrefix(path, "templates/"), ".html")
		t, err := template.New(name).Funcs(templateFuncs).ParseFS(templateFS, path)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", path, err)
		}
		templates[name] = t
	}
	return &Renderer{templates: templates, logger: logger}, nil
}

// Render writes the named page with the given status. The pending flash
// message, if any, is popped into the page data.
func (rn *Renderer) Render(w http.ResponseWriter, r *http.Request, status int, name string, data PageData) {
	t, ok := rn.templates[name]
	if !ok {
		rn.logger.Error("unknown page template", "name", name)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if data.Flash == nil {
		data.Flash = PopFlash(w, r)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := t.ExecuteTemplate(w, name+".html", data); err != nil {
		rn.logger.Error("failed to render page", "name", name, "err", err)
	}
}

// WriteJSON writes data as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteJSONError writes a JSON error object with the given status.
func WriteJSONError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, map[string]string{"error": message})
}
