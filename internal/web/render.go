package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mmynk/policydesk/internal/middleware"
	"github.com/mmynk/policydesk/internal/pagination"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticDir embed.FS

var pages = []string{
	"persons.html",
	"policies.html",
	"person_form.html",
	"policy_form.html",
	"person.html",
	"link.html",
	"about.html",
	"dump.html",
}

// views holds one template set per page, each combined with the layout.
type views struct {
	pages map[string]*template.Template
}

func parseViews() (*views, error) {
	v := &views{pages: make(map[string]*template.Template, len(pages))}
	for _, page := range pages {
		t, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+page)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", page, err)
		}
		v.pages[page] = t
	}
	return v, nil
}

func staticFS() fs.FS {
	sub, err := fs.Sub(staticDir, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// render executes page into a buffer first so a template error never
// leaves a half-written response.
func (a *App) render(w http.ResponseWriter, r *http.Request, page string, data any) {
	t, ok := a.views.pages[page]
	if !ok {
		a.serverError(w, r, fmt.Errorf("unknown page %q", page))
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		a.serverError(w, r, fmt.Errorf("failed to render %s: %w", page, err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}

func (a *App) serverError(w http.ResponseWriter, r *http.Request, err error) {
	slog.Error("Request failed",
		"path", r.URL.Path,
		"request_id", middleware.GetRequestID(r.Context()),
		"error", err,
	)
	http.Error(w, "Internal server error", http.StatusInternalServerError)
}

func notFound(w http.ResponseWriter, format string, args ...any) {
	http.Error(w, fmt.Sprintf(format, args...), http.StatusNotFound)
}

func badRequest(w http.ResponseWriter, format string, args ...any) {
	http.Error(w, fmt.Sprintf(format, args...), http.StatusBadRequest)
}

func redirect(w http.ResponseWriter, r *http.Request, target string) {
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// idParam parses a numeric path parameter.
func idParam(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	return id, err == nil
}

// pageNumber parses a page number, falling back to 1.
func pageNumber(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 1
	}
	return n
}

// listingURL builds a listing link with an optional flash message.
func listingURL(path string, page int, savedText string) string {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	if savedText != "" {
		q.Set("saved", "1")
		q.Set("saved_text", savedText)
	}
	return path + "?" + q.Encode()
}

// flash reads the saved / saved_text query parameters.
func flash(r *http.Request) (bool, string) {
	q := r.URL.Query()
	saved, _ := strconv.ParseBool(q.Get("saved"))
	return saved, q.Get("saved_text")
}

// lastPage returns the page count of a listing holding total rows.
func (a *App) lastPage(total int) int {
	_, pages := pagination.PageBounds(total, a.perPage, 1)
	return pages
}

// clampPage clamps a page number against a listing holding total rows.
func (a *App) clampPage(total int, page string) int {
	p, _ := pagination.PageBounds(total, a.perPage, pageNumber(page))
	return p
}

type listView[T any] struct {
	Page      pagination.Page[T]
	Saved     bool
	SavedText string
}

func (a *App) handleAbout(w http.ResponseWriter, r *http.Request) {
	a.render(w, r, "about.html", nil)
}
