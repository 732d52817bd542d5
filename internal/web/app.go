// Package web is the server-rendered UI of the register: chi routes that
// parse requests, call the repository facade, patch the in-memory mirror
// and render html/template views.
package web

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/mmynk/policydesk/internal/metrics"
	"github.com/mmynk/policydesk/internal/middleware"
	"github.com/mmynk/policydesk/internal/mirror"
	"github.com/mmynk/policydesk/internal/service"
)

// DefaultPerPage is the listing page size used when Options.PerPage is unset.
const DefaultPerPage = 3

// Options configures an App.
type Options struct {
	// PerPage is the number of rows per listing page.
	PerPage int

	// Metrics receives counters and latencies. A fresh set is created if nil.
	Metrics *metrics.Metrics

	// ExposeMetrics mounts the Prometheus handler on /metrics.
	ExposeMetrics bool
}

// App is the application context shared by all handlers. It owns the
// repository facade and the mirror collections; nothing is global.
type App struct {
	// mu serializes handlers that write the store or the mirror, so a
	// store write and the matching mirror patch are one step.
	mu sync.Mutex

	repo     *service.Repository
	persons  *mirror.Persons
	policies *mirror.Policies
	perPage  int
	metrics  *metrics.Metrics
	expose   bool
	views    *views
}

// New loads the mirror collections from the store and returns a ready App.
func New(ctx context.Context, repo *service.Repository, opts Options) (*App, error) {
	persons, err := repo.LoadAllPersons(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load persons: %w", err)
	}
	policies, err := repo.LoadAllPolicies(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load policies: %w", err)
	}

	v, err := parseViews()
	if err != nil {
		return nil, err
	}

	if opts.PerPage < 1 {
		opts.PerPage = DefaultPerPage
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.New()
	}

	a := &App{
		repo:     repo,
		persons:  persons,
		policies: policies,
		perPage:  opts.PerPage,
		metrics:  opts.Metrics,
		expose:   opts.ExposeMetrics,
		views:    v,
	}
	a.updateMirrorGauges()

	slog.Info("Mirror loaded", "persons", persons.Len(), "policies", policies.Len())
	return a, nil
}

// Persons returns the mirrored persons.
func (a *App) Persons() *mirror.Persons { return a.persons }

// Policies returns the mirrored policies.
func (a *App) Policies() *mirror.Policies { return a.policies }

// Routes builds the router.
func (a *App) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging(a.metrics))
	r.Use(chimw.Recoverer)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/persons", http.StatusFound)
	})

	r.Get("/persons", a.handlePersons)
	r.Get("/policies", a.handlePolicies)

	r.Get("/new", a.handleNewPersonForm)
	r.Post("/new", a.serialized(a.handleCreatePerson))
	r.Get("/new2", a.handleNewPolicyForm)
	r.Post("/new2", a.serialized(a.handleCreatePolicy))

	r.Get("/person/{id}", a.serialized(a.handlePerson))
	r.Get("/delete_person/{id}", a.serialized(a.handleDeletePerson))
	r.Get("/edit_person/{id}/{source}/{page}", a.handleEditPersonForm)
	r.Post("/edit_person/{id}/{source}/{page}", a.serialized(a.handleUpdatePerson))

	r.Get("/delete_policy/{id}/{page}", a.serialized(a.handleDeletePolicy))
	r.Get("/edit_policy/{id}/{source}/{page}", a.handleEditPolicyForm)
	r.Post("/edit_policy/{id}/{source}/{page}", a.serialized(a.handleUpdatePolicy))

	r.Get("/delete_person_policy/{personId}/{policyId}", a.serialized(a.handleUnlinkPolicy))
	r.Get("/add_person_policy/{personId}", a.handleLinkPolicyForm)
	r.Post("/add_person_policy/{personId}", a.serialized(a.handleLinkPolicy))

	r.Get("/about", a.handleAbout)
	r.Get("/show_persons", a.handleShowPersons)

	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServerFS(staticFS())))

	if a.expose {
		r.Handle("/metrics", a.metrics.Handler())
	}

	return r
}

// serialized runs h under a.mu. Every handler that writes the store or the
// mirror is registered through it.
func (a *App) serialized(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a.mu.Lock()
		defer a.mu.Unlock()
		h(w, r)
	}
}

func (a *App) updateMirrorGauges() {
	a.metrics.SetMirrorSize(metrics.KindPerson, a.persons.Len())
	a.metrics.SetMirrorSize(metrics.KindPolicy, a.policies.Len())
}
