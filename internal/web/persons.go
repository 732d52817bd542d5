package web

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mmynk/policydesk/internal/metrics"
	"github.com/mmynk/policydesk/internal/mirror"
	"github.com/mmynk/policydesk/internal/models"
	"github.com/mmynk/policydesk/internal/pagination"
)

type personFormView struct {
	Heading string
	Action  string
	Cancel  string
	Person  *models.Person
	Err     string
}

type personView struct {
	Person   *models.Person
	Policies []*models.Policy
}

func personFromForm(r *http.Request) *models.Person {
	return &models.Person{
		FirstName:  r.PostFormValue("first_name"),
		LastName:   r.PostFormValue("last_name"),
		Email:      r.PostFormValue("email"),
		Phone:      r.PostFormValue("phone"),
		Street:     r.PostFormValue("street"),
		City:       r.PostFormValue("city"),
		PostalCode: r.PostFormValue("postal_code"),
	}
}

func (a *App) handlePersons(w http.ResponseWriter, r *http.Request) {
	page, err := pagination.Persons(r.Context(), a.repo, a.perPage, pageNumber(r.URL.Query().Get("page")))
	if err != nil {
		a.serverError(w, r, err)
		return
	}

	saved, text := flash(r)
	a.render(w, r, "persons.html", listView[pagination.PersonRow]{Page: page, Saved: saved, SavedText: text})
}

func (a *App) handleNewPersonForm(w http.ResponseWriter, r *http.Request) {
	a.render(w, r, "person_form.html", personFormView{
		Heading: "New insured person",
		Action:  "/new",
		Cancel:  "/persons",
		Person:  &models.Person{},
	})
}

func (a *App) handleCreatePerson(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		badRequest(w, "invalid form: %v", err)
		return
	}
	ctx := r.Context()
	p := personFromForm(r)
	view := personFormView{Heading: "New insured person", Action: "/new", Cancel: "/persons", Person: p}

	if msg := p.Check(); msg != "" {
		a.metrics.Rejected(metrics.KindPerson, "invalid")
		view.Err = msg
		a.render(w, r, "person_form.html", view)
		return
	}

	n, err := a.repo.PersonExists(ctx, p)
	if err != nil {
		a.serverError(w, r, err)
		return
	}
	if n > 0 {
		a.metrics.Rejected(metrics.KindPerson, "duplicate")
		view.Err = fmt.Sprintf("This insured person already exists: %s", p.FullName())
		a.render(w, r, "person_form.html", view)
		return
	}

	id, err := a.repo.AddPerson(ctx, p)
	if err != nil {
		a.serverError(w, r, err)
		return
	}
	a.persons.Set(id, mirror.NewInsuredPerson(*p, nil))
	a.metrics.Created(metrics.KindPerson)
	a.updateMirrorGauges()
	slog.Info("Person created", "person_id", id)

	total, err := a.repo.CountPersons(ctx)
	if err != nil {
		a.serverError(w, r, err)
		return
	}
	redirect(w, r, listingURL("/persons", a.lastPage(total), "Insured person was saved."))
}

func (a *App) handlePerson(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		badRequest(w, "invalid person id %q", chi.URLParam(r, "id"))
		return
	}
	ctx := r.Context()

	person, err := a.repo.FindPersonByID(ctx, id)
	if err != nil {
		a.serverError(w, r, err)
		return
	}
	if person == nil {
		notFound(w, "Insured person ID %d not found", id)
		return
	}
	policies, err := a.repo.FindPoliciesByPersonID(ctx, id)
	if err != nil {
		a.serverError(w, r, err)
		return
	}
	a.persons.Set(id, mirror.NewInsuredPerson(*person, policies))
	a.updateMirrorGauges()

	view := personView{Person: person}
	for _, p := range policies.All() {
		view.Policies = append(view.Policies, p)
	}
	a.render(w, r, "person.html", view)
}

func (a *App) handleDeletePerson(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		badRequest(w, "invalid person id %q", chi.URLParam(r, "id"))
		return
	}
	ctx := r.Context()

	person, err := a.repo.FindPersonByID(ctx, id)
	if err != nil {
		a.serverError(w, r, err)
		return
	}
	if person == nil {
		notFound(w, "Insured person ID %d not found", id)
		return
	}

	if err := a.repo.DeletePerson(ctx, id); err != nil {
		a.serverError(w, r, err)
		return
	}
	if err := a.persons.Delete(id); err != nil {
		slog.Warn("Person missing from mirror", "person_id", id, "error", err)
	}
	a.metrics.Deleted(metrics.KindPerson)
	a.updateMirrorGauges()
	slog.Info("Person deleted", "person_id", id)

	total, err := a.repo.CountPersons(ctx)
	if err != nil {
		a.serverError(w, r, err)
		return
	}
	redirect(w, r, listingURL("/persons", a.lastPage(total), "Insured person was deleted."))
}

func editPersonView(id int64, source, page string, p *models.Person) personFormView {
	cancel := "/person/" + strconv.FormatInt(id, 10)
	if source == "persons" {
		cancel = "/persons?page=" + page
	}
	return personFormView{
		Heading: "Edit insured person",
		Action:  fmt.Sprintf("/edit_person/%d/%s/%s", id, source, page),
		Cancel:  cancel,
		Person:  p,
	}
}

func (a *App) handleEditPersonForm(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		badRequest(w, "invalid person id %q", chi.URLParam(r, "id"))
		return
	}

	person, err := a.repo.FindPersonByID(r.Context(), id)
	if err != nil {
		a.serverError(w, r, err)
		return
	}
	if person == nil {
		notFound(w, "Insured person ID %d not found", id)
		return
	}
	a.render(w, r, "person_form.html", editPersonView(id, chi.URLParam(r, "source"), chi.URLParam(r, "page"), person))
}

func (a *App) handleUpdatePerson(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		badRequest(w, "invalid person id %q", chi.URLParam(r, "id"))
		return
	}
	if err := r.ParseForm(); err != nil {
		badRequest(w, "invalid form: %v", err)
		return
	}
	ctx := r.Context()
	source, page := chi.URLParam(r, "source"), chi.URLParam(r, "page")

	p := personFromForm(r)
	if msg := p.Check(); msg != "" {
		a.metrics.Rejected(metrics.KindPerson, "invalid")
		view := editPersonView(id, source, page, p)
		view.Err = msg
		a.render(w, r, "person_form.html", view)
		return
	}

	existing, err := a.repo.FindPersonByID(ctx, id)
	if err != nil {
		a.serverError(w, r, err)
		return
	}
	if existing == nil {
		notFound(w, "Insured person ID %d not found", id)
		return
	}

	if err := a.repo.UpdatePerson(ctx, id, p); err != nil {
		a.serverError(w, r, err)
		return
	}

	// The edited person keeps the policies already mirrored for it.
	var policies *mirror.Policies
	if current := a.persons.Get(id); current != nil {
		policies = current.Policies()
	} else if policies, err = a.repo.FindPoliciesByPersonID(ctx, id); err != nil {
		a.serverError(w, r, err)
		return
	}
	a.persons.Set(id, mirror.NewInsuredPerson(*p, policies))
	a.metrics.Updated(metrics.KindPerson)
	a.updateMirrorGauges()
	slog.Info("Person updated", "person_id", id)

	if source != "persons" {
		redirect(w, r, fmt.Sprintf("/person/%d", id))
		return
	}
	total, err := a.repo.CountPersons(ctx)
	if err != nil {
		a.serverError(w, r, err)
		return
	}
	redirect(w, r, listingURL("/persons", a.clampPage(total, page), "Insured person was updated."))
}
