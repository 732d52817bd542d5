package web

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mmynk/policydesk/internal/metrics"
	"github.com/mmynk/policydesk/internal/models"
	"github.com/mmynk/policydesk/internal/pagination"
)

// policyForm holds the submitted values as typed, so a rejected form is
// re-rendered with the user's input rather than the parsed amount.
type policyForm struct {
	Title     string
	Amount    string
	Object    string
	StartDate string
	EndDate   string
}

func policyFormFromRequest(r *http.Request) policyForm {
	return policyForm{
		Title:     r.PostFormValue("title"),
		Amount:    r.PostFormValue("insured_amount"),
		Object:    r.PostFormValue("insured_object"),
		StartDate: r.PostFormValue("start_date"),
		EndDate:   r.PostFormValue("end_date"),
	}
}

func policyFormFromModel(p *models.Policy) policyForm {
	return policyForm{
		Title:     p.Title,
		Amount:    p.AmountText(),
		Object:    p.InsuredObject,
		StartDate: p.StartDate,
		EndDate:   p.EndDate,
	}
}

func (f policyForm) policy() *models.Policy {
	return models.NewPolicy(f.Title, f.Amount, f.Object, f.StartDate, f.EndDate)
}

type policyFormView struct {
	Heading string
	Action  string
	Cancel  string
	Form    policyForm
	Err     string
}

func (a *App) handlePolicies(w http.ResponseWriter, r *http.Request) {
	page, err := pagination.Policies(r.Context(), a.repo, a.perPage, pageNumber(r.URL.Query().Get("page")))
	if err != nil {
		a.serverError(w, r, err)
		return
	}

	saved, text := flash(r)
	a.render(w, r, "policies.html", listView[pagination.PolicyRow]{Page: page, Saved: saved, SavedText: text})
}

func (a *App) handleNewPolicyForm(w http.ResponseWriter, r *http.Request) {
	a.render(w, r, "policy_form.html", policyFormView{
		Heading: "New insurance policy",
		Action:  "/new2",
		Cancel:  "/policies",
	})
}

func (a *App) handleCreatePolicy(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		badRequest(w, "invalid form: %v", err)
		return
	}
	ctx := r.Context()
	form := policyFormFromRequest(r)
	view := policyFormView{Heading: "New insurance policy", Action: "/new2", Cancel: "/policies", Form: form}

	p := form.policy()
	if msg := p.Check(); msg != "" {
		a.metrics.Rejected(metrics.KindPolicy, "invalid")
		view.Err = msg
		a.render(w, r, "policy_form.html", view)
		return
	}

	exists, err := a.repo.PolicyTitleExists(ctx, p.Title)
	if err != nil {
		a.serverError(w, r, err)
		return
	}
	if exists {
		a.metrics.Rejected(metrics.KindPolicy, "duplicate")
		view.Err = fmt.Sprintf("A policy with this title already exists: %s", p.Title)
		a.render(w, r, "policy_form.html", view)
		return
	}

	id, err := a.repo.AddPolicy(ctx, p)
	if err != nil {
		a.serverError(w, r, err)
		return
	}
	a.policies.Set(id, p)
	a.metrics.Created(metrics.KindPolicy)
	a.updateMirrorGauges()
	slog.Info("Policy created", "policy_id", id, "title", p.Title)

	total, err := a.repo.CountPolicies(ctx)
	if err != nil {
		a.serverError(w, r, err)
		return
	}
	redirect(w, r, listingURL("/policies", a.lastPage(total), "Insurance policy was saved."))
}

func (a *App) handleDeletePolicy(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		badRequest(w, "invalid policy id %q", chi.URLParam(r, "id"))
		return
	}
	ctx := r.Context()

	policy, err := a.repo.FindPolicyByID(ctx, id)
	if err != nil {
		a.serverError(w, r, err)
		return
	}
	if policy == nil {
		notFound(w, "Insurance policy ID %d not found", id)
		return
	}

	if err := a.repo.DeletePolicy(ctx, id); err != nil {
		a.serverError(w, r, err)
		return
	}
	holders := a.persons.RemovePolicyEverywhere(id)
	if err := a.policies.Delete(id); err != nil {
		slog.Warn("Policy missing from mirror", "policy_id", id, "error", err)
	}
	a.metrics.Deleted(metrics.KindPolicy)
	a.updateMirrorGauges()
	slog.Info("Policy deleted", "policy_id", id, "holders", holders)

	total, err := a.repo.CountPolicies(ctx)
	if err != nil {
		a.serverError(w, r, err)
		return
	}
	redirect(w, r, listingURL("/policies", a.clampPage(total, chi.URLParam(r, "page")), "Insurance policy was deleted."))
}

// editPolicyView builds the edit form. source is "policies" when the edit
// started from the listing, otherwise the id of the person whose detail
// page should be shown afterwards.
func editPolicyView(id int64, source, page string, form policyForm) policyFormView {
	cancel := "/policies?page=" + page
	if source != "policies" {
		cancel = "/person/" + source
	}
	return policyFormView{
		Heading: "Edit insurance policy",
		Action:  fmt.Sprintf("/edit_policy/%d/%s/%s", id, source, page),
		Cancel:  cancel,
		Form:    form,
	}
}

func (a *App) handleEditPolicyForm(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		badRequest(w, "invalid policy id %q", chi.URLParam(r, "id"))
		return
	}

	policy, err := a.repo.FindPolicyByID(r.Context(), id)
	if err != nil {
		a.serverError(w, r, err)
		return
	}
	if policy == nil {
		notFound(w, "Insurance policy ID %d not found", id)
		return
	}
	a.render(w, r, "policy_form.html",
		editPolicyView(id, chi.URLParam(r, "source"), chi.URLParam(r, "page"), policyFormFromModel(policy)))
}

func (a *App) handleUpdatePolicy(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		badRequest(w, "invalid policy id %q", chi.URLParam(r, "id"))
		return
	}
	if err := r.ParseForm(); err != nil {
		badRequest(w, "invalid form: %v", err)
		return
	}
	ctx := r.Context()
	source, page := chi.URLParam(r, "source"), chi.URLParam(r, "page")
	form := policyFormFromRequest(r)

	p := form.policy()
	if msg := p.Check(); msg != "" {
		a.metrics.Rejected(metrics.KindPolicy, "invalid")
		view := editPolicyView(id, source, page, form)
		view.Err = msg
		a.render(w, r, "policy_form.html", view)
		return
	}

	unique, err := a.repo.PolicyTitleUniqueExcluding(ctx, p.Title, id)
	if err != nil {
		a.serverError(w, r, err)
		return
	}
	if !unique {
		a.metrics.Rejected(metrics.KindPolicy, "duplicate")
		view := editPolicyView(id, source, page, form)
		view.Err = fmt.Sprintf("A policy with this title already exists: %s", p.Title)
		a.render(w, r, "policy_form.html", view)
		return
	}

	existing, err := a.repo.FindPolicyByID(ctx, id)
	if err != nil {
		a.serverError(w, r, err)
		return
	}
	if existing == nil {
		notFound(w, "Insurance policy ID %d not found", id)
		return
	}

	if err := a.repo.UpdatePolicy(ctx, id, p); err != nil {
		a.serverError(w, r, err)
		return
	}
	holders := a.persons.ReplacePolicyEverywhere(id, p)
	a.policies.Set(id, p)
	a.metrics.Updated(metrics.KindPolicy)
	slog.Info("Policy updated", "policy_id", id, "holders", holders)

	if source != "policies" {
		if personID, err := strconv.ParseInt(source, 10, 64); err == nil {
			redirect(w, r, fmt.Sprintf("/person/%d", personID))
			return
		}
	}
	total, err := a.repo.CountPolicies(ctx)
	if err != nil {
		a.serverError(w, r, err)
		return
	}
	redirect(w, r, listingURL("/policies", a.clampPage(total, page), fmt.Sprintf("'%s' was updated.", p.Title)))
}
