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
)

type linkView struct {
	PersonID   int64
	PersonName string
	Options    []*models.Policy
}

func (a *App) handleUnlinkPolicy(w http.ResponseWriter, r *http.Request) {
	personID, ok := idParam(r, "personId")
	if !ok {
		badRequest(w, "invalid person id %q", chi.URLParam(r, "personId"))
		return
	}
	policyID, ok := idParam(r, "policyId")
	if !ok {
		badRequest(w, "invalid policy id %q", chi.URLParam(r, "policyId"))
		return
	}

	if err := a.repo.UnlinkPolicy(r.Context(), personID, policyID); err != nil {
		a.serverError(w, r, err)
		return
	}
	if person := a.persons.Get(personID); person != nil {
		if err := person.Policies().Delete(policyID); err != nil {
			slog.Warn("Policy missing from person mirror", "person_id", personID, "policy_id", policyID, "error", err)
		}
	}
	a.metrics.Deleted(metrics.KindLink)
	slog.Info("Policy unlinked", "person_id", personID, "policy_id", policyID)

	redirect(w, r, fmt.Sprintf("/person/%d", personID))
}

func (a *App) handleLinkPolicyForm(w http.ResponseWriter, r *http.Request) {
	personID, ok := idParam(r, "personId")
	if !ok {
		badRequest(w, "invalid person id %q", chi.URLParam(r, "personId"))
		return
	}
	ctx := r.Context()

	person, err := a.repo.FindPersonByID(ctx, personID)
	if err != nil {
		a.serverError(w, r, err)
		return
	}
	if person == nil {
		notFound(w, "Insured person ID %d not found", personID)
		return
	}
	unused, err := a.repo.AllUnassociatedPolicies(ctx)
	if err != nil {
		a.serverError(w, r, err)
		return
	}

	a.render(w, r, "link.html", linkView{
		PersonID:   personID,
		PersonName: person.FullName(),
		Options:    unused,
	})
}

func (a *App) handleLinkPolicy(w http.ResponseWriter, r *http.Request) {
	personID, ok := idParam(r, "personId")
	if !ok {
		badRequest(w, "invalid person id %q", chi.URLParam(r, "personId"))
		return
	}
	if err := r.ParseForm(); err != nil {
		badRequest(w, "invalid form: %v", err)
		return
	}
	raw := r.PostFormValue("policySelect")
	policyID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		badRequest(w, "invalid policy id %q", raw)
		return
	}
	ctx := r.Context()

	person, err := a.repo.FindPersonByID(ctx, personID)
	if err != nil {
		a.serverError(w, r, err)
		return
	}
	if person == nil {
		notFound(w, "Insured person ID %d not found", personID)
		return
	}
	policy, err := a.lookupPolicy(r, policyID)
	if err != nil {
		a.serverError(w, r, err)
		return
	}
	if policy == nil {
		notFound(w, "Insurance policy ID %d not found", policyID)
		return
	}

	held, err := a.repo.FindPoliciesByPersonID(ctx, personID)
	if err != nil {
		a.serverError(w, r, err)
		return
	}
	if held.Has(policyID) {
		slog.Info("Policy already linked", "person_id", personID, "policy_id", policyID)
		redirect(w, r, fmt.Sprintf("/person/%d", personID))
		return
	}

	if err := a.repo.LinkPolicy(ctx, personID, policyID); err != nil {
		a.serverError(w, r, err)
		return
	}
	if mirrored := a.persons.Get(personID); mirrored != nil {
		mirrored.Policies().Set(policyID, policy)
	} else {
		policies := mirror.NewPolicies()
		policies.Set(policyID, policy)
		a.persons.Set(personID, mirror.NewInsuredPerson(*person, policies))
		a.updateMirrorGauges()
	}
	a.metrics.Created(metrics.KindLink)
	slog.Info("Policy linked", "person_id", personID, "policy_id", policyID)

	redirect(w, r, fmt.Sprintf("/person/%d", personID))
}

// lookupPolicy returns the policy from the mirror, loading it from the store
// and mirroring it when absent. A nil policy means it is not stored.
func (a *App) lookupPolicy(r *http.Request, id int64) (*models.Policy, error) {
	if p := a.policies.Get(id); p != nil {
		return p, nil
	}
	p, err := a.repo.FindPolicyByID(r.Context(), id)
	if err != nil || p == nil {
		return nil, err
	}
	a.policies.Set(id, p)
	a.updateMirrorGauges()
	return p, nil
}
