// Package service contains the repository facade that sits between the web
// handlers and the persistence gateway.
package service

import (
	"context"
	"log/slog"

	"github.com/mmynk/policydesk/internal/mirror"
	"github.com/mmynk/policydesk/internal/models"
	"github.com/mmynk/policydesk/internal/storage"
)

// Repository translates gateway rows into domain records and mirror
// collections and answers the existence and uniqueness questions the
// handlers ask. It caches nothing: every call goes to the store.
type Repository struct {
	store storage.Store
}

// NewRepository creates a Repository over the given storage backend.
func NewRepository(store storage.Store) *Repository {
	return &Repository{store: store}
}

// LoadAllPersons reads every person together with the policies they hold.
func (r *Repository) LoadAllPersons(ctx context.Context) (*mirror.Persons, error) {
	rows, err := r.store.ListPersons(ctx)
	if err != nil {
		return nil, err
	}

	persons := mirror.NewPersons()
	for _, p := range rows {
		policies, err := r.FindPoliciesByPersonID(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		persons.Set(p.ID, mirror.NewInsuredPerson(*p, policies))
	}

	slog.Debug("Persons loaded", "count", persons.Len())
	return persons, nil
}

// LoadAllPolicies reads every policy into a collection keyed by ID.
func (r *Repository) LoadAllPolicies(ctx context.Context) (*mirror.Policies, error) {
	listings, err := r.store.ListPolicies(ctx)
	if err != nil {
		return nil, err
	}

	policies := mirror.NewPolicies()
	for i := range listings {
		p := listings[i].Policy
		policies.Set(p.ID, &p)
	}

	slog.Debug("Policies loaded", "count", policies.Len())
	return policies, nil
}

// AddPerson inserts p, stores the new ID on it and returns the ID.
func (r *Repository) AddPerson(ctx context.Context, p *models.Person) (int64, error) {
	id, err := r.store.InsertPerson(ctx, p)
	if err != nil {
		return 0, err
	}
	p.ID = id
	return id, nil
}

// AddPolicy inserts p, stores the new ID on it and returns the ID.
func (r *Repository) AddPolicy(ctx context.Context, p *models.Policy) (int64, error) {
	id, err := r.store.InsertPolicy(ctx, p)
	if err != nil {
		return 0, err
	}
	p.ID = id
	return id, nil
}

// FindPersonByID returns the person or nil if absent.
func (r *Repository) FindPersonByID(ctx context.Context, id int64) (*models.Person, error) {
	return r.store.GetPerson(ctx, id)
}

// FindPolicyByID returns the policy or nil if absent.
func (r *Repository) FindPolicyByID(ctx context.Context, id int64) (*models.Policy, error) {
	return r.store.GetPolicy(ctx, id)
}

// FindPoliciesByPersonID returns the policies held by a person, keyed by ID.
func (r *Repository) FindPoliciesByPersonID(ctx context.Context, personID int64) (*mirror.Policies, error) {
	rows, err := r.store.ListPoliciesByPerson(ctx, personID)
	if err != nil {
		return nil, err
	}

	policies := mirror.NewPolicies()
	for _, p := range rows {
		policies.Set(p.ID, p)
	}
	return policies, nil
}

// AllPersons returns every person ordered by ID.
func (r *Repository) AllPersons(ctx context.Context) ([]*models.Person, error) {
	return r.store.ListPersons(ctx)
}

// AllPolicies returns every policy with the number of persons holding it.
func (r *Repository) AllPolicies(ctx context.Context) ([]models.PolicyListing, error) {
	return r.store.ListPolicies(ctx)
}

// AllUnassociatedPolicies returns the policies nobody holds.
func (r *Repository) AllUnassociatedPolicies(ctx context.Context) ([]*models.Policy, error) {
	return r.store.ListUnlinkedPolicies(ctx)
}

// PersonExists returns how many stored persons share p's first name, last
// name and e-mail.
func (r *Repository) PersonExists(ctx context.Context, p *models.Person) (int, error) {
	return r.store.CountPersonsMatching(ctx, p.FirstName, p.LastName, p.Email)
}

// PolicyTitleExists reports whether any policy has this title.
func (r *Repository) PolicyTitleExists(ctx context.Context, title string) (bool, error) {
	n, err := r.store.CountPoliciesByTitle(ctx, title)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// PolicyTitleUniqueExcluding reports whether no policy other than
// excludedID has this title.
func (r *Repository) PolicyTitleUniqueExcluding(ctx context.Context, title string, excludedID int64) (bool, error) {
	ids, err := r.store.PolicyIDsByTitle(ctx, title)
	if err != nil {
		return false, err
	}
	for _, id := range ids {
		if id != excludedID {
			return false, nil
		}
	}
	return true, nil
}

// UpdatePerson overwrites the stored person id with p.
func (r *Repository) UpdatePerson(ctx context.Context, id int64, p *models.Person) error {
	p.ID = id
	return r.store.UpdatePerson(ctx, p)
}

// UpdatePolicy overwrites the stored policy id with p.
func (r *Repository) UpdatePolicy(ctx context.Context, id int64, p *models.Policy) error {
	p.ID = id
	return r.store.UpdatePolicy(ctx, p)
}

// DeletePerson removes a person together with their links.
func (r *Repository) DeletePerson(ctx context.Context, id int64) error {
	return r.store.DeletePerson(ctx, id)
}

// DeletePolicy removes a policy together with its links.
func (r *Repository) DeletePolicy(ctx context.Context, id int64) error {
	return r.store.DeletePolicy(ctx, id)
}

// LinkPolicy records that a person holds a policy.
func (r *Repository) LinkPolicy(ctx context.Context, personID, policyID int64) error {
	return r.store.InsertLink(ctx, personID, policyID)
}

// UnlinkPolicy removes the association between a person and a policy.
func (r *Repository) UnlinkPolicy(ctx context.Context, personID, policyID int64) error {
	return r.store.DeleteLink(ctx, personID, policyID)
}

// CountPersons returns the number of stored persons.
func (r *Repository) CountPersons(ctx context.Context) (int, error) {
	return r.store.CountPersons(ctx)
}

// CountPolicies returns the number of stored policies.
func (r *Repository) CountPolicies(ctx context.Context) (int, error) {
	return r.store.CountPolicies(ctx)
}
