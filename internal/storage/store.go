// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/mmynk/policydesk/internal/models"
)

// Store defines the persistence gateway for insured persons, insurance
// policies and the links between them.
// This abstraction allows swapping storage backends without changing the
// repository facade.
//
// Point lookups return nil and no error when the row does not exist.
type Store interface {
	// InsertPerson persists a new person and returns the assigned ID.
	InsertPerson(ctx context.Context, p *models.Person) (int64, error)

	// GetPerson retrieves a person by ID.
	GetPerson(ctx context.Context, id int64) (*models.Person, error)

	// ListPersons returns all persons ordered by ID.
	ListPersons(ctx context.Context) ([]*models.Person, error)

	// CountPersons returns the number of stored persons.
	CountPersons(ctx context.Context) (int, error)

	// CountPersonsMatching counts persons with exactly this first name,
	// last name and e-mail.
	CountPersonsMatching(ctx context.Context, firstName, lastName, email string) (int, error)

	// UpdatePerson overwrites every field of the person with p.ID.
	UpdatePerson(ctx context.Context, p *models.Person) error

	// DeletePerson removes a person; its links are removed by cascade.
	DeletePerson(ctx context.Context, id int64) error

	// InsertPolicy persists a new policy and returns the assigned ID.
	InsertPolicy(ctx context.Context, p *models.Policy) (int64, error)

	// GetPolicy retrieves a policy by ID.
	GetPolicy(ctx context.Context, id int64) (*models.Policy, error)

	// ListPolicies returns all policies ordered by ID, each with the number
	// of persons linked to it.
	ListPolicies(ctx context.Context) ([]models.PolicyListing, error)

	// ListUnlinkedPolicies returns the policies no person holds.
	ListUnlinkedPolicies(ctx context.Context) ([]*models.Policy, error)

	// ListPoliciesByPerson returns the policies linked to a person.
	ListPoliciesByPerson(ctx context.Context, personID int64) ([]*models.Policy, error)

	// CountPolicies returns the number of stored policies.
	CountPolicies(ctx context.Context) (int, error)

	// CountPoliciesByTitle counts policies with exactly this title.
	CountPoliciesByTitle(ctx context.Context, title string) (int, error)

	// PolicyIDsByTitle returns the IDs of the policies with this title.
	PolicyIDsByTitle(ctx context.Context, title string) ([]int64, error)

	// UpdatePolicy overwrites every field of the policy with p.ID.
	UpdatePolicy(ctx context.Context, p *models.Policy) error

	// DeletePolicy removes a policy; its links are removed by cascade.
	DeletePolicy(ctx context.Context, id int64) error

	// InsertLink associates a person with a policy.
	InsertLink(ctx context.Context, personID, policyID int64) error

	// DeleteLink removes the association between a person and a policy.
	DeleteLink(ctx context.Context, personID, policyID int64) error

	// Close releases any resources held by the store.
	Close() error
}
