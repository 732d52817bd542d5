// Package mirror holds the in-memory copies of persisted persons and
// policies, keyed by their store-assigned IDs.
//
// The database is the source of truth. The mirror is loaded once at startup
// and patched by every handler that changes persisted state, so listings of
// cached data do not require a full reload after each write.
//
// All collections are safe for concurrent use. Lookups of a missing key
// return nil; deleting a missing key returns ErrNotFound.
package mirror

import (
	"iter"

	"github.com/mmynk/policydesk/internal/models"
)

// Policies is a collection of policies keyed by policy ID.
type Policies struct {
	m *orderedMap[*models.Policy]
}

// NewPolicies returns an empty collection.
func NewPolicies() *Policies {
	return &Policies{m: newOrderedMap[*models.Policy]()}
}

// Set inserts or replaces the policy stored under id.
func (c *Policies) Set(id int64, p *models.Policy) { c.m.set(id, p) }

// Get returns the policy stored under id, or nil.
func (c *Policies) Get(id int64) *models.Policy {
	p, _ := c.m.get(id)
	return p
}

// Delete removes the policy stored under id.
func (c *Policies) Delete(id int64) error { return c.m.delete(id) }

// Has reports whether id is present.
func (c *Policies) Has(id int64) bool { return c.m.has(id) }

// Len returns the number of policies.
func (c *Policies) Len() int { return c.m.len() }

// All iterates over (id, policy) pairs in insertion order.
func (c *Policies) All() iter.Seq2[int64, *models.Policy] { return c.m.all() }

// InsuredPerson is a mirrored person together with the policies they hold.
type InsuredPerson struct {
	models.Person
	policies *Policies
}

// NewInsuredPerson wraps p with the given policies collection.
// A nil collection is replaced by an empty one.
func NewInsuredPerson(p models.Person, policies *Policies) *InsuredPerson {
	if policies == nil {
		policies = NewPolicies()
	}
	return &InsuredPerson{Person: p, policies: policies}
}

// Policies returns the person's policies collection. It is never nil.
func (ip *InsuredPerson) Policies() *Policies { return ip.policies }

// Persons is a collection of insured persons keyed by person ID.
type Persons struct {
	m *orderedMap[*InsuredPerson]
}

// NewPersons returns an empty collection.
func NewPersons() *Persons {
	return &Persons{m: newOrderedMap[*InsuredPerson]()}
}

// Set inserts or replaces the person stored under id.
func (c *Persons) Set(id int64, p *InsuredPerson) { c.m.set(id, p) }

// Get returns the person stored under id, or nil.
func (c *Persons) Get(id int64) *InsuredPerson {
	p, _ := c.m.get(id)
	return p
}

// Delete removes the person stored under id.
func (c *Persons) Delete(id int64) error { return c.m.delete(id) }

// Has reports whether id is present.
func (c *Persons) Has(id int64) bool { return c.m.has(id) }

// Len returns the number of persons.
func (c *Persons) Len() int { return c.m.len() }

// All iterates over (id, person) pairs in insertion order.
func (c *Persons) All() iter.Seq2[int64, *InsuredPerson] { return c.m.all() }

// ReplacePolicyEverywhere overwrites policyID with p in the policies of
// every person already holding it. It returns the number of persons touched.
func (c *Persons) ReplacePolicyEverywhere(policyID int64, p *models.Policy) int {
	n := 0
	for _, person := range c.All() {
		if person.policies.Has(policyID) {
			person.policies.Set(policyID, p)
			n++
		}
	}
	return n
}

// RemovePolicyEverywhere deletes policyID from the policies of every person
// holding it. It returns the number of persons touched.
func (c *Persons) RemovePolicyEverywhere(policyID int64) int {
	n := 0
	for _, person := range c.All() {
		if person.policies.Delete(policyID) == nil {
			n++
		}
	}
	return n
}
