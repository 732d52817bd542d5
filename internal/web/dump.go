package web

import (
	"fmt"
	"io"
	"net/http"

	"github.com/mmynk/policydesk/internal/mirror"
)

type dumpPolicy struct {
	ID     int64
	Policy string
}

type dumpEntry struct {
	ID       int64
	Person   string
	Policies []dumpPolicy
}

func dumpEntries(persons *mirror.Persons) []dumpEntry {
	var entries []dumpEntry
	for id, person := range persons.All() {
		e := dumpEntry{ID: id, Person: person.String()}
		for pid, policy := range person.Policies().All() {
			e.Policies = append(e.Policies, dumpPolicy{ID: pid, Policy: policy.String()})
		}
		entries = append(entries, e)
	}
	return entries
}

// WriteDump prints every mirrored person followed by their mirrored policies.
func WriteDump(w io.Writer, persons *mirror.Persons) error {
	for _, e := range dumpEntries(persons) {
		if _, err := fmt.Fprintf(w, "%d. %s\n", e.ID, e.Person); err != nil {
			return err
		}
		for _, p := range e.Policies {
			if _, err := fmt.Fprintf(w, "    %d. %s\n", p.ID, p.Policy); err != nil {
				return err
			}
		}
	}
	return nil
}

func (a *App) handleShowPersons(w http.ResponseWriter, r *http.Request) {
	a.render(w, r, "dump.html", dumpEntries(a.persons))
}
