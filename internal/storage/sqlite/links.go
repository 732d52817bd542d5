package sqlite

import (
	"context"
	"fmt"
)

// InsertLink records that a person holds a policy.
// Linking the same pair twice violates the primary key and returns an error.
func (s *SQLiteStore) InsertLink(ctx context.Context, personID, policyID int64) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO PersonInsurancePolicies (person_id, policy_id) VALUES (?, ?)",
		personID, policyID,
	)
	if err != nil {
		return fmt.Errorf("failed to insert link: %w", err)
	}
	return nil
}

// DeleteLink removes the link between a person and a policy.
func (s *SQLiteStore) DeleteLink(ctx context.Context, personID, policyID int64) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM PersonInsurancePolicies WHERE person_id = ? AND policy_id = ?",
		personID, policyID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete link: %w", err)
	}
	return nil
}
