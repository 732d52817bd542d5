package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mmynk/policydesk/internal/models"
)

const policyColumns = "id, title, insured_amount, insured_object, start_date, end_date"

// InsertPolicy inserts a new policy and returns the assigned ID.
func (s *SQLiteStore) InsertPolicy(ctx context.Context, p *models.Policy) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO InsurancePolicies (title, insured_amount, insured_object, start_date, end_date)
		 VALUES (?, ?, ?, ?, ?)`,
		p.Title, p.InsuredAmount, p.InsuredObject, p.StartDate, p.EndDate,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert policy: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read policy id: %w", err)
	}
	return id, nil
}

// GetPolicy retrieves a policy by ID.
func (s *SQLiteStore) GetPolicy(ctx context.Context, id int64) (*models.Policy, error) {
	p := &models.Policy{}
	err := s.db.QueryRowContext(ctx,
		"SELECT "+policyColumns+" FROM InsurancePolicies WHERE id = ?",
		id,
	).Scan(&p.ID, &p.Title, &p.InsuredAmount, &p.InsuredObject, &p.StartDate, &p.EndDate)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil // Policy not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get policy: %w", err)
	}

	return p, nil
}

// ListPolicies returns every policy with the number of linked persons.
func (s *SQLiteStore) ListPolicies(ctx context.Context) ([]models.PolicyListing, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT ip.id, ip.title, ip.insured_amount, ip.insured_object, ip.start_date, ip.end_date,
		       COALESCE(holders.persons, 0)
		FROM InsurancePolicies ip
		LEFT JOIN (SELECT policy_id, count(person_id) AS persons
		           FROM PersonInsurancePolicies
		           GROUP BY policy_id) AS holders
		ON ip.id = holders.policy_id
		ORDER BY ip.id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list policies: %w", err)
	}
	defer rows.Close()

	var listings []models.PolicyListing
	for rows.Next() {
		var l models.PolicyListing
		p := &l.Policy
		if err := rows.Scan(&p.ID, &p.Title, &p.InsuredAmount, &p.InsuredObject,
			&p.StartDate, &p.EndDate, &l.Holders); err != nil {
			return nil, fmt.Errorf("failed to scan policy: %w", err)
		}
		listings = append(listings, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate policies: %w", err)
	}

	return listings, nil
}

// ListUnlinkedPolicies returns the policies absent from the link table.
func (s *SQLiteStore) ListUnlinkedPolicies(ctx context.Context) ([]*models.Policy, error) {
	return s.queryPolicies(ctx, "unlinked policies",
		"SELECT "+policyColumns+` FROM InsurancePolicies
		 WHERE id NOT IN (SELECT DISTINCT policy_id FROM PersonInsurancePolicies)
		 ORDER BY id`,
	)
}

// ListPoliciesByPerson returns the policies linked to the given person.
func (s *SQLiteStore) ListPoliciesByPerson(ctx context.Context, personID int64) ([]*models.Policy, error) {
	return s.queryPolicies(ctx, "policies by person", `
		SELECT ip.id, ip.title, ip.insured_amount, ip.insured_object, ip.start_date, ip.end_date
		FROM InsurancePolicies ip
		JOIN PersonInsurancePolicies pip ON ip.id = pip.policy_id
		WHERE pip.person_id = ?
		ORDER BY ip.id
	`, personID)
}

// CountPolicies returns the number of policies.
func (s *SQLiteStore) CountPolicies(ctx context.Context) (int, error) {
	return s.count(ctx, "policies", "SELECT count(id) FROM InsurancePolicies")
}

// CountPoliciesByTitle counts policies with the given title.
func (s *SQLiteStore) CountPoliciesByTitle(ctx context.Context, title string) (int, error) {
	return s.count(ctx, "policies by title",
		"SELECT count(id) FROM InsurancePolicies WHERE title = ?", title)
}

// PolicyIDsByTitle returns the IDs of all policies with the given title.
func (s *SQLiteStore) PolicyIDsByTitle(ctx context.Context, title string) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id FROM InsurancePolicies WHERE title = ? ORDER BY id", title)
	if err != nil {
		return nil, fmt.Errorf("failed to find policy ids by title: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan policy id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate policy ids: %w", err)
	}
	return ids, nil
}

// UpdatePolicy overwrites a policy row.
func (s *SQLiteStore) UpdatePolicy(ctx context.Context, p *models.Policy) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE InsurancePolicies
		SET title = ?, insured_amount = ?, insured_object = ?, start_date = ?, end_date = ?
		WHERE id = ?
	`, p.Title, p.InsuredAmount, p.InsuredObject, p.StartDate, p.EndDate, p.ID)
	if err != nil {
		return fmt.Errorf("failed to update policy: %w", err)
	}
	return nil
}

// DeletePolicy removes a policy and, by cascade, its links.
func (s *SQLiteStore) DeletePolicy(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM InsurancePolicies WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete policy: %w", err)
	}
	return nil
}

func (s *SQLiteStore) queryPolicies(ctx context.Context, what, query string, args ...any) ([]*models.Policy, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", what, err)
	}
	defer rows.Close()

	var policies []*models.Policy
	for rows.Next() {
		p := &models.Policy{}
		if err := rows.Scan(&p.ID, &p.Title, &p.InsuredAmount, &p.InsuredObject,
			&p.StartDate, &p.EndDate); err != nil {
			return nil, fmt.Errorf("failed to scan policy: %w", err)
		}
		policies = append(policies, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s: %w", what, err)
	}

	return policies, nil
}
