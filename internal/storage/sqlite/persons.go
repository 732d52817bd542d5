package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mmynk/policydesk/internal/models"
)

// InsertPerson inserts a new person and returns the assigned ID.
func (s *SQLiteStore) InsertPerson(ctx context.Context, p *models.Person) (int64, error) {
	query := `
		INSERT INTO InsuredPersons (first_name, last_name, email, phone, street, city, postal_code)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	res, err := s.db.ExecContext(ctx, query,
		p.FirstName,
		p.LastName,
		p.Email,
		p.Phone,
		p.Street,
		p.City,
		p.PostalCode,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert person: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read person id: %w", err)
	}
	return id, nil
}

// GetPerson retrieves a person by ID.
func (s *SQLiteStore) GetPerson(ctx context.Context, id int64) (*models.Person, error) {
	query := `
		SELECT id, first_name, last_name, email, phone, street, city, postal_code
		FROM InsuredPersons
		WHERE id = ?
	`

	p := &models.Person{}
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID,
		&p.FirstName,
		&p.LastName,
		&p.Email,
		&p.Phone,
		&p.Street,
		&p.City,
		&p.PostalCode,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil // Person not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get person: %w", err)
	}

	return p, nil
}

// ListPersons returns every person ordered by ID.
func (s *SQLiteStore) ListPersons(ctx context.Context) ([]*models.Person, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, first_name, last_name, email, phone, street, city, postal_code
		FROM InsuredPersons
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list persons: %w", err)
	}
	defer rows.Close()

	var persons []*models.Person
	for rows.Next() {
		p := &models.Person{}
		if err := rows.Scan(&p.ID, &p.FirstName, &p.LastName, &p.Email,
			&p.Phone, &p.Street, &p.City, &p.PostalCode); err != nil {
			return nil, fmt.Errorf("failed to scan person: %w", err)
		}
		persons = append(persons, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate persons: %w", err)
	}

	return persons, nil
}

// CountPersons returns the number of persons.
func (s *SQLiteStore) CountPersons(ctx context.Context) (int, error) {
	return s.count(ctx, "persons", "SELECT count(id) FROM InsuredPersons")
}

// CountPersonsMatching counts persons matching first name, last name and e-mail exactly.
func (s *SQLiteStore) CountPersonsMatching(ctx context.Context, firstName, lastName, email string) (int, error) {
	return s.count(ctx, "matching persons",
		"SELECT count(id) FROM InsuredPersons WHERE first_name = ? AND last_name = ? AND email = ?",
		firstName, lastName, email,
	)
}

// UpdatePerson overwrites a person row.
func (s *SQLiteStore) UpdatePerson(ctx context.Context, p *models.Person) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE InsuredPersons
		SET first_name = ?, last_name = ?, email = ?, phone = ?, street = ?, city = ?, postal_code = ?
		WHERE id = ?
	`, p.FirstName, p.LastName, p.Email, p.Phone, p.Street, p.City, p.PostalCode, p.ID)
	if err != nil {
		return fmt.Errorf("failed to update person: %w", err)
	}
	return nil
}

// DeletePerson removes a person and, by cascade, its links.
func (s *SQLiteStore) DeletePerson(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM InsuredPersons WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete person: %w", err)
	}
	return nil
}
