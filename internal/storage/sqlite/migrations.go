package sqlite

import (
	"context"
	"database/sql"
)

// schema contains the SQL statements to set up the database schema.
// These run on startup to ensure tables exist.
// The link table must be created after both tables it references.
const schema = `
CREATE TABLE IF NOT EXISTS InsuredPersons (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    first_name TEXT NOT NULL,
    last_name TEXT NOT NULL,
    email TEXT NOT NULL,
    phone TEXT NOT NULL,
    street TEXT NOT NULL,
    city TEXT NOT NULL,
    postal_code TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS InsurancePolicies (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    title TEXT NOT NULL,
    insured_amount REAL NOT NULL,
    insured_object TEXT NOT NULL,
    start_date TEXT NOT NULL,
    end_date TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS PersonInsurancePolicies (
    person_id INTEGER NOT NULL,
    policy_id INTEGER NOT NULL,
    PRIMARY KEY (person_id, policy_id),
    FOREIGN KEY (person_id) REFERENCES InsuredPersons(id) ON DELETE CASCADE,
    FOREIGN KEY (policy_id) REFERENCES InsurancePolicies(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_policies_title ON InsurancePolicies(title);
CREATE INDEX IF NOT EXISTS idx_links_policy_id ON PersonInsurancePolicies(policy_id);
`

// runMigrations executes the schema setup.
func runMigrations(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, schema)
	return err
}
