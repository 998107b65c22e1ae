package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/softsellhq/softsell-backend/pkg/migrate"
)

func TestLicensesMigrationContainsConstraints(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_licenses.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no licenses migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TYPE license_status AS ENUM ('pending', 'approved', 'rejected', 'sold')",
		"CREATE TABLE IF NOT EXISTS licenses",
		"CHECK (price > 0)",
		"CHECK (days_to_sell > 0)",
		"FOREIGN KEY (seller_id) REFERENCES users(id) ON DELETE CASCADE",
		"FOREIGN KEY (buyer_id) REFERENCES users(id) ON DELETE SET NULL",
		"DROP TABLE IF EXISTS licenses",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestPaymentProofsMigrationContainsConstraints(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_payment_proofs.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no payment proofs migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TYPE proof_status AS ENUM ('pending', 'approved', 'rejected')",
		"CREATE TABLE IF NOT EXISTS payment_proofs",
		"FOREIGN KEY (license_id) REFERENCES licenses(id) ON DELETE CASCADE",
		"FOREIGN KEY (buyer_id) REFERENCES users(id) ON DELETE CASCADE",
		"DROP TABLE IF EXISTS payment_proofs",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestValidateDirAcceptsShippedMigrations(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("expected shipped migrations to validate: %v", err)
	}
}
