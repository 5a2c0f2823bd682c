package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sabu-app/sabu-backend/pkg/migrate"
)

func TestCoreSchemaMigrationContainsConstraints(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_core_schema.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no core schema migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE IF NOT EXISTS cart_lines",
		"FOREIGN KEY (cart_id) REFERENCES carts(id) ON DELETE CASCADE",
		"CHECK (quantity > 0 AND quantity <= 99)",
		"UNIQUE (cart_id, product_id)",
		"CHECK (applies_from_unit >= 2)",
		"CHECK (discount_percent > 0 AND discount_percent <= 100)",
		"weekdays SMALLINT[]",
		"DROP TABLE IF EXISTS cart_lines",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestPricingViewsMigrationCoversEngineInputs(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_pricing_views.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no pricing views migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE OR REPLACE VIEW cart_supermarket_detail",
		"CREATE OR REPLACE VIEW cart_supermarket_totals",
		"CREATE OR REPLACE VIEW active_payment_promotions",
		"CREATE OR REPLACE FUNCTION cart_unit_discounts",
		"ORDER BY (so.availability = 'AVAILABLE') DESC, so.price DESC",
		"DROP VIEW IF EXISTS cart_supermarket_detail",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestMigrationDirValidates(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("migrations directory invalid: %v", err)
	}
}
