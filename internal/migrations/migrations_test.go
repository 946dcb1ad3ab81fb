package migrations

import (
	"testing"

	"github.com/hmsdev/hospital-backend/pkg/storage/sqlitedb"
)

func TestRunIsIdempotent(t *testing.T) {
	db := sqlitedb.Connect("file::memory:")
	t.Cleanup(func() { db.Close() })

	if err := Run(db); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if err := Run(db); err != nil {
		t.Fatalf("second run must be a no-op: %v", err)
	}

	var applied int
	if err := db.Get(&applied, `SELECT COUNT(*) FROM schema_migrations`); err != nil {
		t.Fatal(err)
	}
	if applied != len(all) {
		t.Fatalf("expected %d applied migrations, got %d", len(all), applied)
	}
}

func TestOpenBillIndexRejectsSecondOpenBill(t *testing.T) {
	db := sqlitedb.Connect("file::memory:")
	t.Cleanup(func() { db.Close() })
	if err := Run(db); err != nil {
		t.Fatal(err)
	}

	if _, err := db.Exec(`INSERT INTO patients (first_name, last_name) VALUES ('Ana', 'Silva')`); err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec(`INSERT INTO bills (patient_id, total_amount, paid) VALUES (1, 0, 0)`); err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec(`INSERT INTO bills (patient_id, total_amount, paid) VALUES (1, 0, 0)`); err == nil {
		t.Fatalf("second open bill for the same patient must violate the unique index")
	}

	// A settled bill does not block a new open one.
	if _, err := db.Exec(`UPDATE bills SET paid = 1 WHERE patient_id = 1`); err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec(`INSERT INTO bills (patient_id, total_amount, paid) VALUES (1, 0, 0)`); err != nil {
		t.Fatalf("open bill after settlement must be allowed: %v", err)
	}
}
