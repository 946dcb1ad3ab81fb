package services

import (
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/hmsdev/hospital-backend/internal/migrations"
	"github.com/hmsdev/hospital-backend/pkg/storage/sqlitedb"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db := sqlitedb.Connect("file::memory:")
	t.Cleanup(func() { db.Close() })
	if err := migrations.Run(db); err != nil {
		t.Fatalf("migrations: %v", err)
	}
	return db
}

func seedPatient(t *testing.T, db *sqlx.DB, first, last string) int64 {
	t.Helper()
	res, err := db.Exec(`INSERT INTO patients (first_name, last_name) VALUES (?, ?)`, first, last)
	if err != nil {
		t.Fatalf("seed patient: %v", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		t.Fatalf("seed patient id: %v", err)
	}
	return id
}

func seedDoctor(t *testing.T, db *sqlx.DB, first, last string) int64 {
	t.Helper()
	res, err := db.Exec(`INSERT INTO doctors (f_name, l_name) VALUES (?, ?)`, first, last)
	if err != nil {
		t.Fatalf("seed doctor: %v", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		t.Fatalf("seed doctor id: %v", err)
	}
	return id
}

func openBillTotal(t *testing.T, db *sqlx.DB, patientID int64) float64 {
	t.Helper()
	var total float64
	err := db.Get(&total, `SELECT total_amount FROM bills WHERE patient_id = ? AND paid = 0`, patientID)
	if err != nil {
		t.Fatalf("open bill total: %v", err)
	}
	return total
}

func billItemCount(t *testing.T, db *sqlx.DB, billID int64) int64 {
	t.Helper()
	var n int64
	if err := db.Get(&n, `SELECT COUNT(*) FROM bill_items WHERE bill_id = ?`, billID); err != nil {
		t.Fatalf("bill item count: %v", err)
	}
	return n
}
