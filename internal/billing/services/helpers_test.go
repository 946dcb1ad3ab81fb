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

// appendCharge runs one AppendCharge in its own committed transaction.
func appendCharge(t *testing.T, db *sqlx.DB, engine *ChargeEngine, patientID int64, itemType string, description string, amount float64) *ChargeResult {
	t.Helper()
	tx, err := db.Beginx()
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	charge, err := engine.AppendCharge(tx, patientID, itemType, 1, description, amount)
	if err != nil {
		tx.Rollback()
		t.Fatalf("append charge: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}
	return charge
}

func billRow(t *testing.T, db *sqlx.DB, billID int64) (total float64, paid bool, paidAt *string) {
	t.Helper()
	var row struct {
		TotalAmount float64 `db:"total_amount"`
		Paid        bool    `db:"paid"`
		PaidAt      *string `db:"paid_at"`
	}
	if err := db.Get(&row, `SELECT total_amount, paid, paid_at FROM bills WHERE id = ?`, billID); err != nil {
		t.Fatalf("bill row: %v", err)
	}
	return row.TotalAmount, row.Paid, row.PaidAt
}

func openBillCount(t *testing.T, db *sqlx.DB, patientID int64) int64 {
	t.Helper()
	var n int64
	if err := db.Get(&n, `SELECT COUNT(*) FROM bills WHERE patient_id = ? AND paid = 0`, patientID); err != nil {
		t.Fatalf("open bill count: %v", err)
	}
	return n
}
