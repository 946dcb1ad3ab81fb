package services

import (
	"errors"
	"strings"
	"testing"

	billing "github.com/hmsdev/hospital-backend/internal/billing/services"
	"github.com/hmsdev/hospital-backend/internal/clinical/models"
)

func TestLabTestChargesOnlyOnCompletion(t *testing.T) {
	db := newTestDB(t)
	svc := NewLabTestService(db, billing.NewChargeEngine())
	patientID := seedPatient(t, db, "Ana", "Silva")

	labTestID, err := svc.OrderLabTest(models.OrderLabTestRequest{
		PatientID: patientID,
		TestName:  "Blood panel",
		Cost:      35,
	})
	if err != nil {
		t.Fatalf("order lab test: %v", err)
	}

	var bills int64
	if err := db.Get(&bills, `SELECT COUNT(*) FROM bills`); err != nil {
		t.Fatal(err)
	}
	if bills != 0 {
		t.Fatalf("ordering must not bill the patient")
	}

	charge, err := svc.UpdateStatus(labTestID, models.LabStatusInProgress, nil)
	if err != nil {
		t.Fatal(err)
	}
	if charge != nil {
		t.Fatalf("in_progress must not charge, got %+v", charge)
	}

	result := "negative"
	charge, err = svc.UpdateStatus(labTestID, models.LabStatusCompleted, &result)
	if err != nil {
		t.Fatal(err)
	}
	if charge == nil || charge.Amount != 35 {
		t.Fatalf("completion must charge the test cost, got %+v", charge)
	}

	var test models.LabTest
	if err := db.Get(&test, `SELECT id, patient_id, doctor_id, test_name, requested_at, performed_at, result, status, cost, notes FROM lab_tests WHERE id = ?`, labTestID); err != nil {
		t.Fatal(err)
	}
	if test.Status != models.LabStatusCompleted || test.PerformedAt == nil {
		t.Fatalf("completion must set status and performed_at: %+v", test)
	}
	if test.Result == nil || *test.Result != "negative" {
		t.Fatalf("result not stored: %+v", test.Result)
	}
}

func TestLabTestCompletionIsEdgeTriggered(t *testing.T) {
	db := newTestDB(t)
	svc := NewLabTestService(db, billing.NewChargeEngine())
	patientID := seedPatient(t, db, "Ana", "Silva")

	labTestID, err := svc.OrderLabTest(models.OrderLabTestRequest{PatientID: patientID, TestName: "Blood panel", Cost: 35})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.UpdateStatus(labTestID, models.LabStatusCompleted, nil); err != nil {
		t.Fatal(err)
	}

	// Re-saving a completed test must not charge again.
	charge, err := svc.UpdateStatus(labTestID, models.LabStatusCompleted, nil)
	if err != nil {
		t.Fatal(err)
	}
	if charge != nil {
		t.Fatalf("re-completion charged again: %+v", charge)
	}

	if total := openBillTotal(t, db, patientID); total != 35 {
		t.Fatalf("expected single charge of 35, got total %v", total)
	}
	var items int64
	if err := db.Get(&items, `SELECT COUNT(*) FROM bill_items`); err != nil {
		t.Fatal(err)
	}
	if items != 1 {
		t.Fatalf("expected 1 bill item, got %d", items)
	}
}

func TestLabTestRecompletionAfterRevert(t *testing.T) {
	db := newTestDB(t)
	svc := NewLabTestService(db, billing.NewChargeEngine())
	patientID := seedPatient(t, db, "Ana", "Silva")

	labTestID, err := svc.OrderLabTest(models.OrderLabTestRequest{PatientID: patientID, TestName: "Blood panel", Cost: 35})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.UpdateStatus(labTestID, models.LabStatusCompleted, nil); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.UpdateStatus(labTestID, models.LabStatusInProgress, nil); err != nil {
		t.Fatal(err)
	}

	// A fresh transition back into completed is a new edge and charges again.
	charge, err := svc.UpdateStatus(labTestID, models.LabStatusCompleted, nil)
	if err != nil {
		t.Fatal(err)
	}
	if charge == nil {
		t.Fatalf("re-entry into completed must charge")
	}
	if total := openBillTotal(t, db, patientID); total != 70 {
		t.Fatalf("expected total 70 after two completions, got %v", total)
	}
}

func TestLabTestStatusValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewLabTestService(db, billing.NewChargeEngine())
	patientID := seedPatient(t, db, "Ana", "Silva")

	labTestID, err := svc.OrderLabTest(models.OrderLabTestRequest{PatientID: patientID, TestName: "Blood panel", Cost: 35})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.UpdateStatus(labTestID, "done", nil); err == nil || !strings.Contains(err.Error(), "invalid lab test status") {
		t.Fatalf("expected invalid status error, got %v", err)
	}
	if _, err := svc.UpdateStatus(9999, models.LabStatusCompleted, nil); !errors.Is(err, ErrLabTestNotFound) {
		t.Fatalf("expected ErrLabTestNotFound, got %v", err)
	}
}
