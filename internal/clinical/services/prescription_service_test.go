package services

import (
	"errors"
	"testing"

	billing "github.com/hmsdev/hospital-backend/internal/billing/services"
	"github.com/hmsdev/hospital-backend/internal/clinical/models"
)

func TestAddItemChargesUnitPriceTimesQuantity(t *testing.T) {
	db := newTestDB(t)
	svc := NewPrescriptionService(db, billing.NewChargeEngine())
	patientID := seedPatient(t, db, "Ana", "Silva")

	prescriptionID, err := svc.CreatePrescription(patientID, nil, "")
	if err != nil {
		t.Fatalf("create prescription: %v", err)
	}

	itemID, charge, err := svc.AddItem(prescriptionID, models.AddPrescriptionItemRequest{
		MedicationName: "Amoxicillin",
		Quantity:       3,
		UnitPrice:      4.5,
	})
	if err != nil {
		t.Fatalf("add item: %v", err)
	}
	if itemID == 0 {
		t.Fatalf("expected an item id")
	}
	if charge.Amount != 13.5 {
		t.Fatalf("expected charge 13.5, got %v", charge.Amount)
	}
	if total := openBillTotal(t, db, patientID); total != 13.5 {
		t.Fatalf("expected bill total 13.5, got %v", total)
	}
}

func TestAddItemDefaultsQuantityToOne(t *testing.T) {
	db := newTestDB(t)
	svc := NewPrescriptionService(db, billing.NewChargeEngine())
	patientID := seedPatient(t, db, "Ana", "Silva")

	prescriptionID, err := svc.CreatePrescription(patientID, nil, "")
	if err != nil {
		t.Fatal(err)
	}

	_, charge, err := svc.AddItem(prescriptionID, models.AddPrescriptionItemRequest{
		MedicationName: "Ibuprofen",
		UnitPrice:      2,
	})
	if err != nil {
		t.Fatal(err)
	}
	if charge.Amount != 2 {
		t.Fatalf("missing quantity must count as one, charged %v", charge.Amount)
	}

	var qty int64
	if err := db.Get(&qty, `SELECT quantity FROM prescription_items ORDER BY id DESC LIMIT 1`); err != nil {
		t.Fatal(err)
	}
	if qty != 1 {
		t.Fatalf("expected stored quantity 1, got %d", qty)
	}
}

func TestAddItemUnknownPrescription(t *testing.T) {
	db := newTestDB(t)
	svc := NewPrescriptionService(db, billing.NewChargeEngine())

	_, _, err := svc.AddItem(9999, models.AddPrescriptionItemRequest{MedicationName: "Amoxicillin", UnitPrice: 4})
	if !errors.Is(err, ErrPrescriptionNotFound) {
		t.Fatalf("expected ErrPrescriptionNotFound, got %v", err)
	}
}

func TestPrescribeCreatesLinkedRecordsAndCharges(t *testing.T) {
	db := newTestDB(t)
	svc := NewPrescriptionService(db, billing.NewChargeEngine())
	patientID := seedPatient(t, db, "Ana", "Silva")
	doctorID := seedDoctor(t, db, "Grace", "Mandira")

	treatmentID, prescriptionID, err := svc.Prescribe(doctorID, models.PrescribeRequest{
		PatientID:      patientID,
		Description:    "Throat infection",
		TreatmentCost:  60,
		MedicationName: "Amoxicillin",
		Quantity:       2,
		UnitPrice:      5,
	})
	if err != nil {
		t.Fatalf("prescribe: %v", err)
	}

	// Treatment and prescription must point at each other.
	var linkedPrescription *int64
	if err := db.Get(&linkedPrescription, `SELECT prescription_id FROM treatments WHERE id = ?`, treatmentID); err != nil {
		t.Fatal(err)
	}
	if linkedPrescription == nil || *linkedPrescription != prescriptionID {
		t.Fatalf("treatment not linked to prescription: %v", linkedPrescription)
	}
	var linkedTreatment *int64
	if err := db.Get(&linkedTreatment, `SELECT treatment_id FROM prescriptions WHERE id = ?`, prescriptionID); err != nil {
		t.Fatal(err)
	}
	if linkedTreatment == nil || *linkedTreatment != treatmentID {
		t.Fatalf("prescription not linked to treatment: %v", linkedTreatment)
	}

	// One bill with both charges: 60 treatment + 10 medication.
	var billID int64
	if err := db.Get(&billID, `SELECT id FROM bills WHERE patient_id = ? AND paid = 0`, patientID); err != nil {
		t.Fatal(err)
	}
	if total := openBillTotal(t, db, patientID); total != 70 {
		t.Fatalf("expected bill total 70, got %v", total)
	}
	if n := billItemCount(t, db, billID); n != 2 {
		t.Fatalf("expected 2 bill items, got %d", n)
	}
}

func TestPrescribeUnknownPatientLeavesNothing(t *testing.T) {
	db := newTestDB(t)
	svc := NewPrescriptionService(db, billing.NewChargeEngine())
	doctorID := seedDoctor(t, db, "Grace", "Mandira")

	_, _, err := svc.Prescribe(doctorID, models.PrescribeRequest{
		PatientID:      42,
		MedicationName: "Amoxicillin",
	})
	if !errors.Is(err, ErrPatientNotFound) {
		t.Fatalf("expected ErrPatientNotFound, got %v", err)
	}

	for _, table := range []string{"treatments", "prescriptions", "prescription_items", "bills", "bill_items"} {
		var n int64
		if err := db.Get(&n, `SELECT COUNT(*) FROM `+table); err != nil {
			t.Fatal(err)
		}
		if n != 0 {
			t.Fatalf("rollback left %d rows in %s", n, table)
		}
	}
}

func TestListForPatientConcatenatesMedications(t *testing.T) {
	db := newTestDB(t)
	svc := NewPrescriptionService(db, billing.NewChargeEngine())
	patientID := seedPatient(t, db, "Ana", "Silva")

	prescriptionID, err := svc.CreatePrescription(patientID, nil, "post-op")
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := svc.AddItem(prescriptionID, models.AddPrescriptionItemRequest{MedicationName: "Amoxicillin", Dosage: "500mg", UnitPrice: 4}); err != nil {
		t.Fatal(err)
	}
	if _, _, err := svc.AddItem(prescriptionID, models.AddPrescriptionItemRequest{MedicationName: "Ibuprofen", Dosage: "200mg", UnitPrice: 2}); err != nil {
		t.Fatal(err)
	}

	prescriptions, err := svc.ListForPatient(patientID)
	if err != nil {
		t.Fatal(err)
	}
	if len(prescriptions) != 1 {
		t.Fatalf("expected 1 prescription, got %d", len(prescriptions))
	}
	p := prescriptions[0]
	if p.Medications == nil || *p.Medications != "Amoxicillin, Ibuprofen" {
		t.Fatalf("unexpected medications concat: %v", p.Medications)
	}
	if p.Dosages == nil || *p.Dosages != "500mg, 200mg" {
		t.Fatalf("unexpected dosages concat: %v", p.Dosages)
	}
}
