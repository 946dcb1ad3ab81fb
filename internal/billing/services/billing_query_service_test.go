package services

import (
	"errors"
	"testing"
)

func TestListBillsConcatenatesTreatments(t *testing.T) {
	db := newTestDB(t)
	engine := NewChargeEngine()
	query := NewBillingQueryService(db)
	patientID := seedPatient(t, db, "Ana", "Silva")

	appendCharge(t, db, engine, patientID, ChargeTreatment, "Consultation", 50)
	appendCharge(t, db, engine, patientID, ChargeMedication, "Amoxicillin", 12)
	appendCharge(t, db, engine, patientID, ChargeTreatment, "X-ray", 80)

	// A second patient with a bill that has no items at all.
	emptyPatient := seedPatient(t, db, "Ben", "Okafor")
	if _, err := db.Exec(`INSERT INTO bills (patient_id, total_amount, paid) VALUES (?, 0, 0)`, emptyPatient); err != nil {
		t.Fatal(err)
	}

	bills, err := query.ListBills()
	if err != nil {
		t.Fatal(err)
	}
	if len(bills) != 2 {
		t.Fatalf("expected 2 bills, got %d", len(bills))
	}

	byPatient := map[int64]string{}
	for _, b := range bills {
		byPatient[b.PatientID] = b.Treatments
	}
	if byPatient[patientID] != "Consultation; X-ray" {
		t.Fatalf("expected treatment-only concat, got %q", byPatient[patientID])
	}
	if byPatient[emptyPatient] != "" {
		t.Fatalf("zero-item bill must list empty treatments, got %q", byPatient[emptyPatient])
	}
}

func TestBillDetail(t *testing.T) {
	db := newTestDB(t)
	engine := NewChargeEngine()
	query := NewBillingQueryService(db)
	patientID := seedPatient(t, db, "Ana", "Silva")

	charge := appendCharge(t, db, engine, patientID, ChargeTreatment, "Consultation", 50)
	appendCharge(t, db, engine, patientID, ChargeLabTest, "Blood panel", 30)

	detail, err := query.BillDetail(charge.BillID)
	if err != nil {
		t.Fatal(err)
	}
	if detail.PatientName != "Ana Silva" {
		t.Fatalf("expected patient name, got %q", detail.PatientName)
	}
	if len(detail.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(detail.Items))
	}
	if detail.Bill.TotalAmount != 80 {
		t.Fatalf("expected total 80, got %v", detail.Bill.TotalAmount)
	}

	if _, err := query.BillDetail(9999); !errors.Is(err, ErrBillNotFound) {
		t.Fatalf("expected ErrBillNotFound, got %v", err)
	}
}

func TestUnpaidItemsForBills(t *testing.T) {
	db := newTestDB(t)
	engine := NewChargeEngine()
	query := NewBillingQueryService(db)
	payments := NewPaymentService(db)
	patientID := seedPatient(t, db, "Ana", "Silva")

	c1 := appendCharge(t, db, engine, patientID, ChargeTreatment, "Consultation", 50)
	c2 := appendCharge(t, db, engine, patientID, ChargeLabTest, "Blood panel", 30)

	if _, err := payments.PayItems([]int64{c1.ItemID}, "cash"); err != nil {
		t.Fatal(err)
	}

	unpaid, err := query.UnpaidItemsForBills([]int64{c1.BillID, 9999})
	if err != nil {
		t.Fatal(err)
	}
	items := unpaid[c1.BillID]
	if len(items) != 1 || items[0].ID != c2.ItemID {
		t.Fatalf("expected only the lab item unpaid, got %+v", items)
	}
	if _, ok := unpaid[9999]; ok {
		t.Fatalf("unknown bill must be absent from the map")
	}

	empty, err := query.UnpaidItemsForBills(nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(empty) != 0 {
		t.Fatalf("empty request must return an empty map")
	}
}

func TestRevenueSummary(t *testing.T) {
	db := newTestDB(t)
	engine := NewChargeEngine()
	query := NewBillingQueryService(db)
	payments := NewPaymentService(db)

	p1 := seedPatient(t, db, "Ana", "Silva")
	p2 := seedPatient(t, db, "Ben", "Okafor")

	paidBill := appendCharge(t, db, engine, p1, ChargeTreatment, "Consultation", 80)
	appendCharge(t, db, engine, p2, ChargeTreatment, "Consultation", 30)
	if err := payments.MarkBillPaid(paidBill.BillID); err != nil {
		t.Fatal(err)
	}

	rs, err := query.RevenueSummary()
	if err != nil {
		t.Fatal(err)
	}
	if rs.PaidAmount != 80 || rs.PendingAmount != 30 || rs.TotalAmount != 110 {
		t.Fatalf("unexpected revenue split: %+v", rs)
	}
}

func TestRevenueSummaryEmptyLedger(t *testing.T) {
	db := newTestDB(t)
	query := NewBillingQueryService(db)

	rs, err := query.RevenueSummary()
	if err != nil {
		t.Fatal(err)
	}
	if rs.PaidAmount != 0 || rs.PendingAmount != 0 || rs.TotalAmount != 0 {
		t.Fatalf("empty ledger must sum to zero: %+v", rs)
	}
}

func TestAuditBillTotals(t *testing.T) {
	db := newTestDB(t)
	engine := NewChargeEngine()
	query := NewBillingQueryService(db)
	patientID := seedPatient(t, db, "Ana", "Silva")

	charge := appendCharge(t, db, engine, patientID, ChargeTreatment, "Consultation", 50)
	appendCharge(t, db, engine, patientID, ChargeLabTest, "Blood panel", 30)

	drift, err := query.AuditBillTotals()
	if err != nil {
		t.Fatal(err)
	}
	if len(drift) != 0 {
		t.Fatalf("healthy ledger must show no drift, got %+v", drift)
	}

	// Corrupt the running total behind the engine's back.
	if _, err := db.Exec(`UPDATE bills SET total_amount = total_amount + 7 WHERE id = ?`, charge.BillID); err != nil {
		t.Fatal(err)
	}

	drift, err = query.AuditBillTotals()
	if err != nil {
		t.Fatal(err)
	}
	if len(drift) != 1 || drift[0].BillID != charge.BillID {
		t.Fatalf("expected drift on bill %d, got %+v", charge.BillID, drift)
	}
	if drift[0].TotalAmount != 87 || drift[0].ItemSum != 80 {
		t.Fatalf("unexpected drift amounts: %+v", drift[0])
	}
}

func TestUnsettledItemsOnPaidBills(t *testing.T) {
	db := newTestDB(t)
	engine := NewChargeEngine()
	query := NewBillingQueryService(db)
	payments := NewPaymentService(db)
	patientID := seedPatient(t, db, "Ana", "Silva")

	charge := appendCharge(t, db, engine, patientID, ChargeTreatment, "Consultation", 50)
	appendCharge(t, db, engine, patientID, ChargeLabTest, "Blood panel", 30)

	rows, err := query.UnsettledItemsOnPaidBills()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 0 {
		t.Fatalf("no divergence expected before direct mark, got %+v", rows)
	}

	if err := payments.MarkBillPaid(charge.BillID); err != nil {
		t.Fatal(err)
	}

	rows, err = query.UnsettledItemsOnPaidBills()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0].BillID != charge.BillID || rows[0].UnpaidItems != 2 {
		t.Fatalf("expected 2 unpaid items on bill %d, got %+v", charge.BillID, rows)
	}
}
