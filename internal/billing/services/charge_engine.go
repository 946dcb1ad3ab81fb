package services

import (
	"database/sql"
	"math"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/hmsdev/hospital-backend/pkg/utils"
)

// Charge item types. Each chargeable clinical event produces exactly one
// bill item of the matching type.
const (
	ChargeTreatment  = "treatment"
	ChargeMedication = "medication"
	ChargeLabTest    = "lab_test"
)

// ChargeResult describes the outcome of one appended charge.
type ChargeResult struct {
	BillID      int64   `json:"bill_id"`
	ItemID      int64   `json:"item_id"`
	BillCreated bool    `json:"bill_created"`
	Amount      float64 `json:"amount"`
}

// ChargeEngine keeps a patient's open bill, its line items and the running
// total in lockstep. Every method runs on the caller's transaction so the
// clinical-event write and its charge commit or roll back together.
type ChargeEngine struct{}

func NewChargeEngine() *ChargeEngine {
	return &ChargeEngine{}
}

// AppendCharge ensures the patient has an open bill, appends one item to it
// and increments the bill total by the item amount, all on tx.
//
// A missing or nonsensical amount is coerced to zero; the line is still
// recorded for audit. Serialization against concurrent chargeable events for
// the same patient comes from the store's immediate write lock, with the
// partial unique index on open bills as the last-resort net.
func (e *ChargeEngine) AppendCharge(tx *sqlx.Tx, patientID int64, itemType string, itemRef int64, description string, amount float64) (*ChargeResult, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount < 0 {
		amount = 0
	}
	if description == "" {
		description = defaultDescription(itemType)
	}
	now := utils.NowStamp()

	billID, created, err := e.ensureOpenBill(tx, patientID, now)
	if err != nil {
		return nil, err
	}

	res, err := tx.Exec(`
		INSERT INTO bill_items (bill_id, item_type, item_ref, description, amount, paid, created_at)
		VALUES (?, ?, ?, ?, ?, 0, ?)`,
		billID, itemType, itemRef, description, amount, now,
	)
	if err != nil {
		return nil, err
	}
	itemID, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	if _, err := tx.Exec(`UPDATE bills SET total_amount = total_amount + ? WHERE id = ?`, amount, billID); err != nil {
		return nil, err
	}

	log.Debug().
		Int64("patient_id", patientID).
		Int64("bill_id", billID).
		Int64("item_id", itemID).
		Str("item_type", itemType).
		Float64("amount", amount).
		Bool("bill_created", created).
		Msg("charge appended")

	return &ChargeResult{BillID: billID, ItemID: itemID, BillCreated: created, Amount: amount}, nil
}

// ensureOpenBill returns the patient's open bill id, creating the bill when
// none exists. The lookup and the insert run on the same write transaction,
// so two concurrent events cannot both observe "no open bill".
func (e *ChargeEngine) ensureOpenBill(tx *sqlx.Tx, patientID int64, now string) (int64, bool, error) {
	var billID int64
	err := tx.Get(&billID, `
		SELECT id FROM bills
		WHERE patient_id = ? AND paid = 0
		ORDER BY created_at DESC LIMIT 1`, patientID)
	if err == nil {
		return billID, false, nil
	}
	if err != sql.ErrNoRows {
		return 0, false, err
	}

	res, err := tx.Exec(`
		INSERT INTO bills (patient_id, total_amount, paid, created_at)
		VALUES (?, 0, 0, ?)`, patientID, now)
	if err != nil {
		return 0, false, err
	}
	billID, err = res.LastInsertId()
	if err != nil {
		return 0, false, err
	}
	return billID, true, nil
}

func defaultDescription(itemType string) string {
	switch itemType {
	case ChargeTreatment:
		return "Treatment"
	case ChargeMedication:
		return "Medication"
	case ChargeLabTest:
		return "Lab test"
	default:
		return "Charge"
	}
}
