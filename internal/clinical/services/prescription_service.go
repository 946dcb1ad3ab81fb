package services

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	billing "github.com/hmsdev/hospital-backend/internal/billing/services"
	"github.com/hmsdev/hospital-backend/internal/clinical/models"
	"github.com/hmsdev/hospital-backend/pkg/storage/sqlitedb"
	"github.com/hmsdev/hospital-backend/pkg/utils"
)

var ErrPrescriptionNotFound = errors.New("prescription not found")

type PrescriptionService struct {
	DB     *sqlx.DB
	Engine *billing.ChargeEngine
}

func NewPrescriptionService(db *sqlx.DB, engine *billing.ChargeEngine) *PrescriptionService {
	return &PrescriptionService{DB: db, Engine: engine}
}

// CreatePrescription opens an empty prescription. The prescription itself
// carries no charge; items added to it do.
func (s *PrescriptionService) CreatePrescription(patientID int64, doctorID *int64, notes string) (int64, error) {
	var exists int
	if err := s.DB.Get(&exists, `SELECT 1 FROM patients WHERE id = ?`, patientID); err != nil {
		if err == sql.ErrNoRows {
			return 0, ErrPatientNotFound
		}
		return 0, err
	}
	res, err := s.DB.Exec(`
		INSERT INTO prescriptions (patient_id, doctor_id, created_at, notes)
		VALUES (?, ?, ?, ?)`,
		patientID, doctorID, utils.NowStamp(), nullIfEmpty(notes),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// AddItem appends a medication line to the prescription and charges the
// owning patient unit_price x quantity, all in one transaction. A missing
// quantity counts as one.
func (s *PrescriptionService) AddItem(prescriptionID int64, req models.AddPrescriptionItemRequest) (int64, *billing.ChargeResult, error) {
	qty := req.Quantity
	if qty <= 0 {
		qty = 1
	}

	var itemID int64
	var charge *billing.ChargeResult
	err := sqlitedb.WithBusyRetry(func() error {
		tx, err := s.DB.Beginx()
		if err != nil {
			return err
		}
		defer tx.Rollback()

		var patientID int64
		err = tx.Get(&patientID, `SELECT patient_id FROM prescriptions WHERE id = ?`, prescriptionID)
		if err == sql.ErrNoRows {
			return ErrPrescriptionNotFound
		}
		if err != nil {
			return err
		}

		res, err := tx.Exec(`
			INSERT INTO prescription_items
				(prescription_id, medication_name, medication_description, dosage, quantity, unit_price, fulfilled)
			VALUES (?, ?, ?, ?, ?, ?, 0)`,
			prescriptionID, req.MedicationName, nullIfEmpty(req.MedicationDescription),
			nullIfEmpty(req.Dosage), qty, req.UnitPrice,
		)
		if err != nil {
			return err
		}
		itemID, err = res.LastInsertId()
		if err != nil {
			return err
		}

		charge, err = s.Engine.AppendCharge(tx, patientID, billing.ChargeMedication, itemID,
			req.MedicationName, req.UnitPrice*float64(qty))
		if err != nil {
			return err
		}
		return tx.Commit()
	})
	if err != nil {
		return 0, nil, err
	}

	log.Info().
		Int64("prescription_id", prescriptionID).
		Int64("item_id", itemID).
		Int64("bill_id", charge.BillID).
		Float64("amount", charge.Amount).
		Msg("prescription item added")
	broadcastCharge(charge)
	return itemID, charge, nil
}

// Prescribe is the combined doctor workflow from the consultation screen:
// one transaction records the treatment note, the prescription, its first
// item and both charges, then links treatment and prescription both ways.
func (s *PrescriptionService) Prescribe(doctorID int64, req models.PrescribeRequest) (treatmentID, prescriptionID int64, err error) {
	qty := req.Quantity
	if qty <= 0 {
		qty = 1
	}

	var charges []*billing.ChargeResult
	err = sqlitedb.WithBusyRetry(func() error {
		tx, err := s.DB.Beginx()
		if err != nil {
			return err
		}
		defer tx.Rollback()
		charges = charges[:0]

		var exists int
		if err := tx.Get(&exists, `SELECT 1 FROM patients WHERE id = ?`, req.PatientID); err != nil {
			if err == sql.ErrNoRows {
				return ErrPatientNotFound
			}
			return err
		}

		now := utils.NowStamp()
		res, err := tx.Exec(`
			INSERT INTO treatments (patient_id, doctor_id, description, start_date, cost)
			VALUES (?, ?, ?, ?, ?)`,
			req.PatientID, doctorID, nullIfEmpty(req.Description), now, req.TreatmentCost,
		)
		if err != nil {
			return err
		}
		treatmentID, err = res.LastInsertId()
		if err != nil {
			return err
		}
		charge, err := s.Engine.AppendCharge(tx, req.PatientID, billing.ChargeTreatment, treatmentID, req.Description, req.TreatmentCost)
		if err != nil {
			return err
		}
		charges = append(charges, charge)

		res, err = tx.Exec(`
			INSERT INTO prescriptions (patient_id, doctor_id, treatment_id, created_at, notes)
			VALUES (?, ?, ?, ?, ?)`,
			req.PatientID, doctorID, treatmentID, now, nullIfEmpty(req.Notes),
		)
		if err != nil {
			return err
		}
		prescriptionID, err = res.LastInsertId()
		if err != nil {
			return err
		}

		res, err = tx.Exec(`
			INSERT INTO prescription_items
				(prescription_id, medication_name, medication_description, dosage, quantity, unit_price, fulfilled)
			VALUES (?, ?, ?, ?, ?, ?, 0)`,
			prescriptionID, req.MedicationName, nullIfEmpty(req.MedicationDescription),
			nullIfEmpty(req.Dosage), qty, req.UnitPrice,
		)
		if err != nil {
			return err
		}
		itemID, err := res.LastInsertId()
		if err != nil {
			return err
		}
		charge, err = s.Engine.AppendCharge(tx, req.PatientID, billing.ChargeMedication, itemID,
			req.MedicationName, req.UnitPrice*float64(qty))
		if err != nil {
			return err
		}
		charges = append(charges, charge)

		if _, err := tx.Exec(`UPDATE treatments SET prescription_id = ? WHERE id = ?`, prescriptionID, treatmentID); err != nil {
			return err
		}
		return tx.Commit()
	})
	if err != nil {
		return 0, 0, err
	}

	log.Info().
		Int64("treatment_id", treatmentID).
		Int64("prescription_id", prescriptionID).
		Int64("patient_id", req.PatientID).
		Msg("treatment and prescription created")
	for _, charge := range charges {
		broadcastCharge(charge)
	}
	return treatmentID, prescriptionID, nil
}

// ListForPatient returns the patient's prescriptions with their medications
// and dosages concatenated, newest first.
func (s *PrescriptionService) ListForPatient(patientID int64) ([]models.Prescription, error) {
	var prescriptions []models.Prescription
	err := s.DB.Select(&prescriptions, `
		SELECT p.id, p.patient_id, p.doctor_id, p.treatment_id, p.created_at, p.notes,
		       GROUP_CONCAT(pi.medication_name, ', ') AS medications,
		       GROUP_CONCAT(pi.dosage, ', ') AS dosages
		FROM prescriptions p
		LEFT JOIN prescription_items pi ON pi.prescription_id = p.id
		WHERE p.patient_id = ?
		GROUP BY p.id
		ORDER BY p.created_at DESC, p.id DESC`, patientID)
	if err != nil {
		return nil, err
	}
	return prescriptions, nil
}

// Items returns the lines of one prescription.
func (s *PrescriptionService) Items(prescriptionID int64) ([]models.PrescriptionItem, error) {
	var items []models.PrescriptionItem
	err := s.DB.Select(&items, `
		SELECT id, prescription_id, medication_name, medication_description, dosage,
		       quantity, unit_price, fulfilled, fulfilled_at
		FROM prescription_items
		WHERE prescription_id = ?
		ORDER BY id ASC`, prescriptionID)
	if err != nil {
		return nil, err
	}
	return items, nil
}
