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
	"github.com/hmsdev/hospital-backend/ws"
)

var ErrPatientNotFound = errors.New("patient not found")

type TreatmentService struct {
	DB     *sqlx.DB
	Engine *billing.ChargeEngine
}

func NewTreatmentService(db *sqlx.DB, engine *billing.ChargeEngine) *TreatmentService {
	return &TreatmentService{DB: db, Engine: engine}
}

// RecordTreatment writes the treatment and its charge in one transaction;
// neither persists without the other.
func (s *TreatmentService) RecordTreatment(req models.RecordTreatmentRequest) (int64, *billing.ChargeResult, error) {
	var treatmentID int64
	var charge *billing.ChargeResult

	err := sqlitedb.WithBusyRetry(func() error {
		tx, err := s.DB.Beginx()
		if err != nil {
			return err
		}
		defer tx.Rollback()

		var exists int
		if err := tx.Get(&exists, `SELECT 1 FROM patients WHERE id = ?`, req.PatientID); err != nil {
			if err == sql.ErrNoRows {
				return ErrPatientNotFound
			}
			return err
		}

		res, err := tx.Exec(`
			INSERT INTO treatments (patient_id, doctor_id, description, start_date, cost, notes)
			VALUES (?, ?, ?, ?, ?, ?)`,
			req.PatientID, req.DoctorID, nullIfEmpty(req.Description), utils.NowStamp(), req.Cost, req.Notes,
		)
		if err != nil {
			return err
		}
		treatmentID, err = res.LastInsertId()
		if err != nil {
			return err
		}

		charge, err = s.Engine.AppendCharge(tx, req.PatientID, billing.ChargeTreatment, treatmentID, req.Description, req.Cost)
		if err != nil {
			return err
		}
		return tx.Commit()
	})
	if err != nil {
		return 0, nil, err
	}

	log.Info().
		Int64("treatment_id", treatmentID).
		Int64("bill_id", charge.BillID).
		Float64("cost", charge.Amount).
		Msg("treatment recorded")
	broadcastCharge(charge)
	return treatmentID, charge, nil
}

// ListForPatient returns the patient's treatment history, newest first.
func (s *TreatmentService) ListForPatient(patientID int64) ([]models.Treatment, error) {
	var treatments []models.Treatment
	err := s.DB.Select(&treatments, `
		SELECT id, patient_id, doctor_id, description, start_date, end_date, cost, notes, prescription_id
		FROM treatments
		WHERE patient_id = ?
		ORDER BY start_date DESC, id DESC`, patientID)
	if err != nil {
		return nil, err
	}
	return treatments, nil
}

// ListForDoctor returns the treatments a doctor recorded, with patient
// names, newest first.
func (s *TreatmentService) ListForDoctor(doctorID int64) ([]models.Treatment, error) {
	var treatments []models.Treatment
	err := s.DB.Select(&treatments, `
		SELECT t.id, t.patient_id, t.doctor_id, t.description, t.start_date, t.end_date,
		       t.cost, t.notes, t.prescription_id,
		       p.first_name || ' ' || p.last_name AS patient_name
		FROM treatments t
		LEFT JOIN patients p ON p.id = t.patient_id
		WHERE t.doctor_id = ?
		ORDER BY t.start_date DESC, t.id DESC`, doctorID)
	if err != nil {
		return nil, err
	}
	return treatments, nil
}

func broadcastCharge(charge *billing.ChargeResult) {
	if charge.BillCreated {
		ws.HubInstance.BroadcastEvent(ws.EventBillCreated, map[string]interface{}{"bill_id": charge.BillID})
	}
	ws.HubInstance.BroadcastEvent(ws.EventChargeAppended, charge)
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
