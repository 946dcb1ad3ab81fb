package services

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	billing "github.com/hmsdev/hospital-backend/internal/billing/services"
	"github.com/hmsdev/hospital-backend/internal/clinical/models"
	"github.com/hmsdev/hospital-backend/pkg/storage/sqlitedb"
	"github.com/hmsdev/hospital-backend/pkg/utils"
)

var ErrLabTestNotFound = errors.New("lab test not found")

type LabTestService struct {
	DB     *sqlx.DB
	Engine *billing.ChargeEngine
}

func NewLabTestService(db *sqlx.DB, engine *billing.ChargeEngine) *LabTestService {
	return &LabTestService{DB: db, Engine: engine}
}

// OrderLabTest creates a lab test in 'ordered' status. Ordering is free;
// the charge fires on completion.
func (s *LabTestService) OrderLabTest(req models.OrderLabTestRequest) (int64, error) {
	var exists int
	if err := s.DB.Get(&exists, `SELECT 1 FROM patients WHERE id = ?`, req.PatientID); err != nil {
		if err == sql.ErrNoRows {
			return 0, ErrPatientNotFound
		}
		return 0, err
	}
	res, err := s.DB.Exec(`
		INSERT INTO lab_tests (patient_id, doctor_id, test_name, requested_at, status, cost, notes)
		VALUES (?, ?, ?, ?, 'ordered', ?, ?)`,
		req.PatientID, req.DoctorID, req.TestName, utils.NowStamp(), req.Cost, req.Notes,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// UpdateStatus moves a lab test to a new status. The charge is
// edge-triggered: it fires only on a transition into 'completed' from any
// other status, inside the same transaction as the status write, so
// re-saving a completed test never double-charges.
func (s *LabTestService) UpdateStatus(labTestID int64, newStatus string, result *string) (*billing.ChargeResult, error) {
	switch newStatus {
	case models.LabStatusOrdered, models.LabStatusInProgress, models.LabStatusCompleted, models.LabStatusCancelled:
	default:
		return nil, fmt.Errorf("invalid lab test status %q", newStatus)
	}

	var charge *billing.ChargeResult
	err := sqlitedb.WithBusyRetry(func() error {
		charge = nil
		tx, err := s.DB.Beginx()
		if err != nil {
			return err
		}
		defer tx.Rollback()

		var test struct {
			PatientID int64   `db:"patient_id"`
			TestName  string  `db:"test_name"`
			Cost      float64 `db:"cost"`
			Status    string  `db:"status"`
		}
		err = tx.Get(&test, `SELECT patient_id, test_name, cost, status FROM lab_tests WHERE id = ?`, labTestID)
		if err == sql.ErrNoRows {
			return ErrLabTestNotFound
		}
		if err != nil {
			return err
		}

		completing := newStatus == models.LabStatusCompleted && test.Status != models.LabStatusCompleted

		if completing {
			if _, err := tx.Exec(`
				UPDATE lab_tests SET status = ?, performed_at = ?, result = COALESCE(?, result)
				WHERE id = ?`, newStatus, utils.NowStamp(), result, labTestID); err != nil {
				return err
			}
		} else {
			if _, err := tx.Exec(`
				UPDATE lab_tests SET status = ?, result = COALESCE(?, result)
				WHERE id = ?`, newStatus, result, labTestID); err != nil {
				return err
			}
		}

		if completing {
			charge, err = s.Engine.AppendCharge(tx, test.PatientID, billing.ChargeLabTest, labTestID, test.TestName, test.Cost)
			if err != nil {
				return err
			}
		}
		return tx.Commit()
	})
	if err != nil {
		return nil, err
	}

	if charge != nil {
		log.Info().
			Int64("lab_test_id", labTestID).
			Int64("bill_id", charge.BillID).
			Float64("cost", charge.Amount).
			Msg("lab test completed and charged")
		broadcastCharge(charge)
	}
	return charge, nil
}

// ListForPatient returns the patient's lab tests, newest first.
func (s *LabTestService) ListForPatient(patientID int64) ([]models.LabTest, error) {
	var tests []models.LabTest
	err := s.DB.Select(&tests, `
		SELECT id, patient_id, doctor_id, test_name, requested_at, performed_at, result, status, cost, notes
		FROM lab_tests
		WHERE patient_id = ?
		ORDER BY requested_at DESC, id DESC`, patientID)
	if err != nil {
		return nil, err
	}
	return tests, nil
}
