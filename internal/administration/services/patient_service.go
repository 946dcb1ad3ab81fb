package services

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/hmsdev/hospital-backend/internal/administration/models"
)

var ErrPatientNotFound = errors.New("patient not found")

type PatientService struct {
	DB *sqlx.DB
}

func NewPatientService(db *sqlx.DB) *PatientService {
	return &PatientService{DB: db}
}

// RegisterPatient inserts a new patient and returns its id.
func (s *PatientService) RegisterPatient(req models.RegisterPatientRequest) (int64, error) {
	res, err := s.DB.Exec(`
		INSERT INTO patients (first_name, last_name, dob, phone, address, doctor, department)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		req.FirstName, req.LastName, req.DOB, req.Phone, req.Address, req.Doctor, req.Department,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListPatients returns the registry, newest first, with the primary doctor's
// name joined in when one is assigned.
func (s *PatientService) ListPatients() ([]models.Patient, error) {
	var patients []models.Patient
	err := s.DB.Select(&patients, `
		SELECT p.id, p.first_name, p.last_name, p.dob, p.phone, p.address,
		       p.doctor, p.department, p.created_at,
		       d.f_name || ' ' || d.l_name AS doctor_name
		FROM patients p
		LEFT JOIN doctors d ON d.doctor_id = p.doctor
		ORDER BY p.id DESC`)
	if err != nil {
		return nil, err
	}
	return patients, nil
}

func (s *PatientService) GetPatient(id int64) (*models.Patient, error) {
	var p models.Patient
	err := s.DB.Get(&p, `
		SELECT id, first_name, last_name, dob, phone, address, doctor, department, created_at
		FROM patients WHERE id = ?`, id)
	if err == sql.ErrNoRows {
		return nil, ErrPatientNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *PatientService) UpdatePatient(id int64, req models.UpdatePatientRequest) error {
	res, err := s.DB.Exec(`
		UPDATE patients
		SET first_name = ?, last_name = ?, dob = ?, phone = ?, address = ?, doctor = ?, department = ?
		WHERE id = ?`,
		req.FirstName, req.LastName, req.DOB, req.Phone, req.Address, req.Doctor, req.Department, id,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrPatientNotFound
	}
	return nil
}

// DeletePatient removes the patient. Appointments, treatments,
// prescriptions, lab tests and bills cascade at the store level.
func (s *PatientService) DeletePatient(id int64) error {
	res, err := s.DB.Exec(`DELETE FROM patients WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrPatientNotFound
	}
	return nil
}
