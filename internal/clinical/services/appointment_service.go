package services

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/hmsdev/hospital-backend/internal/clinical/models"
)

var ErrAppointmentNotFound = errors.New("appointment not found")

type AppointmentService struct {
	DB *sqlx.DB
}

func NewAppointmentService(db *sqlx.DB) *AppointmentService {
	return &AppointmentService{DB: db}
}

// Book creates an appointment in 'booked' status.
func (s *AppointmentService) Book(req models.BookAppointmentRequest) (int64, error) {
	var exists int
	if err := s.DB.Get(&exists, `SELECT 1 FROM patients WHERE id = ?`, req.PatientID); err != nil {
		if err == sql.ErrNoRows {
			return 0, ErrPatientNotFound
		}
		return 0, err
	}
	res, err := s.DB.Exec(`
		INSERT INTO appointments (patient_id, doctor_id, appointment_datetime, status, notes, fee)
		VALUES (?, ?, ?, 'booked', ?, ?)`,
		req.PatientID, req.DoctorID, req.AppointmentDatetime, req.Notes, req.Fee,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListAll returns every appointment with patient and doctor names, newest
// first. Used by the admin calendar and list views.
func (s *AppointmentService) ListAll() ([]models.Appointment, error) {
	var appts []models.Appointment
	err := s.DB.Select(&appts, `
		SELECT a.id, a.patient_id, a.doctor_id, a.appointment_datetime, a.status,
		       a.notes, a.fee, a.actions,
		       p.first_name || ' ' || p.last_name AS patient_name,
		       d.f_name || ' ' || d.l_name AS doctor_name
		FROM appointments a
		JOIN patients p ON p.id = a.patient_id
		LEFT JOIN doctors d ON d.doctor_id = a.doctor_id
		ORDER BY a.appointment_datetime DESC, a.id DESC`)
	if err != nil {
		return nil, err
	}
	return appts, nil
}

// ListForDoctor returns the doctor's booked and confirmed appointments in
// chronological order.
func (s *AppointmentService) ListForDoctor(doctorID int64) ([]models.Appointment, error) {
	var appts []models.Appointment
	err := s.DB.Select(&appts, `
		SELECT a.id, a.patient_id, a.doctor_id, a.appointment_datetime, a.status,
		       a.notes, a.fee, a.actions,
		       p.first_name || ' ' || p.last_name AS patient_name
		FROM appointments a
		LEFT JOIN patients p ON p.id = a.patient_id
		WHERE a.doctor_id = ? AND a.status IN ('booked','confirmed')
		ORDER BY a.appointment_datetime ASC`, doctorID)
	if err != nil {
		return nil, err
	}
	return appts, nil
}

// Update edits datetime, status, actions and the doctor assignment. Fields
// left empty keep their stored value.
func (s *AppointmentService) Update(id int64, req models.UpdateAppointmentRequest) error {
	if req.Status != "" {
		switch req.Status {
		case models.AppointmentBooked, models.AppointmentConfirmed, models.AppointmentCancelled, models.AppointmentCompleted:
		default:
			return fmt.Errorf("invalid appointment status %q", req.Status)
		}
	}

	var appt models.Appointment
	err := s.DB.Get(&appt, `
		SELECT id, patient_id, doctor_id, appointment_datetime, status, notes, fee, actions
		FROM appointments WHERE id = ?`, id)
	if err == sql.ErrNoRows {
		return ErrAppointmentNotFound
	}
	if err != nil {
		return err
	}

	datetime := appt.AppointmentDatetime
	if req.AppointmentDatetime != "" {
		datetime = req.AppointmentDatetime
	}
	status := appt.Status
	if req.Status != "" {
		status = req.Status
	}
	doctorID := appt.DoctorID
	if req.DoctorID != nil {
		doctorID = req.DoctorID
	}
	actions := appt.Actions
	if req.Actions != nil {
		actions = req.Actions
	}

	_, err = s.DB.Exec(`
		UPDATE appointments
		SET appointment_datetime = ?, status = ?, doctor_id = ?, actions = ?
		WHERE id = ?`, datetime, status, doctorID, actions, id)
	return err
}

// MyPatients lists the patients a doctor can see: either assigned as their
// primary doctor or sharing an appointment with them. Starting from patients
// keeps primary patients visible before their first appointment is booked.
func (s *AppointmentService) MyPatients(doctorID int64) ([]models.DoctorPatient, error) {
	var rows []models.DoctorPatient
	err := s.DB.Select(&rows, `
		SELECT p.id AS patient_id,
		       p.first_name || ' ' || p.last_name AS patient_name,
		       p.phone,
		       p.department,
		       MAX(a.appointment_datetime) AS last_appointment,
		       COUNT(a.id) AS appointment_count
		FROM patients p
		LEFT JOIN appointments a ON a.patient_id = p.id AND a.doctor_id = ?
		WHERE p.doctor = ? OR a.id IS NOT NULL
		GROUP BY p.id
		ORDER BY p.last_name, p.first_name`, doctorID, doctorID)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
