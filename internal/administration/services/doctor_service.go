package services

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"github.com/hmsdev/hospital-backend/internal/administration/models"
)

var ErrDoctorNotFound = errors.New("doctor not found")

type DoctorService struct {
	DB *sqlx.DB
}

func NewDoctorService(db *sqlx.DB) *DoctorService {
	return &DoctorService{DB: db}
}

// AddDoctor inserts a doctor with a bcrypt-hashed credential.
func (s *DoctorService) AddDoctor(req models.AddDoctorRequest) (int64, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return 0, err
	}
	res, err := s.DB.Exec(`
		INSERT INTO doctors (f_name, l_name, specialization, contact, department, availability, password)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		req.FirstName, req.LastName, req.Specialization, req.Contact, req.Department, req.Availability, string(hash),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *DoctorService) ListDoctors() ([]models.Doctor, error) {
	var doctors []models.Doctor
	err := s.DB.Select(&doctors, `
		SELECT doctor_id, f_name, l_name, specialization, contact, department, availability, password, created_at
		FROM doctors ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	return doctors, nil
}

func (s *DoctorService) GetDoctor(id int64) (*models.Doctor, error) {
	var d models.Doctor
	err := s.DB.Get(&d, `
		SELECT doctor_id, f_name, l_name, specialization, contact, department, availability, password, created_at
		FROM doctors WHERE doctor_id = ?`, id)
	if err == sql.ErrNoRows {
		return nil, ErrDoctorNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// UpdateDoctor updates roster fields; the credential changes only when a new
// password is supplied.
func (s *DoctorService) UpdateDoctor(id int64, req models.UpdateDoctorRequest) error {
	var res sql.Result
	var err error
	if req.Password != "" {
		var hash []byte
		hash, err = bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		res, err = s.DB.Exec(`
			UPDATE doctors
			SET f_name = ?, l_name = ?, specialization = ?, contact = ?, department = ?, availability = ?, password = ?
			WHERE doctor_id = ?`,
			req.FirstName, req.LastName, req.Specialization, req.Contact, req.Department, req.Availability, string(hash), id,
		)
	} else {
		res, err = s.DB.Exec(`
			UPDATE doctors
			SET f_name = ?, l_name = ?, specialization = ?, contact = ?, department = ?, availability = ?
			WHERE doctor_id = ?`,
			req.FirstName, req.LastName, req.Specialization, req.Contact, req.Department, req.Availability, id,
		)
	}
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrDoctorNotFound
	}
	return nil
}

// DeleteDoctor removes the doctor; patients, appointments, treatments,
// prescriptions and lab tests keep their rows with the reference set NULL.
func (s *DoctorService) DeleteDoctor(id int64) error {
	res, err := s.DB.Exec(`DELETE FROM doctors WHERE doctor_id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrDoctorNotFound
	}
	return nil
}
