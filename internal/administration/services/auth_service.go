package services

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"github.com/hmsdev/hospital-backend/config"
	"github.com/hmsdev/hospital-backend/internal/administration/models"
	"github.com/hmsdev/hospital-backend/pkg/utils"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type AuthService struct {
	DB  *sqlx.DB
	Cfg *config.Config
}

func NewAuthService(db *sqlx.DB, cfg *config.Config) *AuthService {
	return &AuthService{DB: db, Cfg: cfg}
}

// AuthenticateAdmin checks the configured admin account and returns a JWT.
// The admin credential is kept as a bcrypt hash in configuration; there is
// no plaintext comparison anywhere.
func (s *AuthService) AuthenticateAdmin(username, password string) (string, error) {
	if s.Cfg.AdminPasswordHash == "" || username != s.Cfg.AdminUsername {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.Cfg.AdminPasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}
	return utils.GenerateJWTToken("admin", username, 0, time.Now().Add(12*time.Hour))
}

// AuthenticateDoctor matches the login name against first+last name (no
// space) and the stored bcrypt hash, and returns a JWT carrying the doctor
// id.
func (s *AuthService) AuthenticateDoctor(username, password string) (string, *models.Doctor, error) {
	var d models.Doctor
	err := s.DB.Get(&d, `
		SELECT doctor_id, f_name, l_name, specialization, contact, department, availability, password, created_at
		FROM doctors WHERE (f_name || l_name) = ?`, username)
	if err == sql.ErrNoRows {
		return "", nil, ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, err
	}
	if d.Password == nil {
		return "", nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*d.Password), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	name := d.FirstName + " " + d.LastName
	token, err := utils.GenerateJWTToken("doctor", name, d.ID, time.Now().Add(12*time.Hour))
	if err != nil {
		return "", nil, err
	}
	return token, &d, nil
}
