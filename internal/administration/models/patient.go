package models

// Patient is one row of the patient registry. The primary doctor reference
// is nullable and set to NULL when the doctor is removed.
type Patient struct {
	ID         int64   `db:"id" json:"id"`
	FirstName  string  `db:"first_name" json:"first_name"`
	LastName   string  `db:"last_name" json:"last_name"`
	DOB        *string `db:"dob" json:"dob"`
	Phone      *string `db:"phone" json:"phone"`
	Address    *string `db:"address" json:"address"`
	Doctor     *int64  `db:"doctor" json:"doctor"`
	Department *string `db:"department" json:"department"`
	CreatedAt  string  `db:"created_at" json:"created_at"`

	// Filled by the list join; empty when no primary doctor is assigned.
	DoctorName *string `db:"doctor_name" json:"doctor_name,omitempty"`
}

type RegisterPatientRequest struct {
	FirstName  string  `json:"first_name" validate:"required"`
	LastName   string  `json:"last_name" validate:"required"`
	DOB        *string `json:"dob"`
	Phone      *string `json:"phone"`
	Address    *string `json:"address"`
	Doctor     *int64  `json:"doctor"`
	Department *string `json:"department"`
}

type UpdatePatientRequest struct {
	FirstName  string  `json:"first_name" validate:"required"`
	LastName   string  `json:"last_name" validate:"required"`
	DOB        *string `json:"dob"`
	Phone      *string `json:"phone"`
	Address    *string `json:"address"`
	Doctor     *int64  `json:"doctor"`
	Department *string `json:"department"`
}
