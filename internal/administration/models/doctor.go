package models

// Doctor is one row of the doctor roster. Password holds a bcrypt hash,
// never the plaintext credential.
type Doctor struct {
	ID             int64   `db:"doctor_id" json:"doctor_id"`
	FirstName      string  `db:"f_name" json:"f_name"`
	LastName       string  `db:"l_name" json:"l_name"`
	Specialization *string `db:"specialization" json:"specialization"`
	Contact        *string `db:"contact" json:"contact"`
	Department     *string `db:"department" json:"department"`
	Availability   *string `db:"availability" json:"availability"`
	Password       *string `db:"password" json:"-"`
	CreatedAt      string  `db:"created_at" json:"created_at"`
}

type AddDoctorRequest struct {
	FirstName      string  `json:"f_name" validate:"required"`
	LastName       string  `json:"l_name" validate:"required"`
	Specialization *string `json:"specialization"`
	Contact        *string `json:"contact"`
	Department     *string `json:"department"`
	Availability   *string `json:"availability"`
	Password       string  `json:"password" validate:"required,min=6"`
}

type UpdateDoctorRequest struct {
	FirstName      string  `json:"f_name" validate:"required"`
	LastName       string  `json:"l_name" validate:"required"`
	Specialization *string `json:"specialization"`
	Contact        *string `json:"contact"`
	Department     *string `json:"department"`
	Availability   *string `json:"availability"`
	// Optional; when empty the stored credential is kept.
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}
