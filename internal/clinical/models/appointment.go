package models

// Appointment statuses.
const (
	AppointmentBooked    = "booked"
	AppointmentConfirmed = "confirmed"
	AppointmentCancelled = "cancelled"
	AppointmentCompleted = "completed"
)

type Appointment struct {
	ID                  int64   `db:"id" json:"id"`
	PatientID           int64   `db:"patient_id" json:"patient_id"`
	DoctorID            *int64  `db:"doctor_id" json:"doctor_id"`
	AppointmentDatetime string  `db:"appointment_datetime" json:"appointment_datetime"`
	Status              string  `db:"status" json:"status"`
	Notes               *string `db:"notes" json:"notes"`
	Fee                 float64 `db:"fee" json:"fee"`
	Actions             *string `db:"actions" json:"actions"`

	PatientName *string `db:"patient_name" json:"patient_name,omitempty"`
	DoctorName  *string `db:"doctor_name" json:"doctor_name,omitempty"`
}

type BookAppointmentRequest struct {
	PatientID           int64   `json:"patient_id" validate:"required"`
	DoctorID            *int64  `json:"doctor_id"`
	AppointmentDatetime string  `json:"appointment_datetime" validate:"required"`
	Notes               *string `json:"notes"`
	Fee                 float64 `json:"fee"`
}

// DoctorPatient is one row of a doctor's patient list: primary patients and
// patients sharing an appointment with the doctor, with a visit summary.
// Primary patients appear even when they have no appointments yet.
type DoctorPatient struct {
	PatientID        int64   `db:"patient_id" json:"patient_id"`
	PatientName      string  `db:"patient_name" json:"patient_name"`
	Phone            *string `db:"phone" json:"phone"`
	Department       *string `db:"department" json:"department"`
	LastAppointment  *string `db:"last_appointment" json:"last_appointment"`
	AppointmentCount int64   `db:"appointment_count" json:"appointment_count"`
}

type UpdateAppointmentRequest struct {
	DoctorID            *int64  `json:"doctor_id"`
	AppointmentDatetime string  `json:"appointment_datetime"`
	Status              string  `json:"status" validate:"omitempty,oneof=booked confirmed cancelled completed"`
	Actions             *string `json:"actions"`
}
