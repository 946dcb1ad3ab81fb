package models

// Treatment is a clinical record and a chargeable event: recording one
// always produces exactly one bill item for its cost.
type Treatment struct {
	ID             int64   `db:"id" json:"id"`
	PatientID      int64   `db:"patient_id" json:"patient_id"`
	DoctorID       *int64  `db:"doctor_id" json:"doctor_id"`
	Description    *string `db:"description" json:"description"`
	StartDate      string  `db:"start_date" json:"start_date"`
	EndDate        *string `db:"end_date" json:"end_date"`
	Cost           float64 `db:"cost" json:"cost"`
	Notes          *string `db:"notes" json:"notes"`
	PrescriptionID *int64  `db:"prescription_id" json:"prescription_id"`

	PatientName *string `db:"patient_name" json:"patient_name,omitempty"`
}

type RecordTreatmentRequest struct {
	PatientID   int64   `json:"patient_id" validate:"required"`
	DoctorID    *int64  `json:"doctor_id"`
	Description string  `json:"description"`
	Cost        float64 `json:"cost"`
	Notes       *string `json:"notes"`
}
