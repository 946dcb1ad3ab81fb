package models

// Lab test statuses. Only the transition into StatusCompleted charges the
// patient.
const (
	LabStatusOrdered    = "ordered"
	LabStatusInProgress = "in_progress"
	LabStatusCompleted  = "completed"
	LabStatusCancelled  = "cancelled"
)

type LabTest struct {
	ID          int64   `db:"id" json:"id"`
	PatientID   int64   `db:"patient_id" json:"patient_id"`
	DoctorID    *int64  `db:"doctor_id" json:"doctor_id"`
	TestName    string  `db:"test_name" json:"test_name"`
	RequestedAt string  `db:"requested_at" json:"requested_at"`
	PerformedAt *string `db:"performed_at" json:"performed_at"`
	Result      *string `db:"result" json:"result"`
	Status      string  `db:"status" json:"status"`
	Cost        float64 `db:"cost" json:"cost"`
	Notes       *string `db:"notes" json:"notes"`
}

type OrderLabTestRequest struct {
	PatientID int64   `json:"patient_id" validate:"required"`
	DoctorID  *int64  `json:"doctor_id"`
	TestName  string  `json:"test_name" validate:"required"`
	Cost      float64 `json:"cost"`
	Notes     *string `json:"notes"`
}

type UpdateLabTestStatusRequest struct {
	Status string  `json:"status" validate:"required,oneof=ordered in_progress completed cancelled"`
	Result *string `json:"result"`
}
