package models

// Prescription groups prescription items for one patient. The prescription
// itself is free; each item on it is a chargeable event.
type Prescription struct {
	ID          int64   `db:"id" json:"id"`
	PatientID   int64   `db:"patient_id" json:"patient_id"`
	DoctorID    *int64  `db:"doctor_id" json:"doctor_id"`
	TreatmentID *int64  `db:"treatment_id" json:"treatment_id"`
	CreatedAt   string  `db:"created_at" json:"created_at"`
	Notes       *string `db:"notes" json:"notes"`

	Medications *string `db:"medications" json:"medications,omitempty"`
	Dosages     *string `db:"dosages" json:"dosages,omitempty"`
}

type PrescriptionItem struct {
	ID                    int64   `db:"id" json:"id"`
	PrescriptionID        int64   `db:"prescription_id" json:"prescription_id"`
	MedicationName        *string `db:"medication_name" json:"medication_name"`
	MedicationDescription *string `db:"medication_description" json:"medication_description"`
	Dosage                *string `db:"dosage" json:"dosage"`
	Quantity              int64   `db:"quantity" json:"quantity"`
	UnitPrice             float64 `db:"unit_price" json:"unit_price"`
	Fulfilled             bool    `db:"fulfilled" json:"fulfilled"`
	FulfilledAt           *string `db:"fulfilled_at" json:"fulfilled_at"`
}

type AddPrescriptionItemRequest struct {
	MedicationName        string  `json:"medication_name" validate:"required"`
	MedicationDescription string  `json:"medication_description"`
	Dosage                string  `json:"dosage"`
	Quantity              int64   `json:"quantity"`
	UnitPrice             float64 `json:"unit_price"`
}

// PrescribeRequest is the combined doctor workflow: a treatment note, the
// prescription and its first item created together.
type PrescribeRequest struct {
	PatientID             int64   `json:"patient_id" validate:"required"`
	Description           string  `json:"description"`
	TreatmentCost         float64 `json:"treatment_cost"`
	Notes                 string  `json:"notes"`
	MedicationName        string  `json:"medication_name" validate:"required"`
	MedicationDescription string  `json:"medication_description"`
	Dosage                string  `json:"dosage"`
	Quantity              int64   `json:"quantity"`
	UnitPrice             float64 `json:"unit_price"`
}
