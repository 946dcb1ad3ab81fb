package models

// Bill is one invoice for a patient. At most one open bill (paid = 0) may
// exist per patient at any time; total_amount only ever grows, by the amount
// of each appended item.
type Bill struct {
	ID          int64   `db:"id" json:"id"`
	PatientID   int64   `db:"patient_id" json:"patient_id"`
	TotalAmount float64 `db:"total_amount" json:"total_amount"`
	Paid        bool    `db:"paid" json:"paid"`
	CreatedAt   string  `db:"created_at" json:"created_at"`
	PaidAt      *string `db:"paid_at" json:"paid_at"`
}

// BillItem is one charge line. The amount is fixed at creation; only the
// payment state ever changes afterwards.
type BillItem struct {
	ID          int64   `db:"id" json:"id"`
	BillID      int64   `db:"bill_id" json:"bill_id"`
	ItemType    string  `db:"item_type" json:"item_type"`
	ItemRef     *int64  `db:"item_ref" json:"item_ref"`
	Description *string `db:"description" json:"description"`
	Amount      float64 `db:"amount" json:"amount"`
	Paid        bool    `db:"paid" json:"paid"`
	PaidAt      *string `db:"paid_at" json:"paid_at"`
	CreatedAt   string  `db:"created_at" json:"created_at"`
}

// BillSummary is the bills list view: bill, patient name and the
// concatenated treatment descriptions of its items.
type BillSummary struct {
	ID          int64   `db:"id" json:"id"`
	PatientID   int64   `db:"patient_id" json:"patient_id"`
	PatientName string  `db:"patient_name" json:"patient_name"`
	TotalAmount float64 `db:"total_amount" json:"total_amount"`
	Paid        bool    `db:"paid" json:"paid"`
	PaidAt      *string `db:"paid_at" json:"paid_at"`
	CreatedAt   string  `db:"created_at" json:"created_at"`
	Treatments  string  `db:"treatments" json:"treatments"`
}

// BillDetail is a single bill with its full item list.
type BillDetail struct {
	Bill        Bill       `json:"bill"`
	PatientName string     `json:"patient_name"`
	Items       []BillItem `json:"items"`
}

// RevenueSummary partitions billed totals by settlement state.
type RevenueSummary struct {
	PaidAmount    float64 `db:"paid_amount" json:"paid_amount"`
	PendingAmount float64 `db:"pending_amount" json:"pending_amount"`
	TotalAmount   float64 `db:"total_amount" json:"total_amount"`
}

// TotalDrift reports a bill whose incremental total no longer matches the
// sum of its items.
type TotalDrift struct {
	BillID      int64   `db:"bill_id" json:"bill_id"`
	TotalAmount float64 `db:"total_amount" json:"total_amount"`
	ItemSum     float64 `db:"item_sum" json:"item_sum"`
}

// PaidBillDivergence reports a bill marked paid directly while items on it
// remain unpaid.
type PaidBillDivergence struct {
	BillID      int64 `db:"bill_id" json:"bill_id"`
	UnpaidItems int64 `db:"unpaid_items" json:"unpaid_items"`
}

type PayItemsRequest struct {
	ItemIDs       []int64 `json:"item_ids"`
	PaymentMethod string  `json:"payment_method"`
}

// PaymentResult reports one reconciliation batch.
type PaymentResult struct {
	ReceiptRef   string  `json:"receipt_ref,omitempty"`
	ItemsPaid    int     `json:"items_paid"`
	AmountPaid   float64 `json:"amount_paid"`
	SettledBills []int64 `json:"settled_bills"`
}
