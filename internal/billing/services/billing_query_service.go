package services

import (
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/hmsdev/hospital-backend/internal/billing/models"
)

// BillingQueryService is the read side of billing: list views, revenue
// aggregation and the drift audits. It never mutates the ledger.
type BillingQueryService struct {
	DB *sqlx.DB
}

func NewBillingQueryService(db *sqlx.DB) *BillingQueryService {
	return &BillingQueryService{DB: db}
}

// ListBills returns every bill, newest first, with the patient name and the
// concatenated descriptions of its treatment-type items. Bills without items
// appear with an empty treatments string.
func (s *BillingQueryService) ListBills() ([]models.BillSummary, error) {
	var bills []models.BillSummary
	err := s.DB.Select(&bills, `
		SELECT b.id,
		       b.patient_id,
		       p.first_name || ' ' || p.last_name AS patient_name,
		       b.total_amount,
		       b.paid,
		       b.paid_at,
		       b.created_at,
		       COALESCE(GROUP_CONCAT(CASE WHEN bi.item_type = 'treatment' THEN bi.description END, '; '), '') AS treatments
		FROM bills b
		JOIN patients p ON p.id = b.patient_id
		LEFT JOIN bill_items bi ON bi.bill_id = b.id
		GROUP BY b.id
		ORDER BY b.created_at DESC, b.id DESC`)
	if err != nil {
		return nil, err
	}
	return bills, nil
}

// BillDetail returns one bill with its patient name and full item list.
func (s *BillingQueryService) BillDetail(billID int64) (*models.BillDetail, error) {
	var detail models.BillDetail
	err := s.DB.Get(&detail.Bill, `
		SELECT id, patient_id, total_amount, paid, created_at, paid_at
		FROM bills WHERE id = ?`, billID)
	if err == sql.ErrNoRows {
		return nil, ErrBillNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := s.DB.Get(&detail.PatientName, `
		SELECT first_name || ' ' || last_name FROM patients WHERE id = ?`,
		detail.Bill.PatientID); err != nil {
		return nil, err
	}

	if err := s.DB.Select(&detail.Items, `
		SELECT id, bill_id, item_type, item_ref, description, amount, paid, paid_at, created_at
		FROM bill_items WHERE bill_id = ?
		ORDER BY created_at ASC, id ASC`, billID); err != nil {
		return nil, err
	}
	return &detail, nil
}

// UnpaidItemsForBills returns the still-unpaid items of each requested bill.
// Bills with nothing outstanding are simply absent from the map.
func (s *BillingQueryService) UnpaidItemsForBills(billIDs []int64) (map[int64][]models.BillItem, error) {
	out := map[int64][]models.BillItem{}
	if len(billIDs) == 0 {
		return out, nil
	}

	query, args, err := sqlx.In(`
		SELECT id, bill_id, item_type, item_ref, description, amount, paid, paid_at, created_at
		FROM bill_items
		WHERE bill_id IN (?) AND (paid IS NULL OR paid = 0)
		ORDER BY created_at DESC, id DESC`, billIDs)
	if err != nil {
		return nil, err
	}

	var items []models.BillItem
	if err := s.DB.Select(&items, s.DB.Rebind(query), args...); err != nil {
		return nil, err
	}
	for _, it := range items {
		out[it.BillID] = append(out[it.BillID], it)
	}
	return out, nil
}

// RevenueSummary partitions the sum of bill totals by settlement state.
func (s *BillingQueryService) RevenueSummary() (*models.RevenueSummary, error) {
	var rs models.RevenueSummary
	err := s.DB.Get(&rs, `
		SELECT
			COALESCE(SUM(CASE WHEN paid = 1 THEN total_amount ELSE 0 END), 0) AS paid_amount,
			COALESCE(SUM(CASE WHEN paid = 0 THEN total_amount ELSE 0 END), 0) AS pending_amount,
			COALESCE(SUM(total_amount), 0) AS total_amount
		FROM bills`)
	if err != nil {
		return nil, err
	}
	return &rs, nil
}

// AuditBillTotals reports bills whose incremental total drifted from the sum
// of their items. Under normal operation the result is empty; the query only
// detects drift, it never repairs it.
func (s *BillingQueryService) AuditBillTotals() ([]models.TotalDrift, error) {
	var drift []models.TotalDrift
	err := s.DB.Select(&drift, `
		SELECT b.id AS bill_id,
		       b.total_amount,
		       COALESCE(SUM(bi.amount), 0) AS item_sum
		FROM bills b
		LEFT JOIN bill_items bi ON bi.bill_id = b.id
		GROUP BY b.id
		HAVING ABS(b.total_amount - COALESCE(SUM(bi.amount), 0)) > 0.005`)
	if err != nil {
		return nil, err
	}
	return drift, nil
}

// UnsettledItemsOnPaidBills reports the accepted divergence produced by the
// direct mark-paid path: bills settled at the bill level while items on them
// remain unpaid.
func (s *BillingQueryService) UnsettledItemsOnPaidBills() ([]models.PaidBillDivergence, error) {
	var rows []models.PaidBillDivergence
	err := s.DB.Select(&rows, `
		SELECT b.id AS bill_id,
		       COUNT(bi.id) AS unpaid_items
		FROM bills b
		JOIN bill_items bi ON bi.bill_id = b.id AND (bi.paid IS NULL OR bi.paid = 0)
		WHERE b.paid = 1
		GROUP BY b.id`)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
