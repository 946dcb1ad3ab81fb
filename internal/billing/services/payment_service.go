package services

import (
	"database/sql"
	"errors"
	"sort"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/hmsdev/hospital-backend/internal/billing/models"
	"github.com/hmsdev/hospital-backend/pkg/storage/sqlitedb"
	"github.com/hmsdev/hospital-backend/pkg/utils"
	"github.com/hmsdev/hospital-backend/ws"
)

var (
	ErrBillNotFound    = errors.New("bill not found")
	ErrBillAlreadyPaid = errors.New("bill already paid")
)

// PaymentService transitions bill items and, transitively, bills from
// unpaid to paid. There is no reverse transition.
type PaymentService struct {
	DB *sqlx.DB
}

func NewPaymentService(db *sqlx.DB) *PaymentService {
	return &PaymentService{DB: db}
}

// PayItems settles the given bill items and rolls item-level payment state
// up to the bill. The whole batch is one transaction: either every valid
// item transitions or none do. Unknown ids and already-paid items are
// skipped, never an error, so the call is idempotent and safe to retry.
//
// A bill is settled only when its live unpaid-item count reaches zero;
// settlement never compares amounts.
func (s *PaymentService) PayItems(itemIDs []int64, method string) (*models.PaymentResult, error) {
	ids := dedupeIDs(itemIDs)
	result := &models.PaymentResult{SettledBills: []int64{}}
	if len(ids) == 0 {
		// Benign no-op: "nothing to process" is information, not failure.
		return result, nil
	}
	if method == "" {
		method = "unknown"
	}

	err := sqlitedb.WithBusyRetry(func() error {
		tx, err := s.DB.Beginx()
		if err != nil {
			return err
		}
		defer tx.Rollback()

		now := utils.NowStamp()
		paid := 0
		var amountPaid float64
		touched := map[int64]bool{}

		for _, id := range ids {
			var item struct {
				BillID int64   `db:"bill_id"`
				Amount float64 `db:"amount"`
			}
			err := tx.Get(&item, `SELECT bill_id, amount FROM bill_items WHERE id = ?`, id)
			if err == sql.ErrNoRows {
				continue
			}
			if err != nil {
				return err
			}

			res, err := tx.Exec(`
				UPDATE bill_items SET paid = 1, paid_at = ?
				WHERE id = ? AND (paid IS NULL OR paid = 0)`, now, id)
			if err != nil {
				return err
			}
			n, err := res.RowsAffected()
			if err != nil {
				return err
			}
			if n == 0 {
				// Already paid; paid_at stays at its first assignment.
				continue
			}
			paid++
			amountPaid += item.Amount
			touched[item.BillID] = true
		}

		var settled []int64
		for billID := range touched {
			var unpaid int64
			err := tx.Get(&unpaid, `
				SELECT COUNT(*) FROM bill_items
				WHERE bill_id = ? AND (paid IS NULL OR paid = 0)`, billID)
			if err != nil {
				return err
			}
			if unpaid > 0 {
				continue
			}
			if _, err := tx.Exec(`
				UPDATE bills SET paid = 1, paid_at = ?
				WHERE id = ? AND paid = 0`, now, billID); err != nil {
				return err
			}
			settled = append(settled, billID)
		}
		sort.Slice(settled, func(i, j int) bool { return settled[i] < settled[j] })

		receipt := ""
		if paid > 0 {
			receipt = uuid.NewString()
			if _, err := tx.Exec(`
				INSERT INTO payments (receipt_ref, method, amount, item_count, created_at)
				VALUES (?, ?, ?, ?, ?)`, receipt, method, amountPaid, paid, now); err != nil {
				return err
			}
		}

		if err := tx.Commit(); err != nil {
			return err
		}

		result.ReceiptRef = receipt
		result.ItemsPaid = paid
		result.AmountPaid = amountPaid
		if settled != nil {
			result.SettledBills = settled
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.ItemsPaid > 0 {
		log.Info().
			Str("receipt_ref", result.ReceiptRef).
			Str("method", method).
			Int("items_paid", result.ItemsPaid).
			Float64("amount", result.AmountPaid).
			Ints64("settled_bills", result.SettledBills).
			Msg("payment processed")
		ws.HubInstance.BroadcastEvent(ws.EventPaymentProcessed, result)
		for _, billID := range result.SettledBills {
			ws.HubInstance.BroadcastEvent(ws.EventBillSettled, map[string]interface{}{"bill_id": billID})
		}
	}
	return result, nil
}

// MarkBillPaid is the administrative override: it settles the whole bill
// regardless of item state and does not touch the items. The resulting
// bill-vs-items divergence is an accepted inconsistency, visible through
// BillingQueryService.UnsettledItemsOnPaidBills.
func (s *PaymentService) MarkBillPaid(billID int64) error {
	err := sqlitedb.WithBusyRetry(func() error {
		tx, err := s.DB.Beginx()
		if err != nil {
			return err
		}
		defer tx.Rollback()

		var paid bool
		err = tx.Get(&paid, `SELECT paid FROM bills WHERE id = ?`, billID)
		if err == sql.ErrNoRows {
			return ErrBillNotFound
		}
		if err != nil {
			return err
		}
		if paid {
			return ErrBillAlreadyPaid
		}
		if _, err := tx.Exec(`UPDATE bills SET paid = 1, paid_at = ? WHERE id = ?`, utils.NowStamp(), billID); err != nil {
			return err
		}
		return tx.Commit()
	})
	if err != nil {
		return err
	}

	log.Info().Int64("bill_id", billID).Msg("bill marked paid directly")
	ws.HubInstance.BroadcastEvent(ws.EventBillSettled, map[string]interface{}{"bill_id": billID})
	return nil
}

func dedupeIDs(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id <= 0 || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
