package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/hmsdev/hospital-backend/internal/billing/services"
)

// BillingController serves the read side: bill lists, detail, unpaid items,
// revenue and the audit views.
type BillingController struct {
	Service *services.BillingQueryService
}

func NewBillingController(service *services.BillingQueryService) *BillingController {
	return &BillingController{Service: service}
}

func (bc *BillingController) ListBills(c echo.Context) error {
	bills, err := bc.Service.ListBills()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  http.StatusInternalServerError,
			"message": "Failed to retrieve bills: " + err.Error(),
			"data":    nil,
		})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  http.StatusOK,
		"message": "Bills retrieved successfully",
		"data":    bills,
	})
}

func (bc *BillingController) BillDetail(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": "Invalid bill id",
			"data":    nil,
		})
	}
	detail, err := bc.Service.BillDetail(id)
	if err != nil {
		if errors.Is(err, services.ErrBillNotFound) {
			return c.JSON(http.StatusNotFound, map[string]interface{}{
				"status":  http.StatusNotFound,
				"message": "Bill not found",
				"data":    nil,
			})
		}
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  http.StatusInternalServerError,
			"message": "Failed to retrieve bill: " + err.Error(),
			"data":    nil,
		})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  http.StatusOK,
		"message": "Bill retrieved successfully",
		"data":    detail,
	})
}

// UnpaidItems expects ?bill_ids=1,2,3 and returns the outstanding items per
// bill. Malformed ids are skipped rather than failing the request.
func (bc *BillingController) UnpaidItems(c echo.Context) error {
	raw := c.QueryParam("bill_ids")
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if id, err := strconv.ParseInt(part, 10, 64); err == nil {
			ids = append(ids, id)
		}
	}

	items, err := bc.Service.UnpaidItemsForBills(ids)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  http.StatusInternalServerError,
			"message": "Failed to retrieve unpaid items: " + err.Error(),
			"data":    nil,
		})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  http.StatusOK,
		"message": "Unpaid items retrieved successfully",
		"data":    items,
	})
}

func (bc *BillingController) RevenueSummary(c echo.Context) error {
	summary, err := bc.Service.RevenueSummary()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  http.StatusInternalServerError,
			"message": "Failed to retrieve revenue summary: " + err.Error(),
			"data":    nil,
		})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  http.StatusOK,
		"message": "Revenue summary retrieved successfully",
		"data":    summary,
	})
}

// Audit exposes both consistency checks: total-vs-items drift and unpaid
// items on directly settled bills.
func (bc *BillingController) Audit(c echo.Context) error {
	drift, err := bc.Service.AuditBillTotals()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  http.StatusInternalServerError,
			"message": "Failed to audit bill totals: " + err.Error(),
			"data":    nil,
		})
	}
	divergence, err := bc.Service.UnsettledItemsOnPaidBills()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  http.StatusInternalServerError,
			"message": "Failed to audit paid bills: " + err.Error(),
			"data":    nil,
		})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  http.StatusOK,
		"message": "Audit completed",
		"data": map[string]interface{}{
			"total_drift":          drift,
			"paid_bill_divergence": divergence,
		},
	})
}
