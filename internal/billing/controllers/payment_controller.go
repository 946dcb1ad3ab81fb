package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/hmsdev/hospital-backend/internal/billing/models"
	"github.com/hmsdev/hospital-backend/internal/billing/services"
)

type PaymentController struct {
	Service *services.PaymentService
}

func NewPaymentController(service *services.PaymentService) *PaymentController {
	return &PaymentController{Service: service}
}

// ProcessPayment settles the selected bill items. An empty or entirely
// invalid selection is reported as "nothing to process", not an error.
func (pc *PaymentController) ProcessPayment(c echo.Context) error {
	var req models.PayItemsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": "Invalid request payload",
			"data":    nil,
		})
	}

	result, err := pc.Service.PayItems(req.ItemIDs, req.PaymentMethod)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  http.StatusInternalServerError,
			"message": "Failed to process payment: " + err.Error(),
			"data":    nil,
		})
	}
	if result.ItemsPaid == 0 {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"status":  http.StatusOK,
			"message": "No items to process",
			"data":    result,
		})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  http.StatusOK,
		"message": "Payment processed successfully",
		"data":    result,
	})
}

// MarkBillPaid settles a whole bill regardless of item state.
func (pc *PaymentController) MarkBillPaid(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": "Invalid bill id",
			"data":    nil,
		})
	}

	if err := pc.Service.MarkBillPaid(id); err != nil {
		switch {
		case errors.Is(err, services.ErrBillNotFound):
			return c.JSON(http.StatusNotFound, map[string]interface{}{
				"status":  http.StatusNotFound,
				"message": "Bill not found",
				"data":    nil,
			})
		case errors.Is(err, services.ErrBillAlreadyPaid):
			return c.JSON(http.StatusBadRequest, map[string]interface{}{
				"status":  http.StatusBadRequest,
				"message": "Bill already paid",
				"data":    nil,
			})
		default:
			return c.JSON(http.StatusInternalServerError, map[string]interface{}{
				"status":  http.StatusInternalServerError,
				"message": "Failed to mark bill paid: " + err.Error(),
				"data":    nil,
			})
		}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  http.StatusOK,
		"message": "Bill marked as paid",
		"data":    nil,
	})
}
