package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/hmsdev/hospital-backend/internal/clinical/models"
	"github.com/hmsdev/hospital-backend/internal/clinical/services"
	"github.com/hmsdev/hospital-backend/internal/common/middlewares"
)

type LabTestController struct {
	Service *services.LabTestService
}

func NewLabTestController(service *services.LabTestService) *LabTestController {
	return &LabTestController{Service: service}
}

// Order creates a lab test in 'ordered' status. No charge yet.
func (lc *LabTestController) Order(c echo.Context) error {
	var req models.OrderLabTestRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": "Invalid request payload",
			"data":    nil,
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": err.Error(),
			"data":    nil,
		})
	}
	if claims := middlewares.ClaimsFromContext(c); claims != nil && claims.Role == "doctor" {
		req.DoctorID = &claims.DoctorID
	}

	labTestID, err := lc.Service.OrderLabTest(req)
	if err != nil {
		if errors.Is(err, services.ErrPatientNotFound) {
			return c.JSON(http.StatusNotFound, map[string]interface{}{
				"status":  http.StatusNotFound,
				"message": "Patient not found",
				"data":    nil,
			})
		}
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  http.StatusInternalServerError,
			"message": "Failed to order lab test: " + err.Error(),
			"data":    nil,
		})
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"status":  http.StatusCreated,
		"message": "Lab test ordered successfully",
		"data":    map[string]interface{}{"lab_test_id": labTestID},
	})
}

// UpdateStatus moves a lab test through its lifecycle. Completing a test
// appends the charge for it.
func (lc *LabTestController) UpdateStatus(c echo.Context) error {
	labTestID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": "Invalid lab test id",
			"data":    nil,
		})
	}
	var req models.UpdateLabTestStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": "Invalid request payload",
			"data":    nil,
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": err.Error(),
			"data":    nil,
		})
	}

	charge, err := lc.Service.UpdateStatus(labTestID, req.Status, req.Result)
	if err != nil {
		if errors.Is(err, services.ErrLabTestNotFound) {
			return c.JSON(http.StatusNotFound, map[string]interface{}{
				"status":  http.StatusNotFound,
				"message": "Lab test not found",
				"data":    nil,
			})
		}
		if strings.Contains(err.Error(), "invalid lab test status") {
			return c.JSON(http.StatusBadRequest, map[string]interface{}{
				"status":  http.StatusBadRequest,
				"message": err.Error(),
				"data":    nil,
			})
		}
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  http.StatusInternalServerError,
			"message": "Failed to update lab test: " + err.Error(),
			"data":    nil,
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  http.StatusOK,
		"message": "Lab test updated successfully",
		"data":    map[string]interface{}{"charge": charge},
	})
}

// ListForPatient returns a patient's lab tests.
func (lc *LabTestController) ListForPatient(c echo.Context) error {
	patientID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": "Invalid patient id",
			"data":    nil,
		})
	}
	tests, err := lc.Service.ListForPatient(patientID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  http.StatusInternalServerError,
			"message": "Failed to retrieve lab tests: " + err.Error(),
			"data":    nil,
		})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  http.StatusOK,
		"message": "Lab tests retrieved successfully",
		"data":    tests,
	})
}
