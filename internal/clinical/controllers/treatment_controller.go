package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/hmsdev/hospital-backend/internal/clinical/models"
	"github.com/hmsdev/hospital-backend/internal/clinical/services"
	"github.com/hmsdev/hospital-backend/internal/common/middlewares"
)

type TreatmentController struct {
	Service *services.TreatmentService
}

func NewTreatmentController(service *services.TreatmentService) *TreatmentController {
	return &TreatmentController{Service: service}
}

// Record logs a treatment for a patient and appends the matching charge.
// When a doctor is logged in, the treatment is attributed to them.
func (tc *TreatmentController) Record(c echo.Context) error {
	var req models.RecordTreatmentRequest
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

	treatmentID, charge, err := tc.Service.RecordTreatment(req)
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
			"message": "Failed to record treatment: " + err.Error(),
			"data":    nil,
		})
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"status":  http.StatusCreated,
		"message": "Treatment recorded successfully",
		"data": map[string]interface{}{
			"treatment_id": treatmentID,
			"charge":       charge,
		},
	})
}

// ListForPatient returns the treatment history of one patient.
func (tc *TreatmentController) ListForPatient(c echo.Context) error {
	patientID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": "Invalid patient id",
			"data":    nil,
		})
	}
	treatments, err := tc.Service.ListForPatient(patientID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  http.StatusInternalServerError,
			"message": "Failed to retrieve treatments: " + err.Error(),
			"data":    nil,
		})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  http.StatusOK,
		"message": "Treatments retrieved successfully",
		"data":    treatments,
	})
}

// Logs returns the treatments recorded by the logged-in doctor.
func (tc *TreatmentController) Logs(c echo.Context) error {
	claims := middlewares.ClaimsFromContext(c)
	if claims == nil || claims.Role != "doctor" {
		return c.JSON(http.StatusForbidden, map[string]interface{}{
			"status":  http.StatusForbidden,
			"message": "Doctor login required",
			"data":    nil,
		})
	}
	treatments, err := tc.Service.ListForDoctor(claims.DoctorID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  http.StatusInternalServerError,
			"message": "Failed to retrieve treatment logs: " + err.Error(),
			"data":    nil,
		})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  http.StatusOK,
		"message": "Treatment logs retrieved successfully",
		"data":    treatments,
	})
}
