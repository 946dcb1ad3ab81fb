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

type PrescriptionController struct {
	Service *services.PrescriptionService
}

func NewPrescriptionController(service *services.PrescriptionService) *PrescriptionController {
	return &PrescriptionController{Service: service}
}

// Prescribe handles the consultation flow: treatment note + prescription +
// first medication item, created and charged together.
func (pc *PrescriptionController) Prescribe(c echo.Context) error {
	claims := middlewares.ClaimsFromContext(c)
	if claims == nil || claims.Role != "doctor" {
		return c.JSON(http.StatusForbidden, map[string]interface{}{
			"status":  http.StatusForbidden,
			"message": "Doctor login required",
			"data":    nil,
		})
	}

	var req models.PrescribeRequest
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

	treatmentID, prescriptionID, err := pc.Service.Prescribe(claims.DoctorID, req)
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
			"message": "Failed to create prescription: " + err.Error(),
			"data":    nil,
		})
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"status":  http.StatusCreated,
		"message": "Treatment and prescription created",
		"data": map[string]interface{}{
			"treatment_id":    treatmentID,
			"prescription_id": prescriptionID,
		},
	})
}

// AddItem appends a medication line to an existing prescription.
func (pc *PrescriptionController) AddItem(c echo.Context) error {
	prescriptionID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": "Invalid prescription id",
			"data":    nil,
		})
	}
	var req models.AddPrescriptionItemRequest
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

	itemID, charge, err := pc.Service.AddItem(prescriptionID, req)
	if err != nil {
		if errors.Is(err, services.ErrPrescriptionNotFound) {
			return c.JSON(http.StatusNotFound, map[string]interface{}{
				"status":  http.StatusNotFound,
				"message": "Prescription not found",
				"data":    nil,
			})
		}
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  http.StatusInternalServerError,
			"message": "Failed to add prescription item: " + err.Error(),
			"data":    nil,
		})
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"status":  http.StatusCreated,
		"message": "Prescription item added",
		"data": map[string]interface{}{
			"item_id": itemID,
			"charge":  charge,
		},
	})
}

// ListForPatient returns a patient's prescriptions.
func (pc *PrescriptionController) ListForPatient(c echo.Context) error {
	patientID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": "Invalid patient id",
			"data":    nil,
		})
	}
	prescriptions, err := pc.Service.ListForPatient(patientID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  http.StatusInternalServerError,
			"message": "Failed to retrieve prescriptions: " + err.Error(),
			"data":    nil,
		})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  http.StatusOK,
		"message": "Prescriptions retrieved successfully",
		"data":    prescriptions,
	})
}
