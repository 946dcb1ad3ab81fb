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

type AppointmentController struct {
	Service *services.AppointmentService
}

func NewAppointmentController(service *services.AppointmentService) *AppointmentController {
	return &AppointmentController{Service: service}
}

// Book creates an appointment in 'booked' status.
func (ac *AppointmentController) Book(c echo.Context) error {
	var req models.BookAppointmentRequest
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

	appointmentID, err := ac.Service.Book(req)
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
			"message": "Failed to book appointment: " + err.Error(),
			"data":    nil,
		})
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"status":  http.StatusCreated,
		"message": "Appointment booked successfully",
		"data":    map[string]interface{}{"appointment_id": appointmentID},
	})
}

// List returns all appointments for the admin views.
func (ac *AppointmentController) List(c echo.Context) error {
	appts, err := ac.Service.ListAll()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  http.StatusInternalServerError,
			"message": "Failed to retrieve appointments: " + err.Error(),
			"data":    nil,
		})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  http.StatusOK,
		"message": "Appointments retrieved successfully",
		"data":    appts,
	})
}

// Update edits an appointment's schedule, status or doctor assignment.
func (ac *AppointmentController) Update(c echo.Context) error {
	appointmentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": "Invalid appointment id",
			"data":    nil,
		})
	}
	var req models.UpdateAppointmentRequest
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

	if err := ac.Service.Update(appointmentID, req); err != nil {
		if errors.Is(err, services.ErrAppointmentNotFound) {
			return c.JSON(http.StatusNotFound, map[string]interface{}{
				"status":  http.StatusNotFound,
				"message": "Appointment not found",
				"data":    nil,
			})
		}
		if strings.Contains(err.Error(), "invalid appointment status") {
			return c.JSON(http.StatusBadRequest, map[string]interface{}{
				"status":  http.StatusBadRequest,
				"message": err.Error(),
				"data":    nil,
			})
		}
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  http.StatusInternalServerError,
			"message": "Failed to update appointment: " + err.Error(),
			"data":    nil,
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  http.StatusOK,
		"message": "Appointment updated successfully",
		"data":    nil,
	})
}

// Schedule returns the logged-in doctor's upcoming appointments.
func (ac *AppointmentController) Schedule(c echo.Context) error {
	claims := middlewares.ClaimsFromContext(c)
	if claims == nil || claims.Role != "doctor" {
		return c.JSON(http.StatusForbidden, map[string]interface{}{
			"status":  http.StatusForbidden,
			"message": "Doctor login required",
			"data":    nil,
		})
	}
	appts, err := ac.Service.ListForDoctor(claims.DoctorID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  http.StatusInternalServerError,
			"message": "Failed to retrieve schedule: " + err.Error(),
			"data":    nil,
		})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  http.StatusOK,
		"message": "Schedule retrieved successfully",
		"data":    appts,
	})
}

// MyPatients lists the patients visible to the logged-in doctor.
func (ac *AppointmentController) MyPatients(c echo.Context) error {
	claims := middlewares.ClaimsFromContext(c)
	if claims == nil || claims.Role != "doctor" {
		return c.JSON(http.StatusForbidden, map[string]interface{}{
			"status":  http.StatusForbidden,
			"message": "Doctor login required",
			"data":    nil,
		})
	}
	rows, err := ac.Service.MyPatients(claims.DoctorID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  http.StatusInternalServerError,
			"message": "Failed to retrieve patients: " + err.Error(),
			"data":    nil,
		})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  http.StatusOK,
		"message": "Patients retrieved successfully",
		"data":    rows,
	})
}
