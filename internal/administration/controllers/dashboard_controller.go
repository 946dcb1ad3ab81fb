package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hmsdev/hospital-backend/internal/administration/services"
)

type DashboardController struct {
	Service *services.DashboardService
}

func NewDashboardController(service *services.DashboardService) *DashboardController {
	return &DashboardController{Service: service}
}

func (dc *DashboardController) Overview(c echo.Context) error {
	data, err := dc.Service.Overview()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  http.StatusInternalServerError,
			"message": "Failed to retrieve dashboard data: " + err.Error(),
			"data":    nil,
		})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  http.StatusOK,
		"message": "Dashboard data retrieved successfully",
		"data":    data,
	})
}
