package routes

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/hmsdev/hospital-backend/config"
	admincontrollers "github.com/hmsdev/hospital-backend/internal/administration/controllers"
	adminservices "github.com/hmsdev/hospital-backend/internal/administration/services"
	billingcontrollers "github.com/hmsdev/hospital-backend/internal/billing/controllers"
	billingservices "github.com/hmsdev/hospital-backend/internal/billing/services"
	clinicalcontrollers "github.com/hmsdev/hospital-backend/internal/clinical/controllers"
	clinicalservices "github.com/hmsdev/hospital-backend/internal/clinical/services"
	"github.com/hmsdev/hospital-backend/internal/common/middlewares"
	"github.com/hmsdev/hospital-backend/ws"
)

// CustomValidator adapts go-playground/validator to echo's Validator
// interface so controllers can call c.Validate on bound requests.
type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validator.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

// Init wires every service and controller and registers all routes on e.
func Init(e *echo.Echo, db *sqlx.DB, cfg *config.Config) {
	e.Validator = &CustomValidator{validator: validator.New()}

	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAuthorization},
	}))

	engine := billingservices.NewChargeEngine()

	authService := adminservices.NewAuthService(db, cfg)
	patientService := adminservices.NewPatientService(db)
	doctorService := adminservices.NewDoctorService(db)
	dashboardService := adminservices.NewDashboardService(db)

	treatmentService := clinicalservices.NewTreatmentService(db, engine)
	prescriptionService := clinicalservices.NewPrescriptionService(db, engine)
	labTestService := clinicalservices.NewLabTestService(db, engine)
	appointmentService := clinicalservices.NewAppointmentService(db)

	paymentService := billingservices.NewPaymentService(db)
	billingQueryService := billingservices.NewBillingQueryService(db)

	authController := admincontrollers.NewAuthController(authService)
	patientController := admincontrollers.NewPatientController(patientService)
	doctorController := admincontrollers.NewDoctorController(doctorService)
	dashboardController := admincontrollers.NewDashboardController(dashboardService)

	treatmentController := clinicalcontrollers.NewTreatmentController(treatmentService)
	prescriptionController := clinicalcontrollers.NewPrescriptionController(prescriptionService)
	labTestController := clinicalcontrollers.NewLabTestController(labTestService)
	appointmentController := clinicalcontrollers.NewAppointmentController(appointmentService)

	paymentController := billingcontrollers.NewPaymentController(paymentService)
	billingController := billingcontrollers.NewBillingController(billingQueryService)

	api := e.Group("/api")

	api.POST("/admin/login", authController.AdminLogin)
	api.POST("/doctor/login", authController.DoctorLogin)

	admin := api.Group("/admin", middlewares.JWTMiddleware(), middlewares.RequireRole("admin"))
	admin.GET("/dashboard", dashboardController.Overview)
	admin.POST("/doctors", doctorController.Add)
	admin.GET("/doctors", doctorController.List)
	admin.PUT("/doctors/:id", doctorController.Update)
	admin.DELETE("/doctors/:id", doctorController.Delete)

	// Patient registration and appointments are front-desk work, open to
	// both roles.
	staff := api.Group("", middlewares.JWTMiddleware())
	staff.POST("/patients", patientController.Register)
	staff.GET("/patients", patientController.List)
	staff.GET("/patients/:id", patientController.Get)
	staff.PUT("/patients/:id", patientController.Update)
	staff.DELETE("/patients/:id", patientController.Delete)

	staff.POST("/appointments", appointmentController.Book)
	staff.GET("/appointments", appointmentController.List)
	staff.PUT("/appointments/:id", appointmentController.Update)

	staff.GET("/patients/:id/treatments", treatmentController.ListForPatient)
	staff.GET("/patients/:id/prescriptions", prescriptionController.ListForPatient)
	staff.GET("/patients/:id/lab-tests", labTestController.ListForPatient)

	doctor := api.Group("/doctor", middlewares.JWTMiddleware(), middlewares.RequireRole("doctor"))
	doctor.GET("/schedule", appointmentController.Schedule)
	doctor.GET("/patients", appointmentController.MyPatients)
	doctor.GET("/treatments", treatmentController.Logs)
	doctor.POST("/treatments", treatmentController.Record)
	doctor.POST("/prescribe", prescriptionController.Prescribe)
	doctor.POST("/prescriptions/:id/items", prescriptionController.AddItem)
	doctor.POST("/lab-tests", labTestController.Order)
	doctor.PUT("/lab-tests/:id/status", labTestController.UpdateStatus)

	billing := api.Group("/billing", middlewares.JWTMiddleware())
	billing.GET("/bills", billingController.ListBills)
	billing.GET("/bills/unpaid-items", billingController.UnpaidItems)
	billing.GET("/bills/:id", billingController.BillDetail)
	billing.POST("/bills/:id/pay", paymentController.MarkBillPaid)
	billing.POST("/payments", paymentController.ProcessPayment)
	billing.GET("/revenue", billingController.RevenueSummary)
	billing.GET("/audit", billingController.Audit)

	e.GET("/ws", ws.ServeWS(ws.HubInstance))
}
