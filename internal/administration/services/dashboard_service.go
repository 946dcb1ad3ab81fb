package services

import (
	"github.com/jmoiron/sqlx"
)

type DashboardService struct {
	DB *sqlx.DB
}

func NewDashboardService(db *sqlx.DB) *DashboardService {
	return &DashboardService{DB: db}
}

type StatusCount struct {
	Status string `db:"status" json:"status"`
	Count  int64  `db:"count" json:"count"`
}

type DayCount struct {
	Date  string `db:"date" json:"date"`
	Count int64  `db:"count" json:"count"`
}

type DoctorWorkload struct {
	DoctorName       string `db:"doctor_name" json:"doctor_name"`
	AppointmentCount int64  `db:"appointment_count" json:"appointment_count"`
}

// Overview aggregates the admin dashboard in one call: entity counts,
// appointment status breakdown, bookings over the last seven days, revenue
// split and the busiest doctors.
func (s *DashboardService) Overview() (map[string]interface{}, error) {
	stats := map[string]int64{}
	for name, table := range map[string]string{
		"patients":     "patients",
		"doctors":      "doctors",
		"bills":        "bills",
		"appointments": "appointments",
	} {
		var n int64
		if err := s.DB.Get(&n, `SELECT COUNT(*) FROM `+table); err != nil {
			return nil, err
		}
		stats[name] = n
	}

	var byStatus []StatusCount
	if err := s.DB.Select(&byStatus, `
		SELECT status, COUNT(*) AS count FROM appointments GROUP BY status`); err != nil {
		return nil, err
	}

	var recent []DayCount
	if err := s.DB.Select(&recent, `
		SELECT DATE(appointment_datetime) AS date, COUNT(*) AS count
		FROM appointments
		WHERE appointment_datetime >= date('now', '-7 days')
		GROUP BY DATE(appointment_datetime)
		ORDER BY date`); err != nil {
		return nil, err
	}

	var revenue struct {
		Paid    float64 `db:"paid_amount"`
		Pending float64 `db:"pending_amount"`
		Total   float64 `db:"total_amount"`
	}
	if err := s.DB.Get(&revenue, `
		SELECT
			COALESCE(SUM(CASE WHEN paid = 1 THEN total_amount ELSE 0 END), 0) AS paid_amount,
			COALESCE(SUM(CASE WHEN paid = 0 THEN total_amount ELSE 0 END), 0) AS pending_amount,
			COALESCE(SUM(total_amount), 0) AS total_amount
		FROM bills`); err != nil {
		return nil, err
	}

	var workload []DoctorWorkload
	if err := s.DB.Select(&workload, `
		SELECT d.f_name || ' ' || d.l_name AS doctor_name,
		       COUNT(a.id) AS appointment_count
		FROM doctors d
		LEFT JOIN appointments a ON d.doctor_id = a.doctor_id
		GROUP BY d.doctor_id
		ORDER BY appointment_count DESC
		LIMIT 5`); err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"stats":               stats,
		"appointment_stats":   byStatus,
		"recent_appointments": recent,
		"revenue": map[string]float64{
			"paid_amount":    revenue.Paid,
			"pending_amount": revenue.Pending,
			"total_amount":   revenue.Total,
		},
		"doctor_workload": workload,
	}, nil
}
