package services

import (
	"errors"
	"strings"
	"testing"

	"github.com/hmsdev/hospital-backend/internal/clinical/models"
)

func TestBookAndListAppointments(t *testing.T) {
	db := newTestDB(t)
	svc := NewAppointmentService(db)
	patientID := seedPatient(t, db, "Ana", "Silva")
	doctorID := seedDoctor(t, db, "Grace", "Mandira")

	id, err := svc.Book(models.BookAppointmentRequest{
		PatientID:           patientID,
		DoctorID:            &doctorID,
		AppointmentDatetime: "2026-09-01 09:30:00",
	})
	if err != nil {
		t.Fatalf("book: %v", err)
	}
	if id == 0 {
		t.Fatalf("expected an appointment id")
	}

	all, err := svc.ListAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 || all[0].Status != "booked" {
		t.Fatalf("unexpected list: %+v", all)
	}
	if all[0].PatientName == nil || *all[0].PatientName != "Ana Silva" {
		t.Fatalf("expected joined patient name, got %v", all[0].PatientName)
	}

	schedule, err := svc.ListForDoctor(doctorID)
	if err != nil {
		t.Fatal(err)
	}
	if len(schedule) != 1 {
		t.Fatalf("expected 1 scheduled appointment, got %d", len(schedule))
	}

	if _, err := svc.Book(models.BookAppointmentRequest{PatientID: 42, AppointmentDatetime: "2026-09-01 10:00:00"}); !errors.Is(err, ErrPatientNotFound) {
		t.Fatalf("expected ErrPatientNotFound, got %v", err)
	}
}

func TestUpdateAppointmentKeepsUnsetFields(t *testing.T) {
	db := newTestDB(t)
	svc := NewAppointmentService(db)
	patientID := seedPatient(t, db, "Ana", "Silva")
	doctorID := seedDoctor(t, db, "Grace", "Mandira")

	id, err := svc.Book(models.BookAppointmentRequest{
		PatientID:           patientID,
		DoctorID:            &doctorID,
		AppointmentDatetime: "2026-09-01 09:30:00",
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := svc.Update(id, models.UpdateAppointmentRequest{Status: "confirmed"}); err != nil {
		t.Fatalf("update: %v", err)
	}

	all, err := svc.ListAll()
	if err != nil {
		t.Fatal(err)
	}
	got := all[0]
	if got.Status != "confirmed" {
		t.Fatalf("status not updated: %+v", got)
	}
	if got.AppointmentDatetime != "2026-09-01 09:30:00" {
		t.Fatalf("datetime must be preserved, got %q", got.AppointmentDatetime)
	}
	if got.DoctorID == nil || *got.DoctorID != doctorID {
		t.Fatalf("doctor assignment must be preserved, got %v", got.DoctorID)
	}

	// Cancelled appointments drop off the doctor's schedule.
	if err := svc.Update(id, models.UpdateAppointmentRequest{Status: "cancelled"}); err != nil {
		t.Fatal(err)
	}
	schedule, err := svc.ListForDoctor(doctorID)
	if err != nil {
		t.Fatal(err)
	}
	if len(schedule) != 0 {
		t.Fatalf("cancelled appointment still on schedule: %+v", schedule)
	}

	if err := svc.Update(9999, models.UpdateAppointmentRequest{Status: "confirmed"}); !errors.Is(err, ErrAppointmentNotFound) {
		t.Fatalf("expected ErrAppointmentNotFound, got %v", err)
	}
}

func TestUpdateAppointmentRejectsBadStatus(t *testing.T) {
	db := newTestDB(t)
	svc := NewAppointmentService(db)
	patientID := seedPatient(t, db, "Ana", "Silva")

	id, err := svc.Book(models.BookAppointmentRequest{
		PatientID:           patientID,
		AppointmentDatetime: "2026-09-01 09:30:00",
	})
	if err != nil {
		t.Fatal(err)
	}

	err = svc.Update(id, models.UpdateAppointmentRequest{Status: "done"})
	if err == nil || !strings.Contains(err.Error(), "invalid appointment status") {
		t.Fatalf("expected invalid status error, got %v", err)
	}

	all, err := svc.ListAll()
	if err != nil {
		t.Fatal(err)
	}
	if all[0].Status != "booked" {
		t.Fatalf("rejected update must leave the row untouched: %+v", all[0])
	}
}

func TestMyPatientsCoversPrimaryAndShared(t *testing.T) {
	db := newTestDB(t)
	svc := NewAppointmentService(db)
	doctorID := seedDoctor(t, db, "Grace", "Mandira")
	otherDoctor := seedDoctor(t, db, "Omar", "Haddad")

	// Primary patient of the doctor, appointment with someone else.
	primary := seedPatient(t, db, "Ana", "Silva")
	if _, err := db.Exec(`UPDATE patients SET doctor = ? WHERE id = ?`, doctorID, primary); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Book(models.BookAppointmentRequest{PatientID: primary, DoctorID: &otherDoctor, AppointmentDatetime: "2026-09-01 09:00:00"}); err != nil {
		t.Fatal(err)
	}

	// Primary patient who has never booked anything.
	newcomer := seedPatient(t, db, "Dana", "Petrov")
	if _, err := db.Exec(`UPDATE patients SET doctor = ? WHERE id = ?`, doctorID, newcomer); err != nil {
		t.Fatal(err)
	}

	// Patient of another doctor, sharing an appointment with ours.
	shared := seedPatient(t, db, "Ben", "Okafor")
	if _, err := svc.Book(models.BookAppointmentRequest{PatientID: shared, DoctorID: &doctorID, AppointmentDatetime: "2026-09-01 10:00:00"}); err != nil {
		t.Fatal(err)
	}

	// Unrelated patient, never visible.
	stranger := seedPatient(t, db, "Cara", "Lindqvist")
	if _, err := svc.Book(models.BookAppointmentRequest{PatientID: stranger, DoctorID: &otherDoctor, AppointmentDatetime: "2026-09-01 11:00:00"}); err != nil {
		t.Fatal(err)
	}

	rows, err := svc.MyPatients(doctorID)
	if err != nil {
		t.Fatal(err)
	}
	byPatient := map[int64]models.DoctorPatient{}
	for _, r := range rows {
		byPatient[r.PatientID] = r
	}
	if _, ok := byPatient[primary]; !ok {
		t.Fatalf("primary patient missing: %+v", rows)
	}
	if _, ok := byPatient[shared]; !ok {
		t.Fatalf("shared-appointment patient missing: %+v", rows)
	}
	if _, ok := byPatient[stranger]; ok {
		t.Fatalf("unrelated patient visible: %+v", rows)
	}

	got, ok := byPatient[newcomer]
	if !ok {
		t.Fatalf("primary patient without appointments missing: %+v", rows)
	}
	if got.AppointmentCount != 0 || got.LastAppointment != nil {
		t.Fatalf("newcomer must show an empty visit summary: %+v", got)
	}

	// Only the doctor's own appointments count toward the summary.
	if shared := byPatient[shared]; shared.AppointmentCount != 1 || shared.LastAppointment == nil {
		t.Fatalf("unexpected visit summary for shared patient: %+v", shared)
	}
	if primary := byPatient[primary]; primary.AppointmentCount != 0 {
		t.Fatalf("appointment with another doctor counted: %+v", primary)
	}
}
