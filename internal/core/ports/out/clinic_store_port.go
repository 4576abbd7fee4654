package out

import (
	"context"

	"github.com/suchimauz/medical-calendar-api/internal/core/domain"
)

// ClinicStorePort - управляемый клиент запросов к внешнему хранилищу.
// Источник истины - внешний бэкенд, сервис держит только кэш
type ClinicStorePort interface {
	ListDoctors(ctx context.Context) ([]domain.Doctor, error)

	ListAppointmentsByDate(ctx context.Context, date string) ([]domain.Appointment, error)
	GetAppointment(ctx context.Context, id int64) (*domain.Appointment, error)
	CreateAppointment(ctx context.Context, appointment domain.Appointment) (*domain.Appointment, error)
	UpdateAppointment(ctx context.Context, id int64, req domain.UpdateAppointmentRequest) (*domain.Appointment, error)
	SearchAppointments(ctx context.Context, term string, limit int) ([]domain.SearchResult, error)

	ListPatients(ctx context.Context, filter domain.PatientFilter) ([]domain.Patient, error)
	CreatePatient(ctx context.Context, req domain.CreatePatientRequest) (*domain.Patient, error)
	UpdatePatient(ctx context.Context, id int64, req domain.UpdatePatientRequest) (*domain.Patient, error)
}
