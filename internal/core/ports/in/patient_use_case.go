package in

import (
	"context"

	"github.com/suchimauz/medical-calendar-api/internal/core/domain"
)

type PatientUseCase interface {
	ListPatients(ctx context.Context, filter domain.PatientFilter) ([]domain.Patient, error)
	CreatePatient(ctx context.Context, req domain.CreatePatientRequest) (*domain.Patient, error)
	UpdatePatient(ctx context.Context, id int64, req domain.UpdatePatientRequest) (*domain.Patient, error)

	// Поиск по записям: имя пациента или телефон, короткий запрос - пустой результат
	SearchAppointments(ctx context.Context, term string) ([]domain.SearchResult, error)
}
