package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/suchimauz/medical-calendar-api/internal/config"
	"github.com/suchimauz/medical-calendar-api/internal/core/domain"
	"github.com/suchimauz/medical-calendar-api/internal/core/ports/out"
)

const minSearchTermLength = 2

type PatientService struct {
	storePort   out.ClinicStorePort
	logger      out.LoggerPort
	searchLimit int
}

func NewPatientService(storePort out.ClinicStorePort, cfg *config.Config, logger out.LoggerPort) *PatientService {
	return &PatientService{
		storePort:   storePort,
		logger:      logger.WithModule("PatientService"),
		searchLimit: cfg.Calendar.SearchLimit,
	}
}

func (s *PatientService) ListPatients(ctx context.Context, filter domain.PatientFilter) ([]domain.Patient, error) {
	patients, err := s.storePort.ListPatients(ctx, filter)
	if err != nil {
		s.logger.Error("patients.list_failed", out.LogFields{
			"search": filter.Search,
			"error":  err.Error(),
		})
		return nil, err
	}
	return patients, nil
}

func (s *PatientService) CreatePatient(ctx context.Context, req domain.CreatePatientRequest) (*domain.Patient, error) {
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Phone) == "" {
		return nil, fmt.Errorf("%w: name and phone are required", domain.ErrInvalidPatient)
	}

	patient, err := s.storePort.CreatePatient(ctx, req)
	if err != nil {
		s.logger.Error("patients.create_failed", out.LogFields{
			"error": err.Error(),
		})
		return nil, err
	}

	s.logger.Info("patients.created", out.LogFields{
		"patientId": patient.ID,
	})

	return patient, nil
}

func (s *PatientService) UpdatePatient(ctx context.Context, id int64, req domain.UpdatePatientRequest) (*domain.Patient, error) {
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return nil, fmt.Errorf("%w: name cannot be empty", domain.ErrInvalidPatient)
	}
	if req.Phone != nil && strings.TrimSpace(*req.Phone) == "" {
		return nil, fmt.Errorf("%w: phone cannot be empty", domain.ErrInvalidPatient)
	}

	patient, err := s.storePort.UpdatePatient(ctx, id, req)
	if err != nil {
		s.logger.Error("patients.update_failed", out.LogFields{
			"patientId": id,
			"error":     err.Error(),
		})
		return nil, err
	}

	return patient, nil
}

// SearchAppointments ищет записи по имени или телефону пациента.
// Короткий запрос - пустой результат, а не ошибка
func (s *PatientService) SearchAppointments(ctx context.Context, term string) ([]domain.SearchResult, error) {
	term = strings.TrimSpace(term)
	if len([]rune(term)) < minSearchTermLength {
		return []domain.SearchResult{}, nil
	}

	results, err := s.storePort.SearchAppointments(ctx, term, s.searchLimit)
	if err != nil {
		s.logger.Error("patients.search_failed", out.LogFields{
			"term":  term,
			"error": err.Error(),
		})
		return nil, err
	}

	s.logger.Debug("patients.search.completed", out.LogFields{
		"term":  term,
		"count": len(results),
	})

	return results, nil
}
