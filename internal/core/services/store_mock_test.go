package services

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/suchimauz/medical-calendar-api/internal/config"
	"github.com/suchimauz/medical-calendar-api/internal/core/domain"
)

// MockClinicStore - мок внешнего слоя запросов
type MockClinicStore struct {
	mock.Mock
}

func (m *MockClinicStore) ListDoctors(ctx context.Context) ([]domain.Doctor, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Doctor), args.Error(1)
}

func (m *MockClinicStore) ListAppointmentsByDate(ctx context.Context, date string) ([]domain.Appointment, error) {
	args := m.Called(ctx, date)
	return args.Get(0).([]domain.Appointment), args.Error(1)
}

func (m *MockClinicStore) GetAppointment(ctx context.Context, id int64) (*domain.Appointment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Appointment), args.Error(1)
}

func (m *MockClinicStore) CreateAppointment(ctx context.Context, appointment domain.Appointment) (*domain.Appointment, error) {
	args := m.Called(ctx, appointment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Appointment), args.Error(1)
}

func (m *MockClinicStore) UpdateAppointment(ctx context.Context, id int64, req domain.UpdateAppointmentRequest) (*domain.Appointment, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Appointment), args.Error(1)
}

func (m *MockClinicStore) SearchAppointments(ctx context.Context, term string, limit int) ([]domain.SearchResult, error) {
	args := m.Called(ctx, term, limit)
	return args.Get(0).([]domain.SearchResult), args.Error(1)
}

func (m *MockClinicStore) ListPatients(ctx context.Context, filter domain.PatientFilter) ([]domain.Patient, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Patient), args.Error(1)
}

func (m *MockClinicStore) CreatePatient(ctx context.Context, req domain.CreatePatientRequest) (*domain.Patient, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Patient), args.Error(1)
}

func (m *MockClinicStore) UpdatePatient(ctx context.Context, id int64, req domain.UpdatePatientRequest) (*domain.Patient, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Patient), args.Error(1)
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.App.Env = config.EnvLocal
	cfg.App.Timezone = "UTC"
	cfg.Calendar.StartHour = 9
	cfg.Calendar.EndHour = 19
	cfg.Calendar.SlotDuration = 30
	cfg.Calendar.SlotHeight = 60
	cfg.Calendar.MinAppointmentHeight = 30
	cfg.Calendar.AppointmentMargin = 8
	cfg.Calendar.SearchLimit = 10
	cfg.Cache.Enabled = true
	cfg.Cache.PositionsSize = 100
	cfg.Cache.DaysSize = 8
	return cfg
}

func mustInterval(start, end string) domain.Interval {
	interval, err := domain.ParseInterval(start, end)
	if err != nil {
		panic(err)
	}
	return interval
}
