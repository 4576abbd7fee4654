package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/suchimauz/medical-calendar-api/internal/adapters/out/cache"
	"github.com/suchimauz/medical-calendar-api/internal/adapters/out/logger"
	"github.com/suchimauz/medical-calendar-api/internal/core/domain"
	"github.com/suchimauz/medical-calendar-api/internal/core/ports/out"
	"github.com/suchimauz/medical-calendar-api/internal/utils"
)

const testDate = "2026-09-01"

func testLogger(t *testing.T) out.LoggerPort {
	log, err := logger.NewConsoleLogger("UTC", out.LogLevelError)
	require.NoError(t, err)
	return log
}

func newCalendarService(t *testing.T, store *MockClinicStore, cachePort out.CachePort) *CalendarService {
	service, err := NewCalendarService(store, cachePort, testConfig(), testLogger(t))
	require.NoError(t, err)
	return service
}

func testCache(t *testing.T) out.CachePort {
	adapter, err := cache.NewCacheAdapter(testConfig(), testLogger(t))
	require.NoError(t, err)
	return adapter
}

func TestGetDayGrid(t *testing.T) {
	store := &MockClinicStore{}
	service := newCalendarService(t, store, nil)

	store.On("ListDoctors", mock.Anything).Return([]domain.Doctor{
		{ID: 1, Name: "Рустам Торогелдие", Specialty: "Терапевт Имплантолог"},
		{ID: 2, Name: "Элеш Асанов", Specialty: "Терапевт Имплантолог Ортопед"},
	}, nil)
	store.On("ListAppointmentsByDate", mock.Anything, testDate).Return([]domain.Appointment{
		{
			ID: 10, DoctorID: 1, Date: testDate,
			Interval:    mustInterval("14:00", "15:00"),
			PatientName: "Анна Иванова",
			Status:      domain.AppointmentStatusScheduled,
			Type:        domain.AppointmentTypeTreatment,
		},
		{
			ID: 11, DoctorID: 1, Date: testDate,
			Interval:    mustInterval("09:00", "10:00"),
			PatientName: "Мария Петрова",
			Status:      domain.AppointmentStatusCancelled,
			Type:        domain.AppointmentTypeConsultation,
		},
	}, nil)

	grid, err := service.GetDayGrid(context.Background(), testDate)
	require.NoError(t, err)

	assert.Equal(t, testDate, grid.Date)
	assert.Len(t, grid.TimeSlots, 21)
	require.Len(t, grid.Doctors, 2)

	first := grid.Doctors[0]
	require.Len(t, first.Appointments, 2)
	// (14:00 - 09:00) минут * 2px
	assert.Equal(t, 600.0, first.Appointments[0].Position.Top)
	assert.Equal(t, 112.0, first.Appointments[0].Position.Height)
	assert.Equal(t, 10, first.Appointments[0].Position.ZIndex)

	slotStatus := make(map[string]domain.SlotStatus)
	for _, slot := range first.Slots {
		slotStatus[slot.Time.String()] = slot.Status
	}
	assert.Equal(t, domain.SlotStatusOccupied, slotStatus["14:00"])
	// Отмененная запись слот не занимает
	assert.Equal(t, domain.SlotStatusFree, slotStatus["09:00"])
	assert.Equal(t, domain.SlotStatusFree, slotStatus["14:30"])

	for _, slot := range grid.Doctors[1].Slots {
		assert.Equal(t, domain.SlotStatusFree, slot.Status)
	}
}

func TestGetDayGridInvalidDate(t *testing.T) {
	store := &MockClinicStore{}
	service := newCalendarService(t, store, nil)

	_, err := service.GetDayGrid(context.Background(), "01.09.2026")
	assert.ErrorIs(t, err, utils.ErrInvalidDate)
	store.AssertNotCalled(t, "ListDoctors", mock.Anything)
}

func TestGetDayGridUsesDayCache(t *testing.T) {
	store := &MockClinicStore{}
	service := newCalendarService(t, store, testCache(t))

	store.On("ListDoctors", mock.Anything).Return([]domain.Doctor{{ID: 1, Name: "Врач"}}, nil).Twice()
	store.On("ListAppointmentsByDate", mock.Anything, testDate).Return([]domain.Appointment{}, nil).Once()

	_, err := service.GetDayGrid(context.Background(), testDate)
	require.NoError(t, err)

	// Второй запрос дня идет из кэша, в хранилище не ходим
	_, err = service.GetDayGrid(context.Background(), testDate)
	require.NoError(t, err)

	store.AssertExpectations(t)
}

func TestCreateAppointment(t *testing.T) {
	store := &MockClinicStore{}
	service := newCalendarService(t, store, nil)

	store.On("ListAppointmentsByDate", mock.Anything, testDate).Return([]domain.Appointment{
		{
			ID: 10, DoctorID: 1, Date: testDate,
			Interval: mustInterval("10:00", "11:00"),
			Status:   domain.AppointmentStatusScheduled,
		},
	}, nil)

	created := &domain.Appointment{
		ID: 42, DoctorID: 1, Date: testDate,
		Interval:    mustInterval("14:00", "15:00"),
		PatientName: "Ринат Иманкулов",
		Phone:       "996555123456",
		Status:      domain.AppointmentStatusScheduled,
		Type:        domain.AppointmentTypeConsultation,
	}
	store.On("CreateAppointment", mock.Anything, mock.MatchedBy(func(a domain.Appointment) bool {
		// Новая запись всегда создается в начальном статусе
		return a.Status == domain.AppointmentStatusScheduled && a.Interval.Key() == "14:00-15:00"
	})).Return(created, nil)

	appointment, err := service.CreateAppointment(context.Background(), domain.CreateAppointmentRequest{
		DoctorID:    1,
		Date:        testDate,
		TimeStart:   "14:00",
		TimeEnd:     "15:00",
		PatientName: "Ринат Иманкулов",
		Phone:       "996555123456",
		Type:        domain.AppointmentTypeConsultation,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(42), appointment.ID)
	store.AssertExpectations(t)
}

func TestCreateAppointmentConflict(t *testing.T) {
	store := &MockClinicStore{}
	service := newCalendarService(t, store, nil)

	store.On("ListAppointmentsByDate", mock.Anything, testDate).Return([]domain.Appointment{
		{
			ID: 10, DoctorID: 1, Date: testDate,
			Interval: mustInterval("14:00", "15:00"),
			Status:   domain.AppointmentStatusScheduled,
		},
	}, nil)

	_, err := service.CreateAppointment(context.Background(), domain.CreateAppointmentRequest{
		DoctorID:    1,
		Date:        testDate,
		TimeStart:   "14:30",
		TimeEnd:     "15:30",
		PatientName: "Анна Иванова",
		Phone:       "996550002342",
		Type:        domain.AppointmentTypeTreatment,
	})
	assert.ErrorIs(t, err, domain.ErrTimeSlotConflict)
	store.AssertNotCalled(t, "CreateAppointment", mock.Anything, mock.Anything)
}

func TestCreateAppointmentIgnoresCancelledAndOtherDoctors(t *testing.T) {
	store := &MockClinicStore{}
	service := newCalendarService(t, store, nil)

	store.On("ListAppointmentsByDate", mock.Anything, testDate).Return([]domain.Appointment{
		{
			ID: 10, DoctorID: 1, Date: testDate,
			Interval: mustInterval("14:00", "15:00"),
			Status:   domain.AppointmentStatusCancelled,
		},
		{
			ID: 11, DoctorID: 2, Date: testDate,
			Interval: mustInterval("14:00", "15:00"),
			Status:   domain.AppointmentStatusScheduled,
		},
	}, nil)
	store.On("CreateAppointment", mock.Anything, mock.Anything).
		Return(&domain.Appointment{ID: 43, DoctorID: 1, Date: testDate, Interval: mustInterval("14:00", "15:00")}, nil)

	_, err := service.CreateAppointment(context.Background(), domain.CreateAppointmentRequest{
		DoctorID:    1,
		Date:        testDate,
		TimeStart:   "14:00",
		TimeEnd:     "15:00",
		PatientName: "Анна Иванова",
		Phone:       "996550002342",
		Type:        domain.AppointmentTypeTreatment,
	})
	assert.NoError(t, err)
}

func TestCreateAppointmentValidation(t *testing.T) {
	store := &MockClinicStore{}
	service := newCalendarService(t, store, nil)

	base := domain.CreateAppointmentRequest{
		DoctorID:    1,
		Date:        testDate,
		TimeStart:   "14:00",
		TimeEnd:     "15:00",
		PatientName: "Анна Иванова",
		Phone:       "996550002342",
		Type:        domain.AppointmentTypeTreatment,
	}

	tests := []struct {
		name    string
		mutate  func(*domain.CreateAppointmentRequest)
		wantErr error
	}{
		{
			name:    "без врача",
			mutate:  func(r *domain.CreateAppointmentRequest) { r.DoctorID = 0 },
			wantErr: domain.ErrInvalidAppointment,
		},
		{
			name:    "без пациента",
			mutate:  func(r *domain.CreateAppointmentRequest) { r.PatientName = "" },
			wantErr: domain.ErrInvalidAppointment,
		},
		{
			name:    "неизвестный тип",
			mutate:  func(r *domain.CreateAppointmentRequest) { r.Type = "Осмотр" },
			wantErr: domain.ErrInvalidAppointment,
		},
		{
			name:    "кривая дата",
			mutate:  func(r *domain.CreateAppointmentRequest) { r.Date = "сегодня" },
			wantErr: utils.ErrInvalidDate,
		},
		{
			name:    "кривое время",
			mutate:  func(r *domain.CreateAppointmentRequest) { r.TimeStart = "14-00" },
			wantErr: domain.ErrInvalidTimeFormat,
		},
		{
			name:    "конец раньше начала",
			mutate:  func(r *domain.CreateAppointmentRequest) { r.TimeEnd = "13:00" },
			wantErr: domain.ErrIntervalInverted,
		},
		{
			name: "вне рабочих часов",
			mutate: func(r *domain.CreateAppointmentRequest) {
				r.TimeStart = "08:00"
				r.TimeEnd = "09:00"
			},
			wantErr: domain.ErrOutsideWorkingHours,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := base
			tt.mutate(&req)
			_, err := service.CreateAppointment(context.Background(), req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	store.AssertNotCalled(t, "CreateAppointment", mock.Anything, mock.Anything)
}

func TestAdvanceStatus(t *testing.T) {
	store := &MockClinicStore{}
	service := newCalendarService(t, store, nil)

	current := &domain.Appointment{
		ID: 10, DoctorID: 1, Date: testDate,
		Interval: mustInterval("14:00", "15:00"),
		Status:   domain.AppointmentStatusScheduled,
	}
	updated := *current
	updated.Status = domain.AppointmentStatusArrived

	store.On("GetAppointment", mock.Anything, int64(10)).Return(current, nil)
	store.On("UpdateAppointment", mock.Anything, int64(10), mock.MatchedBy(func(req domain.UpdateAppointmentRequest) bool {
		return req.Status != nil && *req.Status == domain.AppointmentStatusArrived
	})).Return(&updated, nil)

	result, err := service.AdvanceStatus(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, domain.AppointmentStatusArrived, result.Status)
	store.AssertExpectations(t)
}

func TestAdvanceStatusUpdateFailed(t *testing.T) {
	store := &MockClinicStore{}
	service := newCalendarService(t, store, nil)

	current := &domain.Appointment{
		ID: 10, Date: testDate,
		Interval: mustInterval("14:00", "15:00"),
		Status:   domain.AppointmentStatusArrived,
	}
	remoteErr := errors.New("supabase: connection refused")

	store.On("GetAppointment", mock.Anything, int64(10)).Return(current, nil)
	store.On("UpdateAppointment", mock.Anything, int64(10), mock.Anything).Return(nil, remoteErr).Once()

	_, err := service.AdvanceStatus(context.Background(), 10)
	assert.ErrorIs(t, err, remoteErr)

	// После неудачи запись можно двигать снова
	store.On("UpdateAppointment", mock.Anything, int64(10), mock.Anything).Return(current, nil)
	_, err = service.AdvanceStatus(context.Background(), 10)
	assert.NoError(t, err)
}

func TestAdvanceStatusInFlightGuard(t *testing.T) {
	store := &MockClinicStore{}
	service := newCalendarService(t, store, nil)

	entered := make(chan struct{})
	release := make(chan struct{})

	current := &domain.Appointment{
		ID: 10, Date: testDate,
		Interval: mustInterval("14:00", "15:00"),
		Status:   domain.AppointmentStatusScheduled,
	}

	store.On("GetAppointment", mock.Anything, int64(10)).Run(func(args mock.Arguments) {
		close(entered)
		<-release
	}).Return(current, nil)
	store.On("UpdateAppointment", mock.Anything, int64(10), mock.Anything).Return(current, nil)

	done := make(chan error, 1)
	go func() {
		_, err := service.AdvanceStatus(context.Background(), 10)
		done <- err
	}()

	<-entered

	// Первый переход еще не завершился - второй отклоняется
	_, err := service.AdvanceStatus(context.Background(), 10)
	assert.ErrorIs(t, err, domain.ErrStatusUpdateInFlight)

	close(release)
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("first transition did not finish")
	}
}

func TestGetStats(t *testing.T) {
	store := &MockClinicStore{}
	service := newCalendarService(t, store, nil)

	store.On("ListAppointmentsByDate", mock.Anything, testDate).Return([]domain.Appointment{
		{ID: 1, Interval: mustInterval("09:00", "09:30"), Status: domain.AppointmentStatusScheduled},
		{ID: 2, Interval: mustInterval("10:00", "10:30"), Status: domain.AppointmentStatusCompleted},
		{ID: 3, Interval: mustInterval("11:00", "11:30"), Status: domain.AppointmentStatusCompleted},
		{ID: 4, Interval: mustInterval("12:00", "12:30"), Status: domain.AppointmentStatusCancelled},
		{ID: 5, Interval: mustInterval("15:00", "15:30"), Status: domain.AppointmentStatusArrived},
	}, nil)

	stats, err := service.GetStats(context.Background(), testDate)
	require.NoError(t, err)
	assert.Equal(t, 5, stats.TotalAppointments)
	assert.Equal(t, 1, stats.ScheduledAppointments)
	assert.Equal(t, 1, stats.ArrivedAppointments)
	assert.Equal(t, 2, stats.CompletedAppointments)
	assert.Equal(t, 1, stats.CancelledAppointments)
}

func TestGetStatsInvalidDate(t *testing.T) {
	store := &MockClinicStore{}
	service := newCalendarService(t, store, testCache(t))

	// Кривая дата не должна дойти ни до хранилища, ни до кэша
	_, err := service.GetStats(context.Background(), "01.09.2026")
	assert.ErrorIs(t, err, utils.ErrInvalidDate)
	store.AssertNotCalled(t, "ListAppointmentsByDate", mock.Anything, mock.Anything)
}

func TestCreateInvalidatesDayCache(t *testing.T) {
	store := &MockClinicStore{}
	service := newCalendarService(t, store, testCache(t))

	store.On("ListAppointmentsByDate", mock.Anything, testDate).Return([]domain.Appointment{}, nil).Twice()
	created := &domain.Appointment{ID: 42, DoctorID: 1, Date: testDate, Interval: mustInterval("14:00", "15:00")}
	store.On("CreateAppointment", mock.Anything, mock.Anything).Return(created, nil)

	// Первый вызов кладет день в кэш
	_, err := service.GetStats(context.Background(), testDate)
	require.NoError(t, err)

	_, err = service.CreateAppointment(context.Background(), domain.CreateAppointmentRequest{
		DoctorID:    1,
		Date:        testDate,
		TimeStart:   "14:00",
		TimeEnd:     "15:00",
		PatientName: "Анна Иванова",
		Phone:       "996550002342",
		Type:        domain.AppointmentTypeTreatment,
	})
	require.NoError(t, err)

	// После создания кэш дня сброшен - снова идем в хранилище
	_, err = service.GetStats(context.Background(), testDate)
	require.NoError(t, err)

	store.AssertExpectations(t)
}
