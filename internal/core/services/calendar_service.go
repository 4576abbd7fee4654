package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/suchimauz/medical-calendar-api/internal/config"
	"github.com/suchimauz/medical-calendar-api/internal/core/domain"
	"github.com/suchimauz/medical-calendar-api/internal/core/ports/out"
	"github.com/suchimauz/medical-calendar-api/internal/utils"
)

type CalendarService struct {
	storePort out.ClinicStorePort
	cachePort out.CachePort
	logger    out.LoggerPort

	window domain.WorkingWindow
	layout domain.GridLayout

	// Записи, у которых обновление статуса еще не завершилось
	inFlightMu sync.Mutex
	inFlight   map[int64]struct{}
}

func NewCalendarService(
	storePort out.ClinicStorePort,
	cachePort out.CachePort,
	cfg *config.Config,
	logger out.LoggerPort,
) (*CalendarService, error) {
	window := domain.WorkingWindow{
		StartHour:    cfg.Calendar.StartHour,
		EndHour:      cfg.Calendar.EndHour,
		SlotDuration: cfg.Calendar.SlotDuration,
	}
	if err := window.Validate(); err != nil {
		return nil, err
	}

	return &CalendarService{
		storePort: storePort,
		cachePort: cachePort,
		logger:    logger.WithModule("CalendarService"),
		window:    window,
		layout: domain.GridLayout{
			SlotHeight:           cfg.Calendar.SlotHeight,
			MinAppointmentHeight: cfg.Calendar.MinAppointmentHeight,
			AppointmentMargin:    cfg.Calendar.AppointmentMargin,
		},
		inFlight: make(map[int64]struct{}),
	}, nil
}

func (s *CalendarService) GetDayGrid(ctx context.Context, date string) (*domain.DayGrid, error) {
	if _, err := utils.ParseClinicDate(date); err != nil {
		return nil, err
	}

	s.logger.Info("calendar.grid.requested", out.LogFields{
		"date": date,
	})

	doctors, err := s.storePort.ListDoctors(ctx)
	if err != nil {
		s.logger.Error("calendar.grid.doctors.fetch_failed", out.LogFields{
			"date":  date,
			"error": err.Error(),
		})
		return nil, err
	}

	appointments, err := s.dayAppointments(ctx, date)
	if err != nil {
		s.logger.Error("calendar.grid.appointments.fetch_failed", out.LogFields{
			"date":  date,
			"error": err.Error(),
		})
		return nil, err
	}

	timeSlots := s.timeSlots(ctx)

	grid := &domain.DayGrid{
		Date:      date,
		TimeSlots: timeSlots,
		Doctors:   make([]domain.DoctorColumn, 0, len(doctors)),
	}

	for _, doctor := range doctors {
		column := domain.DoctorColumn{
			Doctor:       doctor,
			Appointments: []domain.PlacedAppointment{},
		}

		occupied := make(map[int]bool)
		for _, appointment := range appointments {
			if appointment.DoctorID != doctor.ID {
				continue
			}

			column.Appointments = append(column.Appointments, domain.PlacedAppointment{
				Appointment: appointment,
				Position:    s.position(ctx, appointment.Interval),
			})

			if appointment.Status != domain.AppointmentStatusCancelled {
				occupied[s.window.NormalizeToSlot(appointment.Interval.Start).Minutes()] = true
			}
		}

		column.Slots = make([]domain.GridSlot, 0, len(timeSlots))
		for _, slot := range timeSlots {
			status := domain.SlotStatusFree
			if occupied[slot.Minutes()] {
				status = domain.SlotStatusOccupied
			}
			column.Slots = append(column.Slots, domain.GridSlot{Time: slot, Status: status})
		}

		grid.Doctors = append(grid.Doctors, column)
	}

	return grid, nil
}

func (s *CalendarService) CreateAppointment(ctx context.Context, req domain.CreateAppointmentRequest) (*domain.Appointment, error) {
	if req.DoctorID == 0 || req.PatientName == "" || req.Phone == "" {
		return nil, fmt.Errorf("%w: doctor, patient and phone are required", domain.ErrInvalidAppointment)
	}
	if !req.Type.Valid() {
		return nil, fmt.Errorf("%w: unknown appointment type %q", domain.ErrInvalidAppointment, req.Type)
	}
	if _, err := utils.ParseClinicDate(req.Date); err != nil {
		return nil, err
	}

	interval, err := domain.ParseInterval(req.TimeStart, req.TimeEnd)
	if err != nil {
		return nil, err
	}
	if !s.window.ContainsInterval(interval) {
		return nil, fmt.Errorf("%w: %s", domain.ErrOutsideWorkingHours, interval.Key())
	}

	existing, err := s.dayAppointments(ctx, req.Date)
	if err != nil {
		return nil, err
	}
	for _, other := range existing {
		if other.DoctorID != req.DoctorID || other.Status == domain.AppointmentStatusCancelled {
			continue
		}
		if interval.Overlaps(other.Interval) {
			return nil, fmt.Errorf("%w: %s vs %s", domain.ErrTimeSlotConflict, interval.Key(), other.Interval.Key())
		}
	}

	created, err := s.storePort.CreateAppointment(ctx, domain.Appointment{
		DoctorID:    req.DoctorID,
		Date:        req.Date,
		Interval:    interval,
		PatientName: req.PatientName,
		Phone:       req.Phone,
		Status:      domain.AppointmentStatusScheduled,
		Type:        req.Type,
		Comment:     req.Comment,
	})
	if err != nil {
		s.logger.Error("calendar.appointment.create_failed", out.LogFields{
			"date":  req.Date,
			"error": err.Error(),
		})
		return nil, err
	}

	s.invalidateDay(ctx, req.Date)

	s.logger.Info("calendar.appointment.created", out.LogFields{
		"appointmentId": created.ID,
		"doctorId":      created.DoctorID,
		"date":          created.Date,
		"interval":      created.Interval.Key(),
	})

	return created, nil
}

func (s *CalendarService) UpdateAppointment(ctx context.Context, id int64, req domain.UpdateAppointmentRequest) (*domain.Appointment, error) {
	existing, err := s.storePort.GetAppointment(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.TimeStart != nil || req.TimeEnd != nil {
		start := existing.Interval.Start.String()
		end := existing.Interval.End.String()
		if req.TimeStart != nil {
			start = *req.TimeStart
		}
		if req.TimeEnd != nil {
			end = *req.TimeEnd
		}

		interval, err := domain.ParseInterval(start, end)
		if err != nil {
			return nil, err
		}
		if !s.window.ContainsInterval(interval) {
			return nil, fmt.Errorf("%w: %s", domain.ErrOutsideWorkingHours, interval.Key())
		}
	}
	if req.Status != nil && !req.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidAppointment, *req.Status)
	}
	if req.Type != nil && !req.Type.Valid() {
		return nil, fmt.Errorf("%w: unknown appointment type %q", domain.ErrInvalidAppointment, *req.Type)
	}

	updated, err := s.storePort.UpdateAppointment(ctx, id, req)
	if err != nil {
		s.logger.Error("calendar.appointment.update_failed", out.LogFields{
			"appointmentId": id,
			"error":         err.Error(),
		})
		return nil, err
	}

	s.invalidateDay(ctx, existing.Date)

	return updated, nil
}

// AdvanceStatus переводит запись в следующий статус цикла.
// Повторный вызов для той же записи до завершения первого отклоняется,
// чтобы не писать статусы вне очереди
func (s *CalendarService) AdvanceStatus(ctx context.Context, id int64) (*domain.Appointment, error) {
	if err := s.acquireStatusUpdate(id); err != nil {
		s.logger.Warn("calendar.status.in_flight", out.LogFields{
			"appointmentId": id,
		})
		return nil, err
	}
	defer s.releaseStatusUpdate(id)

	appointment, err := s.storePort.GetAppointment(ctx, id)
	if err != nil {
		return nil, err
	}

	next := appointment.Status.Next()

	updated, err := s.storePort.UpdateAppointment(ctx, id, domain.UpdateAppointmentRequest{
		Status: &next,
	})
	if err != nil {
		// Старый статус остается, оптимистичных изменений нет
		s.logger.Error("calendar.status.update_failed", out.LogFields{
			"appointmentId": id,
			"from":          appointment.Status,
			"to":            next,
			"error":         err.Error(),
		})
		return nil, err
	}

	s.invalidateDay(ctx, appointment.Date)

	s.logger.Info("calendar.status.advanced", out.LogFields{
		"appointmentId": id,
		"from":          appointment.Status,
		"to":            next,
	})

	return updated, nil
}

func (s *CalendarService) GetStats(ctx context.Context, date string) (*domain.Stats, error) {
	if _, err := utils.ParseClinicDate(date); err != nil {
		return nil, err
	}

	appointments, err := s.dayAppointments(ctx, date)
	if err != nil {
		return nil, err
	}

	stats := &domain.Stats{TotalAppointments: len(appointments)}
	for _, appointment := range appointments {
		switch appointment.Status {
		case domain.AppointmentStatusScheduled:
			stats.ScheduledAppointments++
		case domain.AppointmentStatusArrived:
			stats.ArrivedAppointments++
		case domain.AppointmentStatusCompleted:
			stats.CompletedAppointments++
		case domain.AppointmentStatusCancelled:
			stats.CancelledAppointments++
		}
	}

	return stats, nil
}

func (s *CalendarService) InvalidateDayCache(ctx context.Context, date string) {
	s.invalidateDay(ctx, date)
}

func (s *CalendarService) acquireStatusUpdate(id int64) error {
	s.inFlightMu.Lock()
	defer s.inFlightMu.Unlock()

	if _, exists := s.inFlight[id]; exists {
		return domain.ErrStatusUpdateInFlight
	}
	s.inFlight[id] = struct{}{}
	return nil
}

func (s *CalendarService) releaseStatusUpdate(id int64) {
	s.inFlightMu.Lock()
	defer s.inFlightMu.Unlock()
	delete(s.inFlight, id)
}

// Записи дня через кэш, при промахе - поход во внешнее хранилище
func (s *CalendarService) dayAppointments(ctx context.Context, date string) ([]domain.Appointment, error) {
	if s.cachePort != nil {
		if appointments, exists := s.cachePort.GetDayAppointments(ctx, date); exists {
			s.logger.Debug("calendar.day.cache.hit", out.LogFields{
				"date":  date,
				"count": len(appointments),
			})
			return appointments, nil
		}
	}

	appointments, err := s.storePort.ListAppointmentsByDate(ctx, date)
	if err != nil {
		return nil, err
	}

	if s.cachePort != nil {
		s.cachePort.StoreDayAppointments(ctx, date, appointments)
	}

	return appointments, nil
}

func (s *CalendarService) timeSlots(ctx context.Context) []domain.TimeOfDay {
	if s.cachePort != nil {
		if slots, exists := s.cachePort.GetSlots(ctx, s.window); exists {
			return slots
		}
	}

	slots := s.window.Slots()

	if s.cachePort != nil {
		s.cachePort.StoreSlots(ctx, s.window, slots)
	}

	return slots
}

func (s *CalendarService) position(ctx context.Context, interval domain.Interval) domain.AppointmentPosition {
	if s.cachePort != nil {
		if position, exists := s.cachePort.GetPosition(ctx, interval); exists {
			return position
		}
	}

	position := s.window.Position(interval, s.layout)

	if s.cachePort != nil {
		s.cachePort.StorePosition(ctx, interval, position)
	}

	return position
}

// Мутации записей инвалидируют кэш дня, по аналогии с тегами
// Doctor/Appointment во внешнем слое запросов
func (s *CalendarService) invalidateDay(ctx context.Context, date string) {
	if s.cachePort == nil {
		return
	}
	s.cachePort.InvalidateDay(ctx, date)
}
