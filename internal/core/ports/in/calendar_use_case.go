package in

import (
	"context"

	"github.com/suchimauz/medical-calendar-api/internal/core/domain"
)

type CalendarUseCase interface {
	// Дневная сетка: слоты, врачи, позиции блоков записей
	GetDayGrid(ctx context.Context, date string) (*domain.DayGrid, error)

	CreateAppointment(ctx context.Context, req domain.CreateAppointmentRequest) (*domain.Appointment, error)
	UpdateAppointment(ctx context.Context, id int64, req domain.UpdateAppointmentRequest) (*domain.Appointment, error)

	// Переход статуса по двойному клику, сериализован по id записи
	AdvanceStatus(ctx context.Context, id int64) (*domain.Appointment, error)

	GetStats(ctx context.Context, date string) (*domain.Stats, error)

	// Инвалидация кэша дня по событию из внешней системы
	InvalidateDayCache(ctx context.Context, date string)
}
