package out

import (
	"context"

	"github.com/suchimauz/medical-calendar-api/internal/core/domain"
)

type CachePort interface {
	// Кэширование списков слотов по рабочему окну
	GetSlots(ctx context.Context, window domain.WorkingWindow) ([]domain.TimeOfDay, bool)
	StoreSlots(ctx context.Context, window domain.WorkingWindow, slots []domain.TimeOfDay)

	// Кэширование вычисленных позиций по интервалу
	GetPosition(ctx context.Context, interval domain.Interval) (domain.AppointmentPosition, bool)
	StorePosition(ctx context.Context, interval domain.Interval, position domain.AppointmentPosition)
	InvalidatePositions(ctx context.Context)

	// Кэширование записей дня. Мутации записей инвалидируют день -
	// аналог тегов Doctor/Appointment у внешнего слоя запросов
	GetDayAppointments(ctx context.Context, date string) ([]domain.Appointment, bool)
	StoreDayAppointments(ctx context.Context, date string, appointments []domain.Appointment)
	InvalidateDay(ctx context.Context, date string)
	InvalidateAllDays(ctx context.Context)
}
