package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	ErrInvalidTimeFormat = errors.New("invalid time format, expected HH:MM")
	ErrTimeOutOfRange    = errors.New("time out of range")
	ErrIntervalInverted  = errors.New("interval end must be after start")
	ErrInvalidWindow     = errors.New("invalid working window")
)

const minutesPerDay = 24 * 60

// TimeOfDay - время в рамках одного дня, хранится в минутах от полуночи
type TimeOfDay struct {
	minutes int
}

func NewTimeOfDay(minutes int) (TimeOfDay, error) {
	if minutes < 0 || minutes >= minutesPerDay {
		return TimeOfDay{}, fmt.Errorf("%w: %d minutes", ErrTimeOutOfRange, minutes)
	}
	return TimeOfDay{minutes: minutes}, nil
}

// ParseTimeOfDay парсит строку вида "09:30". Некорректный ввод - это ошибка,
// а не мусорное значение
func ParseTimeOfDay(str string) (TimeOfDay, error) {
	parts := strings.Split(str, ":")
	if len(parts) != 2 || len(parts[0]) != 2 || len(parts[1]) != 2 {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, str)
	}

	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, str)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, str)
	}

	if hours < 0 || hours > 23 || minutes < 0 || minutes > 59 {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrTimeOutOfRange, str)
	}

	return TimeOfDay{minutes: hours*60 + minutes}, nil
}

func (t TimeOfDay) Minutes() int {
	return t.minutes
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.minutes/60, t.minutes%60)
}

func (t TimeOfDay) Before(other TimeOfDay) bool {
	return t.minutes < other.minutes
}

func (t TimeOfDay) After(other TimeOfDay) bool {
	return t.minutes > other.minutes
}

func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidTimeFormat, string(data))
	}

	parsed, err := ParseTimeOfDay(str)
	if err != nil {
		return err
	}

	*t = parsed
	return nil
}

// Interval - интервал записи на прием в рамках рабочего дня
type Interval struct {
	Start TimeOfDay `json:"timeStart"`
	End   TimeOfDay `json:"timeEnd"`
}

func NewInterval(start, end TimeOfDay) (Interval, error) {
	interval := Interval{Start: start, End: end}
	return interval, interval.Validate()
}

func ParseInterval(start, end string) (Interval, error) {
	startTime, err := ParseTimeOfDay(start)
	if err != nil {
		return Interval{}, err
	}
	endTime, err := ParseTimeOfDay(end)
	if err != nil {
		return Interval{}, err
	}
	return NewInterval(startTime, endTime)
}

func (i Interval) Validate() error {
	if i.End.minutes <= i.Start.minutes {
		return fmt.Errorf("%w: %s", ErrIntervalInverted, i.Key())
	}
	return nil
}

func (i Interval) DurationMinutes() int {
	return i.End.minutes - i.Start.minutes
}

// Overlaps - стандартная проверка пересечения полуоткрытых интервалов,
// касание границ пересечением не считается
func (i Interval) Overlaps(other Interval) bool {
	return i.Start.minutes < other.End.minutes && i.End.minutes > other.Start.minutes
}

// Key - ключ для кэша позиций, формат "09:00-10:00"
func (i Interval) Key() string {
	return i.Start.String() + "-" + i.End.String()
}

// WorkingWindow - рабочий день сетки: границы в часах и шаг слотов в минутах
type WorkingWindow struct {
	StartHour    int
	EndHour      int
	SlotDuration int
}

func DefaultWorkingWindow() WorkingWindow {
	return WorkingWindow{StartHour: 9, EndHour: 19, SlotDuration: 30}
}

func (w WorkingWindow) Validate() error {
	if w.StartHour < 0 || w.EndHour > 24 || w.StartHour >= w.EndHour {
		return fmt.Errorf("%w: start=%d end=%d", ErrInvalidWindow, w.StartHour, w.EndHour)
	}
	if w.SlotDuration <= 0 || (w.EndHour-w.StartHour)*60%w.SlotDuration != 0 {
		return fmt.Errorf("%w: slot duration %d", ErrInvalidWindow, w.SlotDuration)
	}
	return nil
}

// Key - ключ для кэша списков слотов
func (w WorkingWindow) Key() string {
	return fmt.Sprintf("%d-%d-%d", w.StartHour, w.EndHour, w.SlotDuration)
}

func (w WorkingWindow) startMinutes() int {
	return w.StartHour * 60
}

func (w WorkingWindow) endMinutes() int {
	return w.EndHour * 60
}

// Slots генерирует последовательность слотов от начала до конца окна включительно
func (w WorkingWindow) Slots() []TimeOfDay {
	count := (w.endMinutes()-w.startMinutes())/w.SlotDuration + 1
	slots := make([]TimeOfDay, 0, count)
	for m := w.startMinutes(); m <= w.endMinutes(); m += w.SlotDuration {
		slots = append(slots, TimeOfDay{minutes: m})
	}
	return slots
}

// Contains - попадает ли время в рабочие часы, обе границы включительно
func (w WorkingWindow) Contains(t TimeOfDay) bool {
	return t.minutes >= w.startMinutes() && t.minutes <= w.endMinutes()
}

func (w WorkingWindow) ContainsInterval(i Interval) bool {
	return w.Contains(i.Start) && w.Contains(i.End)
}

// NormalizeToSlot округляет время до ближайшей границы слота.
// Середина между слотами округляется вверх
func (w WorkingWindow) NormalizeToSlot(t TimeOfDay) TimeOfDay {
	rounded := int(math.Round(float64(t.minutes)/float64(w.SlotDuration))) * w.SlotDuration
	return w.clamp(rounded)
}

func (w WorkingWindow) clamp(minutes int) TimeOfDay {
	if minutes < w.startMinutes() {
		minutes = w.startMinutes()
	}
	if minutes > w.endMinutes() {
		minutes = w.endMinutes()
	}
	return TimeOfDay{minutes: minutes}
}

// GridLayout - пиксельные константы дневной сетки
type GridLayout struct {
	SlotHeight           float64
	MinAppointmentHeight float64
	AppointmentMargin    float64
}

func DefaultGridLayout() GridLayout {
	return GridLayout{
		SlotHeight:           60,
		MinAppointmentHeight: 30,
		AppointmentMargin:    8,
	}
}

// AppointmentPosition - вычисленная позиция блока записи на сетке
type AppointmentPosition struct {
	Top    float64 `json:"top"`
	Height float64 `json:"height"`
	ZIndex int     `json:"zIndex"`
}

const appointmentZIndex = 10

func (w WorkingWindow) pixelsPerMinute(layout GridLayout) float64 {
	return layout.SlotHeight / float64(w.SlotDuration)
}

// Position считает позицию блока записи. Времена за пределами окна
// деградируют в прижатый к верху блок, а не в ошибку
func (w WorkingWindow) Position(interval Interval, layout GridLayout) AppointmentPosition {
	ppm := w.pixelsPerMinute(layout)

	top := float64(interval.Start.minutes-w.startMinutes()) * ppm
	top = math.Max(0, top)

	height := float64(interval.DurationMinutes())*ppm - layout.AppointmentMargin
	height = math.Max(layout.MinAppointmentHeight, height)

	return AppointmentPosition{
		Top:    top,
		Height: height,
		ZIndex: appointmentZIndex,
	}
}

// TimeAtOffset - обратное преобразование: пиксельное смещение в время,
// округленное до целой минуты и зажатое в рамки окна
func (w WorkingWindow) TimeAtOffset(yPixels float64, layout GridLayout) TimeOfDay {
	minutesFromStart := int(math.Round(yPixels / w.pixelsPerMinute(layout)))
	return w.clamp(w.startMinutes() + minutesFromStart)
}
