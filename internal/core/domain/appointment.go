package domain

import "errors"

var (
	ErrNotFound             = errors.New("not found")
	ErrTimeSlotConflict     = errors.New("time slot conflicts with an existing appointment")
	ErrOutsideWorkingHours  = errors.New("time is outside working hours")
	ErrStatusUpdateInFlight = errors.New("status update already in flight for this appointment")
	ErrInvalidAppointment   = errors.New("invalid appointment")
	ErrInvalidPatient       = errors.New("invalid patient")
)

// Статусы хранятся в базе как есть, значения исторические
type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "Записан"
	AppointmentStatusArrived   AppointmentStatus = "Пришел"
	AppointmentStatusCompleted AppointmentStatus = "Завершен"
	AppointmentStatusCancelled AppointmentStatus = "Отменен"
)

// Next - следующий статус по двойному клику. Цикл без тупиковых состояний,
// неизвестное значение возвращается к началу цикла
func (s AppointmentStatus) Next() AppointmentStatus {
	switch s {
	case AppointmentStatusScheduled:
		return AppointmentStatusArrived
	case AppointmentStatusArrived:
		return AppointmentStatusCompleted
	case AppointmentStatusCompleted:
		return AppointmentStatusScheduled
	case AppointmentStatusCancelled:
		return AppointmentStatusScheduled
	default:
		return AppointmentStatusScheduled
	}
}

func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentStatusScheduled, AppointmentStatusArrived,
		AppointmentStatusCompleted, AppointmentStatusCancelled:
		return true
	}
	return false
}

type AppointmentType string

const (
	AppointmentTypeTreatment    AppointmentType = "Лечение"
	AppointmentTypeConsultation AppointmentType = "Консультация"
	AppointmentTypeImplantation AppointmentType = "Имплантация"
	AppointmentTypePrevention   AppointmentType = "Профилактика"
)

func (t AppointmentType) Valid() bool {
	switch t {
	case AppointmentTypeTreatment, AppointmentTypeConsultation,
		AppointmentTypeImplantation, AppointmentTypePrevention:
		return true
	}
	return false
}

type Appointment struct {
	ID          int64             `json:"id"`
	DoctorID    int64             `json:"doctorId"`
	Date        string            `json:"date"`
	Interval    Interval          `json:"interval"`
	PatientName string            `json:"patient"`
	Phone       string            `json:"phone"`
	Status      AppointmentStatus `json:"status"`
	Type        AppointmentType   `json:"type"`
	Comment     string            `json:"comment,omitempty"`
}

type CreateAppointmentRequest struct {
	DoctorID    int64           `json:"doctorId"`
	Date        string          `json:"date"`
	TimeStart   string          `json:"timeStart"`
	TimeEnd     string          `json:"timeEnd"`
	PatientName string          `json:"patient"`
	Phone       string          `json:"phone"`
	Type        AppointmentType `json:"type"`
	Comment     string          `json:"comment,omitempty"`
}

// UpdateAppointmentRequest - частичное обновление, nil-поля не трогаются
type UpdateAppointmentRequest struct {
	Status      *AppointmentStatus `json:"status,omitempty"`
	TimeStart   *string            `json:"timeStart,omitempty"`
	TimeEnd     *string            `json:"timeEnd,omitempty"`
	PatientName *string            `json:"patient,omitempty"`
	Phone       *string            `json:"phone,omitempty"`
	Type        *AppointmentType   `json:"type,omitempty"`
	Comment     *string            `json:"comment,omitempty"`
}

// SearchResult - запись с именем врача, результат поиска по пациентам
type SearchResult struct {
	Appointment
	Doctor string `json:"doctor"`
}

// Stats - сводка за день для панели статистики
type Stats struct {
	TotalAppointments     int `json:"totalAppointments"`
	CompletedAppointments int `json:"completedAppointments"`
	CancelledAppointments int `json:"cancelledAppointments"`
	ArrivedAppointments   int `json:"arrivedAppointments"`
	ScheduledAppointments int `json:"scheduledAppointments"`
}
