package domain

type SlotStatus string

const (
	SlotStatusFree     SlotStatus = "free"
	SlotStatusOccupied SlotStatus = "occupied"
)

// GridSlot - строка дневной сетки для одного врача
type GridSlot struct {
	Time   TimeOfDay  `json:"time"`
	Status SlotStatus `json:"status"`
}

// PlacedAppointment - запись вместе с вычисленной позицией блока
type PlacedAppointment struct {
	Appointment
	Position AppointmentPosition `json:"position"`
}

// DoctorColumn - колонка врача: его записи и занятость слотов
type DoctorColumn struct {
	Doctor       Doctor              `json:"doctor"`
	Appointments []PlacedAppointment `json:"appointments"`
	Slots        []GridSlot          `json:"slots"`
}

// DayGrid - дневная сетка календаря целиком
type DayGrid struct {
	Date      string         `json:"date"`
	TimeSlots []TimeOfDay    `json:"timeSlots"`
	Doctors   []DoctorColumn `json:"doctors"`
}
