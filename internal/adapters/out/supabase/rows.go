package supabase

import (
	"fmt"

	"github.com/suchimauz/medical-calendar-api/internal/core/domain"
)

// На границе хранилища поля snake_case, в памяти - camelCase доменные типы

type doctorRow struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Specialty string `json:"specialty"`
	Avatar    string `json:"avatar"`
}

func (r doctorRow) toDomain() domain.Doctor {
	avatar := r.Avatar
	if avatar == "" {
		avatar = domain.DefaultDoctorAvatar
	}
	return domain.Doctor{
		ID:        r.ID,
		Name:      r.Name,
		Specialty: r.Specialty,
		Avatar:    avatar,
	}
}

type appointmentRow struct {
	ID              int64   `json:"id"`
	DoctorID        int64   `json:"doctor_id"`
	AppointmentDate string  `json:"appointment_date"`
	TimeStart       string  `json:"time_start"`
	TimeEnd         string  `json:"time_end"`
	PatientName     string  `json:"patient_name"`
	PatientPhone    string  `json:"patient_phone"`
	AppointmentType string  `json:"appointment_type"`
	Comment         *string `json:"comment"`
	Status          string  `json:"status"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
}

func (r appointmentRow) toDomain() (domain.Appointment, error) {
	interval, err := parseBoundaryInterval(r.TimeStart, r.TimeEnd)
	if err != nil {
		return domain.Appointment{}, fmt.Errorf("appointment %d: %w", r.ID, err)
	}

	comment := ""
	if r.Comment != nil {
		comment = *r.Comment
	}

	return domain.Appointment{
		ID:          r.ID,
		DoctorID:    r.DoctorID,
		Date:        r.AppointmentDate,
		Interval:    interval,
		PatientName: r.PatientName,
		Phone:       r.PatientPhone,
		Status:      domain.AppointmentStatus(r.Status),
		Type:        domain.AppointmentType(r.AppointmentType),
		Comment:     comment,
	}, nil
}

type appointmentInsert struct {
	DoctorID        int64   `json:"doctor_id"`
	AppointmentDate string  `json:"appointment_date"`
	TimeStart       string  `json:"time_start"`
	TimeEnd         string  `json:"time_end"`
	PatientName     string  `json:"patient_name"`
	PatientPhone    string  `json:"patient_phone"`
	AppointmentType string  `json:"appointment_type"`
	Comment         *string `json:"comment"`
	Status          string  `json:"status"`
}

type searchRow struct {
	appointmentRow
	Doctors *struct {
		Name string `json:"name"`
	} `json:"doctors"`
}

const unknownDoctorName = "Неизвестный врач"

func (r searchRow) toDomain() (domain.SearchResult, error) {
	appointment, err := r.appointmentRow.toDomain()
	if err != nil {
		return domain.SearchResult{}, err
	}

	doctorName := unknownDoctorName
	if r.Doctors != nil && r.Doctors.Name != "" {
		doctorName = r.Doctors.Name
	}

	return domain.SearchResult{
		Appointment: appointment,
		Doctor:      doctorName,
	}, nil
}

type patientRow struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Phone     string  `json:"phone"`
	Email     *string `json:"email"`
	BirthDate *string `json:"birth_date"`
	Notes     *string `json:"notes"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}

func (r patientRow) toDomain() domain.Patient {
	patient := domain.Patient{
		ID:        r.ID,
		Name:      r.Name,
		Phone:     r.Phone,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	if r.Email != nil {
		patient.Email = *r.Email
	}
	if r.BirthDate != nil {
		patient.BirthDate = *r.BirthDate
	}
	if r.Notes != nil {
		patient.Notes = *r.Notes
	}
	return patient
}

type patientInsert struct {
	Name      string  `json:"name"`
	Phone     string  `json:"phone"`
	Email     *string `json:"email,omitempty"`
	BirthDate *string `json:"birth_date,omitempty"`
	Notes     *string `json:"notes,omitempty"`
}

// Колонки типа time приходят как "09:00:00", в домене - "09:00"
func parseBoundaryTime(str string) (domain.TimeOfDay, error) {
	if len(str) > 5 {
		str = str[:5]
	}
	return domain.ParseTimeOfDay(str)
}

func parseBoundaryInterval(start, end string) (domain.Interval, error) {
	startTime, err := parseBoundaryTime(start)
	if err != nil {
		return domain.Interval{}, err
	}
	endTime, err := parseBoundaryTime(end)
	if err != nil {
		return domain.Interval{}, err
	}
	return domain.NewInterval(startTime, endTime)
}
