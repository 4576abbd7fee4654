package supabase

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suchimauz/medical-calendar-api/internal/core/domain"
)

func TestParseBoundaryTime(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"09:00", "09:00"},
		{"09:00:00", "09:00"}, // postgres time с секундами
		{"14:30:00", "14:30"},
		{"19:00:00.000000", "19:00"},
	}

	for _, tt := range tests {
		parsed, err := parseBoundaryTime(tt.input)
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.expected, parsed.String(), tt.input)
	}

	_, err := parseBoundaryTime("9:00")
	assert.ErrorIs(t, err, domain.ErrInvalidTimeFormat)
}

func TestAppointmentRowToDomain(t *testing.T) {
	comment := "Повторный прием"
	row := appointmentRow{
		ID:              10,
		DoctorID:        1,
		AppointmentDate: "2026-09-01",
		TimeStart:       "14:00:00",
		TimeEnd:         "15:00:00",
		PatientName:     "Анна Иванова",
		PatientPhone:    "996555123456",
		AppointmentType: "Лечение",
		Comment:         &comment,
		Status:          "Записан",
	}

	appointment, err := row.toDomain()
	require.NoError(t, err)

	assert.Equal(t, int64(10), appointment.ID)
	assert.Equal(t, "14:00-15:00", appointment.Interval.Key())
	assert.Equal(t, domain.AppointmentStatusScheduled, appointment.Status)
	assert.Equal(t, domain.AppointmentTypeTreatment, appointment.Type)
	assert.Equal(t, "Повторный прием", appointment.Comment)
}

func TestAppointmentRowToDomainNilComment(t *testing.T) {
	row := appointmentRow{
		ID:              10,
		DoctorID:        1,
		AppointmentDate: "2026-09-01",
		TimeStart:       "09:00:00",
		TimeEnd:         "09:30:00",
		Status:          "Пришел",
	}

	appointment, err := row.toDomain()
	require.NoError(t, err)
	assert.Equal(t, "", appointment.Comment)
	assert.Equal(t, domain.AppointmentStatusArrived, appointment.Status)
}

func TestAppointmentRowToDomainInvertedInterval(t *testing.T) {
	row := appointmentRow{
		ID:        10,
		TimeStart: "15:00:00",
		TimeEnd:   "14:00:00",
	}

	_, err := row.toDomain()
	assert.ErrorIs(t, err, domain.ErrIntervalInverted)
}

func TestSearchRowDoctorName(t *testing.T) {
	// Вложенный объект doctors приходит из join-а "*,doctors(name)"
	payload := []byte(`{
		"id": 10,
		"doctor_id": 1,
		"appointment_date": "2026-09-01",
		"time_start": "14:00:00",
		"time_end": "15:00:00",
		"patient_name": "Анна Иванова",
		"patient_phone": "996555123456",
		"appointment_type": "Консультация",
		"status": "Записан",
		"doctors": {"name": "Рустам Торогелдие"}
	}`)

	var row searchRow
	require.NoError(t, json.Unmarshal(payload, &row))

	result, err := row.toDomain()
	require.NoError(t, err)
	assert.Equal(t, "Рустам Торогелдие", result.Doctor)
	assert.Equal(t, "Анна Иванова", result.PatientName)
}

func TestSearchRowDoctorNameFallback(t *testing.T) {
	row := searchRow{
		appointmentRow: appointmentRow{
			ID:        10,
			TimeStart: "14:00:00",
			TimeEnd:   "15:00:00",
		},
	}

	result, err := row.toDomain()
	require.NoError(t, err)
	assert.Equal(t, unknownDoctorName, result.Doctor)
}

func TestDoctorRowAvatarFallback(t *testing.T) {
	doctor := doctorRow{ID: 1, Name: "Элеш Асанов"}.toDomain()
	assert.Equal(t, domain.DefaultDoctorAvatar, doctor.Avatar)

	doctor = doctorRow{ID: 2, Name: "Рустам Торогелдие", Avatar: "🦷"}.toDomain()
	assert.Equal(t, "🦷", doctor.Avatar)
}

func TestPatientRowNullableFields(t *testing.T) {
	email := "anna@example.com"
	row := patientRow{
		ID:    7,
		Name:  "Анна Иванова",
		Phone: "996555123456",
		Email: &email,
	}

	patient := row.toDomain()
	assert.Equal(t, "anna@example.com", patient.Email)
	assert.Equal(t, "", patient.BirthDate)
	assert.Equal(t, "", patient.Notes)
}
