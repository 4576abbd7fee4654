package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	supa "github.com/supabase-community/supabase-go"
	"github.com/suchimauz/medical-calendar-api/internal/config"
	"github.com/suchimauz/medical-calendar-api/internal/core/domain"
	"github.com/suchimauz/medical-calendar-api/internal/core/ports/out"
)

const (
	tableDoctors      = "doctors"
	tableAppointments = "appointments"
	tablePatients     = "patients"
)

// SupabaseAdapter - адаптер управляемого слоя запросов.
// Все обращения - простые фильтрованные select/insert/update
type SupabaseAdapter struct {
	client *supa.Client
	logger out.LoggerPort
}

func NewSupabaseAdapter(cfg *config.Config, logger out.LoggerPort) (*SupabaseAdapter, error) {
	client, err := supa.NewClient(cfg.Supabase.URL, cfg.Supabase.ServiceKey, nil)
	if err != nil {
		logger.Error("supabase.client.init_failed", out.LogFields{
			"error": err.Error(),
		})
		return nil, err
	}

	return &SupabaseAdapter{
		client: client,
		logger: logger,
	}, nil
}

func (a *SupabaseAdapter) ListDoctors(ctx context.Context) ([]domain.Doctor, error) {
	data, _, err := a.client.From(tableDoctors).
		Select("*", "", false).
		Order("name", nil).
		Execute()
	if err != nil {
		a.logger.Error("supabase.doctors.fetch_failed", out.LogFields{
			"error": err.Error(),
		})
		return nil, fmt.Errorf("list doctors: %w", err)
	}

	var rows []doctorRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("decode doctors: %w", err)
	}

	doctors := make([]domain.Doctor, 0, len(rows))
	for _, row := range rows {
		doctors = append(doctors, row.toDomain())
	}

	return doctors, nil
}

func (a *SupabaseAdapter) ListAppointmentsByDate(ctx context.Context, date string) ([]domain.Appointment, error) {
	data, _, err := a.client.From(tableAppointments).
		Select("*", "", false).
		Eq("appointment_date", date).
		Order("time_start", nil).
		Execute()
	if err != nil {
		a.logger.Error("supabase.appointments.fetch_failed", out.LogFields{
			"date":  date,
			"error": err.Error(),
		})
		return nil, fmt.Errorf("list appointments: %w", err)
	}

	var rows []appointmentRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("decode appointments: %w", err)
	}

	appointments := make([]domain.Appointment, 0, len(rows))
	for _, row := range rows {
		appointment, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		appointments = append(appointments, appointment)
	}

	return appointments, nil
}

func (a *SupabaseAdapter) GetAppointment(ctx context.Context, id int64) (*domain.Appointment, error) {
	data, _, err := a.client.From(tableAppointments).
		Select("*", "", false).
		Eq("id", strconv.FormatInt(id, 10)).
		Execute()
	if err != nil {
		a.logger.Error("supabase.appointment.fetch_failed", out.LogFields{
			"appointmentId": id,
			"error":         err.Error(),
		})
		return nil, fmt.Errorf("get appointment %d: %w", id, err)
	}

	var rows []appointmentRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("decode appointment: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("appointment %d: %w", id, domain.ErrNotFound)
	}

	appointment, err := rows[0].toDomain()
	if err != nil {
		return nil, err
	}

	return &appointment, nil
}

func (a *SupabaseAdapter) CreateAppointment(ctx context.Context, appointment domain.Appointment) (*domain.Appointment, error) {
	insert := appointmentInsert{
		DoctorID:        appointment.DoctorID,
		AppointmentDate: appointment.Date,
		TimeStart:       appointment.Interval.Start.String(),
		TimeEnd:         appointment.Interval.End.String(),
		PatientName:     appointment.PatientName,
		PatientPhone:    appointment.Phone,
		AppointmentType: string(appointment.Type),
		Status:          string(appointment.Status),
	}
	if appointment.Comment != "" {
		insert.Comment = &appointment.Comment
	}

	data, _, err := a.client.From(tableAppointments).
		Insert(insert, false, "", "representation", "").
		Execute()
	if err != nil {
		a.logger.Error("supabase.appointment.insert_failed", out.LogFields{
			"date":  appointment.Date,
			"error": err.Error(),
		})
		return nil, fmt.Errorf("create appointment: %w", err)
	}

	var rows []appointmentRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("decode created appointment: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("create appointment: empty response")
	}

	created, err := rows[0].toDomain()
	if err != nil {
		return nil, err
	}

	return &created, nil
}

func (a *SupabaseAdapter) UpdateAppointment(ctx context.Context, id int64, req domain.UpdateAppointmentRequest) (*domain.Appointment, error) {
	update := map[string]interface{}{
		"updated_at": time.Now().UTC().Format(time.RFC3339),
	}
	if req.Status != nil {
		update["status"] = string(*req.Status)
	}
	if req.TimeStart != nil {
		update["time_start"] = *req.TimeStart
	}
	if req.TimeEnd != nil {
		update["time_end"] = *req.TimeEnd
	}
	if req.PatientName != nil {
		update["patient_name"] = *req.PatientName
	}
	if req.Phone != nil {
		update["patient_phone"] = *req.Phone
	}
	if req.Type != nil {
		update["appointment_type"] = string(*req.Type)
	}
	if req.Comment != nil {
		update["comment"] = *req.Comment
	}

	data, _, err := a.client.From(tableAppointments).
		Update(update, "representation", "").
		Eq("id", strconv.FormatInt(id, 10)).
		Execute()
	if err != nil {
		a.logger.Error("supabase.appointment.update_failed", out.LogFields{
			"appointmentId": id,
			"error":         err.Error(),
		})
		return nil, fmt.Errorf("update appointment %d: %w", id, err)
	}

	var rows []appointmentRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("decode updated appointment: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("appointment %d: %w", id, domain.ErrNotFound)
	}

	updated, err := rows[0].toDomain()
	if err != nil {
		return nil, err
	}

	return &updated, nil
}

func (a *SupabaseAdapter) SearchAppointments(ctx context.Context, term string, limit int) ([]domain.SearchResult, error) {
	filter := fmt.Sprintf("patient_name.ilike.%%%s%%,patient_phone.like.%%%s%%", term, term)

	data, _, err := a.client.From(tableAppointments).
		Select("*,doctors(name)", "", false).
		Or(filter, "").
		Limit(limit, "").
		Execute()
	if err != nil {
		a.logger.Error("supabase.search.failed", out.LogFields{
			"term":  term,
			"error": err.Error(),
		})
		return nil, fmt.Errorf("search appointments: %w", err)
	}

	var rows []searchRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("decode search results: %w", err)
	}

	results := make([]domain.SearchResult, 0, len(rows))
	for _, row := range rows {
		result, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}

	return results, nil
}

func (a *SupabaseAdapter) ListPatients(ctx context.Context, filter domain.PatientFilter) ([]domain.Patient, error) {
	query := a.client.From(tablePatients).
		Select("*", "", false).
		Order("name", nil)

	if filter.Search != "" {
		orFilter := fmt.Sprintf("name.ilike.%%%s%%,phone.like.%%%s%%", filter.Search, filter.Search)
		query = query.Or(orFilter, "")
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit, "")
	}

	data, _, err := query.Execute()
	if err != nil {
		a.logger.Error("supabase.patients.fetch_failed", out.LogFields{
			"search": filter.Search,
			"error":  err.Error(),
		})
		return nil, fmt.Errorf("list patients: %w", err)
	}

	var rows []patientRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("decode patients: %w", err)
	}

	patients := make([]domain.Patient, 0, len(rows))
	for _, row := range rows {
		patients = append(patients, row.toDomain())
	}

	return patients, nil
}

func (a *SupabaseAdapter) CreatePatient(ctx context.Context, req domain.CreatePatientRequest) (*domain.Patient, error) {
	insert := patientInsert{
		Name:  req.Name,
		Phone: req.Phone,
	}
	if req.Email != "" {
		insert.Email = &req.Email
	}
	if req.BirthDate != "" {
		insert.BirthDate = &req.BirthDate
	}
	if req.Notes != "" {
		insert.Notes = &req.Notes
	}

	data, _, err := a.client.From(tablePatients).
		Insert(insert, false, "", "representation", "").
		Execute()
	if err != nil {
		a.logger.Error("supabase.patient.insert_failed", out.LogFields{
			"error": err.Error(),
		})
		return nil, fmt.Errorf("create patient: %w", err)
	}

	var rows []patientRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("decode created patient: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("create patient: empty response")
	}

	patient := rows[0].toDomain()
	return &patient, nil
}

func (a *SupabaseAdapter) UpdatePatient(ctx context.Context, id int64, req domain.UpdatePatientRequest) (*domain.Patient, error) {
	update := map[string]interface{}{
		"updated_at": time.Now().UTC().Format(time.RFC3339),
	}
	if req.Name != nil {
		update["name"] = *req.Name
	}
	if req.Phone != nil {
		update["phone"] = *req.Phone
	}
	if req.Email != nil {
		update["email"] = *req.Email
	}
	if req.BirthDate != nil {
		update["birth_date"] = *req.BirthDate
	}
	if req.Notes != nil {
		update["notes"] = *req.Notes
	}

	data, _, err := a.client.From(tablePatients).
		Update(update, "representation", "").
		Eq("id", strconv.FormatInt(id, 10)).
		Execute()
	if err != nil {
		a.logger.Error("supabase.patient.update_failed", out.LogFields{
			"patientId": id,
			"error":     err.Error(),
		})
		return nil, fmt.Errorf("update patient %d: %w", id, err)
	}

	var rows []patientRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("decode updated patient: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("patient %d: %w", id, domain.ErrNotFound)
	}

	patient := rows[0].toDomain()
	return &patient, nil
}
