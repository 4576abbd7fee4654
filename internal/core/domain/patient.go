package domain

type Patient struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	Email     string `json:"email,omitempty"`
	BirthDate string `json:"birthDate,omitempty"`
	Notes     string `json:"notes,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

type CreatePatientRequest struct {
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	Email     string `json:"email,omitempty"`
	BirthDate string `json:"birthDate,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

type UpdatePatientRequest struct {
	Name      *string `json:"name,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	Email     *string `json:"email,omitempty"`
	BirthDate *string `json:"birthDate,omitempty"`
	Notes     *string `json:"notes,omitempty"`
}

// PatientFilter - фильтр списка пациентов, пустой фильтр возвращает всех
type PatientFilter struct {
	Search string
	Limit  int
}
