package domain

type Doctor struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Specialty string `json:"specialty"`
	Avatar    string `json:"avatar"`
}

const DefaultDoctorAvatar = "👨‍⚕️"
