package students

type RegisterStudentRequest struct {
	StudentID string  `json:"student_id" binding:"required"`
	Name      string  `json:"name" binding:"required"`
	Course    *string `json:"course,omitempty"`
	YearLevel *int    `json:"year_level,omitempty"`
}

type StudentResponse struct {
	StudentID      string  `json:"student_id"`
	Name           string  `json:"name"`
	Course         *string `json:"course,omitempty"`
	YearLevel      *int    `json:"year_level,omitempty"`
	EquipmentCount int     `json:"equipment_count"`
}

type RegisterResponse struct {
	Student StudentResponse `json:"student"`
	Created bool            `json:"created"`
}
