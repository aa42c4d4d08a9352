package models

// EmploymentRecord - одна позиция из истории занятости кандидата
type EmploymentRecord struct {
	Company        string  `json:"company"`
	Position       string  `json:"position"`
	StartDate      string  `json:"start_date"`
	EndDate        string  `json:"end_date"`
	DurationMonths float64 `json:"duration_months"`
	Description    string  `json:"description"`
}

type ContactInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type EducationRecord struct {
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	Year        string `json:"year"`
}

// ParsedCVData - структурированная выжимка из CV, которую возвращает внешний
// парсер. Все поля опциональны: пустой документ - не ошибка.
// contact_info и education не участвуют в скоринге.
type ParsedCVData struct {
	TotalYearsExperience *float64           `json:"total_years_experience"`
	EmploymentHistory    []EmploymentRecord `json:"employment_history"`
	JobChangesFrequency  *float64           `json:"job_changes_frequency"` // смен работы в год
	RolesPositions       []string           `json:"roles_positions"`
	Skills               []string           `json:"skills"`
	DominantIndustries   []string           `json:"dominant_industries"` // упорядочены по доминантности
	ContactInfo          *ContactInfo       `json:"contact_info"`
	Education            []EducationRecord  `json:"education"`
}

// ProjectCV - один загруженный документ кандидата внутри проекта.
//
// Lifecycle: parsed_data = NULL при загрузке, заполняется парсером один раз.
// score/ranking = NULL до прогона матчинга; сбрасываются в NULL при изменении
// критериев проекта; перезаписываются ПАРОЙ при каждом успешном прогоне.
type ProjectCV struct {
	BaseModel
	ProjectID string `gorm:"not null;index" json:"project_id"`
	OwnerID   string `gorm:"index" json:"owner_id"`

	FileName string `gorm:"not null" json:"file_name"`
	FilePath string `gorm:"not null" json:"file_path"`

	ParsedData *ParsedCVData `gorm:"type:jsonb;serializer:json" json:"parsed_data"`

	Score   *float64 `json:"score"`
	Ranking *int     `json:"ranking"`
}

// IsParsed сообщает, готов ли CV к скорингу
func (cv *ProjectCV) IsParsed() bool {
	return cv.ParsedData != nil
}
