package parser

import (
	"context"
	"fmt"
	"time"

	"cvmatch_backend/internal/models"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
)

// RemoteParser вызывает внешний сервис извлечения данных из CV по HTTP.
// Сам сервис (AI-модель) - черный ящик; здесь только контракт и маппинг ответа.
type RemoteParser struct {
	client  *resty.Client
	baseURL string
	apiKey  string
	checks  FileChecks
}

type RemoteConfig struct {
	BaseURL     string
	APIKey      string
	Timeout     time.Duration
	MaxFileSize int64
	AllowedExts []string
}

func NewRemoteParser(cfg RemoteConfig) *RemoteParser {
	client := resty.New().SetTimeout(cfg.Timeout)

	return &RemoteParser{
		client:  client,
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		checks: FileChecks{
			MaxFileSize: cfg.MaxFileSize,
			AllowedExts: cfg.AllowedExts,
		},
	}
}

func (p *RemoteParser) ParseCV(ctx context.Context, filePath string) (*models.ParsedCVData, error) {
	if err := p.checks.Validate(filePath); err != nil {
		return nil, err
	}

	resp, err := p.client.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+p.apiKey).
		SetFile("file", filePath).
		Post(p.baseURL + "/v1/parse")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseFailed, err)
	}

	if resp.IsError() {
		return nil, fmt.Errorf("%w: parser service returned %d", ErrParseFailed, resp.StatusCode())
	}

	return mapResponse(resp.String()), nil
}

// mapResponse раскладывает JSON-ответ парсера в типизированный ParsedCVData.
// Отсутствующие/null поля остаются nil - это валидный результат.
func mapResponse(body string) *models.ParsedCVData {
	root := gjson.Parse(body)
	data := &models.ParsedCVData{}

	data.TotalYearsExperience = floatPtr(root.Get("total_years_experience"))
	data.JobChangesFrequency = floatPtr(root.Get("job_changes_frequency"))
	data.RolesPositions = stringSlice(root.Get("roles_positions"))
	data.Skills = stringSlice(root.Get("skills"))
	data.DominantIndustries = stringSlice(root.Get("dominant_industries"))

	if hist := root.Get("employment_history"); hist.IsArray() {
		var records []models.EmploymentRecord
		hist.ForEach(func(_, item gjson.Result) bool {
			records = append(records, models.EmploymentRecord{
				Company:        item.Get("company").String(),
				Position:       item.Get("position").String(),
				StartDate:      item.Get("start_date").String(),
				EndDate:        item.Get("end_date").String(),
				DurationMonths: item.Get("duration_months").Float(),
				Description:    item.Get("description").String(),
			})
			return true
		})
		data.EmploymentHistory = records
	}

	if ci := root.Get("contact_info"); ci.IsObject() {
		data.ContactInfo = &models.ContactInfo{
			Name:  ci.Get("name").String(),
			Email: ci.Get("email").String(),
			Phone: ci.Get("phone").String(),
		}
	}

	if edu := root.Get("education"); edu.IsArray() {
		var records []models.EducationRecord
		edu.ForEach(func(_, item gjson.Result) bool {
			records = append(records, models.EducationRecord{
				Institution: item.Get("institution").String(),
				Degree:      item.Get("degree").String(),
				Year:        item.Get("year").String(),
			})
			return true
		})
		data.Education = records
	}

	return data
}

func floatPtr(v gjson.Result) *float64 {
	if !v.Exists() || v.Type == gjson.Null {
		return nil
	}
	f := v.Float()
	return &f
}

func stringSlice(v gjson.Result) []string {
	if !v.IsArray() {
		return nil
	}
	var out []string
	v.ForEach(func(_, item gjson.Result) bool {
		out = append(out, item.String())
		return true
	})
	return out
}
