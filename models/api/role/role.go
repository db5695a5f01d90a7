package roleapimodels

import (
	"github.com/bytesandbalance/jovyne-sub000/models"
	dbmodels "github.com/bytesandbalance/jovyne-sub000/models/db"
)

type ProfileView struct {
	RoleID       string          `json:"role_id"`
	Kind         models.RoleKind `json:"kind"`
	FirstName    string          `json:"first_name"`
	LastName     string          `json:"last_name"`
	BusinessName string          `json:"business_name,omitempty"`
	Phone        string          `json:"phone"`
	Location     string          `json:"location"`
	Description  string          `json:"description,omitempty"`
	Skills       []string        `json:"skills,omitempty"`
	Services     []string        `json:"services,omitempty"`
	HourlyRate   float64         `json:"hourly_rate,omitempty"`
	BasePrice    float64         `json:"base_price,omitempty"`
	YearsExp     int             `json:"years_exp,omitempty"`
}

type ProfileUpdate struct {
	FirstName    string   `json:"first_name"`
	LastName     string   `json:"last_name"`
	BusinessName string   `json:"business_name"`
	Phone        string   `json:"phone"`
	Location     string   `json:"location"`
	Description  string   `json:"description"`
	Skills       []string `json:"skills"`
	Services     []string `json:"services"`
	HourlyRate   float64  `json:"hourly_rate"`
	BasePrice    float64  `json:"base_price"`
	YearsExp     int      `json:"years_exp"`
}

func (p ProfileUpdate) Validate() error {
	if p.FirstName == "" || p.LastName == "" {
		return models.NewValidationError("first and last name are required")
	}
	if p.HourlyRate < 0 || p.BasePrice < 0 {
		return models.NewValidationError("rates cannot be negative")
	}
	return nil
}

func ClientConvert(rec dbmodels.Client) ProfileView {
	return ProfileView{
		RoleID:    rec.ID,
		Kind:      models.RoleKindClient,
		FirstName: rec.FirstName,
		LastName:  rec.LastName,
		Phone:     rec.Phone,
		Location:  rec.Location,
	}
}

func PlannerConvert(rec dbmodels.Planner) ProfileView {
	return ProfileView{
		RoleID:       rec.ID,
		Kind:         models.RoleKindPlanner,
		FirstName:    rec.FirstName,
		LastName:     rec.LastName,
		BusinessName: rec.BusinessName,
		Phone:        rec.Phone,
		Location:     rec.Location,
		Description:  rec.Description,
		Services:     rec.Services,
		HourlyRate:   rec.HourlyRate,
		BasePrice:    rec.BasePrice,
		YearsExp:     rec.YearsExp,
	}
}

func HelperConvert(rec dbmodels.Helper) ProfileView {
	return ProfileView{
		RoleID:      rec.ID,
		Kind:        models.RoleKindHelper,
		FirstName:   rec.FirstName,
		LastName:    rec.LastName,
		Phone:       rec.Phone,
		Location:    rec.Location,
		Description: rec.Bio,
		Skills:      rec.Skills,
		HourlyRate:  rec.HourlyRate,
		YearsExp:    rec.YearsExp,
	}
}
