package dbmodels

import (
	"github.com/lib/pq"
)

// One row per account in exactly one of the three tables below. The row id is
// the role-scoped id used across requests, applications and invoices.

type Client struct {
	BaseModel
	AccountID string `gorm:"type:varchar(36);uniqueIndex"`
	Account   *Account
	FirstName string `gorm:"type:varchar(255)"`
	LastName  string `gorm:"type:varchar(255)"`
	Phone     string `gorm:"type:varchar(50)"`
	Location  string `gorm:"type:varchar(255)"`
	AvatarKey string `gorm:"type:varchar(255)"`
}

type Planner struct {
	BaseModel
	AccountID    string `gorm:"type:varchar(36);uniqueIndex"`
	Account      *Account
	FirstName    string `gorm:"type:varchar(255)"`
	LastName     string `gorm:"type:varchar(255)"`
	BusinessName string `gorm:"type:varchar(255)"`
	Phone        string `gorm:"type:varchar(50)"`
	Location     string `gorm:"type:varchar(255)"`
	Description  string
	Services     pq.StringArray `gorm:"type:text[]"`
	BasePrice    float64
	HourlyRate   float64
	YearsExp     int
	AvatarKey    string `gorm:"type:varchar(255)"`
	PortfolioKey string `gorm:"type:varchar(255)"`
}

type Helper struct {
	BaseModel
	AccountID  string `gorm:"type:varchar(36);uniqueIndex"`
	Account    *Account
	FirstName  string `gorm:"type:varchar(255)"`
	LastName   string `gorm:"type:varchar(255)"`
	Phone      string `gorm:"type:varchar(50)"`
	Location   string `gorm:"type:varchar(255)"`
	Bio        string
	Skills     pq.StringArray `gorm:"type:text[]"`
	HourlyRate float64
	YearsExp   int
	AvatarKey  string `gorm:"type:varchar(255)"`
}

func (c Client) DisplayName() string {
	return c.FirstName + " " + c.LastName
}

func (p Planner) DisplayName() string {
	if p.BusinessName != "" {
		return p.BusinessName
	}
	return p.FirstName + " " + p.LastName
}

func (h Helper) DisplayName() string {
	return h.FirstName + " " + h.LastName
}
