package dbmodels

import (
	"github.com/bytesandbalance/jovyne-sub000/models"
)

// Notification is a persisted feed entry for a role record.
type Notification struct {
	BaseModel
	RoleID   string            `gorm:"type:varchar(36);index"`
	RoleKind models.RoleKind   `gorm:"type:varchar(20)"`
	Code     models.NotifyCode `gorm:"type:varchar(50)"`
	Title    string            `gorm:"type:varchar(255)"`
	Body     string
	Read     bool `gorm:"default:false;index"`
}
