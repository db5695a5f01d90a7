package dbmodels

import (
	"github.com/bytesandbalance/jovyne-sub000/models"
)

// Account is the authentication identity. Domain records never reference it
// directly; they reference the role row resolved from it.
type Account struct {
	BaseModel
	Email        string          `gorm:"type:varchar(255);uniqueIndex"`
	PasswordHash string          `gorm:"type:varchar(255)"`
	Role         models.RoleKind `gorm:"type:varchar(20)"`
	EmailNotify  bool            `gorm:"default:true"`
}
