package dbmodels

import "github.com/bytesandbalance/jovyne-sub000/models"

type FileKind string

const (
	FileKindProfileImage FileKind = "profile_image"
	FileKindEventImage   FileKind = "event_image"
)

// StoredFile is the metadata row of an object kept in S3. The object key is
// the row ID.
type StoredFile struct {
	BaseModel
	RoleID      string          `gorm:"type:varchar(36);index"`
	RoleKind    models.RoleKind `gorm:"type:varchar(20)"`
	RequestID   *string         `gorm:"type:varchar(36);index"`
	Kind        FileKind        `gorm:"type:varchar(30);index"`
	FileName    string          `gorm:"type:varchar(255)"`
	ContentType string          `gorm:"type:varchar(100)"`
	Size        int64
}
