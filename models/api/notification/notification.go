package notificationapimodels

import (
	"time"

	"github.com/bytesandbalance/jovyne-sub000/models"
	dbmodels "github.com/bytesandbalance/jovyne-sub000/models/db"
)

type NotificationView struct {
	ID           string            `json:"id"`
	Code         models.NotifyCode `json:"code"`
	Title        string            `json:"title"`
	Body         string            `json:"body"`
	Read         bool              `json:"read"`
	CreationDate time.Time         `json:"creation_date"`
}

func NotificationConvert(rec dbmodels.Notification) NotificationView {
	return NotificationView{
		ID:           rec.ID,
		Code:         rec.Code,
		Title:        rec.Title,
		Body:         rec.Body,
		Read:         rec.Read,
		CreationDate: rec.CreatedAt,
	}
}
