package requeststore

import (
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/bytesandbalance/jovyne-sub000/models"
	requestapimodels "github.com/bytesandbalance/jovyne-sub000/models/api/request"
	dbmodels "github.com/bytesandbalance/jovyne-sub000/models/db"
)

type Provider interface {
	Create(rec dbmodels.Request) (id string, err error)
	GetByID(id string) (rec *dbmodels.Request, err error)
	Update(id string, updMap map[string]interface{}) error
	// UpdateWithStatus applies updMap only while the row still carries the
	// expected status. Racing transitions lose by RowsAffected == 0.
	UpdateWithStatus(id string, expected models.RequestStatus, updMap map[string]interface{}) (updated bool, err error)
	ListCount(filter requestapimodels.RequestFilter, ownerRef *models.RoleRef) (count int64, err error)
	List(filter requestapimodels.RequestFilter, ownerRef *models.RoleRef) (list []dbmodels.Request, err error)
	CountOpen(kind models.RequestKind) (count int64, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.Request) (id string, err error) {
	err = i.db.Omit(clause.Associations).
		Save(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(id string) (*dbmodels.Request, error) {
	rec := dbmodels.Request{}
	err := i.db.
		Model(&dbmodels.Request{}).
		Where("id = ?", id).
		Preload("Client").
		Preload("Planner").
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (i impl) Update(id string, updMap map[string]interface{}) error {
	if len(updMap) == 0 {
		return nil
	}
	tx := i.db.
		Model(&dbmodels.Request{}).
		Where("id = ?", id).
		Updates(updMap)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return errors.New("record not found")
	}
	return nil
}

func (i impl) UpdateWithStatus(id string, expected models.RequestStatus, updMap map[string]interface{}) (bool, error) {
	tx := i.db.
		Model(&dbmodels.Request{}).
		Where("id = ?", id).
		Where("status = ?", expected).
		Updates(updMap)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

func (i impl) ListCount(filter requestapimodels.RequestFilter, ownerRef *models.RoleRef) (count int64, err error) {
	var rowCount int64
	tx := i.db.
		Model(dbmodels.Request{})
	i.addFilter(tx, filter, ownerRef)
	err = tx.Count(&rowCount).Error
	if err != nil {
		log.WithError(err).Error("request count query failed")
		return 0, errors.New("request count query failed")
	}
	return rowCount, nil
}

func (i impl) List(filter requestapimodels.RequestFilter, ownerRef *models.RoleRef) (list []dbmodels.Request, err error) {
	list = []dbmodels.Request{}
	tx := i.db.
		Model(dbmodels.Request{})
	i.addFilter(tx, filter, ownerRef)
	page, limit := filter.GetPage()
	i.setPage(tx, page, limit)
	err = tx.
		Preload("Client").
		Preload("Planner").
		Find(&list).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return list, nil
}

func (i impl) CountOpen(kind models.RequestKind) (count int64, err error) {
	err = i.db.
		Model(dbmodels.Request{}).
		Where("kind = ?", kind).
		Where("status = ?", models.RequestStatusOpen).
		Count(&count).
		Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (i impl) addSort(tx *gorm.DB, sort requestapimodels.RequestSort) {
	if sort.CreatedAtDesc {
		tx.Order("requests.created_at desc")
	} else {
		tx.Order("requests.created_at asc")
	}
}

func (i impl) addFilter(tx *gorm.DB, filter requestapimodels.RequestFilter, ownerRef *models.RoleRef) {
	if filter.Kind != "" {
		tx = tx.Where("kind = ?", filter.Kind)
	}
	if ownerRef != nil {
		switch ownerRef.Kind {
		case models.RoleKindClient:
			tx = tx.Where("client_id = ?", ownerRef.RoleID)
		case models.RoleKindPlanner:
			tx = tx.Where("planner_id = ?", ownerRef.RoleID)
		}
	}
	if len(filter.Statuses) != 0 {
		tx = tx.Where("status in (?)", filter.Statuses)
	}
	if filter.Search != "" {
		tx.Where("LOWER(title) like ?", "%"+strings.ToLower(filter.Search)+"%")
	}
	if filter.Location != "" {
		tx.Where("LOWER(location) like ?", "%"+strings.ToLower(filter.Location)+"%")
	}
	if filter.DateFrom != nil {
		tx = tx.Where("event_date >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		tx = tx.Where("event_date <= ?", *filter.DateTo)
	}
	i.addSort(tx, filter.Sort)
}

func (i impl) setPage(tx *gorm.DB, page, limit int) {
	offset := (page - 1) * limit
	tx.Limit(limit).Offset(offset)
}
