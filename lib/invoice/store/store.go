package invoicestore

import (
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/bytesandbalance/jovyne-sub000/models"
	invoiceapimodels "github.com/bytesandbalance/jovyne-sub000/models/api/invoice"
	dbmodels "github.com/bytesandbalance/jovyne-sub000/models/db"
)

type Side string

const (
	SidePayer Side = "payer"
	SidePayee Side = "payee"
)

type Provider interface {
	Create(rec dbmodels.Invoice) (id string, err error)
	GetByID(id string) (rec *dbmodels.Invoice, err error)
	GetByApplication(applicationID string) (rec *dbmodels.Invoice, err error)
	// UpdateWithStatus applies updMap only while the row still carries the
	// expected status; lost races show up as RowsAffected == 0.
	UpdateWithStatus(id string, expected models.InvoiceStatus, updMap map[string]interface{}) (updated bool, err error)
	ListCount(side Side, roleID string, filter invoiceapimodels.InvoiceFilter) (count int64, err error)
	List(side Side, roleID string, filter invoiceapimodels.InvoiceFilter) (list []dbmodels.Invoice, err error)
	// Totals sums the persisted amount column grouped by status. Dashboards
	// must never recompute rate*hours at read time.
	Totals(side Side, roleID string) (totals []dbmodels.StatusTotal, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.Invoice) (id string, err error) {
	err = i.db.Omit(clause.Associations).
		Save(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(id string) (*dbmodels.Invoice, error) {
	rec := dbmodels.Invoice{}
	err := i.db.
		Model(&dbmodels.Invoice{}).
		Where("id = ?", id).
		Preload("Application").
		Preload("Request").
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

func (i impl) GetByApplication(applicationID string) (*dbmodels.Invoice, error) {
	rec := dbmodels.Invoice{}
	err := i.db.
		Model(&dbmodels.Invoice{}).
		Where("application_id = ?", applicationID).
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

func (i impl) UpdateWithStatus(id string, expected models.InvoiceStatus, updMap map[string]interface{}) (bool, error) {
	tx := i.db.
		Model(&dbmodels.Invoice{}).
		Where("id = ?", id).
		Where("status = ?", expected).
		Updates(updMap)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

func (i impl) ListCount(side Side, roleID string, filter invoiceapimodels.InvoiceFilter) (count int64, err error) {
	var rowCount int64
	tx := i.db.
		Model(dbmodels.Invoice{})
	i.addSide(tx, side, roleID)
	i.addFilter(tx, filter)
	err = tx.Count(&rowCount).Error
	if err != nil {
		log.WithError(err).Error("invoice count query failed")
		return 0, errors.New("invoice count query failed")
	}
	return rowCount, nil
}

func (i impl) List(side Side, roleID string, filter invoiceapimodels.InvoiceFilter) (list []dbmodels.Invoice, err error) {
	list = []dbmodels.Invoice{}
	tx := i.db.
		Model(dbmodels.Invoice{})
	i.addSide(tx, side, roleID)
	i.addFilter(tx, filter)
	page, limit := filter.GetPage()
	offset := (page - 1) * limit
	err = tx.
		Order("created_at desc").
		Limit(limit).
		Offset(offset).
		Find(&list).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return list, nil
}

func (i impl) Totals(side Side, roleID string) (totals []dbmodels.StatusTotal, err error) {
	totals = []dbmodels.StatusTotal{}
	tx := i.db.
		Model(dbmodels.Invoice{}).
		Select("status, SUM(amount) as total, COUNT(*) as count").
		Group("status")
	i.addSide(tx, side, roleID)
	err = tx.Find(&totals).Error
	if err != nil {
		log.WithError(err).Error("invoice totals query failed")
		return nil, errors.New("invoice totals query failed")
	}
	return totals, nil
}

func (i impl) addSide(tx *gorm.DB, side Side, roleID string) {
	if side == SidePayer {
		tx.Where("payer_id = ?", roleID)
	} else {
		tx.Where("payee_id = ?", roleID)
	}
}

func (i impl) addFilter(tx *gorm.DB, filter invoiceapimodels.InvoiceFilter) {
	if len(filter.Statuses) != 0 {
		tx.Where("status in (?)", filter.Statuses)
	}
	if filter.Search != "" {
		tx.Where("LOWER(job_title) like ? OR LOWER(number) like ?",
			"%"+strings.ToLower(filter.Search)+"%",
			"%"+strings.ToLower(filter.Search)+"%")
	}
}
