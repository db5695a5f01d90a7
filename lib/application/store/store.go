package applicationstore

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/bytesandbalance/jovyne-sub000/models"
	dbmodels "github.com/bytesandbalance/jovyne-sub000/models/db"
)

type Provider interface {
	Create(rec dbmodels.Application) (id string, err error)
	GetByID(id string) (rec *dbmodels.Application, err error)
	// GetActiveByCandidate returns the candidate's non-rejected application on
	// the request, if any. Backs the duplicate-application guard.
	GetActiveByCandidate(requestID string, candidate models.RoleRef) (rec *dbmodels.Application, err error)
	ListByRequest(requestID string) (list []dbmodels.Application, err error)
	ListByCandidate(candidate models.RoleRef) (list []dbmodels.Application, err error)
	ListPendingByRequest(requestID string) (list []dbmodels.Application, err error)
	// UpdateWithStatus transitions the row only while it still carries the
	// expected status; RowsAffected == 0 means another call got there first.
	UpdateWithStatus(id string, expected models.ApplicationStatus, updMap map[string]interface{}) (updated bool, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.Application) (id string, err error) {
	err = i.db.Omit(clause.Associations).
		Save(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(id string) (*dbmodels.Application, error) {
	rec := dbmodels.Application{}
	err := i.db.
		Model(&dbmodels.Application{}).
		Where("id = ?", id).
		Preload("Request").
		Preload("Request.Client").
		Preload("Request.Planner").
		Preload("Helper").
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

func (i impl) GetActiveByCandidate(requestID string, candidate models.RoleRef) (*dbmodels.Application, error) {
	rec := dbmodels.Application{}
	tx := i.db.
		Model(&dbmodels.Application{}).
		Where("request_id = ?", requestID).
		Where("status <> ?", models.ApplicationStatusRejected)
	i.addCandidate(tx, candidate)
	err := tx.
		Preload("Request").
		Preload("Helper").
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

func (i impl) ListByRequest(requestID string) (list []dbmodels.Application, err error) {
	list = []dbmodels.Application{}
	err = i.db.
		Model(dbmodels.Application{}).
		Where("request_id = ?", requestID).
		Preload("Request").
		Preload("Helper").
		Preload("Planner").
		Order("created_at asc").
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

func (i impl) ListByCandidate(candidate models.RoleRef) (list []dbmodels.Application, err error) {
	list = []dbmodels.Application{}
	tx := i.db.
		Model(dbmodels.Application{})
	i.addCandidate(tx, candidate)
	err = tx.
		Preload("Request").
		Preload("Helper").
		Preload("Planner").
		Order("created_at desc").
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

func (i impl) ListPendingByRequest(requestID string) (list []dbmodels.Application, err error) {
	list = []dbmodels.Application{}
	err = i.db.
		Model(dbmodels.Application{}).
		Where("request_id = ?", requestID).
		Where("status = ?", models.ApplicationStatusPending).
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

func (i impl) UpdateWithStatus(id string, expected models.ApplicationStatus, updMap map[string]interface{}) (bool, error) {
	tx := i.db.
		Model(&dbmodels.Application{}).
		Where("id = ?", id).
		Where("status = ?", expected).
		Updates(updMap)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

func (i impl) addCandidate(tx *gorm.DB, candidate models.RoleRef) {
	switch candidate.Kind {
	case models.RoleKindHelper:
		tx.Where("helper_id = ?", candidate.RoleID)
	case models.RoleKindPlanner:
		tx.Where("planner_id = ?", candidate.RoleID)
	default:
		tx.Where("1 = 0")
	}
}
