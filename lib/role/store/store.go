package rolestore

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/bytesandbalance/jovyne-sub000/models"
	dbmodels "github.com/bytesandbalance/jovyne-sub000/models/db"
)

type Provider interface {
	CreateAccount(rec dbmodels.Account) (id string, err error)
	GetAccountByEmail(email string) (rec *dbmodels.Account, err error)
	GetAccountByID(id string) (rec *dbmodels.Account, err error)
	CreateClient(rec dbmodels.Client) (id string, err error)
	CreatePlanner(rec dbmodels.Planner) (id string, err error)
	CreateHelper(rec dbmodels.Helper) (id string, err error)
	GetClientByID(id string) (rec *dbmodels.Client, err error)
	GetPlannerByID(id string) (rec *dbmodels.Planner, err error)
	GetHelperByID(id string) (rec *dbmodels.Helper, err error)
	GetRoleByAccount(accountID string, kind models.RoleKind) (roleID string, err error)
	UpdateRole(kind models.RoleKind, id string, updMap map[string]interface{}) error
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) CreateAccount(rec dbmodels.Account) (id string, err error) {
	err = i.db.Omit(clause.Associations).
		Save(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetAccountByEmail(email string) (*dbmodels.Account, error) {
	rec := dbmodels.Account{}
	err := i.db.
		Model(&dbmodels.Account{}).
		Where("email = ?", email).
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

func (i impl) GetAccountByID(id string) (*dbmodels.Account, error) {
	rec := dbmodels.Account{}
	err := i.db.
		Model(&dbmodels.Account{}).
		Where("id = ?", id).
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

func (i impl) CreateClient(rec dbmodels.Client) (id string, err error) {
	err = i.db.Omit(clause.Associations).
		Save(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) CreatePlanner(rec dbmodels.Planner) (id string, err error) {
	err = i.db.Omit(clause.Associations).
		Save(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) CreateHelper(rec dbmodels.Helper) (id string, err error) {
	err = i.db.Omit(clause.Associations).
		Save(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetClientByID(id string) (*dbmodels.Client, error) {
	rec := dbmodels.Client{}
	err := i.db.
		Model(&dbmodels.Client{}).
		Where("id = ?", id).
		Preload(clause.Associations).
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

func (i impl) GetPlannerByID(id string) (*dbmodels.Planner, error) {
	rec := dbmodels.Planner{}
	err := i.db.
		Model(&dbmodels.Planner{}).
		Where("id = ?", id).
		Preload(clause.Associations).
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

func (i impl) GetHelperByID(id string) (*dbmodels.Helper, error) {
	rec := dbmodels.Helper{}
	err := i.db.
		Model(&dbmodels.Helper{}).
		Where("id = ?", id).
		Preload(clause.Associations).
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

func (i impl) GetRoleByAccount(accountID string, kind models.RoleKind) (roleID string, err error) {
	var model interface{}
	switch kind {
	case models.RoleKindClient:
		model = &dbmodels.Client{}
	case models.RoleKindPlanner:
		model = &dbmodels.Planner{}
	case models.RoleKindHelper:
		model = &dbmodels.Helper{}
	default:
		return "", errors.Errorf("unknown role kind %v", kind)
	}
	var ids []string
	err = i.db.
		Model(model).
		Where("account_id = ?", accountID).
		Limit(1).
		Pluck("id", &ids).
		Error
	if err != nil {
		return "", err
	}
	if len(ids) == 0 {
		return "", nil
	}
	return ids[0], nil
}

func (i impl) UpdateRole(kind models.RoleKind, id string, updMap map[string]interface{}) error {
	if len(updMap) == 0 {
		return nil
	}
	var model interface{}
	switch kind {
	case models.RoleKindClient:
		model = &dbmodels.Client{}
	case models.RoleKindPlanner:
		model = &dbmodels.Planner{}
	case models.RoleKindHelper:
		model = &dbmodels.Helper{}
	default:
		return errors.Errorf("unknown role kind %v", kind)
	}
	tx := i.db.
		Model(model).
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
