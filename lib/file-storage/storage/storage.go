package filesdbstorage

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"

	dbmodels "github.com/bytesandbalance/jovyne-sub000/models/db"
)

type Provider interface {
	SaveFile(rec dbmodels.StoredFile) (id string, err error)
	GetByID(id string) (rec *dbmodels.StoredFile, err error)
	ListByRole(roleID string, kind dbmodels.FileKind) (list []dbmodels.StoredFile, err error)
	ListByRequest(requestID string) (list []dbmodels.StoredFile, err error)
}

func NewInstance(db *gorm.DB) Provider {
	return &impl{db: db}
}

type impl struct {
	db *gorm.DB
}

func (i impl) SaveFile(rec dbmodels.StoredFile) (id string, err error) {
	err = i.db.Save(&rec).Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(id string) (*dbmodels.StoredFile, error) {
	rec := dbmodels.StoredFile{}
	err := i.db.
		Model(&dbmodels.StoredFile{}).
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

func (i impl) ListByRole(roleID string, kind dbmodels.FileKind) (list []dbmodels.StoredFile, err error) {
	err = i.db.
		Model(&dbmodels.StoredFile{}).
		Where("role_id = ? AND kind = ?", roleID, kind).
		Order("created_at desc").
		Find(&list).
		Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return list, nil
}

func (i impl) ListByRequest(requestID string) (list []dbmodels.StoredFile, err error) {
	err = i.db.
		Model(&dbmodels.StoredFile{}).
		Where("request_id = ?", requestID).
		Order("created_at desc").
		Find(&list).
		Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return list, nil
}
