package db

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	dbmodels "github.com/bytesandbalance/jovyne-sub000/models/db"
)

func AutoMigrateDB() error {
	DB.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\";")
	log.Info("running migrations")
	if err := DB.AutoMigrate(&dbmodels.Account{}); err != nil {
		return errors.Wrap(err, "migration of Account failed")
	}
	if err := DB.AutoMigrate(&dbmodels.Client{}); err != nil {
		return errors.Wrap(err, "migration of Client failed")
	}
	if err := DB.AutoMigrate(&dbmodels.Planner{}); err != nil {
		return errors.Wrap(err, "migration of Planner failed")
	}
	if err := DB.AutoMigrate(&dbmodels.Helper{}); err != nil {
		return errors.Wrap(err, "migration of Helper failed")
	}
	if err := DB.AutoMigrate(&dbmodels.Request{}); err != nil {
		return errors.Wrap(err, "migration of Request failed")
	}
	if err := DB.AutoMigrate(&dbmodels.Application{}); err != nil {
		return errors.Wrap(err, "migration of Application failed")
	}
	// at most one non-rejected application per candidate and request; the
	// store-level read check alone cannot serialize concurrent submits
	if err := DB.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_app_active_helper
		ON applications (request_id, helper_id)
		WHERE status <> 'rejected' AND helper_id IS NOT NULL`).Error; err != nil {
		return errors.Wrap(err, "unique index on helper applications failed")
	}
	if err := DB.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_app_active_planner
		ON applications (request_id, planner_id)
		WHERE status <> 'rejected' AND planner_id IS NOT NULL`).Error; err != nil {
		return errors.Wrap(err, "unique index on planner applications failed")
	}
	if err := DB.AutoMigrate(&dbmodels.Invoice{}); err != nil {
		return errors.Wrap(err, "migration of Invoice failed")
	}
	if err := DB.AutoMigrate(&dbmodels.Notification{}); err != nil {
		return errors.Wrap(err, "migration of Notification failed")
	}
	if err := DB.AutoMigrate(&dbmodels.StoredFile{}); err != nil {
		return errors.Wrap(err, "migration of StoredFile failed")
	}
	log.Info("migrations finished")
	return nil
}
