package rolehandler

import (
	"github.com/lib/pq"
	log "github.com/sirupsen/logrus"

	"github.com/bytesandbalance/jovyne-sub000/db"
	rolestore "github.com/bytesandbalance/jovyne-sub000/lib/role/store"
	"github.com/bytesandbalance/jovyne-sub000/models"
	roleapimodels "github.com/bytesandbalance/jovyne-sub000/models/api/role"
)

type Provider interface {
	Resolve(accountID string) (ref models.RoleRef, err error)
	GetProfile(ref models.RoleRef) (view roleapimodels.ProfileView, err error)
	UpdateProfile(ref models.RoleRef, data roleapimodels.ProfileUpdate) error
	DisplayName(ref models.RoleRef) (name string, err error)
	ContactEmail(ref models.RoleRef) (email string, emailNotify bool, err error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		store: rolestore.NewInstance(db.DB),
	}
}

type impl struct {
	store rolestore.Provider
}

// Resolve maps an authenticated account to its single role record. Every
// lifecycle call starts here; domain records never reference account ids.
func (i impl) Resolve(accountID string) (models.RoleRef, error) {
	account, err := i.store.GetAccountByID(accountID)
	if err != nil {
		return models.RoleRef{}, err
	}
	if account == nil {
		return models.RoleRef{}, models.NewRoleNotFoundError(accountID)
	}
	roleID, err := i.store.GetRoleByAccount(accountID, account.Role)
	if err != nil {
		return models.RoleRef{}, err
	}
	if roleID == "" {
		return models.RoleRef{}, models.NewRoleNotFoundError(accountID)
	}
	return models.RoleRef{Kind: account.Role, RoleID: roleID}, nil
}

func (i impl) GetProfile(ref models.RoleRef) (roleapimodels.ProfileView, error) {
	switch ref.Kind {
	case models.RoleKindClient:
		rec, err := i.store.GetClientByID(ref.RoleID)
		if err != nil {
			return roleapimodels.ProfileView{}, err
		}
		if rec == nil {
			return roleapimodels.ProfileView{}, models.NewNotFoundError("client profile")
		}
		return roleapimodels.ClientConvert(*rec), nil
	case models.RoleKindPlanner:
		rec, err := i.store.GetPlannerByID(ref.RoleID)
		if err != nil {
			return roleapimodels.ProfileView{}, err
		}
		if rec == nil {
			return roleapimodels.ProfileView{}, models.NewNotFoundError("planner profile")
		}
		return roleapimodels.PlannerConvert(*rec), nil
	case models.RoleKindHelper:
		rec, err := i.store.GetHelperByID(ref.RoleID)
		if err != nil {
			return roleapimodels.ProfileView{}, err
		}
		if rec == nil {
			return roleapimodels.ProfileView{}, models.NewNotFoundError("helper profile")
		}
		return roleapimodels.HelperConvert(*rec), nil
	}
	return roleapimodels.ProfileView{}, models.NewRoleNotFoundError(ref.RoleID)
}

func (i impl) UpdateProfile(ref models.RoleRef, data roleapimodels.ProfileUpdate) error {
	logger := log.
		WithField("role_id", ref.RoleID).
		WithField("role_kind", ref.Kind)
	updMap := map[string]interface{}{
		"FirstName": data.FirstName,
		"LastName":  data.LastName,
		"Phone":     data.Phone,
		"Location":  data.Location,
	}
	switch ref.Kind {
	case models.RoleKindPlanner:
		updMap["BusinessName"] = data.BusinessName
		updMap["Description"] = data.Description
		updMap["Services"] = pq.StringArray(data.Services)
		updMap["HourlyRate"] = data.HourlyRate
		updMap["BasePrice"] = data.BasePrice
		updMap["YearsExp"] = data.YearsExp
	case models.RoleKindHelper:
		updMap["Bio"] = data.Description
		updMap["Skills"] = pq.StringArray(data.Skills)
		updMap["HourlyRate"] = data.HourlyRate
		updMap["YearsExp"] = data.YearsExp
	}
	err := i.store.UpdateRole(ref.Kind, ref.RoleID, updMap)
	if err != nil {
		logger.WithError(err).Error("profile update failed")
		return err
	}
	logger.Info("profile updated")
	return nil
}

func (i impl) DisplayName(ref models.RoleRef) (string, error) {
	switch ref.Kind {
	case models.RoleKindClient:
		rec, err := i.store.GetClientByID(ref.RoleID)
		if err != nil || rec == nil {
			return "", firstErr(err, models.NewNotFoundError("client"))
		}
		return rec.DisplayName(), nil
	case models.RoleKindPlanner:
		rec, err := i.store.GetPlannerByID(ref.RoleID)
		if err != nil || rec == nil {
			return "", firstErr(err, models.NewNotFoundError("planner"))
		}
		return rec.DisplayName(), nil
	case models.RoleKindHelper:
		rec, err := i.store.GetHelperByID(ref.RoleID)
		if err != nil || rec == nil {
			return "", firstErr(err, models.NewNotFoundError("helper"))
		}
		return rec.DisplayName(), nil
	}
	return "", models.NewRoleNotFoundError(ref.RoleID)
}

func (i impl) ContactEmail(ref models.RoleRef) (string, bool, error) {
	accountID := ""
	switch ref.Kind {
	case models.RoleKindClient:
		rec, err := i.store.GetClientByID(ref.RoleID)
		if err != nil {
			return "", false, err
		}
		if rec != nil {
			accountID = rec.AccountID
		}
	case models.RoleKindPlanner:
		rec, err := i.store.GetPlannerByID(ref.RoleID)
		if err != nil {
			return "", false, err
		}
		if rec != nil {
			accountID = rec.AccountID
		}
	case models.RoleKindHelper:
		rec, err := i.store.GetHelperByID(ref.RoleID)
		if err != nil {
			return "", false, err
		}
		if rec != nil {
			accountID = rec.AccountID
		}
	}
	if accountID == "" {
		return "", false, models.NewRoleNotFoundError(ref.RoleID)
	}
	account, err := i.store.GetAccountByID(accountID)
	if err != nil {
		return "", false, err
	}
	if account == nil {
		return "", false, models.NewRoleNotFoundError(ref.RoleID)
	}
	return account.Email, account.EmailNotify, nil
}

func firstErr(err error, fallback error) error {
	if err != nil {
		return err
	}
	return fallback
}
