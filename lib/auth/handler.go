package authhandler

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/bytesandbalance/jovyne-sub000/db"
	rolestore "github.com/bytesandbalance/jovyne-sub000/lib/role/store"
	authutils "github.com/bytesandbalance/jovyne-sub000/lib/utils/auth-utils"
	"github.com/bytesandbalance/jovyne-sub000/models"
	authapimodels "github.com/bytesandbalance/jovyne-sub000/models/api/auth"
	dbmodels "github.com/bytesandbalance/jovyne-sub000/models/db"
)

type Provider interface {
	Register(data authapimodels.RegisterRequest) (resp authapimodels.TokenResponse, hMsg string, err error)
	Login(data authapimodels.LoginRequest) (resp authapimodels.TokenResponse, hMsg string, err error)
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

func (i impl) Register(data authapimodels.RegisterRequest) (authapimodels.TokenResponse, string, error) {
	logger := log.WithField("email", data.Email)
	existing, err := i.store.GetAccountByEmail(data.Email)
	if err != nil {
		return authapimodels.TokenResponse{}, "", err
	}
	if existing != nil {
		return authapimodels.TokenResponse{}, "account with this email already exists", nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(data.Password), bcrypt.DefaultCost)
	if err != nil {
		return authapimodels.TokenResponse{}, "", errors.Wrap(err, "password hashing failed")
	}

	var roleID string
	var accountID string
	err = db.DB.Transaction(func(tx *gorm.DB) error {
		store := rolestore.NewInstance(tx)
		accountID, err = store.CreateAccount(dbmodels.Account{
			Email:        data.Email,
			PasswordHash: string(hash),
			Role:         data.Role,
		})
		if err != nil {
			return err
		}
		switch data.Role {
		case models.RoleKindClient:
			roleID, err = store.CreateClient(dbmodels.Client{
				AccountID: accountID,
				FirstName: data.FirstName,
				LastName:  data.LastName,
				Phone:     data.Phone,
				Location:  data.Location,
			})
		case models.RoleKindPlanner:
			roleID, err = store.CreatePlanner(dbmodels.Planner{
				AccountID: accountID,
				FirstName: data.FirstName,
				LastName:  data.LastName,
				Phone:     data.Phone,
				Location:  data.Location,
			})
		case models.RoleKindHelper:
			roleID, err = store.CreateHelper(dbmodels.Helper{
				AccountID: accountID,
				FirstName: data.FirstName,
				LastName:  data.LastName,
				Phone:     data.Phone,
				Location:  data.Location,
			})
		default:
			return models.NewValidationError("unknown role %v", data.Role)
		}
		return err
	})
	if err != nil {
		logger.WithError(err).Error("registration failed")
		return authapimodels.TokenResponse{}, "", err
	}
	logger.
		WithField("role_id", roleID).
		Info("account registered")
	return i.issueTokens(accountID, data.FirstName+" "+data.LastName, data.Role, roleID)
}

func (i impl) Login(data authapimodels.LoginRequest) (authapimodels.TokenResponse, string, error) {
	logger := log.WithField("email", data.Email)
	account, err := i.store.GetAccountByEmail(data.Email)
	if err != nil {
		return authapimodels.TokenResponse{}, "", err
	}
	if account == nil {
		return authapimodels.TokenResponse{}, "invalid email or password", nil
	}
	if err = bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(data.Password)); err != nil {
		logger.Warn("login with wrong password")
		return authapimodels.TokenResponse{}, "invalid email or password", nil
	}
	roleID, err := i.store.GetRoleByAccount(account.ID, account.Role)
	if err != nil {
		return authapimodels.TokenResponse{}, "", err
	}
	if roleID == "" {
		return authapimodels.TokenResponse{}, "", models.NewRoleNotFoundError(account.ID)
	}
	return i.issueTokens(account.ID, account.Email, account.Role, roleID)
}

func (i impl) issueTokens(accountID, name string, role models.RoleKind, roleID string) (authapimodels.TokenResponse, string, error) {
	access, err := authutils.GetToken(accountID, name, role, roleID)
	if err != nil {
		return authapimodels.TokenResponse{}, "", errors.Wrap(err, "token signing failed")
	}
	refresh, err := authutils.GetRefreshToken(accountID, name)
	if err != nil {
		return authapimodels.TokenResponse{}, "", errors.Wrap(err, "refresh token signing failed")
	}
	return authapimodels.TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		Role:         role,
		RoleID:       roleID,
	}, "", nil
}
