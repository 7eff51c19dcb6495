package repo

import (
	"moiport/internal/modules/user"
)

type UserDb interface {
	CreateUser(u *user.User) (*user.User, error)
	GetUserByID(userID uint) (*user.User, error)
	GetUserByEmail(email string) (*user.User, error)
	ListActiveStaff(tenantID uint, roles []user.Role, excludeUserID *uint) ([]*user.User, error)
	GetUserDeviceTokens(userID uint) ([]user.UserDeviceToken, error)
	SaveDeviceToken(userID uint, deviceToken string) error
}

type repo struct {
	db UserDb
}

func NewRepo(db UserDb) user.Repo {
	return &repo{db: db}
}

func (r *repo) CreateUser(u *user.User) (*user.User, error) {
	return r.db.CreateUser(u)
}

func (r *repo) GetUserByID(userID uint) (*user.User, error) {
	return r.db.GetUserByID(userID)
}

func (r *repo) GetUserByEmail(email string) (*user.User, error) {
	return r.db.GetUserByEmail(email)
}

func (r *repo) ListActiveStaff(tenantID uint, roles []user.Role, excludeUserID *uint) ([]*user.User, error) {
	return r.db.ListActiveStaff(tenantID, roles, excludeUserID)
}

func (r *repo) GetUserDeviceTokens(userID uint) ([]user.UserDeviceToken, error) {
	return r.db.GetUserDeviceTokens(userID)
}

func (r *repo) SaveDeviceToken(userID uint, deviceToken string) error {
	return r.db.SaveDeviceToken(userID, deviceToken)
}
