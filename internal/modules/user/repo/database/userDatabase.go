package database

import (
	"errors"
	"log/slog"

	"gorm.io/gorm"

	"moiport/internal/modules/user"
)

type UserDatabase struct {
	db  *gorm.DB
	log *slog.Logger
}

func NewUserDatabase(db *gorm.DB, log *slog.Logger) *UserDatabase {
	return &UserDatabase{
		db:  db,
		log: log,
	}
}

func (r *UserDatabase) CreateUser(u *user.User) (*user.User, error) {
	op := "UserDatabase.CreateUser"
	log := r.log.With(slog.String("op", op), slog.String("email", u.Email))

	if err := r.db.Create(u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			log.Warn("email already registered")
			return nil, user.ErrEmailTaken
		}
		log.Error("failed to create user in DB", "error", err)
		return nil, user.ErrUserInternal
	}

	log.Info("user created successfully in DB", slog.Uint64("userID", uint64(u.UserID)))
	return u, nil
}

func (r *UserDatabase) GetUserByID(userID uint) (*user.User, error) {
	op := "UserDatabase.GetUserByID"
	log := r.log.With(slog.String("op", op), slog.Uint64("userID", uint64(userID)))
	var u user.User

	if err := r.db.First(&u, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn("user not found by ID")
			return nil, user.ErrUserNotFound
		}
		log.Error("failed to get user by ID from DB", "error", err)
		return nil, user.ErrUserInternal
	}

	return &u, nil
}

func (r *UserDatabase) GetUserByEmail(email string) (*user.User, error) {
	op := "UserDatabase.GetUserByEmail"
	log := r.log.With(slog.String("op", op), slog.String("email", email))
	var u user.User

	if err := r.db.Where("email = ?", email).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn("user not found by email")
			return nil, user.ErrUserNotFound
		}
		log.Error("failed to get user by email from DB", "error", err)
		return nil, user.ErrUserInternal
	}

	return &u, nil
}

// ListActiveStaff returns the tenant's active users whose role is in the
// given set, in stable user_id order. The query is executed fresh on every
// call; results are never cached so the roster cannot go stale.
func (r *UserDatabase) ListActiveStaff(tenantID uint, roles []user.Role, excludeUserID *uint) ([]*user.User, error) {
	op := "UserDatabase.ListActiveStaff"
	log := r.log.With(slog.String("op", op), slog.Uint64("tenantID", uint64(tenantID)))
	var users []*user.User

	query := r.db.
		Where("tenant_id = ?", tenantID).
		Where("is_active = ?", true).
		Where("role IN ?", roles)

	if excludeUserID != nil {
		query = query.Where("user_id <> ?", *excludeUserID)
		log = log.With(slog.Uint64("excludeUserID", uint64(*excludeUserID)))
	}

	if err := query.Order("user_id ASC").Find(&users).Error; err != nil {
		log.Error("failed to list active staff from DB", "error", err)
		return nil, user.ErrUserInternal
	}

	log.Debug("active staff resolved", slog.Int("count", len(users)))
	return users, nil
}

func (r *UserDatabase) GetUserDeviceTokens(userID uint) ([]user.UserDeviceToken, error) {
	op := "UserDatabase.GetUserDeviceTokens"
	log := r.log.With(slog.String("op", op), slog.Uint64("userID", uint64(userID)))
	var tokens []user.UserDeviceToken

	if err := r.db.Where("user_id = ?", userID).Find(&tokens).Error; err != nil {
		log.Error("failed to get device tokens from DB", "error", err)
		return nil, user.ErrUserInternal
	}

	return tokens, nil
}

func (r *UserDatabase) SaveDeviceToken(userID uint, deviceToken string) error {
	op := "UserDatabase.SaveDeviceToken"
	log := r.log.With(slog.String("op", op), slog.Uint64("userID", uint64(userID)))

	token := user.UserDeviceToken{
		UserID:      userID,
		DeviceToken: deviceToken,
	}
	if err := r.db.Where("user_id = ? AND device_token = ?", userID, deviceToken).
		FirstOrCreate(&token).Error; err != nil {
		log.Error("failed to save device token in DB", "error", err)
		return user.ErrUserInternal
	}

	return nil
}
