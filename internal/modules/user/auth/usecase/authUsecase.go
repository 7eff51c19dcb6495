package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"moiport/internal/modules/notification"
	"moiport/internal/modules/user"
	"moiport/internal/modules/user/auth"
	"moiport/pkg/lib/jwt"
)

type AuthUseCase struct {
	log        *slog.Logger
	users      user.Repo
	tenants    auth.TenantService
	dispatcher notification.Dispatcher
}

func NewAuthUseCase(log *slog.Logger, users user.Repo, tenants auth.TenantService, dispatcher notification.Dispatcher) auth.UseCase {
	return &AuthUseCase{
		log:        log,
		users:      users,
		tenants:    tenants,
		dispatcher: dispatcher,
	}
}

// SignUp provisions a fresh workspace: the new tenant plus its first user,
// who becomes SUPER_ADMIN.
func (uc *AuthUseCase) SignUp(agencyName, fullName, email, password string) (*auth.AuthenticatedUser, error) {
	op := "AuthUseCase.SignUp"
	log := uc.log.With(slog.String("op", op))

	if existing, err := uc.users.GetUserByEmail(email); err == nil && existing != nil {
		return nil, user.ErrEmailTaken
	} else if err != nil && !errors.Is(err, user.ErrUserNotFound) {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, user.ErrUserInternal
	}
	hashStr := string(hashedPassword)

	t, err := uc.tenants.CreateTenant(agencyName)
	if err != nil {
		log.Error("failed to create tenant on sign-up", "error", err)
		return nil, err
	}

	created, err := uc.users.CreateUser(&user.User{
		TenantID:       t.TenantID,
		Email:          email,
		FullName:       fullName,
		HashedPassword: &hashStr,
		Role:           user.RoleSuperAdmin,
		IsActive:       true,
	})
	if err != nil {
		log.Error("failed to create user on sign-up", "error", err)
		return nil, err
	}

	tokens, err := issueTokens(created)
	if err != nil {
		return nil, err
	}

	log.Info("workspace provisioned",
		slog.Uint64("tenantID", uint64(t.TenantID)),
		slog.Uint64("userID", uint64(created.UserID)),
	)
	return &auth.AuthenticatedUser{User: user.ToUserLiteResponse(created), Tokens: tokens}, nil
}

func (uc *AuthUseCase) SignIn(email, password string) (*auth.AuthenticatedUser, error) {
	op := "AuthUseCase.SignIn"
	log := uc.log.With(slog.String("op", op))

	u, err := uc.users.GetUserByEmail(email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, user.ErrInvalidCredentials
		}
		return nil, err
	}

	if u.HashedPassword == nil {
		return nil, user.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*u.HashedPassword), []byte(password)); err != nil {
		return nil, user.ErrInvalidCredentials
	}
	if !u.IsActive {
		return nil, user.ErrUserInactive
	}

	tokens, err := issueTokens(u)
	if err != nil {
		return nil, err
	}

	log.Info("user signed in", slog.Uint64("userID", uint64(u.UserID)))
	return &auth.AuthenticatedUser{User: user.ToUserLiteResponse(u), Tokens: tokens}, nil
}

// JoinByInvite burns the invite token, creates the new staff member with the
// role the invite carries, and announces the arrival to the rest of the team.
func (uc *AuthUseCase) JoinByInvite(token, fullName, password string) (*auth.AuthenticatedUser, error) {
	op := "AuthUseCase.JoinByInvite"
	log := uc.log.With(slog.String("op", op))

	inv, err := uc.tenants.ConsumeInvite(token)
	if err != nil {
		return nil, err
	}

	if existing, err := uc.users.GetUserByEmail(inv.Email); err == nil && existing != nil {
		return nil, user.ErrEmailTaken
	} else if err != nil && !errors.Is(err, user.ErrUserNotFound) {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, user.ErrUserInternal
	}
	hashStr := string(hashedPassword)

	created, err := uc.users.CreateUser(&user.User{
		TenantID:       inv.TenantID,
		Email:          inv.Email,
		FullName:       fullName,
		HashedPassword: &hashStr,
		Role:           inv.Role,
		IsActive:       true,
	})
	if err != nil {
		log.Error("failed to create user from invite", "error", err)
		return nil, err
	}

	ref := &notification.Reference{ID: created.UserID, Type: notification.ReferenceUser}
	message := fmt.Sprintf("%s joined the workspace as %s.", created.FullName, created.Role)
	if err := uc.dispatcher.NotifyTenantStaff(context.Background(), created.TenantID, "New Team Member", message,
		notification.TypeStaffJoined, ref, &created.UserID); err != nil {
		log.Error("staff notification failed for new member", "error", err)
	}

	tokens, err := issueTokens(created)
	if err != nil {
		return nil, err
	}

	log.Info("staff member joined",
		slog.Uint64("tenantID", uint64(created.TenantID)),
		slog.Uint64("userID", uint64(created.UserID)),
	)
	return &auth.AuthenticatedUser{User: user.ToUserLiteResponse(created), Tokens: tokens}, nil
}

func (uc *AuthUseCase) RefreshToken(r *http.Request) (string, error) {
	refreshToken, err := r.Cookie("refresh_token")
	if err != nil {
		return "", jwt.ErrNoAccessToken
	}

	claims, err := jwt.ValidateJWT(refreshToken.Value)
	if err != nil {
		return "", err
	}

	u, err := uc.users.GetUserByID(claims.UserID)
	if err != nil {
		return "", err
	}
	if !u.IsActive {
		return "", user.ErrUserInactive
	}

	return jwt.GenerateAccessToken(u.UserID, u.TenantID, u.Role)
}

func (uc *AuthUseCase) RegisterDeviceToken(userID uint, deviceToken string) error {
	op := "AuthUseCase.RegisterDeviceToken"
	log := uc.log.With(slog.String("op", op), slog.Uint64("userID", uint64(userID)))

	if err := uc.users.SaveDeviceToken(userID, deviceToken); err != nil {
		log.Error("failed to save device token", "error", err)
		return err
	}
	return nil
}

func issueTokens(u *user.User) (auth.TokenPair, error) {
	accessToken, err := jwt.GenerateAccessToken(u.UserID, u.TenantID, u.Role)
	if err != nil {
		return auth.TokenPair{}, err
	}
	refreshToken, err := jwt.GenerateRefreshToken(u.UserID, u.TenantID, u.Role)
	if err != nil {
		return auth.TokenPair{}, err
	}
	return auth.TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}
