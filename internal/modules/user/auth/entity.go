package auth

import (
	"net/http"

	"moiport/internal/modules/tenant"
	"moiport/internal/modules/user"
)

// TokenPair is what every successful authentication hands back.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// AuthenticatedUser pairs the issued tokens with the signed-in user.
type AuthenticatedUser struct {
	User   *user.UserLiteResponse
	Tokens TokenPair
}

// TenantService is the slice of the tenant module auth needs: workspace
// creation on sign-up and invite consumption on join.
type TenantService interface {
	CreateTenant(name string) (*tenant.Tenant, error)
	ConsumeInvite(token string) (*tenant.Invite, error)
}

type Controller interface {
	SignUp(w http.ResponseWriter, r *http.Request)
	SignIn(w http.ResponseWriter, r *http.Request)
	Join(w http.ResponseWriter, r *http.Request)
	RefreshToken(w http.ResponseWriter, r *http.Request)
	Logout(w http.ResponseWriter, r *http.Request)
	RegisterDeviceToken(w http.ResponseWriter, r *http.Request)
}

type UseCase interface {
	SignUp(agencyName, fullName, email, password string) (*AuthenticatedUser, error)
	SignIn(email, password string) (*AuthenticatedUser, error)
	JoinByInvite(token, fullName, password string) (*AuthenticatedUser, error)
	RefreshToken(r *http.Request) (string, error)
	RegisterDeviceToken(userID uint, deviceToken string) error
}
