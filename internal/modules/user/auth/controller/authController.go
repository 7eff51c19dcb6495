package controller

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"moiport/config"
	"moiport/internal/modules/tenant"
	"moiport/internal/modules/user"
	"moiport/internal/modules/user/auth"
	"moiport/pkg/lib/jwt"
	resp "moiport/pkg/lib/response"
)

type AuthController struct {
	uc       auth.UseCase
	log      *slog.Logger
	validate *validator.Validate
	jwtCfg   config.JWTConfig
}

func NewAuthController(uc auth.UseCase, log *slog.Logger, jwtCfg config.JWTConfig) auth.Controller {
	return &AuthController{
		uc:       uc,
		log:      log,
		validate: validator.New(),
		jwtCfg:   jwtCfg,
	}
}

// SignUp
// @Summary Register a new agency workspace
// @Tags auth
// @Description Creates a tenant plus its first SUPER_ADMIN user and signs them in
// @Accept json
// @Produce json
// @Param user body controller.SignUpRequest true "Agency and owner details"
// @Success 201 {object} response.SuccessResponse "Workspace created"
// @Failure 400 {object} response.ErrorResponse "Invalid request payload"
// @Failure 409 {object} response.ErrorResponse "Email already registered"
// @Failure 500 {object} response.ErrorResponse "Internal server error"
// @Router /auth/sign-up [post]
func (c *AuthController) SignUp(w http.ResponseWriter, r *http.Request) {
	log := c.log.With(slog.String("op", "AuthController.SignUp"))

	var req SignUpRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("failed to decode request body", "error", err)
		resp.SendError(w, r, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := c.validate.Struct(req); err != nil {
		resp.SendValidationError(w, r, err)
		return
	}

	authenticated, err := c.uc.SignUp(req.AgencyName, req.FullName, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrEmailTaken):
			resp.SendError(w, r, http.StatusConflict, err.Error())
		default:
			log.Error("failed to sign up", "error", err)
			resp.SendError(w, r, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	c.setRefreshCookie(w, authenticated.Tokens.RefreshToken)
	resp.SendSuccess(w, r, http.StatusCreated, map[string]interface{}{
		"user":         authenticated.User,
		"access_token": authenticated.Tokens.AccessToken,
	})
}

// SignIn
// @Summary Sign in with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param user body controller.SignInRequest true "Credentials"
// @Success 200 {object} response.SuccessResponse "Signed in"
// @Failure 401 {object} response.ErrorResponse "Invalid email or password"
// @Failure 403 {object} response.ErrorResponse "User is deactivated"
// @Failure 500 {object} response.ErrorResponse "Internal server error"
// @Router /auth/sign-in [post]
func (c *AuthController) SignIn(w http.ResponseWriter, r *http.Request) {
	log := c.log.With(slog.String("op", "AuthController.SignIn"))

	var req SignInRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("failed to decode request body", "error", err)
		resp.SendError(w, r, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := c.validate.Struct(req); err != nil {
		resp.SendValidationError(w, r, err)
		return
	}

	authenticated, err := c.uc.SignIn(req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrInvalidCredentials):
			resp.SendError(w, r, http.StatusUnauthorized, err.Error())
		case errors.Is(err, user.ErrUserInactive):
			resp.SendError(w, r, http.StatusForbidden, err.Error())
		default:
			log.Error("failed to sign in", "error", err)
			resp.SendError(w, r, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	c.setRefreshCookie(w, authenticated.Tokens.RefreshToken)
	resp.SendSuccess(w, r, http.StatusOK, map[string]interface{}{
		"user":         authenticated.User,
		"access_token": authenticated.Tokens.AccessToken,
	})
}

// Join
// @Summary Accept a staff invitation
// @Tags auth
// @Description Consumes an invite token and creates the invited staff account
// @Accept json
// @Produce json
// @Param user body controller.JoinRequest true "Invite token and account details"
// @Success 201 {object} response.SuccessResponse "Account created"
// @Failure 404 {object} response.ErrorResponse "Invite not found"
// @Failure 409 {object} response.ErrorResponse "Email already registered"
// @Failure 410 {object} response.ErrorResponse "Invite expired or already used"
// @Failure 500 {object} response.ErrorResponse "Internal server error"
// @Router /auth/join [post]
func (c *AuthController) Join(w http.ResponseWriter, r *http.Request) {
	log := c.log.With(slog.String("op", "AuthController.Join"))

	var req JoinRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("failed to decode request body", "error", err)
		resp.SendError(w, r, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := c.validate.Struct(req); err != nil {
		resp.SendValidationError(w, r, err)
		return
	}

	authenticated, err := c.uc.JoinByInvite(req.Token, req.FullName, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, tenant.ErrInviteNotFound):
			resp.SendError(w, r, http.StatusNotFound, err.Error())
		case errors.Is(err, tenant.ErrInviteExpired), errors.Is(err, tenant.ErrInviteUsed):
			resp.SendError(w, r, http.StatusGone, err.Error())
		case errors.Is(err, user.ErrEmailTaken):
			resp.SendError(w, r, http.StatusConflict, err.Error())
		default:
			log.Error("failed to join by invite", "error", err)
			resp.SendError(w, r, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	c.setRefreshCookie(w, authenticated.Tokens.RefreshToken)
	resp.SendSuccess(w, r, http.StatusCreated, map[string]interface{}{
		"user":         authenticated.User,
		"access_token": authenticated.Tokens.AccessToken,
	})
}

// RefreshToken
// @Summary Refresh the access token
// @Tags auth
// @Produce json
// @Success 200 {object} response.SuccessResponse "New access token"
// @Failure 401 {object} response.ErrorResponse "Missing or invalid refresh token"
// @Router /auth/refresh-token [post]
func (c *AuthController) RefreshToken(w http.ResponseWriter, r *http.Request) {
	log := c.log.With(slog.String("op", "AuthController.RefreshToken"))

	accessToken, err := c.uc.RefreshToken(r)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrNoAccessToken), errors.Is(err, jwt.ErrInvalidToken), errors.Is(err, jwt.ErrExpiredToken):
			resp.SendError(w, r, http.StatusUnauthorized, "invalid refresh token")
		case errors.Is(err, user.ErrUserInactive):
			resp.SendError(w, r, http.StatusForbidden, err.Error())
		default:
			log.Error("failed to refresh token", "error", err)
			resp.SendError(w, r, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, resp.AccessToken(accessToken))
}

// Logout
// @Summary Sign out
// @Tags auth
// @Produce json
// @Success 200 {object} response.Response "Refresh cookie cleared"
// @Router /auth/logout [post]
func (c *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     "refresh_token",
		Value:    "",
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   c.jwtCfg.SecureCookie,
		Path:     "/",
	})
	resp.SendOK(w, r, http.StatusOK)
}

// RegisterDeviceToken
// @Summary Register an FCM device token for push delivery
// @Tags auth
// @Accept json
// @Produce json
// @Param token body controller.DeviceTokenRequest true "FCM device token"
// @Success 200 {object} response.Response "Token saved"
// @Failure 401 {object} response.ErrorResponse "Unauthorized"
// @Failure 500 {object} response.ErrorResponse "Internal server error"
// @Router /auth/device-tokens [post]
// @Security ApiKeyAuth
func (c *AuthController) RegisterDeviceToken(w http.ResponseWriter, r *http.Request) {
	log := c.log.With(slog.String("op", "AuthController.RegisterDeviceToken"))

	userID, ok := r.Context().Value("userId").(uint)
	if !ok {
		resp.SendError(w, r, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req DeviceTokenRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("failed to decode request body", "error", err)
		resp.SendError(w, r, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := c.validate.Struct(req); err != nil {
		resp.SendValidationError(w, r, err)
		return
	}

	if err := c.uc.RegisterDeviceToken(userID, req.DeviceToken); err != nil {
		log.Error("failed to register device token", "error", err)
		resp.SendError(w, r, http.StatusInternalServerError, "Internal server error")
		return
	}

	resp.SendOK(w, r, http.StatusOK)
}

func (c *AuthController) setRefreshCookie(w http.ResponseWriter, refreshToken string) {
	http.SetCookie(w, &http.Cookie{
		Name:     "refresh_token",
		Value:    refreshToken,
		Expires:  time.Now().Add(c.jwtCfg.RefreshExpire),
		HttpOnly: true,
		Secure:   c.jwtCfg.SecureCookie,
		Domain:   c.jwtCfg.CookieDomain,
		Path:     "/",
	})
}
