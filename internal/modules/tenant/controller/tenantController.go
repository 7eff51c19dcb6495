package controller

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"moiport/internal/modules/tenant"
	"moiport/internal/modules/user"
	"moiport/pkg/lib/imagekit"
	resp "moiport/pkg/lib/response"
)

type TenantController struct {
	useCase  tenant.UseCase
	log      *slog.Logger
	validate *validator.Validate
}

func NewTenantController(useCase tenant.UseCase, log *slog.Logger) *TenantController {
	return &TenantController{
		useCase:  useCase,
		log:      log,
		validate: validator.New(),
	}
}

// GetTenant
// @Summary Get the caller's workspace
// @Tags tenant
// @Produce json
// @Success 200 {object} tenant.TenantResponse
// @Failure 401 {object} response.ErrorResponse "Unauthorized"
// @Failure 404 {object} response.ErrorResponse "Tenant not found"
// @Router /tenant [get]
// @Security ApiKeyAuth
func (c *TenantController) GetTenant(w http.ResponseWriter, r *http.Request) {
	op := "TenantController.GetTenant"
	log := c.log.With(slog.String("op", op))

	_, tenantID, ok := callerFromContext(r)
	if !ok {
		resp.SendError(w, r, http.StatusUnauthorized, "Unauthorized")
		return
	}

	tenantResponse, err := c.useCase.GetTenant(tenantID)
	if err != nil {
		switch {
		case errors.Is(err, tenant.ErrTenantNotFound):
			resp.SendError(w, r, http.StatusNotFound, err.Error())
		default:
			log.Error("usecase GetTenant failed", "error", err)
			resp.SendError(w, r, http.StatusInternalServerError, "Failed to get tenant")
		}
		return
	}

	resp.SendSuccess(w, r, http.StatusOK, tenantResponse)
}

// UpdateTenant
// @Summary Update workspace settings
// @Tags tenant
// @Accept json
// @Produce json
// @Param tenant body tenant.UpdateTenantRequest true "Fields to update"
// @Success 200 {object} tenant.TenantResponse
// @Failure 403 {object} response.ErrorResponse "Forbidden"
// @Failure 500 {object} response.ErrorResponse "Internal server error"
// @Router /tenant [patch]
// @Security ApiKeyAuth
func (c *TenantController) UpdateTenant(w http.ResponseWriter, r *http.Request) {
	op := "TenantController.UpdateTenant"
	log := c.log.With(slog.String("op", op))

	_, tenantID, ok := callerFromContext(r)
	if !ok {
		resp.SendError(w, r, http.StatusUnauthorized, "Unauthorized")
		return
	}
	if !callerIsAdmin(r) {
		resp.SendError(w, r, http.StatusForbidden, "Admin role required")
		return
	}

	var req tenant.UpdateTenantRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("failed to decode request body", "error", err)
		resp.SendError(w, r, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := c.validate.Struct(req); err != nil {
		resp.SendValidationError(w, r, err)
		return
	}

	tenantResponse, err := c.useCase.UpdateTenant(tenantID, &req)
	if err != nil {
		switch {
		case errors.Is(err, tenant.ErrTenantNotFound):
			resp.SendError(w, r, http.StatusNotFound, err.Error())
		default:
			log.Error("usecase UpdateTenant failed", "error", err)
			resp.SendError(w, r, http.StatusInternalServerError, "Failed to update tenant")
		}
		return
	}

	resp.SendSuccess(w, r, http.StatusOK, tenantResponse)
}

// UploadLogo
// @Summary Upload a workspace logo
// @Tags tenant
// @Accept multipart/form-data
// @Produce json
// @Param logo formData file true "Square logo image (jpg, png, webp or gif)"
// @Success 200 {object} tenant.TenantResponse
// @Failure 400 {object} response.ErrorResponse "Invalid image"
// @Failure 403 {object} response.ErrorResponse "Forbidden"
// @Failure 500 {object} response.ErrorResponse "Internal server error"
// @Router /tenant/logo [put]
// @Security ApiKeyAuth
func (c *TenantController) UploadLogo(w http.ResponseWriter, r *http.Request) {
	op := "TenantController.UploadLogo"
	log := c.log.With(slog.String("op", op))

	_, tenantID, ok := callerFromContext(r)
	if !ok {
		resp.SendError(w, r, http.StatusUnauthorized, "Unauthorized")
		return
	}
	if !callerIsAdmin(r) {
		resp.SendError(w, r, http.StatusForbidden, "Admin role required")
		return
	}

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		resp.SendError(w, r, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	file, _, err := r.FormFile("logo")
	if err != nil {
		resp.SendError(w, r, http.StatusBadRequest, "Missing logo file")
		return
	}
	defer file.Close()

	thumb, full, err := imagekit.ParseLogoImage(&file)
	if err != nil {
		switch {
		case errors.Is(err, imagekit.ErrInvalidLogoType), errors.Is(err, imagekit.ErrInvalidLogoAspect):
			resp.SendError(w, r, http.StatusBadRequest, err.Error())
		default:
			log.Error("failed to process logo image", "error", err)
			resp.SendError(w, r, http.StatusInternalServerError, "Failed to process logo")
		}
		return
	}

	tenantResponse, err := c.useCase.UploadLogo(tenantID, thumb, full)
	if err != nil {
		log.Error("usecase UploadLogo failed", "error", err)
		resp.SendError(w, r, http.StatusInternalServerError, "Failed to upload logo")
		return
	}

	resp.SendSuccess(w, r, http.StatusOK, tenantResponse)
}

// InviteStaff
// @Summary Invite a staff member by email
// @Tags tenant
// @Accept json
// @Produce json
// @Param invite body tenant.InviteStaffRequest true "Invitee email and role"
// @Success 201 {object} tenant.InviteResponse
// @Failure 400 {object} response.ErrorResponse "Invalid request payload"
// @Failure 403 {object} response.ErrorResponse "Forbidden"
// @Failure 500 {object} response.ErrorResponse "Internal server error"
// @Router /tenant/invites [post]
// @Security ApiKeyAuth
func (c *TenantController) InviteStaff(w http.ResponseWriter, r *http.Request) {
	op := "TenantController.InviteStaff"
	log := c.log.With(slog.String("op", op))

	userID, tenantID, ok := callerFromContext(r)
	if !ok {
		resp.SendError(w, r, http.StatusUnauthorized, "Unauthorized")
		return
	}
	if !callerIsAdmin(r) {
		resp.SendError(w, r, http.StatusForbidden, "Admin role required")
		return
	}

	var req tenant.InviteStaffRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("failed to decode request body", "error", err)
		resp.SendError(w, r, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := c.validate.Struct(req); err != nil {
		resp.SendValidationError(w, r, err)
		return
	}
	if !req.Role.IsValid() {
		resp.SendError(w, r, http.StatusBadRequest, "Invalid role")
		return
	}

	inviteResponse, err := c.useCase.InviteStaff(tenantID, userID, &req)
	if err != nil {
		log.Error("usecase InviteStaff failed", "error", err)
		resp.SendError(w, r, http.StatusInternalServerError, "Failed to create invite")
		return
	}

	resp.SendSuccess(w, r, http.StatusCreated, inviteResponse)
}

func callerFromContext(r *http.Request) (userID, tenantID uint, ok bool) {
	userID, okUser := r.Context().Value("userId").(uint)
	tenantID, okTenant := r.Context().Value("tenantId").(uint)
	return userID, tenantID, okUser && okTenant
}

func callerIsAdmin(r *http.Request) bool {
	role, ok := r.Context().Value("role").(user.Role)
	if !ok {
		return false
	}
	return role == user.RoleAdmin || role == user.RoleSuperAdmin
}
