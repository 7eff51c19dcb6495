package controller

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"moiport/internal/modules/socialmedia"
	resp "moiport/pkg/lib/response"
)

type PlanController struct {
	useCase  socialmedia.UseCase
	log      *slog.Logger
	validate *validator.Validate
}

func NewPlanController(useCase socialmedia.UseCase, log *slog.Logger) *PlanController {
	return &PlanController{
		useCase:  useCase,
		log:      log,
		validate: validator.New(),
	}
}

// CreatePlan
// @Summary Create a social media plan
// @Tags social-media
// @Accept json
// @Produce json
// @Param plan body socialmedia.CreatePlanRequest true "Plan creation data"
// @Success 201 {object} socialmedia.PlanResponse
// @Failure 400 {object} response.ErrorResponse "Invalid request payload"
// @Failure 401 {object} response.ErrorResponse "Unauthorized"
// @Failure 500 {object} response.ErrorResponse "Internal server error"
// @Router /social-media/plans [post]
// @Security ApiKeyAuth
func (c *PlanController) CreatePlan(w http.ResponseWriter, r *http.Request) {
	op := "PlanController.CreatePlan"
	log := c.log.With(slog.String("op", op))

	userID, tenantID, ok := callerFromContext(r)
	if !ok {
		log.Error("caller identity not found in context")
		resp.SendError(w, r, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req socialmedia.CreatePlanRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("failed to decode request body", "error", err)
		resp.SendError(w, r, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := c.validate.Struct(req); err != nil {
		log.Warn("validation failed", "error", err)
		resp.SendValidationError(w, r, err)
		return
	}

	planResponse, err := c.useCase.CreatePlan(tenantID, userID, &req)
	if err != nil {
		log.Error("usecase CreatePlan failed", "error", err)
		resp.SendError(w, r, http.StatusInternalServerError, "Failed to create plan")
		return
	}

	resp.SendSuccess(w, r, http.StatusCreated, planResponse)
}

// GetPlan
// @Summary Get one social media plan
// @Tags social-media
// @Produce json
// @Param planID path int true "Plan ID"
// @Success 200 {object} socialmedia.PlanResponse
// @Failure 400 {object} response.ErrorResponse "Invalid plan ID"
// @Failure 404 {object} response.ErrorResponse "Plan not found"
// @Failure 500 {object} response.ErrorResponse "Internal server error"
// @Router /social-media/plans/{planID} [get]
// @Security ApiKeyAuth
func (c *PlanController) GetPlan(w http.ResponseWriter, r *http.Request) {
	op := "PlanController.GetPlan"
	log := c.log.With(slog.String("op", op))

	_, tenantID, ok := callerFromContext(r)
	if !ok {
		resp.SendError(w, r, http.StatusUnauthorized, "Unauthorized")
		return
	}

	planID, err := parseIDParam(r, "planID")
	if err != nil {
		resp.SendError(w, r, http.StatusBadRequest, "Invalid plan ID")
		return
	}

	planResponse, err := c.useCase.GetPlan(tenantID, planID)
	if err != nil {
		switch {
		case errors.Is(err, socialmedia.ErrPlanNotFound):
			resp.SendError(w, r, http.StatusNotFound, err.Error())
		default:
			log.Error("usecase GetPlan failed", "error", err)
			resp.SendError(w, r, http.StatusInternalServerError, "Failed to get plan")
		}
		return
	}

	resp.SendSuccess(w, r, http.StatusOK, planResponse)
}

// GetPlans
// @Summary List the tenant's social media plans
// @Tags social-media
// @Produce json
// @Param manager_id query int false "Filter by manager"
// @Param designer_id query int false "Filter by designer"
// @Param search query string false "Brand name search"
// @Success 200 {array} socialmedia.PlanResponse
// @Failure 401 {object} response.ErrorResponse "Unauthorized"
// @Failure 500 {object} response.ErrorResponse "Internal server error"
// @Router /social-media/plans [get]
// @Security ApiKeyAuth
func (c *PlanController) GetPlans(w http.ResponseWriter, r *http.Request) {
	op := "PlanController.GetPlans"
	log := c.log.With(slog.String("op", op))

	_, tenantID, ok := callerFromContext(r)
	if !ok {
		resp.SendError(w, r, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var params socialmedia.GetPlansParams
	if v := r.URL.Query().Get("manager_id"); v != "" {
		if id, err := strconv.ParseUint(v, 10, 64); err == nil {
			managerID := uint(id)
			params.ManagerID = &managerID
		}
	}
	if v := r.URL.Query().Get("designer_id"); v != "" {
		if id, err := strconv.ParseUint(v, 10, 64); err == nil {
			designerID := uint(id)
			params.DesignerID = &designerID
		}
	}
	if v := r.URL.Query().Get("search"); v != "" {
		params.Search = &v
	}

	plans, err := c.useCase.GetPlans(tenantID, params)
	if err != nil {
		log.Error("usecase GetPlans failed", "error", err)
		resp.SendError(w, r, http.StatusInternalServerError, "Failed to get plans")
		return
	}

	resp.SendSuccess(w, r, http.StatusOK, plans)
}

// UpdatePlan
// @Summary Patch a social media plan
// @Tags social-media
// @Accept json
// @Produce json
// @Param planID path int true "Plan ID"
// @Param plan body socialmedia.UpdatePlanRequest true "Fields to update"
// @Success 200 {object} socialmedia.PlanResponse
// @Failure 400 {object} response.ErrorResponse "Invalid request payload"
// @Failure 404 {object} response.ErrorResponse "Plan not found"
// @Failure 500 {object} response.ErrorResponse "Internal server error"
// @Router /social-media/plans/{planID} [patch]
// @Security ApiKeyAuth
func (c *PlanController) UpdatePlan(w http.ResponseWriter, r *http.Request) {
	op := "PlanController.UpdatePlan"
	log := c.log.With(slog.String("op", op))

	userID, tenantID, ok := callerFromContext(r)
	if !ok {
		resp.SendError(w, r, http.StatusUnauthorized, "Unauthorized")
		return
	}

	planID, err := parseIDParam(r, "planID")
	if err != nil {
		resp.SendError(w, r, http.StatusBadRequest, "Invalid plan ID")
		return
	}

	var req socialmedia.UpdatePlanRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("failed to decode request body", "error", err)
		resp.SendError(w, r, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := c.validate.Struct(req); err != nil {
		log.Warn("validation failed", "error", err)
		resp.SendValidationError(w, r, err)
		return
	}

	planResponse, err := c.useCase.UpdatePlan(tenantID, planID, userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, socialmedia.ErrPlanNotFound):
			resp.SendError(w, r, http.StatusNotFound, err.Error())
		default:
			log.Error("usecase UpdatePlan failed", "error", err)
			resp.SendError(w, r, http.StatusInternalServerError, "Failed to update plan")
		}
		return
	}

	resp.SendSuccess(w, r, http.StatusOK, planResponse)
}

// DeletePlan
// @Summary Delete a social media plan
// @Tags social-media
// @Produce json
// @Param planID path int true "Plan ID"
// @Success 200 {object} response.SuccessResponse
// @Failure 400 {object} response.ErrorResponse "Invalid plan ID"
// @Failure 404 {object} response.ErrorResponse "Plan not found"
// @Failure 500 {object} response.ErrorResponse "Internal server error"
// @Router /social-media/plans/{planID} [delete]
// @Security ApiKeyAuth
func (c *PlanController) DeletePlan(w http.ResponseWriter, r *http.Request) {
	op := "PlanController.DeletePlan"
	log := c.log.With(slog.String("op", op))

	_, tenantID, ok := callerFromContext(r)
	if !ok {
		resp.SendError(w, r, http.StatusUnauthorized, "Unauthorized")
		return
	}

	planID, err := parseIDParam(r, "planID")
	if err != nil {
		resp.SendError(w, r, http.StatusBadRequest, "Invalid plan ID")
		return
	}

	if err := c.useCase.DeletePlan(tenantID, planID); err != nil {
		switch {
		case errors.Is(err, socialmedia.ErrPlanNotFound):
			resp.SendError(w, r, http.StatusNotFound, err.Error())
		default:
			log.Error("usecase DeletePlan failed", "error", err)
			resp.SendError(w, r, http.StatusInternalServerError, "Failed to delete plan")
		}
		return
	}

	resp.SendOK(w, r, http.StatusOK)
}

func parseIDParam(r *http.Request, name string) (uint, error) {
	id, err := strconv.ParseUint(chi.URLParam(r, name), 10, 64)
	return uint(id), err
}

func callerFromContext(r *http.Request) (userID, tenantID uint, ok bool) {
	userID, okUser := r.Context().Value("userId").(uint)
	tenantID, okTenant := r.Context().Value("tenantId").(uint)
	return userID, tenantID, okUser && okTenant
}
