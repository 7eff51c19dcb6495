package controller

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"moiport/internal/modules/healthtourism"
	resp "moiport/pkg/lib/response"
)

type HealthController struct {
	useCase  healthtourism.UseCase
	log      *slog.Logger
	validate *validator.Validate
}

func NewHealthController(useCase healthtourism.UseCase, log *slog.Logger) *HealthController {
	return &HealthController{
		useCase:  useCase,
		log:      log,
		validate: validator.New(),
	}
}

// CreatePatient
// @Summary Register a health tourism patient
// @Tags health-tourism
// @Accept json
// @Produce json
// @Param patient body healthtourism.CreatePatientRequest true "Patient data"
// @Success 201 {object} healthtourism.PatientResponse
// @Failure 400 {object} response.ErrorResponse "Invalid request payload"
// @Failure 401 {object} response.ErrorResponse "Unauthorized"
// @Failure 500 {object} response.ErrorResponse "Internal server error"
// @Router /health-tourism/patients [post]
// @Security ApiKeyAuth
func (c *HealthController) CreatePatient(w http.ResponseWriter, r *http.Request) {
	op := "HealthController.CreatePatient"
	log := c.log.With(slog.String("op", op))

	userID, tenantID, ok := callerFromContext(r)
	if !ok {
		resp.SendError(w, r, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req healthtourism.CreatePatientRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("failed to decode request body", "error", err)
		resp.SendError(w, r, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := c.validate.Struct(req); err != nil {
		resp.SendValidationError(w, r, err)
		return
	}

	patientResponse, err := c.useCase.CreatePatient(tenantID, userID, &req)
	if err != nil {
		log.Error("usecase CreatePatient failed", "error", err)
		resp.SendError(w, r, http.StatusInternalServerError, "Failed to create patient")
		return
	}

	resp.SendSuccess(w, r, http.StatusCreated, patientResponse)
}

// GetPatients
// @Summary List the tenant's health tourism patients
// @Tags health-tourism
// @Produce json
// @Success 200 {array} healthtourism.PatientResponse
// @Failure 401 {object} response.ErrorResponse "Unauthorized"
// @Failure 500 {object} response.ErrorResponse "Internal server error"
// @Router /health-tourism/patients [get]
// @Security ApiKeyAuth
func (c *HealthController) GetPatients(w http.ResponseWriter, r *http.Request) {
	op := "HealthController.GetPatients"
	log := c.log.With(slog.String("op", op))

	_, tenantID, ok := callerFromContext(r)
	if !ok {
		resp.SendError(w, r, http.StatusUnauthorized, "Unauthorized")
		return
	}

	patients, err := c.useCase.GetPatients(tenantID)
	if err != nil {
		log.Error("usecase GetPatients failed", "error", err)
		resp.SendError(w, r, http.StatusInternalServerError, "Failed to get patients")
		return
	}

	resp.SendSuccess(w, r, http.StatusOK, patients)
}

// GetPatient
// @Summary Get one health tourism patient
// @Tags health-tourism
// @Produce json
// @Param patientID path int true "Patient ID"
// @Success 200 {object} healthtourism.PatientResponse
// @Failure 404 {object} response.ErrorResponse "Patient not found"
// @Failure 500 {object} response.ErrorResponse "Internal server error"
// @Router /health-tourism/patients/{patientID} [get]
// @Security ApiKeyAuth
func (c *HealthController) GetPatient(w http.ResponseWriter, r *http.Request) {
	op := "HealthController.GetPatient"
	log := c.log.With(slog.String("op", op))

	_, tenantID, ok := callerFromContext(r)
	if !ok {
		resp.SendError(w, r, http.StatusUnauthorized, "Unauthorized")
		return
	}

	patientID, err := parseIDParam(r, "patientID")
	if err != nil {
		resp.SendError(w, r, http.StatusBadRequest, "Invalid patient ID")
		return
	}

	patientResponse, err := c.useCase.GetPatient(tenantID, patientID)
	if err != nil {
		switch {
		case errors.Is(err, healthtourism.ErrPatientNotFound):
			resp.SendError(w, r, http.StatusNotFound, err.Error())
		default:
			log.Error("usecase GetPatient failed", "error", err)
			resp.SendError(w, r, http.StatusInternalServerError, "Failed to get patient")
		}
		return
	}

	resp.SendSuccess(w, r, http.StatusOK, patientResponse)
}

// UpdatePatient
// @Summary Patch a health tourism patient
// @Tags health-tourism
// @Accept json
// @Produce json
// @Param patientID path int true "Patient ID"
// @Param patient body healthtourism.UpdatePatientRequest true "Fields to update"
// @Success 200 {object} healthtourism.PatientResponse
// @Failure 404 {object} response.ErrorResponse "Patient not found"
// @Failure 500 {object} response.ErrorResponse "Internal server error"
// @Router /health-tourism/patients/{patientID} [patch]
// @Security ApiKeyAuth
func (c *HealthController) UpdatePatient(w http.ResponseWriter, r *http.Request) {
	op := "HealthController.UpdatePatient"
	log := c.log.With(slog.String("op", op))

	userID, tenantID, ok := callerFromContext(r)
	if !ok {
		resp.SendError(w, r, http.StatusUnauthorized, "Unauthorized")
		return
	}

	patientID, err := parseIDParam(r, "patientID")
	if err != nil {
		resp.SendError(w, r, http.StatusBadRequest, "Invalid patient ID")
		return
	}

	var req healthtourism.UpdatePatientRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("failed to decode request body", "error", err)
		resp.SendError(w, r, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := c.validate.Struct(req); err != nil {
		resp.SendValidationError(w, r, err)
		return
	}

	patientResponse, err := c.useCase.UpdatePatient(tenantID, patientID, userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, healthtourism.ErrPatientNotFound):
			resp.SendError(w, r, http.StatusNotFound, err.Error())
		default:
			log.Error("usecase UpdatePatient failed", "error", err)
			resp.SendError(w, r, http.StatusInternalServerError, "Failed to update patient")
		}
		return
	}

	resp.SendSuccess(w, r, http.StatusOK, patientResponse)
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
