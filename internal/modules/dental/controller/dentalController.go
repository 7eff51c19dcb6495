package controller

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"moiport/internal/modules/dental"
	resp "moiport/pkg/lib/response"
)

type DentalController struct {
	useCase  dental.UseCase
	log      *slog.Logger
	validate *validator.Validate
}

func NewDentalController(useCase dental.UseCase, log *slog.Logger) *DentalController {
	return &DentalController{
		useCase:  useCase,
		log:      log,
		validate: validator.New(),
	}
}

// CreatePatient
// @Summary Register a dental patient
// @Tags dental
// @Accept json
// @Produce json
// @Param patient body dental.CreatePatientRequest true "Patient data"
// @Success 201 {object} dental.PatientResponse
// @Failure 400 {object} response.ErrorResponse "Invalid request payload"
// @Failure 401 {object} response.ErrorResponse "Unauthorized"
// @Failure 500 {object} response.ErrorResponse "Internal server error"
// @Router /dental/patients [post]
// @Security ApiKeyAuth
func (c *DentalController) CreatePatient(w http.ResponseWriter, r *http.Request) {
	op := "DentalController.CreatePatient"
	log := c.log.With(slog.String("op", op))

	userID, tenantID, ok := callerFromContext(r)
	if !ok {
		resp.SendError(w, r, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req dental.CreatePatientRequest
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
// @Summary List the tenant's dental patients
// @Tags dental
// @Produce json
// @Success 200 {array} dental.PatientResponse
// @Failure 401 {object} response.ErrorResponse "Unauthorized"
// @Failure 500 {object} response.ErrorResponse "Internal server error"
// @Router /dental/patients [get]
// @Security ApiKeyAuth
func (c *DentalController) GetPatients(w http.ResponseWriter, r *http.Request) {
	op := "DentalController.GetPatients"
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
// @Summary Get one dental patient
// @Tags dental
// @Produce json
// @Param patientID path int true "Patient ID"
// @Success 200 {object} dental.PatientResponse
// @Failure 404 {object} response.ErrorResponse "Patient not found"
// @Failure 500 {object} response.ErrorResponse "Internal server error"
// @Router /dental/patients/{patientID} [get]
// @Security ApiKeyAuth
func (c *DentalController) GetPatient(w http.ResponseWriter, r *http.Request) {
	op := "DentalController.GetPatient"
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
		case errors.Is(err, dental.ErrPatientNotFound):
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
// @Summary Patch a dental patient
// @Tags dental
// @Accept json
// @Produce json
// @Param patientID path int true "Patient ID"
// @Param patient body dental.UpdatePatientRequest true "Fields to update"
// @Success 200 {object} dental.PatientResponse
// @Failure 404 {object} response.ErrorResponse "Patient not found"
// @Failure 500 {object} response.ErrorResponse "Internal server error"
// @Router /dental/patients/{patientID} [patch]
// @Security ApiKeyAuth
func (c *DentalController) UpdatePatient(w http.ResponseWriter, r *http.Request) {
	op := "DentalController.UpdatePatient"
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

	var req dental.UpdatePatientRequest
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
		case errors.Is(err, dental.ErrPatientNotFound):
			resp.SendError(w, r, http.StatusNotFound, err.Error())
		default:
			log.Error("usecase UpdatePatient failed", "error", err)
			resp.SendError(w, r, http.StatusInternalServerError, "Failed to update patient")
		}
		return
	}

	resp.SendSuccess(w, r, http.StatusOK, patientResponse)
}

// CreateTreatment
// @Summary Plan a treatment for a patient
// @Tags dental
// @Accept json
// @Produce json
// @Param treatment body dental.CreateTreatmentRequest true "Treatment data"
// @Success 201 {object} dental.TreatmentResponse
// @Failure 404 {object} response.ErrorResponse "Patient not found"
// @Failure 500 {object} response.ErrorResponse "Internal server error"
// @Router /dental/treatments [post]
// @Security ApiKeyAuth
func (c *DentalController) CreateTreatment(w http.ResponseWriter, r *http.Request) {
	op := "DentalController.CreateTreatment"
	log := c.log.With(slog.String("op", op))

	userID, tenantID, ok := callerFromContext(r)
	if !ok {
		resp.SendError(w, r, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req dental.CreateTreatmentRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("failed to decode request body", "error", err)
		resp.SendError(w, r, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := c.validate.Struct(req); err != nil {
		resp.SendValidationError(w, r, err)
		return
	}

	treatmentResponse, err := c.useCase.CreateTreatment(tenantID, userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, dental.ErrPatientNotFound):
			resp.SendError(w, r, http.StatusNotFound, err.Error())
		default:
			log.Error("usecase CreateTreatment failed", "error", err)
			resp.SendError(w, r, http.StatusInternalServerError, "Failed to create treatment")
		}
		return
	}

	resp.SendSuccess(w, r, http.StatusCreated, treatmentResponse)
}

// GetTreatments
// @Summary List a patient's treatments
// @Tags dental
// @Produce json
// @Param patientID path int true "Patient ID"
// @Success 200 {array} dental.TreatmentResponse
// @Failure 500 {object} response.ErrorResponse "Internal server error"
// @Router /dental/patients/{patientID}/treatments [get]
// @Security ApiKeyAuth
func (c *DentalController) GetTreatments(w http.ResponseWriter, r *http.Request) {
	op := "DentalController.GetTreatments"
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

	treatments, err := c.useCase.GetTreatments(tenantID, patientID)
	if err != nil {
		log.Error("usecase GetTreatments failed", "error", err)
		resp.SendError(w, r, http.StatusInternalServerError, "Failed to get treatments")
		return
	}

	resp.SendSuccess(w, r, http.StatusOK, treatments)
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
