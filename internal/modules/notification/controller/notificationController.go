package controller

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"moiport/internal/modules/notification"
	resp "moiport/pkg/lib/response"
)

type NotificationController struct {
	useCase  notification.UseCase
	log      *slog.Logger
	validate *validator.Validate
}

func NewNotificationController(useCase notification.UseCase, log *slog.Logger) *NotificationController {
	return &NotificationController{
		useCase:  useCase,
		log:      log,
		validate: validator.New(),
	}
}

// GetNotifications
// @Summary List the caller's notifications
// @Tags notifications
// @Produce json
// @Param only_unread query bool false "Return only unread notifications"
// @Param limit query int false "Page size (default 50, max 100)"
// @Param offset query int false "Page offset"
// @Success 200 {array} notification.NotificationResponse
// @Failure 401 {object} response.ErrorResponse "Unauthorized"
// @Failure 500 {object} response.ErrorResponse "Internal server error"
// @Router /notifications [get]
// @Security ApiKeyAuth
func (c *NotificationController) GetNotifications(w http.ResponseWriter, r *http.Request) {
	op := "NotificationController.GetNotifications"
	log := c.log.With(slog.String("op", op))

	userID, tenantID, ok := callerFromContext(r)
	if !ok {
		log.Error("caller identity not found in context")
		resp.SendError(w, r, http.StatusUnauthorized, "Unauthorized")
		return
	}

	req := notification.GetNotificationsRequest{}
	req.OnlyUnread = r.URL.Query().Get("only_unread") == "true"
	if v := r.URL.Query().Get("limit"); v != "" {
		if limit, err := strconv.Atoi(v); err == nil {
			req.Limit = limit
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if offset, err := strconv.Atoi(v); err == nil {
			req.Offset = offset
		}
	}

	if err := c.validate.Struct(req); err != nil {
		log.Warn("validation failed", "error", err)
		resp.SendValidationError(w, r, err)
		return
	}

	notifications, err := c.useCase.GetNotifications(userID, tenantID, &req)
	if err != nil {
		log.Error("usecase GetNotifications failed", "error", err)
		resp.SendError(w, r, http.StatusInternalServerError, "Failed to get notifications")
		return
	}

	resp.SendSuccess(w, r, http.StatusOK, notifications)
}

// GetUnreadCount
// @Summary Unread notification counter for the caller
// @Tags notifications
// @Produce json
// @Success 200 {object} notification.UnreadCountResponse
// @Failure 401 {object} response.ErrorResponse "Unauthorized"
// @Failure 500 {object} response.ErrorResponse "Internal server error"
// @Router /notifications/unread-count [get]
// @Security ApiKeyAuth
func (c *NotificationController) GetUnreadCount(w http.ResponseWriter, r *http.Request) {
	op := "NotificationController.GetUnreadCount"
	log := c.log.With(slog.String("op", op))

	userID, tenantID, ok := callerFromContext(r)
	if !ok {
		log.Error("caller identity not found in context")
		resp.SendError(w, r, http.StatusUnauthorized, "Unauthorized")
		return
	}

	count, err := c.useCase.GetUnreadCount(userID, tenantID)
	if err != nil {
		log.Error("usecase GetUnreadCount failed", "error", err)
		resp.SendError(w, r, http.StatusInternalServerError, "Failed to count notifications")
		return
	}

	resp.SendSuccess(w, r, http.StatusOK, notification.UnreadCountResponse{Count: count})
}

// MarkRead
// @Summary Mark one notification as read
// @Tags notifications
// @Produce json
// @Param notificationID path int true "Notification ID"
// @Success 200 {object} response.SuccessResponse
// @Failure 400 {object} response.ErrorResponse "Invalid notification ID"
// @Failure 401 {object} response.ErrorResponse "Unauthorized"
// @Failure 404 {object} response.ErrorResponse "Notification not found"
// @Failure 500 {object} response.ErrorResponse "Internal server error"
// @Router /notifications/{notificationID}/read [patch]
// @Security ApiKeyAuth
func (c *NotificationController) MarkRead(w http.ResponseWriter, r *http.Request) {
	op := "NotificationController.MarkRead"
	log := c.log.With(slog.String("op", op))

	userID, tenantID, ok := callerFromContext(r)
	if !ok {
		log.Error("caller identity not found in context")
		resp.SendError(w, r, http.StatusUnauthorized, "Unauthorized")
		return
	}

	notificationID, err := strconv.ParseUint(chi.URLParam(r, "notificationID"), 10, 64)
	if err != nil {
		resp.SendError(w, r, http.StatusBadRequest, "Invalid notification ID")
		return
	}

	if err := c.useCase.MarkRead(userID, tenantID, uint(notificationID)); err != nil {
		switch {
		case errors.Is(err, notification.ErrNotificationNotFound):
			resp.SendError(w, r, http.StatusNotFound, err.Error())
		default:
			log.Error("usecase MarkRead failed", "error", err)
			resp.SendError(w, r, http.StatusInternalServerError, "Failed to mark notification read")
		}
		return
	}

	resp.SendOK(w, r, http.StatusOK)
}

// MarkAllRead
// @Summary Mark all of the caller's notifications as read
// @Tags notifications
// @Produce json
// @Success 200 {object} response.SuccessResponse
// @Failure 401 {object} response.ErrorResponse "Unauthorized"
// @Failure 500 {object} response.ErrorResponse "Internal server error"
// @Router /notifications/read-all [patch]
// @Security ApiKeyAuth
func (c *NotificationController) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	op := "NotificationController.MarkAllRead"
	log := c.log.With(slog.String("op", op))

	userID, tenantID, ok := callerFromContext(r)
	if !ok {
		log.Error("caller identity not found in context")
		resp.SendError(w, r, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := c.useCase.MarkAllRead(userID, tenantID); err != nil {
		log.Error("usecase MarkAllRead failed", "error", err)
		resp.SendError(w, r, http.StatusInternalServerError, "Failed to mark notifications read")
		return
	}

	resp.SendOK(w, r, http.StatusOK)
}

func callerFromContext(r *http.Request) (userID, tenantID uint, ok bool) {
	userID, okUser := r.Context().Value("userId").(uint)
	tenantID, okTenant := r.Context().Value("tenantId").(uint)
	return userID, tenantID, okUser && okTenant
}
