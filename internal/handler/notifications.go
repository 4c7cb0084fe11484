package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sumire/receiptly/internal/domain"
	"github.com/sumire/receiptly/internal/service"
)

// NotificationHandler exposes the engine trigger endpoints and the
// user-facing scheduling API.
type NotificationHandler struct {
	engine    *service.Engine
	scheduler *service.Scheduler
	processor *service.Processor
	store     service.NotificationStore
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(engine *service.Engine, scheduler *service.Scheduler, processor *service.Processor, store service.NotificationStore) *NotificationHandler {
	return &NotificationHandler{
		engine:    engine,
		scheduler: scheduler,
		processor: processor,
		store:     store,
	}
}

type runRequest struct {
	Manual bool `json:"manual"`
}

// Run triggers one engine pass. Per-notification errors ride inside the
// 200 summary; only a run-level failure (preference store unreachable)
// becomes a 500.
func (h *NotificationHandler) Run(c echo.Context) error {
	var req runRequest
	// Body is optional; an empty or absent body means a scheduled trigger.
	_ = c.Bind(&req)

	summary, err := h.engine.Run(c.Request().Context(), req.Manual)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{
			"success":   false,
			"error":     err.Error(),
			"timestamp": time.Now().UTC(),
		})
	}
	return c.JSON(http.StatusOK, summary)
}

// Process dispatches due scheduled notification drafts.
func (h *NotificationHandler) Process(c echo.Context) error {
	result, err := h.processor.ProcessDue(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{
			"success":   false,
			"error":     err.Error(),
			"timestamp": time.Now().UTC(),
		})
	}
	return c.JSON(http.StatusOK, result)
}

// Schedule creates reminder drafts for the caller's next upcoming receipt.
func (h *NotificationHandler) Schedule(c echo.Context) error {
	userID, ok := GetUserID(c)
	if !ok {
		return domain.ErrUnauthorized
	}

	var req service.ScheduleRequest
	if err := c.Bind(&req); err != nil {
		return domain.ErrInvalidInput
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.scheduler.ScheduleUpcoming(c.Request().Context(), userID, req)
	if err != nil {
		return err
	}
	return JSON(c, http.StatusOK, result)
}

// Upcoming lists the caller's scheduled notifications.
func (h *NotificationHandler) Upcoming(c echo.Context) error {
	userID, ok := GetUserID(c)
	if !ok {
		return domain.ErrUnauthorized
	}

	rows, err := h.store.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	if rows == nil {
		rows = []domain.ScheduledNotification{}
	}
	return JSON(c, http.StatusOK, rows)
}
