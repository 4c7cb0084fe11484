package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sumire/receiptly/internal/domain"
	"github.com/sumire/receiptly/internal/service"
)

// PreferenceHandler exposes reminder preference management.
type PreferenceHandler struct {
	prefs *service.Preferences
}

// NewPreferenceHandler creates a new PreferenceHandler.
func NewPreferenceHandler(prefs *service.Preferences) *PreferenceHandler {
	return &PreferenceHandler{prefs: prefs}
}

// Get returns the caller's reminder preference.
func (h *PreferenceHandler) Get(c echo.Context) error {
	userID, ok := GetUserID(c)
	if !ok {
		return domain.ErrUnauthorized
	}

	pref, err := h.prefs.Get(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return JSON(c, http.StatusOK, pref)
}

// Update validates and stores the caller's reminder preference.
func (h *PreferenceHandler) Update(c echo.Context) error {
	userID, ok := GetUserID(c)
	if !ok {
		return domain.ErrUnauthorized
	}

	var req service.UpdatePreferencesRequest
	if err := c.Bind(&req); err != nil {
		return domain.ErrInvalidInput
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	pref, err := h.prefs.Update(c.Request().Context(), userID, req)
	if err != nil {
		return err
	}
	return JSON(c, http.StatusOK, pref)
}
