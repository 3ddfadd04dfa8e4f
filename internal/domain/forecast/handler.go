package forecast

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/censusops/census/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	readGroup := api.Group("", auth.RequireRole("admin", "census", "staffing"))
	readGroup.GET("/hospitals/:id/forecast", h.Basic)
	readGroup.GET("/hospitals/:id/forecast/combined", h.Combined)
}

func horizonParam(c echo.Context) int {
	days, _ := strconv.Atoi(c.QueryParam("days"))
	if days <= 0 {
		return DefaultHorizon
	}
	if days > MaxHorizon {
		return MaxHorizon
	}
	return days
}

func (h *Handler) Basic(c echo.Context) error {
	hospitalID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid hospital id")
	}
	result, err := h.svc.Basic(c.Request().Context(), hospitalID, horizonParam(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, result)
}

func (h *Handler) Combined(c echo.Context) error {
	hospitalID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid hospital id")
	}
	result, err := h.svc.Combined(c.Request().Context(), hospitalID, horizonParam(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, result)
}
