package imports

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/censusops/census/internal/platform/auth"
	"github.com/censusops/census/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	readGroup := api.Group("", auth.RequireRole("admin", "census", "staffing"))
	readGroup.GET("/imports", h.ListImports)
	readGroup.GET("/imports/:id", h.GetImport)
	readGroup.GET("/hospitals/:id/imports/latest", h.LatestImport)

	writeGroup := api.Group("", auth.RequireRole("admin", "census"))
	writeGroup.POST("/imports", h.CreateImport)
}

type createImportRequest struct {
	HospitalID uuid.UUID `json:"hospital_id"`
	FileName   string    `json:"file_name"`
	UploadDate time.Time `json:"upload_date"`
}

func (h *Handler) CreateImport(c echo.Context) error {
	var req createImportRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	imp, err := h.svc.CreateImport(c.Request().Context(), req.HospitalID, req.FileName, req.UploadDate)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, imp)
}

func (h *Handler) GetImport(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	imp, err := h.svc.GetImport(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "import not found")
	}
	return c.JSON(http.StatusOK, imp)
}

func (h *Handler) LatestImport(c echo.Context) error {
	hospitalID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid hospital id")
	}
	imp, err := h.svc.LatestActive(c.Request().Context(), hospitalID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if imp == nil {
		return echo.NewHTTPError(http.StatusNotFound, "hospital has no active imports")
	}
	return c.JSON(http.StatusOK, imp)
}

func (h *Handler) ListImports(c echo.Context) error {
	hospitalID, err := uuid.Parse(c.QueryParam("hospital_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "hospital_id is required")
	}
	p := pagination.FromContext(c)
	items, total, err := h.svc.ListImports(c.Request().Context(), hospitalID, p.Limit, p.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, p.Limit, p.Offset))
}
