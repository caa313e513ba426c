package controllers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"fitness-portal/internal/dto"
	"fitness-portal/internal/services"
	apperrors "fitness-portal/pkg/errors"
	"fitness-portal/pkg/types"
	"fitness-portal/pkg/utils"
)

// PagesController - публичные страницы и витрина пакетов для гостей и членов клуба.
type PagesController struct {
	packages services.ResourceServiceInterface
	responder
}

func NewPagesController(packages services.ResourceServiceInterface, sessions services.SessionServiceInterface, logger *zap.Logger) *PagesController {
	return &PagesController{
		packages:  packages,
		responder: responder{sessions: sessions, logger: logger},
	}
}

type PackagesPage struct {
	Packages   []dto.PackageDTO
	Pagination types.Pagination
	Search     string
	PerPage    int
	Error      string
}

type PackageDetailPage struct {
	Package  *dto.PackageDTO
	NotFound bool
}

func (ctrl *PagesController) Home(c echo.Context) error {
	return ctrl.render(c, http.StatusOK, "home", "Trang chủ", nil)
}

func (ctrl *PagesController) About(c echo.Context) error {
	return ctrl.render(c, http.StatusOK, "about", "Giới thiệu", nil)
}

func (ctrl *PagesController) Packages(c echo.Context) error {
	filter := utils.ParseFilterFromQuery(c.Request().URL.Query())
	if c.QueryParam("per_page") == "" && c.QueryParam("limit") == "" {
		filter.Limit = 12
		filter.Offset = (filter.Page - 1) * filter.Limit
	}

	page := PackagesPage{Search: filter.Search, PerPage: filter.Limit}
	result, err := ctrl.packages.List(c.Request().Context(), filter)
	if err != nil {
		if errors.Is(err, apperrors.ErrUnauthorized) {
			return ctrl.fail(c, err, "/")
		}
		ctrl.logger.Error("Не удалось загрузить пакеты", zap.Error(err))
		page.Pagination = types.NewPagination(0, 1, filter.Limit)
		page.Error = utils.UserMessage(err)
		return ctrl.render(c, http.StatusOK, "packages", "Gói tập", page)
	}

	page.Pagination = result.Pagination
	for _, row := range result.Rows {
		if p, ok := row.(dto.PackageDTO); ok {
			page.Packages = append(page.Packages, p)
		}
	}
	return ctrl.render(c, http.StatusOK, "packages", "Gói tập", page)
}

// PackageDetail: несуществующий пакет дает страницу с сообщением и ссылкой назад.
func (ctrl *PagesController) PackageDetail(c echo.Context) error {
	row, err := ctrl.packages.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return ctrl.render(c, http.StatusNotFound, "package_detail", "Không tìm thấy gói tập", PackageDetailPage{NotFound: true})
		}
		return ctrl.fail(c, err, "/packages")
	}
	p := row.(dto.PackageDTO)
	return ctrl.render(c, http.StatusOK, "package_detail", p.PackageName, PackageDetailPage{Package: &p})
}
