package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"fitness-portal/internal/dto"
	"fitness-portal/internal/services"
	apperrors "fitness-portal/pkg/errors"
	"fitness-portal/pkg/utils"
)

type ProfileController struct {
	profileService services.ProfileServiceInterface
	responder
}

func NewProfileController(profileService services.ProfileServiceInterface, sessions services.SessionServiceInterface, logger *zap.Logger) *ProfileController {
	return &ProfileController{
		profileService: profileService,
		responder:      responder{sessions: sessions, logger: logger},
	}
}

type ProfilePage struct {
	Values map[string]string
	Errors map[string]string
}

func (ctrl *ProfileController) Show(c echo.Context) error {
	session := dto.SessionFromContext(c.Request().Context())
	return ctrl.render(c, http.StatusOK, "profile", "Hồ sơ", ProfilePage{
		Values: services.FormValues(dto.UpdateProfileDTO{
			FullName:    session.FullName,
			Email:       session.Email,
			PhoneNumber: session.PhoneNumber,
		}),
	})
}

func (ctrl *ProfileController) Update(c echo.Context) error {
	session := dto.SessionFromContext(c.Request().Context())

	var payload dto.UpdateProfileDTO
	if err := c.Bind(&payload); err != nil {
		return ctrl.fail(c, badRequest("Dữ liệu hồ sơ không hợp lệ", err), "/profile")
	}

	updated, err := ctrl.profileService.UpdateProfile(c.Request().Context(), session.ID, payload)
	if err != nil {
		if vErr, ok := isValidation(err); ok && !utils.WantsJSON(c) {
			return ctrl.render(c, http.StatusUnprocessableEntity, "profile", "Hồ sơ", ProfilePage{
				Values: services.FormValues(payload),
				Errors: vErr.Fields,
			})
		}
		return ctrl.fail(c, err, "/profile")
	}

	if utils.WantsJSON(c) {
		return utils.SuccessResponse(c, updated.Profile(), "Đã cập nhật hồ sơ", http.StatusOK)
	}
	return ctrl.done(c, "Đã cập nhật hồ sơ", "/profile")
}

// UploadAvatar принимает multipart-поле avatar.
func (ctrl *ProfileController) UploadAvatar(c echo.Context) error {
	session := dto.SessionFromContext(c.Request().Context())

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		return ctrl.fail(c, apperrors.NewHttpError(http.StatusBadRequest, "Vui lòng chọn ảnh đại diện", apperrors.ErrBadRequest, nil), "/profile")
	}
	file, err := fileHeader.Open()
	if err != nil {
		return ctrl.fail(c, err, "/profile")
	}
	defer file.Close()

	updated, err := ctrl.profileService.UploadAvatar(c.Request().Context(), session.ID, file, fileHeader.Filename, fileHeader.Size)
	if err != nil {
		return ctrl.fail(c, err, "/profile")
	}

	if utils.WantsJSON(c) {
		return utils.SuccessResponse(c, updated.Profile(), "Đã cập nhật ảnh đại diện", http.StatusOK)
	}
	return ctrl.done(c, "Đã cập nhật ảnh đại diện", "/profile")
}
