package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"qualiobra/cmd/internal/contract"
	"qualiobra/cmd/internal/domain/entity"
	"qualiobra/cmd/internal/utils"
	"qualiobra/cmd/internal/utils/apierror"
)

type DiaryService interface {
	GetDiaries(auth *entity.AuthContext, filter *contract.DiaryFilter) ([]*contract.DiaryResponse, apierror.ErrorResponse)
	GetDiary(auth *entity.AuthContext, id int64) (*contract.DiaryResponse, apierror.ErrorResponse)
	CreateDiary(auth *entity.AuthContext, req *contract.DiaryRequest) (*contract.DiaryResponse, apierror.ErrorResponse)
	UpdateDiary(auth *entity.AuthContext, id int64, req *contract.UpdateDiaryRequest) (*contract.DiaryResponse, apierror.ErrorResponse)
	DeleteDiary(auth *entity.AuthContext, id int64) apierror.ErrorResponse
}

type DefaultDiaryRoute struct {
	DiaryService DiaryService
}

func NewDiaryDefault(diaryService DiaryService) *DefaultDiaryRoute {
	return &DefaultDiaryRoute{DiaryService: diaryService}
}

func (r *DefaultDiaryRoute) GetDiaries(c echo.Context) error {
	auth, cerr := utils.GetAuthFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	var filter contract.DiaryFilter
	if apierr := bindQuery(c, &filter); apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	diaries, apierr := r.DiaryService.GetDiaries(auth, &filter)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, contract.NewList(diaries))
}

func (r *DefaultDiaryRoute) GetDiary(c echo.Context) error {
	auth, cerr := utils.GetAuthFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	id, apierr := pathID(c, "id")
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	diary, apierr := r.DiaryService.GetDiary(auth, id)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, diary)
}

func (r *DefaultDiaryRoute) CreateDiary(c echo.Context) error {
	auth, cerr := utils.GetAuthFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	var req contract.DiaryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	diary, apierr := r.DiaryService.CreateDiary(auth, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, diary)
}

func (r *DefaultDiaryRoute) UpdateDiary(c echo.Context) error {
	auth, cerr := utils.GetAuthFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	id, apierr := pathID(c, "id")
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	var req contract.UpdateDiaryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	diary, apierr := r.DiaryService.UpdateDiary(auth, id, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, diary)
}

func (r *DefaultDiaryRoute) DeleteDiary(c echo.Context) error {
	auth, cerr := utils.GetAuthFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	id, apierr := pathID(c, "id")
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	if apierr = r.DiaryService.DeleteDiary(auth, id); apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.NoContent(http.StatusNoContent)
}
