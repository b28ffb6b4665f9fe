package handler

import (
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"qualiobra/cmd/internal/utils/apierror"
	"qualiobra/cmd/internal/utils/uid"
)

func pathID(c echo.Context, name string) (int64, apierror.ErrorResponse) {
	raw := strings.TrimSpace(c.Param(name))
	if raw == "" {
		return 0, apierror.NewMissingParamError(name)
	}

	id, ok := uid.Parse(raw)
	if !ok {
		return 0, apierror.InvalidIDError
	}
	return id, nil
}

// queryID reads a required id from the query string.
func queryID(c echo.Context, name string) (int64, apierror.ErrorResponse) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return 0, apierror.NewMissingParamError(name)
	}

	id, ok := uid.Parse(raw)
	if !ok {
		return 0, apierror.NewInvalidParamTypeError(name, "id")
	}
	return id, nil
}

// queryBool treats a missing or unparsable flag as false.
func queryBool(c echo.Context, name string) bool {
	v, err := strconv.ParseBool(c.QueryParam(name))
	return err == nil && v
}

func bindQuery(c echo.Context, dst any) apierror.ErrorResponse {
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, dst); err != nil {
		return apierror.MalformedQueryError
	}
	return nil
}

// optionalQueryID returns 0 when the parameter is absent.
func optionalQueryID(c echo.Context, name string) (int64, apierror.ErrorResponse) {
	if strings.TrimSpace(c.QueryParam(name)) == "" {
		return 0, nil
	}
	return queryID(c, name)
}
