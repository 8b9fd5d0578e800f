package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/authlab/auth-backend/internal/api/middleware"
)

// pathID parses the :id route parameter as a positive user id.
func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}
	return id, nil
}

// ctxSubjectID returns the user id carried by the token the Auth middleware
// verified. A subject that is not a numeric id means the token was not issued
// by this service.
func ctxSubjectID(c echo.Context) (int64, error) {
	subject, _ := c.Get(middleware.CtxSubject).(string)
	if subject == "" {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	id, err := strconv.ParseInt(subject, 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "token subject is not a user id")
	}
	return id, nil
}
