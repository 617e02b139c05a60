package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/suPer8Hu/paper-explorer/internal/auth"
	"github.com/suPer8Hu/paper-explorer/internal/chat"
	"github.com/suPer8Hu/paper-explorer/internal/common"
	"github.com/suPer8Hu/paper-explorer/internal/history"
	"github.com/suPer8Hu/paper-explorer/internal/httpapi/middleware"
	"github.com/suPer8Hu/paper-explorer/internal/papers"
	"github.com/suPer8Hu/paper-explorer/internal/quiz"
	"github.com/suPer8Hu/paper-explorer/internal/users"
)

// Response codes carried in the envelope next to the HTTP status.
const (
	codeInvalidJSON  = 10001
	codeValidation   = 10002
	codeInvalidID    = 10003
	codeUnauthorized = 40101
	codeNotFound     = 40401
	codeConflict     = 40901
	codeInternal     = 50001
)

type Handler struct {
	Users   *users.Service
	Auth    *auth.Manager
	History *history.Service
	Chat    *chat.Service
	Papers  *papers.Service
	Quiz    *quiz.Service
	Log     *slog.Logger

	CookieSecure bool
}

func (h *Handler) Ping(c *gin.Context) {
	c.String(http.StatusOK, "pong")
}

// bind decodes the JSON body into req and writes the 400 itself on failure.
func (h *Handler) bind(c *gin.Context, req any) bool {
	err := c.ShouldBindJSON(req)
	if err == nil {
		return true
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		common.Fail(c, http.StatusBadRequest, codeValidation, validationMessage(verrs[0]))
		return false
	}
	common.Fail(c, http.StatusBadRequest, codeInvalidJSON, "invalid json")
	return false
}

func validationMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required", "notblank":
		return fmt.Sprintf("%s is required", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s is too long", field)
	}
	return fmt.Sprintf("%s is invalid", field)
}

// writeError maps a service error to the envelope. Unclassified errors are
// logged and reported as a bare 500.
func (h *Handler) writeError(c *gin.Context, err error) {
	var ce *common.Error
	if !errors.As(err, &ce) {
		h.Log.ErrorContext(c.Request.Context(), "request failed",
			"path", c.FullPath(),
			"request_id", middleware.RequestIDFrom(c),
			"err", err,
		)
		common.Fail(c, http.StatusInternalServerError, codeInternal, "internal error")
		return
	}
	switch ce.Kind {
	case common.KindValidation:
		common.Fail(c, http.StatusBadRequest, codeValidation, ce.Message)
	case common.KindAuth:
		common.Fail(c, http.StatusUnauthorized, codeUnauthorized, ce.Message)
	case common.KindNotFound:
		common.Fail(c, http.StatusNotFound, codeNotFound, ce.Message)
	case common.KindConflict:
		common.Fail(c, http.StatusConflict, codeConflict, ce.Message)
	default:
		common.Fail(c, http.StatusInternalServerError, codeInternal, "internal error")
	}
}

// principal returns the caller resolved by AuthRequired. Routes using it are
// only mounted behind that middleware.
func principal(c *gin.Context) (auth.Principal, bool) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		common.Fail(c, http.StatusUnauthorized, codeUnauthorized, "Not authenticated")
	}
	return p, ok
}
