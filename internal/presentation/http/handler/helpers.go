package handler

import (
	"context"
	"strconv"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/sangkips/receipt-studio/internal/application/service"
	"github.com/sangkips/receipt-studio/internal/presentation/http/dto/response"
	"github.com/sangkips/receipt-studio/internal/presentation/http/middleware"
	"github.com/sangkips/receipt-studio/pkg/apperror"
)

// RequestConfirmer approves a prompt when the request carries
// ?confirm=true or an "X-Confirm: true" header.
func RequestConfirmer(c *gin.Context) service.Confirmer {
	ok := isTrue(c.Query("confirm")) || isTrue(c.GetHeader(middleware.ConfirmHeader))
	return service.ConfirmFunc(func(context.Context, string) bool { return ok })
}

func isTrue(s string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(s))
	return err == nil && b
}

// currentSession returns the request's session or writes an error.
func currentSession(c *gin.Context) (*service.Session, bool) {
	sess := middleware.GetSession(c)
	if sess == nil {
		response.Error(c, apperror.NewAppError(500, "Session middleware is not installed"))
		return nil, false
	}
	return sess, true
}

func parseIndex(c *gin.Context) (int, bool) {
	i, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		response.BadRequest(c, "Invalid item index")
		return 0, false
	}
	return i, true
}

func parseHistoryID(c *gin.Context) (snowflake.ID, bool) {
	id, err := snowflake.ParseString(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid receipt ID")
		return 0, false
	}
	return id, true
}
