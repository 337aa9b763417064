package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/joseph-ayodele/menu-extractor/internal/common"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func statusFor(code string) int {
	switch code {
	case common.CodeInvalidInput:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeError sends err as {error, code}. Causes stay in the server log.
func writeError(c *gin.Context, err error) {
	code := common.CodeOf(err)
	c.AbortWithStatusJSON(statusFor(code), errorResponse{
		Error: common.MessageOf(err),
		Code:  code,
	})
}
