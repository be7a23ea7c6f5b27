package response

import (
	"github.com/gin-gonic/gin"
	domainerrors "fundguard.backend/internal/domain/errors"
)

// Success sends a success response
func Success(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}

// Error sends an error response. Refused state transitions carry the legal
// next states, incomplete checklists the missing item names.
func Error(c *gin.Context, err error) {
	var appErr *domainerrors.AppError
	if e, ok := err.(*domainerrors.AppError); ok {
		appErr = e
	} else {
		appErr = domainerrors.InternalError(err)
	}

	body := gin.H{
		"code":    appErr.Code,
		"message": appErr.Message,
	}
	if len(appErr.LegalNext) > 0 {
		body["legalNextStates"] = appErr.LegalNext
	}
	if len(appErr.Missing) > 0 {
		body["missingItems"] = appErr.Missing
	}

	c.JSON(appErr.Status, body)
}

// ErrorWithError sends an error response with a specific status and message
func ErrorWithError(c *gin.Context, status int, code string, message string) {
	c.JSON(status, gin.H{
		"code":    code,
		"message": message,
	})
}
