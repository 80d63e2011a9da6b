package dto

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rosverk/rosreg/pkg/errors"
)

// SendSuccess writes data in the success envelope with the given status.
func SendSuccess(c *gin.Context, status int, data interface{}) {
	c.JSON(status, SuccessResponse(data, TraceIDFromContext(c.Request.Context())))
}

// SendError writes err in the failure envelope using its mapped HTTP
// status. Non-AppErrors are reported as internal errors.
func SendError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	if appErr, ok := errors.AsAppError(err); ok {
		status = appErr.HTTPStatus()
	}
	c.JSON(status, ErrorResponse(err, TraceIDFromContext(c.Request.Context())))
}
