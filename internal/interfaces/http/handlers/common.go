// Package handlers implements the HTTP API surface: deadline calculation,
// rule-pack inspection, the audit trail, and health probes.
package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bginsber/docketcalc/internal/interfaces/http/middleware"
	"github.com/bginsber/docketcalc/pkg/errors"
	"github.com/bginsber/docketcalc/pkg/types/common"
)

// respond writes the standard success envelope.
func respond(c *gin.Context, status int, data any) {
	c.JSON(status, common.APIResponse[any]{
		Success:   true,
		Data:      data,
		RequestID: middleware.GetRequestID(c),
		Timestamp: time.Now().UTC(),
	})
}

// respondError maps an error onto the envelope using its error code.  Server
// errors are masked; the code survives so the caller can correlate against
// logs.
func respondError(c *gin.Context, err error) {
	code := errors.GetCode(err)
	status := errors.HTTPStatusForCode(code)

	detail := &common.ErrorDetail{
		Code:    code.String(),
		Message: errors.DefaultMessageForCode(code),
	}
	if ae, ok := err.(*errors.AppError); ok && errors.IsClientError(code) {
		detail.Message = ae.Message
		detail.Detail = ae.Detail
	}

	c.JSON(status, common.APIResponse[any]{
		Success:   false,
		Error:     detail,
		RequestID: middleware.GetRequestID(c),
		Timestamp: time.Now().UTC(),
	})
}

// respondBadRequest reports a request that failed binding or validation.
func respondBadRequest(c *gin.Context, msg string) {
	respondError(c, errors.New(errors.ErrCodeBadRequest, msg))
}
