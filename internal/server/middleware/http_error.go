package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/nguyentranbao-ct/reuse/internal/models"
)

const statusClientClosedRequest = 499

var grpcHTTPStatus = map[codes.Code]int{
	codes.InvalidArgument:  http.StatusBadRequest,
	codes.NotFound:         http.StatusNotFound,
	codes.Unauthenticated:  http.StatusUnauthorized,
	codes.PermissionDenied: http.StatusForbidden,
	codes.AlreadyExists:    http.StatusConflict,
	codes.Unavailable:      http.StatusServiceUnavailable,
}

var grpcErrorCode = map[codes.Code]string{
	codes.InvalidArgument:  "invalid_argument",
	codes.NotFound:         "not_found",
	codes.Unauthenticated:  "unauthenticated",
	codes.PermissionDenied: "permission_denied",
	codes.AlreadyExists:    "already_exists",
	codes.Unavailable:      "unavailable",
}

// ToResponseError maps an error returned by a handler to the status and envelope sent to the client.
func ToResponseError(err error) *ResponseError {
	resp := &ResponseError{
		Status:       http.StatusInternalServerError,
		Err:          err,
		ErrorCode:    "internal",
		ErrorMessage: http.StatusText(http.StatusInternalServerError),
	}

	var (
		re     *ResponseError
		he     *echo.HTTPError
		remote *models.RemoteError
	)
	switch {
	case errors.As(err, &re):
		return re
	case errors.As(err, &he):
		resp.Status = he.Code
		resp.ErrorCode = ""
		resp.ErrorMessage = fmt.Sprint(he.Message)
	case errors.As(err, &remote):
		resp.Status = remote.StatusCode
		if resp.Status < 400 || resp.Status > 599 {
			resp.Status = http.StatusBadGateway
		}
		resp.ErrorCode = "remote_error"
		resp.ErrorMessage = remote.Message
	case errors.Is(err, context.Canceled):
		resp.Status = statusClientClosedRequest
		resp.ErrorCode = "canceled"
		resp.ErrorMessage = err.Error()
	default:
		if st, ok := status.FromError(err); ok {
			if code, ok := grpcHTTPStatus[st.Code()]; ok {
				resp.Status = code
				resp.ErrorCode = grpcErrorCode[st.Code()]
				// wrapped status errors carry the whole chain in their message
				resp.ErrorMessage = strings.Replace(st.Message(), fmt.Sprintf("rpc error: code = %s desc = ", st.Code()), "", 1)
			}
		}
	}
	return resp
}

// ErrorHandler return custom http error handler.
func ErrorHandler(log Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if err == nil || c.Response().Committed {
			return
		}

		resp := ToResponseError(err)
		if resp.Status == http.StatusNotFound && isNotFoundHandler(c.Handler()) {
			resp.ErrorMessage = "no route matched"
		}
		if resp.Status >= 500 {
			log.Errorw("request failed", "uri", c.Request().RequestURI, "error", err)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(resp.Status)
		} else {
			err = c.JSON(resp.Status, resp)
		}
		if err != nil {
			log.Errorw("could not response", "code", resp.Status, "response_body", resp)
		}
	}
}
