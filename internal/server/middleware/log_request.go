package middleware

import (
	"bufio"
	"bytes"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/labstack/echo/v4"

	"github.com/nguyentranbao-ct/reuse/pkg/ctxval"
)

type (
	// LogRequestConfig store middleware configuration
	LogRequestConfig struct {
		Logger       Logger
		Enabled      func(c echo.Context) bool
		RequestID    func(c echo.Context) string
		RequestBody  func(c echo.Context) bool
		ResponseBody func(c echo.Context) bool
		QueryParams  func(c echo.Context) bool
		ParamValues  func(c echo.Context) bool
		KeyAndValues func(c echo.Context) []interface{}
	}
	bodyDumpWriter struct {
		io.Writer
		http.ResponseWriter
	}
)

// LogRequest writes one access log line per request. Request and response bodies are logged
// only when they are JSON. Values handlers publish through ctxval are appended to the line.
func LogRequest(config LogRequestConfig) echo.MiddlewareFunc {
	defFunc := func(c echo.Context) bool {
		return true
	}
	nopFunc := func(c echo.Context) bool {
		return false
	}
	if config.Logger == nil {
		panic("Logger is required to use LogRequest")
	}
	if config.Enabled == nil {
		config.Enabled = defFunc
	}
	if config.RequestBody == nil {
		config.RequestBody = defFunc
	}
	if config.ResponseBody == nil {
		config.ResponseBody = defFunc
	}
	if config.QueryParams == nil {
		config.QueryParams = defFunc
	}
	if config.ParamValues == nil {
		config.ParamValues = nopFunc
	}
	if config.RequestID == nil {
		config.RequestID = GetRequestID
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !config.Enabled(c) {
				return next(c)
			}

			start := time.Now()
			req := c.Request()
			ctx := ctxval.Wrap(req.Context())
			req = req.WithContext(ctx)
			c.SetRequest(req)
			res := c.Response()

			logReqBody := config.RequestBody(c)
			logResBody := config.ResponseBody(c)

			var reqBody json.RawMessage
			if logReqBody && isJSON(req.Header.Get(echo.HeaderContentType)) {
				reqBody, _ = io.ReadAll(req.Body)
				if len(reqBody) == 0 {
					reqBody = nil
				}
				req.Body = io.NopCloser(bytes.NewBuffer(reqBody))
			}
			var resBuf bytes.Buffer
			if logResBody {
				mw := io.MultiWriter(res.Writer, &resBuf)
				res.Writer = &bodyDumpWriter{Writer: mw, ResponseWriter: res.Writer}
			}

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			args := make([]interface{}, 0, 32)
			args = append(args,
				"status", res.Status,
				"method", req.Method,
				"uri", req.RequestURI,
				"latency_ms", time.Since(start).Milliseconds(),
				"real_ip", c.RealIP(),
				"user_agent", req.UserAgent(),
				"request_id", config.RequestID(c),
			)
			if config.QueryParams(c) && len(c.QueryParams()) > 0 {
				args = append(args, "query", c.QueryParams())
			}
			if config.ParamValues(c) {
				params := make(map[string]string)
				for _, name := range c.ParamNames() {
					params[name] = c.Param(name)
				}
				if len(params) > 0 {
					args = append(args, "params", params)
				}
			}
			args = append(args, ctxval.KeyValues(ctx)...)
			if config.KeyAndValues != nil {
				args = append(args, config.KeyAndValues(c)...)
			}
			if reqBody != nil {
				args = append(args, "request_body", reqBody)
			}
			if logResBody && isJSON(res.Header().Get(echo.HeaderContentType)) && resBuf.Len() > 0 {
				args = append(args, "response_body", json.RawMessage(resBuf.Bytes()))
			}

			switch {
			case res.Status >= 500:
				if err != nil {
					args = append(args, "error", err.Error())
				}
				config.Logger.Errorw("request", args...)
			case res.Status >= 400:
				config.Logger.Warnw("request", args...)
			default:
				config.Logger.Infow("request", args...)
			}

			return err
		}
	}
}

func isJSON(contentType string) bool {
	return strings.HasPrefix(contentType, echo.MIMEApplicationJSON)
}

func (w *bodyDumpWriter) WriteHeader(code int) {
	w.ResponseWriter.WriteHeader(code)
}

func (w *bodyDumpWriter) Write(b []byte) (int, error) {
	return w.Writer.Write(b)
}

func (w *bodyDumpWriter) Flush() {
	w.ResponseWriter.(http.Flusher).Flush()
}

func (w *bodyDumpWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	return w.ResponseWriter.(http.Hijacker).Hijack()
}
