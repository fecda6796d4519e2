package pandey

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/fx"
)

type LoggerService interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	Logger() *slog.Logger
}

type LoggerServiceParams struct {
	fx.In

	Config Config
}

type LoggerServiceResult struct {
	fx.Out

	LoggerService LoggerService
}

type loggerService struct {
	logger *slog.Logger
}

func NewLoggerService(params LoggerServiceParams) (LoggerServiceResult, error) {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: params.Config.SlogLevel(),
	})

	srv := NewLoggerFrom(slog.New(handler))

	return LoggerServiceResult{LoggerService: srv}, nil
}

// NewLoggerFrom wraps an existing slog.Logger.
func NewLoggerFrom(logger *slog.Logger) LoggerService {
	return &loggerService{logger: logger}
}

func (srv *loggerService) Debug(msg string, args ...any) {
	srv.logger.Debug(msg, args...)
}

func (srv *loggerService) Info(msg string, args ...any) {
	srv.logger.Info(msg, args...)
}

func (srv *loggerService) Warn(msg string, args ...any) {
	srv.logger.Warn(msg, args...)
}

func (srv *loggerService) Error(msg string, args ...any) {
	srv.logger.Error(msg, args...)
}

func (srv *loggerService) Logger() *slog.Logger {
	return srv.logger
}

// RequestLogger logs one line per request once the response is written.
func RequestLogger(logger LoggerService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			defer func() {
				logger.Info("request",
					"method", r.Method,
					"path", r.URL.Path,
					"status", ww.Status(),
					"bytes", ww.BytesWritten(),
					"duration", time.Since(start),
					"request_id", middleware.GetReqID(r.Context()),
				)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
