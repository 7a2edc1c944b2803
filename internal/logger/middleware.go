package logger

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
)

type userIDKey struct{}

// UserIDHolder lets the auth middleware, which runs deeper in the chain, report the
// authenticated user back to the access log.
type UserIDHolder struct {
	ID string
}

// SetUserID records the authenticated user for the current request's access log line.
func SetUserID(ctx context.Context, id string) {
	if h, ok := ctx.Value(userIDKey{}).(*UserIDHolder); ok {
		h.ID = id
	}
}

// RequestLogger writes one access log line per request and puts a request-scoped logger
// into the context for zerolog.Ctx.
func RequestLogger(log zerolog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			holder := &UserIDHolder{}
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			reqLog := log.With().Str("request_id", middleware.GetReqID(r.Context())).Logger()
			ctx := context.WithValue(r.Context(), userIDKey{}, holder)
			r = r.WithContext(reqLog.WithContext(ctx))

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			ev := log.Info()
			if status >= http.StatusInternalServerError {
				ev = log.Error()
			}
			ev = ev.
				Str("request_id", middleware.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", status).
				Int("bytes", ww.BytesWritten()).
				Dur("duration", time.Since(start))
			if holder.ID != "" {
				ev = ev.Str("user_id", holder.ID)
			}
			if sc := trace.SpanContextFromContext(r.Context()); sc.HasTraceID() {
				ev = ev.Str("trace_id", sc.TraceID().String())
			}
			ev.Msg("request completed")
		})
	}
}
