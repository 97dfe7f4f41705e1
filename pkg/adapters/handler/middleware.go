package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/wadjakorntonsri/go-link-directory/pkg/core/domain"
	"github.com/wadjakorntonsri/go-link-directory/pkg/ports"
)

const RequestIDHeader = "X-Request-ID"

type ctxKey int

const (
	sessionKey ctxKey = iota
	requestIDKey
)

type Middleware struct {
	auth       ports.AuthService
	cookieName string
	log        zerolog.Logger
}

func NewMiddleware(auth ports.AuthService, cookieName string, log zerolog.Logger) *Middleware {
	return &Middleware{auth: auth, cookieName: cookieName, log: log}
}

// RequireSession rejects requests without a valid session cookie
func (m *Middleware) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, ok := m.session(r)
		if !ok {
			writeError(w, r, domain.ErrInvalidSession)
			return
		}

		ctx := context.WithValue(r.Context(), sessionKey, session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *Middleware) session(r *http.Request) (*domain.Session, bool) {
	cookie, err := r.Cookie(m.cookieName)
	if err != nil {
		return nil, false
	}
	session, err := m.auth.Verify(cookie.Value)
	if err != nil {
		return nil, false
	}
	return session, true
}

// SessionFromContext returns the session stored by RequireSession.
func SessionFromContext(ctx context.Context) (*domain.Session, bool) {
	s, ok := ctx.Value(sessionKey).(*domain.Session)
	return s, ok
}

// RequestID reuses the caller's X-Request-ID or generates one.
func (m *Middleware) RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		w.Header().Set(RequestIDHeader, id)

		ctx := context.WithValue(r.Context(), requestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func requestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// Logger attaches a request scoped logger and writes one access line per request.
func (m *Middleware) Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		reqLog := m.log.With().
			Str("request_id", requestID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Logger()

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(reqLog.WithContext(r.Context())))

		var e *zerolog.Event
		switch {
		case rec.status >= 500:
			e = reqLog.Error()
		case rec.status >= 400:
			e = reqLog.Warn()
		default:
			e = reqLog.Info()
		}
		e.Int("status", rec.status).
			Dur("latency", time.Since(start)).
			Str("ip", r.RemoteAddr).
			Str("user_agent", r.UserAgent()).
			Msg("API")
	})
}

// Recover turns a panic into a 500 response.
func (m *Middleware) Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if v := recover(); v != nil {
				if v == http.ErrAbortHandler {
					panic(v)
				}
				zerolog.Ctx(r.Context()).Error().Interface("panic", v).Msg("recovered from panic")
				writeJSON(w, http.StatusInternalServerError,
					newHTTPError(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (s *statusRecorder) WriteHeader(code int) {
	if !s.wroteHeader {
		s.status = code
		s.wroteHeader = true
	}
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	s.wroteHeader = true
	return s.ResponseWriter.Write(b)
}

func (s *statusRecorder) Unwrap() http.ResponseWriter {
	return s.ResponseWriter
}
