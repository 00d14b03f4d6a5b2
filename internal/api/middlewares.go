package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"runtime/debug"
	"slices"
	"strings"

	"github.com/gofrs/uuid/v5"
	"github.com/golang-jwt/jwt/v5/request"

	"github.com/samandr77/microservices/portal/internal/entity"
	"github.com/samandr77/microservices/portal/internal/guard"
	"github.com/samandr77/microservices/portal/pkg/logger"
)

var skipLogging = map[string]struct{}{
	"/api/health": {},
}

// Browsers cannot set headers on websocket handshakes, so the token may also
// come as a query argument.
var tokenExtractor = request.MultiExtractor{
	request.BearerExtractor{},
	request.ArgumentExtractor{"access_token"},
}

//go:generate go run go.uber.org/mock/mockgen@latest -source=middlewares.go -destination=../mocks/middlewares.go -package=mocks

type AuthService interface {
	Authenticate(ctx context.Context, token string) (entity.Session, error)
}

type Middleware struct {
	auth           AuthService
	allowedOrigins []string
}

func NewMiddleware(auth AuthService, allowedOrigins []string) *Middleware {
	return &Middleware{
		auth:           auth,
		allowedOrigins: allowedOrigins,
	}
}

func (m *Middleware) Log(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		requestID := r.Header.Get("X-Request-Id")
		if requestID == "" {
			requestID = uuid.Must(uuid.NewV4()).String()
		}

		ctx = logger.WithRequestID(ctx, requestID)
		w.Header().Set("X-Request-Id", requestID)

		if _, ok := skipLogging[r.URL.Path]; !ok {
			reqBody, err := io.ReadAll(r.Body)
			if err != nil {
				SendJSONErr(ctx, w, http.StatusInternalServerError, err, "Read request body")
				return
			}

			r.Body.Close()
			r.Body = io.NopCloser(bytes.NewBuffer(reqBody))

			var headers strings.Builder

			for k, v := range r.Header {
				if k == "Authorization" || k == "Cookie" {
					continue
				}

				headers.WriteString(fmt.Sprintf("%s: %s,\n", k, v))
			}

			slog.InfoContext(ctx, "incoming request",
				"request", fmt.Sprintf("%s %s\n%s", r.Method, redactedURL(r.URL), reqBody),
				"headers", headers.String(),
			)
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func redactedURL(u *url.URL) string {
	q := u.Query()
	if !q.Has("access_token") {
		return u.Redacted()
	}

	q.Set("access_token", "xxxxx")

	c := *u
	c.RawQuery = q.Encode()

	return c.Redacted()
}

func (m *Middleware) Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		defer func() {
			err := recover()
			if err != nil {
				slog.ErrorContext(ctx, "recovered from panic", "error", err, "stack", string(debug.Stack()))
				SendJSONErr(ctx, w, http.StatusInternalServerError, fmt.Errorf("panic: %v", err), "Internal error")
			}
		}()

		next.ServeHTTP(w, r)
	})
}

func (m *Middleware) Cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")

		switch {
		case origin == "":
			w.Header().Set("Access-Control-Allow-Origin", "*")
		case m.originAllowed(origin):
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin")
		}

		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Origin, Accept, User-Agent, Cache-Control, X-Request-Id")

		if r.Method == http.MethodOptions {
			return
		}

		next.ServeHTTP(w, r)
	})
}

// originAllowed treats an empty list or "*" as allowing every origin.
func (m *Middleware) originAllowed(origin string) bool {
	if len(m.allowedOrigins) == 0 || slices.Contains(m.allowedOrigins, "*") {
		return true
	}

	return slices.Contains(m.allowedOrigins, origin)
}

func (m *Middleware) WithIP(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := removePort(r.RemoteAddr)

		if xForwardedFor := r.Header.Get("X-Forwarded-For"); xForwardedFor != "" {
			for _, part := range splitAndTrim(xForwardedFor, ",") {
				part = removePort(part)
				if isValidIP(part) {
					ip = part
					break
				}
			}
		}

		if xRealIP := r.Header.Get("X-Real-IP"); xRealIP != "" {
			xRealIP = removePort(xRealIP)
			if isValidIP(xRealIP) {
				ip = xRealIP
			}
		}

		if !isValidIP(ip) {
			slog.Warn("invalid IP detected, using fallback", "ip", ip, "remote_addr", r.RemoteAddr)
			ip = "unknown"
		}

		next.ServeHTTP(w, r.WithContext(logger.WithIP(r.Context(), ip)))
	})
}

// BearerAuth resolves the bearer token to a session and puts it into the
// request context.
func (m *Middleware) BearerAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		token, err := tokenExtractor.ExtractToken(r)
		if err != nil {
			SendJSONErr(ctx, w, http.StatusUnauthorized, err, "Token is missing or invalid")
			return
		}

		session, err := m.auth.Authenticate(ctx, token)
		if err != nil {
			if errors.Is(err, entity.ErrUnauthorized) {
				SendJSONErr(ctx, w, http.StatusUnauthorized, err, "Invalid token")
			} else {
				SendJSONErr(ctx, w, http.StatusInternalServerError, err, "Authentication failed")
			}

			return
		}

		ctx = entity.CtxWithSession(ctx, session)
		ctx = logger.WithUserID(ctx, session.User.ID)

		if session.Org.PharmacyID != "" {
			ctx = logger.WithPharmacyID(ctx, session.Org.PharmacyID)
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Guard rejects requests whose session access does not pass g.
func (m *Middleware) Guard(g guard.Guard) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			session, err := entity.SessionFromCtx(ctx)
			if err != nil {
				SendJSONErr(ctx, w, http.StatusUnauthorized, err, "Session is missing or expired")
				return
			}

			if g.Allows(&session.Access) {
				next.ServeHTTP(w, r)
				return
			}

			withoutOperate := g
			withoutOperate.RequireOperate = false

			if g.RequireOperate && withoutOperate.Allows(&session.Access) {
				sendServiceErr(ctx, w, entity.ErrOperateDenied, "")
				return
			}

			sendServiceErr(ctx, w, entity.ErrForbidden, "")
		})
	}
}

func removePort(addr string) string {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}

	return host
}

func splitAndTrim(s, sep string) []string {
	parts := strings.Split(s, sep)
	result := []string{}

	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

func isValidIP(ip string) bool {
	if ip == "" {
		return false
	}

	return net.ParseIP(ip) != nil
}
