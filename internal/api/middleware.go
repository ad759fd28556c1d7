package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/BeamLabEU/phoenix-kit-sub002/pkg/models"
)

// contextKey is a private type to prevent key collisions in context.
type contextKey string

// claimsContextKey is the key used to store/retrieve JWT claims from context.
const claimsContextKey contextKey = "claims"

// responseWriter is a wrapper around http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter

	status int
}

// WriteHeader captures the status code before writing it to the response.
func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

// contextMiddleware injects global dependencies (like the DB logger) into the request context.
func (s *Server) contextMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := models.NewContextWithLogger(r.Context(), s.db.CreateLogEntry)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// LoggerMiddleware logs HTTP requests to the database asynchronously.
func (s *Server) LoggerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rw, r)

		duration := time.Since(start)

		level := models.LevelInfo
		if rw.status >= 400 && rw.status < 500 {
			level = models.LevelWarning
		} else if rw.status >= 500 {
			level = models.LevelError
		}

		subject := "Anonymous"
		if claims := claimsFromContext(r.Context()); claims != nil {
			if sub, err := claims.GetSubject(); err == nil && sub != "" {
				subject = sub
			}
		}

		message := fmt.Sprintf("%s %s - %d", r.Method, r.URL.Path, rw.status)
		data := fmt.Sprintf("Subject: %s | Duration: %s | IP: %s | UserAgent: %s",
			subject, duration, r.RemoteAddr, r.UserAgent())

		_ = s.db.CreateLogEntry(context.Background(), level, "API", message, data)
	})
}

// authMiddleware checks for a Bearer token, validates it, and sets the claims
// in context. It is "soft" authentication: requests without a valid token
// proceed anonymously, and each protected handler enforces authorization.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := s.extractTokenFromRequest(r)
		if tokenString == "" {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := s.parseJWT(tokenString)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), claimsContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// parseJWT parses and cryptographically validates a token, returning its claims.
// It checks signature, expiration, and issuer.
func (s *Server) parseJWT(tokenString string) (jwt.MapClaims, error) {
	var token *jwt.Token
	var err error

	if s.jwks != nil {
		token, err = jwt.Parse(tokenString, s.jwks.Keyfunc)
	} else {
		token, err = jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
			_, ok := token.Method.(*jwt.SigningMethodHMAC)
			if !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return s.jwtSecret, nil
		})
	}

	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, fmt.Errorf("token is invalid")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}

	if s.externalIssuer != "" {
		iss, _ := claims.GetIssuer()
		if iss != s.externalIssuer {
			return nil, fmt.Errorf("invalid issuer: expected %s, got %s", s.externalIssuer, iss)
		}
	}

	return claims, nil
}

// extractTokenFromRequest extracts a bearer token from the Authorization header.
func (s *Server) extractTokenFromRequest(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}
	if len(parts) == 1 && parts[0] != "" {
		return parts[0]
	}

	return ""
}

// claimsFromContext is a helper to retrieve claims safely from a request context.
func claimsFromContext(ctx context.Context) jwt.MapClaims {
	claims, ok := ctx.Value(claimsContextKey).(jwt.MapClaims)
	if !ok {
		return nil
	}

	return claims
}

// isAuthorized reports whether the request carries validated claims.
func isAuthorized(ctx context.Context) bool {
	return claimsFromContext(ctx) != nil
}
