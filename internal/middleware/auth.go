package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"firebase.google.com/go/v4/auth"

	"github.com/GregMSThompson/schoolfund-backend/pkg/logger"
)

// tokenVerifier is satisfied by *auth.Client.
type tokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

type Middleware struct {
	AuthClient tokenVerifier
}

func NewMiddleware(client tokenVerifier) *Middleware {
	return &Middleware{AuthClient: client}
}

type uidKey struct{}

// FirebaseAuth requires a valid Firebase ID token as a bearer credential and
// puts the caller's uid in the context and on the request logger.
func (m *Middleware) FirebaseAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			unauthorized(w, "missing or malformed bearer token")
			return
		}

		verified, err := m.AuthClient.VerifyIDToken(r.Context(), token)
		if err != nil {
			logger.FromContext(r.Context()).Warn("token verification failed", "error", err)
			unauthorized(w, "invalid or expired token")
			return
		}

		ctx := WithUID(r.Context(), verified.UID)
		_, ctx = logger.With(ctx, "uid", verified.UID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

// same body shape as response.WriteError
func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", "Bearer")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"code": "unauthorized", "message": message})
}

// UID returns the authenticated caller, or "" outside FirebaseAuth.
func UID(ctx context.Context) string {
	uid, _ := ctx.Value(uidKey{}).(string)
	return uid
}

// WithUID returns ctx carrying uid as if FirebaseAuth had run.
func WithUID(ctx context.Context, uid string) context.Context {
	return context.WithValue(ctx, uidKey{}, uid)
}
