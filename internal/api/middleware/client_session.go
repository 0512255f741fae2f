package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/aaravmahajanofficial/storefront-bff/internal/config"
	appErrors "github.com/aaravmahajanofficial/storefront-bff/internal/errors"
	"github.com/aaravmahajanofficial/storefront-bff/internal/models"
	"github.com/aaravmahajanofficial/storefront-bff/internal/utils/response"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type clientContextKey struct{}

const clientIssuer = "storefront-bff"

// ClientSession identifies the browser behind a request with a signed cookie.
// A browser without a valid cookie gets a fresh client id.
type ClientSession struct {
	jwtKey     []byte
	cookieName string
	maxAge     time.Duration
	secure     bool
	now        func() time.Time
}

func NewClientSession(cfg config.Security) *ClientSession {

	maxAge := cfg.CookieMaxAge
	if maxAge <= 0 {
		maxAge = 30 * 24 * time.Hour
	}

	return &ClientSession{
		jwtKey:     []byte(cfg.JWTKey),
		cookieName: cfg.CookieName,
		maxAge:     maxAge,
		secure:     cfg.SecureCookie,
		now:        time.Now,
	}
}

func (m *ClientSession) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		logger := LoggerFromContext(r.Context())

		claims, err := m.parse(r)
		if err != nil && !errors.Is(err, http.ErrNoCookie) {
			logger.Warn("Discarding invalid client cookie", slog.String("error", err.Error()))
		}

		// renew when missing, invalid or past half of its lifetime
		if claims == nil || claims.ExpiresAt.Time.Sub(m.now()) < m.maxAge/2 {

			clientID := uuid.NewString()
			if claims != nil {
				clientID = claims.ClientID
			}

			token, issued, err := m.Issue(clientID)
			if err != nil {
				logger.Error("Failed to sign client cookie", slog.String("error", err.Error()))
				response.Error(w, appErrors.InternalError("Failed to start client session"))
				return
			}

			http.SetCookie(w, m.cookie(token))
			claims = issued
		}

		clientLogger := logger.With(slog.String("clientId", claims.ClientID))

		ctx := WithClientID(r.Context(), claims.ClientID)
		ctx = WithLogger(ctx, clientLogger)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *ClientSession) parse(r *http.Request) (*models.ClientClaims, error) {

	cookie, err := r.Cookie(m.cookieName)
	if err != nil {
		return nil, err
	}

	claims := &models.ClientClaims{}

	token, err := jwt.ParseWithClaims(cookie.Value, claims, func(t *jwt.Token) (any, error) {
		return m.jwtKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(clientIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, err
	}

	if !token.Valid || claims.ClientID == "" {
		return nil, errors.New("client cookie carries no client id")
	}

	return claims, nil
}

// Issue signs a client cookie value for clientID.
func (m *ClientSession) Issue(clientID string) (string, *models.ClientClaims, error) {

	now := m.now()

	claims := &models.ClientClaims{
		ClientID: clientID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    clientIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.maxAge)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.jwtKey)
	if err != nil {
		return "", nil, err
	}

	return token, claims, nil
}

func (m *ClientSession) cookie(value string) *http.Cookie {
	return &http.Cookie{
		Name:     m.cookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(m.maxAge.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func WithClientID(ctx context.Context, clientID string) context.Context {
	return context.WithValue(ctx, clientContextKey{}, clientID)
}

func ClientIDFromContext(ctx context.Context) (string, bool) {
	clientID, ok := ctx.Value(clientContextKey{}).(string)

	return clientID, ok && clientID != ""
}

// RequireAdmin rejects the request unless isAdmin approves it.
func RequireAdmin(isAdmin func(r *http.Request) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

			if !isAdmin(r) {
				LoggerFromContext(r.Context()).Warn("Admin route refused")
				response.Error(w, appErrors.ForbiddenError("Admin access required"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
