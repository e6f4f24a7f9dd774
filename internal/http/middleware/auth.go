package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/yungbote/orderdoc-backend/internal/http/response"
	"github.com/yungbote/orderdoc-backend/internal/platform/ctxutil"
	"github.com/yungbote/orderdoc-backend/internal/platform/logger"
)

const (
	msgTokenRequired = "Unauthorized: Token is required"
	msgTokenExpired  = "Unauthorized: Token expired"
	msgTokenInvalid  = "Unauthorized: Invalid token"
)

// Claims is the token payload issued by the identity service.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

type AuthMiddleware struct {
	log    *logger.Logger
	secret []byte
}

func NewAuthMiddleware(log *logger.Logger, secret string) *AuthMiddleware {
	return &AuthMiddleware{
		log:    log.With("Middleware", "AuthMiddleware"),
		secret: []byte(secret),
	}
}

// RequireAuth verifies an HS256 bearer token and stores the caller in the request context.
func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractBearer(c.GetHeader("Authorization"))
		if tokenString == "" {
			response.AbortMessage(c, http.StatusUnauthorized, "unauthorized", msgTokenRequired)
			return
		}
		claims, err := am.parse(tokenString)
		if err != nil {
			am.log.Debug("token rejected", "error", err)
			msg := msgTokenInvalid
			if errors.Is(err, jwt.ErrTokenExpired) {
				msg = msgTokenExpired
			}
			response.AbortMessage(c, http.StatusUnauthorized, "unauthorized", msg)
			return
		}
		ctx := ctxutil.WithRequestData(c.Request.Context(), &ctxutil.RequestData{
			CallerEmail: claims.Email,
			Subject:     claims.Subject,
		})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func (am *AuthMiddleware) parse(tokenString string) (*Claims, error) {
	if len(am.secret) == 0 {
		return nil, errors.New("jwt secret not configured")
	}
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return am.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	return claims, nil
}

func extractBearer(authHeader string) string {
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return ""
}
