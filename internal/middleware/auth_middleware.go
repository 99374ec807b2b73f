package middleware

import (
	"errors"
	"fmt"
	"strings"

	"github.com/MichelleArumemi/EmployeeMS/internal/identity"
	identityerrors "github.com/MichelleArumemi/EmployeeMS/internal/identity/errors"
	"github.com/MichelleArumemi/EmployeeMS/internal/shared/apperror"
	"github.com/MichelleArumemi/EmployeeMS/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	ctxUserID          = "user_id"
	ctxUserIDValidated = "user_id_validated"
	ctxRole            = "role"
)

type Claims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// AuthMiddleware resolves the caller from an HS256 token found in the
// Authorization header, the access_token cookie, or the token query parameter
// (browsers cannot set headers on a WebSocket handshake).
func AuthMiddleware(secret string) gin.HandlerFunc {
	key := []byte(secret)

	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			abortWith(c, identityerrors.ErrTokenNotFound)
			return
		}

		principal, err := ParsePrincipal(tokenString, key)
		if err != nil {
			abortWith(c, err)
			return
		}

		identity.Set(c, principal)
		c.Set(ctxUserID, principal.SubjectID.String())
		c.Set(ctxUserIDValidated, principal.SubjectID.String())
		c.Set(ctxRole, string(principal.Role))

		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	if token, found := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer "); found && token != "" {
		return strings.TrimSpace(token)
	}

	if cookie, err := c.Cookie("access_token"); err == nil && cookie != "" {
		return cookie
	}

	return c.Query("token")
}

// ParsePrincipal validates the token and maps its claims onto a Principal.
func ParsePrincipal(tokenString string, key []byte) (identity.Principal, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return key, nil
	})
	if err != nil || !token.Valid {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return identity.Principal{}, identityerrors.ErrTokenExpired
		}
		return identity.Principal{}, identityerrors.ErrInvalidToken
	}

	subject, err := uuid.Parse(claims.UserID)
	if err != nil {
		return identity.Principal{}, identityerrors.ErrInvalidToken
	}

	principal := identity.Principal{SubjectID: subject, Role: identity.Role(strings.ToLower(claims.Role))}
	if !principal.Authenticated() {
		return identity.Principal{}, identityerrors.ErrInvalidToken
	}

	return principal, nil
}

func abortWith(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Abort(c, httpErr.Status, httpErr.Code, httpErr.Message)
}
