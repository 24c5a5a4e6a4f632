package middleware

import (
	"strings"

	"github.com/Laisky/errors/v2"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"

	"github.com/widgetly/chat-api/common/config"
	"github.com/widgetly/chat-api/common/ctxkey"
	"github.com/widgetly/chat-api/model"
)

// dashboardClaims is the payload of externally issued dashboard tokens. This
// service only verifies them; issuance lives in the auth service.
type dashboardClaims struct {
	UserId   int    `json:"user_id"`
	Username string `json:"username"`
	Role     int    `json:"role"`
	jwt.StandardClaims
}

func parseDashboardToken(tokenString string) (*dashboardClaims, error) {
	claims := &dashboardClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(config.JWTSecret), nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "parse dashboard token")
	}
	if !token.Valid {
		return nil, errors.New("invalid dashboard token")
	}
	return claims, nil
}

func authHelper(c *gin.Context, minRole int) {
	tokenString := strings.TrimPrefix(c.Request.Header.Get("Authorization"), "Bearer ")
	if tokenString == "" {
		abortUnauthorized(c, "access token is missing")
		return
	}
	claims, err := parseDashboardToken(tokenString)
	if err != nil {
		abortUnauthorized(c, "access token is invalid or expired")
		return
	}
	if claims.Role < minRole {
		abortUnauthorized(c, "insufficient privileges")
		return
	}
	enabled, err := model.IsUserEnabled(claims.UserId)
	if err != nil || !enabled {
		abortUnauthorized(c, "user is disabled or does not exist")
		return
	}
	c.Set(ctxkey.Id, claims.UserId)
	c.Set(ctxkey.Username, claims.Username)
	c.Set(ctxkey.Role, claims.Role)
	c.Next()
}

// UserAuth admits any enabled dashboard user.
func UserAuth() func(c *gin.Context) {
	return func(c *gin.Context) {
		authHelper(c, model.RoleBusinessUser)
	}
}

// ManagerAuth admits manager accounts and above.
func ManagerAuth() func(c *gin.Context) {
	return func(c *gin.Context) {
		authHelper(c, model.RoleManagerUser)
	}
}

// AdminAuth admits administrator accounts only.
func AdminAuth() func(c *gin.Context) {
	return func(c *gin.Context) {
		authHelper(c, model.RoleAdmin)
	}
}
