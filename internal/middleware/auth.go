package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/smallbiz/booking-core/internal/config"
)

const ContextPrincipal = "principal"

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleStaff    Role = "staff"
	RoleCustomer Role = "customer"
)

// RoleSet is resolved once from the token and never re-parsed per route.
type RoleSet map[Role]struct{}

func (s RoleSet) Has(r Role) bool {
	_, ok := s[r]
	return ok
}

type Principal struct {
	UserID uint
	Roles  RoleSet
}

// claims accept either a single "role" or a "roles" list.
type claims struct {
	Role  string   `json:"role"`
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}

func parseRoles(c *claims) RoleSet {
	set := RoleSet{}
	add := func(raw string) {
		if r := strings.ToLower(strings.TrimSpace(raw)); r != "" {
			set[Role(r)] = struct{}{}
		}
	}
	add(c.Role)
	for _, r := range c.Roles {
		add(r)
	}
	return set
}

func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing_authorization_header"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_authorization_header"})
			return
		}

		var cl claims
		token, err := jwt.ParseWithClaims(parts[1], &cl, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrTokenMalformed
			}
			return []byte(cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token"})
			return
		}

		sub, err := cl.GetSubject()
		userID, convErr := parseUint(sub)
		if err != nil || convErr != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token_payload"})
			return
		}

		c.Set(ContextPrincipal, Principal{UserID: userID, Roles: parseRoles(&cl)})

		c.Next()
	}
}

// RequireRole must run after AuthMiddleware.
func RequireRole(role Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := PrincipalFrom(c)
		if !ok || !p.Roles.Has(role) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}

func PrincipalFrom(c *gin.Context) (Principal, bool) {
	v, ok := c.Get(ContextPrincipal)
	if !ok {
		return Principal{}, false
	}
	p, ok := v.(Principal)
	return p, ok
}
