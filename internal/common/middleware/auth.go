package middleware

import (
	"net/http"
	"strings"

	"github.com/DriveRegistry/DriveRegistry/internal/common/auth"
	"github.com/DriveRegistry/DriveRegistry/internal/common/config"
	"github.com/gin-gonic/gin"
)

const authInfoKey = "auth_info"

// AuthInfo 从 JWT 中解析出的最小用户信息（放入请求 context，供 handler 使用）。
type AuthInfo struct {
	Subject string   // 用户 ID
	Roles   []string // 角色列表（RBAC）
}

// HasRole 判断是否持有指定角色。
func (ai AuthInfo) HasRole(role string) bool {
	for _, r := range ai.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// AuthFromContext 从 gin context 中取出鉴权信息。
func AuthFromContext(c *gin.Context) (AuthInfo, bool) {
	v, ok := c.Get(authInfoKey)
	if !ok {
		return AuthInfo{}, false
	}
	ai, ok := v.(AuthInfo)
	return ai, ok
}

// bearerToken 从 Authorization header 中提取 Bearer token。
func bearerToken(c *gin.Context) string {
	raw := strings.TrimSpace(c.GetHeader("Authorization"))
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(raw), "bearer ") {
		return strings.TrimSpace(raw[len("bearer "):])
	}
	return ""
}

// RequireAuth 强制 JWT 鉴权：
// - 从 `Authorization: Bearer <token>` 中读取 token
// - 校验签名与标准字段，失败返回 401
// - 将解析结果写入 context
func RequireAuth(cfg config.AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !cfg.Enabled {
			c.Next()
			return
		}

		tokenStr := bearerToken(c)
		if tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "missing authorization"})
			return
		}

		claims, err := auth.ParseAccessToken(cfg, tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "invalid token"})
			return
		}

		c.Set(authInfoKey, AuthInfo{Subject: claims.Subject, Roles: claims.Roles})
		c.Next()
	}
}

// OptionalAuth 可选鉴权：带合法 token 则注入用户信息，否则按匿名放行。
// 不合法的 token 同样按匿名处理（公开接口不回显 token 错误）。
func OptionalAuth(cfg config.AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !cfg.Enabled {
			c.Next()
			return
		}

		tokenStr := bearerToken(c)
		if tokenStr != "" {
			if claims, err := auth.ParseAccessToken(cfg, tokenStr); err == nil {
				c.Set(authInfoKey, AuthInfo{Subject: claims.Subject, Roles: claims.Roles})
			}
		}
		c.Next()
	}
}
