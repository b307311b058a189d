package middleware

import (
	"context"
	"strings"

	"vidshare/internal/api/response"
	"vidshare/pkg/logger"
	"vidshare/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	ContextKeyUserID = "currentUserID"
	ContextKeyClaims = "currentClaims"
)

// RevocationChecker 查询 Token 是否已注销，可为 nil
type RevocationChecker interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// AuthRequired JWT 认证中间件：缺少 Authorization 头返回 401；
// 非 Bearer 格式、无效、过期或已注销返回 403
func AuthRequired(jwt *utils.JWTManager, revoked RevocationChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if authHeader == "" {
			response.Unauthorized(c, "缺少认证令牌")
			c.Abort()
			return
		}

		token := bearerToken(authHeader)
		if token == "" {
			response.Forbidden(c, "认证令牌格式错误")
			c.Abort()
			return
		}

		claims, err := jwt.ParseToken(token)
		if err != nil {
			response.Forbidden(c, "无效或过期的认证令牌")
			c.Abort()
			return
		}

		if revoked != nil {
			isRevoked, err := revoked.IsRevoked(c.Request.Context(), claims.ID)
			if err != nil {
				logger.Error("Check token revocation failed", zap.Error(err))
				response.InternalError(c, "认证服务暂不可用")
				c.Abort()
				return
			}
			if isRevoked {
				response.Forbidden(c, "认证令牌已注销")
				c.Abort()
				return
			}
		}

		// 将用户 ID 存入上下文，后续 Handler 可通过 GetCurrentUserID 获取
		c.Set(ContextKeyUserID, claims.UserID)
		c.Set(ContextKeyClaims, claims)
		c.Next()
	}
}

// GetCurrentUserID 从 Gin Context 中获取当前登录用户 ID
func GetCurrentUserID(c *gin.Context) (int64, bool) {
	val, exists := c.Get(ContextKeyUserID)
	if !exists {
		return 0, false
	}
	userID, ok := val.(int64)
	return userID, ok
}

// GetCurrentClaims 从 Gin Context 中获取当前 Token 的 Claims
func GetCurrentClaims(c *gin.Context) (*utils.Claims, bool) {
	val, exists := c.Get(ContextKeyClaims)
	if !exists {
		return nil, false
	}
	claims, ok := val.(*utils.Claims)
	return claims, ok
}

// bearerToken 从 Authorization 头中提取 Bearer Token，格式不符返回空串
func bearerToken(authHeader string) string {
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
