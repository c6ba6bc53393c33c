package token

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/fernandezlibros/ebookstore/pkg/errors"
)

// Manager 游客会话令牌管理器
// 设计说明：
// 1. 本店不要求注册账号,游客第一次访问时签发一个会话令牌,
//    写入HttpOnly Cookie,后续请求凭它找回自己的购物车
// 2. 令牌只承载会话ID,不承载任何个人信息
// 3. 使用JWT而非随机字符串:服务端无需存储会话表,
//    签名保证会话ID不可伪造
type Manager struct {
	secret string        // 签名密钥
	expire time.Duration // 会话有效期
}

// NewManager 创建令牌管理器
func NewManager(secret string, expire time.Duration) *Manager {
	return &Manager{
		secret: secret,
		expire: expire,
	}
}

// Claims 自定义JWT Claims
// 学习要点：
// 1. 嵌入jwt.RegisteredClaims获取标准字段（exp、iat、nbf等）
// 2. 只添加会话ID这一个自定义字段
type Claims struct {
	SessionID string `json:"session_id"`
	jwt.RegisteredClaims
}

// NewSessionID 生成新的会话ID(128位随机数的十六进制表示)
func NewSessionID() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", apperrors.Wrap(err, "生成会话ID失败")
	}
	return hex.EncodeToString(buf), nil
}

// Issue 为会话ID签发令牌
func (m *Manager) Issue(sessionID string) (string, error) {
	now := time.Now()
	claims := Claims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.expire)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    "ebookstore",
			Subject:   sessionID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(m.secret))
	if err != nil {
		return "", apperrors.Wrap(err, "签发会话令牌失败")
	}
	return tokenString, nil
}

// Parse 解析并验证令牌,返回会话ID
// 学习要点：
// 1. 验证签名（防止伪造）
// 2. 验证过期时间（exp）
// 3. 验证生效时间（nbf）
func (m *Manager) Parse(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// 验证签名算法
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("非法的签名算法: %v", token.Header["alg"])
		}
		return []byte(m.secret), nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", apperrors.ErrSessionExpired
		}
		return "", apperrors.ErrInvalidSession
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.SessionID == "" {
		return "", apperrors.ErrInvalidSession
	}
	return claims.SessionID, nil
}

// Expire 返回会话有效期(设置Cookie MaxAge时使用)
func (m *Manager) Expire() time.Duration {
	return m.expire
}
