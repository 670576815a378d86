package utils

import (
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/clipcraft/viral-production-backend/models"
)

// TokenClaims là claims của compatibility token do server tự ký (HS256).
// Sub luôn là Profile.ID nội bộ để các policy row-level phía database API
// khớp đúng ID, bất kể Authentik dùng ID nào.
type TokenClaims struct {
	Email   string             `json:"email"`
	Role    string             `json:"role"`     // luôn "authenticated"
	AppRole models.ProfileRole `json:"app_role"` // vai trò nội bộ
	jwt.RegisteredClaims
}

const tokenTTL = time.Hour

// GenerateToken ký compatibility token cho một profile nội bộ
func GenerateToken(profileID string, email string, appRole models.ProfileRole) (string, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return "", errors.New("JWT_SECRET chưa được cấu hình")
	}

	now := time.Now()
	claims := TokenClaims{
		Email:   email,
		Role:    "authenticated",
		AppRole: appRole,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   profileID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// VerifyToken kiểm tra chữ ký và hạn của token, trả về claims
func VerifyToken(tokenString string) (*TokenClaims, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, errors.New("JWT_SECRET chưa được cấu hình")
	}

	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("token không hợp lệ")
	}
	return claims, nil
}

// ProfileID tiện cho middleware: claims.Subject chính là Profile.ID
func (c *TokenClaims) ProfileID() string {
	return c.Subject
}
