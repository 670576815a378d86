package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/clipcraft/viral-production-backend/config"
)

const (
	loginAttemptLimit  = 10
	loginAttemptWindow = 15 * time.Minute
)

// CheckLoginRateLimit đếm số lần đăng nhập sai theo email trong cửa sổ 15 phút.
// Không có Redis thì bỏ qua (fail-open), vì đây là lớp chặn phụ trước Authentik.
func CheckLoginRateLimit(ctx context.Context, email string) error {
	if config.RedisClient == nil {
		return nil
	}

	key := fmt.Sprintf("login_attempts:%s", strings.ToLower(email))
	count, err := config.RedisClient.Get(ctx, key).Int()
	if err == nil && count >= loginAttemptLimit {
		return NewWorkflowError(ErrKindValidation, "Too many login attempts, try again later")
	}
	return nil
}

// RecordFailedLogin tăng bộ đếm sau một lần đăng nhập sai
func RecordFailedLogin(ctx context.Context, email string) {
	if config.RedisClient == nil {
		return
	}

	key := fmt.Sprintf("login_attempts:%s", strings.ToLower(email))
	pipe := config.RedisClient.TxPipeline()
	pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, loginAttemptWindow)
	_, _ = pipe.Exec(ctx)
}

// ClearLoginAttempts xóa bộ đếm sau khi đăng nhập thành công
func ClearLoginAttempts(ctx context.Context, email string) {
	if config.RedisClient == nil {
		return
	}
	key := fmt.Sprintf("login_attempts:%s", strings.ToLower(email))
	_ = config.RedisClient.Del(ctx, key).Err()
}
