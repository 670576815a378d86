package config

import (
	"context"
	"log"
	"os"
	"strconv"

	"github.com/go-redis/redis/v8"
)

// RedisClient dùng cho rate limit đăng nhập; nil khi REDIS_ADDR không cấu hình
var RedisClient *redis.Client
var ctx = context.Background()

// InitRedis kết nối Redis nếu được cấu hình. Không có Redis thì server vẫn
// chạy, chỉ mất phần giới hạn số lần đăng nhập sai.
func InitRedis() {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		log.Println("REDIS_ADDR chưa cấu hình, bỏ qua Redis")
		return
	}

	redisDB, err := strconv.Atoi(os.Getenv("REDIS_DB"))
	if err != nil {
		redisDB = 0 // mặc định
	}

	RedisClient = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       redisDB,
	})

	if _, err := RedisClient.Ping(ctx).Result(); err != nil {
		log.Fatal("Error connecting to Redis:", err)
	}
	log.Println("Connected to Redis")
}
