package config

import (
	"log"
	"os"

	"go.uber.org/zap"
)

var Logger *zap.Logger

// InitLogger khởi tạo zap logger dùng chung cho services/workers.
// GIN_MODE=release thì dùng cấu hình production (JSON), còn lại development.
func InitLogger() {
	var err error
	if os.Getenv("GIN_MODE") == "release" {
		Logger, err = zap.NewProduction()
	} else {
		Logger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("Failed to initialize zap logger: %v", err)
	}

	Logger.Info("✅ Zap logger initialized")
}
