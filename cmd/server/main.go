package main

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/xniffing/horario-joao/pkg/database"
	"github.com/xniffing/horario-joao/pkg/handlers"
	"go.uber.org/zap"
)

func main() {
	// Load .env if it exists
	// Try root and parent directories for flexibility
	envPaths := []string{".env", "../.env", "../../.env"}
	for _, p := range envPaths {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
			break
		}
	}

	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("could not build logger: %v", err)
	}
	defer logger.Sync()

	db := database.InitDB()
	h := &handlers.Handler{DB: db, Log: logger}
	if v := os.Getenv("SOLVER_MAX_NODES"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			h.MaxNodes = n
		}
	}
	if v := os.Getenv("SOLVER_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			h.SolveTimeout = time.Duration(n) * time.Second
		}
	}

	r := handlers.BuildRouter(h)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}

	logger.Info("server starting", zap.String("port", port))
	if err := r.Run(":" + port); err != nil {
		logger.Fatal("could not run server", zap.Error(err))
	}
}
