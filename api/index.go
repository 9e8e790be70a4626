package handler

import (
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/xniffing/horario-joao/pkg/database"
	"github.com/xniffing/horario-joao/pkg/handlers"
	"go.uber.org/zap"
)

var r *gin.Engine

func init() {
	// Load .env if it exists (for local testing with vercel dev)
	_ = godotenv.Load(".env")
	_ = godotenv.Load("../.env")

	logger, err := zap.NewProduction()
	if err != nil {
		logger = zap.NewNop()
	}

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

	gin.SetMode(gin.ReleaseMode)
	r = handlers.BuildRouter(h)
}

// Handler is the entry point for Vercel Go Runtime
func Handler(w http.ResponseWriter, r_req *http.Request) {
	r.ServeHTTP(w, r_req)
}
