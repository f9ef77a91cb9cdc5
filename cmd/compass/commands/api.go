package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/compass/backend/internal/api"
	"github.com/wonny/compass/backend/internal/api/handlers"
	"github.com/wonny/compass/backend/internal/assistant"
	"github.com/wonny/compass/backend/internal/stream"
	"github.com/wonny/compass/backend/pkg/config"
	"github.com/wonny/compass/backend/pkg/database"
	"github.com/wonny/compass/backend/pkg/logger"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "API 서버 시작",
	Long: `대시보드용 REST API 서버를 시작합니다.

이 명령어는:
- HTTP API 서버 시작
- 분석 실행/조회 엔드포인트 제공
- WebSocket으로 리포트 푸시

Endpoints:
  GET  /health                            - Health check
  POST /api/analyze                       - 분석 실행
  GET  /api/report                        - 최신 리포트 조회
  GET  /api/recommendations/restock       - 재고 보충 추천
  GET  /api/recommendations/pricing       - 가격 조정 추천
  GET  /api/recommendations/marketing     - 마케팅 추천
  GET  /api/recommendations/cross-sell    - 교차판매 추천
  GET  /api/insights                      - 비즈니스 인사이트
  POST /api/assistant                     - AI 어시스턴트 질의
  GET  /api/stream                        - WebSocket 스트림

Example:
  go run ./cmd/compass api
  go run ./cmd/compass api --port 8080`,
	RunE: runAPIServer,
}

var (
	apiPort string
)

func init() {
	rootCmd.AddCommand(apiCmd)

	// Flags
	apiCmd.Flags().StringVar(&apiPort, "port", "", "API 서버 포트 (기본: PORT 환경변수)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Compass API Server ===")

	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Override port if flag is set
	if apiPort != "" {
		cfg.Port = apiPort
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	log.WithFields(map[string]interface{}{
		"port": cfg.Port,
		"env":  cfg.Env,
	}).Info("Initializing API server")

	// 3. Connect to database
	db, err := database.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	log.Info("Connected to database")

	// 4. Wire the analysis pipeline
	orchestrator := buildOrchestrator(cfg, log, db)

	// 5. Stream hub for dashboard push
	hub := stream.NewHub(log)
	defer hub.Close()

	// 6. Optional AI assistant
	var asst *assistant.Assistant
	if cfg.Gemini.APIKey != "" {
		asst, err = assistant.New(cmd.Context(), cfg, log)
		if err != nil {
			return fmt.Errorf("create assistant: %w", err)
		}
		defer asst.Close()
		log.Info("Assistant enabled")
	} else {
		log.Warn("GEMINI_API_KEY not set, assistant endpoint disabled")
	}

	// 7. Create handlers and router
	analysisHandler := handlers.NewAnalysisHandler(orchestrator, hub, log)
	assistantHandler := handlers.NewAssistantHandler(asst, analysisHandler, log)
	router := api.NewRouter(analysisHandler, assistantHandler, hub, log)

	// 8. Create server
	server := api.New(cfg, log, router)

	// 9. Start server with graceful shutdown
	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	log.Info("API server started successfully")
	fmt.Printf("\n✅ Server running on http://localhost:%s\n", cfg.Port)
	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
