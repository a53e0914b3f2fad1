package api

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/your-org/platerecon/internal/api/handlers"
	"github.com/your-org/platerecon/internal/auth"
	"github.com/your-org/platerecon/internal/broadcast"
	"github.com/your-org/platerecon/internal/pipeline"
	"github.com/your-org/platerecon/internal/queue"
	"github.com/your-org/platerecon/internal/storage"
	"github.com/your-org/platerecon/internal/supervisor"
)

type RouterConfig struct {
	APIKey     string
	DB         *storage.PostgresStore
	MinIO      *storage.MinIOStore
	Producer   *queue.Producer
	Hub        *broadcast.Hub
	Supervisor *supervisor.Supervisor
	OnDetect   pipeline.OcrCallback
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(LoggingMiddleware())
	r.Use(cors.Default())

	// System endpoints (no auth)
	systemH := handlers.NewSystemHandler(cfg.DB, cfg.MinIO, cfg.Producer)
	r.GET("/healthz", systemH.Healthz)
	r.GET("/readyz", systemH.Readyz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 (with auth)
	v1 := r.Group("/v1")
	v1.Use(auth.APIKeyMiddleware(cfg.APIKey))

	// WebSocket
	v1.GET("/ws", cfg.Hub.HandleWS)

	// Cameras
	camH := handlers.NewCameraHandler(cfg.DB, cfg.Supervisor, cfg.OnDetect)
	v1.POST("/cameras", camH.Create)
	v1.GET("/cameras", camH.List)
	v1.GET("/cameras/:id", camH.Get)
	v1.POST("/cameras/:id/start", camH.Start)
	v1.POST("/cameras/:id/stop", camH.Stop)
	v1.DELETE("/cameras/:id", camH.Delete)
	v1.POST("/cameras/:id/engine", camH.SetEngine)

	// Detections & live preview
	detH := handlers.NewDetectionHandler(cfg.DB, cfg.MinIO, cfg.Supervisor)
	v1.GET("/cameras/:id/detections", detH.List)
	v1.GET("/cameras/:id/detections/:detectionId/snapshot", detH.Snapshot)
	v1.GET("/cameras/:id/preview", detH.LivePreview)
	v1.GET("/cameras/:id/stats", detH.Stats)

	return r
}
