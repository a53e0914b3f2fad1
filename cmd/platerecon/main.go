// Command platerecon is the single-process plate-recognition service: one
// binary running PipelineSupervisor, the REST/WebSocket surface and the
// detection consumer that persists and broadcasts what the pipelines emit.
// Grounded on cmd/api/main.go's wiring order (config -> stores -> NATS ->
// hub -> router -> HTTP server -> graceful shutdown), collapsed from three
// binaries (api/worker/ingestor) into one: capture and recognition both run
// in-process per camera here, so there is nothing left for a separate
// worker or ingestor process to do.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/nats-io/nats.go/jetstream"
	ort "github.com/yalue/onnxruntime_go"

	"github.com/your-org/platerecon/internal/api"
	"github.com/your-org/platerecon/internal/arbiter"
	"github.com/your-org/platerecon/internal/broadcast"
	"github.com/your-org/platerecon/internal/config"
	"github.com/your-org/platerecon/internal/models"
	"github.com/your-org/platerecon/internal/observability"
	"github.com/your-org/platerecon/internal/ocrengine"
	"github.com/your-org/platerecon/internal/pipeline"
	"github.com/your-org/platerecon/internal/queue"
	"github.com/your-org/platerecon/internal/router"
	"github.com/your-org/platerecon/internal/storage"
	"github.com/your-org/platerecon/internal/supervisor"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	observability.SetupLogger(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("starting platerecon service", "port", cfg.Server.Port)

	db, err := storage.NewPostgresStore(cfg.Database)
	if err != nil {
		slog.Error("connect to postgres", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	minioStore, err := storage.NewMinIOStore(cfg.MinIO)
	if err != nil {
		slog.Error("connect to minio", "error", err)
		os.Exit(1)
	}
	if err := minioStore.EnsureBucket(context.Background()); err != nil {
		slog.Warn("ensure minio bucket", "error", err)
	}

	producer, err := queue.NewProducer(cfg.NATS.URL)
	if err != nil {
		slog.Error("connect to nats", "error", err)
		os.Exit(1)
	}
	defer producer.Close()
	if err := producer.EnsureStream(context.Background()); err != nil {
		slog.Warn("ensure nats stream", "error", err)
	}

	hub := broadcast.NewHub()
	go hub.Run()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	consumer, err := queue.NewConsumer(cfg.NATS.URL)
	if err != nil {
		slog.Error("create detection consumer", "error", err)
		os.Exit(1)
	}
	defer consumer.Close()

	err = consumer.ConsumeDetections(ctx, "platerecon-api", func(ctx context.Context, msg jetstream.Msg) error {
		var det models.Detection
		if err := json.Unmarshal(msg.Data(), &det); err != nil {
			return err
		}
		if _, err := db.CreateDetection(ctx, det); err != nil {
			slog.Error("persist detection", "error", err)
		}
		return hub.PublishDetection(det)
	})
	if err != nil {
		slog.Warn("start detection consumer", "error", err)
	}

	ort.SetSharedLibraryPath(getONNXLibPath())
	onnxReady := ort.InitializeEnvironment() == nil
	if !onnxReady {
		slog.Warn("onnx runtime init failed — yolo pre-crop/detection will be unavailable")
	} else {
		defer ort.DestroyEnvironment()
	}

	requestTimeout, err := time.ParseDuration(cfg.Engines.RequestTimeout)
	if err != nil {
		requestTimeout = 2 * time.Second
	}

	newEngine := func(tag models.EngineTag) ocrengine.Engine {
		switch tag {
		case models.EnginePaddle:
			return ocrengine.NewPaddleEngine(cfg.Engines.PaddleURL, requestTimeout)
		case models.EngineEasy:
			return ocrengine.NewEasyEngine(cfg.Engines.EasyURL, requestTimeout)
		case models.EngineTesseract:
			return ocrengine.NewTesseractEngine()
		case models.EngineYolo:
			if !onnxReady || cfg.Engines.YoloModelPath == "" {
				return nil
			}
			return ocrengine.NewYoloEngine(cfg.Engines.YoloModelPath, float32(cfg.Engines.YoloThreshold), cfg.Engines.YoloNumAnchors, nil)
		default:
			return nil
		}
	}

	newArbiter := func(available map[models.EngineTag]ocrengine.Engine) *arbiter.Arbiter {
		recognizers := []ocrengine.Engine{available[models.EnginePaddle], available[models.EngineEasy], available[models.EngineTesseract]}
		var detector ocrengine.PlateDetector
		if yolo, ok := available[models.EngineYolo].(ocrengine.PlateDetector); ok {
			detector = yolo
		}
		return arbiter.New(recognizers, detector, cfg.Engines.UseYoloDetector)
	}

	sup := supervisor.New(newEngine, newArbiter)

	onDetect := func(det models.Detection) error {
		return producer.PublishDetection(ctx, det.CameraID, det)
	}

	records, err := db.ListCameras(context.Background())
	if err != nil {
		slog.Warn("load persisted cameras", "error", err)
	}
	for _, rec := range records {
		sup.Start(rec.Spec, onDetect)
	}

	httpRouter := api.NewRouter(api.RouterConfig{
		APIKey:     cfg.Server.APIKey,
		DB:         db,
		MinIO:      minioStore,
		Producer:   producer,
		Hub:        hub,
		Supervisor: sup,
		OnDetect:   onDetect,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      httpRouter,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("platerecon server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down platerecon service...")
	cancel()

	for _, rec := range records {
		sup.Stop(rec.Spec.ID)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	slog.Info("platerecon service stopped")
}

func getONNXLibPath() string {
	switch runtime.GOOS {
	case "windows":
		return "onnxruntime.dll"
	case "linux":
		return "libonnxruntime.so"
	case "darwin":
		return "libonnxruntime.dylib"
	default:
		return "onnxruntime.dll"
	}
}
