package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	NATS     NATSConfig     `yaml:"nats"`
	MinIO    MinIOConfig    `yaml:"minio"`
	Engines  EnginesConfig  `yaml:"engines"`
	Camera   CameraDefaults `yaml:"camera_defaults"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type ServerConfig struct {
	Port   int    `yaml:"port"`
	APIKey string `yaml:"api_key"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	MaxConns int    `yaml:"max_conns"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		d.User, d.Password, d.Host, d.Port, d.Name)
}

type NATSConfig struct {
	URL string `yaml:"url"`
}

type MinIOConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	UseSSL    bool   `yaml:"use_ssl"`
}

// EnginesConfig points the OCR engine factories at their backing
// implementations: sidecar URLs for Paddle/Easy (neither has a native Go
// binding), an ONNX model path and detection threshold for Yolo.
// Tesseract needs no configuration beyond its local install.
type EnginesConfig struct {
	PaddleURL       string  `yaml:"paddle_url"`
	EasyURL         string  `yaml:"easy_url"`
	RequestTimeout  string  `yaml:"request_timeout"`
	YoloModelPath   string  `yaml:"yolo_model_path"`
	YoloThreshold   float64 `yaml:"yolo_threshold"`
	YoloNumAnchors  int     `yaml:"yolo_num_anchors"`
	UseYoloDetector bool    `yaml:"use_yolo_detection"`
}

// CameraDefaults holds per-camera default values read from the
// camera_defaults section. Load fills its own zero fields, but nothing in
// this repository copies these values into a CameraSpec: the pipelines and
// the motion gate fall back to their own built-in defaults for zero fields.
type CameraDefaults struct {
	TargetPreviewFPS  int     `yaml:"target_preview_fps"`
	TargetOcrFPS      int     `yaml:"target_ocr_fps"`
	MotionThreshold   int     `yaml:"motion_threshold"`
	MotionMinArea     float64 `yaml:"motion_min_area"`
	AcceptConfidence  float64 `yaml:"acceptance_confidence"`
	DebounceWindowSec float64 `yaml:"debounce_window_seconds"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads config from YAML file and applies environment variable overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	applyEnvOverrides(cfg)
	setDefaults(cfg)

	return cfg, nil
}

func setDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.MaxConns == 0 {
		cfg.Database.MaxConns = 20
	}
	if cfg.Camera.TargetPreviewFPS == 0 {
		cfg.Camera.TargetPreviewFPS = 20
	}
	if cfg.Camera.TargetOcrFPS == 0 {
		cfg.Camera.TargetOcrFPS = 2
	}
	if cfg.Camera.MotionThreshold == 0 {
		cfg.Camera.MotionThreshold = 30
	}
	if cfg.Camera.MotionMinArea == 0 {
		cfg.Camera.MotionMinArea = 500.0
	}
	if cfg.Camera.AcceptConfidence == 0 {
		cfg.Camera.AcceptConfidence = 0.6
	}
	if cfg.Camera.DebounceWindowSec == 0 {
		cfg.Camera.DebounceWindowSec = 5.0
	}
	if cfg.Engines.RequestTimeout == "" {
		cfg.Engines.RequestTimeout = "2s"
	}
	if cfg.Engines.YoloThreshold == 0 {
		cfg.Engines.YoloThreshold = 0.5
	}
	if cfg.Engines.YoloNumAnchors == 0 {
		cfg.Engines.YoloNumAnchors = 8400
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PLATERECON_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("PLATERECON_API_KEY"); v != "" {
		cfg.Server.APIKey = v
	}
	if v := os.Getenv("PLATERECON_DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("PLATERECON_DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Database.Port = port
		}
	}
	if v := os.Getenv("PLATERECON_DB_NAME"); v != "" {
		cfg.Database.Name = v
	}
	if v := os.Getenv("PLATERECON_DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("PLATERECON_DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("PLATERECON_NATS_URL"); v != "" {
		cfg.NATS.URL = v
	}
	if v := os.Getenv("PLATERECON_MINIO_ENDPOINT"); v != "" {
		cfg.MinIO.Endpoint = v
	}
	if v := os.Getenv("PLATERECON_MINIO_ACCESS_KEY"); v != "" {
		cfg.MinIO.AccessKey = v
	}
	if v := os.Getenv("PLATERECON_MINIO_SECRET_KEY"); v != "" {
		cfg.MinIO.SecretKey = v
	}
	if v := os.Getenv("PLATERECON_MINIO_BUCKET"); v != "" {
		cfg.MinIO.Bucket = v
	}
	if v := os.Getenv("PLATERECON_PADDLE_URL"); v != "" {
		cfg.Engines.PaddleURL = v
	}
	if v := os.Getenv("PLATERECON_EASY_URL"); v != "" {
		cfg.Engines.EasyURL = v
	}
	if v := os.Getenv("PLATERECON_YOLO_MODEL_PATH"); v != "" {
		cfg.Engines.YoloModelPath = v
	}
}
