// Package storage adapts the teacher's pgxpool/MinIO persistence layer to
// the plate domain: camera registrations and the detection log. Grounded on
// internal/storage/postgres.go's PostgresStore (pool lifecycle, QueryRow +
// Scan, fmt.Errorf("...: %w", err) wrapping) with the face/person/stream
// tables replaced by cameras/plate_detections.
package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/your-org/platerecon/internal/config"
	"github.com/your-org/platerecon/internal/models"
)

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(cfg config.DatabaseConfig) (*PostgresStore, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	poolCfg.MaxConns = int32(cfg.MaxConns)

	pool, err := pgxpool.NewWithConfig(context.Background(), poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	if err := pool.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// --- Cameras ---

// UpsertCamera persists spec, overwriting any existing row with the same ID.
// Registration is idempotent: posting the same camera again overwrites its
// row, so insert-or-replace is the natural shape rather than a strict
// create that fails on conflict.
func (s *PostgresStore) UpsertCamera(ctx context.Context, spec models.CameraSpec) (*models.CameraRecord, error) {
	rec := &models.CameraRecord{Spec: spec}
	var roiX1, roiY1, roiX2, roiY2 *int
	if spec.ROI != nil {
		roiX1, roiY1, roiX2, roiY2 = &spec.ROI.X1, &spec.ROI.Y1, &spec.ROI.X2, &spec.ROI.Y2
	}
	err := s.pool.QueryRow(ctx,
		`INSERT INTO cameras (
			id, kind, rtsp_url, onvif_host, onvif_user, onvif_pass, webcam_index,
			target_preview_fps, target_ocr_fps, enable_ocr, enable_motion, enable_roi,
			roi_x1, roi_y1, roi_x2, roi_y2, engine, motion_threshold, motion_min_area,
			accept_confidence, debounce_window_sec
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21)
		ON CONFLICT (id) DO UPDATE SET
			kind = EXCLUDED.kind, rtsp_url = EXCLUDED.rtsp_url,
			onvif_host = EXCLUDED.onvif_host, onvif_user = EXCLUDED.onvif_user, onvif_pass = EXCLUDED.onvif_pass,
			webcam_index = EXCLUDED.webcam_index, target_preview_fps = EXCLUDED.target_preview_fps,
			target_ocr_fps = EXCLUDED.target_ocr_fps, enable_ocr = EXCLUDED.enable_ocr,
			enable_motion = EXCLUDED.enable_motion, enable_roi = EXCLUDED.enable_roi,
			roi_x1 = EXCLUDED.roi_x1, roi_y1 = EXCLUDED.roi_y1, roi_x2 = EXCLUDED.roi_x2, roi_y2 = EXCLUDED.roi_y2,
			engine = EXCLUDED.engine, motion_threshold = EXCLUDED.motion_threshold,
			motion_min_area = EXCLUDED.motion_min_area, accept_confidence = EXCLUDED.accept_confidence,
			debounce_window_sec = EXCLUDED.debounce_window_sec, updated_at = now()
		RETURNING created_at, updated_at`,
		spec.ID, spec.Kind, spec.RTSPURL, spec.ONVIFHost, spec.ONVIFUser, spec.ONVIFPass, spec.WebcamIndex,
		spec.TargetPreviewFPS, spec.TargetOcrFPS, spec.EnableOCR, spec.EnableMotion, spec.EnableROI,
		roiX1, roiY1, roiX2, roiY2, spec.Engine, spec.MotionThreshold, spec.MotionMinArea,
		spec.AcceptConfidence, spec.DebounceWindowSec,
	).Scan(&rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("upsert camera: %w", err)
	}
	return rec, nil
}

func (s *PostgresStore) GetCamera(ctx context.Context, id string) (*models.CameraRecord, error) {
	rec, err := scanCameraRow(s.pool.QueryRow(ctx, cameraSelect+` WHERE id = $1`, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get camera: %w", err)
	}
	return rec, nil
}

func (s *PostgresStore) ListCameras(ctx context.Context) ([]models.CameraRecord, error) {
	rows, err := s.pool.Query(ctx, cameraSelect+` ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list cameras: %w", err)
	}
	defer rows.Close()

	var records []models.CameraRecord
	for rows.Next() {
		rec, err := scanCameraRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan camera: %w", err)
		}
		records = append(records, *rec)
	}
	return records, nil
}

func (s *PostgresStore) DeleteCamera(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM cameras WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete camera: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("camera not found")
	}
	return nil
}

const cameraSelect = `SELECT
	id, kind, rtsp_url, onvif_host, onvif_user, onvif_pass, webcam_index,
	target_preview_fps, target_ocr_fps, enable_ocr, enable_motion, enable_roi,
	roi_x1, roi_y1, roi_x2, roi_y2, engine, motion_threshold, motion_min_area,
	accept_confidence, debounce_window_sec, created_at, updated_at
	FROM cameras`

// row is satisfied by both pgx.Row (QueryRow) and pgx.Rows (Query).
type row interface {
	Scan(dest ...any) error
}

func scanCameraRow(r row) (*models.CameraRecord, error) {
	rec := &models.CameraRecord{}
	var roiX1, roiY1, roiX2, roiY2 *int
	err := r.Scan(
		&rec.Spec.ID, &rec.Spec.Kind, &rec.Spec.RTSPURL, &rec.Spec.ONVIFHost, &rec.Spec.ONVIFUser, &rec.Spec.ONVIFPass,
		&rec.Spec.WebcamIndex, &rec.Spec.TargetPreviewFPS, &rec.Spec.TargetOcrFPS, &rec.Spec.EnableOCR,
		&rec.Spec.EnableMotion, &rec.Spec.EnableROI, &roiX1, &roiY1, &roiX2, &roiY2, &rec.Spec.Engine,
		&rec.Spec.MotionThreshold, &rec.Spec.MotionMinArea, &rec.Spec.AcceptConfidence, &rec.Spec.DebounceWindowSec,
		&rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if roiX1 != nil && roiY1 != nil && roiX2 != nil && roiY2 != nil {
		rec.Spec.ROI = &models.RoiRect{X1: *roiX1, Y1: *roiY1, X2: *roiX2, Y2: *roiY2}
	}
	return rec, nil
}

// --- Plate detections ---

// CreateDetection persists det, assigning it a fresh ID.
func (s *PostgresStore) CreateDetection(ctx context.Context, det models.Detection) (models.Detection, error) {
	det.ID = uuid.New()
	_, err := s.pool.Exec(ctx,
		`INSERT INTO plate_detections (id, camera_id, plate, confidence, engine, timestamp)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		det.ID, det.CameraID, det.Plate, det.Confidence, det.Engine, det.Timestamp)
	if err != nil {
		return models.Detection{}, fmt.Errorf("create detection: %w", err)
	}
	return det, nil
}

// ListDetections returns the most recent detections for cameraID, newest
// first, capped at limit (default 50, max 500, matching the teacher's event
// pagination).
func (s *PostgresStore) ListDetections(ctx context.Context, cameraID string, limit int) ([]models.Detection, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 500 {
		limit = 500
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, camera_id, plate, confidence, engine, timestamp
		 FROM plate_detections WHERE camera_id = $1 ORDER BY timestamp DESC LIMIT $2`,
		cameraID, limit)
	if err != nil {
		return nil, fmt.Errorf("list detections: %w", err)
	}
	defer rows.Close()

	var detections []models.Detection
	for rows.Next() {
		var d models.Detection
		if err := rows.Scan(&d.ID, &d.CameraID, &d.Plate, &d.Confidence, &d.Engine, &d.Timestamp); err != nil {
			return nil, fmt.Errorf("scan detection: %w", err)
		}
		detections = append(detections, d)
	}
	return detections, nil
}
