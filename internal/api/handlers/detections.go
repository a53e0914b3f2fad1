package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/your-org/platerecon/internal/models"
	"github.com/your-org/platerecon/internal/storage"
	"github.com/your-org/platerecon/internal/supervisor"
	"github.com/your-org/platerecon/pkg/dto"
)

type DetectionHandler struct {
	db         *storage.PostgresStore
	minio      *storage.MinIOStore
	supervisor *supervisor.Supervisor
}

func NewDetectionHandler(db *storage.PostgresStore, minio *storage.MinIOStore, sup *supervisor.Supervisor) *DetectionHandler {
	return &DetectionHandler{db: db, minio: minio, supervisor: sup}
}

// List returns the most recent detections for a camera.
func (h *DetectionHandler) List(c *gin.Context) {
	cameraID := c.Param("id")
	limit, _ := strconv.Atoi(c.Query("limit"))

	detections, err := h.db.ListDetections(c.Request.Context(), cameraID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := make([]dto.DetectionResponse, 0, len(detections))
	for _, d := range detections {
		resp = append(resp, detectionToResponse(d))
	}
	c.JSON(http.StatusOK, dto.DetectionListResponse{Detections: resp, Total: len(resp)})
}

// Snapshot streams the frame stored under SnapshotKey for a detection.
// Nothing in this repository uploads such frames, so it answers 404 unless
// another writer has put one in the bucket.
func (h *DetectionHandler) Snapshot(c *gin.Context) {
	cameraID := c.Param("id")
	detectionID := c.Param("detectionId")

	data, err := h.minio.GetObject(c.Request.Context(), storage.SnapshotKey(cameraID, detectionID))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "snapshot not found"})
		return
	}
	c.Data(http.StatusOK, "image/jpeg", data)
}

// LivePreview streams the current low-resolution JPEG for a camera. Grounded
// on video_pipeline_live.py's MJPEG-style single-frame poll endpoint.
func (h *DetectionHandler) LivePreview(c *gin.Context) {
	cameraID := c.Param("id")
	jpeg, ok := h.supervisor.GetFrameJPEG(cameraID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no frame available"})
		return
	}
	c.Data(http.StatusOK, "image/jpeg", jpeg)
}

// Stats returns the live/ocr pipeline counters for a camera.
func (h *DetectionHandler) Stats(c *gin.Context) {
	cameraID := c.Param("id")
	live, ocr, hasOcr := h.supervisor.GetStats(cameraID)

	resp := gin.H{
		"camera_id": cameraID,
		"live": gin.H{
			"running":     live.Running,
			"frame_count": live.FrameCount,
			"fps":         live.ActualFPS,
		},
	}
	if hasOcr {
		resp["ocr"] = gin.H{
			"running":           ocr.Running,
			"processed_frames":  ocr.ProcessedFrames,
			"detected_plates":   ocr.DetectedPlates,
			"last_detection":    ocr.LastDetection,
			"last_detection_at": ocr.LastDetectionAt,
			"current_engine":    ocr.CurrentEngine,
		}
	}
	c.JSON(http.StatusOK, resp)
}

func detectionToResponse(d models.Detection) dto.DetectionResponse {
	return dto.DetectionResponse{
		CameraID:   d.CameraID,
		Plate:      d.Plate,
		Confidence: d.Confidence,
		Engine:     string(d.Engine),
		Timestamp:  d.Timestamp.Format("2006-01-02T15:04:05Z"),
	}
}
