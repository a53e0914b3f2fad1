// Package handlers implements the REST surface over PipelineSupervisor and
// the persistence layer. Grounded on the teacher's internal/api/handlers
// package shape (one handler struct per resource, gin.Context-based), with
// StreamHandler's NATS-control-message dispatch replaced by direct
// PipelineSupervisor.Start/Stop calls: there is no separate ingestor
// process here to hand a start/stop command to.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/your-org/platerecon/internal/models"
	"github.com/your-org/platerecon/internal/pipeline"
	"github.com/your-org/platerecon/internal/storage"
	"github.com/your-org/platerecon/internal/supervisor"
	"github.com/your-org/platerecon/pkg/dto"
)

type CameraHandler struct {
	db         *storage.PostgresStore
	supervisor *supervisor.Supervisor
	onDetect   pipeline.OcrCallback
}

func NewCameraHandler(db *storage.PostgresStore, sup *supervisor.Supervisor, onDetect pipeline.OcrCallback) *CameraHandler {
	return &CameraHandler{db: db, supervisor: sup, onDetect: onDetect}
}

// Create registers a camera, persists it, and starts its pipelines.
func (h *CameraHandler) Create(c *gin.Context) {
	var req dto.CreateCameraRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	spec := specFromRequest(req)

	if _, err := h.db.UpsertCamera(c.Request.Context(), spec); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.supervisor.Start(spec, h.onDetect)
	c.JSON(http.StatusCreated, cameraToResponse(spec, true))
}

func (h *CameraHandler) List(c *gin.Context) {
	records, err := h.db.ListCameras(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := make([]dto.CameraResponse, 0, len(records))
	for _, rec := range records {
		live, _, _ := h.supervisor.GetStats(rec.Spec.ID)
		resp = append(resp, cameraToResponse(rec.Spec, live.Running))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CameraHandler) Get(c *gin.Context) {
	id := c.Param("id")
	rec, err := h.db.GetCamera(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if rec == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "camera not found"})
		return
	}
	live, _, _ := h.supervisor.GetStats(id)
	c.JSON(http.StatusOK, cameraToResponse(rec.Spec, live.Running))
}

// Start (re)starts pipelines for a previously registered camera, e.g. after
// a process restart where the supervisor map is empty but the row persists.
func (h *CameraHandler) Start(c *gin.Context) {
	id := c.Param("id")
	rec, err := h.db.GetCamera(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if rec == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "camera not found"})
		return
	}
	h.supervisor.Start(rec.Spec, h.onDetect)
	c.JSON(http.StatusOK, gin.H{"status": "started", "id": id})
}

func (h *CameraHandler) Stop(c *gin.Context) {
	id := c.Param("id")
	h.supervisor.Stop(id)
	c.JSON(http.StatusOK, gin.H{"status": "stopped", "id": id})
}

func (h *CameraHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	h.supervisor.Stop(id)
	if err := h.db.DeleteCamera(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// SetEngine switches a running camera's OCR engine at runtime.
func (h *CameraHandler) SetEngine(c *gin.Context) {
	id := c.Param("id")
	var req dto.SetEngineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !h.supervisor.SetEngine(id, models.EngineTag(req.Engine)) {
		c.JSON(http.StatusConflict, gin.H{"error": "engine switch failed: camera absent, no OCR pipeline, or unknown engine"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "switched", "engine": req.Engine})
}

func specFromRequest(req dto.CreateCameraRequest) models.CameraSpec {
	spec := models.CameraSpec{
		ID:                req.ID,
		Kind:              models.SourceKind(req.Kind),
		RTSPURL:           req.RTSPURL,
		WebcamIndex:       req.WebcamIndex,
		TargetPreviewFPS:  req.TargetPreviewFPS,
		TargetOcrFPS:      req.TargetOcrFPS,
		EnableOCR:         req.EnableOCR,
		EnableMotion:      req.EnableMotion,
		EnableROI:         req.EnableROI,
		Engine:            models.EngineTag(req.Engine),
		MotionThreshold:   req.MotionThreshold,
		MotionMinArea:     req.MotionMinArea,
		AcceptConfidence:  req.AcceptConfidence,
		DebounceWindowSec: req.DebounceWindowSec,
	}
	if req.ROI != nil {
		spec.ROI = &models.RoiRect{X1: req.ROI.X1, Y1: req.ROI.Y1, X2: req.ROI.X2, Y2: req.ROI.Y2}
	}
	if spec.Engine == "" {
		spec.Engine = models.EngineHybrid
	}
	return spec
}

func cameraToResponse(spec models.CameraSpec, running bool) dto.CameraResponse {
	return dto.CameraResponse{
		ID:               spec.ID,
		Kind:             string(spec.Kind),
		EnableOCR:        spec.EnableOCR,
		Engine:           string(spec.Engine),
		TargetPreviewFPS: spec.TargetPreviewFPS,
		TargetOcrFPS:     spec.TargetOcrFPS,
		Running:          running,
	}
}
