// Package dto holds the JSON wire shapes exposed by the plate-recognition
// web surface. Grounded on the teacher's pkg/dto/event.go.
package dto

// DetectionResponse is one plate detection as returned by the REST history
// endpoint and embedded in WSEvent.
type DetectionResponse struct {
	CameraID   string  `json:"camera_id"`
	Plate      string  `json:"plate"`
	Confidence float64 `json:"confidence"`
	Engine     string  `json:"engine"`
	Timestamp  string  `json:"timestamp"`
}

// WSEvent is a WebSocket message for real-time detection delivery.
type WSEvent struct {
	Type     string            `json:"type"` // plate_detected, stream_status
	CameraID string            `json:"camera_id"`
	Data     DetectionResponse `json:"data,omitempty"`
	Status   string            `json:"status,omitempty"`
}

// CameraResponse is the public shape of a registered camera.
type CameraResponse struct {
	ID               string `json:"id"`
	Kind             string `json:"kind"`
	EnableOCR        bool   `json:"enable_ocr"`
	Engine           string `json:"engine"`
	TargetPreviewFPS int    `json:"target_preview_fps"`
	TargetOcrFPS     int    `json:"target_ocr_fps"`
	Running          bool   `json:"running"`
}

// CreateCameraRequest registers a new camera with PipelineSupervisor.
type CreateCameraRequest struct {
	ID          string `json:"id" binding:"required"`
	Kind        string `json:"kind" binding:"required"` // webcam, rtsp_url, onvif_host
	RTSPURL     string `json:"rtsp_url,omitempty"`
	WebcamIndex int    `json:"webcam_index,omitempty"`

	TargetPreviewFPS int `json:"target_preview_fps,omitempty"`
	TargetOcrFPS     int `json:"target_ocr_fps,omitempty"`

	EnableOCR    bool   `json:"enable_ocr"`
	EnableMotion bool   `json:"enable_motion"`
	EnableROI    bool   `json:"enable_roi"`
	ROI          *ROI   `json:"roi,omitempty"`
	Engine       string `json:"engine,omitempty"` // paddle, easy, tesseract, yolo, hybrid

	MotionThreshold   int     `json:"motion_threshold,omitempty"`
	MotionMinArea     float64 `json:"motion_min_area,omitempty"`
	AcceptConfidence  float64 `json:"accept_confidence,omitempty"`
	DebounceWindowSec float64 `json:"debounce_window_seconds,omitempty"`
}

// ROI is the wire form of models.RoiRect.
type ROI struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// SetEngineRequest switches a running camera's OCR engine.
type SetEngineRequest struct {
	Engine string `json:"engine" binding:"required"`
}

// DetectionListResponse is the paginated history for one camera.
type DetectionListResponse struct {
	Detections []DetectionResponse `json:"detections"`
	Total      int                 `json:"total"`
}
