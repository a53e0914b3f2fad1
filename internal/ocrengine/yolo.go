package ocrengine

import (
	"fmt"
	"image"
	"log/slog"
	"math"
	"sort"

	ort "github.com/yalue/onnxruntime_go"
	"gocv.io/x/gocv"

	"github.com/your-org/platerecon/internal/models"
)

// YoloEngine detects license-plate regions with an ONNX single-class
// YOLO-style detector. Grounded on the teacher's internal/vision/detect.go
// (ONNX Runtime session + tensor lifecycle, letterbox-free fixed-size
// resize, NMS) and on
// original_source/.../ocr_engines/yolo_engine.py (detect_plates /
// extract_plate_region semantics, highest-confidence-wins selection). The
// source's det_10g RetinaFace output layout (three strided score/bbox/
// landmark tensors) has no plate analog; a plate detector exports one
// [1, 5, N] tensor (cx, cy, w, h, conf), so the parsing here is simpler than
// the teacher's multi-stride decode.
type YoloEngine struct {
	session     *ort.AdvancedSession
	inputTensor *ort.Tensor[float32]
	outputTensor *ort.Tensor[float32]
	threshold   float32
	inputW      int
	inputH      int
	ready       bool
}

// NewYoloEngine loads the ONNX plate detector at modelPath. A load failure
// yields a permanently-unavailable engine rather than an error the caller
// must route around, matching every other engine's sticky-unavailable
// contract.
func NewYoloEngine(modelPath string, threshold float32, numAnchors int, opts *ort.SessionOptions) *YoloEngine {
	inputW, inputH := 640, 640

	inputShape := ort.NewShape(1, 3, int64(inputH), int64(inputW))
	inputTensor, err := ort.NewEmptyTensor[float32](inputShape)
	if err != nil {
		slog.Warn("ocr: yolo input tensor create failed", "error", err)
		return &YoloEngine{ready: false}
	}

	outputShape := ort.NewShape(1, 5, int64(numAnchors))
	outputTensor, err := ort.NewEmptyTensor[float32](outputShape)
	if err != nil {
		inputTensor.Destroy()
		slog.Warn("ocr: yolo output tensor create failed", "error", err)
		return &YoloEngine{ready: false}
	}

	session, err := ort.NewAdvancedSession(modelPath,
		[]string{"images"},
		[]string{"output0"},
		[]ort.Value{inputTensor},
		[]ort.Value{outputTensor},
		opts,
	)
	if err != nil {
		inputTensor.Destroy()
		outputTensor.Destroy()
		slog.Warn("ocr: yolo session create failed", "error", err)
		return &YoloEngine{ready: false}
	}

	return &YoloEngine{
		session:      session,
		inputTensor:  inputTensor,
		outputTensor: outputTensor,
		threshold:    threshold,
		inputW:       inputW,
		inputH:       inputH,
		ready:        true,
	}
}

func (e *YoloEngine) Ready() bool { return e.ready }

func (e *YoloEngine) Name() models.EngineTag { return models.EngineYolo }

func (e *YoloEngine) Close() {
	if e.session != nil {
		e.session.Destroy()
	}
	if e.inputTensor != nil {
		e.inputTensor.Destroy()
	}
	if e.outputTensor != nil {
		e.outputTensor.Destroy()
	}
}

// Recognize satisfies Engine but is not how plates are read: Yolo is a
// detector, not a recognizer. It carries only its best detection
// confidence, with no text, matching yolo_engine.py's recognize_plate.
func (e *YoloEngine) Recognize(image gocv.Mat) models.OcrResult {
	boxes := e.DetectPlates(image)
	if len(boxes) == 0 {
		return models.OcrResult{Engine: models.EngineYolo}
	}
	return models.OcrResult{Confidence: boxes[0].Confidence, Engine: models.EngineYolo}
}

// DetectPlates returns every candidate box above threshold after NMS,
// highest confidence first.
func (e *YoloEngine) DetectPlates(frame gocv.Mat) []PlateBox {
	if !e.ready {
		return nil
	}

	origW, origH := frame.Cols(), frame.Rows()
	if origW == 0 || origH == 0 {
		return nil
	}

	chw, err := toCHWTensor(frame, e.inputW, e.inputH)
	if err != nil {
		slog.Warn("ocr: yolo preprocess failed", "error", err)
		return nil
	}

	copy(e.inputTensor.GetData(), chw)

	if err := e.session.Run(); err != nil {
		slog.Warn("ocr: yolo inference failed", "error", err)
		return nil
	}

	return decodeAndSuppress(e.outputTensor.GetData(), e.threshold, origW, origH, e.inputW, e.inputH)
}

// ExtractPlateRegion crops the highest-confidence detection out of frame,
// or returns an empty Mat if nothing cleared threshold.
func (e *YoloEngine) ExtractPlateRegion(frame gocv.Mat) gocv.Mat {
	boxes := e.DetectPlates(frame)
	if len(boxes) == 0 {
		return gocv.NewMat()
	}
	best := boxes[0]
	rect := image.Rect(best.X1, best.Y1, best.X2, best.Y2).Intersect(image.Rect(0, 0, frame.Cols(), frame.Rows()))
	if rect.Dx() <= 0 || rect.Dy() <= 0 {
		return gocv.NewMat()
	}
	return frame.Region(rect).Clone()
}

// toCHWTensor resizes frame to w x h, converts BGR->RGB and returns a
// planar (channel, row, col) float32 slice normalized to [0,1].
func toCHWTensor(frame gocv.Mat, w, h int) ([]float32, error) {
	resized := gocv.NewMat()
	defer resized.Close()
	gocv.Resize(frame, &resized, image.Pt(w, h), 0, 0, gocv.InterpolationLinear)

	rgb := gocv.NewMat()
	defer rgb.Close()
	gocv.CvtColor(resized, &rgb, gocv.ColorBGRToRGB)

	data, err := rgb.DataPtrUint8()
	if err != nil {
		return nil, fmt.Errorf("yolo: read mat data: %w", err)
	}

	out := make([]float32, 3*w*h)
	plane := w * h
	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			idx := (row*w + col) * 3
			p := row*w + col
			out[0*plane+p] = float32(data[idx+0]) / 255.0
			out[1*plane+p] = float32(data[idx+1]) / 255.0
			out[2*plane+p] = float32(data[idx+2]) / 255.0
		}
	}
	return out, nil
}

// decodeAndSuppress parses a [1,5,N] (cx,cy,w,h,conf) output tensor back to
// pixel-space boxes and applies NMS. Grounded on the teacher's
// parseDetections/nms pair in internal/vision/detect.go, simplified for a
// single anchor-free output instead of three strided anchor sets.
func decodeAndSuppress(raw []float32, threshold float32, origW, origH, inputW, inputH int) []PlateBox {
	n := len(raw) / 5
	scaleX := float32(origW) / float32(inputW)
	scaleY := float32(origH) / float32(inputH)

	var boxes []PlateBox
	for i := 0; i < n; i++ {
		conf := raw[4*n+i]
		if conf < threshold {
			continue
		}
		cx := raw[0*n+i]
		cy := raw[1*n+i]
		w := raw[2*n+i]
		h := raw[3*n+i]

		x1 := (cx - w/2) * scaleX
		y1 := (cy - h/2) * scaleY
		x2 := (cx + w/2) * scaleX
		y2 := (cy + h/2) * scaleY

		boxes = append(boxes, PlateBox{
			X1: int(x1), Y1: int(y1), X2: int(x2), Y2: int(y2),
			Confidence: float64(conf),
		})
	}

	return nmsBoxes(boxes, 0.4)
}

func nmsBoxes(boxes []PlateBox, iouThreshold float64) []PlateBox {
	if len(boxes) == 0 {
		return boxes
	}
	sort.Slice(boxes, func(i, j int) bool { return boxes[i].Confidence > boxes[j].Confidence })

	keep := make([]bool, len(boxes))
	for i := range keep {
		keep[i] = true
	}
	for i := 0; i < len(boxes); i++ {
		if !keep[i] {
			continue
		}
		for j := i + 1; j < len(boxes); j++ {
			if !keep[j] {
				continue
			}
			if boxIoU(boxes[i], boxes[j]) > iouThreshold {
				keep[j] = false
			}
		}
	}

	var out []PlateBox
	for i, b := range boxes {
		if keep[i] {
			out = append(out, b)
		}
	}
	return out
}

func boxIoU(a, b PlateBox) float64 {
	x1 := math.Max(float64(a.X1), float64(b.X1))
	y1 := math.Max(float64(a.Y1), float64(b.Y1))
	x2 := math.Min(float64(a.X2), float64(b.X2))
	y2 := math.Min(float64(a.Y2), float64(b.Y2))

	inter := math.Max(0, x2-x1) * math.Max(0, y2-y1)
	areaA := float64((a.X2 - a.X1) * (a.Y2 - a.Y1))
	areaB := float64((b.X2 - b.X1) * (b.Y2 - b.Y1))
	union := areaA + areaB - inter
	if union <= 0 {
		return 0
	}
	return inter / union
}
