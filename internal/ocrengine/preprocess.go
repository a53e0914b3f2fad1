package ocrengine

import (
	"image"

	"gocv.io/x/gocv"
)

func scaleSize(m gocv.Mat, factor int) image.Point {
	return image.Pt(m.Cols()*factor, m.Rows()*factor)
}

// toGray converts image to single-channel grayscale, passing it through
// unchanged if it already is one.
func toGray(image gocv.Mat) gocv.Mat {
	if image.Channels() == 1 {
		return image.Clone()
	}
	gray := gocv.NewMat()
	gocv.CvtColor(image, &gray, gocv.ColorBGRToGray)
	return gray
}

// contrastStretch mirrors cv2.convertScaleAbs(alpha=1.5, beta=10): a cheap
// linear contrast boost applied before every recognizer call.
func contrastStretch(gray gocv.Mat) gocv.Mat {
	out := gocv.NewMat()
	gray.ConvertToWithParams(&out, gocv.MatTypeCV8U, 1.5, 10)
	return out
}

// otsuBinarize matches cv2.threshold(..., THRESH_BINARY | THRESH_OTSU).
func otsuBinarize(gray gocv.Mat) gocv.Mat {
	out := gocv.NewMat()
	gocv.Threshold(gray, &out, 0, 255, gocv.ThresholdBinary|gocv.ThresholdOtsu)
	return out
}

// adaptiveBinarize matches cv2.adaptiveThreshold(..., ADAPTIVE_THRESH_GAUSSIAN_C,
// THRESH_BINARY, 11, 2), the chain easyocr_engine.py uses in place of Otsu.
func adaptiveBinarize(gray gocv.Mat) gocv.Mat {
	out := gocv.NewMat()
	gocv.AdaptiveThreshold(gray, &out, 255, gocv.AdaptiveThresholdGaussian, gocv.ThresholdBinary, 11, 2)
	return out
}

// denoise mirrors cv2.fastNlMeansDenoising with h=10, a 7x7 template window
// and a 21x21 search window.
func denoise(gray gocv.Mat) gocv.Mat {
	out := gocv.NewMat()
	gocv.FastNlMeansDenoisingWithParams(gray, &out, 10, 7, 21)
	return out
}

// preprocessForPaddle runs the grayscale -> contrast -> denoise -> Otsu
// threshold chain from paddle_engine.py's _preprocess.
func preprocessForPaddle(image gocv.Mat) gocv.Mat {
	gray := toGray(image)
	defer gray.Close()

	contrast := contrastStretch(gray)
	defer contrast.Close()

	denoised := denoise(contrast)
	defer denoised.Close()

	return otsuBinarize(denoised)
}

// preprocessForEasy mirrors easyocr_engine.py's _preprocess: the same
// grayscale/contrast/denoise chain but an adaptive threshold in place of
// Otsu.
func preprocessForEasy(image gocv.Mat) gocv.Mat {
	gray := toGray(image)
	defer gray.Close()

	contrast := contrastStretch(gray)
	defer contrast.Close()

	denoised := denoise(contrast)
	defer denoised.Close()

	return adaptiveBinarize(denoised)
}

// filterPlateChars uppercases ASCII letters and strips anything else outside
// [A-Z0-9] from a raw recognizer transcription, matching every engine's
// _filter_plate_chars.
func filterPlateChars(raw string) string {
	out := make([]byte, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		switch {
		case c >= 'a' && c <= 'z':
			out = append(out, c-('a'-'A'))
		case (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9'):
			out = append(out, c)
		}
	}
	return string(out)
}

// preprocessForTesseract additionally upscales 2x before the same chain,
// matching tesseract_engine.py's extra INTER_CUBIC resize.
func preprocessForTesseract(image gocv.Mat) gocv.Mat {
	gray := toGray(image)
	defer gray.Close()

	upscaled := gocv.NewMat()
	newSize := scaleSize(gray, 2)
	gocv.Resize(gray, &upscaled, newSize, 0, 0, gocv.InterpolationCubic)
	defer upscaled.Close()

	contrast := contrastStretch(upscaled)
	defer contrast.Close()

	denoised := denoise(contrast)
	defer denoised.Close()

	return otsuBinarize(denoised)
}
