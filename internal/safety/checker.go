// Package safety runs the NSFW concept checker over decoded images
// and produces the redacted rendition used when a concept is found.
package safety

import (
	"errors"
	"fmt"
	"image"
	"os"

	"gocv.io/x/gocv"
)

const (
	// Classifier input geometry. The checker model is an ONNX image
	// classifier with a two-way [neutral, nsfw] softmax head.
	inputSize = 224

	// DefaultThreshold is the nsfw score above which an image is
	// flagged.
	DefaultThreshold = 0.5
)

var ErrModelNotFound = errors.New("safety checker model not found")

// inputScale and inputMean preprocess pixels for the classifier.
// BlobFromImage subtracts the mean before applying the scale factor,
// so the ImageNet channel means are given in pixel units (0.485,
// 0.456, 0.406 scaled by 255).
const inputScale = 1.0 / 255.0

var inputMean = gocv.NewScalar(123.675, 116.28, 103.53, 0)

// Checker wraps the loaded classifier network. It is not safe for
// concurrent Check calls; the executor runs invocations one at a
// time.
type Checker struct {
	net       gocv.Net
	threshold float32
}

// NewChecker loads the ONNX classifier from modelPath and binds it to
// the resolved device.
func NewChecker(modelPath string, device Device, threshold float32) (*Checker, error) {
	if _, err := os.Stat(modelPath); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrModelNotFound, modelPath)
	}

	net := gocv.ReadNetFromONNX(modelPath)
	if net.Empty() {
		return nil, fmt.Errorf("%w: failed to read %s", ErrModelNotFound, modelPath)
	}

	if err := net.SetPreferableBackend(device.Backend); err != nil {
		net.Close()
		return nil, fmt.Errorf("failed to set DNN backend: %w", err)
	}
	if err := net.SetPreferableTarget(device.Target); err != nil {
		net.Close()
		return nil, fmt.Errorf("failed to set DNN target: %w", err)
	}

	if threshold <= 0 || threshold >= 1 {
		threshold = DefaultThreshold
	}

	return &Checker{net: net, threshold: threshold}, nil
}

// Close releases the network.
func (c *Checker) Close() error {
	return c.net.Close()
}

// Check runs the classifier and reports whether an NSFW concept was
// detected, along with the raw score.
func (c *Checker) Check(img image.Image) (bool, float32, error) {
	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return false, 0, fmt.Errorf("failed to convert image: %w", err)
	}
	defer mat.Close()

	blob := gocv.BlobFromImage(mat, inputScale,
		image.Pt(inputSize, inputSize), inputMean,
		true, false)
	defer blob.Close()

	c.net.SetInput(blob, "")
	prob := c.net.Forward("")
	defer prob.Close()

	// Output layout: [1 x 2] scores, nsfw second.
	score := prob.GetFloatAt(0, 1)
	return score >= c.threshold, score, nil
}
