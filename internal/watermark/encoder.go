// Package watermark embeds an invisible provenance payload into the
// frequency domain of an image. Each payload bit is written into one
// mid-band DCT coefficient of an 8×8 luma block by quantization, so
// the mark survives re-encoding but stays imperceptible.
package watermark

import (
	"errors"
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

const (
	blockSize = 8

	// Row/column of the mid-band coefficient carrying the bit. Low
	// enough to survive compression, high enough to stay invisible.
	coeffRow = 3
	coeffCol = 4

	// Quantization step for the embedded coefficient.
	quantStep = 16.0
)

var ErrInsufficientCapacity = errors.New("image too small for watermark payload")

// Encoder embeds and recovers framed payloads.
type Encoder struct{}

// NewEncoder creates a watermark encoder.
func NewEncoder() *Encoder {
	return &Encoder{}
}

// Capacity returns the number of bits embeddable into a w×h image.
func (e *Encoder) Capacity(w, h int) int {
	return (w / blockSize) * (h / blockSize)
}

// Embed writes the framed payload into the luma plane of src and
// returns the marked image. The source is not modified.
func (e *Encoder) Embed(src image.Image, payload []byte) (image.Image, error) {
	bits, err := FrameBits(payload)
	if err != nil {
		return nil, err
	}

	b := src.Bounds()
	if e.Capacity(b.Dx(), b.Dy()) < len(bits) {
		return nil, fmt.Errorf("%w: need %d bits, capacity %d",
			ErrInsufficientCapacity, len(bits), e.Capacity(b.Dx(), b.Dy()))
	}

	mat, err := gocv.ImageToMatRGB(src)
	if err != nil {
		return nil, fmt.Errorf("failed to convert image: %w", err)
	}
	defer mat.Close()

	ycc := gocv.NewMat()
	defer ycc.Close()
	gocv.CvtColor(mat, &ycc, gocv.ColorRGBToYCrCb)

	planes := gocv.Split(ycc)
	defer closeMats(planes)

	luma := gocv.NewMat()
	defer luma.Close()
	planes[0].ConvertTo(&luma, gocv.MatTypeCV32F)

	if err := e.applyBits(&luma, bits, embedBit); err != nil {
		return nil, err
	}

	marked := gocv.NewMat()
	defer marked.Close()
	luma.ConvertTo(&marked, gocv.MatTypeCV8U)

	merged := gocv.NewMat()
	defer merged.Close()
	gocv.Merge([]gocv.Mat{marked, planes[1], planes[2]}, &merged)

	rgb := gocv.NewMat()
	defer rgb.Close()
	gocv.CvtColor(merged, &rgb, gocv.ColorYCrCbToRGB)

	out, err := rgb.ToImage()
	if err != nil {
		return nil, fmt.Errorf("failed to convert marked image: %w", err)
	}
	return out, nil
}

// Decode recovers the embedded payload from a marked image.
func (e *Encoder) Decode(src image.Image) ([]byte, error) {
	mat, err := gocv.ImageToMatRGB(src)
	if err != nil {
		return nil, fmt.Errorf("failed to convert image: %w", err)
	}
	defer mat.Close()

	ycc := gocv.NewMat()
	defer ycc.Close()
	gocv.CvtColor(mat, &ycc, gocv.ColorRGBToYCrCb)

	planes := gocv.Split(ycc)
	defer closeMats(planes)

	luma := gocv.NewMat()
	defer luma.Close()
	planes[0].ConvertTo(&luma, gocv.MatTypeCV32F)

	b := src.Bounds()
	bits := make([]bool, 0, e.Capacity(b.Dx(), b.Dy()))
	err = e.applyBits(&luma, nil, func(block *gocv.Mat, _ bool) bool {
		bits = append(bits, extractBit(block))
		return true
	})
	if err != nil {
		return nil, err
	}

	return UnframeBits(bits)
}

// applyBits walks 8×8 blocks row-major, runs the block function on
// each block's DCT, and writes the inverse transform back. With a nil
// bit slice the walk covers every full block (decode path).
func (e *Encoder) applyBits(luma *gocv.Mat, bits []bool, fn func(block *gocv.Mat, bit bool) bool) error {
	rows := luma.Rows() / blockSize
	cols := luma.Cols() / blockSize

	idx := 0
	for by := 0; by < rows; by++ {
		for bx := 0; bx < cols; bx++ {
			if bits != nil && idx >= len(bits) {
				return nil
			}

			region := luma.Region(image.Rect(
				bx*blockSize, by*blockSize,
				(bx+1)*blockSize, (by+1)*blockSize,
			))

			freq := gocv.NewMat()
			gocv.DCT(region, &freq, gocv.DftForward)

			var bit bool
			if bits != nil {
				bit = bits[idx]
			}
			write := fn(&freq, bit)

			if write && bits != nil {
				restored := gocv.NewMat()
				// IDCT already implies the inverse transform
				gocv.IDCT(freq, &restored, 0)
				restored.CopyTo(&region)
				restored.Close()
			}

			freq.Close()
			region.Close()
			idx++
		}
	}
	return nil
}

// embedBit quantizes the carrier coefficient so its residue encodes
// the bit: 3/4 step for one, 1/4 step for zero.
func embedBit(block *gocv.Mat, bit bool) bool {
	c := float64(block.GetFloatAt(coeffRow, coeffCol))
	base := quantStep * float64(int(c/quantStep))
	if c < 0 {
		base -= quantStep
	}
	offset := quantStep / 4
	if bit {
		offset = 3 * quantStep / 4
	}
	block.SetFloatAt(coeffRow, coeffCol, float32(base+offset))
	return true
}

func extractBit(block *gocv.Mat) bool {
	c := float64(block.GetFloatAt(coeffRow, coeffCol))
	residue := c - quantStep*float64(int(c/quantStep))
	if residue < 0 {
		residue += quantStep
	}
	return residue > quantStep/2
}

func closeMats(mats []gocv.Mat) {
	for i := range mats {
		mats[i].Close()
	}
}
