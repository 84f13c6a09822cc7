package eval

import (
	"errors"
	"image"

	xdraw "golang.org/x/image/draw"
)

// SSIM window and stabilization constants for 8-bit dynamic range.
const (
	ssimWindow = 8
	ssimC1     = (0.01 * 255) * (0.01 * 255)
	ssimC2     = (0.03 * 255) * (0.03 * 255)
)

// ErrEmptyImage marks an SSIM request with a zero-area image.
var ErrEmptyImage = errors.New("image has no pixels")

// SSIM computes the mean structural similarity between two images over
// uniform 8x8 grayscale windows. Result is in [-1,1] with 1 meaning
// identical. When the images differ in size, b is resampled to a's
// bounds before comparison.
func SSIM(a, b image.Image) (float64, error) {
	if a.Bounds().Empty() || b.Bounds().Empty() {
		return 0, ErrEmptyImage
	}

	ga := toGray(a)
	gb := toGray(b)
	if !ga.Bounds().Eq(gb.Bounds()) {
		resized := image.NewGray(ga.Bounds())
		xdraw.ApproxBiLinear.Scale(resized, resized.Bounds(), gb, gb.Bounds(), xdraw.Src, nil)
		gb = resized
	}

	bounds := ga.Bounds()
	total := 0.0
	windows := 0
	for y := bounds.Min.Y; y+ssimWindow <= bounds.Max.Y; y += ssimWindow {
		for x := bounds.Min.X; x+ssimWindow <= bounds.Max.X; x += ssimWindow {
			total += windowSSIM(ga, gb, x, y)
			windows++
		}
	}
	if windows == 0 {
		// Image smaller than one window: compare it whole.
		return wholeSSIM(ga, gb), nil
	}
	return total / float64(windows), nil
}

func toGray(img image.Image) *image.Gray {
	if gray, ok := img.(*image.Gray); ok {
		return gray
	}
	bounds := img.Bounds()
	gray := image.NewGray(bounds)
	xdraw.Draw(gray, bounds, img, bounds.Min, xdraw.Src)
	return gray
}

func windowSSIM(a, b *image.Gray, x0, y0 int) float64 {
	var pa, pb [ssimWindow * ssimWindow]float64
	i := 0
	for y := y0; y < y0+ssimWindow; y++ {
		for x := x0; x < x0+ssimWindow; x++ {
			pa[i] = float64(a.GrayAt(x, y).Y)
			pb[i] = float64(b.GrayAt(x, y).Y)
			i++
		}
	}
	return ssimOf(pa[:], pb[:])
}

// wholeSSIM treats the full image as a single window.
func wholeSSIM(a, b *image.Gray) float64 {
	bounds := a.Bounds()
	n := bounds.Dx() * bounds.Dy()
	pa := make([]float64, 0, n)
	pb := make([]float64, 0, n)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			pa = append(pa, float64(a.GrayAt(x, y).Y))
			pb = append(pb, float64(b.GrayAt(x, y).Y))
		}
	}
	return ssimOf(pa, pb)
}

func ssimOf(a, b []float64) float64 {
	n := float64(len(a))
	meanA, meanB := 0.0, 0.0
	for i := range a {
		meanA += a[i]
		meanB += b[i]
	}
	meanA /= n
	meanB /= n

	varA, varB, cov := 0.0, 0.0, 0.0
	for i := range a {
		da := a[i] - meanA
		db := b[i] - meanB
		varA += da * da
		varB += db * db
		cov += da * db
	}
	varA /= n
	varB /= n
	cov /= n

	return ((2*meanA*meanB + ssimC1) * (2*cov + ssimC2)) /
		((meanA*meanA + meanB*meanB + ssimC1) * (varA + varB + ssimC2))
}
