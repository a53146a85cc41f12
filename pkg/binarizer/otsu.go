package binarizer

import "image"

// Histogram counts the pixels of each intensity
func Histogram(gray *image.Gray) [256]int {
	var hist [256]int
	b := gray.Bounds()
	for y := 0; y < b.Dy(); y++ {
		row := gray.Pix[y*gray.Stride : y*gray.Stride+b.Dx()]
		for _, v := range row {
			hist[v]++
		}
	}
	return hist
}

// OtsuThreshold returns the intensity t that maximises the between-class
// variance of the two classes [0, t] and (t, 255]. The lowest t wins ties.
// A histogram with a single occupied bin has no split and yields 0.
func OtsuThreshold(hist [256]int) uint8 {
	var total, sum float64
	for i, n := range hist {
		total += float64(n)
		sum += float64(i) * float64(n)
	}

	var (
		best     uint8
		bestVar  float64
		w0, sum0 float64
	)
	for i, n := range hist {
		w0 += float64(n)
		sum0 += float64(i) * float64(n)
		w1 := total - w0
		if w0 == 0 || w1 == 0 {
			continue
		}
		m0 := sum0 / w0
		m1 := (sum - sum0) / w1
		between := w0 * w1 * (m0 - m1) * (m0 - m1)
		if between > bestVar {
			bestVar = between
			best = uint8(i)
		}
	}
	return best
}
