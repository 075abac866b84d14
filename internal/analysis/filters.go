package analysis

import "image"

// reflect101 maps an out-of-range coordinate back into [0, n) by mirroring
// around the edge pixel without repeating it: -1 -> 1, n -> n-2.
func reflect101(i, n int) int {
	if n == 1 {
		return 0
	}
	for i < 0 || i >= n {
		if i < 0 {
			i = -i
		} else {
			i = 2*n - 2 - i
		}
	}
	return i
}

// meanIntensity returns the mean pixel value of img.
func meanIntensity(img *image.Gray) float64 {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return 0
	}
	var sum uint64
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w]
		for _, p := range row {
			sum += uint64(p)
		}
	}
	return float64(sum) / float64(w*h)
}

// laplacianVariance returns the population variance of the 4-neighbour
// Laplacian response of img.
func laplacianVariance(img *image.Gray) float64 {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	n := w * h
	if n == 0 {
		return 0
	}

	at := func(x, y int) int32 {
		return int32(img.Pix[reflect101(y, h)*img.Stride+reflect101(x, w)])
	}

	resp := make([]int32, n)
	var sum int64
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := at(x, y-1) + at(x-1, y) + at(x+1, y) + at(x, y+1) - 4*at(x, y)
			resp[y*w+x] = v
			sum += int64(v)
		}
	}

	mean := float64(sum) / float64(n)
	var ss float64
	for _, v := range resp {
		d := float64(v) - mean
		ss += d * d
	}
	return ss / float64(n)
}

// gaussKernel5 is the 5-tap binomial kernel, normalised by 16 per axis.
var gaussKernel5 = [5]int32{1, 4, 6, 4, 1}

// gaussianBlur5 smooths img with a separable 5x5 Gaussian and rounds the
// result back to 8 bits.
func gaussianBlur5(img *image.Gray) *image.Gray {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewGray(image.Rect(0, 0, w, h))
	if w == 0 || h == 0 {
		return out
	}

	tmp := make([]int32, w*h)
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride:]
		for x := 0; x < w; x++ {
			var s int32
			for k := -2; k <= 2; k++ {
				s += gaussKernel5[k+2] * int32(row[reflect101(x+k, w)])
			}
			tmp[y*w+x] = s
		}
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var s int32
			for k := -2; k <= 2; k++ {
				s += gaussKernel5[k+2] * tmp[reflect101(y+k, h)*w+x]
			}
			out.Pix[y*out.Stride+x] = uint8((s + 128) >> 8)
		}
	}
	return out
}

// changeRatio returns the fraction of pixels whose absolute difference
// between a and b exceeds threshold. Only the overlapping region is compared.
func changeRatio(a, b *image.Gray, threshold int) float64 {
	w := min(a.Bounds().Dx(), b.Bounds().Dx())
	h := min(a.Bounds().Dy(), b.Bounds().Dy())
	if w == 0 || h == 0 {
		return 0
	}

	changed := 0
	for y := 0; y < h; y++ {
		ra := a.Pix[y*a.Stride : y*a.Stride+w]
		rb := b.Pix[y*b.Stride : y*b.Stride+w]
		for x := range ra {
			d := int(ra[x]) - int(rb[x])
			if d < 0 {
				d = -d
			}
			if d > threshold {
				changed++
			}
		}
	}
	return float64(changed) / float64(w*h)
}
