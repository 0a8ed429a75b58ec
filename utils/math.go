package utils

import "math"

func ConstArray(N int, val float64) (v []float64) {
	v = make([]float64, N)
	for i := range v {
		v[i] = val
	}
	return
}

// POW raises x to an integer power, unrolled for the small exponents
// the collapsed coordinate bases produce from lattice indices.
func POW(x float64, pp int) (y float64) {
	if pp > 8 || pp < -8 {
		return math.Pow(x, float64(pp))
	}
	if pp < 0 {
		return 1. / POW(x, -pp)
	}
	switch pp {
	case 0:
		y = 1
	case 1:
		y = x
	case 2:
		y = x * x
	case 3:
		y = x * x * x
	case 4:
		y = x * x
		y = y * y
	case 5:
		y = x * x
		y = y * y * x
	case 6:
		y = x * x
		y = y * y * y
	case 7:
		y = x * x
		y = y * y * y * x
	case 8:
		y = x * x
		y = y * y * y * y
	}
	return
}
