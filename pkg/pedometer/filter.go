package pedometer

import "math"

// LFilter filters x with the rational transfer function b/a, in
// direct form II transposed with zero initial state. a[0] must not
// be zero, both are normalized by it.
func LFilter(b, a, x []float64) []float64 {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	nb, na := make([]float64, n), make([]float64, n)
	copy(nb, b)
	copy(na, a)
	for i := range nb {
		nb[i] /= a[0]
		na[i] /= a[0]
	}
	z := make([]float64, n)
	y := make([]float64, len(x))
	for k, v := range x {
		out := nb[0]*v + z[0]
		for i := 1; i < n; i++ {
			z[i-1] = nb[i]*v - na[i]*out + z[i]
		}
		y[k] = out
	}
	return y
}

// Detrend removes the least-squares line from x.
func Detrend(x []float64) []float64 {
	n := float64(len(x))
	if len(x) < 2 {
		return make([]float64, len(x))
	}
	mi := (n - 1) / 2
	var my float64
	for _, v := range x {
		my += v
	}
	my /= n
	var sxy, sxx float64
	for i, v := range x {
		d := float64(i) - mi
		sxy += d * (v - my)
		sxx += d * d
	}
	slope := sxy / sxx
	y := make([]float64, len(x))
	for i, v := range x {
		y[i] = v - (my + slope*(float64(i)-mi))
	}
	return y
}

// Smooth is a moving average over n+1 samples.
func Smooth(x []float64, n int) []float64 {
	b := make([]float64, n+1)
	for i := range b {
		b[i] = 1 / float64(n+1)
	}
	return LFilter(b, []float64{1}, x)
}

// Gradient uses central differences inside and one-sided
// differences at both ends.
func Gradient(x []float64) []float64 {
	y := make([]float64, len(x))
	switch n := len(x); {
	case n < 2:
	default:
		y[0], y[n-1] = x[1]-x[0], x[n-1]-x[n-2]
		for i := 1; i < n-1; i++ {
			y[i] = (x[i+1] - x[i-1]) / 2
		}
	}
	return y
}

// Lowpass3 designs a 3rd order Butterworth low-pass filter, cutoff
// is normalized to the Nyquist frequency (0, 1).
func Lowpass3(cutoff float64) (b, a []float64) {
	k := math.Tan(math.Pi * cutoff / 2)
	// first order section for the real pole, second order for the
	// conjugate pair, both through the bilinear transform.
	b1 := []float64{k / (1 + k), k / (1 + k)}
	a1 := []float64{1, (k - 1) / (1 + k)}
	d := 1 + k + k*k
	b2 := []float64{k * k / d, 2 * k * k / d, k * k / d}
	a2 := []float64{1, (2*k*k - 2) / d, (1 - k + k*k) / d}
	return convolve(b1, b2), convolve(a1, a2)
}

func convolve(p, q []float64) []float64 {
	r := make([]float64, len(p)+len(q)-1)
	for i, pv := range p {
		for j, qv := range q {
			r[i+j] += pv * qv
		}
	}
	return r
}
