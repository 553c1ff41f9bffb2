package utils

import (
	"math"
)

// DegToRad converts degrees to radians.
func DegToRad(degrees float64) float64 {
	return degrees * math.Pi / 180
}

// RadToDeg converts radians to degrees.
func RadToDeg(radians float64) float64 {
	return radians * 180 / math.Pi
}

// DegreesToRadians converts every element of a degree slice into a new radian slice.
func DegreesToRadians(degrees []float64) []float64 {
	rad := make([]float64, len(degrees))
	for i, d := range degrees {
		rad[i] = DegToRad(d)
	}
	return rad
}

// RadiansToDegrees converts every element of a radian slice into a new degree slice.
func RadiansToDegrees(radians []float64) []float64 {
	deg := make([]float64, len(radians))
	for i, r := range radians {
		deg[i] = RadToDeg(r)
	}
	return deg
}

// Square returns n*n. Math.pow( x, 2 ) is slow, this is faster.
func Square(n float64) float64 {
	return n * n
}

// Clamp limits v to the closed interval [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// Float64AlmostEqual compares two float64s and returns if the difference between them is less than epsilon.
func Float64AlmostEqual(a, b, epsilon float64) bool {
	return math.Abs(a-b) < epsilon
}

// RoundTo rounds v half away from zero to the given number of decimals.
func RoundTo(v float64, decimals int) float64 {
	scale := math.Pow(10, float64(decimals))
	return math.Round(v*scale) / scale
}

// IsFinite reports whether v is neither NaN nor infinite.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
