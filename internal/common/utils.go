package common

import "math"

// Round2 rounds v to 2 decimal places. Temperatures are fixed to 2 fractional
// digits at write time, so every value that reaches a store goes through here.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
