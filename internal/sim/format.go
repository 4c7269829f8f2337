package sim

import (
	"strconv"
)

// itoa avoids fmt overhead in the per-frame HUD path.
func itoa(v int) string { return strconv.FormatInt(int64(v), 10) }

// fmt1 renders x with one decimal digit, rounding half away from zero.
func fmt1(x float64) string {
	neg := x < 0
	if neg {
		x = -x
	}
	ip := int(x)
	fp := int((x-float64(ip))*10.0 + 0.5)
	if fp == 10 {
		ip++
		fp = 0
	}
	s := itoa(ip) + "." + itoa(fp)
	if neg {
		return "-" + s
	}
	return s
}
