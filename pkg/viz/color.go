package viz

import (
	"fmt"
	"hash/fnv"
	"math"
)

// Fixed class colors, shared with the frontend palette.
const (
	planarColor = "#4A90D9"
	bendColor   = "#E67E22"
)

// hashColor derives a stable hue from a face id, used when no
// classification metadata exists for the face. The same id always
// produces the same color regardless of traversal order.
func hashColor(faceID int) string {
	h := fnv.New32a()
	var buf [8]byte
	v := uint64(int64(faceID))
	for i := range buf {
		buf[i] = byte(v >> (8 * i))
	}
	h.Write(buf[:])
	hue := float64(h.Sum32()%360) / 360
	r, g, b := hsvToRGB(hue, 0.55, 0.85)
	return fmt.Sprintf("#%02X%02X%02X", r, g, b)
}

// hsvToRGB converts h,s,v in [0,1] to 8-bit RGB.
func hsvToRGB(h, s, v float64) (uint8, uint8, uint8) {
	i := math.Floor(h * 6)
	f := h*6 - i
	p := v * (1 - s)
	q := v * (1 - f*s)
	t := v * (1 - (1-f)*s)

	var r, g, b float64
	switch int(i) % 6 {
	case 0:
		r, g, b = v, t, p
	case 1:
		r, g, b = q, v, p
	case 2:
		r, g, b = p, v, t
	case 3:
		r, g, b = p, q, v
	case 4:
		r, g, b = t, p, v
	default:
		r, g, b = v, p, q
	}
	return uint8(r * 255), uint8(g * 255), uint8(b * 255)
}
