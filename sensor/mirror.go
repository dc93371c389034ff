package sensor

// MirrorRows flips every row of a row-major image in place.
//
// Parameters:
//   - pix: the image, length width*height
//   - width: the row length in pixels
func MirrorRows[T any](pix []T, width int) {
	if width <= 1 {
		return
	}
	for row := 0; row+width <= len(pix); row += width {
		r := pix[row : row+width]
		for i, j := 0, width-1; i < j; i, j = i+1, j-1 {
			r[i], r[j] = r[j], r[i]
		}
	}
}
