package render

import "image/color"

// fillBinaryRGBA converts binary cell data (0/1) into RGBA pixels in buf.
func fillBinaryRGBA(buf []byte, cells []uint8, on, off color.Color) {
	rOn, gOn, bOn, aOn := on.RGBA()
	rOff, gOff, bOff, aOff := off.RGBA()
	for i, c := range cells {
		base := i * 4
		if c != 0 {
			buf[base+0] = uint8(rOn >> 8)
			buf[base+1] = uint8(gOn >> 8)
			buf[base+2] = uint8(bOn >> 8)
			buf[base+3] = uint8(aOn >> 8)
			continue
		}
		buf[base+0] = uint8(rOff >> 8)
		buf[base+1] = uint8(gOff >> 8)
		buf[base+2] = uint8(bOff >> 8)
		buf[base+3] = uint8(aOff >> 8)
	}
}

// fillArrivalRGBA colours each occupied cell by when it froze. order holds
// the 1-based arrival ordinal per cell (0 = empty) and last the largest one.
func fillArrivalRGBA(buf []byte, order []int32, last int32, palette []color.RGBA, off color.Color) {
	rOff, gOff, bOff, aOff := off.RGBA()
	top := len(palette) - 1
	for i, o := range order {
		base := i * 4
		if o == 0 || top < 0 {
			buf[base+0] = uint8(rOff >> 8)
			buf[base+1] = uint8(gOff >> 8)
			buf[base+2] = uint8(bOff >> 8)
			buf[base+3] = uint8(aOff >> 8)
			continue
		}
		idx := 0
		if last > 1 {
			idx = int(int64(o-1) * int64(top) / int64(last-1))
		}
		col := palette[idx]
		buf[base+0] = col.R
		buf[base+1] = col.G
		buf[base+2] = col.B
		buf[base+3] = col.A
	}
}
