package decode

import (
	"image"
	"image/color"
	"image/draw"
)

// luma is Rec. 601 luma in 8.8 fixed point.
func luma(r, g, b uint8) uint8 {
	return uint8((uint32(r)*77 + uint32(g)*150 + uint32(b)*29) >> 8)
}

// toChannels flattens src onto a width x height canvas anchored at the
// origin and packs it with the requested channel count.
//
// Source pixels are first brought to non-premultiplied 8-bit RGBA. Images
// whose bounds do not cover the canvas exactly (a GIF frame smaller than
// its logical screen) are drawn at their own offset over transparent black.
func toChannels(src image.Image, width, height, channels int) []byte {
	canvas := image.Rect(0, 0, width, height)
	out := make([]byte, width*height*channels)

	if src.Bounds() == canvas {
		switch m := src.(type) {
		case *image.Gray:
			packGray(out, m, channels)
			return out
		case *image.NRGBA:
			packNRGBA(out, m.Pix, m.Stride, width, height, channels)
			return out
		case *image.Paletted:
			packPaletted(out, m, channels)
			return out
		}
	}

	dst := image.NewNRGBA(canvas)
	r := src.Bounds().Intersect(canvas)
	if !r.Empty() {
		draw.Draw(dst, r, src, r.Min, draw.Src)
	}
	packNRGBA(out, dst.Pix, dst.Stride, width, height, channels)
	return out
}

func packGray(out []byte, m *image.Gray, channels int) {
	w, h := m.Rect.Dx(), m.Rect.Dy()
	o := 0
	for y := 0; y < h; y++ {
		row := m.Pix[y*m.Stride : y*m.Stride+w]
		if channels == 1 {
			copy(out[o:], row)
			o += w
			continue
		}
		for _, v := range row {
			switch channels {
			case 2:
				out[o], out[o+1] = v, 0xff
			case 3:
				out[o], out[o+1], out[o+2] = v, v, v
			case 4:
				out[o], out[o+1], out[o+2], out[o+3] = v, v, v, 0xff
			}
			o += channels
		}
	}
}

func packNRGBA(out, pix []byte, stride, w, h, channels int) {
	o := 0
	for y := 0; y < h; y++ {
		row := pix[y*stride : y*stride+w*4]
		if channels == 4 {
			copy(out[o:], row)
			o += w * 4
			continue
		}
		for i := 0; i < len(row); i += 4 {
			r, g, b, a := row[i], row[i+1], row[i+2], row[i+3]
			switch channels {
			case 1:
				out[o] = luma(r, g, b)
			case 2:
				out[o], out[o+1] = luma(r, g, b), a
			case 3:
				out[o], out[o+1], out[o+2] = r, g, b
			}
			o += channels
		}
	}
}

func packPaletted(out []byte, m *image.Paletted, channels int) {
	// Indices beyond the palette read as transparent black.
	var lut [256][4]uint8
	for i, c := range m.Palette {
		if i >= len(lut) {
			break
		}
		n := color.NRGBAModel.Convert(c).(color.NRGBA)
		lut[i] = [4]uint8{n.R, n.G, n.B, n.A}
	}

	w, h := m.Rect.Dx(), m.Rect.Dy()
	o := 0
	for y := 0; y < h; y++ {
		row := m.Pix[y*m.Stride : y*m.Stride+w]
		for _, idx := range row {
			p := lut[idx]
			switch channels {
			case 1:
				out[o] = luma(p[0], p[1], p[2])
			case 2:
				out[o], out[o+1] = luma(p[0], p[1], p[2]), p[3]
			case 3:
				out[o], out[o+1], out[o+2] = p[0], p[1], p[2]
			case 4:
				out[o], out[o+1], out[o+2], out[o+3] = p[0], p[1], p[2], p[3]
			}
			o += channels
		}
	}
}
