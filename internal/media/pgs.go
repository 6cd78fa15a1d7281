package media

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"time"
)

// PGS (.sup) segment types.
const (
	segPDS = 0x14 // palette definition
	segODS = 0x15 // object definition (RLE bitmap)
	segPCS = 0x16 // presentation composition (starts a display set)
	segWDS = 0x17 // window definition
	segEND = 0x80 // end of display set
)

// pgsClockHz is the 90 kHz presentation clock used for PTS values.
const pgsClockHz = 90000

// SubtitleImage is one rendered subtitle bitmap with its presentation
// timestamp.
type SubtitleImage struct {
	PTS   time.Duration
	Image image.Image
}

// DecodePGS reads a PGS subtitle stream and renders every display set
// that carries a bitmap. Display sets that fail to decode are skipped;
// a malformed stream header is an error.
func DecodePGS(r io.Reader) ([]SubtitleImage, error) {
	var (
		images  []SubtitleImage
		palette [256]color.NRGBA
		obj     *odsObject
		pts     time.Duration
	)

	for {
		header := make([]byte, 13)
		if _, err := io.ReadFull(r, header); err != nil {
			if errors.Is(err, io.EOF) {
				return images, nil
			}
			return images, fmt.Errorf("read segment header: %w", err)
		}
		if header[0] != 'P' || header[1] != 'G' {
			return images, errors.New("bad PGS segment magic")
		}

		segType := header[10]
		size := int(binary.BigEndian.Uint16(header[11:13]))
		payload := make([]byte, size)
		if _, err := io.ReadFull(r, payload); err != nil {
			return images, fmt.Errorf("read segment payload: %w", err)
		}

		switch segType {
		case segPCS:
			ticks := binary.BigEndian.Uint32(header[2:6])
			pts = time.Duration(ticks) * time.Second / pgsClockHz
			obj = nil
		case segPDS:
			decodePalette(payload, &palette)
		case segODS:
			obj = appendObject(obj, payload)
		case segWDS:
			// Window placement is irrelevant for OCR.
		case segEND:
			if obj != nil && obj.complete() {
				if img := obj.render(&palette); img != nil {
					images = append(images, SubtitleImage{PTS: pts, Image: img})
				}
			}
			obj = nil
		}
	}
}

// odsObject accumulates a possibly fragmented object definition.
type odsObject struct {
	width, height int
	dataLen       int
	rle           []byte
}

func (o *odsObject) complete() bool {
	return o.width > 0 && o.height > 0 && len(o.rle) >= o.dataLen-4
}

// appendObject consumes one ODS payload. The first fragment carries the
// total data length and the bitmap dimensions; continuations carry raw
// RLE bytes only.
func appendObject(obj *odsObject, payload []byte) *odsObject {
	if len(payload) < 4 {
		return obj
	}
	seq := payload[3]

	if seq&0x80 != 0 { // first-in-sequence
		if len(payload) < 11 {
			return obj
		}
		return &odsObject{
			dataLen: int(payload[4])<<16 | int(payload[5])<<8 | int(payload[6]),
			width:   int(binary.BigEndian.Uint16(payload[7:9])),
			height:  int(binary.BigEndian.Uint16(payload[9:11])),
			rle:     append([]byte(nil), payload[11:]...),
		}
	}
	if obj != nil {
		obj.rle = append(obj.rle, payload[4:]...)
	}
	return obj
}

// decodePalette fills palette entries from a PDS payload, converting
// YCrCb to RGB.
func decodePalette(payload []byte, palette *[256]color.NRGBA) {
	// Skip palette id and version.
	for i := 2; i+5 <= len(payload); i += 5 {
		id := payload[i]
		y := float64(payload[i+1]) - 16
		cr := float64(payload[i+2]) - 128
		cb := float64(payload[i+3]) - 128
		a := payload[i+4]

		palette[id] = color.NRGBA{
			R: clampByte(1.164*y + 1.596*cr),
			G: clampByte(1.164*y - 0.392*cb - 0.813*cr),
			B: clampByte(1.164*y + 2.017*cb),
			A: a,
		}
	}
}

func clampByte(v float64) uint8 {
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	default:
		return uint8(v)
	}
}

// render decodes the object's RLE bitmap against the palette, composed
// onto an opaque black background for OCR.
func (o *odsObject) render(palette *[256]color.NRGBA) image.Image {
	pixels, err := decodeRLE(o.rle, o.width, o.height)
	if err != nil {
		return nil
	}

	img := image.NewNRGBA(image.Rect(0, 0, o.width, o.height))
	for yPos := 0; yPos < o.height; yPos++ {
		for xPos := 0; xPos < o.width; xPos++ {
			c := palette[pixels[yPos*o.width+xPos]]
			img.SetNRGBA(xPos, yPos, color.NRGBA{
				R: uint8(int(c.R) * int(c.A) / 255),
				G: uint8(int(c.G) * int(c.A) / 255),
				B: uint8(int(c.B) * int(c.A) / 255),
				A: 255,
			})
		}
	}
	return img
}

// decodeRLE expands PGS run-length encoding into one palette index per
// pixel, row by row.
func decodeRLE(data []byte, width, height int) ([]byte, error) {
	pixels := make([]byte, width*height)
	x, y := 0, 0
	i := 0

	for i < len(data) && y < height {
		b := data[i]
		i++

		var runColor byte
		var runLen int

		if b != 0 {
			runColor, runLen = b, 1
		} else {
			if i >= len(data) {
				return nil, io.ErrUnexpectedEOF
			}
			flags := data[i]
			i++

			switch {
			case flags == 0: // end of line
				x, y = 0, y+1
				continue
			case flags&0xC0 == 0x00:
				runColor, runLen = 0, int(flags)
			case flags&0xC0 == 0x40:
				if i >= len(data) {
					return nil, io.ErrUnexpectedEOF
				}
				runLen = int(flags&0x3F)<<8 | int(data[i])
				i++
			case flags&0xC0 == 0x80:
				if i >= len(data) {
					return nil, io.ErrUnexpectedEOF
				}
				runColor, runLen = data[i], int(flags&0x3F)
				i++
			default: // 0xC0
				if i+1 >= len(data) {
					return nil, io.ErrUnexpectedEOF
				}
				runLen = int(flags&0x3F)<<8 | int(data[i])
				runColor = data[i+1]
				i += 2
			}
		}

		for ; runLen > 0 && x < width; runLen-- {
			pixels[y*width+x] = runColor
			x++
		}
	}

	return pixels, nil
}
