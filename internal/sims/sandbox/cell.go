package sandbox

import (
	"fmt"
	"io"
)

// Cell is one grid position: a material id plus its temperature in Kelvin.
type Cell struct {
	Type MaterialKind
	Temp uint16
}

// AmbientCell is the environmental layer at one grid position: an ambient
// temperature decoupled from any particle, plus a force vector with
// components in [-1, 1].
type AmbientCell struct {
	Temp   uint16
	FX, FY float32
}

// Persisted cell layout: [type, temp low byte, temp high byte, reserved].
// Level files depend on this exact layout; do not reorder.
const cellBytes = 4

// EncodeTemp packs a temperature into two bytes, low byte first.
func EncodeTemp(t uint16) (lo, hi uint8) {
	return uint8(t), uint8(t >> 8)
}

// DecodeTemp is the inverse of EncodeTemp. Round-trips exactly for every
// value in [0, 65535].
func DecodeTemp(lo, hi uint8) uint16 {
	return uint16(lo) | uint16(hi)<<8
}

// encodeForce packs a force component in [-1, 1] into one byte centered at
// 128. The encoding is lossy (1/127 resolution); out-of-range inputs clamp.
func encodeForce(f float32) uint8 {
	if f > 1 {
		f = 1
	} else if f < -1 {
		f = -1
	}
	return uint8(128 + f*127)
}

// decodeForce is the inverse of encodeForce.
func decodeForce(b uint8) float32 {
	return (float32(b) - 128) / 127
}

// MarshalGrid serializes cells into buf using the persisted 4-byte layout.
// buf must hold len(cells)*4 bytes.
func MarshalGrid(buf []byte, cells []Cell) error {
	if len(buf) < len(cells)*cellBytes {
		return fmt.Errorf("sandbox: snapshot buffer too small: %d < %d", len(buf), len(cells)*cellBytes)
	}
	for i, c := range cells {
		base := i * cellBytes
		lo, hi := EncodeTemp(c.Temp)
		buf[base+0] = uint8(c.Type)
		buf[base+1] = lo
		buf[base+2] = hi
		buf[base+3] = 0
	}
	return nil
}

// UnmarshalGrid deserializes buf into cells. buf must hold exactly
// len(cells)*4 bytes of well-formed snapshot data; the reserved byte is
// ignored.
func UnmarshalGrid(cells []Cell, buf []byte) error {
	if len(buf) != len(cells)*cellBytes {
		return fmt.Errorf("sandbox: snapshot length %d does not match grid of %d cells", len(buf), len(cells))
	}
	for i := range cells {
		base := i * cellBytes
		cells[i] = Cell{
			Type: MaterialKind(buf[base+0]),
			Temp: DecodeTemp(buf[base+1], buf[base+2]),
		}
	}
	return nil
}

// WriteSnapshot streams the current grid generation in the persisted layout.
func (w *World) WriteSnapshot(out io.Writer) error {
	buf := make([]byte, len(w.cellsCurr)*cellBytes)
	if err := MarshalGrid(buf, w.cellsCurr); err != nil {
		return err
	}
	_, err := out.Write(buf)
	return err
}

// ReadSnapshot replaces the current grid generation from the persisted
// layout. The snapshot must match the configured grid dimensions.
func (w *World) ReadSnapshot(in io.Reader) error {
	buf := make([]byte, len(w.cellsCurr)*cellBytes)
	if _, err := io.ReadFull(in, buf); err != nil {
		return err
	}
	if err := UnmarshalGrid(w.cellsCurr, buf); err != nil {
		return err
	}
	copy(w.cellsNext, w.cellsCurr)
	w.rebuildDisplay()
	return nil
}
