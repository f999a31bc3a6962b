package proto

import "encoding/binary"

// PointerPayload encodes a MsgPointer payload.
//
// Payload format (little-endian):
//
//	u16 x
//	u16 y
//	u8  press (0/1)
//
// Coordinates are framebuffer pixels; negative values clamp to 0.
func PointerPayload(x, y int, press bool) []byte {
	b := make([]byte, 5)
	binary.LittleEndian.PutUint16(b[0:2], clampU16(x))
	binary.LittleEndian.PutUint16(b[2:4], clampU16(y))
	if press {
		b[4] = 1
	}
	return b
}

func DecodePointerPayload(b []byte) (x, y int, press bool, ok bool) {
	if len(b) != 5 {
		return 0, 0, false, false
	}
	x = int(binary.LittleEndian.Uint16(b[0:2]))
	y = int(binary.LittleEndian.Uint16(b[2:4]))
	return x, y, b[4] != 0, true
}

func clampU16(v int) uint16 {
	if v < 0 {
		return 0
	}
	if v > 0xFFFF {
		return 0xFFFF
	}
	return uint16(v)
}
