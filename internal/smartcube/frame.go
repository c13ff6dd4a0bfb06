// Package smartcube connects a GoCube smart cube to the engine.
//
// The cube talks over a Nordic UART style BLE service. Every notification is
// a frame:
//
//	'*' len type payload... checksum '\r' '\n'
//
// where len counts the bytes after itself and checksum is the byte sum of
// everything before it.
package smartcube

import (
	"errors"
	"fmt"
)

// GoCube BLE service and characteristic UUIDs.
const (
	ServiceUUID = "6e400001-b5a3-f393-e0a9-e50e24dcca9e"
	TxCharUUID  = "6e400003-b5a3-f393-e0a9-e50e24dcca9e" // notify
	RxCharUUID  = "6e400002-b5a3-f393-e0a9-e50e24dcca9e" // write
)

// Frame types sent by the cube.
const (
	TypeRotation    byte = 0x01
	TypeState       byte = 0x02
	TypeOrientation byte = 0x03
	TypeBattery     byte = 0x05
	TypeCubeType    byte = 0x08
)

// Commands accepted by the cube.
const (
	CmdRequestBattery     byte = 0x32
	CmdRequestState       byte = 0x33
	CmdResetSolved        byte = 0x35
	CmdDisableOrientation byte = 0x37
	CmdEnableOrientation  byte = 0x38
	CmdFlashBacklight     byte = 0x41
)

const (
	framePrefix byte = '*'
	frameCR     byte = '\r'
	frameLF     byte = '\n'
	minFrame         = 6
)

var (
	ErrShortFrame = errors.New("smartcube: frame too short")
	ErrBadPrefix  = errors.New("smartcube: bad frame prefix")
	ErrBadSuffix  = errors.New("smartcube: bad frame suffix")
	ErrBadLength  = errors.New("smartcube: bad frame length")
	ErrChecksum   = errors.New("smartcube: checksum mismatch")
)

// Frame is one decoded notification.
type Frame struct {
	Type    byte
	Payload []byte
}

// TypeName returns a readable name for the frame type.
func (f Frame) TypeName() string {
	switch f.Type {
	case TypeRotation:
		return "rotation"
	case TypeState:
		return "state"
	case TypeOrientation:
		return "orientation"
	case TypeBattery:
		return "battery"
	case TypeCubeType:
		return "cube_type"
	default:
		return fmt.Sprintf("unknown_0x%02X", f.Type)
	}
}

// ParseFrame validates and decodes a raw notification. Trailing bytes after
// the frame are ignored.
func ParseFrame(data []byte) (Frame, error) {
	if len(data) < minFrame {
		return Frame{}, ErrShortFrame
	}
	if data[0] != framePrefix {
		return Frame{}, ErrBadPrefix
	}

	end := 2 + int(data[1])
	if end > len(data) || end < minFrame {
		return Frame{}, fmt.Errorf("%w: length byte %d for %d bytes", ErrBadLength, data[1], len(data))
	}
	if data[end-2] != frameCR || data[end-1] != frameLF {
		return Frame{}, ErrBadSuffix
	}

	sumAt := end - 3
	if got := checksum(data[:sumAt]); got != data[sumAt] {
		return Frame{}, fmt.Errorf("%w: frame says 0x%02X, computed 0x%02X", ErrChecksum, data[sumAt], got)
	}

	return Frame{
		Type:    data[2],
		Payload: append([]byte(nil), data[3:sumAt]...),
	}, nil
}

// EncodeFrame builds a frame around typ and payload.
func EncodeFrame(typ byte, payload []byte) []byte {
	out := make([]byte, 0, len(payload)+6)
	out = append(out, framePrefix, byte(len(payload)+4), typ)
	out = append(out, payload...)
	out = append(out, checksum(out), frameCR, frameLF)
	return out
}

// EncodeCommand builds a command for the cube. Commands carry a length byte
// of one regardless of the frame size.
func EncodeCommand(cmd byte) []byte {
	head := []byte{framePrefix, 0x01, cmd}
	return append(head, checksum(head), frameCR, frameLF)
}

func checksum(b []byte) byte {
	var sum byte
	for _, v := range b {
		sum += v
	}
	return sum
}
