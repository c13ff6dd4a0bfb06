package smartcube

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/bebora/grubix/pkg/types"
)

// faceByColor maps the cube's color index to a face, held white up and
// green front.
var faceByColor = [6]types.Face{
	types.FaceB, // blue
	types.FaceF, // green
	types.FaceU, // white
	types.FaceD, // yellow
	types.FaceR, // red
	types.FaceL, // orange
}

// DecodeRotations turns a rotation payload into moves. The payload holds
// pairs of (face code, center orientation); even codes are clockwise.
// Consecutive turns of the same face are merged.
func DecodeRotations(payload []byte, timestampMs int64) ([]types.Move, error) {
	if len(payload)%2 != 0 {
		return nil, fmt.Errorf("rotation payload must have even length, got %d", len(payload))
	}

	moves := make([]types.Move, 0, len(payload)/2)
	for i := 0; i < len(payload); i += 2 {
		code := payload[i]
		color := int(code / 2)
		if color >= len(faceByColor) {
			return nil, fmt.Errorf("unknown face code 0x%02X", code)
		}
		turn := types.TurnCW
		if code%2 == 1 {
			turn = types.TurnCCW
		}
		moves = append(moves, types.Move{Face: faceByColor[color], Turn: turn, Timestamp: timestampMs})
	}
	return types.MergeMoves(moves), nil
}

// DecodeBattery returns the battery level in percent.
func DecodeBattery(payload []byte) (int, error) {
	if len(payload) < 1 {
		return 0, fmt.Errorf("battery payload too short")
	}
	return int(payload[0]), nil
}

// Orientation is the cube's physical pose, snapped to faces.
type Orientation struct {
	Up    types.Face
	Front types.Face
}

// DecodeOrientation parses the "x#y#z#w" quaternion payload and snaps it to
// the faces pointing up and towards the player.
func DecodeOrientation(payload []byte) (Orientation, error) {
	parts := strings.Split(strings.TrimSpace(string(payload)), "#")
	if len(parts) != 4 {
		return Orientation{}, fmt.Errorf("orientation payload must have 4 parts, got %d", len(parts))
	}

	var q [4]float64
	for i, p := range parts {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return Orientation{}, fmt.Errorf("invalid quaternion component %d: %w", i, err)
		}
		q[i] = v
	}
	x, y, z, w := q[0], q[1], q[2], q[3]
	if mag := math.Sqrt(x*x + y*y + z*z + w*w); mag > 0 {
		x, y, z, w = x/mag, y/mag, z/mag, w/mag
	}

	up := [3]float64{2 * (x*y - w*z), 1 - 2*(x*x+z*z), 2 * (y*z + w*x)}
	front := [3]float64{2 * (x*z + w*y), 2 * (y*z - w*x), 1 - 2*(x*x+y*y)}
	return Orientation{Up: nearestFace(up), Front: nearestFace(front)}, nil
}

// nearestFace returns the outer face whose normal is closest to v.
func nearestFace(v [3]float64) types.Face {
	best, bestDot := types.FaceU, math.Inf(-1)
	for _, f := range types.OuterFaces {
		spec, _ := f.Spec()
		d := v[spec.Axis] * math.Copysign(1, spec.Plane)
		if d > bestDot {
			best, bestDot = f, d
		}
	}
	return best
}
