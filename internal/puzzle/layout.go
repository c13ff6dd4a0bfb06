package puzzle

import (
	"github.com/bebora/grubix/internal/geom"
	"github.com/bebora/grubix/pkg/types"
)

// NumPieces is the number of visible pieces; the hidden core is not modeled.
const NumPieces = 26

// slotCenters holds the home center of each slot, top layer first, then the
// middle ring, then the bottom layer, each back to front and left to right.
var slotCenters = [NumPieces]geom.Vec3{
	{X: -2, Y: 2, Z: -2}, {X: 0, Y: 2, Z: -2}, {X: 2, Y: 2, Z: -2},
	{X: -2, Y: 2, Z: 0}, {X: 0, Y: 2, Z: 0}, {X: 2, Y: 2, Z: 0},
	{X: -2, Y: 2, Z: 2}, {X: 0, Y: 2, Z: 2}, {X: 2, Y: 2, Z: 2},

	{X: -2, Y: 0, Z: -2}, {X: 0, Y: 0, Z: -2}, {X: 2, Y: 0, Z: -2},
	{X: -2, Y: 0, Z: 0}, {X: 2, Y: 0, Z: 0},
	{X: -2, Y: 0, Z: 2}, {X: 0, Y: 0, Z: 2}, {X: 2, Y: 0, Z: 2},

	{X: -2, Y: -2, Z: -2}, {X: 0, Y: -2, Z: -2}, {X: 2, Y: -2, Z: -2},
	{X: -2, Y: -2, Z: 0}, {X: 0, Y: -2, Z: 0}, {X: 2, Y: -2, Z: 0},
	{X: -2, Y: -2, Z: 2}, {X: 0, Y: -2, Z: 2}, {X: 2, Y: -2, Z: 2},
}

// faceSlots lists member slots per face. For outer faces indices 0..7 walk the
// ring and index 8 is the center; slices have only the ring. Walking the ring
// forward follows the direction of a positive turn.
var faceSlots = map[types.Face][]int{
	types.FaceU: {0, 1, 2, 5, 8, 7, 6, 3, 4},
	types.FaceD: {23, 24, 25, 22, 19, 18, 17, 20, 21},
	types.FaceL: {0, 3, 6, 14, 23, 20, 17, 9, 12},
	types.FaceR: {8, 5, 2, 11, 19, 22, 25, 16, 13},
	types.FaceF: {6, 7, 8, 16, 25, 24, 23, 14, 15},
	types.FaceB: {2, 1, 0, 9, 17, 18, 19, 11, 10},
	types.FaceM: {1, 4, 7, 15, 24, 21, 18, 10},
	types.FaceE: {14, 15, 16, 13, 11, 10, 9, 12},
	types.FaceS: {3, 4, 5, 13, 22, 21, 20, 12},
}

// SlotCenter returns the home center of slot id.
func SlotCenter(id int) geom.Vec3 {
	return slotCenters[id]
}

// DefaultBounds returns unit-cube bounds (side 2) around every slot center.
func DefaultBounds() [NumPieces]Box {
	var out [NumPieces]Box
	for i, c := range slotCenters {
		out[i] = Box{Min: c.Sub(geom.Vec3{X: 1, Y: 1, Z: 1}), Max: c.Add(geom.Vec3{X: 1, Y: 1, Z: 1})}
	}
	return out
}
