package graph

import "fmt"

// Vec3 is a 3-component vector in script units.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Scale returns v * s.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

func (v Vec3) String() string {
	return fmt.Sprintf("(%g %g %g)", v.X, v.Y, v.Z)
}

// ---------------------------------------------------------------------------
// Brush
// ---------------------------------------------------------------------------

// BrushData is an axis-aligned box brush with its minimum corner at the
// origin.
type BrushData struct {
	Size    Vec3   `json:"size"`
	Texture string `json:"texture,omitempty"`
}

func (BrushData) nodeData() {}

// ---------------------------------------------------------------------------
// Transform
// ---------------------------------------------------------------------------

// TransformData places its single child. Rotation is applied before
// translation, in degrees about X then Y then Z.
type TransformData struct {
	Translation *Vec3 `json:"translation,omitempty"`
	Rotation    *Vec3 `json:"rotation,omitempty"`
}

func (TransformData) nodeData() {}

// ---------------------------------------------------------------------------
// CSG
// ---------------------------------------------------------------------------

// CSGOp is a boolean operation over the ordered children of a NodeCSG.
type CSGOp int

const (
	OpUnion     CSGOp = iota // all children
	OpIntersect              // common to all children
	OpSubtract               // first child minus the rest
)

func (op CSGOp) String() string {
	switch op {
	case OpUnion:
		return "union"
	case OpIntersect:
		return "intersect"
	case OpSubtract:
		return "subtract"
	default:
		return fmt.Sprintf("CSGOp(%d)", int(op))
	}
}

// CSGData is the payload of a NodeCSG.
type CSGData struct {
	Op CSGOp `json:"op"`
}

func (CSGData) nodeData() {}

// ---------------------------------------------------------------------------
// Hollow
// ---------------------------------------------------------------------------

// HollowData replaces its single child by walls. Positive thickness grows
// the walls inward, negative outward.
type HollowData struct {
	Thickness float64 `json:"thickness"`
}

func (HollowData) nodeData() {}

// ---------------------------------------------------------------------------
// Group
// ---------------------------------------------------------------------------

// GroupData is the payload of a root assembly. Each child tessellates to
// its own mesh.
type GroupData struct {
	Description string `json:"description,omitempty"`
}

func (GroupData) nodeData() {}
