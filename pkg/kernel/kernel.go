// Package kernel defines the geometry kernel interface that evaluates a
// design graph into solids and meshes. The bspk kernel evaluates brushes
// exactly with BSP trees; the sdfx kernel evaluates signed distance fields
// and serves as a reference.
package kernel

// Solid is an opaque handle to a kernel solid.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Kernel is the geometry kernel interface.
type Kernel interface {
	// Box returns a box with its minimum corner at the origin.
	Box(x, y, z float64) Solid

	Union(a, b Solid) Solid
	Difference(a, b Solid) Solid
	Intersection(a, b Solid) Solid

	Translate(s Solid, x, y, z float64) Solid
	Rotate(s Solid, x, y, z float64) Solid // Euler angles in degrees, applied X then Y then Z

	ToMesh(s Solid) (*Mesh, error)
}

// Hollower is implemented by kernels that can replace a solid by walls of a
// given thickness. Positive thickness grows walls inward, negative outward.
type Hollower interface {
	Hollow(s Solid, thickness float64) (Solid, error)
}

// Texturer is implemented by kernels whose solids carry surface textures.
type Texturer interface {
	Texture(s Solid, name string) Solid
}
