// Package geom holds the numeric primitives the BSP and CSG layers are built
// on: planes, convex polygons, and the epsilon-tolerant classification and
// splitting of polygons against planes.
package geom
