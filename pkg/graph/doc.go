// Package graph defines the design graph types for brushwork.
// The design graph is an immutable DAG of brushes, transforms, CSG
// operations, hollows and groups produced by evaluating a script.
package graph
