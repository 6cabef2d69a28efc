package graph

import (
	"fmt"
	"math"
)

// ---------------------------------------------------------------------------
// Geometric validation (errors + warnings)
// ---------------------------------------------------------------------------

// hollowEpsilon is the smallest wall thickness the CSG layer accepts.
const hollowEpsilon = 1e-4

// validateGeometry runs the geometric checks and returns blocking errors and
// advisory warnings separately.
func validateGeometry(g *DesignGraph) ([]ValidationError, []ValidationWarning) {
	var errs []ValidationError
	var warnings []ValidationWarning

	errs = append(errs, validatePositiveSizes(g)...)
	errs = append(errs, validateFiniteTransforms(g)...)
	errs = append(errs, validateHollowThickness(g)...)
	warnings = append(warnings, validateSubtractOperands(g)...)
	warnings = append(warnings, validateThickWalls(g)...)
	return errs, warnings
}

// validatePositiveSizes checks that every brush has positive X, Y, Z.
func validatePositiveSizes(g *DesignGraph) []ValidationError {
	var errs []ValidationError
	for _, node := range g.Nodes {
		bd, ok := node.Data.(BrushData)
		if !ok {
			continue
		}
		for _, axis := range []struct {
			name string
			v    float64
		}{{"X", bd.Size.X}, {"Y", bd.Size.Y}, {"Z", bd.Size.Z}} {
			if !(axis.v > 0) {
				errs = append(errs, ValidationError{
					NodeID:   node.ID,
					Message:  fmt.Sprintf("brush size %s is %.4f, must be positive", axis.name, axis.v),
					Severity: SeverityError,
				})
			}
		}
	}
	return errs
}

func finite(v *Vec3) bool {
	if v == nil {
		return true
	}
	for _, c := range []float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// validateFiniteTransforms rejects NaN or infinite placements.
func validateFiniteTransforms(g *DesignGraph) []ValidationError {
	var errs []ValidationError
	for _, node := range g.Nodes {
		td, ok := node.Data.(TransformData)
		if !ok {
			continue
		}
		if !finite(td.Translation) || !finite(td.Rotation) {
			errs = append(errs, ValidationError{
				NodeID:   node.ID,
				Message:  "transform is not finite",
				Severity: SeverityError,
			})
		}
	}
	return errs
}

// validateHollowThickness rejects walls too thin to build.
func validateHollowThickness(g *DesignGraph) []ValidationError {
	var errs []ValidationError
	for _, node := range g.Nodes {
		hd, ok := node.Data.(HollowData)
		if !ok {
			continue
		}
		if math.Abs(hd.Thickness) < hollowEpsilon || math.IsNaN(hd.Thickness) {
			errs = append(errs, ValidationError{
				NodeID:   node.ID,
				Message:  fmt.Sprintf("hollow thickness %g is zero", hd.Thickness),
				Severity: SeverityError,
			})
		}
	}
	return errs
}

// validateSubtractOperands warns about subtractions with nothing to
// subtract.
func validateSubtractOperands(g *DesignGraph) []ValidationWarning {
	var warnings []ValidationWarning
	for _, node := range g.Nodes {
		cd, ok := node.Data.(CSGData)
		if !ok || cd.Op != OpSubtract || len(node.Children) != 1 {
			continue
		}
		warnings = append(warnings, ValidationWarning{
			NodeID:  node.ID,
			Message: "subtract has a single operand and leaves it unchanged",
		})
	}
	return warnings
}

// validateThickWalls warns when inward walls of a brush would meet in the
// middle. Only brushes hollowed directly are checked.
func validateThickWalls(g *DesignGraph) []ValidationWarning {
	var warnings []ValidationWarning
	for _, node := range g.Nodes {
		hd, ok := node.Data.(HollowData)
		if !ok || hd.Thickness <= 0 || len(node.Children) != 1 {
			continue
		}
		child := g.Nodes[node.Children[0]]
		if child == nil {
			continue
		}
		bd, ok := child.Data.(BrushData)
		if !ok {
			continue
		}
		smallest := math.Min(bd.Size.X, math.Min(bd.Size.Y, bd.Size.Z))
		if 2*hd.Thickness >= smallest {
			warnings = append(warnings, ValidationWarning{
				NodeID:  node.ID,
				Message: fmt.Sprintf("hollow thickness %g leaves no cavity in %q (smallest size %g)", hd.Thickness, child.Label(), smallest),
			})
		}
	}
	return warnings
}
