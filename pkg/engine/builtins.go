package engine

import (
	"fmt"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/brushwork/pkg/graph"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms brush script source code before passing it to
// zygomys. It performs two transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: wall-north -> wall_north
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator). This converts kebab-case identifiers
//     to underscore form outside of strings and comments.
//
// Both transformations respect string literal boundaries and line comments.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments for zygomys.
		// zygomys uses // for line comments, not the traditional Lisp ;.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			// Skip additional ; characters (;; style).
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			// Check for keyword: colon followed by a letter.
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				kwName := string(b[i+1 : j])
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, []byte(kwName)...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		// Only when hyphen sits between identifier characters (not a minus operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpBox wraps a graph.BrushData returned from `box`. It becomes a node
// when it is named by `defbrush` or used as an operand.
type sexpBox struct {
	data graph.BrushData
}

func (b *sexpBox) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(box %gx%gx%g)", b.data.Size.X, b.data.Size.Y, b.data.Size.Z)
}
func (b *sexpBox) Type() *zygo.RegisteredType { return nil }

// sexpNodeRef wraps a graph.NodeID so it can be passed between builtins.
type sexpNodeRef struct {
	id   graph.NodeID
	name string // human-readable name for error messages
}

func (n *sexpNodeRef) SexpString(ps *zygo.PrintState) string {
	if n.name != "" {
		return fmt.Sprintf("(noderef %q)", n.name)
	}
	return fmt.Sprintf("(noderef %s)", n.id.Short())
}
func (n *sexpNodeRef) Type() *zygo.RegisteredType { return nil }

// sexpVec3 wraps a graph.Vec3.
type sexpVec3 struct {
	vec graph.Vec3
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW reports whether s is a preprocessed keyword string and returns its
// name without the prefix.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				// Trailing keyword acts as a flag.
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toVec3 extracts a Vec3 from a sexpVec3 or a three-element array or list.
func toVec3(s zygo.Sexp) (graph.Vec3, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	items, err := sexpListToSlice(s)
	if err != nil || len(items) != 3 {
		return graph.Vec3{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
	}
	var c [3]float64
	for i, item := range items {
		if c[i], err = toFloat64(item); err != nil {
			return graph.Vec3{}, err
		}
	}
	return graph.Vec3{X: c[0], Y: c[1], Z: c[2]}, nil
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// ---------------------------------------------------------------------------
// Graph construction
// ---------------------------------------------------------------------------

// builder populates a DesignGraph during one evaluation. Anonymous nodes are
// numbered per operation so that the same source always yields the same IDs.
type builder struct {
	g      *graph.DesignGraph
	counts map[string]int
}

func newBuilder(g *graph.DesignGraph) *builder {
	return &builder{g: g, counts: make(map[string]int)}
}

// anonID returns the next ID for an unnamed node created by op.
func (b *builder) anonID(op string) graph.NodeID {
	b.counts[op]++
	return graph.NewNodeID(fmt.Sprintf("%s/%d", op, b.counts[op]))
}

// add inserts n and returns a reference to it.
func (b *builder) add(n *graph.Node) *sexpNodeRef {
	b.g.AddNode(n)
	return &sexpNodeRef{id: n.ID, name: n.Name}
}

// toNodeRef extracts a NodeID from a node reference. A bare box becomes an
// anonymous brush node.
func (b *builder) toNodeRef(s zygo.Sexp) (graph.NodeID, error) {
	switch v := s.(type) {
	case *sexpNodeRef:
		return v.id, nil
	case *sexpBox:
		ref := b.add(&graph.Node{ID: b.anonID("box"), Kind: graph.NodeBrush, Data: v.data})
		return ref.id, nil
	}
	return graph.ZeroID, fmt.Errorf("expected brush or node reference, got %T (%s)", s, s.SexpString(nil))
}

// operands resolves node references, flattening lists and arrays.
func (b *builder) operands(args []zygo.Sexp) ([]graph.NodeID, error) {
	var ids []graph.NodeID
	for i, arg := range args {
		switch arg.(type) {
		case *zygo.SexpPair, *zygo.SexpArray:
			items, err := sexpListToSlice(arg)
			if err != nil {
				return nil, err
			}
			nested, err := b.operands(items)
			if err != nil {
				return nil, err
			}
			ids = append(ids, nested...)
			continue
		}
		id, err := b.toNodeRef(arg)
		if err != nil {
			return nil, fmt.Errorf("operand %d: %w", i+1, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the brush DSL builtins into a zygomys
// environment. The builtins populate g during evaluation.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, g *graph.DesignGraph) {
	b := newBuilder(g)

	// -----------------------------------------------------------------------
	// (vec3 1 2 3)
	// -----------------------------------------------------------------------
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
		}
		var c [3]float64
		for i, axis := range []string{"x", "y", "z"} {
			f, err := toFloat64(args[i])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("vec3: %s: %w", axis, err)
			}
			c[i] = f
		}
		return &sexpVec3{vec: graph.Vec3{X: c[0], Y: c[1], Z: c[2]}}, nil
	})

	// -----------------------------------------------------------------------
	// (box :size (vec3 64 8 96) :texture "brick")
	// -----------------------------------------------------------------------
	env.AddFunction("box", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		bd := graph.BrushData{}

		v, ok := pa.kw["size"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("box requires :size")
		}
		size, err := toVec3(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("box: size: %w", err)
		}
		bd.Size = size

		if v, ok := pa.kw["texture"]; ok {
			s, err := toString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("box: texture: %w", err)
			}
			bd.Texture = s
		}
		return &sexpBox{data: bd}, nil
	})

	// -----------------------------------------------------------------------
	// (defbrush "name" (box ...)) or (defbrush "name" (subtract ...))
	// -----------------------------------------------------------------------
	env.AddFunction("defbrush", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 2 {
			return zygo.SexpNull, fmt.Errorf("defbrush requires a name and a body expression")
		}
		brushName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("defbrush: name: %w", err)
		}
		if g.Lookup(brushName) != nil {
			return zygo.SexpNull, fmt.Errorf("defbrush: %q already defined", brushName)
		}

		switch body := args[1].(type) {
		case *sexpBox:
			return b.add(&graph.Node{
				ID:   graph.NewNodeID("defbrush/" + brushName),
				Kind: graph.NodeBrush,
				Name: brushName,
				Data: body.data,
			}), nil
		case *sexpNodeRef:
			n := g.Get(body.id)
			if n == nil {
				return zygo.SexpNull, fmt.Errorf("defbrush: dangling reference %s", body.id.Short())
			}
			if n.Name != "" {
				return zygo.SexpNull, fmt.Errorf("defbrush: %q is already named %q", brushName, n.Name)
			}
			n.Name = brushName
			g.NameIndex[brushName] = n.ID
			return &sexpNodeRef{id: n.ID, name: brushName}, nil
		}
		return zygo.SexpNull, fmt.Errorf("defbrush: expected box or brush expression, got %T", args[1])
	})

	// -----------------------------------------------------------------------
	// (brush "name")
	// -----------------------------------------------------------------------
	env.AddFunction("brush", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 1 {
			return zygo.SexpNull, fmt.Errorf("brush requires a name argument")
		}
		brushName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("brush: name: %w", err)
		}
		n := g.Lookup(brushName)
		if n == nil {
			return zygo.SexpNull, fmt.Errorf("brush: no brush named %q", brushName)
		}
		return &sexpNodeRef{id: n.ID, name: brushName}, nil
	})

	// -----------------------------------------------------------------------
	// (place (brush "door") :at (vec3 24 -1 0) :rotate (vec3 0 0 90))
	// -----------------------------------------------------------------------
	env.AddFunction("place", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 1 {
			return zygo.SexpNull, fmt.Errorf("place requires a brush reference as first argument")
		}
		childID, err := b.toNodeRef(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("place: %w", err)
		}

		td := graph.TransformData{}
		if v, ok := pa.kw["at"]; ok {
			vec, err := toVec3(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("place: at: %w", err)
			}
			td.Translation = &vec
		}
		if v, ok := pa.kw["rotate"]; ok {
			vec, err := toVec3(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("place: rotate: %w", err)
			}
			td.Rotation = &vec
		}

		return b.add(&graph.Node{
			ID:       b.anonID("place"),
			Kind:     graph.NodeTransform,
			Children: []graph.NodeID{childID},
			Data:     td,
		}), nil
	})

	// -----------------------------------------------------------------------
	// (union a b ...) (intersect a b ...) (subtract a b ...)
	// -----------------------------------------------------------------------
	for _, op := range []graph.CSGOp{graph.OpUnion, graph.OpIntersect, graph.OpSubtract} {
		op := op
		env.AddFunction(op.String(), func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			ids, err := b.operands(args)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", op, err)
			}
			if len(ids) == 0 {
				return zygo.SexpNull, fmt.Errorf("%s requires at least one operand", op)
			}
			return b.add(&graph.Node{
				ID:       b.anonID(op.String()),
				Kind:     graph.NodeCSG,
				Children: ids,
				Data:     graph.CSGData{Op: op},
			}), nil
		})
	}

	// -----------------------------------------------------------------------
	// (hollow (brush "crate") :thickness 2)
	// -----------------------------------------------------------------------
	env.AddFunction("hollow", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 1 {
			return zygo.SexpNull, fmt.Errorf("hollow requires exactly one brush, got %d", len(pa.positional))
		}
		childID, err := b.toNodeRef(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("hollow: %w", err)
		}
		v, ok := pa.kw["thickness"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("hollow requires :thickness")
		}
		t, err := toFloat64(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("hollow: thickness: %w", err)
		}

		return b.add(&graph.Node{
			ID:       b.anonID("hollow"),
			Kind:     graph.NodeHollow,
			Children: []graph.NodeID{childID},
			Data:     graph.HollowData{Thickness: t},
		}), nil
	})

	// -----------------------------------------------------------------------
	// (group "name" (place ...) (subtract ...) ...)
	// -----------------------------------------------------------------------
	env.AddFunction("group", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 1 {
			return zygo.SexpNull, fmt.Errorf("group requires a name argument")
		}
		groupName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("group: name: %w", err)
		}
		if g.Lookup(groupName) != nil {
			return zygo.SexpNull, fmt.Errorf("group: %q already defined", groupName)
		}
		children, err := b.operands(args[1:])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("group: %w", err)
		}

		ref := b.add(&graph.Node{
			ID:       graph.NewNodeID("group/" + groupName),
			Kind:     graph.NodeGroup,
			Name:     groupName,
			Children: children,
			Data:     graph.GroupData{},
		})
		g.AddRoot(ref.id)
		return ref, nil
	})
}
