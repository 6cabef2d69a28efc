package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/chazu/brushwork/pkg/bsp"
	"github.com/chazu/brushwork/pkg/config"
	"github.com/chazu/brushwork/pkg/csg"
	"github.com/chazu/brushwork/pkg/engine"
	"github.com/chazu/brushwork/pkg/graph"
	"github.com/chazu/brushwork/pkg/kernel"
	"github.com/chazu/brushwork/pkg/kernel/bspk"
	"github.com/chazu/brushwork/pkg/kernel/sdfx"
	"github.com/chazu/brushwork/pkg/scene"
	"github.com/chazu/brushwork/pkg/tessellate"
)

// errNeedsBSP is returned by operations that inspect brushes when the app
// runs another kernel.
var errNeedsBSP = errors.New("needs the bsp kernel")

// colorPalette is a default palette used to assign distinct colors to meshes.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// App runs scripts through the engine, the validator and a kernel.
type App struct {
	engine *engine.Engine
	kernel kernel.Kernel
	opts   bsp.Options
	log    logrus.FieldLogger
}

// MeshData is the JSON-serializable mesh format written by the CLI.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	PartName string    `json:"partName"`
	Color    string    `json:"color"`
}

// EvalErrorData is a JSON-serializable eval error or warning.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// EvalResult is the full result of one evaluation. Graph is nil when the
// script failed.
type EvalResult struct {
	Meshes   []MeshData         `json:"meshes"`
	Errors   []EvalErrorData    `json:"errors"`
	Warnings []EvalErrorData    `json:"warnings"`
	Graph    *graph.DesignGraph `json:"-"`
}

// NewApp creates an App with the kernel named in cfg.
func NewApp(cfg config.Config, log logrus.FieldLogger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	a := &App{
		engine: engine.NewEngine().WithLogger(log),
		opts:   cfg.BuildOptions(),
		log:    log,
	}
	switch cfg.Kernel.Name {
	case config.KernelSDFX:
		a.kernel = sdfx.New(cfg.Kernel.MeshCells)
	default:
		a.kernel = bspk.New(a.opts)
	}
	return a, nil
}

// Evaluate takes script source and returns mesh data, errors and warnings.
func (a *App) Evaluate(source string) EvalResult {
	result := EvalResult{
		Meshes:   []MeshData{},
		Errors:   []EvalErrorData{},
		Warnings: []EvalErrorData{},
	}

	// Step 1: evaluate the script into a design graph.
	g, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		a.log.WithError(err).Error("evaluate failed")
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result
	}
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			result.Errors = append(result.Errors, EvalErrorData{
				Line:    e.Line,
				Col:     e.Col,
				Message: e.Message,
			})
		}
		return result
	}

	// Step 2: validate. Warnings never block tessellation.
	v := graph.ValidateAll(g)
	for _, w := range v.Warnings {
		result.Warnings = append(result.Warnings, EvalErrorData{Message: w.Message})
	}
	if !v.OK() {
		for _, e := range v.Errors {
			result.Errors = append(result.Errors, EvalErrorData{Message: e.Error()})
		}
		return result
	}

	// Step 3: tessellate the graph into triangle meshes.
	meshes, err := tessellate.Tessellate(g, a.kernel)
	if err != nil {
		a.log.WithError(err).Error("tessellate failed")
		result.Errors = append(result.Errors, EvalErrorData{
			Message: "tessellation failed: " + err.Error(),
		})
		return result
	}

	for i, m := range meshes {
		result.Meshes = append(result.Meshes, MeshData{
			Vertices: m.Vertices,
			Normals:  m.Normals,
			Indices:  m.Indices,
			PartName: m.PartName,
			Color:    colorPalette[i%len(colorPalette)],
		})
	}
	result.Graph = g
	return result
}

// rootSolid evaluates a root with the bsp kernel.
func (a *App) rootSolid(g *graph.DesignGraph, id graph.NodeID) (*bspk.Solid, error) {
	s, err := tessellate.Evaluate(g, a.kernel, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return &bspk.Solid{}, nil
	}
	bs, ok := s.(*bspk.Solid)
	if !ok {
		return nil, errNeedsBSP
	}
	return bs, nil
}

// DumpTrees writes the BSP tree of every root of g.
func (a *App) DumpTrees(w io.Writer, g *graph.DesignGraph) error {
	for _, id := range g.Roots {
		root := g.Get(id)
		if root == nil {
			continue
		}
		s, err := a.rootSolid(g, id)
		if err != nil {
			return fmt.Errorf("dump %s: %w", root.Label(), err)
		}
		if s.IsEmpty() {
			if _, err := fmt.Fprintf(w, "root %s: empty\n", root.Label()); err != nil {
				return err
			}
			continue
		}
		tree, err := s.Tree(a.opts)
		if err != nil {
			return fmt.Errorf("dump %s: %w", root.Label(), err)
		}
		if _, err := fmt.Fprintf(w, "root %s: %d nodes, depth %d\n", root.Label(), tree.Len(), tree.Depth()); err != nil {
			return err
		}
		if err := tree.Dump(w); err != nil {
			return err
		}
	}
	return nil
}

// Carve loads the brushes of every root into a scene and carves the named
// brush out of them as one undoable step. A copy of the carver inside a root
// is carved away with everything else.
func (a *App) Carve(g *graph.DesignGraph, name string) (*scene.Scene, csg.Batch, error) {
	n := g.Lookup(name)
	if n == nil {
		return nil, csg.Batch{}, fmt.Errorf("carve: no brush named %q", name)
	}
	carver, err := a.rootSolid(g, n.ID)
	if err != nil {
		return nil, csg.Batch{}, fmt.Errorf("carve: %w", err)
	}
	if len(carver.Brushes) != 1 {
		return nil, csg.Batch{}, fmt.Errorf("carve: %q is %d brushes, want 1", name, len(carver.Brushes))
	}

	sc := scene.New()
	for _, id := range g.Roots {
		s, err := a.rootSolid(g, id)
		if err != nil {
			return nil, csg.Batch{}, fmt.Errorf("carve: %w", err)
		}
		sc.Add(s.Brushes...)
	}

	batch, err := csg.Carve(carver.Brushes[0], sc, sc, a.opts)
	if err != nil {
		return nil, csg.Batch{}, err
	}
	a.log.WithFields(logrus.Fields{
		"carver":  name,
		"deleted": len(batch.Deleted),
		"added":   len(batch.Added),
		"brushes": sc.Len(),
	}).Info("carved")
	return sc, batch, nil
}
