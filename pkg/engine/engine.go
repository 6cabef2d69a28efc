// Package engine evaluates brush scripts. It wraps zygomys in a sandboxed
// environment and produces a DesignGraph from user source code.
package engine

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	zygo "github.com/glycerine/zygomys/zygo"
	"github.com/sirupsen/logrus"

	"github.com/chazu/brushwork/pkg/graph"
)

// EvalError represents a non-fatal error encountered during evaluation,
// such as a parse error or a runtime error in user code.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// Engine runs brush scripts. It is safe for concurrent use: every
// Evaluate gets its own sandbox, and only the newest generation's result is
// returned.
type Engine struct {
	mu         sync.Mutex
	generation uint64
	timeout    time.Duration
	log        logrus.FieldLogger
}

// NewEngine creates a new Engine with the default EvalTimeout. It logs
// nowhere until WithLogger is called.
func NewEngine() *Engine {
	discard := logrus.New()
	discard.Out = io.Discard
	return &Engine{timeout: EvalTimeout, log: discard}
}

// WithTimeout sets the evaluation limit and returns e.
func (e *Engine) WithTimeout(d time.Duration) *Engine {
	e.timeout = d
	return e
}

// WithLogger sets the logger and returns e.
func (e *Engine) WithLogger(log logrus.FieldLogger) *Engine {
	e.log = log
	return e
}

// Evaluate runs source and returns the graph it builds.
//
// Return semantics:
//   - On success: returns graph + nil errors + nil error
//   - On parse/eval failure: returns nil graph + eval errors + nil error
//   - On fatal failure (timeout, panic, superseded): returns nil + nil + error
func (e *Engine) Evaluate(source string) (*graph.DesignGraph, []EvalError, error) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	start := time.Now()
	ch := make(chan evalResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()

		g, evalErrs, err := e.evaluate(source, gen)
		ch <- evalResult{graph: g, errors: evalErrs, err: err}
	}()

	g, evalErrs, err := waitWithTimeout(ch, e.timeout, gen, &e.mu, &e.generation)
	entry := e.log.WithFields(logrus.Fields{"generation": gen, "elapsed": time.Since(start)})
	switch {
	case err != nil:
		entry.WithError(err).Debug("engine: evaluation aborted")
	case len(evalErrs) > 0:
		entry.WithField("errors", len(evalErrs)).Debug("engine: script failed")
	default:
		entry.WithField("nodes", g.NodeCount()).Debug("engine: evaluated")
	}
	return g, evalErrs, err
}

// evaluate performs the actual zygomys evaluation in a fresh sandbox.
func (e *Engine) evaluate(source string, gen uint64) (*graph.DesignGraph, []EvalError, error) {
	g := graph.New()
	g.Version = gen

	// Empty source is a valid program that produces an empty graph.
	if strings.TrimSpace(source) == "" {
		return g, nil, nil
	}

	// The sandbox has no filesystem or syscall access.
	env := zygo.NewZlispSandbox()
	defer env.Stop()
	registerBuiltins(env, g)

	if err := env.LoadString(preprocessSource(source)); err != nil {
		return nil, parseZygomysError(err), nil
	}
	if _, err := env.Run(); err != nil {
		return nil, parseZygomysError(err), nil
	}
	return g, nil, nil
}

// linePatterns match zygomys messages carrying a line number, as in
// "Error on line N: ..." or "line N: ...".
var linePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`),
	regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`),
}

// parseZygomysError converts a zygomys error into EvalErrors, keeping the
// line number when the message has one.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()
	for _, re := range linePatterns {
		if m := re.FindStringSubmatch(msg); m != nil {
			line, _ := strconv.Atoi(m[1])
			return []EvalError{{Line: line, Message: strings.TrimSpace(m[2])}}
		}
	}
	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
