package graph

import (
	"context"
	"errors"
	"fmt"

	"callgrade/internal/state"
)

// End is the terminal pseudo-node. Routers return it to finish a run.
const End = "__end__"

// defaultStepLimit bounds a single run. The pipeline topology is a short
// chain with one bounded retry loop, so a run that exceeds this many stage
// executions is wedged.
const defaultStepLimit = 100

// ErrAborted marks a fatal abort raised by a stage. Runs that fail this way
// bypass routing and the retry bookkeeping entirely.
var ErrAborted = errors.New("run aborted")

// ErrStepLimit reports a run that exceeded the execution ceiling.
var ErrStepLimit = errors.New("step limit exceeded")

// StageFunc executes one pipeline stage against the current state and returns
// the partial update to merge. A non-nil error is reserved for fatal aborts
// (wrap ErrAborted); ordinary failures belong in the update's error fields.
type StageFunc func(ctx context.Context, s *state.CallState) (state.Update, error)

// RouterFunc picks the next node name from the merged state. It must be a
// pure function of the state.
type RouterFunc func(s *state.CallState) string

// StepEvent is emitted once per stage execution during a streamed run.
type StepEvent struct {
	Node   string
	Update state.Update
}

// Builder assembles nodes and edges into a Graph.
type Builder struct {
	nodes     map[string]StageFunc
	edges     map[string]string
	routers   map[string]RouterFunc
	targets   map[string][]string
	entry     string
	stepLimit int
}

// New returns an empty graph builder.
func New() *Builder {
	return &Builder{
		nodes:     make(map[string]StageFunc),
		edges:     make(map[string]string),
		routers:   make(map[string]RouterFunc),
		targets:   make(map[string][]string),
		stepLimit: defaultStepLimit,
	}
}

// AddNode registers a named stage.
func (b *Builder) AddNode(name string, fn StageFunc) *Builder {
	b.nodes[name] = fn
	return b
}

// AddEdge registers a static edge from one node to another (or to End).
func (b *Builder) AddEdge(from, to string) *Builder {
	b.edges[from] = to
	return b
}

// AddConditionalEdges registers a router for a node along with the set of
// nodes it may return, which Compile validates.
func (b *Builder) AddConditionalEdges(from string, router RouterFunc, targets ...string) *Builder {
	b.routers[from] = router
	b.targets[from] = targets
	return b
}

// SetEntry declares the node a run starts at.
func (b *Builder) SetEntry(name string) *Builder {
	b.entry = name
	return b
}

// SetStepLimit overrides the execution ceiling (useful for tests).
func (b *Builder) SetStepLimit(limit int) *Builder {
	if limit > 0 {
		b.stepLimit = limit
	}
	return b
}

// Compile validates the topology and returns an immutable Graph.
func (b *Builder) Compile() (*Graph, error) {
	if b.entry == "" {
		return nil, errors.New("graph compile: entry node not set")
	}
	if _, ok := b.nodes[b.entry]; !ok {
		return nil, fmt.Errorf("graph compile: entry node %q not registered", b.entry)
	}
	for from, to := range b.edges {
		if _, ok := b.nodes[from]; !ok {
			return nil, fmt.Errorf("graph compile: edge from unknown node %q", from)
		}
		if to != End {
			if _, ok := b.nodes[to]; !ok {
				return nil, fmt.Errorf("graph compile: edge %q -> unknown node %q", from, to)
			}
		}
	}
	for from, targets := range b.targets {
		if _, ok := b.nodes[from]; !ok {
			return nil, fmt.Errorf("graph compile: router on unknown node %q", from)
		}
		for _, target := range targets {
			if target == End {
				continue
			}
			if _, ok := b.nodes[target]; !ok {
				return nil, fmt.Errorf("graph compile: router on %q targets unknown node %q", from, target)
			}
		}
	}
	for name := range b.nodes {
		_, hasEdge := b.edges[name]
		_, hasRouter := b.routers[name]
		if !hasEdge && !hasRouter {
			return nil, fmt.Errorf("graph compile: node %q has no outgoing edge", name)
		}
		if hasEdge && hasRouter {
			return nil, fmt.Errorf("graph compile: node %q has both a static edge and a router", name)
		}
	}

	g := &Graph{
		nodes:     make(map[string]StageFunc, len(b.nodes)),
		edges:     make(map[string]string, len(b.edges)),
		routers:   make(map[string]RouterFunc, len(b.routers)),
		allowed:   make(map[string]map[string]struct{}, len(b.targets)),
		entry:     b.entry,
		stepLimit: b.stepLimit,
	}
	for name, fn := range b.nodes {
		g.nodes[name] = fn
	}
	for from, to := range b.edges {
		g.edges[from] = to
	}
	for from, router := range b.routers {
		g.routers[from] = router
		allowed := make(map[string]struct{}, len(b.targets[from]))
		for _, target := range b.targets[from] {
			allowed[target] = struct{}{}
		}
		g.allowed[from] = allowed
	}
	return g, nil
}

// Graph is a compiled workflow, safe for concurrent runs.
type Graph struct {
	nodes     map[string]StageFunc
	edges     map[string]string
	routers   map[string]RouterFunc
	allowed   map[string]map[string]struct{}
	entry     string
	stepLimit int
}

// Run drives st from the entry node to End and returns the final state. The
// state is mutated in place as updates merge; it is returned for convenience.
func (g *Graph) Run(ctx context.Context, st *state.CallState) (*state.CallState, error) {
	err := g.Stream(ctx, st, nil)
	return st, err
}

// Stream drives the run like Run, emitting one StepEvent per stage execution
// after its update has been merged. A non-nil callback error stops the run.
func (g *Graph) Stream(ctx context.Context, st *state.CallState, emit func(StepEvent) error) error {
	if st == nil {
		return errors.New("graph run: nil state")
	}

	node := g.entry
	for steps := 0; node != End; steps++ {
		if steps >= g.stepLimit {
			return fmt.Errorf("graph run: %w after %d steps at node %q", ErrStepLimit, steps, node)
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		fn, ok := g.nodes[node]
		if !ok {
			return fmt.Errorf("graph run: unknown node %q", node)
		}
		upd, err := fn(ctx, st)
		if err != nil {
			return fmt.Errorf("stage %s: %w", node, err)
		}
		state.Merge(st, upd)
		if emit != nil {
			if err := emit(StepEvent{Node: node, Update: upd}); err != nil {
				return err
			}
		}

		next, err := g.nextNode(node, st)
		if err != nil {
			return err
		}
		node = next
	}
	return nil
}

func (g *Graph) nextNode(node string, st *state.CallState) (string, error) {
	if router, ok := g.routers[node]; ok {
		next := router(st)
		if _, ok := g.allowed[node][next]; !ok {
			return "", fmt.Errorf("graph run: router on %q returned undeclared target %q", node, next)
		}
		return next, nil
	}
	if to, ok := g.edges[node]; ok {
		return to, nil
	}
	return "", fmt.Errorf("graph run: node %q has no outgoing edge", node)
}
