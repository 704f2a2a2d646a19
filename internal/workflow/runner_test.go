package workflow

import (
	"context"
	"testing"

	"callgrade/internal/graph"
	"callgrade/internal/state"
)

func compileTestGraph(t *testing.T) *graph.Graph {
	t.Helper()
	first := func(_ context.Context, _ *state.CallState) (state.Update, error) {
		return state.Update{Transcript: state.Ptr("hello"), CurrentStep: state.Ptr("first")}, nil
	}
	second := func(_ context.Context, _ *state.CallState) (state.Update, error) {
		return state.Update{
			Status:      state.Ptr(state.StatusCompleted),
			CurrentStep: state.Ptr("second"),
		}, nil
	}
	g, err := graph.New().
		AddNode("first", first).
		AddNode("second", second).
		SetEntry("first").
		AddEdge("first", "second").
		AddEdge("second", graph.End).
		Compile()
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	return g
}

func TestRunnerStreamsProgress(t *testing.T) {
	runner := NewRunner(compileTestGraph(t), nil)
	cs := state.New("call.txt", -1)

	var visited []string
	final, err := runner.Run(context.Background(), cs, func(ev graph.StepEvent, s *state.CallState) {
		visited = append(visited, ev.Node)
		if ev.Node == "first" && s.Transcript != "hello" {
			t.Errorf("progress saw stale state: transcript %q", s.Transcript)
		}
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if final.Status != state.StatusCompleted {
		t.Fatalf("status = %s, want completed", final.Status)
	}
	if len(visited) != 2 || visited[0] != "first" || visited[1] != "second" {
		t.Fatalf("visited = %v", visited)
	}
}

func TestRunnerReturnsStateOnAbort(t *testing.T) {
	boom := func(_ context.Context, _ *state.CallState) (state.Update, error) {
		return state.Update{}, graph.ErrAborted
	}
	g, err := graph.New().
		AddNode("boom", boom).
		SetEntry("boom").
		AddEdge("boom", graph.End).
		Compile()
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	runner := NewRunner(g, nil)
	cs := state.New("call.txt", -1)
	final, err := runner.Run(context.Background(), cs, nil)
	if err == nil {
		t.Fatal("expected the abort to surface")
	}
	if final == nil || final.RunID != cs.RunID {
		t.Fatal("expected the run state back on failure")
	}
}
