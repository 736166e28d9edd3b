package usecase

import (
	"errors"
	"testing"
)

func TestLoaderLifecycle(t *testing.T) {
	t.Run("Idle Until First Trigger", func(t *testing.T) {
		l := newLoader[[]int]()
		if got := l.get().Status; got != StatusIdle {
			t.Fatalf("expected idle, got %s", got)
		}
	})

	t.Run("Loading While In Flight", func(t *testing.T) {
		l := newLoader[[]int]()
		l.begin()
		if got := l.get().Status; got != StatusLoading {
			t.Fatalf("expected loading, got %s", got)
		}
	})

	t.Run("Success Applies Data", func(t *testing.T) {
		l := newLoader[[]int]()
		seq := l.begin()
		if !l.complete(seq, []int{1, 2}, nil) {
			t.Fatal("expected result to be applied")
		}
		state := l.get()
		if state.Status != StatusSuccess {
			t.Fatalf("expected success, got %s", state.Status)
		}
		if len(state.Data) != 2 {
			t.Fatalf("expected 2 items, got %d", len(state.Data))
		}
	})

	t.Run("Error Carries Message", func(t *testing.T) {
		l := newLoader[[]int]()
		seq := l.begin()
		l.complete(seq, nil, errors.New("upstream down"))
		state := l.get()
		if state.Status != StatusError {
			t.Fatalf("expected error, got %s", state.Status)
		}
		if state.Error != "upstream down" {
			t.Fatalf("unexpected error message: %q", state.Error)
		}
	})
}

func TestLoaderLastTriggeredWins(t *testing.T) {
	l := newLoader[[]int]()

	first := l.begin()
	second := l.begin()

	// The second trigger resolves before the first.
	if !l.complete(second, []int{2}, nil) {
		t.Fatal("expected latest trigger's result to be applied")
	}
	if l.complete(first, []int{1}, nil) {
		t.Fatal("expected stale result to be discarded")
	}

	state := l.get()
	if state.Status != StatusSuccess || len(state.Data) != 1 || state.Data[0] != 2 {
		t.Fatalf("final state must reflect the last-triggered fetch, got %+v", state)
	}
}

func TestLoaderStaleErrorDiscarded(t *testing.T) {
	l := newLoader[[]int]()

	first := l.begin()
	second := l.begin()

	l.complete(second, []int{2}, nil)
	if l.complete(first, nil, errors.New("too late")) {
		t.Fatal("stale error must not overwrite a newer success")
	}
	if got := l.get().Status; got != StatusSuccess {
		t.Fatalf("expected success, got %s", got)
	}
}

func TestLoaderMutate(t *testing.T) {
	t.Run("Edits Applied Snapshot", func(t *testing.T) {
		l := newLoader[[]int]()
		seq := l.begin()
		l.complete(seq, []int{1, 2, 3}, nil)

		l.mutate(func(data []int) []int { return data[:1] })
		if got := len(l.get().Data); got != 1 {
			t.Fatalf("expected 1 item after mutate, got %d", got)
		}
	})

	t.Run("Ignored Outside Success", func(t *testing.T) {
		l := newLoader[[]int]()
		l.begin()
		l.mutate(func(data []int) []int { return append(data, 9) })
		if got := l.get().Status; got != StatusLoading {
			t.Fatalf("expected loading, got %s", got)
		}
		if l.get().Data != nil {
			t.Fatal("mutate must not touch a view that has no applied data")
		}
	})
}
