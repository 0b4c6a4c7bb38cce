package store

import (
	"errors"
	"slices"
	"testing"
)

type recordingTracer struct {
	commits   [][]Change
	rollbacks []error
	actions   []string
}

func (r *recordingTracer) Commit(action string, changes []Change) {
	r.actions = append(r.actions, action)
	r.commits = append(r.commits, changes)
}

func (r *recordingTracer) Rollback(action string, err error) {
	r.actions = append(r.actions, action)
	r.rollbacks = append(r.rollbacks, err)
}

func newList() *Store[[]int] {
	return MustNew("list", []int{}, WithClone(slices.Clone[[]int]), WithEqual(slices.Equal[[]int]))
}

func TestActionNotifiesOncePerCommit(t *testing.T) {
	d := NewDispatcher()
	s := newList()
	notified := 0
	s.Subscribe(func() { notified++ })

	push := Wrap(d, "push3", func(tx *Tx, n int) error {
		for i := range n {
			l := Draft(tx, s)
			*l = append(*l, i)
		}
		return nil
	})
	if err := push(3); err != nil {
		t.Fatalf("push: %v", err)
	}
	if notified != 1 {
		t.Errorf("notified: got %d, want 1", notified)
	}
	if got := s.Snapshot(); !slices.Equal(got, []int{0, 1, 2}) {
		t.Errorf("snapshot: got %v", got)
	}
	if s.Version() != 1 {
		t.Errorf("Version: got %d, want 1", s.Version())
	}
}

func TestActionRollbackOnError(t *testing.T) {
	tr := &recordingTracer{}
	d := NewDispatcher(WithTracer(tr))
	s := newList()
	notified := 0
	s.Subscribe(func() { notified++ })
	boom := errors.New("boom")

	err := d.Do("fail", func(tx *Tx) error {
		l := Draft(tx, s)
		*l = append(*l, 1)
		*l = append(*l, 2)
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Do: got %v, want boom", err)
	}
	if got := s.Snapshot(); len(got) != 0 {
		t.Errorf("snapshot after rollback: got %v, want empty", got)
	}
	if notified != 0 {
		t.Errorf("notified: got %d, want 0", notified)
	}
	if s.Version() != 0 {
		t.Errorf("Version: got %d, want 0", s.Version())
	}
	if len(tr.rollbacks) != 1 || !errors.Is(tr.rollbacks[0], boom) {
		t.Errorf("tracer rollbacks: %v", tr.rollbacks)
	}
	if d.InAction() {
		t.Error("dispatcher still in action after rollback")
	}
}

func TestActionRollbackOnPanic(t *testing.T) {
	tr := &recordingTracer{}
	d := NewDispatcher(WithTracer(tr))
	s := newList()
	notified := 0
	s.Subscribe(func() { notified++ })

	func() {
		defer func() {
			if r := recover(); r != "bad" {
				t.Errorf("recovered %v, want bad", r)
			}
		}()
		_ = d.Do("panics", func(tx *Tx) error {
			l := Draft(tx, s)
			*l = append(*l, 1)
			panic("bad")
		})
	}()

	if got := s.Snapshot(); len(got) != 0 {
		t.Errorf("snapshot after panic: got %v, want empty", got)
	}
	if notified != 0 {
		t.Errorf("notified: got %d, want 0", notified)
	}
	if len(tr.rollbacks) != 1 {
		t.Errorf("tracer rollbacks: got %d, want 1", len(tr.rollbacks))
	}
	if d.InAction() {
		t.Error("dispatcher still in action after panic")
	}
	// dispatcher is usable again
	if err := d.Do("ok", func(tx *Tx) error {
		*Draft(tx, s) = []int{7}
		return nil
	}); err != nil {
		t.Fatalf("Do after panic: %v", err)
	}
	if notified != 1 {
		t.Errorf("notified after recovery: got %d, want 1", notified)
	}
}

func TestNestedActionsJoinBatch(t *testing.T) {
	tr := &recordingTracer{}
	d := NewDispatcher(WithTracer(tr))
	s := newList()
	notified := 0
	s.Subscribe(func() { notified++ })

	inner := Wrap(d, "inner", func(tx *Tx, v int) error {
		l := Draft(tx, s)
		*l = append(*l, v)
		return nil
	})
	outer := Wrap(d, "outer", func(tx *Tx, _ struct{}) error {
		if err := inner(1); err != nil {
			return err
		}
		if notified != 0 {
			t.Errorf("intermediate notification inside outer action")
		}
		// read-your-writes across the nested call
		if got := Peek(tx, s); !slices.Equal(got, []int{1}) {
			t.Errorf("Peek inside outer: got %v, want [1]", got)
		}
		return inner(2)
	})

	if err := outer(struct{}{}); err != nil {
		t.Fatalf("outer: %v", err)
	}
	if notified != 1 {
		t.Errorf("notified: got %d, want 1", notified)
	}
	if got := s.Snapshot(); !slices.Equal(got, []int{1, 2}) {
		t.Errorf("snapshot: got %v", got)
	}
	if want := []string{"outer"}; !slices.Equal(tr.actions, want) {
		t.Errorf("traced actions: got %v, want %v", tr.actions, want)
	}
	if len(tr.commits) != 1 || tr.commits[0][0] != (Change{Store: "list", From: 0, To: 1}) {
		t.Errorf("traced commits: %v", tr.commits)
	}
}

func TestNestedErrorAbortsWhenPropagated(t *testing.T) {
	d := NewDispatcher()
	s := newList()
	boom := errors.New("boom")
	inner := Wrap(d, "inner", func(tx *Tx, _ struct{}) error {
		*Draft(tx, s) = []int{9}
		return boom
	})
	err := d.Do("outer", func(tx *Tx) error {
		l := Draft(tx, s)
		*l = append(*l, 1)
		return inner(struct{}{})
	})
	if !errors.Is(err, boom) {
		t.Fatalf("outer: got %v, want boom", err)
	}
	if got := s.Snapshot(); len(got) != 0 {
		t.Errorf("snapshot: got %v, want empty", got)
	}
}

func TestUnchangedDraftDoesNotNotify(t *testing.T) {
	d := NewDispatcher()
	s := MustNew("list", []int{1}, WithClone(slices.Clone[[]int]), WithEqual(slices.Equal[[]int]))
	notified := 0
	s.Subscribe(func() { notified++ })
	err := d.Do("noop", func(tx *Tx) error {
		l := Draft(tx, s)
		*l = append(*l, 2)
		*l = (*l)[:1]
		return nil
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if notified != 0 {
		t.Errorf("notified: got %d, want 0", notified)
	}
	if s.Version() != 0 {
		t.Errorf("Version: got %d, want 0", s.Version())
	}
}

func TestListenersSeeAllCommittedStores(t *testing.T) {
	d := NewDispatcher()
	a := MustNew("a", 0)
	b := MustNew("b", 0)
	var seenB int
	a.Subscribe(func() { seenB = b.Snapshot() })
	_ = d.Do("both", func(tx *Tx) error {
		*Draft(tx, a) = 1
		*Draft(tx, b) = 2
		return nil
	})
	if seenB != 2 {
		t.Errorf("listener of a saw b=%d, want 2", seenB)
	}
}

func TestListenerMayStartAction(t *testing.T) {
	d := NewDispatcher()
	a := MustNew("a", 0)
	b := MustNew("b", 0)
	a.Subscribe(func() {
		_ = d.Do("follow", func(tx *Tx) error {
			*Draft(tx, b) = a.Snapshot() * 10
			return nil
		})
	})
	_ = d.Do("set", func(tx *Tx) error {
		*Draft(tx, a) = 3
		return nil
	})
	if got := b.Snapshot(); got != 30 {
		t.Errorf("b: got %d, want 30", got)
	}
}

func TestTxUseAfterFinishPanics(t *testing.T) {
	d := NewDispatcher()
	s := MustNew("n", 0)
	var leaked *Tx
	_ = d.Do("leak", func(tx *Tx) error {
		leaked = tx
		return nil
	})
	defer func() {
		if r := recover(); r != ErrTxDone {
			t.Errorf("recovered %v, want ErrTxDone", r)
		}
	}()
	Draft(leaked, s)
}
