package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type nopLogger struct{}

func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Debug(string, ...interface{}) {}

type fakeService struct {
	name    string
	initErr error
	runErr  error

	mu      sync.Mutex
	inited  bool
	stopped int
}

func (f *fakeService) Name() string { return f.name }

func (f *fakeService) Init() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inited = true
	return f.initErr
}

func (f *fakeService) Run(ctx context.Context) error {
	if f.runErr != nil {
		return f.runErr
	}
	<-ctx.Done()
	return nil
}

func (f *fakeService) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped++
}

func (f *fakeService) stopCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stopped
}

func newTestManager() *Manager {
	m := NewManager(nopLogger{})
	m.signals = nil
	return m
}

func TestManagerStopsAllOnCancel(t *testing.T) {
	t.Parallel()
	a := &fakeService{name: "a"}
	b := &fakeService{name: "b"}
	m := newTestManager()
	m.AddService(a, b)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}

	if a.stopCount() != 1 || b.stopCount() != 1 {
		t.Errorf("stop counts: a=%d b=%d, want 1 each", a.stopCount(), b.stopCount())
	}
}

func TestManagerInitFailureStopsEarlierServices(t *testing.T) {
	t.Parallel()
	a := &fakeService{name: "a"}
	b := &fakeService{name: "b", initErr: errors.New("boom")}
	c := &fakeService{name: "c"}
	m := newTestManager()
	m.AddService(a, b, c)

	err := m.Run(context.Background())
	if err == nil {
		t.Fatal("want init error")
	}
	if a.stopCount() != 1 {
		t.Errorf("a stop count: got %d, want 1", a.stopCount())
	}
	if b.stopCount() != 0 || c.stopCount() != 0 {
		t.Errorf("services after the failing one must not be stopped: b=%d c=%d", b.stopCount(), c.stopCount())
	}
	if c.inited {
		t.Error("services after the failing one must not be initialized")
	}
}

func TestManagerReturnsRunError(t *testing.T) {
	t.Parallel()
	failing := &fakeService{name: "failing", runErr: errors.New("listen failed")}
	steady := &fakeService{name: "steady"}
	m := newTestManager()
	m.AddService(steady, failing)

	err := m.Run(context.Background())
	if err == nil || !errors.Is(err, failing.runErr) {
		t.Fatalf("Run: got %v, want wrapped run error", err)
	}
	if steady.stopCount() != 1 {
		t.Errorf("steady stop count: got %d, want 1", steady.stopCount())
	}
}
