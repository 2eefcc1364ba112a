package viewer

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/Faultbox/turntable/internal/logger"
	"github.com/Faultbox/turntable/pkg/formats"
	"github.com/Faultbox/turntable/pkg/math"
)

func TestMain(m *testing.M) {
	if err := logger.Init("error", ""); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

// testMesh returns a minimal mesh spanning (-1,-1,-1) to (1,1,1).
func testMesh() *formats.Mesh {
	vertices := []formats.Vertex{
		{Position: math.Vec3{X: -1, Y: -1, Z: -1}},
		{Position: math.Vec3{X: 1, Y: 1, Z: 1}},
	}
	return formats.NewMesh(vertices, []uint32{0, 1, 0})
}

// fakeFetcher serves canned results. When release is set, operations wait
// on it (or on context cancellation) before returning.
type fakeFetcher struct {
	mu       sync.Mutex
	mesh     *formats.Mesh
	fetchErr error
	message  string
	genErr   error
	release  chan struct{}

	fetchCalls int
	genCalls   int
}

func (f *fakeFetcher) FetchModel(ctx context.Context) (*formats.Mesh, error) {
	f.mu.Lock()
	f.fetchCalls++
	mesh, err, release := f.mesh, f.fetchErr, f.release
	f.mu.Unlock()

	if release != nil {
		select {
		case <-release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return mesh, err
}

func (f *fakeFetcher) TriggerGenerate(ctx context.Context) (string, error) {
	f.mu.Lock()
	f.genCalls++
	message, err, release := f.message, f.genErr, f.release
	f.mu.Unlock()

	if release != nil {
		select {
		case <-release:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return message, err
}

func (f *fakeFetcher) calls() (fetch, gen int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetchCalls, f.genCalls
}

// settle polls the coordinator until the running operation finishes.
func settle(t *testing.T, c *Coordinator) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		c.Poll()
		if !c.Status().Busy() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("operation never finished, status %v", c.Status())
}

func TestLoadSuccess(t *testing.T) {
	fake := &fakeFetcher{mesh: testMesh()}
	c := NewCoordinator(fake)

	var got *formats.Mesh
	c.OnModel = func(m *formats.Mesh) { got = m }

	if !c.StartLoad(context.Background()) {
		t.Fatal("StartLoad rejected while idle")
	}
	if s := c.Status(); !s.Busy() || s.Op != OpLoading {
		t.Fatalf("status after StartLoad = %v, want busy(loading)", s)
	}

	settle(t, c)

	if !c.Status().Idle() {
		t.Fatalf("status after completion = %v, want idle", c.Status())
	}
	if got == nil || got.VertexCount() != 2 {
		t.Fatalf("OnModel received %v, want the fetched mesh", got)
	}
}

func TestGenerateFailureRunsFullSequence(t *testing.T) {
	fake := &fakeFetcher{genErr: errors.New("backend exploded")}
	c := NewCoordinator(fake)

	observed := []string{c.Status().String()}
	if !c.StartGenerate(context.Background()) {
		t.Fatal("StartGenerate rejected while idle")
	}
	observed = append(observed, c.Status().String())

	settle(t, c)
	observed = append(observed, c.Status().String())

	c.Ack()
	observed = append(observed, c.Status().String())

	want := []string{
		"idle",
		"busy(generating)",
		"failed(Failed to generate model)",
		"idle",
	}
	for i := range want {
		if observed[i] != want[i] {
			t.Fatalf("transition %d = %q, want %q (saw %v)", i, observed[i], want[i], observed)
		}
	}
}

func TestBusyRejectsNewOperations(t *testing.T) {
	fake := &fakeFetcher{mesh: testMesh(), release: make(chan struct{})}
	c := NewCoordinator(fake)

	if !c.StartLoad(context.Background()) {
		t.Fatal("StartLoad rejected while idle")
	}
	if c.StartLoad(context.Background()) {
		t.Error("second StartLoad accepted while busy")
	}
	if c.StartGenerate(context.Background()) {
		t.Error("StartGenerate accepted while busy")
	}

	close(fake.release)
	settle(t, c)

	fetch, gen := fake.calls()
	if fetch != 1 {
		t.Errorf("fetch calls = %d, want 1", fetch)
	}
	if gen != 0 {
		t.Errorf("generate calls = %d, want 0", gen)
	}
}

func TestFailedBlocksUntilAcknowledged(t *testing.T) {
	fake := &fakeFetcher{fetchErr: errors.New("server down")}
	c := NewCoordinator(fake)

	c.StartLoad(context.Background())
	settle(t, c)

	if s := c.Status(); !s.Failed() || s.Message != "Failed to load model" {
		t.Fatalf("status = %v, want failed(Failed to load model)", s)
	}
	if c.StartLoad(context.Background()) {
		t.Error("StartLoad accepted while a failure is showing")
	}

	c.Ack()
	if !c.Status().Idle() {
		t.Fatalf("status after Ack = %v, want idle", c.Status())
	}
	if !c.StartLoad(context.Background()) {
		t.Error("StartLoad rejected after Ack")
	}
	settle(t, c)
}

func TestCloseDiscardsLateCompletion(t *testing.T) {
	fake := &fakeFetcher{mesh: testMesh(), release: make(chan struct{})}
	c := NewCoordinator(fake)

	installed := 0
	c.OnModel = func(*formats.Mesh) { installed++ }

	c.StartLoad(context.Background())
	c.Close()

	if !c.Status().Idle() {
		t.Fatalf("status after Close = %v, want idle", c.Status())
	}

	// The cancelled worker posts its result shortly; it must be discarded
	// rather than surface as a failure.
	time.Sleep(100 * time.Millisecond)
	c.Poll()

	if installed != 0 {
		t.Error("stale completion was applied after Close")
	}
	if !c.Status().Idle() {
		t.Errorf("status = %v, want idle", c.Status())
	}

	// A fresh operation still works and its completion is applied.
	close(fake.release)
	if !c.StartLoad(context.Background()) {
		t.Fatal("StartLoad rejected after Close")
	}
	settle(t, c)
	if installed != 1 {
		t.Errorf("fresh completion applied %d times, want 1", installed)
	}
}

func TestWorkerPanicBecomesFailure(t *testing.T) {
	c := NewCoordinator(panickyFetcher{})

	c.StartLoad(context.Background())
	settle(t, c)

	if s := c.Status(); !s.Failed() || s.Message != "Failed to load model" {
		t.Fatalf("status = %v, want failed(Failed to load model)", s)
	}
}

type panickyFetcher struct{}

func (panickyFetcher) FetchModel(context.Context) (*formats.Mesh, error) {
	panic("corrupt payload")
}

func (panickyFetcher) TriggerGenerate(context.Context) (string, error) {
	panic("corrupt payload")
}

func TestAckOutsideFailureIsNoop(t *testing.T) {
	c := NewCoordinator(&fakeFetcher{})
	c.Ack()
	if !c.Status().Idle() {
		t.Errorf("Ack on idle changed status to %v", c.Status())
	}

	fake := &fakeFetcher{mesh: testMesh(), release: make(chan struct{})}
	c = NewCoordinator(fake)
	c.StartLoad(context.Background())
	c.Ack()
	if !c.Status().Busy() {
		t.Errorf("Ack cleared a busy status: %v", c.Status())
	}

	close(fake.release)
	settle(t, c)
}
