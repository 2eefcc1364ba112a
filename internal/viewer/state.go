package viewer

import (
	"context"

	"go.uber.org/zap"

	"github.com/Faultbox/turntable/internal/engine/scene"
	"github.com/Faultbox/turntable/internal/logger"
	"github.com/Faultbox/turntable/pkg/formats"
)

// State gathers everything the viewer mutates across frames under a single
// owner: the scene with its one model slot, the rotation controller and the
// operation coordinator. The frame goroutine owns it; nothing else touches
// it.
type State struct {
	Scene    *scene.Scene
	Rotation *Rotation
	Coord    *Coordinator

	// Presentation fields the UI reads each frame.
	LastMessage string // most recent generate acknowledgement
	Vertices    int
	Triangles   int

	// Notify hooks run after the state change they report is applied.
	// Used for audio cues; may stay nil.
	NotifySuccess func()
	NotifyFailure func()
}

// NewState wires a scene, a rotation controller and a coordinator into one
// state struct. The coordinator's callbacks are claimed by the state; use
// the Notify hooks to observe outcomes.
func NewState(sc *scene.Scene, fetcher Fetcher, sensitivity float64) *State {
	s := &State{
		Scene:    sc,
		Rotation: NewRotation(sensitivity),
		Coord:    NewCoordinator(fetcher),
	}
	s.Coord.OnModel = s.installModel
	s.Coord.OnMessage = s.recordMessage
	s.Coord.OnFailure = s.recordFailure
	return s
}

// Update drains finished operations and pushes the turntable angle into the
// scene. Call once per frame before rendering.
func (s *State) Update() {
	s.Coord.Poll()
	s.Scene.SetModelRotation(s.Rotation.Angle())
}

// HandleDrag folds one frame's horizontal drag delta into the turntable
// angle. The new angle reaches the scene on the next Update.
func (s *State) HandleDrag(deltaX float32) {
	s.Rotation.OnDrag(deltaX)
}

// RequestLoad asks the coordinator to fetch the model. Returns false when
// rejected because the viewer is not idle.
func (s *State) RequestLoad(ctx context.Context) bool {
	return s.Coord.StartLoad(ctx)
}

// RequestGenerate asks the coordinator to generate a new model. Returns
// false when rejected because the viewer is not idle.
func (s *State) RequestGenerate(ctx context.Context) bool {
	return s.Coord.StartGenerate(ctx)
}

// Status returns the coordinator's current operation status.
func (s *State) Status() Status {
	return s.Coord.Status()
}

// AckFailure dismisses a shown failure.
func (s *State) AckFailure() {
	s.Coord.Ack()
}

// Close cancels any in-flight operation.
func (s *State) Close() {
	s.Coord.Close()
}

// installModel replaces the scene's model with the freshly fetched mesh,
// centered on its bounding box. The turntable angle carries over, so a
// reload does not snap the view back.
func (s *State) installModel(mesh *formats.Mesh) {
	s.Scene.ReplaceModel(scene.Normalize(mesh))
	s.Vertices = mesh.VertexCount()
	s.Triangles = mesh.TriangleCount()

	bounds := mesh.Bounds()
	logger.Info("Model installed",
		zap.Int("vertices", s.Vertices),
		zap.Int("triangles", s.Triangles),
		zap.Float32("width", bounds.Size().X),
		zap.Float32("height", bounds.Size().Y),
		zap.Float32("depth", bounds.Size().Z))

	if s.NotifySuccess != nil {
		s.NotifySuccess()
	}
}

func (s *State) recordMessage(message string) {
	s.LastMessage = message
	if s.NotifySuccess != nil {
		s.NotifySuccess()
	}
}

func (s *State) recordFailure(string) {
	if s.NotifyFailure != nil {
		s.NotifyFailure()
	}
}
