package engine

import "github.com/chazu/kerf/pkg/csg"

// Scene is the result of evaluating a script: named solids in definition
// order, plus any non-fatal warnings raised while building them.
type Scene struct {
	solids   map[string]csg.Solid
	order    []string
	warnings []string
}

// NewScene returns an empty scene.
func NewScene() *Scene {
	return &Scene{solids: make(map[string]csg.Solid)}
}

// Add registers a solid under a name. Redefining a name replaces the
// solid but keeps its original position in the definition order.
func (s *Scene) Add(name string, solid csg.Solid) {
	if _, exists := s.solids[name]; !exists {
		s.order = append(s.order, name)
	}
	s.solids[name] = solid
}

// Get returns the solid registered under name.
func (s *Scene) Get(name string) (csg.Solid, bool) {
	solid, ok := s.solids[name]
	return solid, ok
}

// Names returns the registered names in definition order.
func (s *Scene) Names() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Len returns the number of registered solids.
func (s *Scene) Len() int { return len(s.solids) }

// Warn records a non-fatal warning, such as a partition-limit hit.
func (s *Scene) Warn(msg string) {
	s.warnings = append(s.warnings, msg)
}

// Warnings returns the warnings raised during evaluation.
func (s *Scene) Warnings() []string {
	out := make([]string, len(s.warnings))
	copy(out, s.warnings)
	return out
}
