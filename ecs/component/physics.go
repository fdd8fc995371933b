package component

import "github.com/jakecoffman/cp"

// PhysicsBody stores Chipmunk2D runtime data and collider configuration.
// Body and Shape are filled in by the physics system on first sight.
type PhysicsBody struct {
	Body     *cp.Body
	Shape    *cp.Shape
	Width    float64
	Height   float64
	Mass     float64
	Friction float64
	Static   bool
	// Sensor bodies report overlaps but never push back.
	Sensor bool
	// OneWay static bodies only collide with something landing on their top.
	OneWay bool
}

var PhysicsBodyComponent = NewComponent[PhysicsBody]()
