package system

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/platformer/common"
	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/ecs/component"
	"github.com/milk9111/platformer/movement"
)

const (
	collisionTypePlayer cp.CollisionType = iota + 1
	collisionTypePlayerGround
	collisionTypeSolid
	collisionTypeOneWay
	collisionTypePickup
)

// oneWaySlop is how far below a platform top the player's feet may be and
// still land on it, on top of the distance travelled this step.
const oneWaySlop = 2.0

type PhysicsSystem struct {
	space         *cp.Space
	handlersReady bool
	dt            float64
	gravity       float64
	iterations    int

	entities     map[ecs.Entity]*bodyInfo
	playerShapes map[*cp.Shape]ecs.Entity
	groundShapes map[*cp.Shape]ecs.Entity
	pickupShapes map[*cp.Shape]ecs.Entity
	platformTops map[*cp.Shape]float64
	playerStates map[ecs.Entity]*playerContactState

	boundsReady bool
	overlaps    []ecs.OverlapEvent
}

type bodyInfo struct {
	body        *cp.Body
	mainShape   *cp.Shape
	groundShape *cp.Shape
	shapes      []*cp.Shape
	static      bool
	height      float64
}

type playerContactState struct {
	grounded bool
}

// NewPhysicsSystem creates a space with gravity in px/s² stepped at tps.
func NewPhysicsSystem(gravity float64, tps, iterations int) *PhysicsSystem {
	if tps <= 0 {
		tps = common.TPS
	}
	if iterations <= 0 {
		iterations = 10
	}
	ps := &PhysicsSystem{
		dt:           1 / float64(tps),
		gravity:      gravity,
		iterations:   iterations,
		entities:     make(map[ecs.Entity]*bodyInfo),
		playerShapes: make(map[*cp.Shape]ecs.Entity),
		groundShapes: make(map[*cp.Shape]ecs.Entity),
		pickupShapes: make(map[*cp.Shape]ecs.Entity),
		platformTops: make(map[*cp.Shape]float64),
		playerStates: make(map[ecs.Entity]*playerContactState),
	}
	ps.space = ps.newSpace()
	return ps
}

func DefaultPhysicsSystem() *PhysicsSystem {
	return NewPhysicsSystem(movement.Gravity, common.TPS, 10)
}

func (ps *PhysicsSystem) newSpace() *cp.Space {
	space := cp.NewSpace()
	space.Iterations = uint(ps.iterations)
	space.SetGravity(cp.Vector{X: 0, Y: ps.gravity})
	return space
}

// SetGravity changes the vertical gravity from the next step on.
func (ps *PhysicsSystem) SetGravity(g float64) {
	ps.gravity = g
	if ps.space != nil {
		ps.space.SetGravity(cp.Vector{X: 0, Y: g})
	}
}

func (ps *PhysicsSystem) Update(w *ecs.World) {
	if ps == nil || w == nil {
		return
	}

	ps.ensureHandlers()
	ps.syncEntities(w)
	ps.syncWorldBounds(w)
	ps.resetPlayerContacts(w)
	ps.lockRotation(w)

	ps.overlaps = ps.overlaps[:0]
	ps.space.Step(ps.dt)

	ps.syncTransforms(w)
	ps.flushPlayerContacts(w)
	ps.flushOverlaps(w)
}

func (ps *PhysicsSystem) playerFor(a, b *cp.Shape, shapes map[*cp.Shape]ecs.Entity) (ecs.Entity, *cp.Shape, bool) {
	if e, ok := shapes[a]; ok {
		return e, b, true
	}
	if e, ok := shapes[b]; ok {
		return e, a, true
	}
	return 0, nil, false
}

func (ps *PhysicsSystem) ensureHandlers() {
	if ps.handlersReady || ps.space == nil {
		return
	}

	oneWay := ps.space.NewCollisionHandler(collisionTypePlayer, collisionTypeOneWay)
	oneWay.UserData = ps
	oneWay.PreSolveFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		sys, ok := userData.(*PhysicsSystem)
		if !ok || sys == nil {
			return true
		}
		a, b := arb.Shapes()
		player, platform, ok := sys.playerFor(a, b, sys.playerShapes)
		if !ok {
			return true
		}
		return sys.landsOnPlatform(player, platform)
	}

	groundSolid := ps.space.NewCollisionHandler(collisionTypePlayerGround, collisionTypeSolid)
	groundSolid.UserData = ps
	groundSolid.PreSolveFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		sys, ok := userData.(*PhysicsSystem)
		if !ok || sys == nil {
			return true
		}
		a, b := arb.Shapes()
		if player, _, ok := sys.playerFor(a, b, sys.groundShapes); ok {
			sys.markGrounded(player)
		}
		return true
	}

	groundOneWay := ps.space.NewCollisionHandler(collisionTypePlayerGround, collisionTypeOneWay)
	groundOneWay.UserData = ps
	groundOneWay.PreSolveFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		sys, ok := userData.(*PhysicsSystem)
		if !ok || sys == nil {
			return true
		}
		a, b := arb.Shapes()
		player, platform, ok := sys.playerFor(a, b, sys.groundShapes)
		if ok && sys.landsOnPlatform(player, platform) {
			sys.markGrounded(player)
		}
		return true
	}

	// Sensor pairs are reported every step they overlap.
	pickups := ps.space.NewCollisionHandler(collisionTypePlayer, collisionTypePickup)
	pickups.UserData = ps
	pickups.PreSolveFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		sys, ok := userData.(*PhysicsSystem)
		if !ok || sys == nil {
			return true
		}
		a, b := arb.Shapes()
		player, other, ok := sys.playerFor(a, b, sys.playerShapes)
		if !ok {
			return true
		}
		if pickup, ok := sys.pickupShapes[other]; ok {
			sys.overlaps = append(sys.overlaps, ecs.OverlapEvent{Player: player, Other: pickup})
		}
		return true
	}

	ps.handlersReady = true
}

// landsOnPlatform reports whether the player is moving down onto the top of
// a one-way platform rather than passing through it from below or the side.
func (ps *PhysicsSystem) landsOnPlatform(player ecs.Entity, platform *cp.Shape) bool {
	top, ok := ps.platformTops[platform]
	if !ok {
		return true
	}
	info := ps.entities[player]
	if info == nil || info.body == nil {
		return false
	}
	vel := info.body.Velocity()
	if vel.Y < 0 {
		return false
	}
	feet := info.body.Position().Y + info.height/2
	return feet <= top+vel.Y*ps.dt+oneWaySlop
}

func (ps *PhysicsSystem) markGrounded(player ecs.Entity) {
	st := ps.playerStates[player]
	if st == nil {
		st = &playerContactState{}
		ps.playerStates[player] = st
	}
	st.grounded = true
}

func (ps *PhysicsSystem) syncEntities(w *ecs.World) {
	ps.cleanupEntities(w)

	ecs.ForEach2(w, component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, bodyComp *component.PhysicsBody, transform *component.Transform) {
		if info := ps.entities[e]; info != nil {
			if bodyComp.Body == nil || bodyComp.Shape == nil {
				bodyComp.Body = info.body
				bodyComp.Shape = info.mainShape
			}
			return
		}

		isPlayer := ecs.Has(w, e, component.PlayerTagComponent.Kind())
		isPickup := ecs.Has(w, e, component.PickupComponent.Kind())

		info := ps.createBodyInfo(transform, bodyComp, isPlayer, isPickup)
		if info == nil {
			return
		}
		ps.entities[e] = info
		if isPlayer {
			ps.playerShapes[info.mainShape] = e
			if info.groundShape != nil {
				ps.groundShapes[info.groundShape] = e
			}
		}
		if isPickup {
			ps.pickupShapes[info.mainShape] = e
		}
		bodyComp.Body = info.body
		bodyComp.Shape = info.mainShape
	})
}

func (ps *PhysicsSystem) createBodyInfo(transform *component.Transform, bodyComp *component.PhysicsBody, isPlayer, isPickup bool) *bodyInfo {
	width := bodyComp.Width
	height := bodyComp.Height
	if width <= 0 || height <= 0 {
		return nil
	}
	left := transform.X - width/2
	top := transform.Y - height/2

	info := &bodyInfo{static: bodyComp.Static || isPickup, height: height}

	if info.static {
		bb := cp.BB{L: left, B: top, R: left + width, T: top + height}
		shape := cp.NewBox2(ps.space.StaticBody, bb, 0)
		shape.SetFriction(bodyComp.Friction)
		switch {
		case isPickup || bodyComp.Sensor:
			shape.SetSensor(true)
			shape.SetCollisionType(collisionTypePickup)
		case bodyComp.OneWay:
			shape.SetCollisionType(collisionTypeOneWay)
			ps.platformTops[shape] = top
		default:
			shape.SetCollisionType(collisionTypeSolid)
		}
		ps.space.AddShape(shape)

		info.body = ps.space.StaticBody
		info.mainShape = shape
		info.shapes = []*cp.Shape{shape}
		return info
	}

	mass := bodyComp.Mass
	if mass <= 0 {
		mass = 1
	}
	body := cp.NewBody(mass, cp.MomentForBox(mass, width, height))
	body.SetPosition(cp.Vector{X: transform.X, Y: transform.Y})
	body.SetAngle(0)

	shape := cp.NewBox(body, width, height, 0)
	shape.SetFriction(bodyComp.Friction)
	shape.SetCollisionType(collisionTypeSolid)
	if isPlayer {
		shape.SetCollisionType(collisionTypePlayer)
	}

	ps.space.AddBody(body)
	ps.space.AddShape(shape)

	info.body = body
	info.mainShape = shape
	info.shapes = []*cp.Shape{shape}

	if isPlayer {
		ground := createGroundSensor(width, height, body)
		ps.space.AddShape(ground)
		info.groundShape = ground
		info.shapes = append(info.shapes, ground)
	}
	return info
}

// createGroundSensor adds a thin strip under the body's feet.
func createGroundSensor(width, height float64, body *cp.Body) *cp.Shape {
	groundBB := cp.BB{
		L: -width * 0.45,
		B: height / 2.0,
		R: width * 0.45,
		T: height/2.0 + 2,
	}
	groundShape := cp.NewBox2(body, groundBB, 0)
	groundShape.SetSensor(true)
	groundShape.SetCollisionType(collisionTypePlayerGround)
	return groundShape
}

func (ps *PhysicsSystem) syncWorldBounds(w *ecs.World) {
	if ps.boundsReady {
		return
	}
	boundsEntity, ok := ecs.First(w, component.LevelBoundsComponent.Kind())
	if !ok {
		return
	}
	bounds, ok := ecs.Get(w, boundsEntity, component.LevelBoundsComponent.Kind())
	if !ok || bounds.Width <= 0 || bounds.Height <= 0 {
		return
	}

	worldW, worldH := bounds.Width, bounds.Height
	segments := []struct {
		a cp.Vector
		b cp.Vector
	}{
		{a: cp.Vector{X: 0, Y: 0}, b: cp.Vector{X: worldW, Y: 0}},           // top
		{a: cp.Vector{X: 0, Y: worldH}, b: cp.Vector{X: worldW, Y: worldH}}, // bottom
		{a: cp.Vector{X: 0, Y: 0}, b: cp.Vector{X: 0, Y: worldH}},           // left
		{a: cp.Vector{X: worldW, Y: 0}, b: cp.Vector{X: worldW, Y: worldH}}, // right
	}

	info := &bodyInfo{static: true, body: ps.space.StaticBody}
	for _, seg := range segments {
		shape := cp.NewSegment(ps.space.StaticBody, seg.a, seg.b, 1)
		shape.SetCollisionType(collisionTypeSolid)
		ps.space.AddShape(shape)
		info.shapes = append(info.shapes, shape)
	}
	ps.entities[boundsEntity] = info
	ps.boundsReady = true
}

func (ps *PhysicsSystem) resetPlayerContacts(w *ecs.World) {
	for e := range ps.playerStates {
		if !ecs.IsAlive(w, e) {
			delete(ps.playerStates, e)
		}
	}
	ecs.ForEach(w, component.PlayerCollisionComponent.Kind(), func(e ecs.Entity, _ *component.PlayerCollision) {
		st := ps.playerStates[e]
		if st == nil {
			st = &playerContactState{}
			ps.playerStates[e] = st
		}
		st.grounded = false
	})
}

// lockRotation keeps dynamic bodies upright; the player is a box that must
// never tip over an edge.
func (ps *PhysicsSystem) lockRotation(w *ecs.World) {
	for _, info := range ps.entities {
		if info.static || info.body == nil {
			continue
		}
		info.body.SetAngle(0)
		info.body.SetAngularVelocity(0)
	}
}

func (ps *PhysicsSystem) flushPlayerContacts(w *ecs.World) {
	for e, st := range ps.playerStates {
		pc, ok := ecs.Get(w, e, component.PlayerCollisionComponent.Kind())
		if !ok {
			continue
		}
		pc.Grounded = st.grounded
	}
}

func (ps *PhysicsSystem) flushOverlaps(w *ecs.World) {
	if len(ps.overlaps) == 0 {
		return
	}
	seen := make(map[ecs.OverlapEvent]struct{}, len(ps.overlaps))
	for _, o := range ps.overlaps {
		if _, dup := seen[o]; dup {
			continue
		}
		seen[o] = struct{}{}
		w.Events().Push(ecs.Event{Type: ecs.EventOverlap, Data: o})
	}
}

func (ps *PhysicsSystem) syncTransforms(w *ecs.World) {
	ecs.ForEach2(w, component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, bodyComp *component.PhysicsBody, transform *component.Transform) {
		info := ps.entities[e]
		if info == nil || info.static || info.body == nil {
			return
		}
		pos := info.body.Position()
		transform.X = pos.X
		transform.Y = pos.Y
		transform.Rotation = 0
	})
}

func (ps *PhysicsSystem) cleanupEntities(w *ecs.World) {
	for e, info := range ps.entities {
		if ecs.IsAlive(w, e) && (ecs.Has(w, e, component.PhysicsBodyComponent.Kind()) || ecs.Has(w, e, component.LevelBoundsComponent.Kind())) {
			continue
		}

		for _, shape := range info.shapes {
			if shape == nil {
				continue
			}
			ps.space.RemoveShape(shape)
			delete(ps.playerShapes, shape)
			delete(ps.groundShapes, shape)
			delete(ps.pickupShapes, shape)
			delete(ps.platformTops, shape)
		}
		if info.body != nil && !info.static {
			ps.space.RemoveBody(info.body)
		}
		delete(ps.entities, e)
		delete(ps.playerStates, e)
	}
}
