package physics

import "github.com/jakecoffman/cp"

// Grip is a soft spring pulling a post body toward a pointer. The pointer is
// a kinematic body outside the space; the spring is tuned so that stiffness
// and damping act as the fraction of error removed per fixed step.
type Grip struct {
	id      string
	pointer *cp.Body
	spring  *cp.Constraint
	target  cp.Vector
}

// ID is the identity of the grabbed body.
func (g *Grip) ID() string {
	return g.id
}

// MoveTo sets where the pointer will be on the next step.
func (g *Grip) MoveTo(x, y float64) {
	g.target = cp.Vector{X: x, Y: y}
}

// Target is the last pointer position handed to MoveTo.
func (g *Grip) Target() (float64, float64) {
	return g.target.X, g.target.Y
}

func (g *Grip) advance(dt float64) {
	pos := g.pointer.Position()
	g.pointer.SetVelocityVector(g.target.Sub(pos).Mult(1 / dt))
	g.pointer.SetPosition(g.target)
}

// Grab attaches a spring between (x, y) and the body for id, anchored at the
// grabbed point on the body. It returns false if id is not registered.
func (w *World) Grab(id string, x, y, stiffness, damping float64) (*Grip, bool) {
	w.mustBeAlive()
	e, ok := w.bodies[id]
	if !ok {
		return nil, false
	}

	at := cp.Vector{X: x, Y: y}
	pointer := cp.NewKinematicBody()
	pointer.SetPosition(at)

	rate := float64(w.cfg.StepRate)
	mass := e.body.Mass()
	k := stiffness * mass * rate * rate
	c := damping * mass * rate
	spring := cp.NewDampedSpring(pointer, e.body, cp.Vector{}, e.body.WorldToLocal(at), 0, k, c)
	w.space.AddConstraint(spring)
	e.body.Activate()

	g := &Grip{id: id, pointer: pointer, spring: spring, target: at}
	w.joints[spring] = id
	w.grips[g] = struct{}{}
	w.log.Debug("grab", "id", id, "x", x, "y", y)
	return g, true
}

// Release removes the spring. Releasing twice, or after the body or the
// whole world is gone, is a no-op.
func (w *World) Release(g *Grip) {
	if g == nil || w.space == nil {
		return
	}
	delete(w.grips, g)
	if _, ok := w.joints[g.spring]; !ok {
		return
	}
	w.space.RemoveConstraint(g.spring)
	delete(w.joints, g.spring)
	w.log.Debug("release", "id", g.id)
}

// Grabbed reports whether any grip currently holds id.
func (w *World) Grabbed(id string) bool {
	for g := range w.grips {
		if g.id == id {
			return true
		}
	}
	return false
}
