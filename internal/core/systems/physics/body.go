package physics

var _ Body = (*KinematicBody)(nil)

// KinematicBody is an in-memory Body that integrates velocity into position.
// Used by the sandbox driver and tests in place of a real physics engine.
type KinematicBody struct {
	pos      Vec2
	vel      Vec2
	collider bool
}

func NewKinematicBody(pos, vel Vec2) *KinematicBody {
	return &KinematicBody{pos: pos, vel: vel, collider: true}
}

func (b *KinematicBody) Position() Vec2             { return b.pos }
func (b *KinematicBody) SetPosition(p Vec2)         { b.pos = p }
func (b *KinematicBody) Velocity() Vec2             { return b.vel }
func (b *KinematicBody) SetVelocity(v Vec2)         { b.vel = v }
func (b *KinematicBody) ColliderEnabled() bool      { return b.collider }
func (b *KinematicBody) SetColliderEnabled(on bool) { b.collider = on }

// Integrate advances position by velocity over dt seconds.
func (b *KinematicBody) Integrate(dt float64) {
	b.pos = b.pos.Add(b.vel.Scale(dt))
}

// ReflectAxisX mirrors the horizontal velocity component, as a vertical wall would.
func (b *KinematicBody) ReflectAxisX() { b.vel.X = -b.vel.X }

// ReflectAxisY mirrors the vertical velocity component, as a horizontal wall would.
func (b *KinematicBody) ReflectAxisY() { b.vel.Y = -b.vel.Y }
