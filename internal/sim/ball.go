package sim

// Ball holds the mutable kinematic state of one ball. The color tag is
// carried for the rendering side and never interpreted by the physics.
type Ball struct {
	Position Vec2   `json:"position"`
	Velocity Vec2   `json:"velocity"`
	Color    string `json:"color"`
}

// Speed returns the current speed. Elastic reflection conserves it, so any
// drift across ticks beyond floating-point rounding is a reflection bug.
func (b *Ball) Speed() float64 {
	return b.Velocity.Magnitude()
}
