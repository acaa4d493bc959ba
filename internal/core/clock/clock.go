package clock

// ScaleProvider is the shared time-scale authority consulted every tick.
type ScaleProvider interface {
	TimeScale() float64
}

// FixedScale is a constant ScaleProvider.
type FixedScale float64

func (s FixedScale) TimeScale() float64 { return float64(s) }

// Clock accumulates scaled simulation time.
// Delay-based phases compare Now against recorded timestamps, so pausing
// (scale 0) freezes every in-flight phase without desynchronizing it.
type Clock struct {
	provider ScaleProvider
	now      float64
	tick     int64
	lastDt   float64
}

func New(provider ScaleProvider) *Clock {
	return &Clock{provider: provider}
}

// SetProvider replaces the scale authority; nil means scale 1.0.
func (c *Clock) SetProvider(p ScaleProvider) { c.provider = p }

// Scale returns the current time scale. A missing provider or a negative
// scale resolves to a safe value rather than an error.
func (c *Clock) Scale() float64 {
	if c.provider == nil {
		return 1
	}
	s := c.provider.TimeScale()
	if s < 0 || s != s {
		return 0
	}
	return s
}

// Advance moves the clock by one tick of unscaled dt and returns the scaled delta.
func (c *Clock) Advance(dt float64) float64 {
	if dt < 0 {
		dt = 0
	}
	scaled := dt * c.Scale()
	c.now += scaled
	c.tick++
	c.lastDt = scaled
	return scaled
}

// Now is the accumulated scaled time in seconds.
func (c *Clock) Now() float64 { return c.now }

// Tick is the number of Advance calls so far.
func (c *Clock) Tick() int64 { return c.tick }

// Delta is the scaled delta of the last tick.
func (c *Clock) Delta() float64 { return c.lastDt }

// Since returns scaled seconds elapsed since the timestamp.
func (c *Clock) Since(ts float64) float64 { return c.now - ts }

func (c *Clock) Reset() {
	c.now = 0
	c.tick = 0
	c.lastDt = 0
}
