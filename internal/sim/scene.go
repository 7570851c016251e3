package sim

import (
	"errors"
	"fmt"
)

// DefaultDt mirrors the 1/30s step the animation loop historically used.
const DefaultDt = 1.0 / 30

// DefaultPlaybackSpeed is the tick rate, in ticks per second, when a scene
// does not choose one.
const DefaultPlaybackSpeed = 30.0

// defaultColors is the palette cycled over balls that don't pick a color.
var defaultColors = []string{"red", "green", "blue", "yellow"}

var ErrUnknownTableKind = errors.New("unknown table kind")

// SceneConfig is the configuration bundle a run is created from: the table
// geometry, per-ball initial state, and tick parameters. It is the explicit
// replacement for the untyped parameter dictionary the simulator used to be
// driven by.
type SceneConfig struct {
	Name          string       `json:"name"`
	Table         TableConfig  `json:"table"`
	Balls         []BallConfig `json:"balls"`
	Dt            float64      `json:"dt,omitempty"`
	PlaybackSpeed float64      `json:"playback_speed,omitempty"`
	Trace         bool         `json:"trace,omitempty"` // passed through to the renderer
}

// TableConfig selects a concrete table variant. Geometry fields are owned by
// the variant; the engine never reads them directly.
type TableConfig struct {
	Kind      string           `json:"kind"` // "circle", "rectangle", "polygon", "lorentz"
	Center    [2]float64       `json:"center,omitempty"`
	Radius    float64          `json:"radius,omitempty"`
	Width     float64          `json:"width,omitempty"`
	Height    float64          `json:"height,omitempty"`
	Vertices  [][2]float64     `json:"vertices,omitempty"`
	Obstacles []ObstacleConfig `json:"obstacles,omitempty"`
}

// ObstacleConfig is one circular scatterer of a Lorentz table.
type ObstacleConfig struct {
	Pos    [2]float64 `json:"pos"`
	Radius float64    `json:"radius"`
}

// BallConfig is one ball's initial state.
type BallConfig struct {
	Pos   [2]float64 `json:"pos"`
	Vel   [2]float64 `json:"vel"`
	Color string     `json:"color,omitempty"`
}

// EffectiveDt returns the configured time increment, or the default.
func (c SceneConfig) EffectiveDt() float64 {
	if c.Dt > 0 {
		return c.Dt
	}
	return DefaultDt
}

// EffectivePlaybackSpeed returns the configured tick rate, or the default.
func (c SceneConfig) EffectivePlaybackSpeed() float64 {
	if c.PlaybackSpeed > 0 {
		return c.PlaybackSpeed
	}
	return DefaultPlaybackSpeed
}

// BuildTable constructs the concrete table variant a scene names.
func BuildTable(cfg TableConfig) (Table, error) {
	switch cfg.Kind {
	case "circle":
		return NewCircleTable(NewVec2(cfg.Center[0], cfg.Center[1]), cfg.Radius)
	case "rectangle":
		return NewRectangleTable(cfg.Width, cfg.Height)
	case "polygon":
		vs := make([]Vec2, len(cfg.Vertices))
		for i, v := range cfg.Vertices {
			vs[i] = NewVec2(v[0], v[1])
		}
		return NewPolygonTable(vs)
	case "lorentz":
		ss := make([]Scatterer, len(cfg.Obstacles))
		for i, o := range cfg.Obstacles {
			ss[i] = Scatterer{Center: NewVec2(o.Pos[0], o.Pos[1]), Radius: o.Radius}
		}
		return NewLorentzTable(NewVec2(cfg.Center[0], cfg.Center[1]), cfg.Radius, ss)
	default:
		return nil, fmt.Errorf("%q: %w", cfg.Kind, ErrUnknownTableKind)
	}
}

// BuildSimulation constructs and validates a simulation from a scene. All
// configuration errors surface here, before the first tick.
func BuildSimulation(cfg SceneConfig) (*Simulation, error) {
	if cfg.Dt < 0 {
		return nil, fmt.Errorf("dt %g must be positive", cfg.Dt)
	}
	table, err := BuildTable(cfg.Table)
	if err != nil {
		return nil, err
	}
	balls := make([]*Ball, len(cfg.Balls))
	for i, bc := range cfg.Balls {
		color := bc.Color
		if color == "" {
			color = defaultColors[i%len(defaultColors)]
		}
		balls[i] = &Ball{
			Position: NewVec2(bc.Pos[0], bc.Pos[1]),
			Velocity: NewVec2(bc.Vel[0], bc.Vel[1]),
			Color:    color,
		}
	}
	return NewSimulation(table, balls)
}
