// pkg/config/config.go
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/spf13/viper"

	"github.com/opd-ai/go-flyreborn/pkg/entity"
	"github.com/opd-ai/go-flyreborn/pkg/flight"
	"github.com/opd-ai/go-flyreborn/pkg/physics"
	"github.com/opd-ai/go-flyreborn/pkg/validation"
)

// EnvPrefix prefixes environment overrides, e.g. FLY_GLIDER_STARTSPEED.
const EnvPrefix = "FLY"

// FlightConfig contains the tuning for a flight simulation
type FlightConfig struct {
	LogLevel   string           `json:"logLevel" mapstructure:"logLevel"`
	Simulation SimulationConfig `json:"simulation" mapstructure:"simulation"`
	Body       BodyConfig       `json:"body" mapstructure:"body"`
	Camera     CameraConfig     `json:"camera" mapstructure:"camera"`
	Autopilot  AutopilotConfig  `json:"autopilot" mapstructure:"autopilot"`
	Flying     FlyingConfig     `json:"flying" mapstructure:"flying"`
	Glider     GliderConfig     `json:"glider" mapstructure:"glider"`
	Recorder   RecorderConfig   `json:"recorder" mapstructure:"recorder"`
}

// SimulationConfig contains world stepping configuration
type SimulationConfig struct {
	TickRate      int     `json:"tickRate" mapstructure:"tickRate"`
	MaxDeltaTime  float64 `json:"maxDeltaTime" mapstructure:"maxDeltaTime"`
	GroundEnabled bool    `json:"groundEnabled" mapstructure:"groundEnabled"`
	GroundHeight  float64 `json:"groundHeight" mapstructure:"groundHeight"`
	PawnRadius    float64 `json:"pawnRadius" mapstructure:"pawnRadius"`
}

// BodyConfig contains rigid body configuration
type BodyConfig struct {
	Mass           float64 `json:"mass" mapstructure:"mass"`
	Inertia        float64 `json:"inertia" mapstructure:"inertia"`
	LinearDamping  float64 `json:"linearDamping" mapstructure:"linearDamping"`
	AngularDamping float64 `json:"angularDamping" mapstructure:"angularDamping"`
	EnableGravity  bool    `json:"enableGravity" mapstructure:"enableGravity"`
	Gravity        float64 `json:"gravity" mapstructure:"gravity"`
}

// CameraConfig contains spring arm configuration
type CameraConfig struct {
	ArmLength        float64 `json:"armLength" mapstructure:"armLength"`
	MouseSensitivity float64 `json:"mouseSensitivity" mapstructure:"mouseSensitivity"`
	MinPitch         float64 `json:"minPitch" mapstructure:"minPitch"`
	MaxPitch         float64 `json:"maxPitch" mapstructure:"maxPitch"`
	AimDistance      float64 `json:"aimDistance" mapstructure:"aimDistance"`
	EnableLag        bool    `json:"enableLag" mapstructure:"enableLag"`
	LagSpeed         float64 `json:"lagSpeed" mapstructure:"lagSpeed"`
	FieldOfView      float64 `json:"fieldOfView" mapstructure:"fieldOfView"`
}

// Vector3 is a plain xyz triple
type Vector3 struct {
	X float64 `json:"x" mapstructure:"x"`
	Y float64 `json:"y" mapstructure:"y"`
	Z float64 `json:"z" mapstructure:"z"`
}

// Vec3 converts to an mgl64 vector.
func (v Vector3) Vec3() mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

// AutopilotConfig contains steering configuration shared by every pawn
type AutopilotConfig struct {
	TurnAngleSensitivity float64 `json:"turnAngleSensitivity" mapstructure:"turnAngleSensitivity"`
	AggressiveTurnAngle  float64 `json:"aggressiveTurnAngle" mapstructure:"aggressiveTurnAngle"`
	// TurnTorque is roll, pitch and yaw authority.
	TurnTorque Vector3 `json:"turnTorque" mapstructure:"turnTorque"`
}

// FlyingConfig contains powered aircraft configuration
type FlyingConfig struct {
	ThrustForce float64 `json:"thrustForce" mapstructure:"thrustForce"`
}

// GliderConfig contains glider speed and lift configuration
type GliderConfig struct {
	StartSpeed              float64 `json:"startSpeed" mapstructure:"startSpeed"`
	MinimumSpeed            float64 `json:"minimumSpeed" mapstructure:"minimumSpeed"`
	MaximumSpeed            float64 `json:"maximumSpeed" mapstructure:"maximumSpeed"`
	DiveSpeedIncreaseScalar float64 `json:"diveSpeedIncreaseScalar" mapstructure:"diveSpeedIncreaseScalar"`
	RiseSpeedDecreaseScalar float64 `json:"riseSpeedDecreaseScalar" mapstructure:"riseSpeedDecreaseScalar"`
	BankLossStartAngle      float64 `json:"bankLossStartAngle" mapstructure:"bankLossStartAngle"`
	BankLossFullAngle       float64 `json:"bankLossFullAngle" mapstructure:"bankLossFullAngle"`
	MaxTurnSpeedLossFactor  float64 `json:"maxTurnSpeedLossFactor" mapstructure:"maxTurnSpeedLossFactor"`
	LiftPitchScalar         float64 `json:"liftPitchScalar" mapstructure:"liftPitchScalar"`
	LiftScalar              float64 `json:"liftScalar" mapstructure:"liftScalar"`
	FullControlSpeed        float64 `json:"fullControlSpeed" mapstructure:"fullControlSpeed"`
	MinimumAirControl       float64 `json:"minimumAirControl" mapstructure:"minimumAirControl"`
}

// RecorderConfig selects where telemetry is written
type RecorderConfig struct {
	// Backend is "none", "memory" or "sqlite".
	Backend     string `json:"backend" mapstructure:"backend"`
	Path        string `json:"path" mapstructure:"path"`
	RecordEvery int    `json:"recordEvery" mapstructure:"recordEvery"`
}

// Recorder backends
const (
	RecorderNone   = "none"
	RecorderMemory = "memory"
	RecorderSQLite = "sqlite"
)

// DefaultConfig returns the stock flight configuration
func DefaultConfig() *FlightConfig {
	return &FlightConfig{
		LogLevel: "info",
		Simulation: SimulationConfig{
			TickRate:      60,
			MaxDeltaTime:  0.1,
			GroundEnabled: false,
			GroundHeight:  0,
			PawnRadius:    50,
		},
		Body: BodyConfig{
			Mass:           100,
			Inertia:        100,
			LinearDamping:  0.7,
			AngularDamping: 5.0,
			EnableGravity:  false,
			Gravity:        -980,
		},
		Camera: CameraConfig{
			ArmLength:        300,
			MouseSensitivity: 1.0,
			MinPitch:         -90,
			MaxPitch:         90,
			AimDistance:      1000,
			EnableLag:        true,
			LagSpeed:         10,
			FieldOfView:      90,
		},
		Autopilot: AutopilotConfig{
			TurnAngleSensitivity: 1.0,
			AggressiveTurnAngle:  10.0,
			TurnTorque:           Vector3{X: 45, Y: 25, Z: 45},
		},
		Flying: FlyingConfig{
			ThrustForce: 5000,
		},
		Glider: GliderConfig{
			StartSpeed:              3000,
			MinimumSpeed:            -100,
			MaximumSpeed:            3000,
			DiveSpeedIncreaseScalar: 4,
			RiseSpeedDecreaseScalar: 6,
			BankLossStartAngle:      10,
			BankLossFullAngle:       60,
			MaxTurnSpeedLossFactor:  0.5,
			LiftPitchScalar:         0.2,
			LiftScalar:              30,
			FullControlSpeed:        0,
			MinimumAirControl:       0.2,
		},
		Recorder: RecorderConfig{
			Backend:     RecorderNone,
			RecordEvery: 6,
		},
	}
}

// setDefaults registers every key so that env overrides reach Unmarshal.
func setDefaults(v *viper.Viper, d *FlightConfig) {
	v.SetDefault("logLevel", d.LogLevel)

	v.SetDefault("simulation.tickRate", d.Simulation.TickRate)
	v.SetDefault("simulation.maxDeltaTime", d.Simulation.MaxDeltaTime)
	v.SetDefault("simulation.groundEnabled", d.Simulation.GroundEnabled)
	v.SetDefault("simulation.groundHeight", d.Simulation.GroundHeight)
	v.SetDefault("simulation.pawnRadius", d.Simulation.PawnRadius)

	v.SetDefault("body.mass", d.Body.Mass)
	v.SetDefault("body.inertia", d.Body.Inertia)
	v.SetDefault("body.linearDamping", d.Body.LinearDamping)
	v.SetDefault("body.angularDamping", d.Body.AngularDamping)
	v.SetDefault("body.enableGravity", d.Body.EnableGravity)
	v.SetDefault("body.gravity", d.Body.Gravity)

	v.SetDefault("camera.armLength", d.Camera.ArmLength)
	v.SetDefault("camera.mouseSensitivity", d.Camera.MouseSensitivity)
	v.SetDefault("camera.minPitch", d.Camera.MinPitch)
	v.SetDefault("camera.maxPitch", d.Camera.MaxPitch)
	v.SetDefault("camera.aimDistance", d.Camera.AimDistance)
	v.SetDefault("camera.enableLag", d.Camera.EnableLag)
	v.SetDefault("camera.lagSpeed", d.Camera.LagSpeed)
	v.SetDefault("camera.fieldOfView", d.Camera.FieldOfView)

	v.SetDefault("autopilot.turnAngleSensitivity", d.Autopilot.TurnAngleSensitivity)
	v.SetDefault("autopilot.aggressiveTurnAngle", d.Autopilot.AggressiveTurnAngle)
	v.SetDefault("autopilot.turnTorque.x", d.Autopilot.TurnTorque.X)
	v.SetDefault("autopilot.turnTorque.y", d.Autopilot.TurnTorque.Y)
	v.SetDefault("autopilot.turnTorque.z", d.Autopilot.TurnTorque.Z)

	v.SetDefault("flying.thrustForce", d.Flying.ThrustForce)

	v.SetDefault("glider.startSpeed", d.Glider.StartSpeed)
	v.SetDefault("glider.minimumSpeed", d.Glider.MinimumSpeed)
	v.SetDefault("glider.maximumSpeed", d.Glider.MaximumSpeed)
	v.SetDefault("glider.diveSpeedIncreaseScalar", d.Glider.DiveSpeedIncreaseScalar)
	v.SetDefault("glider.riseSpeedDecreaseScalar", d.Glider.RiseSpeedDecreaseScalar)
	v.SetDefault("glider.bankLossStartAngle", d.Glider.BankLossStartAngle)
	v.SetDefault("glider.bankLossFullAngle", d.Glider.BankLossFullAngle)
	v.SetDefault("glider.maxTurnSpeedLossFactor", d.Glider.MaxTurnSpeedLossFactor)
	v.SetDefault("glider.liftPitchScalar", d.Glider.LiftPitchScalar)
	v.SetDefault("glider.liftScalar", d.Glider.LiftScalar)
	v.SetDefault("glider.fullControlSpeed", d.Glider.FullControlSpeed)
	v.SetDefault("glider.minimumAirControl", d.Glider.MinimumAirControl)

	v.SetDefault("recorder.backend", d.Recorder.Backend)
	v.SetDefault("recorder.path", d.Recorder.Path)
	v.SetDefault("recorder.recordEvery", d.Recorder.RecordEvery)
}

// newViper returns a viper instance with defaults and FLY_ env overrides.
func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v, DefaultConfig())
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// LoadConfig loads a configuration from a JSON or YAML file. Missing keys
// keep their defaults and FLY_ environment variables override both. An
// empty path loads defaults and environment only.
func LoadConfig(path string) (*FlightConfig, error) {
	v := newViper()

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("failed to open config file: %w", err)
		}
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	var cfg FlightConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// SaveConfig saves a configuration to a file
func SaveConfig(config *FlightConfig, path string) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate reports every out-of-range tuning value
func (c *FlightConfig) Validate() error {
	var check validation.Checker

	check.Add(validation.ValidateTickRate(c.Simulation.TickRate))
	check.Positive("simulation.maxDeltaTime", c.Simulation.MaxDeltaTime)
	check.Finite("simulation.groundHeight", c.Simulation.GroundHeight)
	check.NonNegative("simulation.pawnRadius", c.Simulation.PawnRadius)

	check.Positive("body.mass", c.Body.Mass)
	check.Positive("body.inertia", c.Body.Inertia)
	check.NonNegative("body.linearDamping", c.Body.LinearDamping)
	check.NonNegative("body.angularDamping", c.Body.AngularDamping)
	check.Finite("body.gravity", c.Body.Gravity)

	check.NonNegative("camera.armLength", c.Camera.ArmLength)
	check.Finite("camera.mouseSensitivity", c.Camera.MouseSensitivity)
	check.InRange("camera.minPitch", c.Camera.MinPitch, -90, 90)
	check.InRange("camera.maxPitch", c.Camera.MaxPitch, -90, 90)
	check.Ordered("camera.minPitch", c.Camera.MinPitch, "camera.maxPitch", c.Camera.MaxPitch)
	check.Positive("camera.aimDistance", c.Camera.AimDistance)
	check.NonNegative("camera.lagSpeed", c.Camera.LagSpeed)
	check.InRange("camera.fieldOfView", c.Camera.FieldOfView, 1, 179)

	check.Finite("autopilot.turnAngleSensitivity", c.Autopilot.TurnAngleSensitivity)
	check.Finite("autopilot.aggressiveTurnAngle", c.Autopilot.AggressiveTurnAngle)
	check.NonNegative("autopilot.turnTorque.x", c.Autopilot.TurnTorque.X)
	check.NonNegative("autopilot.turnTorque.y", c.Autopilot.TurnTorque.Y)
	check.NonNegative("autopilot.turnTorque.z", c.Autopilot.TurnTorque.Z)

	check.Finite("flying.thrustForce", c.Flying.ThrustForce)

	g := c.Glider
	check.Ordered("glider.minimumSpeed", g.MinimumSpeed, "glider.maximumSpeed", g.MaximumSpeed)
	check.NonNegative("glider.maximumSpeed", g.MaximumSpeed)
	check.NonNegative("glider.startSpeed", g.StartSpeed)
	check.NonNegative("glider.diveSpeedIncreaseScalar", g.DiveSpeedIncreaseScalar)
	check.NonNegative("glider.riseSpeedDecreaseScalar", g.RiseSpeedDecreaseScalar)
	check.InRange("glider.bankLossStartAngle", g.BankLossStartAngle, 0, 180)
	check.InRange("glider.bankLossFullAngle", g.BankLossFullAngle, 0, 180)
	check.Ordered("glider.bankLossStartAngle", g.BankLossStartAngle, "glider.bankLossFullAngle", g.BankLossFullAngle)
	check.InRange("glider.maxTurnSpeedLossFactor", g.MaxTurnSpeedLossFactor, 0, 1)
	check.NonNegative("glider.liftPitchScalar", g.LiftPitchScalar)
	check.NonNegative("glider.liftScalar", g.LiftScalar)
	check.Finite("glider.fullControlSpeed", g.FullControlSpeed)
	check.InRange("glider.minimumAirControl", g.MinimumAirControl, 0, 1)

	switch c.Recorder.Backend {
	case RecorderNone, RecorderMemory, RecorderSQLite, "":
	default:
		check.Add(fmt.Errorf("unknown recorder backend %q", c.Recorder.Backend))
	}
	if c.Recorder.RecordEvery < 0 {
		check.Add(fmt.Errorf("recorder.recordEvery cannot be negative: %d", c.Recorder.RecordEvery))
	}

	return check.Err()
}

// TimeStep returns the fixed simulation step in seconds.
func (c *FlightConfig) TimeStep() float64 {
	return 1.0 / float64(c.Simulation.TickRate)
}

// BodyConfig converts to the integrator's configuration.
func (c *FlightConfig) BodyConfig() physics.BodyConfig {
	return physics.BodyConfig{
		Mass:           c.Body.Mass,
		Inertia:        c.Body.Inertia,
		LinearDamping:  c.Body.LinearDamping,
		AngularDamping: c.Body.AngularDamping,
		EnableGravity:  c.Body.EnableGravity,
		Gravity:        c.Body.Gravity,
	}
}

// CameraRigConfig converts to the spring arm's configuration.
func (c *FlightConfig) CameraRigConfig() flight.CameraRigConfig {
	return flight.CameraRigConfig{
		ArmLength:        c.Camera.ArmLength,
		MouseSensitivity: c.Camera.MouseSensitivity,
		MinPitch:         c.Camera.MinPitch,
		MaxPitch:         c.Camera.MaxPitch,
		AimDistance:      c.Camera.AimDistance,
		EnableLag:        c.Camera.EnableLag,
		LagSpeed:         c.Camera.LagSpeed,
		FieldOfView:      c.Camera.FieldOfView,
	}
}

// AutopilotSettings converts to the autopilot tuning.
func (c *FlightConfig) AutopilotSettings() flight.Autopilot {
	return flight.Autopilot{
		TurnAngleSensitivity: c.Autopilot.TurnAngleSensitivity,
		AggressiveTurnAngle:  c.Autopilot.AggressiveTurnAngle,
	}
}

// FlyingPawnConfig builds the tuning for a powered aircraft.
func (c *FlightConfig) FlyingPawnConfig() entity.FlyingConfig {
	return entity.FlyingConfig{
		Camera:      c.CameraRigConfig(),
		Autopilot:   c.AutopilotSettings(),
		TurnTorque:  c.Autopilot.TurnTorque.Vec3(),
		ThrustForce: c.Flying.ThrustForce,
	}
}

// GliderPawnConfig builds the tuning for a glider.
func (c *FlightConfig) GliderPawnConfig() entity.GliderConfig {
	g := c.Glider
	return entity.GliderConfig{
		Camera:     c.CameraRigConfig(),
		Autopilot:  c.AutopilotSettings(),
		TurnTorque: c.Autopilot.TurnTorque.Vec3(),
		Speed: flight.SpeedModel{
			MinimumSpeed:            g.MinimumSpeed,
			MaximumSpeed:            g.MaximumSpeed,
			DiveSpeedIncreaseScalar: g.DiveSpeedIncreaseScalar,
			RiseSpeedDecreaseScalar: g.RiseSpeedDecreaseScalar,
			BankLossStartAngle:      g.BankLossStartAngle,
			BankLossFullAngle:       g.BankLossFullAngle,
			MaxTurnSpeedLossFactor:  g.MaxTurnSpeedLossFactor,
		},
		Lift: flight.LiftModel{
			PitchScalar: g.LiftPitchScalar,
			LiftScalar:  g.LiftScalar,
		},
		AirControl: flight.AirControl{
			FullControlSpeed: g.FullControlSpeed,
			Minimum:          g.MinimumAirControl,
		},
		StartSpeed: g.StartSpeed,
	}
}

// Clone returns a deep copy. FlightConfig holds only values.
func (c *FlightConfig) Clone() *FlightConfig {
	clone := *c
	return &clone
}
