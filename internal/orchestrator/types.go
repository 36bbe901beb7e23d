package orchestrator

import (
	"strings"
	"time"
)

// SpeedMode trades latency for completeness.
type SpeedMode string

const (
	SpeedFast          SpeedMode = "fast"
	SpeedBalanced      SpeedMode = "balanced"
	SpeedComprehensive SpeedMode = "comprehensive"
	SpeedAutonomous    SpeedMode = "autonomous"
)

// SpeedModes lists the accepted values in documentation order.
var SpeedModes = []string{
	string(SpeedAutonomous), string(SpeedFast), string(SpeedBalanced), string(SpeedComprehensive),
}

// ParseSpeedMode maps unknown or empty values to autonomous.
func ParseSpeedMode(s string) SpeedMode {
	switch m := SpeedMode(strings.ToLower(strings.TrimSpace(s))); m {
	case SpeedFast, SpeedBalanced, SpeedComprehensive:
		return m
	default:
		return SpeedAutonomous
	}
}

type HandleInput struct {
	Message           string
	IsNewConversation bool
	NeedsContext      bool
	SpeedMode         SpeedMode
}

// Config holds the latency budgets and limits of the engine.
type Config struct {
	FastLimit            int
	FastTimeout          time.Duration
	SearchTimeout        time.Duration
	SynthesisTimeout     time.Duration
	ComprehensiveTimeout time.Duration
	SearchThreshold      float64
	MinMemorableWords    int
	RegenerateEvery      int
	ActiveOwnerTTL       time.Duration
	MaxActiveOwners      int
}
