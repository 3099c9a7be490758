package solverforge

import (
	"strconv"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// EnvironmentMode names the configured environment mode (spec.md §6). It is
// decoded into Config and defaults to NonReproducible; no solver component
// reads it, so no mode adds AssertNoDrift checks to a solve.
type EnvironmentMode string

const (
	NonReproducible EnvironmentMode = "non_reproducible"
	Reproducible    EnvironmentMode = "reproducible"
	FastAssert      EnvironmentMode = "fast_assert"
	FullAssert      EnvironmentMode = "full_assert"
)

// MoveThreadCount selects how many goroutines evaluate candidate moves in
// parallel during local search (spec.md §5). "auto" and "none" are
// recognized alongside a literal count; Resolve turns the string form into
// a concrete worker count.
type MoveThreadCount string

const (
	MoveThreadAuto MoveThreadCount = "auto"
	MoveThreadNone MoveThreadCount = "none"
)

// Resolve returns the concrete worker count this setting selects: 0 means
// sequential (no worker pool), auto defers to fallback (typically
// runtime.GOMAXPROCS), and anything else is parsed as a literal integer by
// ResolveMoveThreadCount below — Config.Decode stores it as a string so
// mapstructure doesn't have to special-case non-numeric enum values.
func (m MoveThreadCount) Resolve(fallback int) int {
	switch m {
	case "", MoveThreadNone:
		return 0
	case MoveThreadAuto:
		return fallback
	default:
		return ResolveMoveThreadCount(string(m), fallback)
	}
}

// TerminationConfig mirrors spec.md §6's termination block. Zero-valued
// fields are simply absent limits; BuildTermination skips them.
type TerminationConfig struct {
	SecondsSpentLimit           uint64 `mapstructure:"seconds_spent_limit"`
	MinutesSpentLimit           uint64 `mapstructure:"minutes_spent_limit"`
	BestScoreLimit              string `mapstructure:"best_score_limit"`
	StepCountLimit               int64  `mapstructure:"step_count_limit"`
	UnimprovedStepCountLimit     int64  `mapstructure:"unimproved_step_count_limit"`
	UnimprovedSecondsSpentLimit  uint64 `mapstructure:"unimproved_seconds_spent_limit"`
}

// ScoreDirectorConfig mirrors spec.md §6's score_director block.
type ScoreDirectorConfig struct {
	ConstraintMatchEnabled bool `mapstructure:"constraint_match_enabled"`
}

// AcceptorConfig mirrors spec.md §6's acceptor block. Only the fields
// relevant to the chosen Type are meaningful; unused ones are left zero.
type AcceptorConfig struct {
	Type                     string  `mapstructure:"type"`
	EntityTabuSize           int     `mapstructure:"entity_tabu_size"`
	ValueTabuSize            int     `mapstructure:"value_tabu_size"`
	MoveTabuSize             int     `mapstructure:"move_tabu_size"`
	UndoMoveTabuSize         int     `mapstructure:"undo_move_tabu_size"`
	StartingTemperature      float64 `mapstructure:"starting_temperature"`
	LateAcceptanceSize       int     `mapstructure:"late_acceptance_size"`
	WaterLevelIncreaseRatio  float64 `mapstructure:"water_level_increase_ratio"`
}

// ForagerConfig mirrors spec.md §6's forager block.
type ForagerConfig struct {
	AcceptedCountLimit int    `mapstructure:"accepted_count_limit"`
	PickEarlyType      string `mapstructure:"pick_early_type"`
}

// PhaseConfig mirrors one entry of spec.md §6's phases list. MoveSelector
// is left as a raw tree: its shape depends on the solution type's planning
// variables (entity/value types the config layer has no generic knowledge
// of), so callers decode it further themselves once they know S, A, V.
type PhaseConfig struct {
	Type                    string                 `mapstructure:"type"`
	ConstructionHeuristicType string               `mapstructure:"construction_heuristic_type"`
	Acceptor                AcceptorConfig         `mapstructure:"acceptor"`
	Forager                 ForagerConfig          `mapstructure:"forager"`
	MoveSelector            map[string]interface{} `mapstructure:"move_selector"`
	Termination             TerminationConfig      `mapstructure:"termination"`
	ExhaustiveSearchType    string                 `mapstructure:"exhaustive_search_type"`
	PartitionCount          int                    `mapstructure:"partition_count"`
	CustomPhaseClass        string                 `mapstructure:"custom_phase_class"`
}

// Config is the decoded form of spec.md §6's configuration tree. A missing
// config is equivalent to DefaultConfig(), not a decode error.
type Config struct {
	EnvironmentMode EnvironmentMode     `mapstructure:"environment_mode"`
	RandomSeed      int64               `mapstructure:"random_seed"`
	MoveThreadCount MoveThreadCount     `mapstructure:"move_thread_count"`
	Termination     TerminationConfig   `mapstructure:"termination"`
	ScoreDirector   ScoreDirectorConfig `mapstructure:"score_director"`
	Phases          []PhaseConfig       `mapstructure:"phases"`
}

// DefaultConfig returns the defaults spec.md §6 names for a missing config:
// one construction-heuristic phase (first_fit) then one local-search phase
// (late_acceptance, size 400), no termination.
func DefaultConfig() *Config {
	return &Config{
		EnvironmentMode: NonReproducible,
		MoveThreadCount: MoveThreadNone,
		Phases: []PhaseConfig{
			{Type: "construction_heuristic", ConstructionHeuristicType: "first_fit"},
			{Type: "local_search", Acceptor: AcceptorConfig{Type: "late_acceptance", LateAcceptanceSize: 400}},
		},
	}
}

// ResolveMoveThreadCount parses the literal-integer spelling of
// move_thread_count ("auto" and "none" are handled by MoveThreadCount.Resolve
// before reaching here); a non-numeric value falls back to fallback.
func ResolveMoveThreadCount(literal string, fallback int) int {
	n, err := strconv.Atoi(literal)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

// ErrInvalidConfig wraps a configuration decode failure (spec.md §7's
// Configuration error class — recoverable, reported to the caller, never
// panics).
var ErrInvalidConfig = errors.New("solverforge: invalid configuration")

// Decode walks an already-parsed configuration tree (e.g. unmarshaled TOML
// or YAML; loading the file itself is out of scope per spec.md §6) into a
// Config, using mapstructure so unknown keys are ignored rather than
// rejected — "unknown keys are ignored with a warning" per spec.md §6.
// A nil or empty tree decodes to DefaultConfig().
func Decode(tree map[string]interface{}) (*Config, error) {
	cfg := DefaultConfig()
	if len(tree) == 0 {
		return cfg, nil
	}

	var md mapstructure.Metadata
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
		ErrorUnused:      false,
		Metadata:         &md,
	})
	if err != nil {
		return nil, errors.Wrap(err, "solverforge: building config decoder")
	}
	if err := decoder.Decode(tree); err != nil {
		return nil, errors.Wrap(ErrInvalidConfig, err.Error())
	}
	for _, key := range md.Unused {
		logrus.WithField("key", key).Warn("solverforge: ignoring unknown configuration key")
	}
	return cfg, nil
}

// BuildTermination turns a TerminationConfig into a Termination, combining
// every limit that was actually set into one CompositeTermination.
// hardLevels is forwarded to ParseScore to interpret BestScoreLimit.
func BuildTermination(cfg TerminationConfig, hardLevels int) (Termination, error) {
	var children []Termination

	if cfg.SecondsSpentLimit > 0 {
		children = append(children, TimeLimit{Limit: time.Duration(cfg.SecondsSpentLimit) * time.Second})
	}
	if cfg.MinutesSpentLimit > 0 {
		children = append(children, TimeLimit{Limit: time.Duration(cfg.MinutesSpentLimit) * time.Minute})
	}
	if cfg.BestScoreLimit != "" {
		target, err := ParseScore(cfg.BestScoreLimit, hardLevels)
		if err != nil {
			return nil, errors.Wrap(err, "solverforge: parsing best_score_limit")
		}
		children = append(children, TargetScoreLimit{Target: target})
	}
	if cfg.StepCountLimit > 0 {
		children = append(children, StepCountLimit{Limit: cfg.StepCountLimit})
	}
	if cfg.UnimprovedStepCountLimit > 0 {
		children = append(children, UnimprovedStepCountLimit{Limit: cfg.UnimprovedStepCountLimit})
	}
	if cfg.UnimprovedSecondsSpentLimit > 0 {
		children = append(children, UnimprovedTimeLimit{Limit: time.Duration(cfg.UnimprovedSecondsSpentLimit) * time.Second})
	}

	return NewCompositeTermination(children...), nil
}
