package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Fepozopo/synthfill/pkg/synthesis"
)

// ParamType is a small enum for parameter types used in metadata.
type ParamType string

const (
	ParamTypeInt    ParamType = "int"
	ParamTypeFloat  ParamType = "float"
	ParamTypeBool   ParamType = "bool"
	ParamTypeString ParamType = "string"
	ParamTypeEnum   ParamType = "enum"
)

// ValidationRule is a machine-friendly representation of the constraints
// that a UI or client can use to validate input before invoking a command.
type ValidationRule struct {
	Type        ParamType
	Required    bool
	Min         *float64
	Max         *float64
	EnumOptions []string
	Hint        string
}

// ConfigParam describes one tunable field of synthesis.Config (spec.md §6)
// for the REPL's prompt/validate/apply loop.
type ConfigParam struct {
	Name  string
	Type  ParamType
	Hint  string
	Min   *float64
	Max   *float64
	Enum  []string
	Apply func(cfg *synthesis.Config, raw string) error
}

func floatPtr(f float64) *float64 { return &f }

var coarseInitializerNames = []string{
	"Random", "Appearance", "Erosion", "RandomErosion", "Contour",
	"PatchFullArea1", "PatchFullArea2", "PatchSubRegion1", "PatchSubRegion2",
	"PatchFullAreaHeuristic1", "PatchFullAreaHeuristic2",
}

func coarseInitializerFromName(name string) (synthesis.CoarseInitializerKind, bool) {
	for i, n := range coarseInitializerNames {
		if strings.EqualFold(n, name) {
			return synthesis.CoarseInitializerKind(i), true
		}
	}
	return 0, false
}

// ConfigParams lists every field Config exposes, in prompt order.
var ConfigParams = []ConfigParam{
	{
		Name: "coarseInitializer", Type: ParamTypeEnum, Enum: coarseInitializerNames,
		Hint: "strategy that seeds the coarsest level's mapping",
		Apply: func(cfg *synthesis.Config, raw string) error {
			kind, ok := coarseInitializerFromName(raw)
			if !ok {
				return fmt.Errorf("unknown coarse initializer: %q", raw)
			}
			cfg.CoarseInitializer = kind
			return nil
		},
	},
	{
		Name: "weightFactor", Type: ParamTypeFloat, Min: floatPtr(0), Hint: "appearance/spatial cost balance, typical 5",
		Apply: func(cfg *synthesis.Config, raw string) error {
			f, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return err
			}
			cfg.WeightFactor = f
			return nil
		},
	},
	{
		Name: "borderFactor", Type: ParamTypeInt, Min: floatPtr(1), Hint: "extra weight on patch pixels crossing into the target region, typical 25",
		Apply: func(cfg *synthesis.Config, raw string) error {
			v, err := strconv.Atoi(raw)
			if err != nil {
				return err
			}
			cfg.BorderFactor = v
			return nil
		},
	},
	{
		Name: "maxSpatialCost", Type: ParamTypeInt, Min: floatPtr(0), Hint: "spatial cost cap, default 4294967295; 0 caps every spatial cost at 0",
		Apply: func(cfg *synthesis.Config, raw string) error {
			v, err := strconv.ParseUint(raw, 10, 32)
			if err != nil {
				return err
			}
			cfg.MaxSpatialCost = uint32(v)
			return nil
		},
	},
	{
		Name: "optimizationIterations", Type: ParamTypeInt, Min: floatPtr(1), Hint: "sweeps per non-coarsest level, default 2",
		Apply: func(cfg *synthesis.Config, raw string) error {
			v, err := strconv.Atoi(raw)
			if err != nil {
				return err
			}
			cfg.OptimizationIterations = v
			return nil
		},
	},
	{
		Name: "coarsestSweeps", Type: ParamTypeInt, Min: floatPtr(0), Hint: "sweeps on the coarsest level, default 4",
		Apply: func(cfg *synthesis.Config, raw string) error {
			v, err := strconv.Atoi(raw)
			if err != nil {
				return err
			}
			cfg.CoarsestSweeps = v
			return nil
		},
	},
	{
		Name: "forced1ChannelLayers", Type: ParamTypeInt, Min: floatPtr(0), Hint: "finest K levels forced to grayscale for faster search",
		Apply: func(cfg *synthesis.Config, raw string) error {
			v, err := strconv.Atoi(raw)
			if err != nil {
				return err
			}
			cfg.Forced1ChannelLayers = v
			return nil
		},
	},
	{
		Name: "skippingLayers", Type: ParamTypeInt, Min: floatPtr(0), Hint: "finest levels where already-converged pixels are skipped",
		Apply: func(cfg *synthesis.Config, raw string) error {
			v, err := strconv.Atoi(raw)
			if err != nil {
				return err
			}
			cfg.SkippingLayers = v
			return nil
		},
	},
	{
		Name: "binomialOnCoarsest", Type: ParamTypeBool, Hint: "pre-smooth the level that is downsampled into the coarsest level",
		Apply: func(cfg *synthesis.Config, raw string) error {
			b, err := parseBoolLikeToString(raw)
			if err != nil {
				return err
			}
			cfg.BinomialOnCoarsest = b == "true"
			return nil
		},
	},
	{
		Name: "binomialOnFine", Type: ParamTypeBool, Hint: "pre-smooth each level before it is downsampled into a non-coarsest level",
		Apply: func(cfg *synthesis.Config, raw string) error {
			b, err := parseBoolLikeToString(raw)
			if err != nil {
				return err
			}
			cfg.BinomialOnFine = b == "true"
			return nil
		},
	},
	{
		Name: "appearanceCandidates", Type: ParamTypeInt, Min: floatPtr(1), Hint: "K random candidates tried per pixel by the Appearance initializer, typical 100",
		Apply: func(cfg *synthesis.Config, raw string) error {
			v, err := strconv.Atoi(raw)
			if err != nil {
				return err
			}
			cfg.AppearanceCandidates = v
			return nil
		},
	},
	{
		Name: "patchMatchWindowRadius", Type: ParamTypeInt, Min: floatPtr(0), Hint: "search window radius for the bounded PatchSubRegion* initializers, 0 means unbounded",
		Apply: func(cfg *synthesis.Config, raw string) error {
			v, err := strconv.Atoi(raw)
			if err != nil {
				return err
			}
			cfg.PatchMatchWindowRadius = v
			return nil
		},
	},
	{
		Name: "decayRadii", Type: ParamTypeInt, Min: floatPtr(1), Hint: "iterations of randomized decay search per optimizer sweep",
		Apply: func(cfg *synthesis.Config, raw string) error {
			v, err := strconv.Atoi(raw)
			if err != nil {
				return err
			}
			cfg.DecayRadii = v
			return nil
		},
	},
	{
		Name: "finestFloatSweeps", Type: ParamTypeInt, Min: floatPtr(0), Hint: "overrides optimizationIterations on the finest float-mapped level",
		Apply: func(cfg *synthesis.Config, raw string) error {
			v, err := strconv.Atoi(raw)
			if err != nil {
				return err
			}
			cfg.FinestFloatSweeps = v
			return nil
		},
	},
	{
		Name: "seamBlendBand", Type: ParamTypeInt, Min: floatPtr(0), Hint: "pixel band blended at the inner boundary during final assembly, 0 disables it",
		Apply: func(cfg *synthesis.Config, raw string) error {
			v, err := strconv.Atoi(raw)
			if err != nil {
				return err
			}
			cfg.SeamBlendBand = v
			return nil
		},
	},
}

// parseBoolLikeToString accepts common truthy/falsy forms and returns "true"/"false" string.
func parseBoolLikeToString(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "t", "true", "y", "yes", "on":
		return "true", nil
	case "0", "f", "false", "n", "no", "off":
		return "false", nil
	default:
		return "", fmt.Errorf("invalid boolean: %q", s)
	}
}

// GenerateTooltip produces a tooltip string for a ConfigParam.
func GenerateTooltip(p ConfigParam) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s (%s)", p.Name, p.Type))
	if p.Hint != "" {
		sb.WriteString(" — " + p.Hint)
	}
	if len(p.Enum) > 0 {
		sb.WriteString(" [" + strings.Join(p.Enum, ", ") + "]")
	}
	return sb.String()
}

// ApplyConfigParam validates raw against p's range/enum and, on success,
// sets the corresponding field on cfg. An empty raw leaves cfg untouched.
func ApplyConfigParam(cfg *synthesis.Config, p ConfigParam, raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if p.Type == ParamTypeInt || p.Type == ParamTypeFloat {
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("%s: expected a number, got %q", p.Name, raw)
		}
		if p.Min != nil && f < *p.Min {
			return fmt.Errorf("%s: %v is below minimum %v", p.Name, f, *p.Min)
		}
		if p.Max != nil && f > *p.Max {
			return fmt.Errorf("%s: %v is above maximum %v", p.Name, f, *p.Max)
		}
	}
	return p.Apply(cfg, raw)
}
