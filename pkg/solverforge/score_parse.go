package solverforge

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ErrInvalidScoreString is wrapped by ParseScore when its input does not
// match the canonical score grammar (spec.md §6).
var ErrInvalidScoreString = errors.New("solverforge: invalid score string")

// ParseScore parses the canonical score string form from spec.md §6:
// "<h>hard/<s>soft" for the common two-level case, or "<l1>/<l2>/.../<lN>"
// for N levels in canonical (hard-first) order. Whitespace is ignored.
// Non-integer levels are accepted only in the "12.34" form, and every level
// written with a decimal point must have the same number of fractional
// digits; a DecimalScore at that scale is then returned, with any integer
// levels read at the same scale.
//
// hardLevels tells the parser how many of the N parsed levels are hard; for
// the "hard/soft" spelling this is always 1 and is inferred from the
// literal "hard"/"soft" suffixes instead of the parameter.
func ParseScore(s string, hardLevels int) (Score, error) {
	s = strings.Join(strings.Fields(s), "")
	if s == "" {
		return nil, errors.Wrap(ErrInvalidScoreString, "empty input")
	}

	if strings.Contains(s, "hard") || strings.Contains(s, "soft") {
		return parseHardSoftString(s)
	}

	parts := strings.Split(s, "/")
	if hardLevels < 0 || hardLevels > len(parts) {
		return nil, errors.Wrapf(ErrInvalidScoreString, "hardLevels %d out of range for %d levels", hardLevels, len(parts))
	}

	scale := -1
	for _, p := range parts {
		if dot := strings.IndexByte(p, '.'); dot >= 0 {
			frac := len(p) - dot - 1
			if scale == -1 {
				scale = frac
			} else if frac != scale {
				return nil, errors.Wrapf(ErrInvalidScoreString, "inconsistent decimal scale in %q", s)
			}
		}
	}

	if scale == -1 {
		values := make([]int64, len(parts))
		for i, p := range parts {
			v, err := strconv.ParseInt(p, 10, 64)
			if err != nil {
				return nil, errors.Wrapf(ErrInvalidScoreString, "level %q is not an integer", p)
			}
			values[i] = v
		}
		return NewBendableScore(hardLevels, values...), nil
	}

	factor := 1.0
	for i := 0; i < scale; i++ {
		factor *= 10
	}
	scaled := make([]int64, len(parts))
	for i, p := range parts {
		f, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidScoreString, "level %q is not a decimal", p)
		}
		scaled[i] = int64(f*factor + 0.5*sign(f))
	}
	return NewDecimalScore(hardLevels, scale, scaled...), nil
}

func sign(f float64) float64 {
	if f < 0 {
		return -1
	}
	return 1
}

func parseHardSoftString(s string) (Score, error) {
	const hardSuffix, softSuffix = "hard/", "soft"
	hardIdx := strings.Index(s, hardSuffix)
	if hardIdx < 0 || !strings.HasSuffix(s, softSuffix) {
		return nil, errors.Wrapf(ErrInvalidScoreString, "%q is not of the form <hard>hard/<soft>soft", s)
	}
	hardPart := s[:hardIdx]
	softPart := s[hardIdx+len(hardSuffix) : len(s)-len(softSuffix)]

	hard, err := strconv.ParseInt(hardPart, 10, 64)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidScoreString, "hard level %q is not an integer", hardPart)
	}
	soft, err := strconv.ParseInt(softPart, 10, 64)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidScoreString, "soft level %q is not an integer", softPart)
	}
	return NewHardSoftScore(hard, soft), nil
}

// MustParseScore is ParseScore without an error return, for use in tests
// and examples where a malformed literal is a programmer error.
func MustParseScore(s string, hardLevels int) Score {
	score, err := ParseScore(s, hardLevels)
	if err != nil {
		panic(fmt.Sprintf("solverforge: %v", err))
	}
	return score
}
