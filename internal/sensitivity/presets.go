package sensitivity

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rpgo/rental-calculator/internal/domain"
)

// ErrPresetDirection is returned when a preset moves an input against the
// preset's direction
var ErrPresetDirection = errors.New("preset moves an input the wrong way")

// Preset names
const (
	PresetOptimistic  = "optimistic"
	PresetPessimistic = "pessimistic"
)

// Optimistic moves every directional catalog variable to its favourable bound
func Optimistic(catalog []domain.SensitivityVariable) domain.Scenario {
	return preset(PresetOptimistic, "Every swept input at its favourable bound", catalog, true)
}

// Pessimistic moves every directional catalog variable to its unfavourable bound
func Pessimistic(catalog []domain.SensitivityVariable) domain.Scenario {
	return preset(PresetPessimistic, "Every swept input at its unfavourable bound", catalog, false)
}

func preset(name, description string, catalog []domain.SensitivityVariable, favourable bool) domain.Scenario {
	var o domain.Overrides
	for _, v := range catalog {
		switch v.Field.Direction() {
		case domain.HigherIsBetter:
			if favourable {
				o.Set(v.Field, v.Max)
			} else {
				o.Set(v.Field, v.Min)
			}
		case domain.LowerIsBetter:
			if favourable {
				o.Set(v.Field, v.Min)
			} else {
				o.Set(v.Field, v.Max)
			}
		}
	}
	return domain.Scenario{Name: name, Description: description, Overrides: o}
}

// ValidatePreset checks that every override of a preset moves its field in
// the preset's direction relative to base. Neutral fields are not checked.
func ValidatePreset(s domain.Scenario, base domain.PropertyInputs, favourable bool) error {
	var errs []error
	for _, f := range s.Overrides.Fields() {
		v, _ := s.Overrides.Get(f)
		b := base.Get(f)
		var ok bool
		switch f.Direction() {
		case domain.HigherIsBetter:
			ok = v.GreaterThanOrEqual(b) == favourable || v.Equal(b)
		case domain.LowerIsBetter:
			ok = v.LessThanOrEqual(b) == favourable || v.Equal(b)
		default:
			continue
		}
		if !ok {
			errs = append(errs, fmt.Errorf("%s: %s value %s is on the wrong side of base %s", s.Name, f.Key(), v, b))
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrPresetDirection, errors.Join(errs...))
}

// CheckPresets validates every scenario named like a preset against base,
// whether generated or configured by hand
func CheckPresets(scenarios []domain.Scenario, base domain.PropertyInputs) error {
	var errs []error
	for _, s := range scenarios {
		switch {
		case strings.EqualFold(s.Name, PresetOptimistic):
			errs = append(errs, ValidatePreset(s, base, true))
		case strings.EqualFold(s.Name, PresetPessimistic):
			errs = append(errs, ValidatePreset(s, base, false))
		}
	}
	return errors.Join(errs...)
}
