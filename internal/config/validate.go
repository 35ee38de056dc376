package config

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidConfig is returned (wrapped) for every configuration violation.
var ErrInvalidConfig = errors.New("invalid configuration")

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks ranges via struct tags and the ordering of every threshold set.
// All violations are reported together.
func (c *Config) Validate() error {
	var errs []error

	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				errs = append(errs, fmt.Errorf("%w: %s fails %q (value %v)", ErrInvalidConfig, fe.Namespace(), fe.Tag(), fe.Value()))
			}
		} else {
			errs = append(errs, fmt.Errorf("%w: %v", ErrInvalidConfig, err))
		}
	}

	t := c.ConfidenceThresholds
	if t.High < t.Medium {
		errs = append(errs, fmt.Errorf("%w: confidence_thresholds.high (%v) < medium (%v)", ErrInvalidConfig, t.High, t.Medium))
	}
	if t.Medium < t.Low {
		errs = append(errs, fmt.Errorf("%w: confidence_thresholds.medium (%v) < low (%v)", ErrInvalidConfig, t.Medium, t.Low))
	}

	lt := c.Critique.Confidence.Thresholds
	if lt.VeryHigh < lt.High {
		errs = append(errs, fmt.Errorf("%w: critique.confidence.thresholds.very_high (%v) < high (%v)", ErrInvalidConfig, lt.VeryHigh, lt.High))
	}
	if lt.High < lt.Medium {
		errs = append(errs, fmt.Errorf("%w: critique.confidence.thresholds.high (%v) < medium (%v)", ErrInvalidConfig, lt.High, lt.Medium))
	}
	if lt.Medium < lt.Low {
		errs = append(errs, fmt.Errorf("%w: critique.confidence.thresholds.medium (%v) < low (%v)", ErrInvalidConfig, lt.Medium, lt.Low))
	}

	return errors.Join(errs...)
}
