package config

import (
	"fmt"
	"strings"

	"github.com/zhubert/chatstate/internal/kv"
)

// ValidationError describes a single validation problem.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks a merged Config and returns all problems found.
func Validate(cfg *Config) []ValidationError {
	var errs []ValidationError

	if !kv.IsBackend(cfg.Backend) {
		errs = append(errs, ValidationError{
			Field:   "backend",
			Message: fmt.Sprintf("unknown backend %q (must be %s)", cfg.Backend, strings.Join(kv.Backends, ", ")),
		})
	}

	if cfg.DataDir == "" && !strings.EqualFold(cfg.Backend, kv.BackendMemory) {
		errs = append(errs, ValidationError{
			Field:   "data_dir",
			Message: "data_dir is required for persistent backends",
		})
	}

	if cfg.ActClearDelay != nil && cfg.ActClearDelay.Duration < 0 {
		errs = append(errs, ValidationError{
			Field:   "act_clear_delay",
			Message: "must not be negative",
		})
	}

	if cfg.RecentExpire != nil && cfg.RecentExpire.Duration < 0 {
		errs = append(errs, ValidationError{
			Field:   "recent_expire",
			Message: "must not be negative",
		})
	}

	if v, ok := cfg.Session["amodel"]; ok {
		if _, isString := v.(string); !isString {
			errs = append(errs, ValidationError{
				Field:   "session.amodel",
				Message: "must be a string",
			})
		}
	}

	return errs
}
