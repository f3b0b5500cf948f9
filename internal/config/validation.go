// Package config - validation logic for configuration values
package config

import (
	"errors"
	"fmt"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("config validation error: %s - %s", e.Field, e.Message)
}

// Validate checks all configuration values for validity
func (c *Config) Validate() error {
	var errs []error

	if c.Probe.Attempts <= 0 {
		errs = append(errs, ValidationError{
			Field:   "probe.attempts",
			Message: "must be greater than 0",
		})
	}

	if c.Probe.IntervalMs <= 0 {
		errs = append(errs, ValidationError{
			Field:   "probe.interval_ms",
			Message: "must be greater than 0",
		})
	}

	if c.Probe.JitterPercent < 0 || c.Probe.JitterPercent > 1 {
		errs = append(errs, ValidationError{
			Field:   "probe.jitter_percent",
			Message: "must be between 0 and 1",
		})
	}

	if c.Pacing.TypingTotalMs <= 0 {
		errs = append(errs, ValidationError{
			Field:   "pacing.typing_total_ms",
			Message: "must be greater than 0",
		})
	}

	if c.Pacing.InterProfileMinSec <= 0 {
		errs = append(errs, ValidationError{
			Field:   "pacing.inter_profile_min_sec",
			Message: "must be greater than 0",
		})
	}

	if c.Pacing.InterProfileMaxSec < c.Pacing.InterProfileMinSec {
		errs = append(errs, ValidationError{
			Field:   "pacing.inter_profile_max_sec",
			Message: "must be greater than or equal to inter_profile_min_sec",
		})
	}

	if c.Pacing.SendVerifyTimeoutSec <= 0 {
		errs = append(errs, ValidationError{
			Field:   "pacing.send_verify_timeout_sec",
			Message: "must be greater than 0",
		})
	}

	if c.Collect.MaxPages <= 0 {
		errs = append(errs, ValidationError{
			Field:   "collect.max_pages",
			Message: "must be greater than 0",
		})
	}

	if c.Collect.ScanIntervalMs <= 0 {
		errs = append(errs, ValidationError{
			Field:   "collect.scan_interval_ms",
			Message: "must be greater than 0",
		})
	}

	if c.Browser.ViewportWidth <= 0 {
		errs = append(errs, ValidationError{
			Field:   "browser.viewport_width",
			Message: "must be greater than 0",
		})
	}

	if c.Browser.ViewportHeight <= 0 {
		errs = append(errs, ValidationError{
			Field:   "browser.viewport_height",
			Message: "must be greater than 0",
		})
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// ValidateForCollect checks if config is valid for the collect command
func (c *Config) ValidateForCollect() error {
	if err := c.Validate(); err != nil {
		return err
	}

	if c.Collect.StartURL == "" && len(c.Collect.Keywords) == 0 {
		return ValidationError{
			Field:   "collect",
			Message: "either start_url or keywords is required",
		}
	}

	return nil
}

// ValidateForRun checks if config is valid for running the workflow
func (c *Config) ValidateForRun() error {
	return c.Validate()
}
