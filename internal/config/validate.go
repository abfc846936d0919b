package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var structValidator = validator.New(validator.WithRequiredStructEnabled())

// Validate ensures the configuration is usable. Struct tags cover the shape
// checks; a few cross-field rules are enforced by hand.
func (c *Config) Validate() error {
	if err := structValidator.Struct(c); err != nil {
		var invalid *validator.InvalidValidationError
		if errors.As(err, &invalid) {
			return fmt.Errorf("validate config: %w", invalid)
		}
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			first := fieldErrs[0]
			return fmt.Errorf("config field %s failed %q validation", first.Namespace(), first.Tag())
		}
		return fmt.Errorf("validate config: %w", err)
	}

	return c.validateConditions()
}

func (c *Config) validateConditions() error {
	seen := make(map[string]struct{}, len(c.Listing.ApprovedConditionIDs))
	for _, id := range c.Listing.ApprovedConditionIDs {
		id = strings.TrimSpace(id)
		if id == "" {
			return errors.New("listing.approved_condition_ids must not contain blank entries")
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("listing.approved_condition_ids contains duplicate %q", id)
		}
		seen[id] = struct{}{}
	}
	return nil
}
