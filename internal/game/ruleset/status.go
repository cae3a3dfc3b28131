package ruleset

import (
	"errors"
	"fmt"
)

// StatusTemplate is an immutable buff or debuff definition.
type StatusTemplate struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	IsDebuff    bool   `yaml:"debuff"`
	// Permanent statuses survive cleanses and death-removal; only a forced removal
	// or expiry takes them off.
	Permanent bool `yaml:"permanent"`
	Stackable bool `yaml:"stackable"`
	StackSize int  `yaml:"stack_size"`
	// Duration in the affected character's turns; <= 0 never expires on its own.
	Duration  int       `yaml:"duration"`
	Modifiers Modifiers `yaml:"modifiers"`
	Payload   `yaml:",inline"`
}

// MaxStacks returns the stack limit: StackSize for stackable statuses, 1 otherwise.
func (s *StatusTemplate) MaxStacks() int {
	if !s.Stackable || s.StackSize < 1 {
		return 1
	}
	return s.StackSize
}

// Expires reports whether the status counts down.
func (s *StatusTemplate) Expires() bool {
	return s.Duration > 0
}

// Validate checks the template invariants.
//
// Postcondition: Returns nil iff ID and Name are non-empty and a stackable status
// declares stack_size >= 1.
func (s *StatusTemplate) Validate() error {
	var errs []error
	if s.ID == "" {
		errs = append(errs, errors.New("status: id must not be empty"))
	}
	if s.Name == "" {
		errs = append(errs, fmt.Errorf("status %q: name must not be empty", s.ID))
	}
	if s.Stackable && s.StackSize < 1 {
		errs = append(errs, fmt.Errorf("status %q: stackable statuses need stack_size >= 1, got %d", s.ID, s.StackSize))
	}
	return errors.Join(errs...)
}
