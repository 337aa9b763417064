package common

import (
	"fmt"
	"strings"
)

// FieldError names one configuration key and what is wrong with it.
type FieldError struct {
	Key     string
	Problem string
}

func (e FieldError) Error() string {
	return e.Key + " " + e.Problem
}

// Checks accumulates FieldErrors so every bad setting is reported at once.
type Checks struct {
	errs []FieldError
}

// NotBlank flags a value that is empty after trimming.
func (c *Checks) NotBlank(key, value string) {
	if strings.TrimSpace(value) == "" {
		c.add(key, "is required")
	}
}

// OneOf flags a value outside allowed (case-insensitive).
func (c *Checks) OneOf(key, value string, allowed ...string) {
	for _, a := range allowed {
		if strings.EqualFold(value, a) {
			return
		}
	}
	c.add(key, fmt.Sprintf("must be one of %s (got %q)", strings.Join(allowed, ", "), value))
}

// Positive flags zero and negative values.
func (c *Checks) Positive(key string, value int64) {
	if value <= 0 {
		c.add(key, "must be positive")
	}
}

func (c *Checks) add(key, problem string) {
	c.errs = append(c.errs, FieldError{Key: key, Problem: problem})
}

// Errors returns the collected problems in the order they were found.
func (c *Checks) Errors() []FieldError { return c.errs }

// Err joins the collected problems, or returns nil when there are none.
func (c *Checks) Err() error {
	if len(c.errs) == 0 {
		return nil
	}
	msgs := make([]string, len(c.errs))
	for i, e := range c.errs {
		msgs[i] = e.Error()
	}
	return NewAppError(CodeConfig, strings.Join(msgs, "; "), ErrInvalidInput)
}
