// Package pipeline holds the pure core of the prediction generation flow:
// the ruleset definitions, the prompt composer, the post-generation
// validation rules, and the error taxonomy shared by every pipeline stage.
package pipeline

import (
	"fmt"
)

// ConfigurationError indicates a required credential or setting is absent.
// Fatal for the run; there is nothing to retry.
type ConfigurationError struct {
	Setting string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s is not set", e.Setting)
}

// UpstreamError indicates the third-party fixture API returned a
// non-success response. Fatal for the run after retries are exhausted.
type UpstreamError struct {
	Service    string
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s returned status %d: %s", e.Service, e.StatusCode, e.Body)
}

// GenerationError indicates the generative service produced no usable
// output. Fatal; partial results are never accepted.
type GenerationError struct {
	Reason string
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed: %s", e.Reason)
}

// ValidationError indicates the generated output violates a hard invariant.
// Fatal; the run aborts before anything is persisted.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", e.Reason)
}
