package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Configuration errors - reported before any resampling is scheduled
	ErrConfiguration         = errors.New("invalid bootstrap configuration")
	ErrUnsupportedMeasure    = fmt.Errorf("%w: unsupported measure", ErrConfiguration)
	ErrUnsupportedTransform  = fmt.Errorf("%w: unsupported weight transform", ErrConfiguration)
	ErrNonPositiveReplicates = fmt.Errorf("%w: replicate count must be positive", ErrConfiguration)
	ErrTooFewReplicates      = fmt.Errorf("%w: at least two replicates required for a standard error", ErrConfiguration)
	ErrEmptyDensities        = fmt.Errorf("%w: density list is empty", ErrConfiguration)
	ErrDensityOutOfRange     = fmt.Errorf("%w: density outside (0,1]", ErrConfiguration)
	ErrBadConfidence         = fmt.Errorf("%w: confidence level outside (0,1)", ErrConfiguration)

	// Dependency errors - a required collaborator is absent
	ErrDependencyMissing = errors.New("required collaborator missing")

	// Computation errors
	ErrReplicateComputation = errors.New("replicate computation failed")
	ErrDegenerateResample   = fmt.Errorf("%w: degenerate resample", ErrReplicateComputation)
	ErrAggregation          = errors.New("aggregation invariant violated")

	// Data errors
	ErrEmptyDataset    = errors.New("dataset has no observations")
	ErrGroupNotFound   = errors.New("group not found")
	ErrShapeMismatch   = errors.New("dataset shape mismatch")
	ErrNoUsableColumns = errors.New("dataset has no usable columns")
)

// ReplicateError carries the failing replicate coordinates alongside the cause.
// It wraps ErrReplicateComputation so errors.Is checks keep working.
type ReplicateError struct {
	Group     GroupID
	Replicate int     // replicate index, -1 for the observed (unresampled) evaluation
	Density   float64 // density at which the failure occurred, 0 if unknown
	Cause     error
}

func (e *ReplicateError) Error() string {
	if e.Replicate < 0 {
		return fmt.Sprintf("observed statistic for group %q at density %g: %v", e.Group, e.Density, e.Cause)
	}
	return fmt.Sprintf("replicate %d for group %q at density %g: %v", e.Replicate, e.Group, e.Density, e.Cause)
}

func (e *ReplicateError) Unwrap() error { return e.Cause }

// Is makes every ReplicateError match ErrReplicateComputation.
func (e *ReplicateError) Is(target error) bool {
	return target == ErrReplicateComputation
}

// NewReplicateError wraps a cause with replicate coordinates.
func NewReplicateError(group GroupID, replicate int, density float64, cause error) error {
	return &ReplicateError{Group: group, Replicate: replicate, Density: density, Cause: cause}
}

// NewConfigError creates a configuration error with field context.
func NewConfigError(field string, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrConfiguration, field, reason)
}

// Error checking helpers
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

func IsReplicateError(err error) bool {
	return errors.Is(err, ErrReplicateComputation)
}

func IsDependencyError(err error) bool {
	return errors.Is(err, ErrDependencyMissing)
}

// AsReplicateError unwraps err to a *ReplicateError if one is in the chain.
func AsReplicateError(err error) (*ReplicateError, bool) {
	var re *ReplicateError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}
