package plan

import (
	"log/slog"

	"mapsynth/internal/common"
)

// ResolutionConfig holds class-level settings for the resolution process.
type ResolutionConfig struct {
	// IgnoreMissing skips source members without a target counterpart
	// instead of reporting them. A request directive overrides it.
	IgnoreMissing bool
	// DeepCopy allocates fresh containers even when storage could be shared.
	// A request directive overrides it.
	DeepCopy bool
	// StrictTargets reports settable target members that receive no value.
	StrictTargets bool
	// MaxSuggestions caps the name suggestions attached to a diagnostic.
	MaxSuggestions int
}

// DefaultConfig returns the default resolution configuration.
func DefaultConfig() ResolutionConfig {
	return ResolutionConfig{
		IgnoreMissing:  false,
		DeepCopy:       false,
		StrictTargets:  false,
		MaxSuggestions: 3,
	}
}

// Option customizes a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger used to trace resolution.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

func (c ResolutionConfig) ignoreMissing(override *bool) bool {
	return common.Deref(override, c.IgnoreMissing)
}

func (c ResolutionConfig) deepCopy(override *bool) bool {
	return common.Deref(override, c.DeepCopy)
}
