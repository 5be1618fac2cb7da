// Package flags holds the console's feature switches from the flags section
// of the config.
package flags

import (
	"maps"
	"slices"

	"github.com/zirconconsole/zircon/internal/log"
)

const (
	// FlagLiveLogs streams log records into the console scrollback.
	FlagLiveLogs = "live-logs"

	// FlagTraceIDs appends the execution trace id to command errors.
	FlagTraceIDs = "trace-ids"
)

// Known lists every flag with a one-line description.
var Known = map[string]string{
	FlagLiveLogs: "show Info and above log records in the scrollback",
	FlagTraceIDs: "append the trace id to command errors",
}

// Registry is the resolved set of flags. It never changes after New.
type Registry struct {
	flags map[string]bool
}

// New resolves config against Known. Every known flag starts disabled;
// unknown names are logged and dropped.
func New(config map[string]bool) *Registry {
	r := &Registry{flags: make(map[string]bool, len(Known))}
	for name := range Known {
		r.flags[name] = false
	}
	for name, on := range config {
		if _, ok := Known[name]; !ok {
			log.Warn(log.CatConfig, "ignoring unknown flag", "flag", name)
			continue
		}
		r.flags[name] = on
	}
	log.Debug(log.CatConfig, "flags resolved", "enabled", r.EnabledNames())
	return r
}

// Enabled reports whether name is on. A nil registry has every flag off.
func (r *Registry) Enabled(name string) bool {
	if r == nil {
		return false
	}
	return r.flags[name]
}

// EnabledNames returns the names of the flags that are on, sorted.
func (r *Registry) EnabledNames() []string {
	if r == nil {
		return nil
	}
	var names []string
	for name, on := range r.flags {
		if on {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}

// All returns a copy of every known flag and its state.
func (r *Registry) All() map[string]bool {
	if r == nil {
		return map[string]bool{}
	}
	return maps.Clone(r.flags)
}
