package job

import (
	"os"
	"sort"

	"github.com/VSPipe/colorbleed-config/internal/deadline"
)

// DefaultEnvironmentKeys are the process variables forwarded to farm jobs.
// AVALON_TOOLS lets the worker rebuild the launching tool setup, e.g.
// "maya2018;vray4.x;yeti3.1.9".
var DefaultEnvironmentKeys = []string{"AVALON_TOOLS"}

// LookupFunc reads a process environment variable.
type LookupFunc func(key string) (string, bool)

// BuildEnvironment returns the allow-listed variables that are set, in
// allow-list order, overlaid with session values. Session keys are applied in
// sorted order; a session key already present keeps its position.
func BuildEnvironment(allow []string, lookup LookupFunc, session map[string]string) *deadline.Environment {
	if lookup == nil {
		lookup = os.LookupEnv
	}

	env := deadline.NewEnvironment()
	for _, key := range allow {
		if v, ok := lookup(key); ok {
			env.Set(key, v)
		}
	}

	keys := make([]string, 0, len(session))
	for k := range session {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		env.Set(k, session[k])
	}
	return env
}

// WithTool returns a copy of env with tool appended to the ';'-separated list
// in key. env itself is left untouched.
func WithTool(env *deadline.Environment, key, tool string) *deadline.Environment {
	out := env.Clone()
	if tool == "" {
		return out
	}
	if cur, ok := out.Get(key); ok && cur != "" {
		out.Set(key, cur+";"+tool)
	} else {
		out.Set(key, tool)
	}
	return out
}
