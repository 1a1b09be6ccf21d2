// Package deadline is a client for the render farm's job submission API.
package deadline

import (
	"encoding/json"
	"fmt"
)

// Payload is the body of POST /api/jobs.
type Payload struct {
	JobInfo    JobInfo  `json:"JobInfo"`
	PluginInfo any      `json:"PluginInfo"`
	AuxFiles   []string `json:"AuxFiles"`
}

// MarshalJSON emits AuxFiles as an empty array when unset; the farm rejects null.
func (p Payload) MarshalJSON() ([]byte, error) {
	type wire Payload
	w := wire(p)
	if w.AuxFiles == nil {
		w.AuxFiles = []string{}
	}
	if w.PluginInfo == nil {
		w.PluginInfo = struct{}{}
	}
	return json.Marshal(w)
}

// JobInfo is the job metadata block. Indexed fields are expanded on marshal.
type JobInfo struct {
	// Name is the job name shown in the monitor.
	Name string
	// BatchName groups related jobs in the monitor.
	BatchName string
	UserName  string
	Plugin    string
	// Frames is a frame list such as "1001-1100".
	Frames        string
	FramesPerTask int
	Comment       string
	Pool          string
	Priority      int

	// OutputDirectories become OutputFilename0..N.
	OutputDirectories []string
	// Dependencies become JobDependency0..N.
	Dependencies []string
	// OverrideTaskExtraInfoNames is only sent when non-nil.
	OverrideTaskExtraInfoNames *bool
	// Environment becomes EnvironmentKeyValue0..N.
	Environment *Environment
}

// Fields returns the flat key/value form sent on the wire.
func (j JobInfo) Fields() map[string]any {
	m := map[string]any{
		"Name":      j.Name,
		"BatchName": j.BatchName,
		"UserName":  j.UserName,
		"Plugin":    j.Plugin,
		"Frames":    j.Frames,
	}
	if j.FramesPerTask > 0 {
		m["FramesPerTask"] = j.FramesPerTask
	}
	if j.Comment != "" {
		m["Comment"] = j.Comment
	}
	if j.Pool != "" {
		m["Pool"] = j.Pool
	}
	if j.Priority > 0 {
		m["Priority"] = j.Priority
	}
	if j.OverrideTaskExtraInfoNames != nil {
		m["OverrideTaskExtraInfoNames"] = *j.OverrideTaskExtraInfoNames
	}
	for i, dir := range j.OutputDirectories {
		m[fmt.Sprintf("OutputFilename%d", i)] = dir
	}
	for i, id := range j.Dependencies {
		m[fmt.Sprintf("JobDependency%d", i)] = id
	}
	for i, kv := range j.Environment.Pairs() {
		m[fmt.Sprintf("EnvironmentKeyValue%d", i)] = kv
	}
	return m
}

// MarshalJSON encodes the flat wire form. Map keys are sorted by encoding/json,
// so output is deterministic.
func (j JobInfo) MarshalJSON() ([]byte, error) {
	return json.Marshal(j.Fields())
}
