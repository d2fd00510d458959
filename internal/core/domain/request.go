package domain

import (
	"regexp"
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

// Request maps a task name to the outputs it must materialize, keyed by output name,
// with the destination path as value. A task with an empty map is executed without copies.
type Request map[string]map[string]string

// Tasks returns the requested task names in sorted order.
func (r Request) Tasks() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Add records that output of task must be copied to dest.
// An empty output only requests execution.
func (r Request) Add(task, output, dest string) {
	outputs, ok := r[task]
	if !ok {
		outputs = make(map[string]string)
		r[task] = outputs
	}
	if output != "" {
		outputs[output] = dest
	}
}

// ParseRequests parses command line requests of the form "task" or
// "task:output=dest[,output=dest]".
func ParseRequests(args []string) (Request, error) {
	req := make(Request, len(args))
	for _, arg := range args {
		name, spec, hasSpec := strings.Cut(arg, ":")
		if err := ValidateTaskName(name); err != nil {
			return nil, zerr.With(ErrInvalidRequest, "request", arg)
		}
		req.Add(name, "", "")
		if !hasSpec {
			continue
		}
		for pair := range strings.SplitSeq(spec, ",") {
			output, dest, ok := strings.Cut(pair, "=")
			if !ok || output == "" || dest == "" {
				return nil, zerr.With(ErrInvalidRequest, "request", arg)
			}
			req.Add(name, output, dest)
		}
	}
	return req, nil
}

var (
	taskNameRegex   = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]*$`)
	outputNameRegex = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
)

// ValidateTaskName checks that a task name is usable as a cache directory name.
func ValidateTaskName(name string) error {
	if !taskNameRegex.MatchString(name) {
		return zerr.With(ErrInvalidTaskName, "task", name)
	}
	return nil
}

// ValidateOutputName checks that an output name or extension is usable in a file name.
func ValidateOutputName(name string) error {
	if !outputNameRegex.MatchString(name) {
		return zerr.With(ErrInvalidOutputName, "output", name)
	}
	return nil
}
