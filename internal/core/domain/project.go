package domain

import "time"

// Project is a loaded task configuration, independent of its file format.
type Project struct {
	// Root is the directory containing the configuration file.
	Root string
	// ConfigPath is the absolute path of the configuration file.
	ConfigPath string
	// CacheRoot is the absolute cache root directory.
	CacheRoot string
	// Parallelism bounds the number of tasks run at once. Zero selects the CPU count.
	Parallelism int
	// LockRetryInterval and LockTimeout tune lock acquisition. Zero selects the defaults.
	LockRetryInterval time.Duration
	LockTimeout       time.Duration
	// Parameters are the configured parameter values.
	Parameters map[string]any
	// Artifacts maps artifact identifiers to paths relative to Root.
	Artifacts map[string]string
	// Tasks holds the task declarations in name order.
	Tasks []TaskSpec
}

// TaskSpec declares one task.
type TaskSpec struct {
	Name         string
	Type         string
	CacheVersion int
	Outputs      map[string]string
	Inputs       []InputSpec
}

// InputForm selects which input variant an InputSpec describes.
type InputForm uint8

const (
	// FormValue is a literal value input.
	FormValue InputForm = iota
	// FormFile is a single file input.
	FormFile
	// FormTaskOutput references another task's output.
	FormTaskOutput
	// FormFiles is an explicit list of files.
	FormFiles
	// FormLibraryList is a manifest of file: and artifact: lines.
	FormLibraryList
	// FormLists nests other file-list inputs.
	FormLists
	// FormParameter is a value resolved from the parameters.
	FormParameter
)

// InputSpec declares one task input.
type InputSpec struct {
	Name        string
	Form        InputForm
	Value       any
	Path        string
	Paths       []string
	Sensitivity PathSensitivity
	Task        string
	Output      string
	Items       []InputSpec
	Parameter   string
	ParamKind   string
	Default     any
	HasDefault  bool
}
