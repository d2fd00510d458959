package domain

import "go.trai.ch/zerr"

// Configuration errors. These are raised before any task runs.
var (
	// ErrTaskNotFound is returned when a task name does not resolve to a known task.
	ErrTaskNotFound = zerr.New("task not found")

	// ErrTaskAlreadyExists is returned when two tasks share the same name.
	ErrTaskAlreadyExists = zerr.New("task already exists")

	// ErrUnknownOutput is returned when a task is asked for an output it does not declare.
	ErrUnknownOutput = zerr.New("unknown task output")

	// ErrInvalidTaskName is returned when a task name cannot be used as a cache directory name.
	ErrInvalidTaskName = zerr.New("invalid task name")

	// ErrInvalidOutputName is returned when an output name or extension contains invalid characters.
	ErrInvalidOutputName = zerr.New("invalid output name")

	// ErrUnknownTaskType is returned when a configured task type is not registered.
	ErrUnknownTaskType = zerr.New("unknown task type")

	// ErrMissingParameter is returned when a parameter is referenced but not supplied.
	ErrMissingParameter = zerr.New("missing parameter")

	// ErrTypeMismatch is returned when a parameter or input value has the wrong type.
	ErrTypeMismatch = zerr.New("type mismatch")

	// ErrInvalidValue is returned when a value input holds an unsupported kind.
	ErrInvalidValue = zerr.New("invalid value")

	// ErrInvalidInput is returned when an input declaration is malformed.
	ErrInvalidInput = zerr.New("invalid input declaration")

	// ErrMissingInput is returned when a task kind requires an input that is not declared.
	ErrMissingInput = zerr.New("missing input")

	// ErrInvalidNotation is returned when an artifact manifest line is neither file: nor artifact:.
	ErrInvalidNotation = zerr.New("invalid artifact notation, expected file:<path> or artifact:<id>")

	// ErrUnknownArtifact is returned when an artifact identifier is not in the artifact manifest.
	ErrUnknownArtifact = zerr.New("unknown artifact")

	// ErrInvalidRequest is returned when a command line output request cannot be parsed.
	ErrInvalidRequest = zerr.New("invalid output request, expected task or task:output=dest")

	// ErrNoRequests is returned when the run command is invoked without any request.
	ErrNoRequests = zerr.New("no tasks requested")
)

// Config file errors.
var (
	// ErrConfigNotFound is returned when no tgr.yaml can be found.
	ErrConfigNotFound = zerr.New("could not find tgr.yaml")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrConfigInvalid is returned when the config file fails validation.
	ErrConfigInvalid = zerr.New("invalid config file")

	// ErrEnvFileReadFailed is returned when a .env parameter file cannot be read.
	ErrEnvFileReadFailed = zerr.New("failed to read env file")
)

// Cache and I/O errors.
var (
	// ErrCacheCheckFailed marks a failed up-to-date check. It is logged and treated as a cache miss.
	ErrCacheCheckFailed = zerr.New("cache check failed")

	// ErrCacheDirCreateFailed is returned when a task cache directory cannot be created.
	ErrCacheDirCreateFailed = zerr.New("failed to create cache directory")

	// ErrOutputMissing is returned when a declared output file does not exist.
	ErrOutputMissing = zerr.New("task output missing")

	// ErrInputMissing is returned when a file read by an input does not exist.
	ErrInputMissing = zerr.New("input file not found")

	// ErrOutputCopyFailed is returned when a produced output cannot be copied to its destination.
	ErrOutputCopyFailed = zerr.New("failed to copy task output")

	// ErrFileOpenFailed is returned when a file cannot be opened.
	ErrFileOpenFailed = zerr.New("failed to open file")

	// ErrFileHashFailed is returned when hashing a file fails.
	ErrFileHashFailed = zerr.New("failed to hash file content")

	// ErrStoreReadFailed is returned when a state record cannot be read.
	ErrStoreReadFailed = zerr.New("failed to read state record")

	// ErrStoreUnmarshalFailed is returned when a state record cannot be decoded.
	ErrStoreUnmarshalFailed = zerr.New("failed to unmarshal state record")

	// ErrStoreMarshalFailed is returned when a state record cannot be encoded.
	ErrStoreMarshalFailed = zerr.New("failed to marshal state record")

	// ErrStoreWriteFailed is returned when a state record cannot be written.
	ErrStoreWriteFailed = zerr.New("failed to write state record")

	// ErrCleanFailed is returned when a cache directory cannot be removed.
	ErrCleanFailed = zerr.New("failed to clean cache")
)

// Locking errors.
var (
	// ErrLockOpenFailed is returned when a lock file cannot be opened after all retries.
	ErrLockOpenFailed = zerr.New("failed to open lock file")

	// ErrLockTimeout is returned when a lock is not acquired before the timeout elapses.
	ErrLockTimeout = zerr.New("timed out waiting for lock")

	// ErrLockFailed is returned when the operating system rejects a lock attempt outright.
	ErrLockFailed = zerr.New("failed to lock file")
)

// Graph errors.
var (
	// ErrCycleDetected is returned when the requested task graph contains a cycle.
	ErrCycleDetected = zerr.New("cycle detected")

	// ErrGraphInconsistent is returned when scheduling stops with tasks left unexecuted.
	ErrGraphInconsistent = zerr.New("task graph did not complete, cycle or inconsistent dependencies")

	// ErrDependencyNotExecuted is returned when a task is used before the tasks it depends on ran.
	ErrDependencyNotExecuted = zerr.New("dependency has not been executed")
)

// Execution errors.
var (
	// ErrTaskExecutionFailed is returned when a task fails to run or to record its state.
	ErrTaskExecutionFailed = zerr.New("task execution failed")

	// ErrBuildExecutionFailed is returned when a run finishes with at least one failed task.
	ErrBuildExecutionFailed = zerr.New("build execution failed")

	// ErrCommandFailed is returned when a command task exits unsuccessfully.
	ErrCommandFailed = zerr.New("command failed")

	// ErrDownloadFailed is returned when a download task cannot fetch its URL.
	ErrDownloadFailed = zerr.New("download failed")

	// ErrChecksumMismatch is returned when downloaded bytes do not match the expected checksum.
	ErrChecksumMismatch = zerr.New("checksum mismatch")
)

// Adapter errors.
var (
	// ErrMetricsWriteFailed is returned when the metrics file cannot be written.
	ErrMetricsWriteFailed = zerr.New("failed to write metrics")

	// ErrWatcherStartFailed is returned when the file watcher cannot be started.
	ErrWatcherStartFailed = zerr.New("failed to start file watcher")

	// ErrWatcherAddFailed is returned when a path cannot be added to the file watcher.
	ErrWatcherAddFailed = zerr.New("failed to watch path")

	// ErrInvalidParameter is returned when a -p flag is not of the form name=value.
	ErrInvalidParameter = zerr.New("invalid parameter")
)
