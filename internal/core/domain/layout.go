package domain

import "path/filepath"

const (
	// TgrDirName is the name of the default cache root directory.
	TgrDirName = ".tgr"

	// ResultsDirName is the name of the directory holding task state records and outputs.
	ResultsDirName = "results"

	// LocksDirName is the name of the directory holding lock files.
	LocksDirName = "locks"

	// ConfigFileName is the name of the task configuration file.
	ConfigFileName = "tgr.yaml"

	// StateExt is the extension of state record files.
	StateExt = "json"

	// LockExt is the extension of lock files.
	LockExt = "lock"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// DefaultCacheRoot returns the default cache root relative to the config directory.
func DefaultCacheRoot() string {
	return TgrDirName
}

// ResultsDir returns the directory holding every task's cache entries.
func ResultsDir(cacheRoot string) string {
	return filepath.Join(cacheRoot, ResultsDirName)
}

// LocksDir returns the directory holding lock files.
func LocksDir(cacheRoot string) string {
	return filepath.Join(cacheRoot, LocksDirName)
}

// TaskDirName returns the cache directory name of a task: <taskName>.<referenceHash>.
// It doubles as the task's lock key.
func TaskDirName(taskName, referenceHash string) string {
	return taskName + "." + referenceHash
}

// TaskDir returns <cacheRoot>/results/<taskName>.<referenceHash>.
func TaskDir(cacheRoot, taskName, referenceHash string) string {
	return filepath.Join(ResultsDir(cacheRoot), TaskDirName(taskName, referenceHash))
}

// StatePath returns <taskDir>/<contentsHash>.json.
func StatePath(taskDir, contentsHash string) string {
	return filepath.Join(taskDir, contentsHash+"."+StateExt)
}

// OutputPath returns <taskDir>/<contentsHash>.<output>.<ext>.
func OutputPath(taskDir, contentsHash, output, ext string) string {
	return filepath.Join(taskDir, contentsHash+"."+output+"."+ext)
}

// LockPath returns <cacheRoot>/locks/<hash>.lock.
func LockPath(cacheRoot, keyHash string) string {
	return filepath.Join(LocksDir(cacheRoot), keyHash+"."+LockExt)
}
