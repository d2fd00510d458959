// Package input implements the hashable task inputs.
//
// Every input contributes to two digests of its owning task: the reference
// hash, which decides the task's cache directory, and the contents hash, which
// decides the cache entry inside it. Inputs that read other tasks' outputs
// also declare those tasks as dependencies, which is the only way edges enter
// the task graph.
package input

import (
	"encoding/binary"
	"io"
	"slices"
)

// Env is what inputs need from the running invocation.
type Env interface {
	// Executed reports whether the named task has executed in this invocation.
	Executed(task string) (bool, error)
	// OutputPath returns the cache path of a task output. The task must be executed.
	OutputPath(task, output string) (string, error)
	// ResolveArtifact resolves a file: or artifact: notation, relative to base.
	ResolveArtifact(base, notation string) (string, error)
	// HashFile returns the hex content hash of a file.
	HashFile(path string) (string, error)
}

// HashableInput is a named, recorded input of a task.
type HashableInput interface {
	// Name is unique within the owning task.
	Name() string
	// Dependencies lists the tasks that must execute before HashContents may be called.
	Dependencies() []string
	// HashReference writes the coarse identity of the input.
	HashReference(env Env, h io.Writer) error
	// HashContents writes the identity and the content of the input.
	HashContents(env Env, h io.Writer) error
	// RecordedValue returns a JSON-friendly snapshot of the input for state records.
	RecordedValue(env Env) (any, error)
}

// PathInput is an input backed by a single file.
type PathInput interface {
	HashableInput
	// Path returns the file the input reads.
	Path(env Env) (string, error)
}

// FileList is an input backed by an ordered list of files.
type FileList interface {
	HashableInput
	// Files returns the files the input reads, in order.
	Files(env Env) ([]string, error)
}

// Dependencies returns the union of the inputs' dependencies in order of first appearance.
func Dependencies(inputs []HashableInput) []string {
	var deps []string
	for _, in := range inputs {
		for _, dep := range in.Dependencies() {
			if !slices.Contains(deps, dep) {
				deps = append(deps, dep)
			}
		}
	}
	return deps
}

// variant tags keep different input kinds from producing the same byte stream.
const (
	tagValue      byte = 'V'
	tagFile       byte = 'F'
	tagTaskOutput byte = 'T'
	tagSimpleList byte = 'S'
	tagLibrary    byte = 'L'
	tagRecursive  byte = 'R'
)

func writeTag(h io.Writer, tag byte) {
	_, _ = h.Write([]byte{tag})
}

func writeUint64(h io.Writer, v uint64) {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], v)
	_, _ = h.Write(buf[:])
}

// WriteString writes a length-prefixed string so adjacent fields cannot run together.
func WriteString(h io.Writer, s string) {
	writeUint64(h, uint64(len(s)))
	_, _ = io.WriteString(h, s)
}

// WriteCount writes an element count prefix.
func WriteCount(h io.Writer, n int) {
	writeUint64(h, uint64(n)) //nolint:gosec // counts are never negative
}
