// Package domain contains the core domain models of the build engine.
package domain

import (
	"iter"
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

// Graph holds the task names of one run and the names each of them depends on.
type Graph struct {
	deps           map[string][]string
	executionOrder []string
}

// NewGraph creates a new empty Graph.
func NewGraph() *Graph {
	return &Graph{
		deps: make(map[string][]string),
	}
}

// AddTask adds a task and its dependencies to the graph.
// It returns an error if a task with the same name already exists.
func (g *Graph) AddTask(name string, deps []string) error {
	if _, exists := g.deps[name]; exists {
		return zerr.With(ErrTaskAlreadyExists, "task", name)
	}
	g.deps[name] = slices.Clone(deps)
	return nil
}

// Dependencies returns the direct dependencies of a task.
func (g *Graph) Dependencies(name string) []string {
	return g.deps[name]
}

// TaskCount returns the number of tasks in the graph.
func (g *Graph) TaskCount() int {
	return len(g.deps)
}

// Validate checks for cycles and missing dependencies with a depth-first search.
// It populates the execution order if successful.
func (g *Graph) Validate() error {
	g.executionOrder = make([]string, 0, len(g.deps))
	visited := make(map[string]int) // 0: unvisited, 1: visiting, 2: visited
	var path []string

	var visit func(u string) error
	visit = func(u string) error {
		visited[u] = 1
		path = append(path, u)

		deps, exists := g.deps[u]
		if !exists {
			return zerr.With(ErrTaskNotFound, "task", u)
		}

		for _, dep := range deps {
			if visited[dep] == 1 {
				return buildCycleError(path, dep)
			}
			if visited[dep] == 0 {
				if err := visit(dep); err != nil {
					return err
				}
			}
		}

		visited[u] = 2
		path = path[:len(path)-1]
		g.executionOrder = append(g.executionOrder, u)
		return nil
	}

	// Sorted roots keep the order and the reported cycle stable between runs.
	names := make([]string, 0, len(g.deps))
	for name := range g.deps {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		if visited[name] == 0 {
			if err := visit(name); err != nil {
				return err
			}
		}
	}

	return nil
}

// buildCycleError constructs an error with cycle path metadata, e.g. "a -> b -> a".
func buildCycleError(path []string, dep string) error {
	start := slices.Index(path, dep)
	cycle := append(slices.Clone(path[start:]), dep)
	return zerr.With(ErrCycleDetected, "cycle", strings.Join(cycle, " -> "))
}

// Walk returns an iterator that yields task names with dependencies first.
// It assumes Validate() has been called and returned nil.
func (g *Graph) Walk() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, name := range g.executionOrder {
			if !yield(name) {
				return
			}
		}
	}
}
