package wiring_test

import (
	"testing"

	"github.com/grindlemire/graft"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/tgr/internal/app"
	_ "go.trai.ch/tgr/internal/wiring"
)

// TestGraftDependencies ensures that every node declaring a dependency
// actually uses it, and every used dependency is declared.
func TestGraftDependencies(t *testing.T) {
	// AssertDepsValid infers dependency IDs from the package of the type passed
	// to Dep[T]. Several nodes provide interfaces from the shared ports package,
	// so the analysis cannot tell them apart.
	t.Skip("graft cannot attribute shared ports interfaces to their nodes")
	graft.AssertDepsValid(t, "../../internal")
}

// TestComponentsResolve builds the graph the binary uses.
func TestComponentsResolve(t *testing.T) {
	components, _, err := graft.ExecuteFor[*app.Components](t.Context())
	require.NoError(t, err)
	assert.NotNil(t, components.App)
	assert.NotNil(t, components.Logger)
}
