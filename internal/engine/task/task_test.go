package task_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/tgr/internal/core/domain"
	"go.trai.ch/tgr/internal/core/ports"
	"go.trai.ch/tgr/internal/core/ports/mocks"
	"go.trai.ch/tgr/internal/engine/input"
	"go.trai.ch/tgr/internal/engine/task"
	"go.uber.org/mock/gomock"
)

type memStore struct {
	mu      sync.Mutex
	records map[string]domain.StateRecord
	puts    int
}

func (s *memStore) Get(path string) (*domain.StateRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[path]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (s *memStore) Put(path string, record *domain.StateRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[path] = *record
	s.puts++
	return nil
}

func (s *memStore) Touch(path string, record *domain.StateRecord, accessed int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := *record
	rec.LastAccessed = accessed
	s.records[path] = rec
	return nil
}

type testContext struct {
	root      string
	useCached bool
	tasks     map[string]*task.Task
	store     *memStore
	logger    ports.Logger
	now       time.Time
}

func (c *testContext) Executed(name string) (bool, error) {
	t, err := c.Task(name)
	if err != nil {
		return false, err
	}
	return t.Executed(), nil
}

func (c *testContext) OutputPath(name, output string) (string, error) {
	t, err := c.Task(name)
	if err != nil {
		return "", err
	}
	return t.OutputPath(c, output)
}

func (c *testContext) ResolveArtifact(_, notation string) (string, error) {
	return "", fmt.Errorf("unexpected artifact %s", notation)
}

func (c *testContext) HashFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%016x", xxhash.Sum64(data)), nil
}

func (c *testContext) Task(name string) (*task.Task, error) {
	t, ok := c.tasks[name]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	return t, nil
}

func (c *testContext) TaskDir(name, ref string) string { return domain.TaskDir(c.root, name, ref) }
func (c *testContext) UseCached() bool                 { return c.useCached }
func (c *testContext) States() ports.StateStore        { return c.store }
func (c *testContext) Logger() ports.Logger            { return c.logger }
func (c *testContext) Now() time.Time                  { return c.now }

// fresh returns a context for a new invocation sharing the cache of c.
func (c *testContext) fresh(kinds ...task.Kind) *testContext {
	next := *c
	next.tasks = make(map[string]*task.Task, len(kinds))
	for _, k := range kinds {
		next.tasks[k.Name()] = task.New(k)
	}
	return &next
}

func newTestContext(t *testing.T, kinds ...task.Kind) *testContext {
	t.Helper()
	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Debug(gomock.Any(), gomock.Any()).AnyTimes()
	logger.EXPECT().Warn(gomock.Any(), gomock.Any()).AnyTimes()

	c := &testContext{
		root:      t.TempDir(),
		useCached: true,
		store:     &memStore{records: map[string]domain.StateRecord{}},
		logger:    logger,
		now:       time.UnixMilli(1_700_000_000_000),
	}
	return c.fresh(kinds...)
}

type fakeKind struct {
	name    string
	inputs  []input.HashableInput
	outputs map[string]string
	version int
	fresh   *bool
	runs    *int
	run     func(rc task.RunContext) error
}

func (k *fakeKind) Name() string                   { return k.name }
func (k *fakeKind) Type() string                   { return "fake" }
func (k *fakeKind) Inputs() []input.HashableInput  { return k.inputs }
func (k *fakeKind) OutputTypes() map[string]string { return k.outputs }
func (k *fakeKind) CacheVersion() int              { return k.version }

func (k *fakeKind) UpToDate(time.Time, task.Context) (bool, error) {
	if k.fresh == nil {
		return true, nil
	}
	return *k.fresh, nil
}

func (k *fakeKind) Run(_ context.Context, rc task.RunContext) error {
	*k.runs++
	if k.run != nil {
		return k.run(rc)
	}
	for output := range k.outputs {
		path, err := rc.OutputPath(output)
		if err != nil {
			return err
		}
		if err := os.WriteFile(path, []byte(k.name+":"+output), 0o600); err != nil {
			return err
		}
	}
	return nil
}

func newKind(name string, runs *int, inputs ...input.HashableInput) *fakeKind {
	return &fakeKind{
		name:    name,
		inputs:  inputs,
		outputs: map[string]string{"out": "txt"},
		version: 1,
		runs:    runs,
	}
}

func mustValue(t *testing.T, name string, v any) *input.Value {
	t.Helper()
	in, err := input.NewValue(name, v)
	require.NoError(t, err)
	return in
}

func TestExecute_RunsThenReusesCache(t *testing.T) {
	t.Parallel()

	var runs int
	kind := newKind("gen", &runs, mustValue(t, "content", "hello"))
	c := newTestContext(t, kind)
	gen, err := c.Task("gen")
	require.NoError(t, err)

	outcome, err := gen.Execute(t.Context(), c, nil)
	require.NoError(t, err)
	assert.Equal(t, task.OutcomeExecuted, outcome)
	assert.True(t, gen.Executed())
	assert.Equal(t, 1, runs)

	outcome, err = gen.Execute(t.Context(), c, nil)
	require.NoError(t, err)
	assert.Equal(t, task.OutcomeAlreadyExecuted, outcome)
	assert.Equal(t, 1, runs)

	next := c.fresh(kind)
	next.now = c.now.Add(time.Hour)
	again, err := next.Task("gen")
	require.NoError(t, err)
	outcome, err = again.Execute(t.Context(), next, nil)
	require.NoError(t, err)
	assert.Equal(t, task.OutcomeCached, outcome)
	assert.Equal(t, 1, runs)

	path, err := again.OutputPath(next, "out")
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "gen:out", string(data))

	// A hit refreshes the access time only.
	ref, err := again.ReferenceHash(next)
	require.NoError(t, err)
	contents, err := again.ContentsHash(next)
	require.NoError(t, err)
	rec, err := next.store.Get(domain.StatePath(next.TaskDir("gen", ref), contents))
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, c.now.UnixMilli(), rec.LastExecuted)
	assert.Equal(t, next.now.UnixMilli(), rec.LastAccessed)
	assert.Equal(t, 1, next.store.puts)
}

func TestExecute_StateRecord(t *testing.T) {
	t.Parallel()

	var runs int
	c := newTestContext(t, newKind("gen", &runs, mustValue(t, "content", "hello")))
	gen, err := c.Task("gen")
	require.NoError(t, err)

	_, err = gen.Execute(t.Context(), c, nil)
	require.NoError(t, err)

	ref, err := gen.ReferenceHash(c)
	require.NoError(t, err)
	contents, err := gen.ContentsHash(c)
	require.NoError(t, err)

	rec, err := c.store.Get(domain.StatePath(c.TaskDir("gen", ref), contents))
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.JSONEq(t, `{"content":"hello"}`, string(rec.Inputs))
	assert.Contains(t, rec.Hashes, "out")
	assert.Equal(t, c.now.UnixMilli(), rec.LastExecuted)
	assert.Equal(t, c.now.UnixMilli(), rec.LastAccessed)
}

func TestExecute_NoCache(t *testing.T) {
	t.Parallel()

	var runs int
	kind := newKind("gen", &runs, mustValue(t, "content", "hello"))
	c := newTestContext(t, kind)
	gen, _ := c.Task("gen")
	_, err := gen.Execute(t.Context(), c, nil)
	require.NoError(t, err)

	next := c.fresh(kind)
	next.useCached = false
	again, _ := next.Task("gen")
	outcome, err := again.Execute(t.Context(), next, nil)
	require.NoError(t, err)
	assert.Equal(t, task.OutcomeExecuted, outcome)
	assert.Equal(t, 2, runs)
}

func TestExecute_InputChangeRuns(t *testing.T) {
	t.Parallel()

	src := filepath.Join(t.TempDir(), "src.txt")
	require.NoError(t, os.WriteFile(src, []byte("v1"), 0o600))
	file, err := input.NewFile("src", src, domain.SensitivityAbsolute)
	require.NoError(t, err)

	var runs int
	kind := newKind("gen", &runs, file)
	c := newTestContext(t, kind)
	gen, _ := c.Task("gen")
	_, err = gen.Execute(t.Context(), c, nil)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(src, []byte("v2"), 0o600))
	next := c.fresh(kind)
	again, _ := next.Task("gen")
	outcome, err := again.Execute(t.Context(), next, nil)
	require.NoError(t, err)
	assert.Equal(t, task.OutcomeExecuted, outcome)
	assert.Equal(t, 2, runs)

	firstRef, _ := gen.ReferenceHash(c)
	secondRef, _ := again.ReferenceHash(next)
	assert.Equal(t, firstRef, secondRef)
}

func TestExecute_TamperedOutputRuns(t *testing.T) {
	t.Parallel()

	var runs int
	kind := newKind("gen", &runs, mustValue(t, "content", "hello"))
	c := newTestContext(t, kind)
	gen, _ := c.Task("gen")
	_, err := gen.Execute(t.Context(), c, nil)
	require.NoError(t, err)

	path, err := gen.OutputPath(c, "out")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, []byte("tampered"), 0o600))

	next := c.fresh(kind)
	again, _ := next.Task("gen")
	outcome, err := again.Execute(t.Context(), next, nil)
	require.NoError(t, err)
	assert.Equal(t, task.OutcomeExecuted, outcome)

	require.NoError(t, os.Remove(path))
	third := c.fresh(kind)
	last, _ := third.Task("gen")
	outcome, err = last.Execute(t.Context(), third, nil)
	require.NoError(t, err)
	assert.Equal(t, task.OutcomeExecuted, outcome)
	assert.Equal(t, 3, runs)
}

func TestExecute_Freshness(t *testing.T) {
	t.Parallel()

	var runs int
	stale := false
	kind := newKind("gen", &runs, mustValue(t, "content", "hello"))
	c := newTestContext(t, kind)
	gen, _ := c.Task("gen")
	_, err := gen.Execute(t.Context(), c, nil)
	require.NoError(t, err)

	kind.fresh = &stale
	next := c.fresh(kind)
	again, _ := next.Task("gen")
	outcome, err := again.Execute(t.Context(), next, nil)
	require.NoError(t, err)
	assert.Equal(t, task.OutcomeExecuted, outcome)
	assert.Equal(t, 2, runs)
}

func TestExecute_RunFailure(t *testing.T) {
	t.Parallel()

	var runs int
	kind := newKind("gen", &runs)
	kind.run = func(task.RunContext) error { return errors.New("boom") }
	c := newTestContext(t, kind)
	gen, _ := c.Task("gen")

	_, err := gen.Execute(t.Context(), c, nil)
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrTaskExecutionFailed.Error())
	assert.ErrorContains(t, err, "boom")
	assert.False(t, gen.Executed())
	assert.Zero(t, c.store.puts)
}

func TestExecute_MissingOutput(t *testing.T) {
	t.Parallel()

	var runs int
	kind := newKind("gen", &runs)
	kind.run = func(task.RunContext) error { return nil }
	c := newTestContext(t, kind)
	gen, _ := c.Task("gen")

	_, err := gen.Execute(t.Context(), c, nil)
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrOutputMissing.Error())
	assert.Zero(t, c.store.puts)
}

func TestExecute_DependencyOrder(t *testing.T) {
	t.Parallel()

	var genRuns, useRuns int
	gen := newKind("gen", &genRuns, mustValue(t, "content", "hello"))
	use := newKind("use", &useRuns, input.NewTaskOutput("dep", "gen", "out"))
	use.run = func(rc task.RunContext) error {
		src, err := rc.InputPath("dep")
		if err != nil {
			return err
		}
		data, err := os.ReadFile(src)
		if err != nil {
			return err
		}
		dst, err := rc.OutputPath("out")
		if err != nil {
			return err
		}
		return os.WriteFile(dst, append(data, '!'), 0o600)
	}
	c := newTestContext(t, gen, use)

	useTask, _ := c.Task("use")
	assert.Equal(t, []string{"gen"}, useTask.Dependencies())

	_, err := useTask.Execute(t.Context(), c, nil)
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrDependencyNotExecuted.Error())

	_, err = useTask.ContentsHash(c)
	require.Error(t, err)

	// The reference hash does not need the dependency.
	_, err = useTask.ReferenceHash(c)
	require.NoError(t, err)

	genTask, _ := c.Task("gen")
	_, err = genTask.Execute(t.Context(), c, nil)
	require.NoError(t, err)
	_, err = useTask.Execute(t.Context(), c, nil)
	require.NoError(t, err)

	path, err := useTask.OutputPath(c, "out")
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "gen:out!", string(data))
}

func TestHashes(t *testing.T) {
	t.Parallel()

	var runs int
	a := mustValue(t, "a", 1)
	b := mustValue(t, "b", 2)

	c := newTestContext(t)
	hashes := func(k task.Kind) (string, string) {
		tk := task.New(k)
		ref, err := tk.ReferenceHash(c)
		require.NoError(t, err)
		contents, err := tk.ContentsHash(c)
		require.NoError(t, err)
		return ref, contents
	}

	ref1, contents1 := hashes(newKind("x", &runs, a, b))
	ref2, contents2 := hashes(newKind("x", &runs, b, a))
	assert.NotEqual(t, ref1, ref2)
	assert.Equal(t, contents1, contents2)
	assert.Len(t, ref1, 64)

	bumped := newKind("x", &runs, a, b)
	bumped.version = 2
	ref3, contents3 := hashes(bumped)
	assert.NotEqual(t, ref1, ref3)
	assert.NotEqual(t, contents1, contents3)

	// Memoized per task instance.
	tk := task.New(newKind("x", &runs, a, b))
	first, err := tk.ReferenceHash(c)
	require.NoError(t, err)
	second, err := tk.ReferenceHash(c)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	var runs int
	require.NoError(t, task.New(newKind("ok.name-1", &runs)).Validate())

	err := task.New(newKind("../escape", &runs)).Validate()
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrInvalidTaskName.Error())

	bad := newKind("gen", &runs)
	bad.outputs = map[string]string{"out": "t/xt"}
	err = task.New(bad).Validate()
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrInvalidOutputName.Error())

	dup := newKind("gen", &runs, mustValue(t, "a", 1), mustValue(t, "a", 2))
	err = task.New(dup).Validate()
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrInvalidInput.Error())
}
