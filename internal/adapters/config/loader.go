// Package config provides the tgr.yaml configuration loader.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"slices"

	"github.com/go-playground/validator/v10"
	"go.trai.ch/tgr/internal/adapters/fs"
	"go.trai.ch/tgr/internal/core/domain"
	"go.trai.ch/tgr/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

const defaultParamKind = "string"

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	logger   ports.Logger
	walker   *fs.Walker
	validate *validator.Validate
}

var _ ports.ConfigLoader = (*Loader)(nil)

// NewLoader creates a new Loader.
func NewLoader(logger ports.Logger, walker *fs.Walker) *Loader {
	return &Loader{
		logger:   logger,
		walker:   walker,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Load reads path, or the nearest tgr.yaml at or above cwd when path is empty.
func (l *Loader) Load(cwd, path string) (*domain.Project, error) {
	configPath, err := l.locate(cwd, path)
	if err != nil {
		return nil, err
	}

	var file Tgrfile
	if err := readAndUnmarshalYAML(configPath, &file); err != nil {
		return nil, zerr.With(err, "path", configPath)
	}
	if err := l.validate.Struct(&file); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigInvalid.Error()), "path", configPath)
	}

	project, err := l.buildProject(configPath, &file)
	if err != nil {
		return nil, zerr.With(err, "path", configPath)
	}
	l.logger.Debug("loaded configuration", "path", configPath, "tasks", len(project.Tasks))
	return project, nil
}

func (l *Loader) locate(cwd, path string) (string, error) {
	if path != "" {
		if !filepath.IsAbs(path) {
			path = filepath.Join(cwd, path)
		}
		return filepath.Clean(path), nil
	}

	current := filepath.Clean(cwd)
	for {
		candidate := filepath.Join(current, domain.ConfigFileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
		parent := filepath.Dir(current)
		if parent == current {
			return "", zerr.With(domain.ErrConfigNotFound, "cwd", cwd)
		}
		current = parent
	}
}

func (l *Loader) buildProject(configPath string, file *Tgrfile) (*domain.Project, error) {
	root := filepath.Dir(configPath)
	cache := file.Cache
	if cache == "" {
		cache = domain.DefaultCacheRoot()
	}

	project := &domain.Project{
		Root:              root,
		ConfigPath:        configPath,
		CacheRoot:         absolute(root, cache),
		Parallelism:       file.Parallelism,
		LockRetryInterval: file.Locks.RetryInterval,
		LockTimeout:       file.Locks.Timeout,
		Parameters:        file.Parameters,
		Artifacts:         file.Artifacts,
	}

	names := make([]string, 0, len(file.Tasks))
	for name := range file.Tasks {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		spec, err := l.buildTask(root, name, file.Tasks[name])
		if err != nil {
			return nil, zerr.With(err, "task", name)
		}
		project.Tasks = append(project.Tasks, spec)
	}

	if err := checkReferences(project.Tasks); err != nil {
		return nil, err
	}
	return project, nil
}

func (l *Loader) buildTask(root, name string, dto *TaskDTO) (domain.TaskSpec, error) {
	spec := domain.TaskSpec{
		Name:         name,
		Type:         dto.Type,
		CacheVersion: dto.CacheVersion,
		Outputs:      dto.Outputs,
	}
	for _, in := range dto.Inputs {
		input, err := l.buildInput(root, in.Name, &in.InputDTO)
		if err != nil {
			return domain.TaskSpec{}, zerr.With(err, "input", in.Name)
		}
		spec.Inputs = append(spec.Inputs, input)
	}
	return spec, nil
}

func (l *Loader) buildInput(root, name string, dto *InputDTO) (domain.InputSpec, error) {
	form, err := formOf(dto)
	if err != nil {
		return domain.InputSpec{}, err
	}
	sensitivity, err := domain.ParsePathSensitivity(dto.Sensitivity)
	if err != nil {
		return domain.InputSpec{}, err
	}

	spec := domain.InputSpec{Name: name, Form: form, Sensitivity: sensitivity}
	switch form {
	case domain.FormValue:
		spec.Value = dto.Value
	case domain.FormFile:
		spec.Path = absolute(root, dto.File)
	case domain.FormTaskOutput:
		if dto.Output == "" {
			return domain.InputSpec{}, zerr.With(domain.ErrInvalidInput, "reason", "task input without output")
		}
		spec.Task, spec.Output = dto.Task, dto.Output
	case domain.FormFiles:
		paths, err := l.walker.ExpandFiles(root, dto.Files)
		if err != nil {
			return domain.InputSpec{}, err
		}
		spec.Paths = paths
	case domain.FormLibraryList:
		spec.Path = absolute(root, dto.LibraryList)
	case domain.FormLists:
		for i := range dto.Lists {
			item, err := l.buildInput(root, "", &dto.Lists[i])
			if err != nil {
				return domain.InputSpec{}, err
			}
			if !isFileList(item.Form) {
				return domain.InputSpec{}, zerr.With(domain.ErrInvalidInput, "reason", "lists may only nest files, libraryList, file or lists")
			}
			spec.Items = append(spec.Items, item)
		}
	case domain.FormParameter:
		spec.Parameter = dto.Parameter
		spec.ParamKind = dto.Kind
		if spec.ParamKind == "" {
			spec.ParamKind = defaultParamKind
		}
		spec.Default, spec.HasDefault = dto.Default, dto.Default != nil
	}
	return spec, nil
}

// formOf returns the single form set on dto.
func formOf(dto *InputDTO) (domain.InputForm, error) {
	var forms []domain.InputForm
	if dto.Value != nil {
		forms = append(forms, domain.FormValue)
	}
	if dto.File != "" {
		forms = append(forms, domain.FormFile)
	}
	if dto.Task != "" {
		forms = append(forms, domain.FormTaskOutput)
	}
	if dto.Files != nil {
		forms = append(forms, domain.FormFiles)
	}
	if dto.LibraryList != "" {
		forms = append(forms, domain.FormLibraryList)
	}
	if dto.Lists != nil {
		forms = append(forms, domain.FormLists)
	}
	if dto.Parameter != "" {
		forms = append(forms, domain.FormParameter)
	}

	if len(forms) != 1 {
		return 0, zerr.With(domain.ErrInvalidInput, "forms", len(forms))
	}
	return forms[0], nil
}

func isFileList(form domain.InputForm) bool {
	return form == domain.FormFile || form == domain.FormFiles ||
		form == domain.FormLibraryList || form == domain.FormLists
}

// checkReferences verifies that every task output input names a declared output.
func checkReferences(tasks []domain.TaskSpec) error {
	outputs := make(map[string]map[string]string, len(tasks))
	for _, t := range tasks {
		outputs[t.Name] = t.Outputs
	}

	var errs []error
	for _, t := range tasks {
		for _, in := range t.Inputs {
			if in.Form != domain.FormTaskOutput {
				continue
			}
			declared, ok := outputs[in.Task]
			if !ok {
				errs = append(errs, zerr.With(zerr.With(domain.ErrTaskNotFound, "task", in.Task), "referenced_by", t.Name))
				continue
			}
			if _, ok := declared[in.Output]; !ok {
				errs = append(errs, zerr.With(zerr.With(domain.ErrUnknownOutput, "task", in.Task), "output", in.Output))
			}
		}
	}
	return errors.Join(errs...)
}

func absolute(root, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(root, path)
}

func readAndUnmarshalYAML[T any](configPath string, target *T) error {
	// #nosec G304 -- configPath is validated by caller
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return zerr.Wrap(err, domain.ErrConfigNotFound.Error())
		}
		return zerr.Wrap(err, domain.ErrConfigReadFailed.Error())
	}

	if err := yaml.Unmarshal(data, target); err != nil {
		return zerr.Wrap(err, domain.ErrConfigParseFailed.Error())
	}
	return nil
}
