package tasks

import (
	"go.trai.ch/tgr/internal/core/domain"
	"go.trai.ch/tgr/internal/engine/input"
	"go.trai.ch/zerr"
)

// BuildInput creates the hashable input described by spec. Parameter inputs
// are resolved against params and become values.
func BuildInput(spec domain.InputSpec, params input.Parameters) (input.HashableInput, error) {
	switch spec.Form {
	case domain.FormValue:
		return input.NewValue(spec.Name, spec.Value)
	case domain.FormFile:
		return input.NewFile(spec.Name, spec.Path, spec.Sensitivity)
	case domain.FormTaskOutput:
		return input.NewTaskOutput(spec.Name, spec.Task, spec.Output), nil
	case domain.FormFiles:
		return input.NewFileListFromPaths(spec.Name, spec.Paths, spec.Sensitivity)
	case domain.FormLibraryList:
		return input.NewLibraryList(spec.Name, spec.Path, spec.Sensitivity)
	case domain.FormLists:
		lists := make([]input.FileList, 0, len(spec.Items))
		for _, item := range spec.Items {
			l, err := buildList(spec.Name, item, params)
			if err != nil {
				return nil, err
			}
			lists = append(lists, l)
		}
		return input.NewRecursiveFileList(spec.Name, lists...), nil
	case domain.FormParameter:
		v, err := params.Resolve(spec.Parameter, spec.ParamKind, spec.Default, spec.HasDefault)
		if err != nil {
			return nil, zerr.With(err, "input", spec.Name)
		}
		return input.NewValue(spec.Name, v)
	default:
		return nil, zerr.With(domain.ErrInvalidInput, "input", spec.Name)
	}
}

// buildList builds one member of a lists input. Single files become one-element lists.
func buildList(name string, item domain.InputSpec, params input.Parameters) (input.FileList, error) {
	item.Name = name
	in, err := BuildInput(item, params)
	if err != nil {
		return nil, err
	}
	switch t := in.(type) {
	case input.FileList:
		return t, nil
	case input.PathInput:
		return input.NewSimpleFileList(name, t), nil
	default:
		return nil, zerr.With(zerr.With(domain.ErrInvalidInput, "input", name), "reason", "lists members must be files")
	}
}
