package input

// WatchPaths returns the files an input reads directly from the workspace.
// Task outputs are skipped; changes to them come from their producing tasks.
func WatchPaths(in HashableInput) []string {
	switch t := in.(type) {
	case *File:
		return []string{t.path}
	case *SimpleFileList:
		var out []string
		for _, item := range t.items {
			out = append(out, WatchPaths(item)...)
		}
		return out
	case *LibraryList:
		return []string{t.manifest.path}
	case *RecursiveFileList:
		var out []string
		for _, l := range t.lists {
			out = append(out, WatchPaths(l)...)
		}
		return out
	default:
		return nil
	}
}
