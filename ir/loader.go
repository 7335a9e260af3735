package ir

import "github.com/intuicio-go/intuicio/errs"

// ContentProvider resolves and loads modules by path, the way a
// frontend's source tree or virtual filesystem is organized. SanitizePath
// normalizes a path for use as a dedup key; JoinPaths resolves a relative
// import against a parent's already-sanitized path; Load returns the
// module at path together with the paths it imports, or an error.
type ContentProvider interface {
	SanitizePath(path string) string
	JoinPaths(parent, rel string) string
	Load(path string) (*Module, []string, error)
}

// LoadPackage performs DFS import resolution starting at root: each
// module is loaded at most once, keyed by its sanitized path, and import
// cycles are silently tolerated by short-circuiting on an already-loaded
// path.
//
// Grounded on pkg/ast's lazy-children DFS traversal (buildNodeFromBase
// recursing into subkeys, skipping already-visited paths): LoadPackage
// walks a module's import list the same way buildNodeFromBase walks a
// node's children, with the sanitized path standing in for the node's
// registry path.
func LoadPackage(root string, cp ContentProvider) (*Package, error) {
	pkg := &Package{Imports: map[string][]string{}}
	visited := map[string]bool{}

	var visit func(path string) error
	visit = func(path string) error {
		sanitized := cp.SanitizePath(path)
		if visited[sanitized] {
			return nil
		}
		visited[sanitized] = true

		mod, imports, err := cp.Load(path)
		if err != nil {
			return errs.Wrap(errs.KindNotFound, "load module "+path, err)
		}
		if mod == nil {
			return errs.New(errs.KindNotFound, "module not found: "+path)
		}

		pkg.Modules = append(pkg.Modules, *mod)
		resolved := make([]string, 0, len(imports))
		for _, imp := range imports {
			resolved = append(resolved, cp.SanitizePath(cp.JoinPaths(sanitized, imp)))
		}
		pkg.Imports[sanitized] = resolved

		for _, imp := range imports {
			if err := visit(cp.JoinPaths(sanitized, imp)); err != nil {
				return err
			}
		}
		return nil
	}

	if err := visit(root); err != nil {
		return nil, err
	}
	return pkg, nil
}
