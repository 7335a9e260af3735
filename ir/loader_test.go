package ir_test

import (
	"testing"

	"github.com/intuicio-go/intuicio/ir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProvider is an in-memory ContentProvider keyed by already-sanitized
// path, used to exercise LoadPackage's DFS/dedup/cycle-tolerance without
// touching a real filesystem.
type fakeProvider struct {
	modules map[string]*ir.Module
	imports map[string][]string
	loads   map[string]int
}

func (p *fakeProvider) SanitizePath(path string) string { return path }
func (p *fakeProvider) JoinPaths(parent, rel string) string {
	if rel == "" {
		return parent
	}
	return rel
}
func (p *fakeProvider) Load(path string) (*ir.Module, []string, error) {
	p.loads[path]++
	mod, ok := p.modules[path]
	if !ok {
		return nil, nil, nil
	}
	return mod, p.imports[path], nil
}

func TestLoadPackage_ResolvesImportGraph(t *testing.T) {
	p := &fakeProvider{
		modules: map[string]*ir.Module{
			"a": {Name: "a"},
			"b": {Name: "b"},
			"c": {Name: "c"},
		},
		imports: map[string][]string{
			"a": {"b", "c"},
			"b": {"c"},
			"c": {},
		},
		loads: map[string]int{},
	}

	pkg, err := ir.LoadPackage("a", p)
	require.NoError(t, err)
	assert.Len(t, pkg.Modules, 3)
	assert.ElementsMatch(t, []string{"b", "c"}, pkg.Imports["a"])
	assert.Equal(t, 1, p.loads["c"], "a shared import must be loaded exactly once")
}

func TestLoadPackage_ToleratesImportCycles(t *testing.T) {
	p := &fakeProvider{
		modules: map[string]*ir.Module{
			"a": {Name: "a"},
			"b": {Name: "b"},
		},
		imports: map[string][]string{
			"a": {"b"},
			"b": {"a"},
		},
		loads: map[string]int{},
	}

	pkg, err := ir.LoadPackage("a", p)
	require.NoError(t, err, "cycles must be silently tolerated, not treated as an error")
	assert.Len(t, pkg.Modules, 2)
	assert.Equal(t, 1, p.loads["a"])
	assert.Equal(t, 1, p.loads["b"])
}

func TestLoadPackage_MissingModuleErrors(t *testing.T) {
	p := &fakeProvider{modules: map[string]*ir.Module{}, imports: map[string][]string{}, loads: map[string]int{}}
	_, err := ir.LoadPackage("missing", p)
	assert.Error(t, err)
}
