/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package atpkg

import (
	"context"
	"errors"
	"fmt"
	iofs "io/fs"
	"path/filepath"
	"slices"
	"strings"

	"bennypowers.dev/atpkg/fs"
	"bennypowers.dev/atpkg/internal/logger"
	"bennypowers.dev/atpkg/parser"
	"bennypowers.dev/atpkg/resolver"
	"bennypowers.dev/atpkg/value"
)

// PlatformOverlayPrefix prefixes the overlay requested for Options.Platform.
const PlatformOverlayPrefix = "atbuild.platform."

// Options configures package loading.
type Options struct {
	// Overlays are requested for every task, like feature flags.
	Overlays []string

	// SoftFail tolerates missing imports and unknown task overlays,
	// logging warnings instead of failing.
	SoftFail bool

	// Platform, if set, adds the overlay "atbuild.platform.<Platform>".
	Platform string

	// ReservedPrefixes exempts overlays from the "had no effect" warning.
	// Nil means resolver.DefaultReservedPrefixes.
	ReservedPrefixes []string

	// Configurations selects mixins to apply to every task.
	Configurations []string
}

// GlobalOverlays returns Overlays plus the platform overlay, if any.
func (o Options) GlobalOverlays() []string {
	global := slices.Clone(o.Overlays)
	if o.Platform != "" {
		global = append(global, PlatformOverlayPrefix+o.Platform)
	}
	return global
}

// Loader loads package files and their imports.
type Loader struct {
	fs    fs.FileSystem
	opts  Options
	ctx   context.Context
	chain []string
	used  map[string]bool
}

// NewLoader creates a loader reading from filesystem.
func NewLoader(filesystem fs.FileSystem, opts Options) *Loader {
	return &Loader{fs: filesystem, opts: opts}
}

// Load loads the package file at path along with its imports.
func (l *Loader) Load(path string) (*Package, error) {
	return l.LoadContext(context.Background(), path)
}

// LoadContext is Load with cancellation checked before each file read.
func (l *Loader) LoadContext(ctx context.Context, path string) (*Package, error) {
	l.ctx = ctx
	l.chain = nil
	l.used = make(map[string]bool)

	pkg, err := l.loadFile(path)
	if err != nil {
		return nil, err
	}
	l.finish(pkg)
	return pkg, nil
}

// FromDeclaration builds a package from an already-parsed declaration.
// Imports are still read relative to path.
func (l *Loader) FromDeclaration(decl *parser.Declaration, path string) (*Package, error) {
	if l.ctx == nil {
		l.ctx = context.Background()
	}
	l.chain = []string{filepath.Clean(path)}
	l.used = make(map[string]bool)

	pkg, err := l.build(decl, path)
	if err != nil {
		return nil, err
	}
	l.finish(pkg)
	return pkg, nil
}

func (l *Loader) finish(root *Package) {
	root.UnusedOverlays = resolver.Unused(l.resolverOptions(), l.used)
	for _, name := range root.UnusedOverlays {
		logger.Warn("overlay %s had no effect", name)
	}
}

func (l *Loader) resolverOptions() resolver.Options {
	return resolver.Options{
		Global:           l.opts.GlobalOverlays(),
		SoftFail:         l.opts.SoftFail,
		ReservedPrefixes: l.opts.ReservedPrefixes,
	}
}

func (l *Loader) loadFile(path string) (*Package, error) {
	if err := l.ctx.Err(); err != nil {
		return nil, err
	}

	cleaned := filepath.Clean(path)
	if slices.Contains(l.chain, cleaned) {
		cycle := append(slices.Clone(l.chain), cleaned)
		return nil, &PackageError{
			File: path,
			Key:  KeyImportPackages,
			Err:  fmt.Errorf("%w: %s", ErrImportCycle, strings.Join(cycle, " -> ")),
		}
	}

	decl, err := parser.ParseFile(l.fs, path)
	if err != nil {
		return nil, err
	}

	l.chain = append(l.chain, cleaned)
	defer func() { l.chain = l.chain[:len(l.chain)-1] }()

	return l.build(decl, path)
}

func (l *Loader) build(decl *parser.Declaration, path string) (*Package, error) {
	if decl.Name != PackageDeclaration {
		return nil, &PackageError{File: path, Err: fmt.Errorf("%w: %q", ErrInvalidDeclaration, decl.Name)}
	}

	props := decl.Properties
	pkg := &Package{
		Path:             path,
		ImportedPath:     filepath.Dir(path),
		tasks:            make(map[string]*Task),
		childOverlays:    make(map[string]value.Map),
		importedOverlays: make(map[string]value.Map),
		Mixins:           make(map[string]value.Map),
		properties:       props,
	}

	if err := l.readMetadata(pkg, props); err != nil {
		return nil, err
	}

	for _, key := range props.Keys() {
		if !knownKeys[key] {
			logger.Warn("%s: unknown key %s", path, key)
		}
	}

	if err := l.readTasks(pkg, props); err != nil {
		return nil, err
	}
	if err := l.readImports(pkg, props); err != nil {
		return nil, err
	}
	if err := l.readExternal(pkg, props); err != nil {
		return nil, err
	}
	if err := l.readOverlays(pkg, props); err != nil {
		return nil, err
	}

	if raw, ok := props[KeyBinaries]; ok {
		binaries, err := parseBinaries(path, raw)
		if err != nil {
			return nil, err
		}
		pkg.Binaries = binaries
	}

	if err := l.resolveTasks(pkg); err != nil {
		return nil, err
	}

	l.exportImportedTasks(pkg)
	return pkg, nil
}

func (l *Loader) readMetadata(pkg *Package, props value.Map) error {
	raw, ok := props[KeyName]
	if !ok {
		return &PackageError{File: pkg.Path, Key: KeyName, Err: ErrMissingName}
	}
	name, ok := raw.(value.StringLiteral)
	if !ok {
		return invalidType(pkg.Path, KeyName, "string", raw.Kind())
	}
	if name == "" {
		return &PackageError{File: pkg.Path, Key: KeyName, Err: ErrMissingName}
	}
	pkg.Name = string(name)

	for key, dst := range map[string]*string{KeyVersion: &pkg.Version, KeyPayload: &pkg.Payload} {
		raw, ok := props[key]
		if !ok {
			continue
		}
		s, ok := raw.(value.StringLiteral)
		if !ok {
			return invalidType(pkg.Path, key, "string", raw.Kind())
		}
		*dst = string(s)
	}
	return nil
}

func (l *Loader) readTasks(pkg *Package, props value.Map) error {
	raw, ok := props[KeyTasks]
	if !ok {
		return nil
	}
	tasks, ok := raw.(value.Map)
	if !ok {
		return invalidType(pkg.Path, KeyTasks, "map", raw.Kind())
	}

	for _, name := range tasks.Keys() {
		key := KeyTasks + "." + name
		if strings.Contains(name, Separator) {
			return &PackageError{File: pkg.Path, Key: key, Err: fmt.Errorf("%w: %q contains %q", ErrInvalidTaskName, name, Separator)}
		}
		options, ok := tasks[name].(value.Map)
		if !ok {
			return invalidType(pkg.Path, key, "map", tasks[name].Kind())
		}

		for _, field := range []string{KeyDependencies, resolver.KeyUseOverlays, resolver.KeyOverlay} {
			if err := stringArray(pkg.Path, key+"."+field, options[field]); err != nil {
				return err
			}
		}

		declared, err := fragments(pkg.Path, key+"."+KeyOverlays, options[KeyOverlays])
		if err != nil {
			return err
		}

		t := &Task{
			pkg:          pkg,
			name:         name,
			options:      options.Clone(),
			declared:     declared,
			importedPath: pkg.ImportedPath,
		}
		pkg.ownTasks = append(pkg.ownTasks, t)
		pkg.taskList = append(pkg.taskList, t)
		pkg.tasks[name] = t
		pkg.tasks[t.QualifiedName()] = t
	}
	return nil
}

// stringArray checks that an optional task field holds only strings.
func stringArray(file, key string, raw value.Value) error {
	if raw == nil {
		return nil
	}
	items, ok := raw.(value.Array)
	if !ok {
		return invalidType(file, key, "array of strings", raw.Kind())
	}
	for _, item := range items {
		if _, ok := item.(value.StringLiteral); !ok {
			return invalidType(file, key, "array of strings", item.Kind())
		}
	}
	return nil
}

func (l *Loader) readImports(pkg *Package, props value.Map) error {
	raw, ok := props[KeyImportPackages]
	if !ok {
		return nil
	}
	imports, ok := raw.(value.Array)
	if !ok {
		return invalidType(pkg.Path, KeyImportPackages, "array", raw.Kind())
	}

	for i, item := range imports {
		rel, ok := item.(value.StringLiteral)
		if !ok {
			return invalidType(pkg.Path, KeyImportPackages, "string", item.Kind())
		}
		target := filepath.Join(pkg.ImportedPath, string(rel))
		if filepath.Ext(target) != Extension {
			target += Extension
		}

		imported, err := l.loadFile(target)
		if err != nil {
			if l.opts.SoftFail && errors.Is(err, iofs.ErrNotExist) {
				logger.Warn("%s: skipping missing import %s (%s[%d])", pkg.Path, target, KeyImportPackages, i)
				continue
			}
			return err
		}
		pkg.Imports = append(pkg.Imports, imported)
	}
	return nil
}

func (l *Loader) readExternal(pkg *Package, props value.Map) error {
	raw, ok := props[KeyExternalPackages]
	if !ok {
		return nil
	}
	entries, ok := raw.(value.Array)
	if !ok {
		return invalidType(pkg.Path, KeyExternalPackages, "array", raw.Kind())
	}

	global := l.opts.GlobalOverlays()
	for i, entry := range entries {
		dep, err := parseExternal(pkg.Path, i, entry, global)
		if err != nil {
			return err
		}
		pkg.External = append(pkg.External, dep)

		if dep.Type == Manifest {
			continue
		}
		if !dep.Active {
			logger.Debug("%s: external dependency %s inactive; none of %v requested", pkg.Path, dep.Name(), dep.IfIncluding)
			continue
		}

		target := filepath.Join(pkg.ImportedPath, "external", dep.Name(), DefaultFile)
		imported, err := l.loadFile(target)
		if err != nil {
			if errors.Is(err, iofs.ErrNotExist) {
				logger.Warn("%s: external dependency %s has not been fetched (%s)", pkg.Path, dep.Name(), target)
				continue
			}
			return err
		}
		pkg.Imports = append(pkg.Imports, imported)
	}
	return nil
}

func (l *Loader) readOverlays(pkg *Package, props value.Map) error {
	child, err := fragments(pkg.Path, KeyOverlays, props[KeyOverlays])
	if err != nil {
		return err
	}
	if child != nil {
		pkg.childOverlays = child
	}

	for _, imp := range pkg.Imports {
		for name, fragment := range imp.childOverlays {
			pkg.importedOverlays[imp.Name+Separator+name] = fragment
		}
		for name, fragment := range imp.importedOverlays {
			pkg.importedOverlays[name] = fragment
		}
	}

	mixins, err := fragments(pkg.Path, KeyMixins, props[KeyMixins])
	if err != nil {
		return err
	}
	if mixins != nil {
		pkg.Mixins = mixins
	}
	return nil
}

// resolveTasks applies mixins and overlays to the package's own tasks and
// freezes the results.
func (l *Loader) resolveTasks(pkg *Package) error {
	states := make([]*resolver.TaskState, len(pkg.ownTasks))
	for i, t := range pkg.ownTasks {
		state, err := resolver.NewTaskState(t.QualifiedName(), t.options, t.declared)
		if err != nil {
			return &PackageError{File: pkg.Path, Key: KeyTasks + "." + t.name, Err: err}
		}
		for _, name := range l.opts.Configurations {
			mixin, ok := pkg.Mixins[name]
			if !ok {
				continue
			}
			if err := resolver.ApplyMixins(state, name, mixin); err != nil {
				return &PackageError{File: pkg.Path, Key: KeyMixins + "." + name, Err: err}
			}
		}
		states[i] = state
	}

	result, err := resolver.Resolve(states, pkg.Overlays(), l.resolverOptions())
	if err != nil {
		return &PackageError{File: pkg.Path, Key: KeyTasks, Err: err}
	}
	for _, name := range result.Used {
		l.used[name] = true
	}

	for i, t := range pkg.ownTasks {
		t.options = states[i].Options
		t.applied = states[i].Applied
		// Mixins and overlays may have appended to the dependency list.
		if err := stringArray(pkg.Path, KeyTasks+"."+t.name+"."+KeyDependencies, t.options[KeyDependencies]); err != nil {
			return err
		}
	}
	return nil
}

// exportImportedTasks adds every imported task under its qualified name,
// and under its bare name unless a local task or earlier import has it.
func (l *Loader) exportImportedTasks(pkg *Package) {
	for _, imp := range pkg.Imports {
		for _, t := range imp.taskList {
			if _, exists := pkg.tasks[t.QualifiedName()]; exists {
				continue
			}
			pkg.tasks[t.QualifiedName()] = t
			pkg.taskList = append(pkg.taskList, t)
			if _, shadowed := pkg.tasks[t.name]; !shadowed {
				pkg.tasks[t.name] = t
			}
		}
	}
}

// fragments reads a map of named option maps, such as overlays or mixins.
func fragments(file, key string, raw value.Value) (map[string]value.Map, error) {
	if raw == nil {
		return nil, nil
	}
	m, ok := raw.(value.Map)
	if !ok {
		return nil, invalidType(file, key, "map", raw.Kind())
	}

	out := make(map[string]value.Map, len(m))
	for _, name := range m.Keys() {
		fragment, ok := m[name].(value.Map)
		if !ok {
			return nil, invalidType(file, key+"."+name, "map", m[name].Kind())
		}
		out[name] = fragment.Clone()
	}
	return out, nil
}
