/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package atpkg

// Extension is the file extension of package files.
const Extension = ".atpkg"

// DefaultFile is the conventional package file name.
const DefaultFile = "build.atpkg"

// Separator joins a package name and a task or overlay name.
const Separator = "."

// Top-level package keys.
const (
	KeyName             = "name"
	KeyVersion          = "version"
	KeyPayload          = "payload"
	KeyTasks            = "tasks"
	KeyOverlays         = "overlays"
	KeyImportPackages   = "import-packages"
	KeyExternalPackages = "external-packages"
	KeyBinaries         = "binaries"
	KeyMixins           = "mixins"
)

// Task option keys the engine interprets.
const (
	KeyTool             = "tool"
	KeyDependencies     = "dependencies"
	KeySources          = "sources"
	KeyUseOverlays      = "use-overlays"
	KeyOverlay          = "overlay"
	KeyRequiredOverlays = "required-overlays"
	KeyOnlyPlatforms    = "only-platforms"
)

// External dependency keys.
const (
	KeyURL         = "url"
	KeyChannels    = "channels"
	KeyIfIncluding = "if-including"
	KeyBranch      = "branch"
	KeyCommit      = "commit"
	KeyTag         = "tag"
)

// PackageDeclaration is the only declaration name a package file may use.
const PackageDeclaration = "package"

var knownKeys = map[string]bool{
	KeyName:             true,
	KeyVersion:          true,
	KeyPayload:          true,
	KeyTasks:            true,
	KeyOverlays:         true,
	KeyImportPackages:   true,
	KeyExternalPackages: true,
	KeyBinaries:         true,
	KeyMixins:           true,
}
