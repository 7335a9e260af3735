// Package plugin defines the ABI boundary an out-of-process plugin
// must satisfy to register types and functions into a Registry. It is
// deliberately a pure interface with no dynamic-library loader behind
// it: the mechanics of finding and opening a plugin binary are an
// external collaborator's concern (spec's own "plugin loader" non-goal),
// while the version-check-before-install contract that every loader
// must honor belongs here, next to the interface it gates.
package plugin

import (
	"fmt"

	"github.com/intuicio-go/intuicio/registry"
)

// CoreVersion is the ABI version this build of the core satisfies. A
// Plugin built against a different version is rejected before Install
// ever runs, so a mismatched plugin can never leave the registry
// partially populated.
const CoreVersion uint32 = 1

// Plugin is the contract an external plugin binary's symbol table must
// expose: a Version the core checks before trusting anything else, and
// an Install entry point that registers the plugin's types and
// functions into reg.
type Plugin interface {
	Version() uint32
	Install(reg *registry.Registry) error
}

// Install checks p's declared Version against CoreVersion and, only if
// they match, calls p.Install(reg). A version mismatch is reported
// without invoking Install at all, so a stale or forward-built plugin
// never gets the chance to leave partial registrations behind.
func Install(p Plugin, reg *registry.Registry) error {
	if v := p.Version(); v != CoreVersion {
		return fmt.Errorf("plugin ABI version %d does not match core version %d", v, CoreVersion)
	}
	return p.Install(reg)
}
