// Patch bytes and redirect functions inside a running process
//
// This started as the guts of a game-client mod: overwrite a few bytes here,
// detour a few functions there, and put everything back exactly as it was
// when the module unloads. The patch store remembers original bytes so every
// overwrite can be reverted, and hooks are installed through a transaction
// that either commits all of them or leaves the process untouched. You
// probably shouldn't run this against a process you care about.
//
// Limitations:
//   - Inline jump hooks only work on amd64 and arm64
//   - Resolving Go functions relies on internal runtime APIs that can break
//     at any time
//   - Hooking an inlined function silently has no effect at its call sites
//   - Jump targets must be within rel32 (amd64) or ±128MiB (arm64) of the
//     hooked entry
package hotpatch
