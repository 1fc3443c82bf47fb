// Package version provides build and version information.
package version

// Version is the current application version.
const Version = "0.4.0"

// Milestones:
// 0.4.0 - Year statistics, MessagePack export, sampled dawn/dusk check
// 0.3.0 - Event log, twilight selection, YAML config with timezone longitude fallback
// 0.2.0 - TUI clock with UTC/local/CTU modes, dawn and dusk in CTU
// 0.1.0 - Initial release: UTC<->CTU conversion, noon cache, headless summary
