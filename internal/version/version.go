// Package version provides build and version information.
package version

// Version is the current application version. Release builds override it
// with -ldflags "-X".
var Version = "0.3.0"

// Milestones:
// 0.3.0 - HTTP service with websocket stream, eclipse circumstances, config files
// 0.2.0 - Comet and binary catalogs, twilight, TUI almanac and sky view
// 0.1.0 - Initial release: calendar, sidereal time, Sun and Moon rise/set
