// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is loaded from ~/.config/cmdresolve/config.cue (or the XDG equivalent on
// Linux, ~/Library/Application Support/cmdresolve/config.cue on macOS,
// %APPDATA%\cmdresolve\config.cue on Windows), falling back to ./config.cue. Values can be
// overridden with CMDRESOLVE_* environment variables.
//
// Files are validated against an embedded CUE schema (config_schema.cue).
package config
