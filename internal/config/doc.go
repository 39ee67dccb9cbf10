// Package config loads spanbuf settings from TOML.
//
// Settings are layered: built-in defaults, then the TOML file, then
// SPANBUF_* environment variables. A missing file is not an error.
//
//	[log]
//	level = "debug"
//
//	[buffer]
//	max_depth = 64
//	max_length = 0
//	paragraph_separators = ["\n"]
//
//	[geometry]
//	tab_width = 8
//
//	[script]
//	watch = true
//
// Unknown keys are rejected so that typos surface as a ParseError instead of
// being ignored.
package config
