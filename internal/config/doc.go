// Package config loads inklink settings.
//
// Settings are layered with higher layers overriding lower:
//
//	┌─────────────────────────────┐
//	│  3. Environment Variables   │  ← INKLINK_*
//	├─────────────────────────────┤
//	│  2. Settings File           │  ← ~/.config/inklink/config.toml
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │
//	└─────────────────────────────┘
//
// The settings file is TOML, or YAML when its name ends in .yaml or .yml.
// A missing file is not an error. Unknown keys are.
//
//	scheme = "inkscape"
//	ask_for_file_name = true
//	image_directory = "figures"
//
//	[preview]
//	watch = true
//	debounce = "250ms"
//
// Command templates are fmt templates. The create command receives the
// template path and the new file's name, the open command receives the
// file's name; both run in the image's directory.
package config
