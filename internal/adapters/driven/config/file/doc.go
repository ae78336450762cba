// Package file provides file-based implementations of driven port interfaces.
// These adapters read from the local filesystem.
//
// Adapters:
//   - Config: TOML configuration with IMPLKIT_* environment overrides
//   - TemplateStore: user-editable document templates with embedded defaults
package file
