// Package domain defines the core business entities for implkit.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Record: An ordered field-name-to-value mapping produced by extraction
//   - ExtractionResult: Records plus the metadata envelope describing them
//   - CodeRecord: A declaration, import, export or comment found in source
//   - Customer, Environment, ChecklistItem: The implementation dataset
//   - TargetTool: The closed registry of downstream write tools
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
