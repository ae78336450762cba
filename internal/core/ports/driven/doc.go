// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - Normaliser: Turns raw file bytes into an ExtractionResult
//   - NormaliserRegistry: Selects the normaliser for a MIME type
//   - CustomerStore: Customer, environment and checklist lookup
//   - FileSource: Local file reads for the extraction tools
//   - TemplateStore: User-editable assessment templates
//
// # Optional Interfaces
//
// These can be nil - the matching tools answer with a configuration hint:
//
//   - TokenProvider: Bearer tokens for remote APIs, cached per scope
//   - MailClient: Remote mailbox query (Microsoft Graph or Gmail)
//   - TabularClient: Remote tabular records (Dataverse Web API)
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, connector, or normaliser package
package driven
