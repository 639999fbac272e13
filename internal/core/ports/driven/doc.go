// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - RemoteSource: Page-addressed issue listing for one repository
//   - SourceConnector: Opens a RemoteSource for a credential
//   - ProgressStore: Dataset and checkpoint persistence per target
//   - TokenProvider: Supplies the configured credentials
//   - ConfigStore: Application configuration
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or connector package
package driven
