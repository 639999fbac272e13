// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// CrawlController drives the page loop, CredentialRotator decides how to
// recover from quota exhaustion, and the transform functions turn raw
// source records into stored rows. None of them perform I/O directly.
package services
