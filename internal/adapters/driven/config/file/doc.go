// Package file provides the TOML config store and the typed crawl
// settings resolved from it.
package file
