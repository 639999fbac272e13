// Package connectors holds the remote sources a crawl can read from.
// Each subpackage implements driven.SourceConnector for one tracker;
// github is the only one today.
package connectors
