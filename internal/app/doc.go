// Package app assembles the process: it builds the logger, loads the type
// registry, creates the hosted document, and runs the MCP server over it.
package app
