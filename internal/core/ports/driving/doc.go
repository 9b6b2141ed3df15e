// Package driving defines the inbound ports of the core: the interfaces
// through which the CLI, MCP server and other entry points invoke
// generation and reconciliation.
package driving
