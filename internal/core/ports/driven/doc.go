// Package driven defines the outbound ports of the core: interfaces the
// core depends on, implemented by adapters (HTTP client, config store,
// materialized document stores).
package driven
