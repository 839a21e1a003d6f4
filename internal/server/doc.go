// Package server bridges the addon's tool registry onto an MCP server.
//
// Every registered tool is exposed with its derived input schema passed
// through verbatim. Incoming arguments are validated against that schema
// before dispatch, transport failures are retried up to the tool's retry
// budget, and the action response envelope is returned as JSON.
//
// The package also provides a dedicated Prometheus metrics server so that
// operational metrics stay off the MCP port.
package server
