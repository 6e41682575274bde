// Package domain translates MCP tool calls into validation and catalog commands.
//
// The package is intentionally explicit about that mapping:
// - decode tool payloads into domain units and options,
// - route calls to the validation engine or the unit catalog,
// - and surface structured outputs that MCP clients can render.
package domain
