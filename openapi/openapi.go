// Package openapi embeds the OpenAPI description of the routing dashboard API.
// The HTTP server serves it at /openapi.yaml.
package openapi

import _ "embed"

// Document contains the raw bytes of openapi.yaml, embedded at compile time,
// so the served description always matches the running binary.
//
//go:embed openapi.yaml
var Document []byte
