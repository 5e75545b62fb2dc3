// Package api embeds the OpenAPI document for the fleet dashboard API.
// It is imported by the HTTP server to serve the document at /openapi.yaml.
package api

import _ "embed"

// OpenAPI contains the raw bytes of openapi.yaml, embedded at compile time.
//
//go:embed openapi.yaml
var OpenAPI []byte
