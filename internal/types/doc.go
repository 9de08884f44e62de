// Package types defines the tool registry vocabulary shared by providers and
// the HTTP API: services, tools, parameters and execution results.
package types
