// Package config loads the synsectl configuration.
//
// Configuration is optional: every command works with defaults plus flags,
// and a YAML file only pins down a server address and connection settings
// so they do not have to be repeated per invocation.
//
// # Loading Order
//
//  1. Hardcoded defaults (local server, default port)
//  2. YAML file values
//  3. SYNSE_* environment variables
//
// # Example
//
//	server:
//	  address: "synse.internal:5000"
//	  timeout: 10
//	  tls:
//	    enabled: true
//	logging:
//	  level: info
//	  format: text
package config
