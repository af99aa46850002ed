// Package config loads runtime configuration for the passvault CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment: PASSVAULT_SERVER_URL, PASSVAULT_DATA_DIR, PASSVAULT_TIMEOUT.
//  3. Optional JSON file passed with --config.
//
// The CLI's --server and --data-dir flags are applied on top by the caller.
//
// # JSON schema
//
// The JSON loader uses timex.Duration for the timeout, so values can be either
// strings like "15s" or integer nanoseconds:
//
//	{
//	  "server_url": "https://vault.example.com",
//	  "data_dir": ".passvault",
//	  "timeout": "15s"
//	}
package config
