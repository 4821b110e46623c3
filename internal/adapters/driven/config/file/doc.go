// Package file provides the TOML configuration store.
//
// Values are read from ~/.docgraph/config.toml with nested tables flattened
// to dot keys ("storage.data_dir"). Environment variables listed in
// EnvOverrides take precedence over the file.
package file
