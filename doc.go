// Package halyard turns a configuration file on disk into a validated
// configuration value in a single call.
//
// Quick Start:
//
//	cfg, err := halyard.Load(halyard.Options{
//	    Identity: "myapp",
//	    Schema: map[string]any{
//	        "type":     "object",
//	        "required": []any{"name"},
//	    },
//	    DefaultValues: map[string]any{"server.port": 8080},
//	})
//
// The file may contain // and /* */ comments. When no explicit FilePath is
// given, discovery tries ./config.json, then ~/.config/<identity>/config.json,
// then /etc/<identity>/config.json. Files more permissive than the
// FilePermission ceiling (default 0o600) are rejected.
//
// Every failure is a *halyard.LoadingError with a message from a fixed
// vocabulary. See example_test.go and examples/basic for detailed usage.
package halyard
