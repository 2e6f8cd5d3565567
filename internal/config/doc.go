// Package config holds the flat configuration struct, its defaults,
// validation, and the optional settings-file loader.
//
// Configuration is assembled once from CLI flags plus an optional
// .jsrecon YAML file and passed through the application by dependency
// injection; nothing reads configuration globally at runtime.
package config
