// Package manifest provides types and utilities for loading and validating
// composefetch manifest files. A manifest defines multiple service specs
// with global options, as an alternative to passing specs on the command
// line.
//
// # Manifest Format
//
// Manifests can be written in YAML or JSON format:
//
//	specs:
//	  - Data4Democracy/docker-scaffolding:docker-compose.yml@api
//	  - someuser/nginx-demo+dev:compose/docker-compose.yml@nginx,redis
//	options:
//	  output: ./docker-compose.yml
//	  transport: http
//	  strict: true
//
// # Error Handling
//
// The package defines sentinel errors for common failure cases:
//   - ErrNoSpecs: manifest has no specs defined
//   - ErrEmptySpec: a spec entry is blank
//   - ErrInvalidFormat: file is not valid YAML/JSON
//   - ErrFileNotFound: manifest file does not exist
//   - ErrUnsupportedExt: unsupported file extension
package manifest
