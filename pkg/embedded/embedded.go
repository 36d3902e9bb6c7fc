// Package embedded provides embedded static assets for the application.
package embedded

import (
	"embed"
)

// ParamSetsFile is the catalog of recorded parameter sets.
const ParamSetsFile = "paramsets.yaml"

// Files contains all files embedded in the Go binary:
//   - paramsets.yaml - recorded parameter sets, read by internal/paramsets
//
//go:embed paramsets.yaml
var Files embed.FS
