// Package assets embeds the built-in WGSL shaders so the viewer runs without a shader directory.
package assets

import "embed"

// Shader file names inside Shaders.
const (
	CloudVertex   = "shaders/cloud.vert.wgsl"
	CloudFragment = "shaders/cloud.frag.wgsl"
)

// Shaders holds the built-in point-cloud shader pair.
//
//go:embed shaders/*.wgsl
var Shaders embed.FS
