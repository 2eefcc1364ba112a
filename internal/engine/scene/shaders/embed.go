// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// ModelVertexShader is the vertex shader for model rendering.
//
//go:embed model.vert
var ModelVertexShader string

// ModelFragmentShader is the fragment shader for model rendering.
// Shading is an ambient term plus a single directional lambert term.
//
//go:embed model.frag
var ModelFragmentShader string
