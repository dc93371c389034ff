package model

import (
	_ "embed"
)

// GPUPositionSource is the canonical WGSL definition of the PositionInput struct, the
// per-vertex position stream bound at vertex buffer slot 0.
//
//go:embed assets/point_position.wgsl
var GPUPositionSource string

// GPUColorSource is the canonical WGSL definition of the ColorInput struct, the per-vertex
// color stream bound at vertex buffer slot 1.
//
//go:embed assets/point_color.wgsl
var GPUColorSource string

// Vertex buffer slots of the two point streams. Slot order matches the order the input
// structs appear in the vertex shader.
const (
	PositionSlot = 0
	ColorSlot    = 1
)

// Per-vertex component counts and byte strides of the two streams.
const (
	PositionComponents = 3
	ColorComponents    = 4
	PositionStride     = PositionComponents * 4
	ColorStride        = ColorComponents * 4
)
