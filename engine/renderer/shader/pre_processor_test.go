package shader

import (
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-pointcloud/engine/camera"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreProcessor_IncludeAndGroup(t *testing.T) {
	pp := NewPreProcessor()
	out, err := pp.Process("//@oxy:include point_uniform\n//@oxy:group 0 0 storage_uniform uniforms point_uniform\nfn f() {}")
	require.NoError(t, err)

	assert.Contains(t, out, strings.TrimRight(camera.GPUPointUniformSource, "\n"))
	assert.Contains(t, out, "@group(0) @binding(0) var<uniform> uniforms: PointUniform;")
	assert.Contains(t, out, "fn f() {}")

	decls := pp.Declarations()
	require.Len(t, decls, 1)
	assert.Equal(t, AnnotationTypeBindingGroup, decls[0].Type)
	assert.Equal(t, 0, *decls[0].Group)
	assert.Equal(t, 0, *decls[0].Binding)
	assert.Equal(t, 2, decls[0].Line)
}

func TestPreProcessor_IncludeOnce(t *testing.T) {
	pp := NewPreProcessor()
	out, err := pp.Process("//@oxy:include point_color\n//@oxy:include point_color")
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(out, "struct ColorInput"))
}

func TestPreProcessor_ReadStorage(t *testing.T) {
	pp := NewPreProcessor()
	out, err := pp.Process("//@oxy:group 1 2 storage_read data point_uniform")
	require.NoError(t, err)
	assert.Equal(t, "@group(1) @binding(2) var<storage, read> data: PointUniform;", out)
}

func TestPreProcessor_ResetsDeclarations(t *testing.T) {
	pp := NewPreProcessor()
	_, err := pp.Process("//@oxy:group 0 0 storage_uniform u point_uniform")
	require.NoError(t, err)
	_, err = pp.Process("fn f() {}")
	require.NoError(t, err)
	assert.Empty(t, pp.Declarations())
}

func TestParseAnnotation(t *testing.T) {
	a, err := parseAnnotation("let x = 1; // not an annotation", 1)
	assert.NoError(t, err)
	assert.Nil(t, a)

	a, err = parseAnnotation("  //@oxy:include point_position", 4)
	require.NoError(t, err)
	assert.Equal(t, annotationTypeInclude, a.Type)
	assert.Equal(t, 4, a.Line)
	assert.Nil(t, a.Group)

	bad := []string{
		"//@oxy:",
		"//@oxy:include",
		"//@oxy:include point_position extra",
		"//@oxy:group 0 0 storage_uniform u",
		"//@oxy:group x 0 storage_uniform u point_uniform",
		"//@oxy:group 0 y storage_uniform u point_uniform",
		"//@oxy:group 0 0 storage_read_write u point_uniform",
		"//@oxy:group 0 0 storage_uniform u camera",
		"//@oxy:provider 0 0 camera",
	}
	for _, line := range bad {
		_, err := parseAnnotation(line, 1)
		assert.Error(t, err, line)
	}
}
