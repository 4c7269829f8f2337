//go:build !test
// +build !test

package sim

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
)

const vertexShaderSource = `
#version 410 core
layout (location = 0) in vec3 aPos;
layout (location = 1) in vec3 aColor;

uniform mat4 model;
uniform mat4 view;
uniform mat4 projection;

out vec3 vertexColor;
out vec3 worldPos;

void main() {
    vec4 wp = model * vec4(aPos, 1.0);
    worldPos = wp.xyz;
    gl_Position = projection * view * wp;
    vertexColor = aColor;
}
` + "\x00"

const fragmentShaderSource = `
#version 410 core
in vec3 vertexColor;
in vec3 worldPos;
out vec4 FragColor;

uniform vec3 uCameraPos;  // for fog based on distance
uniform vec3 uFogColor;
uniform float uFogDensity; // exponential fog density
uniform int uGridEnable;   // 1 = overlay contour grid (terrain)
uniform float uGridSpacing; // world units between grid lines
uniform vec3 uGridLineColor;
uniform float uGridLineAlpha; // 0..1

void main() {
    vec3 baseColor = vertexColor;

    if (uGridEnable == 1) {
        // Faint survey grid over the terrain, aligned to world XZ
        float wx = worldPos.x / uGridSpacing;
        float wz = worldPos.z / uGridSpacing;
        float fx = abs(fract(wx) - 0.5);
        float fz = abs(fract(wz) - 0.5);
        float lineMask = 1.0 - smoothstep(0.0, 0.03, min(fx, fz));
        baseColor = mix(baseColor, uGridLineColor, lineMask * uGridLineAlpha);
    }

    // Exponential fog by camera distance
    float dist = distance(worldPos, uCameraPos);
    float fogFactor = 1.0 - exp(-uFogDensity * dist);
    vec3 finalColor = mix(baseColor, uFogColor, clamp(fogFactor, 0.0, 1.0));
    FragColor = vec4(finalColor, 1.0);
}
` + "\x00"

const (
	terrainExtent = 1600.0 // rendered half-size of the world, world units
	terrainCells  = 160    // quads per side
)

type Renderer struct {
	shaderProgram uint32
	carpetVAO     uint32
	terrainVAO    uint32
	terrainCount  int32
	modelLoc      int32
	viewLoc       int32
	projectionLoc int32
	cameraPosLoc  int32
	fogColorLoc   int32
	fogDensityLoc int32
	gridEnableLoc int32
	gridSpaceLoc  int32
	gridColorLoc  int32
	gridAlphaLoc  int32

	cameraPos Vec3
}

// NewRenderer compiles the shaders and uploads the terrain mesh sampled
// from field. The mesh is static; regenerated terrain needs a new renderer.
func NewRenderer(field HeightField) *Renderer {
	r := &Renderer{}
	r.initShaders()
	r.initCarpetGeometry()
	r.initTerrainGeometry(field)
	return r
}

func (r *Renderer) initShaders() {
	vertexShader := compileShader(vertexShaderSource, gl.VERTEX_SHADER)
	fragmentShader := compileShader(fragmentShaderSource, gl.FRAGMENT_SHADER)

	r.shaderProgram = gl.CreateProgram()
	gl.AttachShader(r.shaderProgram, vertexShader)
	gl.AttachShader(r.shaderProgram, fragmentShader)
	gl.LinkProgram(r.shaderProgram)

	var success int32
	gl.GetProgramiv(r.shaderProgram, gl.LINK_STATUS, &success)
	if success == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(r.shaderProgram, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(r.shaderProgram, logLength, nil, gl.Str(log))
		panic(fmt.Errorf("failed to link shader program: %v", log))
	}

	gl.DeleteShader(vertexShader)
	gl.DeleteShader(fragmentShader)

	r.modelLoc = gl.GetUniformLocation(r.shaderProgram, gl.Str("model\x00"))
	r.viewLoc = gl.GetUniformLocation(r.shaderProgram, gl.Str("view\x00"))
	r.projectionLoc = gl.GetUniformLocation(r.shaderProgram, gl.Str("projection\x00"))
	r.cameraPosLoc = gl.GetUniformLocation(r.shaderProgram, gl.Str("uCameraPos\x00"))
	r.fogColorLoc = gl.GetUniformLocation(r.shaderProgram, gl.Str("uFogColor\x00"))
	r.fogDensityLoc = gl.GetUniformLocation(r.shaderProgram, gl.Str("uFogDensity\x00"))
	r.gridEnableLoc = gl.GetUniformLocation(r.shaderProgram, gl.Str("uGridEnable\x00"))
	r.gridSpaceLoc = gl.GetUniformLocation(r.shaderProgram, gl.Str("uGridSpacing\x00"))
	r.gridColorLoc = gl.GetUniformLocation(r.shaderProgram, gl.Str("uGridLineColor\x00"))
	r.gridAlphaLoc = gl.GetUniformLocation(r.shaderProgram, gl.Str("uGridLineAlpha\x00"))
}

func (r *Renderer) initCarpetGeometry() {
	// Flat slab in a unit footprint; the model matrix scales it to the
	// body's dimensions. Crimson top, darker weave underneath, gold trim.
	carpetVertices := []float32{
		// Top face corners (gold-trimmed crimson)
		-0.5, 0.5, 0.5, 0.86, 0.16, 0.18,
		0.5, 0.5, 0.5, 0.86, 0.16, 0.18,
		0.5, 0.5, -0.5, 0.93, 0.72, 0.25,
		-0.5, 0.5, -0.5, 0.93, 0.72, 0.25,
		// Bottom face corners (dark weave)
		-0.5, -0.5, 0.5, 0.42, 0.07, 0.10,
		0.5, -0.5, 0.5, 0.42, 0.07, 0.10,
		0.5, -0.5, -0.5, 0.35, 0.06, 0.08,
		-0.5, -0.5, -0.5, 0.35, 0.06, 0.08,
	}

	carpetIndices := []uint32{
		// Top
		0, 1, 2, 2, 3, 0,
		// Bottom
		4, 5, 6, 6, 7, 4,
		// Sides
		0, 4, 5, 5, 1, 0,
		1, 5, 6, 6, 2, 1,
		2, 6, 7, 7, 3, 2,
		3, 7, 4, 4, 0, 3,
	}

	var vbo, ebo uint32
	gl.GenVertexArrays(1, &r.carpetVAO)
	gl.GenBuffers(1, &vbo)
	gl.GenBuffers(1, &ebo)

	gl.BindVertexArray(r.carpetVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(carpetVertices)*4, gl.Ptr(carpetVertices), gl.STATIC_DRAW)

	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(carpetIndices)*4, gl.Ptr(carpetIndices), gl.STATIC_DRAW)

	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 6*4, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, 6*4, gl.PtrOffset(3*4))
	gl.EnableVertexAttribArray(1)
}

// initTerrainGeometry samples the height field over a regular grid and
// uploads an indexed mesh, colored by elevation band.
func (r *Renderer) initTerrainGeometry(field HeightField) {
	side := terrainCells + 1
	step := 2 * terrainExtent / float64(terrainCells)

	verts := make([]float32, 0, side*side*6)
	for iz := 0; iz < side; iz++ {
		for ix := 0; ix < side; ix++ {
			x := -terrainExtent + float64(ix)*step
			z := -terrainExtent + float64(iz)*step
			h := field(x, z)
			cr, cg, cb := elevationColor(h)
			verts = append(verts,
				float32(x), float32(h), float32(z),
				cr, cg, cb)
		}
	}

	indices := make([]uint32, 0, terrainCells*terrainCells*6)
	for iz := 0; iz < terrainCells; iz++ {
		for ix := 0; ix < terrainCells; ix++ {
			a := uint32(iz*side + ix)
			b := a + 1
			c := a + uint32(side)
			d := c + 1
			indices = append(indices, a, c, b, b, c, d)
		}
	}
	r.terrainCount = int32(len(indices))

	var vbo, ebo uint32
	gl.GenVertexArrays(1, &r.terrainVAO)
	gl.GenBuffers(1, &vbo)
	gl.GenBuffers(1, &ebo)

	gl.BindVertexArray(r.terrainVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(verts)*4, gl.Ptr(verts), gl.STATIC_DRAW)

	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, gl.Ptr(indices), gl.STATIC_DRAW)

	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 6*4, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, 6*4, gl.PtrOffset(3*4))
	gl.EnableVertexAttribArray(1)
}

// elevationColor shades lowlands green, slopes ochre, peaks toward snow.
func elevationColor(h float64) (float32, float32, float32) {
	switch {
	case h < 0:
		return 0.16, 0.38, 0.55 // below the waterline
	case h < 18:
		return 0.27, 0.55, 0.27
	case h < 38:
		return 0.48, 0.44, 0.28
	case h < 55:
		return 0.52, 0.50, 0.48
	default:
		return 0.88, 0.90, 0.94
	}
}

func (r *Renderer) SetMatrices(model, view, projection Mat4) {
	m, v, p := mat4f(model), mat4f(view), mat4f(projection)
	gl.UseProgram(r.shaderProgram)
	gl.UniformMatrix4fv(r.modelLoc, 1, false, &m[0])
	gl.UniformMatrix4fv(r.viewLoc, 1, false, &v[0])
	gl.UniformMatrix4fv(r.projectionLoc, 1, false, &p[0])
}

// mat4f narrows a simulation matrix for the GL uniform upload.
func mat4f(m Mat4) [16]float32 {
	var out [16]float32
	for i, v := range m {
		out[i] = float32(v)
	}
	return out
}

func (r *Renderer) RenderCarpet() {
	gl.BindVertexArray(r.carpetVAO)
	gl.UseProgram(r.shaderProgram)
	gl.Uniform1i(r.gridEnableLoc, 0)
	r.setFogUniforms()
	gl.DrawElements(gl.TRIANGLES, 36, gl.UNSIGNED_INT, gl.PtrOffset(0))
	gl.BindVertexArray(0)
}

func (r *Renderer) RenderTerrain() {
	gl.BindVertexArray(r.terrainVAO)
	gl.UseProgram(r.shaderProgram)
	gl.Uniform1i(r.gridEnableLoc, 1)
	gl.Uniform1f(r.gridSpaceLoc, 32.0)
	gl.Uniform3f(r.gridColorLoc, 0.14, 0.24, 0.14)
	gl.Uniform1f(r.gridAlphaLoc, 0.35)
	r.setFogUniforms()
	gl.DrawElements(gl.TRIANGLES, r.terrainCount, gl.UNSIGNED_INT, gl.PtrOffset(0))
	gl.BindVertexArray(0)
}

func (r *Renderer) setFogUniforms() {
	gl.Uniform3f(r.cameraPosLoc, float32(r.cameraPos.X), float32(r.cameraPos.Y), float32(r.cameraPos.Z))
	gl.Uniform3f(r.fogColorLoc, 0.62, 0.72, 0.85)
	gl.Uniform1f(r.fogDensityLoc, 0.0016)
}

func (r *Renderer) SetCamera(pos Vec3) {
	r.cameraPos = pos
}

func compileShader(source string, shaderType uint32) uint32 {
	shader := gl.CreateShader(shaderType)
	cSources, free := gl.Strs(source)
	gl.ShaderSource(shader, 1, cSources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		panic(fmt.Errorf("failed to compile %v: %v", source, log))
	}

	return shader
}
