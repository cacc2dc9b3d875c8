package psurf

import "github.com/soypat/psurf/gfx"

// GLSL ES 1.00 sources. Each attribute and uniform is declared on its own line.

var cubeShader = gfx.ShaderSource{
	Vertex: `attribute vec3 aPos;

uniform vec3 color;
uniform mat4 m;
uniform mat4 v;
uniform mat4 p;

varying highp vec3 vColor;

void main() {
	gl_Position = p * v * m * vec4(aPos, 1.0);
	vColor = color;
}
`,
	Fragment: `varying highp vec3 vColor;

void main() {
	gl_FragColor = vec4(vColor, 1.0);
}
`,
}

var torusShader = gfx.ShaderSource{
	Vertex: `attribute vec3 position;
attribute vec3 color;

uniform mat4 p;
uniform mat4 m;
uniform mat4 v;

varying vec4 vColor;

void main() {
	vColor = vec4(color, 1.0);
	gl_Position = p * v * m * vec4(position, 1.0);
	gl_PointSize = 2.0;
}
`,
	Fragment: `precision mediump float;
varying vec4 vColor;

void main() {
	gl_FragColor = vColor;
}
`,
}

var triforceShader = gfx.ShaderSource{
	Vertex: `attribute vec3 position;
attribute vec3 normal;
attribute vec2 texCoord;

uniform mat4 mv;
uniform mat4 p;
uniform mat4 normalMatrix;
uniform vec3 ambientLight;
uniform vec3 lightColor;
uniform vec3 lightDirection;

varying highp vec2 vTextureCoord;
varying highp vec3 vLighting;

void main() {
	gl_Position = p * mv * vec4(position, 1.0);
	vTextureCoord = texCoord;
	highp vec4 n = normalMatrix * vec4(normal, 0.0);
	highp float directional = max(dot(normalize(n.xyz), lightDirection), 0.0);
	vLighting = ambientLight + lightColor * directional;
}
`,
	Fragment: `precision mediump float;
varying highp vec2 vTextureCoord;
varying highp vec3 vLighting;

uniform sampler2D uSampler;

void main() {
	highp vec4 texel = texture2D(uSampler, vTextureCoord);
	gl_FragColor = vec4(texel.rgb * vLighting, texel.a);
}
`,
}
