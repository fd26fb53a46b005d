package scene

// Floats per vertex of the mesh layout: position xyz, uv, normal xyzw.
const MeshVertexFloats = 3 + 2 + 4

var cubeFaces = [6][3][3]float32{
	// normal, u, v with u x v = normal
	{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}},
	{{-1, 0, 0}, {0, 0, 1}, {0, 1, 0}},
	{{0, 1, 0}, {0, 0, 1}, {1, 0, 0}},
	{{0, -1, 0}, {1, 0, 0}, {0, 0, 1}},
	{{0, 0, 1}, {1, 0, 0}, {0, 1, 0}},
	{{0, 0, -1}, {0, 1, 0}, {1, 0, 0}},
}

// Cube returns an axis aligned cube of the given edge length centred on the
// origin. Front faces wind clockwise seen from outside.
func Cube(size float32) (vertices []float32, indices []uint16) {
	h := size / 2
	corners := [4][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}
	vertices = make([]float32, 0, 24*MeshVertexFloats)
	indices = make([]uint16, 0, 36)
	for f, face := range cubeFaces {
		n, u, v := face[0], face[1], face[2]
		for _, c := range corners {
			var p [3]float32
			for i := range p {
				p[i] = (n[i] + c[0]*u[i] + c[1]*v[i]) * h
			}
			vertices = append(vertices,
				p[0], p[1], p[2],
				(c[0]+1)/2, (c[1]+1)/2,
				n[0], n[1], n[2], 0,
			)
		}
		b := uint16(f * 4)
		indices = append(indices, b, b+2, b+1, b, b+3, b+2)
	}
	return vertices, indices
}
