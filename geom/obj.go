package geom

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// MalformedMeshError reports an OBJ line that matched a recognized prefix
// but did not parse: wrong token count, a non-numeric token, or a face
// corner referencing an index outside the mesh parsed so far.
type MalformedMeshError struct {
	Line   int
	Reason string
}

func (e *MalformedMeshError) Error() string {
	return fmt.Sprintf("malformed mesh at line %d: %s", e.Line, e.Reason)
}

// ParseOBJ reads a mesh from the OBJ subset written by the simulator:
// "v x y z" vertices, "vt u v" texture coordinates, and "f i[/t] ..."
// faces with 1-based indices. Any other line kind (comments, "ms", "nv",
// and whatever future directives show up) is skipped, not rejected.
func ParseOBJ(r io.Reader) (*Mesh, error) {
	m := &Mesh{}
	scanner := bufio.NewScanner(r)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "v":
			v, err := parseFloats3(fields[1:])
			if err != nil {
				return nil, &MalformedMeshError{lineNum, err.Error()}
			}
			m.AppendVertex(v)
		case "vt":
			vt, err := parseFloats2(fields[1:])
			if err != nil {
				return nil, &MalformedMeshError{lineNum, err.Error()}
			}
			m.AppendTexCoord(vt)
		case "f":
			corners, err := parseCorners(fields[1:])
			if err == nil {
				err = m.AppendFace(corners...)
			}
			if err != nil {
				return nil, &MalformedMeshError{lineNum, err.Error()}
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return m, nil
}

// ReadOBJ parses the mesh stored in the given file.
func ReadOBJ(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := ParseOBJ(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// WriteOBJ serializes the mesh in its insertion order: vertices, then
// texture coordinates, then faces, with indices converted back to the
// format's 1-based convention. ParseOBJ of the output reproduces the mesh.
func (m *Mesh) WriteOBJ(w io.Writer) error {
	buf := bufio.NewWriter(w)

	for _, v := range m.Vertices {
		fmt.Fprintf(buf, "v %g %g %g\n", v[0], v[1], v[2])
	}
	for _, vt := range m.TexCoords {
		fmt.Fprintf(buf, "vt %g %g\n", vt[0], vt[1])
	}
	for _, face := range m.Faces {
		fmt.Fprint(buf, "f")
		for _, c := range face {
			if c.Tex == NoTex {
				fmt.Fprintf(buf, " %d", c.Vert+1)
			} else {
				fmt.Fprintf(buf, " %d/%d", c.Vert+1, c.Tex+1)
			}
		}
		fmt.Fprint(buf, "\n")
	}

	return buf.Flush()
}

// SaveOBJ writes the mesh to the given file.
func (m *Mesh) SaveOBJ(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := m.WriteOBJ(f); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}

func parseFloats3(fields []string) (mgl64.Vec3, error) {
	var v mgl64.Vec3
	if len(fields) != 3 {
		return v, fmt.Errorf("expected 3 coordinates, got %d", len(fields))
	}
	for i, s := range fields {
		x, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return v, fmt.Errorf("coordinate '%s' is not a number", s)
		}
		v[i] = x
	}
	return v, nil
}

func parseFloats2(fields []string) (mgl64.Vec2, error) {
	var vt mgl64.Vec2
	if len(fields) != 2 {
		return vt, fmt.Errorf("expected 2 coordinates, got %d", len(fields))
	}
	for i, s := range fields {
		x, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return vt, fmt.Errorf("coordinate '%s' is not a number", s)
		}
		vt[i] = x
	}
	return vt, nil
}

// parseCorners converts 1-based "i", "i/t", and "i/t/n" face tokens to
// 0-based FaceVerts. The normal index, when present, is not retained.
func parseCorners(tokens []string) ([]FaceVert, error) {
	corners := make([]FaceVert, len(tokens))
	for i, tok := range tokens {
		parts := strings.SplitN(tok, "/", 3)

		vi, err := strconv.Atoi(parts[0])
		if err != nil || vi == 0 {
			return nil, fmt.Errorf("face corner '%s' has an invalid vertex index", tok)
		}
		corners[i] = FaceVert{Vert: vi - 1, Tex: NoTex}

		if len(parts) > 1 && parts[1] != "" {
			ti, err := strconv.Atoi(parts[1])
			if err != nil || ti == 0 {
				return nil, fmt.Errorf("face corner '%s' has an invalid texcoord index", tok)
			}
			corners[i].Tex = ti - 1
		}
	}
	return corners, nil
}
