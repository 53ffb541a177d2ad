package loader

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/Carmen-Shannon/oxy-showcase/engine/model"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

const dracoExtension = "KHR_draco_mesh_compression"

// ErrDracoUnsupported is returned for models whose geometry is Draco compressed.
var ErrDracoUnsupported = errors.New("draco mesh compression is not supported")

type gltfLoaderBackend struct{}

var _ loaderBackend[model.Model] = &gltfLoaderBackend{}

func newGLTFLoaderBackend() *gltfLoaderBackend {
	return &gltfLoaderBackend{}
}

func (b *gltfLoaderBackend) Decode(src source) (model.Model, error) {
	var doc *gltf.Document
	if src.path != "" {
		// Open resolves external buffers relative to the file.
		d, err := gltf.Open(src.path)
		if err != nil {
			return nil, fmt.Errorf("failed to open gltf: %w", err)
		}
		doc = d
	} else {
		doc = new(gltf.Document)
		if err := gltf.NewDecoder(bytes.NewReader(src.data)).Decode(doc); err != nil {
			return nil, fmt.Errorf("failed to decode gltf: %w", err)
		}
	}
	name := strings.TrimSuffix(filepath.Base(src.name), filepath.Ext(src.name))
	return ImportGLTF(name, doc)
}

// ImportGLTF flattens the default scene of doc into a model with one part per
// triangle primitive, each carrying its accumulated node transform. Documents
// without a default scene use every root node.
//
// Parameters:
//   - name: the model name
//   - doc: the parsed document
//
// Returns:
//   - model.Model: the imported model
//   - error: error if geometry cannot be read or uses Draco compression
func ImportGLTF(name string, doc *gltf.Document) (model.Model, error) {
	if slices.Contains(doc.ExtensionsRequired, dracoExtension) {
		return nil, ErrDracoUnsupported
	}

	meshes := make([][]*model.Mesh, len(doc.Meshes))
	for mi, gm := range doc.Meshes {
		for pi, prim := range gm.Primitives {
			if prim.Mode != gltf.PrimitiveTriangles {
				continue
			}
			if _, ok := prim.Extensions[dracoExtension]; ok {
				return nil, ErrDracoUnsupported
			}
			m, err := readPrimitive(doc, prim)
			if err != nil {
				return nil, fmt.Errorf("mesh %d primitive %d: %w", mi, pi, err)
			}
			m.Name = fmt.Sprintf("%s/%d", gm.Name, pi)
			meshes[mi] = append(meshes[mi], m)
		}
	}

	mdl := model.NewModel(model.WithName(name))
	var walk func(idx int, parent mgl32.Mat4, depth int)
	walk = func(idx int, parent mgl32.Mat4, depth int) {
		// glTF forbids cycles; the depth bound guards malformed files.
		if idx < 0 || idx >= len(doc.Nodes) || depth > 64 {
			return
		}
		gn := doc.Nodes[idx]
		world := parent.Mul4(nodeTransform(gn))
		if gn.Mesh != nil && *gn.Mesh < len(meshes) {
			for _, m := range meshes[*gn.Mesh] {
				mdl.AddPart(m, world)
			}
		}
		for _, child := range gn.Children {
			walk(child, world, depth+1)
		}
	}
	for _, root := range rootNodes(doc) {
		walk(root, mgl32.Ident4(), 0)
	}

	if len(mdl.Parts()) == 0 {
		return nil, model.ErrEmptyMesh
	}
	return mdl, nil
}

func rootNodes(doc *gltf.Document) []int {
	if doc.Scene != nil && *doc.Scene < len(doc.Scenes) {
		return doc.Scenes[*doc.Scene].Nodes
	}
	hasParent := make([]bool, len(doc.Nodes))
	for _, gn := range doc.Nodes {
		for _, c := range gn.Children {
			if c >= 0 && c < len(hasParent) {
				hasParent[c] = true
			}
		}
	}
	var roots []int
	for i := range doc.Nodes {
		if !hasParent[i] {
			roots = append(roots, i)
		}
	}
	return roots
}

func nodeTransform(gn *gltf.Node) mgl32.Mat4 {
	if m := gn.MatrixOrDefault(); m != gltf.DefaultMatrix {
		var out mgl32.Mat4
		for i, v := range m {
			out[i] = float32(v)
		}
		return out
	}
	t := gn.TranslationOrDefault()
	r := gn.RotationOrDefault()
	s := gn.ScaleOrDefault()
	q := mgl32.Quat{W: float32(r[3]), V: mgl32.Vec3{float32(r[0]), float32(r[1]), float32(r[2])}}
	return mgl32.Translate3D(float32(t[0]), float32(t[1]), float32(t[2])).
		Mul4(q.Normalize().Mat4()).
		Mul4(mgl32.Scale3D(float32(s[0]), float32(s[1]), float32(s[2])))
}

func readPrimitive(doc *gltf.Document, prim *gltf.Primitive) (*model.Mesh, error) {
	posIdx, ok := prim.Attributes["POSITION"]
	if !ok {
		return nil, fmt.Errorf("no POSITION attribute")
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return nil, fmt.Errorf("failed to read positions: %w", err)
	}

	var normals [][3]float32
	if idx, ok := prim.Attributes["NORMAL"]; ok {
		if normals, err = modeler.ReadNormal(doc, doc.Accessors[idx], nil); err != nil {
			return nil, fmt.Errorf("failed to read normals: %w", err)
		}
	}

	var indices []uint32
	if prim.Indices != nil {
		if indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil); err != nil {
			return nil, fmt.Errorf("failed to read indices: %w", err)
		}
	} else {
		indices = make([]uint32, len(positions))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}

	m := &model.Mesh{Vertices: make([]model.GPUVertex, len(positions)), Indices: indices}
	for i, p := range positions {
		m.Vertices[i].Position = p
		if i < len(normals) {
			m.Vertices[i].Normal = normals[i]
		}
	}
	if len(normals) < len(positions) {
		m.ComputeNormals()
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}
