package renderer

import (
	"github.com/Carmen-Shannon/oxy-showcase/common"
	"github.com/Carmen-Shannon/oxy-showcase/engine/game_object"
	"github.com/Carmen-Shannon/oxy-showcase/engine/model"
)

// CullInstances appends the model matrix of every enabled object whose bounding sphere
// intersects the frustum. Order follows objects.
//
// Parameters:
//   - dst: the slice to append to, usually the previous frame's list truncated to zero
//   - objects: the candidates
//   - frustum: the camera frustum
//
// Returns:
//   - []model.GPUInstance: dst with the visible instances appended
func CullInstances(dst []model.GPUInstance, objects []game_object.GameObject, frustum *common.Frustum) []model.GPUInstance {
	for _, obj := range objects {
		if !obj.Enabled() || obj.Mesh() == nil {
			continue
		}
		if !frustum.ContainsSphere(obj.Position(), obj.BoundingRadius()) {
			continue
		}
		dst = append(dst, instanceOf(obj))
	}
	return dst
}

func instanceOf(obj game_object.GameObject) model.GPUInstance {
	return model.GPUInstance{Model: [16]float32(obj.ModelMatrix())}
}
