// GPU-accelerated broad-phase collision detection
package compute

import (
	"errors"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// ErrPairOverflow means the shader found more pairs than the output buffer
// holds. The returned set would be incomplete, so none is returned.
var ErrPairOverflow = errors.New("compute: pair buffer overflow")

// BroadPhase finds overlapping axis-aligned boxes on the GPU.
// The pipeline and buffers are created once and reused every call.
type BroadPhase struct {
	system *System

	layout         *wgpu.BindGroupLayout
	pipelineLayout *wgpu.PipelineLayout
	shader         *wgpu.ShaderModule
	pipeline       *wgpu.ComputePipeline
	bindGroup      *wgpu.BindGroup

	// Buffers
	boxBuffer   *Buffer // Input: bounds
	pairBuffer  *Buffer // Output: overlapping pairs
	countBuffer *Buffer // Output: number of pairs found
	paramBuffer *Buffer // Uniform: object count

	maxObjects uint32
	maxPairs   uint32
}

// Box is one bounding box, laid out as two vec4s to match WGSL alignment.
type Box struct {
	MinX, MinY, MinZ, _ float32
	MaxX, MaxY, MaxZ, _ float32
}

// NewBox packs bounds for upload.
func NewBox(minX, minY, minZ, maxX, maxY, maxZ float32) Box {
	return Box{MinX: minX, MinY: minY, MinZ: minZ, MaxX: maxX, MaxY: maxY, MaxZ: maxZ}
}

// Pair holds the input indices of two overlapping boxes, A < B.
type Pair struct {
	A, B uint32
}

const broadPhaseShader = `
// Each thread tests one box against all boxes with higher indices,
// giving n*(n-1)/2 tests with no duplicates.

struct Box {
    lo: vec4<f32>,
    hi: vec4<f32>,
}

struct Pair {
    a: u32,
    b: u32,
}

@group(0) @binding(0) var<storage, read> boxes: array<Box>;
@group(0) @binding(1) var<storage, read_write> pairs: array<Pair>;
@group(0) @binding(2) var<storage, read_write> pairCount: atomic<u32>;
@group(0) @binding(3) var<uniform> objectCount: u32;

@compute @workgroup_size(256)
fn main(@builtin(global_invocation_id) global_id: vec3<u32>) {
    let i = global_id.x;
    if (i >= objectCount) {
        return;
    }

    let a = boxes[i];

    for (var j = i + 1u; j < objectCount; j = j + 1u) {
        let b = boxes[j];

        // Closed intervals, same as the CPU test.
        let overlap = all(a.lo.xyz <= b.hi.xyz) && all(a.hi.xyz >= b.lo.xyz);
        if (overlap) {
            let idx = atomicAdd(&pairCount, 1u);

            // Bounds check (don't overflow pair buffer)
            if (idx < arrayLength(&pairs)) {
                pairs[idx] = Pair(i, j);
            }
        }
    }
}
`

// NewBroadPhase compiles the overlap shader and allocates buffers.
// maxObjects: maximum number of boxes per call
// maxPairs: maximum overlapping pairs to output (be generous, e.g. maxObjects * 20)
func NewBroadPhase(maxObjects, maxPairs uint32) (*BroadPhase, error) {
	sys := Get()
	if sys == nil {
		return nil, errors.New("compute: not initialized")
	}

	bp := &BroadPhase{system: sys, maxObjects: maxObjects, maxPairs: maxPairs}
	if err := bp.init(); err != nil {
		bp.Release()
		return nil, err
	}
	return bp, nil
}

func (bp *BroadPhase) init() error {
	sys := bp.system
	device := sys.device
	var err error

	boxSize := uint64(bp.maxObjects) * 32 // 8 floats * 4 bytes
	pairSize := uint64(bp.maxPairs) * 8   // 2 uint32s * 4 bytes

	if bp.boxBuffer, err = sys.CreateBuffer("boxes", boxSize,
		wgpu.BufferUsageStorage|wgpu.BufferUsageCopyDst); err != nil {
		return err
	}
	if bp.pairBuffer, err = sys.CreateBuffer("pairs", pairSize,
		wgpu.BufferUsageStorage|wgpu.BufferUsageCopySrc); err != nil {
		return err
	}
	if bp.countBuffer, err = sys.CreateBuffer("pairCount", 4,
		wgpu.BufferUsageStorage|wgpu.BufferUsageCopySrc|wgpu.BufferUsageCopyDst); err != nil {
		return err
	}
	// Uniform buffers need 16-byte sizing.
	if bp.paramBuffer, err = sys.CreateBufferWithData("objectCount", ToBytes([]uint32{0, 0, 0, 0}),
		wgpu.BufferUsageUniform|wgpu.BufferUsageCopyDst); err != nil {
		return err
	}

	bp.layout, err = device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "broadphase_layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{Binding: 0, Visibility: wgpu.ShaderStageCompute,
				Buffer: wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeReadOnlyStorage}},
			{Binding: 1, Visibility: wgpu.ShaderStageCompute,
				Buffer: wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeStorage}},
			{Binding: 2, Visibility: wgpu.ShaderStageCompute,
				Buffer: wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeStorage}},
			{Binding: 3, Visibility: wgpu.ShaderStageCompute,
				Buffer: wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeUniform}},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create bind group layout: %w", err)
	}

	bp.bindGroup, err = device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "broadphase_bindgroup",
		Layout: bp.layout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: bp.boxBuffer.buffer, Size: bp.boxBuffer.size},
			{Binding: 1, Buffer: bp.pairBuffer.buffer, Size: bp.pairBuffer.size},
			{Binding: 2, Buffer: bp.countBuffer.buffer, Size: bp.countBuffer.size},
			{Binding: 3, Buffer: bp.paramBuffer.buffer, Size: bp.paramBuffer.size},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create bind group: %w", err)
	}

	bp.pipelineLayout, err = device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "broadphase_pipeline_layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{bp.layout},
	})
	if err != nil {
		return fmt.Errorf("failed to create pipeline layout: %w", err)
	}

	bp.shader, err = device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "broadphase_shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: broadPhaseShader},
	})
	if err != nil {
		return fmt.Errorf("failed to create shader module: %w", err)
	}

	bp.pipeline, err = device.CreateComputePipeline(&wgpu.ComputePipelineDescriptor{
		Label:  "broadphase_pipeline",
		Layout: bp.pipelineLayout,
		Compute: wgpu.ProgrammableStageDescriptor{
			Module:     bp.shader,
			EntryPoint: "main",
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create compute pipeline: %w", err)
	}
	return nil
}

// MaxObjects is the largest box count DetectPairs accepts.
func (bp *BroadPhase) MaxObjects() uint32 { return bp.maxObjects }

// DetectPairs returns every overlapping pair of boxes, as indices into boxes.
func (bp *BroadPhase) DetectPairs(boxes []Box) ([]Pair, error) {
	if len(boxes) < 2 {
		return nil, nil
	}
	if uint32(len(boxes)) > bp.maxObjects {
		return nil, fmt.Errorf("compute: %d boxes exceeds capacity %d", len(boxes), bp.maxObjects)
	}

	objectCount := uint32(len(boxes))
	bp.system.WriteBuffer(bp.boxBuffer, 0, ToBytes(boxes))
	bp.system.WriteBuffer(bp.countBuffer, 0, ToBytes([]uint32{0}))
	bp.system.WriteBuffer(bp.paramBuffer, 0, ToBytes([]uint32{objectCount, 0, 0, 0}))

	if err := bp.dispatch(objectCount); err != nil {
		return nil, err
	}

	countData, err := bp.system.ReadBuffer(bp.countBuffer, 4)
	if err != nil {
		return nil, err
	}
	pairCount := FromBytes[uint32](countData)[0]
	if pairCount == 0 {
		return nil, nil
	}
	if pairCount > bp.maxPairs {
		return nil, ErrPairOverflow
	}

	// Only read back the filled part of the pair buffer.
	pairData, err := bp.system.ReadBuffer(bp.pairBuffer, uint64(pairCount)*8)
	if err != nil {
		return nil, err
	}
	pairs := make([]Pair, pairCount)
	copy(pairs, FromBytes[Pair](pairData))
	return pairs, nil
}

func (bp *BroadPhase) dispatch(objectCount uint32) error {
	encoder, err := bp.system.device.CreateCommandEncoder(nil)
	if err != nil {
		return err
	}

	pass := encoder.BeginComputePass(nil)
	pass.SetPipeline(bp.pipeline)
	pass.SetBindGroup(0, bp.bindGroup, nil)
	workgroups := (objectCount + 255) / 256
	pass.DispatchWorkgroups(workgroups, 1, 1)
	pass.End()
	pass.Release()

	commands, err := encoder.Finish(nil)
	if err != nil {
		return err
	}
	defer commands.Release()

	bp.system.queue.Submit(commands)
	return nil
}

// Release frees GPU resources. Safe on a partially built BroadPhase.
func (bp *BroadPhase) Release() {
	if bp.pipeline != nil {
		bp.pipeline.Release()
		bp.pipeline = nil
	}
	if bp.shader != nil {
		bp.shader.Release()
		bp.shader = nil
	}
	if bp.pipelineLayout != nil {
		bp.pipelineLayout.Release()
		bp.pipelineLayout = nil
	}
	if bp.bindGroup != nil {
		bp.bindGroup.Release()
		bp.bindGroup = nil
	}
	if bp.layout != nil {
		bp.layout.Release()
		bp.layout = nil
	}
	for _, buf := range []**Buffer{&bp.boxBuffer, &bp.pairBuffer, &bp.countBuffer, &bp.paramBuffer} {
		if *buf != nil {
			(*buf).Release()
			*buf = nil
		}
	}
}
