package tensor

// Backend defines the contract between the layer library and the tensor
// engine that actually executes the math. The building blocks in this
// repository only describe computations; every numeric operation is routed
// through a Backend implementation.
//
// Implementations:
//   - cpu: reference backend used by tests and examples
//
// Backends with extra capabilities (activations, dropout masking) expose
// them through the optional interfaces declared next to the modules that
// need them.
type Backend interface {
	// Element-wise binary operations with NumPy-style broadcasting.
	Add(a, b *RawTensor) *RawTensor
	Sub(a, b *RawTensor) *RawTensor
	Mul(a, b *RawTensor) *RawTensor
	Div(a, b *RawTensor) *RawTensor

	// MatMul performs 2D matrix multiplication: [M, K] @ [K, N] -> [M, N].
	MatMul(a, b *RawTensor) *RawTensor

	// BatchMatMul performs batched matrix multiplication for 3D tensors:
	// [B, M, K] @ [B, K, N] -> [B, M, N].
	BatchMatMul(a, b *RawTensor) *RawTensor

	// Conv2D performs grouped, dilated 2D convolution.
	//
	// Input shape:  [batch, in_channels, height, width]
	// Kernel shape: [out_channels, in_channels/groups, kernel_h, kernel_w]
	// Output shape: [batch, out_channels, out_h, out_w]
	Conv2D(input, kernel *RawTensor, stride, padding, dilation, groups int) *RawTensor

	// Shape operations.
	Reshape(t *RawTensor, newShape Shape) *RawTensor
	Transpose(t *RawTensor, axes ...int) *RawTensor
	Chunk(x *RawTensor, n, dim int) []*RawTensor

	// Scalar operations (element-wise with scalar).
	MulScalar(x *RawTensor, scalar any) *RawTensor
	AddScalar(x *RawTensor, scalar any) *RawTensor
	DivScalar(x *RawTensor, scalar any) *RawTensor

	// Math operations (element-wise).
	Sqrt(x *RawTensor) *RawTensor
	Rsqrt(x *RawTensor) *RawTensor

	// Softmax along the given dimension (negative indices allowed).
	Softmax(x *RawTensor, dim int) *RawTensor

	// MeanDim reduces along a dimension, optionally keeping it as size 1.
	MeanDim(x *RawTensor, dim int, keepDim bool) *RawTensor

	// Metadata.
	Name() string
	Device() Device
}
