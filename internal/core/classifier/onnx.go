package classifier

import (
	"context"
	"fmt"
	"sync"

	ort "github.com/yalue/onnxruntime_go"

	"mbgsense/internal/core/sequence"
)

// ONNXOptions locate the exported model and the onnxruntime shared library
type ONNXOptions struct {
	ModelPath   string
	LibraryPath string // empty uses the platform default lookup
	// Optional overrides when the graph has several inputs or outputs
	InputName  string
	OutputName string
	// Classes is used when the output dimension is dynamic
	Classes int
}

// ONNX runs an exported sequence model through onnxruntime
type ONNX struct {
	mu      sync.Mutex
	session *ort.DynamicAdvancedSession
	input   ort.InputOutputInfo
	output  ort.InputOutputInfo
	width   int
	classes int
}

// the runtime environment is process wide, sessions share it
var (
	envMu   sync.Mutex
	envRefs int
)

func acquireEnv(lib string) error {
	envMu.Lock()
	defer envMu.Unlock()
	if envRefs == 0 {
		if lib != "" {
			ort.SetSharedLibraryPath(lib)
		}
		if err := ort.InitializeEnvironment(); err != nil {
			return fmt.Errorf("classifier: init onnxruntime: %w", err)
		}
	}
	envRefs++
	return nil
}

func releaseEnv() error {
	envMu.Lock()
	defer envMu.Unlock()
	if envRefs == 0 {
		return nil
	}
	envRefs--
	if envRefs == 0 {
		return ort.DestroyEnvironment()
	}
	return nil
}

// OpenONNX initializes the runtime, inspects the graph and opens a session
func OpenONNX(opts ONNXOptions) (*ONNX, error) {
	if opts.ModelPath == "" {
		return nil, fmt.Errorf("classifier: onnx model path is empty")
	}
	if err := acquireEnv(opts.LibraryPath); err != nil {
		return nil, err
	}

	ins, outs, err := ort.GetInputOutputInfo(opts.ModelPath)
	if err != nil {
		_ = releaseEnv()
		return nil, fmt.Errorf("classifier: inspect %s: %w", opts.ModelPath, err)
	}
	c := &ONNX{}
	if err := c.bindShapes(ins, outs, opts); err != nil {
		_ = releaseEnv()
		return nil, err
	}

	sess, err := ort.NewDynamicAdvancedSession(opts.ModelPath,
		[]string{c.input.Name}, []string{c.output.Name}, nil)
	if err != nil {
		_ = releaseEnv()
		return nil, fmt.Errorf("classifier: open session %s: %w", opts.ModelPath, err)
	}
	c.session = sess
	return c, nil
}

// bindShapes picks the input and output tensors and derives width and class count
func (c *ONNX) bindShapes(ins, outs []ort.InputOutputInfo, opts ONNXOptions) error {
	in, err := pickInfo(ins, opts.InputName, "input")
	if err != nil {
		return err
	}
	out, err := pickInfo(outs, opts.OutputName, "output")
	if err != nil {
		return err
	}
	switch in.DataType {
	case ort.TensorElementDataTypeFloat, ort.TensorElementDataTypeInt64, ort.TensorElementDataTypeInt32:
	default:
		return fmt.Errorf("classifier: input %q has unsupported element type %v", in.Name, in.DataType)
	}
	if out.DataType != ort.TensorElementDataTypeFloat {
		return fmt.Errorf("classifier: output %q must be float32, got %v", out.Name, out.DataType)
	}

	c.input, c.output = in, out
	c.width = lastDim(in.Dimensions)
	c.classes = lastDim(out.Dimensions)
	if c.classes == 0 {
		c.classes = opts.Classes
	}
	if c.classes <= 0 {
		return fmt.Errorf("classifier: output %q has a dynamic class dimension and no class count was given", out.Name)
	}
	if opts.Classes > 0 && c.classes != opts.Classes {
		return fmt.Errorf("classifier: model emits %d classes, scheme has %d", c.classes, opts.Classes)
	}
	return nil
}

func pickInfo(infos []ort.InputOutputInfo, name, what string) (ort.InputOutputInfo, error) {
	if name == "" {
		if len(infos) != 1 {
			return ort.InputOutputInfo{}, fmt.Errorf("classifier: model has %d %ss, set the %s name", len(infos), what, what)
		}
		return infos[0], nil
	}
	for _, info := range infos {
		if info.Name == name {
			return info, nil
		}
	}
	return ort.InputOutputInfo{}, fmt.Errorf("classifier: model has no %s named %q", what, name)
}

// lastDim returns the trailing dimension, 0 when dynamic or missing
func lastDim(s ort.Shape) int {
	if len(s) == 0 || s[len(s)-1] < 0 {
		return 0
	}
	return int(s[len(s)-1])
}

// InputWidth implements Classifier
func (c *ONNX) InputWidth() int { return c.width }

// Classes implements Classifier
func (c *ONNX) Classes() int { return c.classes }

// Predict implements Classifier. Calls are serialized since a session is not reentrant
func (c *ONNX) Predict(ctx context.Context, in sequence.Input) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if c.width != 0 && in.Len() != c.width {
		return nil, fmt.Errorf("classifier: input width %d, model expects %d", in.Len(), c.width)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return nil, fmt.Errorf("classifier: session closed")
	}

	inT, err := c.inputTensor(in)
	if err != nil {
		return nil, err
	}
	defer inT.Destroy()

	outT, err := ort.NewEmptyTensor[float32](ort.NewShape(1, int64(c.classes)))
	if err != nil {
		return nil, fmt.Errorf("classifier: alloc output: %w", err)
	}
	defer outT.Destroy()

	if err := c.session.Run([]ort.Value{inT}, []ort.Value{outT}); err != nil {
		return nil, fmt.Errorf("classifier: run: %w", err)
	}
	raw := outT.GetData()
	probs := make([]float64, len(raw))
	for i, v := range raw {
		probs[i] = float64(v)
	}
	return AsProbabilities(probs), nil
}

func (c *ONNX) inputTensor(in sequence.Input) (ort.Value, error) {
	shape := ort.NewShape(1, int64(in.Len()))
	var (
		v   ort.Value
		err error
	)
	switch c.input.DataType {
	case ort.TensorElementDataTypeInt64:
		v, err = ort.NewTensor(shape, toInt64(in))
	case ort.TensorElementDataTypeInt32:
		v, err = ort.NewTensor(shape, toInt32(in))
	default:
		v, err = ort.NewTensor(shape, toFloat32(in))
	}
	if err != nil {
		return nil, fmt.Errorf("classifier: build input tensor: %w", err)
	}
	return v, nil
}

func toInt64(in sequence.Input) []int64 {
	if in.IDs != nil {
		return in.IDs
	}
	out := make([]int64, len(in.Dense))
	for i, v := range in.Dense {
		out[i] = int64(v)
	}
	return out
}

func toInt32(in sequence.Input) []int32 {
	out := make([]int32, in.Len())
	if in.IDs != nil {
		for i, v := range in.IDs {
			out[i] = int32(v)
		}
		return out
	}
	for i, v := range in.Dense {
		out[i] = int32(v)
	}
	return out
}

func toFloat32(in sequence.Input) []float32 {
	out := make([]float32, in.Len())
	if in.IDs != nil {
		for i, v := range in.IDs {
			out[i] = float32(v)
		}
		return out
	}
	for i, v := range in.Dense {
		out[i] = float32(v)
	}
	return out
}

// Close destroys the session and releases the runtime
func (c *ONNX) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return nil
	}
	err := c.session.Destroy()
	c.session = nil
	if rerr := releaseEnv(); err == nil {
		err = rerr
	}
	return err
}
