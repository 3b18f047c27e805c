package predictor

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/op/go-logging"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"

	"github.com/OutstandingWork/Demon-Slayer-AI/config"
)

var log = logging.MustGetLogger("predictor")

// Net maps one RGB frame to one logit per action:
//
//	[3][H][W]
//	conv2d(kernel size 3, 16 feature planes, padding 1)
//	[16][H][W]
//	maxpooling(kernel size 4), ReLU
//	[16][H/4][W/4]
//	conv2d(kernel size 3, 16 feature planes, padding 1)
//	maxpooling(kernel size 4), ReLU
//	[16][H/16][W/16]
//	linear(16 * H/16 * W/16, num actions)
//
// The weights are drawn once in New and never change. A Net is not safe for
// concurrent use because every Score runs on the same tape machine.
type Net struct {
	conf   Config
	g      *G.ExprGraph
	input  *G.Node
	logits *G.Node
	vm     G.VM
	params int
}

// New builds the graph and initializes every weight and bias uniformly in
// ±1/sqrt(fan in), drawing from rng.
func New(conf Config, rng *rand.Rand) (*Net, error) {
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fmt.Errorf("predictor needs a random source for its weights")
	}

	g := G.NewGraph()
	net := &Net{conf: conf, g: g}
	net.input = G.NewTensor(g, tensor.Float32, 4,
		G.WithShape(1, conf.Channels, conf.Height, conf.Width), G.WithName("observation"))

	x, h, w := net.input, conf.Height, conf.Width
	inPlanes := conf.Channels
	for layer := 1; layer <= 2; layer++ {
		var err error
		if x, err = net.convBlock(x, layer, inPlanes, h, w, rng); err != nil {
			return nil, err
		}
		h, w = h/poolSize, w/poolSize
		inPlanes = featurePlanes
	}

	flatSize := conf.FlattenedSize()
	if flatSize != inPlanes*h*w {
		return nil, fmt.Errorf("flattened size %d does not match pooled volume %dx%dx%d", flatSize, inPlanes, h, w)
	}
	flat, err := G.Reshape(x, tensor.Shape{1, flatSize})
	if err != nil {
		return nil, fmt.Errorf("could not flatten: %w", err)
	}
	outW := net.learnable("output_w", rng, flatSize, tensor.Shape{flatSize, conf.NumActions})
	outB := net.learnable("output_b", rng, flatSize, tensor.Shape{1, conf.NumActions})
	affine, err := G.Mul(flat, outW)
	if err != nil {
		return nil, fmt.Errorf("could not build output layer: %w", err)
	}
	if net.logits, err = G.Add(affine, outB); err != nil {
		return nil, fmt.Errorf("could not build output bias: %w", err)
	}

	net.vm = G.NewTapeMachine(g)
	log.Infof("Built network for %dx%dx%d frames, %d flattened features, %d actions, %d parameters",
		conf.Channels, conf.Height, conf.Width, flatSize, conf.NumActions, net.NumParams())
	return net, nil
}

// convBlock is conv2d(3x3, pad 1) + bias, maxpool(4x4, stride 4), ReLU.
func (net *Net) convBlock(x *G.Node, layer, inPlanes, h, w int, rng *rand.Rand) (*G.Node, error) {
	fanIn := inPlanes * kernelSize * kernelSize
	filter := net.learnable(fmt.Sprintf("c%d_w", layer), rng, fanIn,
		tensor.Shape{featurePlanes, inPlanes, kernelSize, kernelSize})

	// the per-plane bias is expanded to the full conv output so a plain Add applies it
	bias := uniform(rng, fanIn, featurePlanes)
	planes := make([]float32, featurePlanes*h*w)
	for p, b := range bias {
		for i := p * h * w; i < (p+1)*h*w; i++ {
			planes[i] = b
		}
	}
	biasNode := G.NewTensor(net.g, tensor.Float32, 4, G.WithShape(1, featurePlanes, h, w),
		G.WithName(fmt.Sprintf("c%d_b", layer)),
		G.WithValue(tensor.New(tensor.WithShape(1, featurePlanes, h, w), tensor.WithBacking(planes))))
	net.params += len(bias)

	conv, err := G.Conv2d(x, filter, tensor.Shape{kernelSize, kernelSize}, []int{1, 1}, []int{1, 1}, []int{1, 1})
	if err != nil {
		return nil, fmt.Errorf("could not build c%d: %w", layer, err)
	}
	if conv, err = G.Add(conv, biasNode); err != nil {
		return nil, fmt.Errorf("could not build c%d bias: %w", layer, err)
	}
	pooled, err := G.MaxPool2D(conv, tensor.Shape{poolSize, poolSize}, []int{0, 0}, []int{poolSize, poolSize})
	if err != nil {
		return nil, fmt.Errorf("could not build pool%d: %w", layer, err)
	}
	return G.Rectify(pooled)
}

func (net *Net) learnable(name string, rng *rand.Rand, fanIn int, shape tensor.Shape) *G.Node {
	backing := uniform(rng, fanIn, shape.TotalSize())
	node := G.NewTensor(net.g, tensor.Float32, shape.Dims(), G.WithShape(shape...), G.WithName(name),
		G.WithValue(tensor.New(tensor.WithShape(shape...), tensor.WithBacking(backing))))
	net.params += len(backing)
	return node
}

func uniform(rng *rand.Rand, fanIn, n int) []float32 {
	bound := 1 / math.Sqrt(float64(fanIn))
	values := make([]float32, n)
	for i := range values {
		values[i] = float32((rng.Float64()*2 - 1) * bound)
	}
	return values
}

// NumParams counts weights and biases, one bias per conv plane.
func (net *Net) NumParams() int {
	return net.params
}

// Score runs the forward pass on one frame and returns a fresh slice of
// logits, one per action.
func (net *Net) Score(frame Frame) ([]float32, error) {
	if frame.Height != net.conf.Height || frame.Width != net.conf.Width || frame.Channels != net.conf.Channels {
		return nil, config.Errorf("frame", "got %dx%dx%d, network expects %dx%dx%d",
			frame.Channels, frame.Height, frame.Width, net.conf.Channels, net.conf.Height, net.conf.Width)
	}
	chw, err := frame.Normalize()
	if err != nil {
		return nil, err
	}
	observation := tensor.New(tensor.WithShape(1, net.conf.Channels, net.conf.Height, net.conf.Width), tensor.WithBacking(chw))
	if err := G.Let(net.input, observation); err != nil {
		return nil, fmt.Errorf("could not bind observation: %w", err)
	}
	defer net.vm.Reset()
	if err := net.vm.RunAll(); err != nil {
		return nil, fmt.Errorf("could not run the network: %w", err)
	}

	data, ok := net.logits.Value().Data().([]float32)
	if !ok {
		return nil, fmt.Errorf("logits have type %T, want []float32", net.logits.Value().Data())
	}
	if len(data) != net.conf.NumActions {
		return nil, fmt.Errorf("network returned %d logits for %d actions", len(data), net.conf.NumActions)
	}
	logits := make([]float32, len(data))
	copy(logits, data)
	log.Debugf("Action logits: %v", logits)
	return logits, nil
}

func (net *Net) Close() error {
	return net.vm.Close()
}

// Argmax returns the index of the largest score; ties go to the lowest index.
func Argmax(scores []float32) int {
	if len(scores) == 0 {
		log.Panicf("Argmax of an empty score vector")
	}
	maxIdx := 0
	for i := 1; i < len(scores); i++ {
		if scores[i] > scores[maxIdx] {
			maxIdx = i
		}
	}
	return maxIdx
}

// Softmax turns logits into probabilities. It is only used for display.
func Softmax(logits []float32) []float32 {
	if len(logits) == 0 {
		return nil
	}
	maxLogit := logits[0]
	for _, v := range logits[1:] {
		if v > maxLogit {
			maxLogit = v
		}
	}
	probs := make([]float32, len(logits))
	var sum float64
	for i, v := range logits {
		e := math.Exp(float64(v - maxLogit))
		probs[i] = float32(e)
		sum += e
	}
	for i := range probs {
		probs[i] = float32(float64(probs[i]) / sum)
	}
	return probs
}
