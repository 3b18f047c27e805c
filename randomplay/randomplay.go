package randomplay

import (
	"math/rand"

	"github.com/op/go-logging"

	"github.com/OutstandingWork/Demon-Slayer-AI/predictor"
)

var (
	log = logging.MustGetLogger("randomplay")
)

// Agent ignores the frame and picks an action uniformly at random.
type Agent struct {
	rng        *rand.Rand
	numActions int
}

func New(numActions int, rng *rand.Rand) *Agent {
	return &Agent{rng: rng, numActions: numActions}
}

func (agent *Agent) Name() string {
	return "Random player"
}

func (agent *Agent) Act(frame predictor.Frame) (int, error) {
	actionIdx := QuickStep(agent.rng, agent.numActions)
	log.Debugf("Policy: %v", agent.Policy())
	log.Debugf("Sampled action index: %v", actionIdx)
	return actionIdx, nil
}

// Policy is the uniform distribution the agent samples from.
func (agent *Agent) Policy() []float32 {
	policy := make([]float32, agent.numActions)
	for a := range policy {
		policy[a] = float32(1.0) / float32(agent.numActions)
	}
	return policy
}

func QuickStep(rng *rand.Rand, numActions int) int {
	return rng.Intn(numActions)
}
