package player

import (
	"github.com/OutstandingWork/Demon-Slayer-AI/predictor"
)

// NetPolicy plays the argmax of the network's logits.
type NetPolicy struct {
	Net *predictor.Net
}

func (policy NetPolicy) Name() string {
	return "Network player"
}

func (policy NetPolicy) Act(frame predictor.Frame) (int, error) {
	logits, err := policy.Net.Score(frame)
	if err != nil {
		return 0, err
	}
	actionIdx := predictor.Argmax(logits)
	log.Debugf("Action probabilities %v, taking %d", predictor.Softmax(logits), actionIdx)
	return actionIdx, nil
}
