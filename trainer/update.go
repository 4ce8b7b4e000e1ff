package trainer

import (
	"fmt"
	"math"

	"gomoku/utils"

	"golang.org/x/exp/rand"
)

// Estimator is the policy-value model being trained. States are batches of
// feature planes, policies are distributions over all board cells.
type Estimator interface {
	PolicyValue(states [][][]float64) ([][]float64, []float64, error)
	TrainStep(states [][][]float64, probs [][]float64, values []float64, lr float64) (loss, entropy float64, err error)
	Save(path string) error
}

// UpdateResult describes one policy update. Only logging depends on it.
type UpdateResult struct {
	Loss            float64
	Entropy         float64
	KL              float64
	LRMultiplier    float64
	Epochs          int
	EarlyStop       bool
	ExplainedVarOld float64
	ExplainedVarNew float64
}

// UpdateController trains the estimator on one mini-batch per call and
// adapts the learning rate multiplier to the measured policy change.
type UpdateController struct {
	BatchSize     int
	Epochs        int
	LearnRate     float64
	KLTarget      float64
	MinMultiplier float64
	MaxMultiplier float64
	Step          float64 // Factor by which the multiplier shrinks or grows

	rng *rand.Rand
}

func NewUpdateController(batchSize, epochs int, learnRate, klTarget, minMultiplier, maxMultiplier, step float64, rng *rand.Rand) *UpdateController {
	return &UpdateController{
		BatchSize:     batchSize,
		Epochs:        epochs,
		LearnRate:     learnRate,
		KLTarget:      klTarget,
		MinMultiplier: minMultiplier,
		MaxMultiplier: maxMultiplier,
		Step:          step,
		rng:           rng,
	}
}

// Update runs up to Epochs train steps on one mini-batch. Epochs stop as
// soon as the KL divergence from the pre-update policy exceeds 4x the
// target. The multiplier in state is then shrunk or grown within its bounds.
func (u *UpdateController) Update(buffer *Buffer, estimator Estimator, state *State) (UpdateResult, error) {
	batch, err := buffer.Sample(u.BatchSize, u.rng)
	if err != nil {
		return UpdateResult{}, err
	}
	states := make([][][]float64, len(batch))
	probs := make([][]float64, len(batch))
	outcomes := make([]float64, len(batch))
	for i, s := range batch {
		states[i], probs[i], outcomes[i] = s.State, s.Probs, s.Outcome
	}

	oldProbs, oldValues, err := estimator.PolicyValue(states)
	if err != nil {
		return UpdateResult{}, fmt.Errorf("failed to evaluate batch before update: %w", err)
	}

	result := UpdateResult{}
	newValues := oldValues
	for epoch := 0; epoch < u.Epochs; epoch++ {
		loss, entropy, err := estimator.TrainStep(states, probs, outcomes, u.LearnRate*state.LRMultiplier)
		if err != nil {
			return UpdateResult{}, fmt.Errorf("failed train step %d: %w", epoch+1, err)
		}
		result.Loss, result.Entropy, result.Epochs = loss, entropy, epoch+1

		var newProbs [][]float64
		newProbs, newValues, err = estimator.PolicyValue(states)
		if err != nil {
			return UpdateResult{}, fmt.Errorf("failed to evaluate batch after train step %d: %w", epoch+1, err)
		}
		result.KL = MeanKL(oldProbs, newProbs)
		if result.KL > 4*u.KLTarget {
			result.EarlyStop = epoch+1 < u.Epochs
			break
		}
	}

	state.LRMultiplier = u.adapt(state.LRMultiplier, result.KL)
	result.LRMultiplier = state.LRMultiplier
	result.ExplainedVarOld = ExplainedVariance(outcomes, oldValues)
	result.ExplainedVarNew = ExplainedVariance(outcomes, newValues)
	return result, nil
}

// adapt returns the multiplier for the next update given the last KL.
func (u *UpdateController) adapt(multiplier, kl float64) float64 {
	switch {
	case kl > 2*u.KLTarget && multiplier > u.MinMultiplier:
		multiplier /= u.Step
	case kl < u.KLTarget/2 && multiplier < u.MaxMultiplier:
		multiplier *= u.Step
	}
	return utils.Clamp(multiplier, u.MinMultiplier, u.MaxMultiplier)
}

// MeanKL is the batch mean of KL(old || new).
func MeanKL(oldProbs, newProbs [][]float64) float64 {
	if len(oldProbs) == 0 {
		return 0
	}
	total := 0.0
	for i, old := range oldProbs {
		for j, p := range old {
			total += p * (math.Log(p+1e-10) - math.Log(newProbs[i][j]+1e-10))
		}
	}
	return total / float64(len(oldProbs))
}

// ExplainedVariance is 1 - Var(target - predicted) / Var(target). It is 0
// when the targets have no variance.
func ExplainedVariance(target, predicted []float64) float64 {
	diff := make([]float64, len(target))
	for i := range target {
		diff[i] = target[i] - predicted[i]
	}
	v := variance(target)
	if v == 0 {
		return 0
	}
	return 1 - variance(diff)/v
}

func variance(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	mean := 0.0
	for _, x := range xs {
		mean += x
	}
	mean /= float64(len(xs))
	v := 0.0
	for _, x := range xs {
		v += (x - mean) * (x - mean)
	}
	return v / float64(len(xs))
}
