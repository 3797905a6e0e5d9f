// Package eval (material) scores positions by material count alone. It is
// the baseline evaluator for benchmarks and for isolating search behaviour
// from evaluation quality.
package eval

import (
	"github.com/kestrel-engine/kestrel/pkg/common"
)

type EvaluationService struct{}

func NewEvaluationService() *EvaluationService {
	return &EvaluationService{}
}

func (e *EvaluationService) Evaluate(p *common.Position) int {
	var score = 100*materialDiff(p, p.Pawns) +
		320*materialDiff(p, p.Knights) +
		330*materialDiff(p, p.Bishops) +
		500*materialDiff(p, p.Rooks) +
		950*materialDiff(p, p.Queens)
	if !p.WhiteMove {
		score = -score
	}
	return score
}

func materialDiff(p *common.Position, pieces uint64) int {
	return common.PopCount(pieces&p.White) - common.PopCount(pieces&p.Black)
}
