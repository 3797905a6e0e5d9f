package eval

import (
	"testing"

	"github.com/kestrel-engine/kestrel/pkg/common"
)

func TestMaterialEvaluate(t *testing.T) {
	var service = NewEvaluationService()

	var startpos, err = common.NewPositionFromFEN(common.InitialPositionFen)
	if err != nil {
		t.Fatal(err)
	}
	if v := service.Evaluate(&startpos); v != 0 {
		t.Error("startpos", v)
	}

	// White is a queen up; the score follows the side to move.
	var white, _ = common.NewPositionFromFEN("4k3/8/8/8/8/8/8/3QK3 w - - 0 1")
	var black, _ = common.NewPositionFromFEN("4k3/8/8/8/8/8/8/3QK3 b - - 0 1")
	if v := service.Evaluate(&white); v != 950 {
		t.Error("white to move", v)
	}
	if v := service.Evaluate(&black); v != -950 {
		t.Error("black to move", v)
	}
}
