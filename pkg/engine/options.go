package engine

import "math"

const (
	minHashMegabytes = 1
	maxHashMegabytes = 1 << 16
	maxThreads       = 256
)

type Options struct {
	Hash              int
	Threads           int
	MutexHash         bool
	Ponder            bool
	AspirationWindows bool
	ProgressMinNodes  int
	reductions        [64][64]int
}

func NewOptions() Options {
	var result = Options{
		Hash:              16,
		Threads:           1,
		AspirationWindows: true,
	}
	result.initLmr(lmrMult)
	return result
}

func (o *Options) Lmr(d, m int) int {
	return o.reductions[min(d, 63)][min(m, 63)]
}

func (o *Options) initLmr(f func(d, m float64) float64) {
	for d := 1; d < 64; d++ {
		for m := 1; m < 64; m++ {
			o.reductions[d][m] = int(f(float64(d), float64(m)))
		}
	}
}

func lmrMult(d, m float64) float64 {
	return lirp(math.Log(d)*math.Log(m),
		math.Log(5)*math.Log(22), math.Log(63)*math.Log(63), 3, 8)
}

func lirp(x, x1, x2, y1, y2 float64) float64 {
	return y1 + (y2-y1)*(x-x1)/(x2-x1)
}
