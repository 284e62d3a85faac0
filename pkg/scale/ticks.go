package scale

import "math"

var (
	e10 = math.Sqrt(50)
	e5  = math.Sqrt(10)
	e2  = math.Sqrt(2)
)

// jsRound rounds half toward positive infinity, matching the tick
// arithmetic d3 users expect for negative half steps.
func jsRound(v float64) float64 { return math.Floor(v + 0.5) }

func tickFactor(step float64) (power, factor float64) {
	power = math.Floor(math.Log10(step))
	err := step / math.Pow(10, power)
	switch {
	case err >= e10:
		factor = 10
	case err >= e5:
		factor = 5
	case err >= e2:
		factor = 2
	default:
		factor = 1
	}
	return power, factor
}

func tickSpec(start, stop, count float64) (i1, i2, inc float64) {
	power, factor := tickFactor((stop - start) / math.Max(0, count))
	if power < 0 {
		inc = math.Pow(10, -power) / factor
		i1 = jsRound(start * inc)
		i2 = jsRound(stop * inc)
		if i1/inc < start {
			i1++
		}
		if i2/inc > stop {
			i2--
		}
		inc = -inc
	} else {
		inc = math.Pow(10, power) * factor
		i1 = jsRound(start / inc)
		i2 = jsRound(stop / inc)
		if i1*inc < start {
			i1++
		}
		if i2*inc > stop {
			i2--
		}
	}
	if i2 < i1 && 0.5 <= count && count < 2 {
		return tickSpec(start, stop, count*2)
	}
	return i1, i2, inc
}

// TickIncrement returns the tick spacing for roughly count ticks between
// start and stop. Negative results encode 1/|inc| for sub-unit steps, which
// keeps decimal ticks exact. Zero means no increment exists.
func TickIncrement(start, stop float64, count int) float64 {
	if !finite(start) || !finite(stop) || count <= 0 || start == stop {
		return 0
	}
	_, _, inc := tickSpec(start, stop, float64(count))
	return inc
}

// TickStep returns the positive distance between ticks produced by Ticks,
// or 0 when there is none.
func TickStep(start, stop float64, count int) float64 {
	if stop < start {
		start, stop = stop, start
	}
	inc := TickIncrement(start, stop, count)
	if inc < 0 {
		return 1 / -inc
	}
	return inc
}

// Ticks returns roughly count human-friendly values in [start, stop],
// ordered like the inputs.
func Ticks(start, stop float64, count int) []float64 {
	if count <= 0 || !finite(start) || !finite(stop) {
		return nil
	}
	if start == stop {
		return []float64{start}
	}
	reverse := stop < start
	if reverse {
		start, stop = stop, start
	}
	i1, i2, inc := tickSpec(start, stop, float64(count))
	if !(i2 >= i1) {
		return nil
	}
	n := int(i2 - i1 + 1)
	out := make([]float64, n)
	for i := range out {
		k := i1 + float64(i)
		if reverse {
			k = i2 - float64(i)
		}
		if inc < 0 {
			out[i] = k / -inc
		} else {
			out[i] = k * inc
		}
	}
	return out
}

// niceDomain extends [start, stop] outward to multiples of the tick step,
// iterating until the step stabilizes.
func niceDomain(start, stop float64, count int) (float64, float64) {
	if !finite(start) || !finite(stop) || start == stop || count <= 0 {
		return start, stop
	}
	reverse := stop < start
	if reverse {
		start, stop = stop, start
	}
	prestep := math.NaN()
	for iter := 0; iter < 10; iter++ {
		step := TickIncrement(start, stop, count)
		if step == prestep || step == 0 {
			break
		}
		if step > 0 {
			start = math.Floor(start/step) * step
			stop = math.Ceil(stop/step) * step
		} else {
			start = math.Ceil(start*step) / step
			stop = math.Floor(stop*step) / step
		}
		prestep = step
	}
	if reverse {
		return stop, start
	}
	return start, stop
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
