package sizefunc

import "math"

func sinAbs(x float64) float64 { return math.Abs(math.Sin(x)) }

func powAbs(base, exp float64) float64 { return math.Pow(math.Abs(base), exp) }
