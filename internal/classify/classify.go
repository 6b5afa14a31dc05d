package classify

// Severity is the weekly status tier of a performance ratio. Lower ratios are better.
type Severity int

const (
	OnTarget Severity = iota
	Watch
	Elevated
	Critical
)

func (s Severity) String() string {
	switch s {
	case OnTarget:
		return "on-target"
	case Watch:
		return "watch"
	case Elevated:
		return "elevated"
	case Critical:
		return "critical"
	default:
		return "unknown"
	}
}

// Marker returns the emoji shown next to the ratio in the weekly summary.
func (s Severity) Marker() string {
	switch s {
	case Critical:
		return "🔴"
	case Elevated:
		return "🟠"
	case Watch:
		return "🟡"
	default:
		return "🟢"
	}
}

// Thresholds holds the boundaries used by Weekly. High > Mid > Benchmark is expected.
type Thresholds struct {
	High      float64
	Mid       float64
	Benchmark float64
}

// DefaultThresholds returns the standard boundaries for the given benchmark ratio.
func DefaultThresholds(benchmark float64) Thresholds {
	return Thresholds{
		High:      1.35,
		Mid:       1.00,
		Benchmark: benchmark,
	}
}

// Weekly classifies a performance ratio. The checks run in descending order,
// so High and Mid are exclusive on the upper tier and Benchmark is inclusive.
func (t Thresholds) Weekly(ratio float64) Severity {
	switch {
	case ratio > t.High:
		return Critical
	case ratio > t.Mid:
		return Elevated
	case ratio >= t.Benchmark:
		return Watch
	default:
		return OnTarget
	}
}

// PercentileClass is the qualitative standing of a top-percentile value.
type PercentileClass int

const (
	Great PercentileClass = iota
	Good
	Bad
	Awful
)

func (c PercentileClass) String() string {
	switch c {
	case Awful:
		return "Awful"
	case Bad:
		return "Bad"
	case Good:
		return "Good"
	default:
		return "Great"
	}
}

// Percentile buckets a value in [0,100] into ranges of width 25, lower bound
// inclusive. Values outside the range fall through to Great.
func Percentile(p float64) PercentileClass {
	switch {
	case 75 <= p && p <= 100:
		return Awful
	case 50 <= p && p < 75:
		return Bad
	case 25 <= p && p < 50:
		return Good
	default:
		return Great
	}
}
