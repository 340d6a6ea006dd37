package pose

import "math"

// Angle difference bands in degrees. A difference satisfies every band whose
// threshold it does not exceed.
const (
	PerfectThreshold = 35.0
	GreatThreshold   = 45.0
	OkayThreshold    = 65.0

	// CoverageRatio is the share of compared joints that must fall within a band
	// for the band's grade to be awarded.
	CoverageRatio = 0.75
)

// Comparison pairs a measured joint angle with its reference angle.
type Comparison struct {
	Joint   Joint   `json:"joint"`
	Current float64 `json:"current"`
	Target  float64 `json:"target"`
}

// Diff returns the absolute angle difference in degrees.
func (c Comparison) Diff() float64 {
	return math.Abs(c.Current - c.Target)
}

// Join returns one comparison for every joint present in both current and target,
// in reference table order. Joints missing on either side are left out.
func Join(current JointAngleSet, target Target) []Comparison {
	var out []Comparison
	for _, joint := range Joints {
		want, ok := target[joint]
		if !ok {
			continue
		}
		got, ok := current[joint]
		if !ok {
			continue
		}
		out = append(out, Comparison{Joint: joint, Current: got, Target: want})
	}
	return out
}

// Score grades how closely current matches the reference pose id.
// Unknown poses and an empty comparison both grade as Poor.
func Score(current JointAngleSet, id ID) Grade {
	target, ok := Lookup(id)
	if !ok {
		return Poor
	}
	return Classify(Join(current, target))
}

// Classify grades a comparison population using the coverage rule: the first of
// Perfect, Great and Okay whose band holds at least CoverageRatio of the joints wins.
func Classify(comparisons []Comparison) Grade {
	if len(comparisons) == 0 {
		return Poor
	}

	var withinPerfect, withinGreat, withinOkay int
	for _, c := range comparisons {
		diff := c.Diff()
		if diff <= PerfectThreshold {
			withinPerfect++
		}
		if diff <= GreatThreshold {
			withinGreat++
		}
		if diff <= OkayThreshold {
			withinOkay++
		}
	}

	required := float64(len(comparisons)) * CoverageRatio

	switch {
	case float64(withinPerfect) >= required:
		return Perfect
	case float64(withinGreat) >= required:
		return Great
	case float64(withinOkay) >= required:
		return Okay
	default:
		return Poor
	}
}
