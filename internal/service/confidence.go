package service

// Confidence scoring for QA sweep diagnostics. Both functions are pure and
// total; callers never get an error, only a number in [0,1].

// severityConfidence is the fixed schedule a corrected variation inherits
// from its parent's last diagnosis. A correction is assumed to have fixed
// the flagged defect, so confidence improves by schedule instead of being
// recomputed from scratch.
var severityConfidence = map[int]float64{
	0: 1.0,
	1: 0.85,
	2: 0.75,
	3: 0.60,
}

// severityDefaultConfidence applies when severidad_global is missing or
// outside the known range. An explicit default, not an error.
const severityDefaultConfidence = 0.70

// ScoreFromScorecard maps a per-criterion scorecard (each score in [0,3],
// 0 = best) to a confidence value. Confidence is driven by the worst
// criterion rather than the average: a single severe defect caps confidence
// regardless of the rest. An empty or nil scorecard scores 0.
func ScoreFromScorecard(scorecard map[string]float64) float64 {
	if len(scorecard) == 0 {
		return 0
	}

	worst := 0.0
	for _, score := range scorecard {
		if score > worst {
			worst = score
		}
	}

	confidence := 1 - worst/3
	if confidence < 0 {
		return 0
	}
	return confidence
}

// ScoreFromSeverity maps a categorical severity level to the confidence a
// corrected variation inherits. nil and unmapped values yield the default.
func ScoreFromSeverity(severityGlobal *int) float64 {
	if severityGlobal == nil {
		return severityDefaultConfidence
	}
	if c, ok := severityConfidence[*severityGlobal]; ok {
		return c
	}
	return severityDefaultConfidence
}
