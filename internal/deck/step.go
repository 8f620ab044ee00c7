package deck

// LearningStep is a position in the fixed learning sequence a question moves
// through before it graduates to Review.
type LearningStep int

// LearningSteps is the ordered learning sequence.
var LearningSteps = []LearningStep{1, 2}

// FirstStep returns the step questions enter Learning at.
func FirstStep() LearningStep {
	return LearningSteps[0]
}

// IsLast reports whether s is the final learning step.
func (s LearningStep) IsLast() bool {
	return s >= LearningSteps[len(LearningSteps)-1]
}

// Next returns the step following s. The last step has no successor and is
// returned unchanged.
func (s LearningStep) Next() LearningStep {
	for i, step := range LearningSteps {
		if step == s && i+1 < len(LearningSteps) {
			return LearningSteps[i+1]
		}
	}
	return s
}
