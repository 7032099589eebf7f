// ============================================================================
// internal/grading/calculator.go
// Weighted final grade computation and letter grade mapping
// ============================================================================

package grading

// letterBreakpoint is one inclusive lower bound in the letter grade table
type letterBreakpoint struct {
	min    float64
	letter string
}

// Breakpoints are evaluated high-to-low; the first bound the grade reaches wins.
var letterBreakpoints = []letterBreakpoint{
	{9.0, "A+"},
	{8.5, "A"},
	{8.0, "B+"},
	{7.0, "B"},
	{6.5, "C+"},
	{5.5, "C"},
	{5.0, "D+"},
	{4.0, "D"},
}

// PassingGrade is the pass/fail threshold used by subject statistics
const PassingGrade = 5.0

// Recompute calculates the weighted final grade over the weight actually
// present and maps it to a letter grade. With zero total weight the result is
// 0 rather than a division error. Pure function: identical inputs always
// yield identical outputs.
func Recompute(components []GradeComponent) (finalGrade float64, letterGrade string) {
	var weightedSum, totalWeight float64
	for _, c := range components {
		weightedSum += c.Score * c.Weight
		totalWeight += c.Weight
	}

	if totalWeight == 0 {
		return 0, LetterGrade(0)
	}

	finalGrade = weightedSum / totalWeight
	return finalGrade, LetterGrade(finalGrade)
}

// LetterGrade maps a numeric grade in [0,10] to its letter via the fixed
// breakpoint table
func LetterGrade(finalGrade float64) string {
	for _, bp := range letterBreakpoints {
		if finalGrade >= bp.min {
			return bp.letter
		}
	}
	return "F"
}

// IsPassing reports whether a final grade passes (>= 5.0)
func IsPassing(finalGrade float64) bool {
	return finalGrade >= PassingGrade
}

// ============================================================================
// Component Mutation (funnelled through the aggregate)
// ============================================================================

// ComponentUpdate carries one component write. Nil fields keep the current
// value.
type ComponentUpdate struct {
	Type    string
	Score   *float64
	Weight  *float64
	Comment *string
}

// ApplyComponentUpdates validates and applies component writes, then
// recomputes the final grade synchronously so it is never stale. It returns
// EventAllComponentsGraded once every component has a score above zero; the
// approval pipeline consumes that event to decide status promotion.
func (r *GradeRecord) ApplyComponentUpdates(updates []ComponentUpdate) ([]Event, error) {
	for _, u := range updates {
		comp := r.findComponent(u.Type)
		if comp == nil {
			return nil, NewNotFound("grade component %q not found", u.Type)
		}
		if u.Score != nil {
			if *u.Score < 0 || *u.Score > 10 {
				return nil, NewValidation("score for %s must be between 0 and 10, got %.2f", u.Type, *u.Score)
			}
			comp.Score = *u.Score
		}
		if u.Weight != nil {
			if *u.Weight < 0 || *u.Weight > 1 {
				return nil, NewValidation("weight for %s must be between 0 and 1, got %.2f", u.Type, *u.Weight)
			}
			comp.Weight = *u.Weight
		}
		if u.Comment != nil {
			comp.Comment = *u.Comment
		}
	}

	final, letter := Recompute(r.GradeComponents)
	r.FinalGrade = &final
	r.LetterGrade = letter

	var events []Event
	if r.allComponentsGraded() {
		events = append(events, EventAllComponentsGraded)
	}
	return events, nil
}

func (r *GradeRecord) findComponent(componentType string) *GradeComponent {
	for i := range r.GradeComponents {
		if r.GradeComponents[i].Type == componentType {
			return &r.GradeComponents[i]
		}
	}
	return nil
}

// allComponentsGraded reports whether every component carries a score above
// zero (the draft-completion guard)
func (r *GradeRecord) allComponentsGraded() bool {
	if len(r.GradeComponents) == 0 {
		return false
	}
	for _, c := range r.GradeComponents {
		if c.Score <= 0 {
			return false
		}
	}
	return true
}
