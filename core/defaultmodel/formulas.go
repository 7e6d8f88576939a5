package defaultmodel

import (
	"math"

	"github.com/huangsam/gradepoint/schema"
)

// GetTicketValue is type * (priority * severity + modifier), floored at 0
// and rounded half away from zero.
func GetTicketValue(typeWeight, priorityWeight, severityWeight, modifier float64) float64 {
	return math.Round(math.Max(0, typeWeight*(priorityWeight*severityWeight+modifier)))
}

// ProjectWeights weigh the parts of the project rating.
type ProjectWeights struct {
	Completion float64
	Milestones float64
	Expert     float64
}

// DefaultProjectWeights are the project weights used when a syllabus does not override them.
var DefaultProjectWeights = ProjectWeights{Completion: 0.1, Milestones: 0.4, Expert: 0.5}

// ProjectRating combines ticket completion, milestone results and the expert grade.
func ProjectRating(completion, milestones, expert float64, w ProjectWeights) float64 {
	return w.Completion*completion + w.Milestones*milestones + w.Expert*expert
}

// Weighted returns a*wa + b*wb.
func Weighted(a, wa, b, wb float64) float64 { return a*wa + b*wb }

// ExpertGrade scores the expert form: completion and swing practice are percents.
func ExpertGrade(completion, swingPractice float64, goodTeamwork bool, completionWeight, swingWeight float64) float64 {
	grade := completionWeight*completion/100 + swingWeight*swingPractice/100
	if goodTeamwork {
		grade += 0.05
	}
	return grade
}

// PeerMilestoneGrade compares the peer points a member received with an even split.
// It is (sum / (count * msum)) * teamSize.
func PeerMilestoneGrade(results []float64, msum float64, teamSize int) (float64, error) {
	if len(results) == 0 {
		return 0, schema.VariableError("no peer evaluation results")
	}
	if msum == 0 {
		return 0, schema.VariableError("peer evaluation points are not configured")
	}
	var sum float64
	for _, r := range results {
		sum += r
	}
	return sum / (float64(len(results)) * msum) * float64(teamSize), nil
}

// MilestonesResult averages the expert ratings (0..100) of approved milestones,
// weighted by milestone weight unless every weight is zero.
func MilestonesResult(approved []schema.Milestone, totalWeight float64) (float64, error) {
	if len(approved) == 0 {
		return 0, schema.VariableError("no approved milestones")
	}
	var sum float64
	if totalWeight == 0 {
		for _, m := range approved {
			sum += m.Rating
		}
		return sum / (100 * float64(len(approved))), nil
	}
	for _, m := range approved {
		sum += m.Weight * m.Rating
	}
	return sum / (100 * totalWeight), nil
}
