package domains

import (
	"carnerd/internal/types"
)

type education struct{}

func (education) Name() string { return "education" }

var performanceKeys = []string{"grades", "scores", "grade", "score", "results"}

func (education) Inferences(ctx Context) []types.Inference {
	terms := vocabulary(ctx.Features, "education")
	var out []types.Inference

	for _, p := range ctx.Patterns {
		if p.Type != types.PatternTrend {
			continue
		}
		if !hasAny(terms, "student", "students", "grade", "grades", "exam") && !hasPerformanceKey(ctx.Features) {
			continue
		}
		switch p.Direction {
		case "decreasing":
			out = append(out, inference("Student performance is declining; early learning support may help",
				0.7, []string{p.Description}, []string{"Trend based on a small number of assessments"}))
		case "increasing":
			out = append(out, inference("Student performance is improving under current conditions",
				0.65, []string{p.Description}, nil))
		}
	}

	if n, ok := ctx.Categorized.Get(types.CategoryNegation); ok && n.Found() && hasAny(terms, "homework", "exam", "lesson", "course") {
		out = append(out, inference("Gaps in coursework suggest reviewing available learning support",
			0.6, n.Items, nil))
	}

	if len(present(terms, "student", "students", "learning", "teacher", "curriculum", "classroom")) >= 2 {
		out = append(out, inference("Learning outcomes depend on individual student context",
			0.55, []string{"Education vocabulary present"}, nil))
	}
	return out
}

func hasPerformanceKey(features []types.Feature) bool {
	for _, f := range features {
		if f.Type != types.FeatureProperty {
			continue
		}
		for _, k := range performanceKeys {
			if f.Name == k {
				return true
			}
		}
	}
	return false
}

func (education) Limitations(Context) []string {
	return []string{"Educational assessment lacks longitudinal learner data and individual context"}
}
