package transform

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// ROI returns (returns - investment) / investment * 100. A zero investment
// yields 0 rather than an infinite return.
func ROI(investment, returns float64) float64 {
	if investment == 0 {
		return 0
	}
	return finite((returns - investment) / investment * 100)
}

const (
	QuadrantScaleWinners    = "scaleWinners"
	QuadrantCapitalSinks    = "capitalSinks"
	QuadrantEfficientBets   = "efficientBets"
	QuadrantUnderperformers = "underperformers"
)

type Project struct {
	Name       string  `json:"name"`
	Category   string  `json:"category,omitempty"`
	Investment float64 `json:"investment"`
	Returns    float64 `json:"returns"`
}

type ROIComparisonInput struct {
	Projects []Project `json:"projects"`
}

type ProjectROI struct {
	Project
	ROI    float64 `json:"roi"`
	Profit float64 `json:"profit"`
}

type CategoryROI struct {
	Category   string  `json:"category"`
	Investment float64 `json:"investment"`
	Returns    float64 `json:"returns"`
	ROI        float64 `json:"roi"`
	Projects   int     `json:"projects"`
}

type ROIComparisonResult struct {
	Projects          []ProjectROI   `json:"projects"`
	ScaleWinners      []ProjectROI   `json:"scaleWinners"`
	CapitalSinks      []ProjectROI   `json:"capitalSinks"`
	EfficientBets     []ProjectROI   `json:"efficientBets"`
	Underperformers   []ProjectROI   `json:"underperformers"`
	Categories        []CategoryROI  `json:"categories"`
	AverageInvestment float64        `json:"averageInvestment"`
	AverageROI        float64        `json:"averageRoi"`
	TotalInvestment   float64        `json:"totalInvestment"`
	TotalReturns      float64        `json:"totalReturns"`
	PortfolioROI      float64        `json:"portfolioRoi"`
	Series            []ScatterPoint `json:"series"`
	UsedDefaultData   bool           `json:"usedDefaultData"`
}

const uncategorized = "Uncategorized"

func normalizeROIComparison(in ROIComparisonInput) (ROIComparisonInput, bool) {
	usedDefault := len(in.Projects) == 0
	src := in.Projects
	if usedDefault {
		src = DefaultProjects()
	}

	projects := make([]Project, len(src))
	for i, p := range src {
		if strings.TrimSpace(p.Name) == "" {
			p.Name = fmt.Sprintf("Project %d", i+1)
		}
		if strings.TrimSpace(p.Category) == "" {
			p.Category = uncategorized
		}
		projects[i] = p
	}
	return ROIComparisonInput{Projects: projects}, usedDefault
}

// ROIComparison places projects by investment (x) and ROI (y), ranking each
// quadrant by absolute returns.
func ROIComparison(in ROIComparisonInput) (ROIComparisonResult, error) {
	in, usedDefault := normalizeROIComparison(in)

	rows := make([]ProjectROI, len(in.Projects))
	points := make([]QuadrantPoint, len(in.Projects))
	var totalInv, totalRet float64
	for i, p := range in.Projects {
		roi := RoundTo2(ROI(p.Investment, p.Returns))
		rows[i] = ProjectROI{Project: p, ROI: roi, Profit: RoundTo2(p.Returns - p.Investment)}
		points[i] = QuadrantPoint{Label: p.Name, X: p.Investment, Y: roi, Rank: p.Returns, Index: i}
		totalInv += p.Investment
		totalRet += p.Returns
	}

	q := ClassifyQuadrants(points)
	pick := func(bucket []QuadrantPoint) []ProjectROI {
		out := make([]ProjectROI, len(bucket))
		for i, p := range bucket {
			out[i] = rows[p.Index]
		}
		return out
	}

	res := ROIComparisonResult{
		ScaleWinners:      pick(q.HighHigh),
		CapitalSinks:      pick(q.HighLow),
		EfficientBets:     pick(q.LowHigh),
		Underperformers:   pick(q.LowLow),
		Categories:        categoryROI(in.Projects),
		AverageInvestment: RoundTo2(q.MeanX),
		AverageROI:        RoundTo2(q.MeanY),
		TotalInvestment:   RoundTo2(totalInv),
		TotalReturns:      RoundTo2(totalRet),
		PortfolioROI:      RoundTo2(ROI(totalInv, totalRet)),
		Series:            scatter(q, QuadrantScaleWinners, QuadrantCapitalSinks, QuadrantEfficientBets, QuadrantUnderperformers),
		UsedDefaultData:   usedDefault,
	}

	res.Projects = slices.Clone(rows)
	slices.SortStableFunc(res.Projects, func(a, b ProjectROI) int {
		if c := cmp.Compare(b.ROI, a.ROI); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})
	return res, nil
}

func categoryROI(projects []Project) []CategoryROI {
	index := make(map[string]int)
	var out []CategoryROI
	for _, p := range projects {
		i, ok := index[p.Category]
		if !ok {
			i = len(out)
			index[p.Category] = i
			out = append(out, CategoryROI{Category: p.Category})
		}
		out[i].Investment += p.Investment
		out[i].Returns += p.Returns
		out[i].Projects++
	}
	for i := range out {
		out[i].ROI = RoundTo2(ROI(out[i].Investment, out[i].Returns))
		out[i].Investment = RoundTo2(out[i].Investment)
		out[i].Returns = RoundTo2(out[i].Returns)
	}
	slices.SortStableFunc(out, func(a, b CategoryROI) int { return cmp.Compare(b.ROI, a.ROI) })
	return out
}
