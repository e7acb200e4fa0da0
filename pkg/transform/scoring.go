package transform

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

type Criterion struct {
	Key    string  `json:"key"`
	Label  string  `json:"label,omitempty"`
	Weight float64 `json:"weight"`
}

type ScoredEntity struct {
	Name   string             `json:"name"`
	Scores map[string]float64 `json:"scores"`
}

type WeightedScoringInput struct {
	Criteria []Criterion    `json:"criteria"`
	Entities []ScoredEntity `json:"entities"`
}

type Contribution struct {
	Key          string  `json:"key"`
	Label        string  `json:"label"`
	Score        float64 `json:"score"`
	Weight       float64 `json:"weight"`
	Contribution float64 `json:"contribution"`
}

type EntityScore struct {
	Name      string         `json:"name"`
	Score     float64        `json:"score"`
	Rank      int            `json:"rank"`
	Breakdown []Contribution `json:"breakdown"`
}

type WeightedScoringResult struct {
	Entities        []EntityScore `json:"entities"`
	Criteria        []Criterion   `json:"criteria"`
	TotalWeight     float64       `json:"totalWeight"`
	UsedDefaultData bool          `json:"usedDefaultData"`
}

type scoringParams struct {
	criteria    []Criterion
	entities    []ScoredEntity
	totalWeight float64
}

func normalizeWeightedScoring(in WeightedScoringInput) (scoringParams, bool, error) {
	usedDefault := len(in.Entities) == 0
	criteria, entities := in.Criteria, in.Entities
	if usedDefault {
		criteria, entities = DefaultCriteria(), DefaultScoredEntities()
	}
	if len(criteria) == 0 {
		return scoringParams{}, usedDefault, domainErr("criteria", "at least one criterion is required")
	}

	p := scoringParams{
		criteria: make([]Criterion, len(criteria)),
		entities: make([]ScoredEntity, len(entities)),
	}
	for i, c := range criteria {
		if strings.TrimSpace(c.Key) == "" {
			return scoringParams{}, usedDefault, domainErr("criteria", "criterion %d has no key", i)
		}
		if c.Weight < 0 {
			return scoringParams{}, usedDefault, domainErr("weight", "criterion %q has negative weight %v", c.Key, c.Weight)
		}
		if c.Label == "" {
			c.Label = c.Key
		}
		p.criteria[i] = c
		p.totalWeight += c.Weight
	}
	if p.totalWeight <= 0 {
		return scoringParams{}, usedDefault, domainErr("weight", "weights must sum to a positive value")
	}

	for i, e := range entities {
		if strings.TrimSpace(e.Name) == "" {
			e.Name = fmt.Sprintf("Option %d", i+1)
		}
		scores := make(map[string]float64, len(p.criteria))
		for _, c := range p.criteria {
			scores[c.Key] = e.Scores[c.Key]
		}
		e.Scores = scores
		p.entities[i] = e
	}
	return p, usedDefault, nil
}

// WeightedScoring ranks entities by the weighted mean of their criterion
// scores. Scores are expected on a 0-100 scale, so the result is as well.
func WeightedScoring(in WeightedScoringInput) (WeightedScoringResult, error) {
	p, usedDefault, err := normalizeWeightedScoring(in)
	if err != nil {
		return WeightedScoringResult{}, err
	}

	res := WeightedScoringResult{
		Entities:        make([]EntityScore, 0, len(p.entities)),
		Criteria:        p.criteria,
		TotalWeight:     p.totalWeight,
		UsedDefaultData: usedDefault,
	}
	for _, e := range p.entities {
		var sum float64
		breakdown := make([]Contribution, 0, len(p.criteria))
		for _, c := range p.criteria {
			weighted := c.Weight * e.Scores[c.Key]
			sum += weighted
			breakdown = append(breakdown, Contribution{
				Key:          c.Key,
				Label:        c.Label,
				Score:        e.Scores[c.Key],
				Weight:       c.Weight,
				Contribution: RoundTo2(weighted / p.totalWeight),
			})
		}
		res.Entities = append(res.Entities, EntityScore{
			Name:      e.Name,
			Score:     RoundTo2(sum / p.totalWeight),
			Breakdown: breakdown,
		})
	}

	slices.SortStableFunc(res.Entities, func(a, b EntityScore) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})
	for i := range res.Entities {
		res.Entities[i].Rank = i + 1
	}
	return res, nil
}
