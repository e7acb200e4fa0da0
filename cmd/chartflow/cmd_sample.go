package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ib-77/chartflow/pkg/transform"
	"github.com/ib-77/chartflow/pkg/unit"
)

// samplePayload is the built-in dataset for action, shaped as a request
// payload. Scalar actions get a small fixed example.
func samplePayload(action unit.Action) (any, error) {
	switch action {
	case unit.ActionMarketPositioning:
		return transform.MarketPositioningInput{Companies: transform.DefaultCompanies()}, nil
	case unit.ActionROIComparison:
		return transform.ROIComparisonInput{Projects: transform.DefaultProjects()}, nil
	case unit.ActionTreemap:
		return transform.TreemapInput{Periods: transform.DefaultPeriods()}, nil
	case unit.ActionCandlestick:
		return transform.CandlestickInput{Records: transform.DefaultCandles(), Range: transform.Range3M}, nil
	case unit.ActionGrowthProjection:
		return transform.GrowthProjectionInput{Series: transform.DefaultGrowthSeries(), ProjectionYears: 3}, nil
	case unit.ActionWeightedScoring:
		return transform.WeightedScoringInput{
			Criteria: transform.DefaultCriteria(),
			Entities: transform.DefaultScoredEntities(),
		}, nil
	case unit.ActionResample:
		return transform.ResampleInput{
			Points:   transform.DefaultSeriesPoints(),
			Interval: transform.IntervalWeek,
			Smooth:   true,
		}, nil
	case unit.ActionCalculateROI:
		return unit.CalculateROI{Investment: 250000, Returns: 340000}, nil
	case unit.ActionCalculateCAGR:
		return unit.CalculateCAGR{StartValue: 100, EndValue: 800, Years: 3}, nil
	default:
		return nil, fmt.Errorf("%w %q", unit.ErrUnknownAction, action)
	}
}

func newSampleCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "sample <action>",
		Short: "Print a sample request payload for an action",
		Long: `Prints the built-in dataset for action as a payload that run and batch
accept, so it can be edited and sent back.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := samplePayload(unit.Action(args[0]))
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), payload)
		},
	}
}
