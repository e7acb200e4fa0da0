package unit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/ib-77/chartflow/pkg/transform"
)

// Operation is the decoded request. The set of variants is closed: one per
// Action plus Unsupported for anything else.
type Operation interface {
	Action() Action
	apply(ctx context.Context) (any, error)
}

type MarketPositioning struct {
	transform.MarketPositioningInput
}

type ROIComparison struct {
	transform.ROIComparisonInput
}

type Treemap struct {
	transform.TreemapInput
}

type Candlestick struct {
	transform.CandlestickInput
}

type GrowthProjection struct {
	transform.GrowthProjectionInput
}

type WeightedScoring struct {
	transform.WeightedScoringInput
}

type Resample struct {
	transform.ResampleInput
}

type CalculateROI struct {
	Investment float64 `json:"investment"`
	Returns    float64 `json:"returns"`
}

type CalculateCAGR struct {
	StartValue float64 `json:"startValue"`
	EndValue   float64 `json:"endValue"`
	Years      float64 `json:"years"`
}

// Unsupported carries an action no variant matches.
type Unsupported struct {
	Name Action
}

type ROIValue struct {
	Investment float64 `json:"investment"`
	Returns    float64 `json:"returns"`
	ROI        float64 `json:"roi"`
}

type CAGRValue struct {
	StartValue float64 `json:"startValue"`
	EndValue   float64 `json:"endValue"`
	Years      float64 `json:"years"`
	CAGR       float64 `json:"cagr"`
}

func (MarketPositioning) Action() Action { return ActionMarketPositioning }
func (ROIComparison) Action() Action     { return ActionROIComparison }
func (Treemap) Action() Action           { return ActionTreemap }
func (Candlestick) Action() Action       { return ActionCandlestick }
func (GrowthProjection) Action() Action  { return ActionGrowthProjection }
func (WeightedScoring) Action() Action   { return ActionWeightedScoring }
func (Resample) Action() Action          { return ActionResample }
func (CalculateROI) Action() Action      { return ActionCalculateROI }
func (CalculateCAGR) Action() Action     { return ActionCalculateCAGR }
func (u Unsupported) Action() Action     { return u.Name }

func (o MarketPositioning) apply(context.Context) (any, error) {
	return transform.MarketPositioning(o.MarketPositioningInput)
}

func (o ROIComparison) apply(context.Context) (any, error) {
	return transform.ROIComparison(o.ROIComparisonInput)
}

func (o Treemap) apply(context.Context) (any, error) {
	return transform.Treemap(o.TreemapInput)
}

func (o Candlestick) apply(context.Context) (any, error) {
	return transform.Candlestick(o.CandlestickInput)
}

func (o GrowthProjection) apply(context.Context) (any, error) {
	return transform.GrowthProjection(o.GrowthProjectionInput)
}

func (o WeightedScoring) apply(context.Context) (any, error) {
	return transform.WeightedScoring(o.WeightedScoringInput)
}

func (o Resample) apply(context.Context) (any, error) {
	return transform.Resample(o.ResampleInput)
}

func (o CalculateROI) apply(context.Context) (any, error) {
	return ROIValue{
		Investment: o.Investment,
		Returns:    o.Returns,
		ROI:        transform.RoundTo2(transform.ROI(o.Investment, o.Returns)),
	}, nil
}

func (o CalculateCAGR) apply(context.Context) (any, error) {
	rate, err := transform.CAGR(o.StartValue, o.EndValue, o.Years)
	if err != nil {
		return nil, err
	}
	return CAGRValue{StartValue: o.StartValue, EndValue: o.EndValue, Years: o.Years, CAGR: rate}, nil
}

func (u Unsupported) apply(context.Context) (any, error) {
	return nil, fmt.Errorf("%w %q", ErrUnknownAction, u.Name)
}

// Decode splits a request frame into its envelope and operation. An unknown
// action is not an error here: it decodes to Unsupported. The envelope is
// returned even on error, carrying the id whenever the id itself decoded.
func Decode(frame []byte) (Envelope, Operation, error) {
	env, err := decodeEnvelope(frame)
	if err != nil {
		return env, nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if env.Action == "" {
		return env, nil, fmt.Errorf("%w: missing action", ErrInvalidRequest)
	}

	op, err := decodeOperation(env.Action, frame)
	if err != nil {
		return env, nil, fmt.Errorf("%w: %s: %v", ErrInvalidRequest, env.Action, err)
	}
	return env, op, nil
}

// decodeEnvelope reads id before action so a malformed action still gets a
// correlated reply.
func decodeEnvelope(frame []byte) (Envelope, error) {
	var env Envelope
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(frame, &fields); err != nil {
		return env, err
	}

	if raw, ok := fields["id"]; ok && !bytes.Equal(raw, []byte("null")) {
		var id uint64
		if err := json.Unmarshal(raw, &id); err != nil {
			return env, fmt.Errorf("id: %w", err)
		}
		env.ID = &id
	}
	if raw, ok := fields["action"]; ok {
		if err := json.Unmarshal(raw, &env.Action); err != nil {
			return env, fmt.Errorf("action: %w", err)
		}
	}
	return env, nil
}

func decodeOperation(action Action, frame []byte) (Operation, error) {
	switch action {
	case ActionMarketPositioning:
		return decodeInto[MarketPositioning](frame)
	case ActionROIComparison:
		return decodeInto[ROIComparison](frame)
	case ActionTreemap:
		return decodeInto[Treemap](frame)
	case ActionCandlestick:
		return decodeInto[Candlestick](frame)
	case ActionGrowthProjection:
		return decodeInto[GrowthProjection](frame)
	case ActionWeightedScoring:
		return decodeInto[WeightedScoring](frame)
	case ActionResample:
		return decodeInto[Resample](frame)
	case ActionCalculateROI:
		return decodeInto[CalculateROI](frame)
	case ActionCalculateCAGR:
		return decodeInto[CalculateCAGR](frame)
	default:
		return Unsupported{Name: action}, nil
	}
}

func decodeInto[T Operation](frame []byte) (Operation, error) {
	var op T
	if err := json.Unmarshal(frame, &op); err != nil {
		return nil, err
	}
	return op, nil
}
