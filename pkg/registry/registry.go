// Package registry maps chart types to execution unit endpoints.
package registry

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/ib-77/chartflow/pkg/correlate"
	"github.com/ib-77/chartflow/pkg/unit"
)

type ChartType string

const (
	MarketPositioning ChartType = "market-positioning"
	ROIComparison     ChartType = "roi-comparison"
	Treemap           ChartType = "treemap"
	Candlestick       ChartType = "candlestick"
	Growth            ChartType = "growth"
	WeightedScoring   ChartType = "weighted-scoring"
	Resample          ChartType = "resample"
	Analytics         ChartType = "analytics"
)

var ErrUnknownChartType = errors.New("unknown chart type")

var builtin = map[ChartType][]unit.Action{
	MarketPositioning: {unit.ActionMarketPositioning},
	ROIComparison:     {unit.ActionROIComparison, unit.ActionCalculateROI},
	Treemap:           {unit.ActionTreemap},
	Candlestick:       {unit.ActionCandlestick},
	Growth:            {unit.ActionGrowthProjection, unit.ActionCalculateCAGR},
	WeightedScoring:   {unit.ActionWeightedScoring},
	Resample:          {unit.ActionResample},
	Analytics:         unit.Actions(),
}

func ParseChartType(s string) (ChartType, error) {
	ct := ChartType(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := builtin[ct]; !ok {
		return "", fmt.Errorf("%w %q", ErrUnknownChartType, s)
	}
	return ct, nil
}

type Option func(*Registry)

func WithLogger(l *zap.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithUnitOptions applies opts to every unit the registry creates.
func WithUnitOptions(opts ...unit.Option) Option {
	return func(r *Registry) {
		r.unitOpts = append(r.unitOpts, opts...)
	}
}

// WithEndpoint overrides the actions served for ct. The chart type itself
// must be one of the built-in ones.
func WithEndpoint(ct ChartType, ep unit.Endpoint) Option {
	return func(r *Registry) {
		if _, ok := builtin[ct]; ok {
			r.endpoints[ct] = ep
		}
	}
}

// Registry creates units on demand. It never caches them: every Create is a
// fresh unit owned by the caller.
type Registry struct {
	endpoints map[ChartType]unit.Endpoint
	unitOpts  []unit.Option
	logger    *zap.Logger
}

func New(opts ...Option) *Registry {
	r := &Registry{
		endpoints: make(map[ChartType]unit.Endpoint, len(builtin)),
		logger:    zap.NewNop(),
	}
	for ct, actions := range builtin {
		r.endpoints[ct] = unit.Endpoint{Name: string(ct), Actions: slices.Clone(actions)}
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Types lists the known chart types in sorted order.
func (r *Registry) Types() []ChartType {
	return slices.Sorted(maps.Keys(r.endpoints))
}

func (r *Registry) Endpoint(ct ChartType) (unit.Endpoint, error) {
	ep, ok := r.endpoints[ct]
	if !ok {
		return unit.Endpoint{}, fmt.Errorf("%w %q", ErrUnknownChartType, ct)
	}
	return ep, nil
}

// Create starts a new unit for ct. The caller terminates it.
func (r *Registry) Create(ctx context.Context, ct ChartType) (*unit.Unit, error) {
	ep, err := r.Endpoint(ct)
	if err != nil {
		return nil, err
	}
	opts := append([]unit.Option{unit.WithLogger(r.logger)}, r.unitOpts...)
	u := unit.Start(ctx, ep, opts...)
	r.logger.Debug("unit created", zap.String("chart_type", string(ct)), zap.Stringer("unit_id", u.ID()))
	return u, nil
}

// Open returns a client for ct that starts its unit on the first request.
// Unit lifetime is bound to ctx and to Close on the client.
func (r *Registry) Open(ctx context.Context, ct ChartType, opts ...correlate.Option) (*correlate.Client, error) {
	if _, err := r.Endpoint(ct); err != nil {
		return nil, err
	}
	dial := func(context.Context) (correlate.Port, error) {
		return r.Create(ctx, ct)
	}
	opts = append([]correlate.Option{correlate.WithLogger(r.logger)}, opts...)
	return correlate.New(dial, opts...), nil
}
