// Package transform turns raw business and market datasets into the
// structures chart renderers consume.
//
// Every entry point is pure and deterministic. Each one normalizes its input
// exactly once on entry: optional fields get their defaults, and an absent or
// empty primary dataset is replaced by the canonical example dataset for that
// chart domain, so a caller can always render something. Inputs that are
// invalid for the domain (a non-positive CAGR base, an unknown date range)
// are rejected with an error wrapping ErrDomain.
//
// Families:
//   - MarketPositioning, ROIComparison: mean-based quadrant classification
//   - Treemap: two-level category/subcategory aggregation with growth
//   - Candlestick: OHLC window metrics, volatility and moving averages
//   - GrowthProjection, CAGR: compound annual growth
//   - WeightedScoring: weighted multi-criteria scores
//   - Resample: interval bucketing with optional smoothing
package transform
