package transform

import (
	"math"
	"time"
)

// Canonical example datasets. Each call returns a fresh copy so callers may
// mutate the result.

// DefaultCompanies is the market positioning sample: 16 companies with
// market share (%), year-over-year growth (%) and revenue (USD bn).
func DefaultCompanies() []Company {
	return []Company{
		{Name: "Apex Dynamics", MarketShare: 18.5, GrowthRate: 14.0, Revenue: 42.0},
		{Name: "Borealis Systems", MarketShare: 15.2, GrowthRate: 4.5, Revenue: 35.5},
		{Name: "Cobalt Networks", MarketShare: 12.8, GrowthRate: 15.5, Revenue: 28.0},
		{Name: "Delta Analytics", MarketShare: 10.1, GrowthRate: 3.2, Revenue: 22.4},
		{Name: "Ember Cloud", MarketShare: 3.4, GrowthRate: 24.0, Revenue: 6.1},
		{Name: "Fathom Labs", MarketShare: 2.9, GrowthRate: 18.7, Revenue: 5.2},
		{Name: "Granite Data", MarketShare: 8.6, GrowthRate: 6.1, Revenue: 16.8},
		{Name: "Helix Software", MarketShare: 4.2, GrowthRate: 9.8, Revenue: 7.9},
		{Name: "Ion Robotics", MarketShare: 1.8, GrowthRate: 31.5, Revenue: 3.4},
		{Name: "Juniper Retail", MarketShare: 6.7, GrowthRate: 2.4, Revenue: 12.3},
		{Name: "Keystone Health", MarketShare: 5.1, GrowthRate: 7.7, Revenue: 9.6},
		{Name: "Lumen Energy", MarketShare: 2.2, GrowthRate: 21.3, Revenue: 4.0},
		{Name: "Meridian Logistics", MarketShare: 3.9, GrowthRate: 1.5, Revenue: 7.1},
		{Name: "Nova Finance", MarketShare: 1.6, GrowthRate: 13.4, Revenue: 2.8},
		{Name: "Orbit Media", MarketShare: 1.4, GrowthRate: 5.2, Revenue: 2.5},
		{Name: "Pulse Mobility", MarketShare: 1.6, GrowthRate: 27.9, Revenue: 3.1},
	}
}

func DefaultProjects() []Project {
	return []Project{
		{Name: "CRM Upgrade", Category: "Software", Investment: 120000, Returns: 186000},
		{Name: "Warehouse Automation", Category: "Operations", Investment: 450000, Returns: 585000},
		{Name: "Brand Campaign", Category: "Marketing", Investment: 80000, Returns: 68000},
		{Name: "Data Platform", Category: "Software", Investment: 300000, Returns: 510000},
		{Name: "Field Sales Expansion", Category: "Sales", Investment: 220000, Returns: 231000},
		{Name: "Customer Portal", Category: "Software", Investment: 60000, Returns: 111000},
		{Name: "Solar Retrofit", Category: "Operations", Investment: 150000, Returns: 172500},
		{Name: "Partner Program", Category: "Sales", Investment: 40000, Returns: 46000},
	}
}

// DefaultPeriods is two years of segment revenue (USD m). Services changes
// shape between the years on purpose.
func DefaultPeriods() []Period {
	return []Period{
		{
			Label: "2023",
			Categories: map[string]Node{
				"Hardware": BranchNode(map[string]float64{"Laptops": 420, "Desktops": 180, "Accessories": 95}),
				"Software": BranchNode(map[string]float64{"Licenses": 310, "Subscriptions": 260}),
				"Services": LeafNode(240),
			},
		},
		{
			Label: "2024",
			Categories: map[string]Node{
				"Hardware": BranchNode(map[string]float64{"Laptops": 455, "Desktops": 160, "Accessories": 110}),
				"Software": BranchNode(map[string]float64{"Licenses": 290, "Subscriptions": 385}),
				"Services": BranchNode(map[string]float64{"Consulting": 180, "Support": 115}),
			},
		},
	}
}

// DefaultCandles generates a deterministic year of weekday candles for two
// symbols.
func DefaultCandles() []Candle {
	symbols := []struct {
		name  string
		base  float64
		drift float64
		swing float64
	}{
		{"ACME", 120, 0.08, 0.06},
		{"GLOBX", 64, -0.02, 0.09},
	}

	start := time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC)
	var out []Candle
	for _, s := range symbols {
		day := 0
		for t := start; t.Year() == 2024; t = t.AddDate(0, 0, 1) {
			if t.Weekday() == time.Saturday || t.Weekday() == time.Sunday {
				continue
			}
			x := float64(day)
			open := s.base*(1+s.swing*math.Sin(x/9)) + s.drift*x
			closeV := s.base*(1+s.swing*math.Sin((x+1)/9)) + s.drift*(x+1)
			wick := s.base * 0.01 * (1 + math.Abs(math.Cos(x/5)))
			out = append(out, Candle{
				Symbol: s.name,
				Date:   t.Format(dateLayout),
				Open:   RoundTo2(open),
				High:   RoundTo2(math.Max(open, closeV) + wick),
				Low:    RoundTo2(math.Min(open, closeV) - wick),
				Close:  RoundTo2(closeV),
				Volume: math.Round(1e6 * (1 + 0.3*math.Sin(x/4))),
			})
			day++
		}
	}
	return out
}

func DefaultGrowthSeries() []GrowthSeries {
	return []GrowthSeries{
		{Name: "Cloud Revenue", StartValue: 100, EndValue: 800, Years: 3},
		{Name: "Active Users", StartValue: 2.5, EndValue: 9.1, Years: 5},
		{Name: "Enterprise Contracts", StartValue: 40, EndValue: 58, Years: 4},
		{Name: "Hardware Sales", StartValue: 310, EndValue: 275, Years: 3},
	}
}

func DefaultCriteria() []Criterion {
	return []Criterion{
		{Key: "cost", Label: "Cost", Weight: 30},
		{Key: "quality", Label: "Quality", Weight: 25},
		{Key: "delivery", Label: "Delivery", Weight: 20},
		{Key: "support", Label: "Support", Weight: 15},
		{Key: "innovation", Label: "Innovation", Weight: 10},
	}
}

func DefaultScoredEntities() []ScoredEntity {
	return []ScoredEntity{
		{Name: "Vendor A", Scores: map[string]float64{"cost": 82, "quality": 74, "delivery": 90, "support": 65, "innovation": 58}},
		{Name: "Vendor B", Scores: map[string]float64{"cost": 68, "quality": 91, "delivery": 77, "support": 88, "innovation": 84}},
		{Name: "Vendor C", Scores: map[string]float64{"cost": 94, "quality": 62, "delivery": 70, "support": 55, "innovation": 47}},
		{Name: "Vendor D", Scores: map[string]float64{"cost": 71, "quality": 80, "delivery": 85, "support": 79, "innovation": 92}},
	}
}

// DefaultSeriesPoints is a daily metric over the first half of 2024.
func DefaultSeriesPoints() []SeriesPoint {
	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	var out []SeriesPoint
	for i := 0; i < 182; i++ {
		t := start.AddDate(0, 0, i)
		x := float64(i)
		out = append(out, SeriesPoint{
			Date:  t.Format(dateLayout),
			Value: RoundTo2(500 + 1.5*x + 40*math.Sin(x/7)),
		})
	}
	return out
}
