package transform

import (
	"bytes"
	"cmp"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

// Node is one top-level category. On the wire it is either a bare number
// (a leaf) or an object of named numeric children.
type Node struct {
	Leaf     bool
	Value    float64
	Children map[string]float64
}

func LeafNode(v float64) Node {
	return Node{Leaf: true, Value: v}
}

func BranchNode(children map[string]float64) Node {
	return Node{Children: children}
}

// Total is the node value: the number itself for a leaf, the sum of the
// numeric children otherwise.
func (n Node) Total() float64 {
	if n.Leaf {
		return n.Value
	}
	var sum float64
	for _, v := range n.Children {
		sum += v
	}
	return sum
}

func (n *Node) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*n = LeafNode(0)
		return nil
	}

	var num float64
	if err := json.Unmarshal(b, &num); err == nil {
		*n = LeafNode(num)
		return nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("category must be a number or an object of numbers: %w", err)
	}
	children := make(map[string]float64, len(raw))
	for name, v := range raw {
		var f float64
		if err := json.Unmarshal(v, &f); err != nil {
			// non-numeric children carry no value
			continue
		}
		children[name] = f
	}
	*n = BranchNode(children)
	return nil
}

func (n Node) MarshalJSON() ([]byte, error) {
	if n.Leaf {
		return json.Marshal(n.Value)
	}
	if n.Children == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(n.Children)
}

type Period struct {
	Label      string          `json:"label"`
	Categories map[string]Node `json:"categories"`
}

type TreemapInput struct {
	Periods []Period `json:"periods"`
	// Period selects the label to chart; empty means the last period.
	Period string `json:"period,omitempty"`
}

type TreemapLeaf struct {
	Name       string   `json:"name"`
	Value      float64  `json:"value"`
	Percentage float64  `json:"percentage"`
	Growth     *float64 `json:"growth,omitempty"`
}

type TreemapItem struct {
	Name       string        `json:"name"`
	Value      float64       `json:"value"`
	Percentage float64       `json:"percentage"`
	Growth     *float64      `json:"growth,omitempty"`
	Children   []TreemapLeaf `json:"children,omitempty"`
}

type TreemapResult struct {
	Period          string        `json:"period"`
	PreviousPeriod  string        `json:"previousPeriod,omitempty"`
	Total           float64       `json:"total"`
	Growth          *float64      `json:"growth,omitempty"`
	Items           []TreemapItem `json:"items"`
	UsedDefaultData bool          `json:"usedDefaultData"`
}

type treemapParams struct {
	periods  []Period
	selected int
}

func normalizeTreemap(in TreemapInput) (treemapParams, bool, error) {
	usedDefault := len(in.Periods) == 0
	src := in.Periods
	if usedDefault {
		src = DefaultPeriods()
	}

	periods := make([]Period, len(src))
	for i, p := range src {
		if strings.TrimSpace(p.Label) == "" {
			p.Label = fmt.Sprintf("Period %d", i+1)
		}
		if p.Categories == nil {
			p.Categories = map[string]Node{}
		}
		periods[i] = p
	}

	selected := len(periods) - 1
	if in.Period != "" {
		idx := slices.IndexFunc(periods, func(p Period) bool { return p.Label == in.Period })
		switch {
		case idx >= 0:
			selected = idx
		case !usedDefault:
			return treemapParams{}, usedDefault, domainErr("period", "unknown period %q", in.Period)
		}
	}
	return treemapParams{periods: periods, selected: selected}, usedDefault, nil
}

// Treemap aggregates one period of a two-level category tree. Growth is
// reported against the immediately preceding period only.
func Treemap(in TreemapInput) (TreemapResult, error) {
	p, usedDefault, err := normalizeTreemap(in)
	if err != nil {
		return TreemapResult{}, err
	}

	current := p.periods[p.selected]
	var previous *Period
	if p.selected > 0 {
		previous = &p.periods[p.selected-1]
	}

	var grand float64
	for _, node := range current.Categories {
		grand += node.Total()
	}

	res := TreemapResult{
		Period:          current.Label,
		Total:           RoundTo2(grand),
		Items:           make([]TreemapItem, 0, len(current.Categories)),
		UsedDefaultData: usedDefault,
	}

	if previous != nil {
		res.PreviousPeriod = previous.Label
		var prevGrand float64
		for _, node := range previous.Categories {
			prevGrand += node.Total()
		}
		res.Growth = growthOf(prevGrand, grand)
	}

	for name, node := range current.Categories {
		total := node.Total()
		item := TreemapItem{
			Name:       name,
			Value:      RoundTo2(total),
			Percentage: RoundTo2(percentOf(total, grand)),
		}

		var prevNode *Node
		if previous != nil {
			if pn, ok := previous.Categories[name]; ok {
				prevNode = &pn
				item.Growth = growthOf(pn.Total(), total)
			}
		}

		if !node.Leaf {
			item.Children = make([]TreemapLeaf, 0, len(node.Children))
			for child, v := range node.Children {
				leaf := TreemapLeaf{
					Name:       child,
					Value:      RoundTo2(v),
					Percentage: RoundTo2(percentOf(v, total)),
				}
				if prevNode != nil && !prevNode.Leaf {
					if pv, ok := prevNode.Children[child]; ok {
						leaf.Growth = growthOf(pv, v)
					}
				}
				item.Children = append(item.Children, leaf)
			}
			slices.SortFunc(item.Children, func(a, b TreemapLeaf) int {
				if c := cmp.Compare(b.Value, a.Value); c != 0 {
					return c
				}
				return strings.Compare(a.Name, b.Name)
			})
		}
		res.Items = append(res.Items, item)
	}

	slices.SortFunc(res.Items, func(a, b TreemapItem) int {
		if c := cmp.Compare(b.Value, a.Value); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})
	return res, nil
}

func growthOf(prev, cur float64) *float64 {
	g := RoundTo2(changePercent(prev, cur))
	return &g
}
