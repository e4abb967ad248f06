package entities

import "strings"

// Metric names a field of KeyMetrics
type Metric string

const (
	MetricFDV       Metric = "fdv"
	MetricMcap      Metric = "mcap"
	MetricTVL       Metric = "tvl"
	MetricVolume24h Metric = "volume24h"
)

// KeyMetrics holds the fixed set of market figures tracked per token.
// A zero value means the figure is unknown, not that it is zero.
type KeyMetrics struct {
	FDV       float64 `json:"fdv"`
	Mcap      float64 `json:"mcap"`
	TVL       float64 `json:"tvl"`
	Volume24h float64 `json:"volume24h"`
}

// Value returns the metric and whether it is known
func (m KeyMetrics) Value(metric Metric) (float64, bool) {
	var v float64
	switch metric {
	case MetricFDV:
		v = m.FDV
	case MetricMcap:
		v = m.Mcap
	case MetricTVL:
		v = m.TVL
	case MetricVolume24h:
		v = m.Volume24h
	}
	return v, v != 0
}

// Known reports whether the metric has been filled in
func (m KeyMetrics) Known(metric Metric) bool {
	_, ok := m.Value(metric)
	return ok
}

// ChecklistItem is one research task attached to a token
type ChecklistItem struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Done  bool   `json:"done"`
}

// Token represents one researched asset
type Token struct {
	ID         int             `json:"id"`
	Name       string          `json:"name"`
	Ticker     string          `json:"ticker"`
	Chain      string          `json:"chain"`
	Category   string          `json:"category"`
	Thesis     []string        `json:"thesis"`
	Risks      []string        `json:"risks"`
	KeyMetrics KeyMetrics      `json:"keyMetrics"`
	Checklist  []ChecklistItem `json:"checklist"`
}

// SearchText returns the text the search query is matched against
func (t *Token) SearchText() string {
	return strings.ToLower(t.Name + " " + t.Ticker + " " + t.Chain + " " + t.Category)
}

// ChecklistIndex returns the position of the item with the given id, or -1
func (t *Token) ChecklistIndex(itemID string) int {
	for i, item := range t.Checklist {
		if item.ID == itemID {
			return i
		}
	}
	return -1
}

// WithToggledItem returns a copy of the token with the item at index i flipped.
// The receiver and its slices are left untouched.
func (t *Token) WithToggledItem(i int) *Token {
	next := *t
	next.Checklist = make([]ChecklistItem, len(t.Checklist))
	copy(next.Checklist, t.Checklist)
	next.Checklist[i].Done = !next.Checklist[i].Done
	return &next
}

// Clone returns a deep copy of the token
func (t *Token) Clone() *Token {
	next := *t
	next.Thesis = append([]string{}, t.Thesis...)
	next.Risks = append([]string{}, t.Risks...)
	next.Checklist = append([]ChecklistItem{}, t.Checklist...)
	return &next
}

// HasUniqueChecklist reports whether every checklist item id is distinct
func (t *Token) HasUniqueChecklist() bool {
	seen := make(map[string]struct{}, len(t.Checklist))
	for _, item := range t.Checklist {
		if _, dup := seen[item.ID]; dup {
			return false
		}
		seen[item.ID] = struct{}{}
	}
	return true
}

// NewTokenInput holds the fields collected by the new-token form
type NewTokenInput struct {
	Name     string `json:"name"`
	Ticker   string `json:"ticker"`
	Chain    string `json:"chain"`
	Category string `json:"category"`
}

// CanSave reports whether every required field is non-blank
func (in NewTokenInput) CanSave() bool {
	return strings.TrimSpace(in.Name) != "" &&
		strings.TrimSpace(in.Ticker) != "" &&
		strings.TrimSpace(in.Chain) != "" &&
		strings.TrimSpace(in.Category) != ""
}

// Normalize trims every field and upper-cases the ticker
func (in NewTokenInput) Normalize() NewTokenInput {
	return NewTokenInput{
		Name:     strings.TrimSpace(in.Name),
		Ticker:   strings.ToUpper(strings.TrimSpace(in.Ticker)),
		Chain:    strings.TrimSpace(in.Chain),
		Category: strings.TrimSpace(in.Category),
	}
}

// DefaultChecklist returns the checklist every newly added token starts with
func DefaultChecklist() []ChecklistItem {
	return []ChecklistItem{
		{ID: "tokenomics", Label: "Review tokenomics and emissions", Done: false},
		{ID: "competition", Label: "Compare against direct competitors", Done: false},
		{ID: "catalysts", Label: "Review upcoming catalysts and unlock risk windows", Done: false},
	}
}

// NewToken builds a token with empty research fields from normalized input
func NewToken(id int, in NewTokenInput) *Token {
	in = in.Normalize()
	return &Token{
		ID:         id,
		Name:       in.Name,
		Ticker:     in.Ticker,
		Chain:      in.Chain,
		Category:   in.Category,
		Thesis:     []string{},
		Risks:      []string{},
		KeyMetrics: KeyMetrics{},
		Checklist:  DefaultChecklist(),
	}
}

// StarterTokens returns the built-in token set loaded when no saved state exists
func StarterTokens() []*Token {
	return []*Token{
		{
			ID:       1,
			Name:     "Solana",
			Ticker:   "SOL",
			Chain:    "Solana",
			Category: "L1",
			Thesis: []string{
				"High throughput and low fees optimized for consumer applications",
				"Strong developer ecosystem and improving network reliability",
			},
			Risks: []string{
				"Ecosystem concentration and validator centralization risk",
				"Execution risk as the network continues to scale",
			},
			KeyMetrics: KeyMetrics{
				FDV:       90000000000,
				Mcap:      80000000000,
				TVL:       1500000000,
				Volume24h: 2500000000,
			},
			Checklist: []ChecklistItem{
				{ID: "tokenomics", Label: "Review tokenomics and emissions"},
				{ID: "revenue", Label: "Understand fee and revenue drivers"},
				{ID: "competition", Label: "Compare to competing L1s"},
			},
		},
		{
			ID:       2,
			Name:     "EigenLayer",
			Ticker:   "EIGEN",
			Chain:    "Ethereum",
			Category: "Restaking",
			Thesis: []string{
				"Introduces shared security for new decentralized services",
				"Expands Ethereum's economic security beyond L1",
			},
			Risks: []string{
				"Complex slashing mechanics and unclear risk boundaries",
				"Early stage governance and centralization concerns",
			},
			KeyMetrics: KeyMetrics{},
			Checklist: []ChecklistItem{
				{ID: "avs", Label: "Map the AVS landscape"},
				{ID: "slashing", Label: "Understand slashing conditions"},
				{ID: "supply", Label: "Review supply schedule and unlocks"},
			},
		},
	}
}
