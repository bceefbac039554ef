package types

type Channel string

const (
	ChannelMeta   Channel = "meta"
	ChannelGoogle Channel = "google"
)

type Platform string

const (
	PlatformApp Platform = "app"
	PlatformWeb Platform = "web"
)

// ShowRecord is one normalized spend/outcome row for a show on a single
// channel and platform. Rates are percentages; 0 when the export lacks them.
type ShowRecord struct {
	Show     string   `json:"show"`
	Channel  Channel  `json:"channel"`
	Platform Platform `json:"platform"`
	Spend    float64  `json:"spend"`
	Trials   int      `json:"trials"`
	CAC      float64  `json:"cac"`
	IR       float64  `json:"ir"`
	TR       float64  `json:"tr"`
	TCR      float64  `json:"tcr"`
	CTR      float64  `json:"ctr"`
}

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Rank orders priorities for sorting: high=3, medium=2, low=1.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	}
	return 0
}

type Insight struct {
	Kind           string             `json:"kind"`
	Title          string             `json:"title"`
	Analysis       string             `json:"analysis"`
	Recommendation string             `json:"recommendation"`
	Priority       Priority           `json:"priority"`
	Impact         string             `json:"impact"`
	Figures        map[string]float64 `json:"figures,omitempty"`
}
