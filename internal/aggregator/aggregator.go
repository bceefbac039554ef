package aggregator

import "spend-insights-go/internal/types"

// Health thresholds. Rates are percentages.
const (
	CACTarget = 250.0
	CTRTarget = 0.75
	IRTarget  = 10.0
	TRTarget  = 20.0
	TCRTarget = 30.0
)

// Health flags each blended metric against its target.
type Health struct {
	CAC bool `json:"cac"`
	CTR bool `json:"ctr"`
	IR  bool `json:"ir"`
	TR  bool `json:"tr"`
	TCR bool `json:"tcr"`
}

// Metrics is a blended snapshot over a set of records. CAC is recomputed
// from totals; IR, TR and TCR are weighted by trials, CTR by spend.
type Metrics struct {
	TotalSpend  float64 `json:"totalSpend"`
	TotalTrials int     `json:"totalTrials"`
	Records     int     `json:"records"`
	CAC         float64 `json:"cac"`
	IR          float64 `json:"ir"`
	TR          float64 `json:"tr"`
	TCR         float64 `json:"tcr"`
	CTR         float64 `json:"ctr"`
	Health      Health  `json:"health"`
}

func Aggregate(records []types.ShowRecord) Metrics {
	var (
		spend, ir, tr, tcr, ctr float64
		trials                  int
	)
	for _, r := range records {
		spend += r.Spend
		trials += r.Trials
		w := float64(r.Trials)
		ir += r.IR * w
		tr += r.TR * w
		tcr += r.TCR * w
		ctr += r.CTR * r.Spend
	}

	m := Metrics{TotalSpend: spend, TotalTrials: trials, Records: len(records)}
	if trials > 0 {
		t := float64(trials)
		m.CAC = spend / t
		m.IR = ir / t
		m.TR = tr / t
		m.TCR = tcr / t
	}
	if spend > 0 {
		m.CTR = ctr / spend
	}
	m.Health = Evaluate(m)
	return m
}

// Evaluate applies the health thresholds.
func Evaluate(m Metrics) Health {
	return Health{
		CAC: m.CAC < CACTarget,
		CTR: m.CTR > CTRTarget,
		IR:  m.IR >= IRTarget,
		TR:  m.TR >= TRTarget,
		TCR: m.TCR < TCRTarget,
	}
}

// Filter returns the records matching keep, preserving order.
func Filter(records []types.ShowRecord, keep func(types.ShowRecord) bool) []types.ShowRecord {
	var out []types.ShowRecord
	for _, r := range records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

func OfChannel(c types.Channel) func(types.ShowRecord) bool {
	return func(r types.ShowRecord) bool { return r.Channel == c }
}

func OfPlatform(p types.Platform) func(types.ShowRecord) bool {
	return func(r types.ShowRecord) bool { return r.Platform == p }
}

// ByChannel always carries both channels, empty ones as zero snapshots.
func ByChannel(records []types.ShowRecord) map[types.Channel]Metrics {
	return map[types.Channel]Metrics{
		types.ChannelMeta:   Aggregate(Filter(records, OfChannel(types.ChannelMeta))),
		types.ChannelGoogle: Aggregate(Filter(records, OfChannel(types.ChannelGoogle))),
	}
}

// ByPlatform always carries both platforms.
func ByPlatform(records []types.ShowRecord) map[types.Platform]Metrics {
	return map[types.Platform]Metrics{
		types.PlatformApp: Aggregate(Filter(records, OfPlatform(types.PlatformApp))),
		types.PlatformWeb: Aggregate(Filter(records, OfPlatform(types.PlatformWeb))),
	}
}
