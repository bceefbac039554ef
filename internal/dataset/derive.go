package dataset

import (
	"math"

	"spend-insights-go/internal/types"
)

// Derived holds the channel-specific metrics of one row.
type Derived struct {
	Trials int
	CAC    float64
	IR     float64
	TR     float64
	TCR    float64
	CTR    float64
}

// Deriver turns a row of one export variant into derived metrics. Exactly
// one Deriver applies per file, picked by DeriverFor.
type Deriver interface {
	Name() string
	Columns() ColumnTable
	Derive(r Row) Derived
}

var (
	showColumns  = []string{"Grouped Showname", "Show_Name - APP", "Show_Name", "showname", "show"}
	spendColumns = []string{"Spends_GST", "Spend"}
	ctrColumns   = []string{"CTR", "CTR%"}
)

// DeriverFor selects the derivation rule for a source. Google exports get
// the Google rule regardless of platform.
func DeriverFor(src Source) Deriver {
	switch {
	case src.Channel == types.ChannelMeta && src.Platform == types.PlatformWeb:
		return metaWeb{}
	case src.Channel == types.ChannelMeta:
		return metaApp{}
	default:
		return google{}
	}
}

type metaApp struct{}

func (metaApp) Name() string { return "meta-app" }

func (metaApp) Columns() ColumnTable {
	return ColumnTable{
		FieldShow:   showColumns,
		FieldSpend:  spendColumns,
		FieldTrials: {"af_start_trial_uni", "af_start_trial", "Trials"},
		FieldCAC:    {"Mandate_CAC", "CAC"},
		FieldIR:     {"AF_IR%", "IR%"},
		FieldTR:     {"TR%_AF", "TR%"},
		FieldTCR:    {"TCR_D0", "TCR%"},
		FieldCTR:    ctrColumns,
	}
}

func (metaApp) Derive(r Row) Derived {
	return Derived{
		Trials: int(nonNegative(r.Number(FieldTrials))),
		CAC:    r.Number(FieldCAC),
		IR:     r.Number(FieldIR),
		TR:     r.Number(FieldTR),
		TCR:    r.Number(FieldTCR),
		CTR:    r.Number(FieldCTR),
	}
}

// metaWeb exports carry no install or trial rate; both stay 0.
type metaWeb struct{}

func (metaWeb) Name() string { return "meta-web" }

func (metaWeb) Columns() ColumnTable {
	return ColumnTable{
		FieldShow:   showColumns,
		FieldSpend:  spendColumns,
		FieldTrials: {"Trial_web", "af_start_trial_uni", "Trials"},
		FieldCAC:    {"Mandate_CAC", "CAC"},
		FieldTCR:    {"TCR_D0", "TCR%"},
		FieldCTR:    ctrColumns,
	}
}

func (metaWeb) Derive(r Row) Derived {
	return Derived{
		Trials: int(nonNegative(r.Number(FieldTrials))),
		CAC:    r.Number(FieldCAC),
		TCR:    r.Number(FieldTCR),
		CTR:    r.Number(FieldCTR),
	}
}

// google exports report no trial count, so trials are floor(spend/cac)
// and 0 when cac is not positive.
type google struct{}

func (google) Name() string { return "google" }

func (google) Columns() ColumnTable {
	return ColumnTable{
		FieldShow:  showColumns,
		FieldSpend: spendColumns,
		FieldCAC:   {"CP_AF_CPT_D0", "CAC"},
		FieldIR:    {"AF_IR%", "IR%"},
		FieldTR:    {"AF_TR%", "TR%"},
		FieldTCR:   {"AF_TCR%D0", "AF_TCR%", "TCR%"},
		FieldCTR:   ctrColumns,
	}
}

func (google) Derive(r Row) Derived {
	spend := nonNegative(r.Number(FieldSpend))
	cac := r.Number(FieldCAC)
	trials := 0
	if cac > 0 {
		trials = int(math.Floor(spend / cac))
	}
	return Derived{
		Trials: trials,
		CAC:    cac,
		IR:     r.Number(FieldIR),
		TR:     r.Number(FieldTR),
		TCR:    r.Number(FieldTCR),
		CTR:    r.Number(FieldCTR),
	}
}
