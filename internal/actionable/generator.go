package actionable

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"spend-insights-go/internal/aggregator"
	"spend-insights-go/internal/types"
)

// Insight kinds, one per rule.
const (
	KindTopPerformer  = "top_performer"
	KindCACEfficiency = "cac_efficiency"
	KindChannelMix    = "channel_mix"
	KindRetention     = "retention"
	KindPlatformMix   = "platform_mix"
)

// ExcessChurnBaseline is subtracted from a show's TCR when estimating lost
// trials. It is one point below aggregator.TCRTarget.
const ExcessChurnBaseline = 29.0

const (
	scaleFactor       = 1.25
	minEfficientTrial = 50
	channelGapHigh    = 20.0
	reallocateShare   = 0.4
	savingsShare      = 0.15
	platformUplift    = 0.08
	blendedCACGoal    = 0.93
	exampleShows      = 3
)

// Generate runs the five insight rules over records and returns them ordered
// by priority, high first. Rules of equal priority keep their rule order.
// An empty record set yields no insights.
func Generate(records []types.ShowRecord) []types.Insight {
	if len(records) == 0 {
		return []types.Insight{}
	}
	shows := Rank(records)
	m := aggregator.Aggregate(records)

	out := []types.Insight{
		topPerformer(shows, m),
		cacEfficiency(shows, m),
		channelMix(records, m),
		retention(shows, m),
		platformMix(records, m),
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority.Rank() > out[j].Priority.Rank()
	})
	return out
}

// Rank returns a copy of records sorted by trials descending, then by show,
// channel and platform, so example lists are stable across runs.
func Rank(records []types.ShowRecord) []types.ShowRecord {
	shows := append([]types.ShowRecord(nil), records...)
	sort.SliceStable(shows, func(i, j int) bool {
		a, b := shows[i], shows[j]
		if a.Trials != b.Trials {
			return a.Trials > b.Trials
		}
		if a.Show != b.Show {
			return a.Show < b.Show
		}
		if a.Channel != b.Channel {
			return a.Channel < b.Channel
		}
		return a.Platform < b.Platform
	})
	return shows
}

func topPerformer(shows []types.ShowRecord, m aggregator.Metrics) types.Insight {
	top := shows[0]
	projected := int(math.Floor(float64(top.Trials) * scaleFactor))
	extra := projected - top.Trials
	extraSpend := float64(extra) * top.CAC
	pct := share(top.Trials, m.TotalTrials)

	cacNote := "above target"
	if top.CAC < aggregator.CACTarget {
		cacNote = "below target (healthy)"
	}
	tcrNote := "(needs improvement)"
	if top.TCR < aggregator.TCRTarget {
		tcrNote = "(excellent retention)"
	}

	return types.Insight{
		Kind:  KindTopPerformer,
		Title: fmt.Sprintf("Scale %q - top performer with %d trials", top.Show, top.Trials),
		Analysis: fmt.Sprintf(
			"%s is the strongest performer, generating %s%% of total trials at %s CAC on %s %s. Current spend: %s. The CAC is %s and TCR is %s%% %s.",
			top.Show, fixed(pct, 1), rupees(top.CAC), top.Channel, top.Platform, lakhs(top.Spend, 1), cacNote, fixed(top.TCR, 1), tcrNote),
		Recommendation: fmt.Sprintf(
			"Increase budget by 20-25%% (from %s to %s). Expected outcome: +%d trials for %s incremental spend. Keep current creative and targeting, and monitor daily for 5-7 days to confirm CAC stability.",
			lakhs(top.Spend, 1), lakhs(top.Spend*scaleFactor, 1), extra, lakhs(extraSpend, 2)),
		Priority: types.PriorityHigh,
		Impact:   fmt.Sprintf("Scaling top performer = %d additional trials = %s efficient spend", extra, lakhs(extraSpend, 2)),
		Figures: map[string]float64{
			"trials":           float64(top.Trials),
			"projected_trials": float64(projected),
			"extra_trials":     float64(extra),
			"extra_spend":      extraSpend,
			"trial_share":      pct,
		},
	}
}

func cacEfficiency(shows []types.ShowRecord, m aggregator.Metrics) types.Insight {
	var efficient, inefficient []types.ShowRecord
	var efficientTrials int
	var efficientCAC, inefficientSpend float64
	for _, s := range shows {
		switch {
		case s.CAC < aggregator.CACTarget && s.Trials > minEfficientTrial:
			efficient = append(efficient, s)
			efficientTrials += s.Trials
			efficientCAC += s.CAC
		case s.CAC >= aggregator.CACTarget:
			inefficient = append(inefficient, s)
			inefficientSpend += s.Spend
		}
	}
	avgEfficient := m.CAC
	if len(efficient) > 0 {
		avgEfficient = efficientCAC / float64(len(efficient))
	}
	reallocate := inefficientSpend * reallocateShare
	savings := m.TotalSpend * savingsShare

	status := "below target"
	if m.CAC >= aggregator.CACTarget {
		status = "above target"
	}
	priority := types.PriorityMedium
	if m.CAC > aggregator.CACTarget {
		priority = types.PriorityHigh
	}

	var analysis strings.Builder
	fmt.Fprintf(&analysis, "Blended CAC of %s vs %s target. %d of %d shows operate below target CAC (avg %s), driving %s%% of volume. ",
		rupees(m.CAC), rupees(aggregator.CACTarget), len(efficient), len(shows), rupees(avgEfficient), fixed(share(efficientTrials, m.TotalTrials), 1))
	if len(inefficient) > 0 {
		examples := make([]string, 0, exampleShows)
		for _, s := range firstN(inefficient, exampleShows) {
			examples = append(examples, fmt.Sprintf("%s (%s)", s.Show, rupees(s.CAC)))
		}
		fmt.Fprintf(&analysis, "%d shows exceed %s CAC: %s. These need optimization or budget reallocation.",
			len(inefficient), rupees(aggregator.CACTarget), strings.Join(examples, ", "))
	} else {
		analysis.WriteString("All shows are performing efficiently.")
	}

	rec := fmt.Sprintf("1. Scale: increase budget 20%% for efficient shows: %s. ", joinNames(showNames(firstN(efficient, exampleShows))))
	if len(inefficient) > 0 {
		rec += fmt.Sprintf("2. Optimize or pause: reduce spend 30-50%% on %s until CAC improves, and test new creatives and audiences. ",
			joinNames(showNames(firstN(inefficient, 2))))
	} else {
		rec += "2. Maintain current efficiency and watch for creative fatigue. "
	}
	rec += fmt.Sprintf("3. Reallocate %s from inefficient to efficient shows.", lakhs(reallocate, 1))

	return types.Insight{
		Kind:           KindCACEfficiency,
		Title:          fmt.Sprintf("CAC analysis: %s blended, %s", rupees(m.CAC), status),
		Analysis:       analysis.String(),
		Recommendation: rec,
		Priority:       priority,
		Impact:         fmt.Sprintf("CAC optimization = estimated %s cost savings", lakhs(savings, 1)),
		Figures: map[string]float64{
			"blended_cac":       m.CAC,
			"efficient_shows":   float64(len(efficient)),
			"inefficient_shows": float64(len(inefficient)),
			"avg_efficient_cac": avgEfficient,
			"reallocate_spend":  reallocate,
			"savings":           savings,
		},
	}
}

func channelMix(records []types.ShowRecord, m aggregator.Metrics) types.Insight {
	byChannel := aggregator.ByChannel(records)
	meta := segment{name: "Meta", m: byChannel[types.ChannelMeta]}
	google := segment{name: "Google", m: byChannel[types.ChannelGoogle]}
	c := compare(meta, google)

	var upside int
	if c.lead.m.CAC > 0 {
		upside = int(math.Floor(m.TotalSpend/c.lead.m.CAC - float64(m.TotalTrials)))
	}
	priority := types.PriorityMedium
	if c.gapPct > channelGapHigh {
		priority = types.PriorityHigh
	}

	var rec string
	if c.lead.name == meta.name {
		rec = fmt.Sprintf("Shift 15-20%% of budget from Google to Meta, taking Meta from %s to %s. ",
			lakhs(meta.m.TotalSpend, 1), lakhs(meta.m.TotalSpend*1.2, 1))
		if c.gapPct > channelGapHigh {
			rec += "The efficiency gap is significant, prioritize Meta scaling."
		} else {
			rec += "Keep Google for audience diversification."
		}
	} else {
		rec = "Scale Google campaigns 15-20%. "
		if c.gapPct > channelGapHigh {
			rec += "Review Meta creative fatigue and audience saturation."
		} else {
			rec += "Maintain a balanced mix."
		}
	}
	rec += fmt.Sprintf(" Target blended CAC: %s.", rupees(m.CAC*blendedCACGoal))

	return types.Insight{
		Kind:  KindChannelMix,
		Title: fmt.Sprintf("Channel mix: %s outperforming by %s CAC (%s%%)", c.lead.name, rupees(c.gap), fixed(c.gapPct, 0)),
		Analysis: fmt.Sprintf("%s %s %s shows %s lower CAC (+%s%% efficiency edge).",
			describeSegment(meta, m), describeSegment(google, m), c.lead.name, rupees(c.gap), fixed(c.gapPct, 0)),
		Recommendation: rec,
		Priority:       priority,
		Impact:         fmt.Sprintf("Channel optimization = estimated +%d trials", upside),
		Figures: map[string]float64{
			"meta_cac":      meta.m.CAC,
			"google_cac":    google.m.CAC,
			"cac_gap":       c.gap,
			"cac_gap_pct":   c.gapPct,
			"trials_upside": float64(upside),
			"meta_trials":   float64(meta.m.TotalTrials),
			"google_trials": float64(google.m.TotalTrials),
			"meta_spend":    meta.m.TotalSpend,
			"google_spend":  google.m.TotalSpend,
		},
	}
}

func retention(shows []types.ShowRecord, m aggregator.Metrics) types.Insight {
	var healthy, poor []types.ShowRecord
	for _, s := range shows {
		if s.TCR < aggregator.TCRTarget {
			healthy = append(healthy, s)
		} else {
			poor = append(poor, s)
		}
	}
	lost := LostTrials(poor)
	lostValue := float64(lost) * m.CAC

	critical := m.TCR >= aggregator.TCRTarget
	state, priority := "healthy", types.PriorityLow
	if critical {
		state, priority = "critical", types.PriorityHigh
	}

	analysis := fmt.Sprintf("Overall D0 churn at %s%% vs <%s%% target. %d shows meet the retention target",
		fixed(m.TCR, 1), fixed(aggregator.TCRTarget, 0), len(healthy))
	if len(healthy) > 0 {
		examples := make([]string, 0, 2)
		for _, s := range firstN(healthy, 2) {
			examples = append(examples, fmt.Sprintf("%s: %s%%", s.Show, fixed(s.TCR, 1)))
		}
		analysis += " (" + strings.Join(examples, ", ") + ")"
	}
	analysis += ". "
	if len(poor) > 0 {
		analysis += fmt.Sprintf("%d shows exceed %s%% churn, losing approximately %d trials worth %s.",
			len(poor), fixed(aggregator.TCRTarget, 0), lost, lakhs(lostValue, 1))
	} else {
		analysis += "Retention is healthy across the portfolio."
	}

	rec := "Maintain retention. Document what the top performers do and replicate it, and keep A/B testing onboarding."
	if critical {
		rec = fmt.Sprintf("Urgent: audit content quality, onboarding UX and trial value proposition for %s. Benchmark the best performer against the worst and target TCR below 28%%.",
			joinNames(showNames(poor)))
	}

	return types.Insight{
		Kind:           KindRetention,
		Title:          fmt.Sprintf("Trial retention: %s%% TCR %s", fixed(m.TCR, 1), state),
		Analysis:       analysis,
		Recommendation: rec,
		Priority:       priority,
		Impact:         fmt.Sprintf("Fixing retention = %d trial recovery = %s cost avoidance", lost, lakhs(lostValue, 1)),
		Figures: map[string]float64{
			"blended_tcr":   m.TCR,
			"healthy_shows": float64(len(healthy)),
			"poor_shows":    float64(len(poor)),
			"lost_trials":   float64(lost),
			"lost_value":    lostValue,
		},
	}
}

// LostTrials estimates trials lost to churn above ExcessChurnBaseline.
func LostTrials(records []types.ShowRecord) int {
	lost := 0
	for _, r := range records {
		excess := math.Max(0, (r.TCR-ExcessChurnBaseline)/100)
		lost += int(math.Floor(float64(r.Trials) * excess))
	}
	return lost
}

func platformMix(records []types.ShowRecord, m aggregator.Metrics) types.Insight {
	byPlatform := aggregator.ByPlatform(records)
	app := segment{name: "App", m: byPlatform[types.PlatformApp]}
	web := segment{name: "Web", m: byPlatform[types.PlatformWeb]}
	c := compare(app, web)
	uplift := int(math.Floor(float64(m.TotalTrials) * platformUplift))

	rec := "Focus on web conversion: improve landing page UX, reduce signup friction and test a progressive web app."
	if c.lead.name == app.name {
		rec = "Prioritize app install campaigns, optimize the store listing and consider app-only promotional offers."
	}

	return types.Insight{
		Kind:  KindPlatformMix,
		Title: fmt.Sprintf("Platform mix: %s leading with %s CAC", c.lead.name, rupees(c.lead.m.CAC)),
		Analysis: fmt.Sprintf("App: %d trials @ %s CAC. Web: %d trials @ %s CAC. Platform split: %s%% App, %s%% Web. %s shows better cost efficiency.",
			app.m.TotalTrials, rupees(app.m.CAC), web.m.TotalTrials, rupees(web.m.CAC),
			fixed(share(app.m.TotalTrials, m.TotalTrials), 0), fixed(share(web.m.TotalTrials, m.TotalTrials), 0), c.lead.name),
		Recommendation: rec,
		Priority:       types.PriorityMedium,
		Impact:         fmt.Sprintf("Platform optimization = estimated +%d trials", uplift),
		Figures: map[string]float64{
			"app_cac":     app.m.CAC,
			"web_cac":     web.m.CAC,
			"cac_gap":     c.gap,
			"cac_gap_pct": c.gapPct,
			"uplift":      float64(uplift),
		},
	}
}

type segment struct {
	name string
	m    aggregator.Metrics
}

type comparison struct {
	lead   segment
	gap    float64
	gapPct float64
}

// compare picks the lower-CAC segment. Ties go to b. A segment without
// trials cannot lead; when only one side has trials it leads with no gap.
func compare(a, b segment) comparison {
	aOK, bOK := a.m.TotalTrials > 0, b.m.TotalTrials > 0
	switch {
	case aOK && bOK:
		c := comparison{lead: b}
		if a.m.CAC < b.m.CAC {
			c.lead = a
		}
		c.gap = math.Abs(a.m.CAC - b.m.CAC)
		if low := math.Min(a.m.CAC, b.m.CAC); low > 0 {
			c.gapPct = c.gap / low * 100
		}
		return c
	case aOK:
		return comparison{lead: a}
	default:
		return comparison{lead: b}
	}
}

func describeSegment(s segment, total aggregator.Metrics) string {
	return fmt.Sprintf("%s: %d trials @ %s CAC (%s%% share, %s spend).",
		s.name, s.m.TotalTrials, rupees(s.m.CAC), fixed(share(s.m.TotalTrials, total.TotalTrials), 0), lakhs(s.m.TotalSpend, 1))
}

func showNames(records []types.ShowRecord) []string {
	names := make([]string, len(records))
	for i, r := range records {
		names[i] = r.Show
	}
	return names
}
