package actionable

import (
	"strings"
	"testing"

	"spend-insights-go/internal/types"
)

func rec(show string, ch types.Channel, pl types.Platform, spend float64, trials int, tcr float64) types.ShowRecord {
	cac := 0.0
	if trials > 0 {
		cac = spend / float64(trials)
	}
	return types.ShowRecord{Show: show, Channel: ch, Platform: pl, Spend: spend, Trials: trials, CAC: cac, TCR: tcr}
}

func find(t *testing.T, insights []types.Insight, kind string) types.Insight {
	t.Helper()
	for _, in := range insights {
		if in.Kind == kind {
			return in
		}
	}
	t.Fatalf("no %s insight in %+v", kind, insights)
	return types.Insight{}
}

func TestGenerate_Empty(t *testing.T) {
	got := Generate(nil)
	if got == nil || len(got) != 0 {
		t.Errorf("Generate(nil) = %#v, want empty non-nil slice", got)
	}
}

func TestGenerate_OrderedByPriority(t *testing.T) {
	records := []types.ShowRecord{
		rec("Kesar", types.ChannelMeta, types.PlatformApp, 20000, 100, 25),
		rec("Dhundh", types.ChannelGoogle, types.PlatformWeb, 9000, 30, 40),
	}
	got := Generate(records)
	if len(got) != 5 {
		t.Fatalf("got %d insights, want 5", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i-1].Priority.Rank() < got[i].Priority.Rank() {
			t.Errorf("insight %d (%s) ranks below insight %d (%s)", i-1, got[i-1].Priority, i, got[i].Priority)
		}
	}
	if got[0].Kind != KindTopPerformer {
		t.Errorf("first insight = %s, want %s", got[0].Kind, KindTopPerformer)
	}
	for _, in := range got {
		if in.Title == "" || in.Analysis == "" || in.Recommendation == "" || in.Impact == "" {
			t.Errorf("insight %s has empty text: %+v", in.Kind, in)
		}
	}
}

func TestGenerate_CACPriority(t *testing.T) {
	tests := []struct {
		name  string
		spend float64
		want  types.Priority
	}{
		{"blended cac 300", 30000, types.PriorityHigh},
		{"blended cac 250", 25000, types.PriorityMedium},
		{"blended cac 200", 20000, types.PriorityMedium},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := []types.ShowRecord{rec("Kesar", types.ChannelMeta, types.PlatformApp, tt.spend, 100, 20)}
			in := find(t, Generate(records), KindCACEfficiency)
			if in.Priority != tt.want {
				t.Errorf("priority = %s, want %s", in.Priority, tt.want)
			}
		})
	}
}

func TestGenerate_TopPerformer(t *testing.T) {
	records := []types.ShowRecord{
		rec("Dhundh", types.ChannelMeta, types.PlatformApp, 5000, 50, 20),
		rec("Kesar", types.ChannelMeta, types.PlatformApp, 30000, 150, 20),
	}
	in := find(t, Generate(records), KindTopPerformer)
	if !strings.Contains(in.Title, "Kesar") {
		t.Errorf("title = %q, want Kesar", in.Title)
	}
	if in.Figures["projected_trials"] != 187 || in.Figures["extra_trials"] != 37 {
		t.Errorf("figures = %v, want projected 187 and extra 37", in.Figures)
	}
	if in.Figures["extra_spend"] != 37*200 {
		t.Errorf("extra_spend = %v, want %v", in.Figures["extra_spend"], 37*200)
	}
	if in.Priority != types.PriorityHigh {
		t.Errorf("priority = %s, want high", in.Priority)
	}
}

func TestGenerate_CACEfficiencyFallsBackToBlended(t *testing.T) {
	// Neither show clears the 50-trial bar, so there are no efficient shows.
	records := []types.ShowRecord{
		rec("Kesar", types.ChannelMeta, types.PlatformApp, 4000, 40, 20),
		rec("Dhundh", types.ChannelMeta, types.PlatformApp, 12000, 40, 20),
	}
	in := find(t, Generate(records), KindCACEfficiency)
	if in.Figures["efficient_shows"] != 0 || in.Figures["inefficient_shows"] != 1 {
		t.Errorf("figures = %v", in.Figures)
	}
	if in.Figures["avg_efficient_cac"] != 200 {
		t.Errorf("avg_efficient_cac = %v, want blended 200", in.Figures["avg_efficient_cac"])
	}
	if in.Figures["reallocate_spend"] != 4800 {
		t.Errorf("reallocate_spend = %v, want 4800", in.Figures["reallocate_spend"])
	}
}

func TestGenerate_ChannelMix(t *testing.T) {
	tests := []struct {
		name     string
		records  []types.ShowRecord
		wantLead string
		wantGap  float64
		wantPrio types.Priority
	}{
		{
			name: "meta cheaper by 50%",
			records: []types.ShowRecord{
				rec("Kesar", types.ChannelMeta, types.PlatformApp, 20000, 100, 20),
				rec("Dhundh", types.ChannelGoogle, types.PlatformApp, 30000, 100, 20),
			},
			wantLead: "Meta", wantGap: 50, wantPrio: types.PriorityHigh,
		},
		{
			name: "tie goes to google",
			records: []types.ShowRecord{
				rec("Kesar", types.ChannelMeta, types.PlatformApp, 20000, 100, 20),
				rec("Dhundh", types.ChannelGoogle, types.PlatformApp, 20000, 100, 20),
			},
			wantLead: "Google", wantGap: 0, wantPrio: types.PriorityMedium,
		},
		{
			name: "google without trials cannot lead",
			records: []types.ShowRecord{
				rec("Kesar", types.ChannelMeta, types.PlatformApp, 30000, 100, 20),
				rec("Dhundh", types.ChannelGoogle, types.PlatformApp, 500, 0, 0),
			},
			wantLead: "Meta", wantGap: 0, wantPrio: types.PriorityMedium,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := find(t, Generate(tt.records), KindChannelMix)
			if !strings.HasPrefix(in.Title, "Channel mix: "+tt.wantLead) {
				t.Errorf("title = %q, want leader %s", in.Title, tt.wantLead)
			}
			if in.Figures["cac_gap_pct"] != tt.wantGap {
				t.Errorf("cac_gap_pct = %v, want %v", in.Figures["cac_gap_pct"], tt.wantGap)
			}
			if in.Priority != tt.wantPrio {
				t.Errorf("priority = %s, want %s", in.Priority, tt.wantPrio)
			}
		})
	}
}

func TestGenerate_ChannelUpside(t *testing.T) {
	records := []types.ShowRecord{
		rec("Kesar", types.ChannelMeta, types.PlatformApp, 20000, 100, 20),
		rec("Dhundh", types.ChannelGoogle, types.PlatformApp, 30000, 100, 20),
	}
	in := find(t, Generate(records), KindChannelMix)
	// 50000 spend at the leader's 200 CAC buys 250 trials against 200 today.
	if in.Figures["trials_upside"] != 50 {
		t.Errorf("trials_upside = %v, want 50", in.Figures["trials_upside"])
	}
}

func TestLostTrials(t *testing.T) {
	tests := []struct {
		name    string
		records []types.ShowRecord
		want    int
	}{
		{"none", nil, 0},
		{"tcr 35", []types.ShowRecord{{Trials: 100, TCR: 35}}, 6},
		{"tcr at threshold uses 29 baseline", []types.ShowRecord{{Trials: 100, TCR: 30}}, 1},
		{"below baseline", []types.ShowRecord{{Trials: 100, TCR: 20}}, 0},
		{"floored per show", []types.ShowRecord{{Trials: 10, TCR: 31.5}, {Trials: 10, TCR: 31.5}}, 0},
		{"summed", []types.ShowRecord{{Trials: 100, TCR: 35}, {Trials: 200, TCR: 39}}, 26},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LostTrials(tt.records); got != tt.want {
				t.Errorf("LostTrials() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestGenerate_RetentionPriority(t *testing.T) {
	tests := []struct {
		name string
		tcr  float64
		want types.Priority
	}{
		{"critical", 30, types.PriorityHigh},
		{"healthy", 29.9, types.PriorityLow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := []types.ShowRecord{rec("Kesar", types.ChannelMeta, types.PlatformApp, 20000, 100, tt.tcr)}
			in := find(t, Generate(records), KindRetention)
			if in.Priority != tt.want {
				t.Errorf("priority = %s, want %s", in.Priority, tt.want)
			}
		})
	}
}

func TestGenerate_PlatformMix(t *testing.T) {
	records := []types.ShowRecord{
		rec("Kesar", types.ChannelMeta, types.PlatformApp, 20000, 100, 20),
		rec("Kesar", types.ChannelMeta, types.PlatformWeb, 20000, 100, 20),
	}
	in := find(t, Generate(records), KindPlatformMix)
	if !strings.HasPrefix(in.Title, "Platform mix: Web") {
		t.Errorf("title = %q, want Web leading on a tie", in.Title)
	}
	if in.Priority != types.PriorityMedium {
		t.Errorf("priority = %s, want medium", in.Priority)
	}
	if in.Figures["uplift"] != 16 {
		t.Errorf("uplift = %v, want 16", in.Figures["uplift"])
	}
}

func TestRank(t *testing.T) {
	records := []types.ShowRecord{
		{Show: "B", Trials: 10},
		{Show: "A", Trials: 10, Channel: types.ChannelMeta},
		{Show: "A", Trials: 10, Channel: types.ChannelGoogle},
		{Show: "C", Trials: 50},
	}
	got := Rank(records)
	want := []string{"C/", "A/google", "A/meta", "B/"}
	for i, r := range got {
		if key := r.Show + "/" + string(r.Channel); key != want[i] {
			t.Errorf("Rank()[%d] = %s, want %s", i, key, want[i])
		}
	}
	if records[0].Show != "B" {
		t.Errorf("Rank mutated its input")
	}
}

func TestLakhs(t *testing.T) {
	if got := lakhs(1234567, 1); got != "₹12.3L" {
		t.Errorf("lakhs() = %q", got)
	}
	if got := lakhs(7400, 2); got != "₹0.07L" {
		t.Errorf("lakhs() = %q", got)
	}
}
