package hoi4

import (
	"strings"
	"testing"

	"clausewitz-hq/almanac/pkg/projection"
	"clausewitz-hq/almanac/pkg/script/ast"
	"clausewitz-hq/almanac/pkg/script/diag"
	"clausewitz-hq/almanac/pkg/script/parser"
)

func parse(t *testing.T, text string) []ast.Pair {
	t.Helper()
	pairs, err := parser.NewParser().ParseString(text, "test.txt")
	if err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}
	return pairs
}

func projectCountry(t *testing.T, text string) (Country, *diag.Collector) {
	t.Helper()
	collector := diag.NewCollector()
	c := CountrySchema.Project(parse(t, text), projection.NewContext(collector, "GER.txt"))
	return c, collector
}

const germany = `
capital = 64
oob = "GER_1936"
set_research_slots = 4
set_convoys = 50
set_stability = 0.6
set_war_support = 0.3
starting_train_buffer = 2

set_technology = {
	infantry_weapons = 1
	gw_artillery = 1
}

add_ideas = { war_economy closed_economy }
add_ideas = limited_conscription

set_politics = {
	ruling_party = fascism
	last_election = "1933.3.5"
	election_frequency = 48
	elections_allowed = no
}

set_popularities = {
	democratic = 14
	fascism = 72
	communism = 4
	neutrality = 10
}

recruit_character = GER_erwin_rommel
recruit_character = GER_heinz_guderian
recruit_character = GER_erich_von_manstein

add_equipment_to_stockpile = { type = infantry_equipment_1 amount = 500 producer = GER }
add_equipment_to_stockpile = { type = artillery_equipment_1 amount = 100 }

create_country_leader = {
	name = "Adolf Hitler"
	picture = "Portrait_Germany_Adolf_Hitler.dds"
	expire = "1965.1.1"
	ideology = nazism
	traits = { dictator }
}

set_variable = { var = ger_tension value = 1 }

if = { limit = { has_dlc = "Man the Guns" } set_naval_treaty = yes }
IF = { limit = { has_dlc = "Waking the Tiger" } }

1939.1.1 = { capital = 65 }
`

func TestCountrySchema_Germany(t *testing.T) {
	c, collector := projectCountry(t, germany)

	if c.Capital != 64 || c.OOB != "GER_1936" || c.ResearchSlots != 4 || c.Convoys != 50 {
		t.Errorf("scalars = capital %d, oob %q, slots %d, convoys %d", c.Capital, c.OOB, c.ResearchSlots, c.Convoys)
	}
	if c.Stability != float32(0.6) || c.WarSupport != float32(0.3) || c.Trains != 2 {
		t.Errorf("stability %v, war support %v, trains %d", c.Stability, c.WarSupport, c.Trains)
	}
	if got := strings.Join(c.Technology, ","); got != "infantry_weapons,gw_artillery" {
		t.Errorf("Technology = %s", got)
	}
	if got := strings.Join(c.Ideas, ","); got != "war_economy,closed_economy,limited_conscription" {
		t.Errorf("Ideas = %s", got)
	}

	p := c.Politics
	if p.RulingParty != "fascism" || p.LastElection != "1933.3.5" || p.ElectionFrequency != 48 || p.ElectionsAllowed {
		t.Errorf("Politics = %+v", p)
	}
	pop := c.Popularities
	if pop.Democracy != 14 || pop.Fascism != 72 || pop.Communism != 4 || pop.Neutrality != 10 {
		t.Errorf("Popularities = %+v", pop)
	}

	if len(c.Equipment) != 2 {
		t.Fatalf("len(Equipment) = %d, want 2", len(c.Equipment))
	}
	if e := c.Equipment[0]; e.Name != "infantry_equipment_1" || e.Amount != 500 || e.Producer != "GER" {
		t.Errorf("Equipment[0] = %+v", e)
	}
	if e := c.Equipment[1]; e.Name != "artillery_equipment_1" || e.Producer != "" {
		t.Errorf("Equipment[1] = %+v", e)
	}

	if len(c.Leaders) != 1 || c.Leaders[0].Name != "Adolf Hitler" || c.Leaders[0].Ideology != "nazism" {
		t.Errorf("Leaders = %+v", c.Leaders)
	}
	if len(c.Leaders) == 1 && strings.Join(c.Leaders[0].Traits, ",") != "dictator" {
		t.Errorf("Leaders[0].Traits = %v", c.Leaders[0].Traits)
	}

	if len(c.Variables) != 1 || c.Variables[0].Identifier != "set_variable" {
		t.Errorf("Variables = %v", c.Variables)
	}
	if len(c.Ifs) != 2 {
		t.Errorf("len(Ifs) = %d, want 2", len(c.Ifs))
	}
	if len(c.Start1939) != 1 {
		t.Errorf("len(Start1939) = %d, want 1", len(c.Start1939))
	}
	if len(c.Unknown) != 0 {
		t.Errorf("Unknown = %v, want empty", c.Unknown)
	}
	if collector.Len() != 0 {
		t.Errorf("diagnostics = %v, want none", collector.All())
	}
}

func TestCountrySchema_AliasUnification(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"oob", `oob = "A"`, "A"},
		{"OOB", `OOB = "B"`, "B"},
		{"set_oob", `set_oob = "C"`, "C"},
		{"last wins", `oob = "A" set_oob = "C"`, "C"},
		{"last wins reversed", `set_oob = "C" OOB = "B"`, "B"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := projectCountry(t, tt.text)
			if c.OOB != tt.want {
				t.Errorf("OOB = %q, want %q", c.OOB, tt.want)
			}
			if len(c.Unknown) != 0 {
				t.Errorf("Unknown = %v, want empty", c.Unknown)
			}
		})
	}
}

func TestCountrySchema_Accumulation(t *testing.T) {
	c, _ := projectCountry(t, `
recruit_character = A
capital = 1
recruit_character = B
recruit_character = C
`)
	if got := strings.Join(c.RecruitCharacter, ","); got != "A,B,C" {
		t.Errorf("RecruitCharacter = %s, want A,B,C", got)
	}
}

func TestCountrySchema_UnknownCapture(t *testing.T) {
	c, collector := projectCountry(t, "capital = 64\ntotally_unknown_field = 42")

	if !ast.Equal(c.Unknown["totally_unknown_field"], ast.Number(42)) {
		t.Errorf("Unknown = %v", c.Unknown)
	}
	unknown := collector.ByCode(diag.CodeUnknownIdentifier)
	if len(unknown) != 1 {
		t.Fatalf("unknown diagnostics = %d, want 1", len(unknown))
	}
	if unknown[0].Record != "Country" || unknown[0].Severity != diag.SeverityDebug {
		t.Errorf("diagnostic = %+v", unknown[0])
	}
}

func TestCountrySchema_Suggestion(t *testing.T) {
	_, collector := projectCountry(t, "captial = 64")

	unknown := collector.ByCode(diag.CodeUnknownIdentifier)
	if len(unknown) != 1 {
		t.Fatalf("unknown diagnostics = %d, want 1", len(unknown))
	}
	if !strings.Contains(unknown[0].Suggestion, "capital") {
		t.Errorf("Suggestion = %q, want capital", unknown[0].Suggestion)
	}
}

func TestCountrySchema_NestedDefaults(t *testing.T) {
	c, collector := projectCountry(t, `
set_politics = fascism
set_popularities = { democratic = 400 }
`)

	if c.Politics.RulingParty != "" || c.Politics.ElectionsAllowed {
		t.Errorf("Politics = %+v, want zero", c.Politics)
	}
	if n := len(collector.ByCode(diag.CodeStructuralMismatch)); n != 1 {
		t.Errorf("structural diagnostics = %d, want 1", n)
	}
	if c.Popularities.Democracy != 255 {
		t.Errorf("Democracy = %d, want saturated 255", c.Popularities.Democracy)
	}
	if n := len(collector.ByCode(diag.CodeCoercionFallback)); n != 1 {
		t.Errorf("coercion diagnostics = %d, want 1", n)
	}
}

func TestCountrySchema_Fallbacks(t *testing.T) {
	c, collector := projectCountry(t, `
capital = "sixty-four"
set_stability = high
set_politics = { elections_allowed = maybe }
`)

	if c.Capital != 0 || c.Stability != 0 || c.Politics.ElectionsAllowed {
		t.Errorf("fallbacks = capital %d, stability %v, elections %v", c.Capital, c.Stability, c.Politics.ElectionsAllowed)
	}
	if n := len(collector.ByCode(diag.CodeCoercionFallback)); n != 3 {
		t.Errorf("coercion diagnostics = %d, want 3", n)
	}
}
