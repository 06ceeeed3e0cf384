package hoi4

import (
	"clausewitz-hq/almanac/pkg/projection"
	"clausewitz-hq/almanac/pkg/script/ast"
)

// Country is a history/countries file: the starting state of one nation.
type Country struct {
	Capital          uint16             `json:"capital"`
	OOB              string             `json:"oob"`
	ResearchSlots    uint8              `json:"research_slots"`
	Convoys          uint16             `json:"convoys"`
	Stability        float32            `json:"stability"`
	Politics         Politics           `json:"politics"`
	Popularities     Popularities       `json:"popularities"`
	Technology       []string           `json:"technology,omitempty"`
	Ideas            []string           `json:"ideas,omitempty"`
	Trains           uint16             `json:"trains"`
	WarSupport       float32            `json:"war_support"`
	CommandPower     uint16             `json:"command_power"`
	Ifs              []ast.Value        `json:"ifs,omitempty"`
	RecruitCharacter []string           `json:"recruit_character,omitempty"`
	Start1939        []ast.Value        `json:"start_1939,omitempty"`
	Equipment        []Equipment        `json:"equipment,omitempty"`
	Variables        []ast.Pair         `json:"variables,omitempty"`
	Leaders          []CountryLeader    `json:"leaders,omitempty"`
	Unknown          projection.Unknown `json:"unknown,omitempty"`
}

// Politics is the set_politics block.
type Politics struct {
	RulingParty       string             `json:"ruling_party"`
	LastElection      string             `json:"last_election"`
	ElectionFrequency uint8              `json:"election_frequency"`
	ElectionsAllowed  bool               `json:"elections_allowed"`
	Unknown           projection.Unknown `json:"unknown,omitempty"`
}

// Popularities is the set_popularities block, in percent.
type Popularities struct {
	Communism  uint8              `json:"communism"`
	Democracy  uint8              `json:"democracy"`
	Fascism    uint8              `json:"fascism"`
	Neutrality uint8              `json:"neutrality"`
	Unknown    projection.Unknown `json:"unknown,omitempty"`
}

// Equipment is one add_equipment_to_stockpile entry.
type Equipment struct {
	Name     string             `json:"name"`
	Amount   uint16             `json:"amount"`
	Producer string             `json:"producer"`
	Unknown  projection.Unknown `json:"unknown,omitempty"`
}

// CountryLeader is one create_country_leader entry.
type CountryLeader struct {
	Name     string             `json:"name"`
	Picture  string             `json:"picture"`
	Expire   string             `json:"expire"`
	Ideology string             `json:"ideology"`
	Desc     string             `json:"desc"`
	Traits   []string           `json:"traits,omitempty"`
	Unknown  projection.Unknown `json:"unknown,omitempty"`
}

var PoliticsSchema = projection.NewSchema("Politics",
	func(r *Politics) *projection.Unknown { return &r.Unknown },
	projection.Scalar("ruling_party", func(r *Politics, p ast.Pair, x *projection.Context) { r.RulingParty = x.String(p.Value) }),
	projection.Scalar("last_election", func(r *Politics, p ast.Pair, x *projection.Context) { r.LastElection = x.String(p.Value) }),
	projection.Scalar("election_frequency", func(r *Politics, p ast.Pair, x *projection.Context) {
		r.ElectionFrequency = x.Uint8(p.Value)
	}),
	projection.Scalar("elections_allowed", func(r *Politics, p ast.Pair, x *projection.Context) {
		r.ElectionsAllowed = x.Bool(p.Value)
	}),
)

var PopularitiesSchema = projection.NewSchema("Popularities",
	func(r *Popularities) *projection.Unknown { return &r.Unknown },
	projection.Scalar("communism", func(r *Popularities, p ast.Pair, x *projection.Context) { r.Communism = x.Uint8(p.Value) }),
	projection.Scalar("democratic", func(r *Popularities, p ast.Pair, x *projection.Context) { r.Democracy = x.Uint8(p.Value) }),
	projection.Scalar("fascism", func(r *Popularities, p ast.Pair, x *projection.Context) { r.Fascism = x.Uint8(p.Value) }),
	projection.Scalar("neutrality", func(r *Popularities, p ast.Pair, x *projection.Context) { r.Neutrality = x.Uint8(p.Value) }),
)

var EquipmentSchema = projection.NewSchema("Equipment",
	func(r *Equipment) *projection.Unknown { return &r.Unknown },
	projection.Scalar("type", func(r *Equipment, p ast.Pair, x *projection.Context) { r.Name = x.String(p.Value) }),
	projection.Scalar("amount", func(r *Equipment, p ast.Pair, x *projection.Context) { r.Amount = x.Uint16(p.Value) }),
	projection.Scalar("producer", func(r *Equipment, p ast.Pair, x *projection.Context) { r.Producer = x.String(p.Value) }),
)

var CountryLeaderSchema = projection.NewSchema("CountryLeader",
	func(r *CountryLeader) *projection.Unknown { return &r.Unknown },
	projection.Scalar("name", func(r *CountryLeader, p ast.Pair, x *projection.Context) { r.Name = x.String(p.Value) }),
	projection.Scalar("picture", func(r *CountryLeader, p ast.Pair, x *projection.Context) { r.Picture = x.String(p.Value) }),
	projection.Scalar("expire", func(r *CountryLeader, p ast.Pair, x *projection.Context) { r.Expire = x.String(p.Value) }),
	projection.Scalar("ideology", func(r *CountryLeader, p ast.Pair, x *projection.Context) { r.Ideology = x.String(p.Value) }),
	projection.Scalar("desc", func(r *CountryLeader, p ast.Pair, x *projection.Context) { r.Desc = x.String(p.Value) }),
	projection.Scalar("traits", func(r *CountryLeader, p ast.Pair, x *projection.Context) { r.Traits = x.StringList(p.Value) }),
)

var CountrySchema = projection.NewSchema("Country",
	func(r *Country) *projection.Unknown { return &r.Unknown },
	projection.Scalar("capital", func(r *Country, p ast.Pair, x *projection.Context) { r.Capital = x.Uint16(p.Value) }),
	projection.Scalar("oob", func(r *Country, p ast.Pair, x *projection.Context) { r.OOB = x.String(p.Value) }).
		Alias("OOB", "set_oob"),
	projection.Scalar("set_research_slots", func(r *Country, p ast.Pair, x *projection.Context) {
		r.ResearchSlots = x.Uint8(p.Value)
	}).Alias("add_research_slot"),
	projection.Scalar("set_convoys", func(r *Country, p ast.Pair, x *projection.Context) { r.Convoys = x.Uint16(p.Value) }),
	projection.Scalar("set_stability", func(r *Country, p ast.Pair, x *projection.Context) { r.Stability = x.Float32(p.Value) }),
	projection.Nested("set_politics", func(r *Country, p ast.Pair, x *projection.Context) {
		r.Politics = PoliticsSchema.ProjectValue(p.Value, x)
	}),
	projection.Nested("set_popularities", func(r *Country, p ast.Pair, x *projection.Context) {
		r.Popularities = PopularitiesSchema.ProjectValue(p.Value, x)
	}),
	projection.Scalar("set_technology", func(r *Country, p ast.Pair, x *projection.Context) {
		r.Technology = x.IdentifiersOfObject(p.Value)
	}),
	projection.List("add_ideas", func(r *Country, p ast.Pair, x *projection.Context) {
		r.Ideas = append(r.Ideas, x.StringList(p.Value)...)
	}),
	projection.Scalar("starting_train_buffer", func(r *Country, p ast.Pair, x *projection.Context) {
		r.Trains = x.Uint16(p.Value)
	}),
	projection.Scalar("set_war_support", func(r *Country, p ast.Pair, x *projection.Context) {
		r.WarSupport = x.Float32(p.Value)
	}),
	projection.Scalar("add_command_power", func(r *Country, p ast.Pair, x *projection.Context) {
		r.CommandPower = x.Uint16(p.Value)
	}),
	projection.List("if", func(r *Country, p ast.Pair, x *projection.Context) { r.Ifs = append(r.Ifs, p.Value) }).
		Alias("IF"),
	projection.List("recruit_character", func(r *Country, p ast.Pair, x *projection.Context) {
		r.RecruitCharacter = append(r.RecruitCharacter, x.String(p.Value))
	}),
	projection.List("1939.1.1", func(r *Country, p ast.Pair, x *projection.Context) {
		r.Start1939 = append(r.Start1939, p.Value)
	}),
	projection.Nested("add_equipment_to_stockpile", func(r *Country, p ast.Pair, x *projection.Context) {
		r.Equipment = append(r.Equipment, EquipmentSchema.ProjectValue(p.Value, x))
	}),
	projection.List("set_variable", func(r *Country, p ast.Pair, x *projection.Context) {
		r.Variables = append(r.Variables, p)
	}),
	projection.Nested("create_country_leader", func(r *Country, p ast.Pair, x *projection.Context) {
		r.Leaders = append(r.Leaders, CountryLeaderSchema.ProjectValue(p.Value, x))
	}),
)
