package hoi4

import (
	"clausewitz-hq/almanac/pkg/projection"
	"clausewitz-hq/almanac/pkg/script/ast"
)

// FocusTreeBase is one common/national_focus file.
type FocusTreeBase struct {
	FocusTrees        []FocusTree        `json:"focus_trees,omitempty"`
	SharedFocuses     []ast.Value        `json:"shared_focuses,omitempty"`
	SearchFilterPrios []ast.Value        `json:"search_filter_prios,omitempty"`
	JointFocuses      []ast.Value        `json:"joint_focuses,omitempty"`
	Styles            []ast.Value        `json:"styles,omitempty"`
	Unknown           projection.Unknown `json:"unknown,omitempty"`
}

// FocusTree is a focus_tree block.
type FocusTree struct {
	ID                      string             `json:"id"`
	Country                 ast.Value          `json:"country,omitempty"`
	Default                 bool               `json:"default"`
	InitialShowPosition     ast.Value          `json:"initial_show_position,omitempty"`
	ContinuousFocusPosition ast.Value          `json:"continuous_focus_position,omitempty"`
	Focuses                 []Focus            `json:"focuses,omitempty"`
	SharedFocuses           []string           `json:"shared_focuses,omitempty"`
	ResetOnCivilWar         bool               `json:"reset_on_civilwar"`
	Unknown                 projection.Unknown `json:"unknown,omitempty"`
}

// Focus is one national focus.
type Focus struct {
	ID                     string             `json:"id"`
	Icon                   string             `json:"icon"`
	X                      int32              `json:"x"`
	Y                      int32              `json:"y"`
	Cost                   uint8              `json:"cost"`
	Available              ast.Value          `json:"available,omitempty"`
	AIWillDo               ast.Value          `json:"ai_will_do,omitempty"`
	CompletionReward       ast.Value          `json:"completion_reward,omitempty"`
	Prerequisite           []ast.Value        `json:"prerequisite,omitempty"`
	AllowBranch            ast.Value          `json:"allow_branch,omitempty"`
	Offset                 []ast.Value        `json:"offset,omitempty"`
	MutuallyExclusive      []ast.Value        `json:"mutually_exclusive,omitempty"`
	CompleteTooltip        ast.Value          `json:"complete_tooltip,omitempty"`
	Cancel                 ast.Value          `json:"cancel,omitempty"`
	Bypass                 ast.Value          `json:"bypass,omitempty"`
	SearchFilters          []string           `json:"search_filters,omitempty"`
	AvailableIfCapitulated bool               `json:"available_if_capitulated"`
	ContinueIfInvalid      bool               `json:"continue_if_invalid"`
	CancelIfInvalid        bool               `json:"cancel_if_invalid"`
	Dynamic                bool               `json:"dynamic"`
	Cancelable             bool               `json:"cancelable"`
	RelativePositionID     string             `json:"relative_position_id,omitempty"`
	WillLeadToWarWith      string             `json:"will_lead_to_war_with,omitempty"`
	Text                   string             `json:"text,omitempty"`
	SelectEffect           []ast.Value        `json:"select_effect,omitempty"`
	HistoricalAI           []ast.Value        `json:"historical_ai,omitempty"`
	Unknown                projection.Unknown `json:"unknown,omitempty"`
}

// raw stores the value unchanged.
func raw[R any](set func(*R, ast.Value)) projection.ApplyFunc[R] {
	return func(r *R, p ast.Pair, _ *projection.Context) { set(r, p.Value) }
}

var FocusSchema = projection.NewSchema("Focus",
	func(r *Focus) *projection.Unknown { return &r.Unknown },
	projection.Scalar("id", func(r *Focus, p ast.Pair, x *projection.Context) { r.ID = x.String(p.Value) }),
	projection.Scalar("icon", func(r *Focus, p ast.Pair, x *projection.Context) { r.Icon = x.String(p.Value) }),
	projection.Scalar("x", func(r *Focus, p ast.Pair, x *projection.Context) { r.X = x.Int32(p.Value) }),
	projection.Scalar("y", func(r *Focus, p ast.Pair, x *projection.Context) { r.Y = x.Int32(p.Value) }),
	projection.Scalar("cost", func(r *Focus, p ast.Pair, x *projection.Context) { r.Cost = x.Uint8(p.Value) }),
	projection.Scalar("available", raw(func(r *Focus, v ast.Value) { r.Available = v })),
	projection.Scalar("ai_will_do", raw(func(r *Focus, v ast.Value) { r.AIWillDo = v })),
	projection.Scalar("completion_reward", raw(func(r *Focus, v ast.Value) { r.CompletionReward = v })),
	projection.List("prerequisite", raw(func(r *Focus, v ast.Value) { r.Prerequisite = append(r.Prerequisite, v) })),
	projection.Scalar("allow_branch", raw(func(r *Focus, v ast.Value) { r.AllowBranch = v })),
	projection.List("offset", raw(func(r *Focus, v ast.Value) { r.Offset = append(r.Offset, v) })),
	projection.List("mutually_exclusive", raw(func(r *Focus, v ast.Value) {
		r.MutuallyExclusive = append(r.MutuallyExclusive, v)
	})),
	projection.Scalar("complete_tooltip", raw(func(r *Focus, v ast.Value) { r.CompleteTooltip = v })),
	projection.Scalar("cancel", raw(func(r *Focus, v ast.Value) { r.Cancel = v })),
	projection.Scalar("bypass", raw(func(r *Focus, v ast.Value) { r.Bypass = v })).Alias("Bypass"),
	projection.Scalar("search_filters", func(r *Focus, p ast.Pair, x *projection.Context) {
		r.SearchFilters = x.StringList(p.Value)
	}),
	projection.Scalar("available_if_capitulated", func(r *Focus, p ast.Pair, x *projection.Context) {
		r.AvailableIfCapitulated = x.Bool(p.Value)
	}),
	projection.Scalar("continue_if_invalid", func(r *Focus, p ast.Pair, x *projection.Context) {
		r.ContinueIfInvalid = x.Bool(p.Value)
	}),
	projection.Scalar("cancel_if_invalid", func(r *Focus, p ast.Pair, x *projection.Context) {
		r.CancelIfInvalid = x.Bool(p.Value)
	}),
	projection.Scalar("dynamic", func(r *Focus, p ast.Pair, x *projection.Context) { r.Dynamic = x.Bool(p.Value) }),
	projection.Scalar("cancelable", func(r *Focus, p ast.Pair, x *projection.Context) { r.Cancelable = x.Bool(p.Value) }),
	projection.Scalar("relative_position_id", func(r *Focus, p ast.Pair, x *projection.Context) {
		r.RelativePositionID = x.String(p.Value)
	}),
	projection.Scalar("will_lead_to_war_with", func(r *Focus, p ast.Pair, x *projection.Context) {
		r.WillLeadToWarWith = x.String(p.Value)
	}),
	projection.Scalar("text", func(r *Focus, p ast.Pair, x *projection.Context) { r.Text = x.String(p.Value) }),
	projection.List("select_effect", raw(func(r *Focus, v ast.Value) { r.SelectEffect = append(r.SelectEffect, v) })),
	projection.List("historical_ai", raw(func(r *Focus, v ast.Value) { r.HistoricalAI = append(r.HistoricalAI, v) })),
)

var FocusTreeSchema = projection.NewSchema("FocusTree",
	func(r *FocusTree) *projection.Unknown { return &r.Unknown },
	projection.Scalar("id", func(r *FocusTree, p ast.Pair, x *projection.Context) { r.ID = x.String(p.Value) }),
	projection.Scalar("country", raw(func(r *FocusTree, v ast.Value) { r.Country = v })),
	projection.Scalar("default", func(r *FocusTree, p ast.Pair, x *projection.Context) { r.Default = x.Bool(p.Value) }),
	projection.Scalar("initial_show_position", raw(func(r *FocusTree, v ast.Value) { r.InitialShowPosition = v })),
	projection.Scalar("continuous_focus_position", raw(func(r *FocusTree, v ast.Value) {
		r.ContinuousFocusPosition = v
	})),
	projection.Nested("focus", func(r *FocusTree, p ast.Pair, x *projection.Context) {
		r.Focuses = append(r.Focuses, FocusSchema.ProjectValue(p.Value, x))
	}),
	projection.List("shared_focus", func(r *FocusTree, p ast.Pair, x *projection.Context) {
		r.SharedFocuses = append(r.SharedFocuses, x.String(p.Value))
	}),
	projection.Scalar("reset_on_civilwar", func(r *FocusTree, p ast.Pair, x *projection.Context) {
		r.ResetOnCivilWar = x.Bool(p.Value)
	}),
)

var FocusTreeBaseSchema = projection.NewSchema("FocusTreeBase",
	func(r *FocusTreeBase) *projection.Unknown { return &r.Unknown },
	projection.Nested("focus_tree", func(r *FocusTreeBase, p ast.Pair, x *projection.Context) {
		r.FocusTrees = append(r.FocusTrees, FocusTreeSchema.ProjectValue(p.Value, x))
	}),
	projection.List("shared_focus", raw(func(r *FocusTreeBase, v ast.Value) {
		r.SharedFocuses = append(r.SharedFocuses, v)
	})),
	projection.List("search_filter_prios", raw(func(r *FocusTreeBase, v ast.Value) {
		r.SearchFilterPrios = append(r.SearchFilterPrios, v)
	})),
	projection.List("joint_focus", raw(func(r *FocusTreeBase, v ast.Value) {
		r.JointFocuses = append(r.JointFocuses, v)
	})),
	projection.List("style", raw(func(r *FocusTreeBase, v ast.Value) { r.Styles = append(r.Styles, v) })),
)
