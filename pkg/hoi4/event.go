package hoi4

import (
	"clausewitz-hq/almanac/pkg/projection"
	"clausewitz-hq/almanac/pkg/script/ast"
)

// Event is one events file. Country events are kept as raw values; news
// events are projected.
type Event struct {
	Namespaces    []string           `json:"namespaces,omitempty"`
	CountryEvents []ast.Value        `json:"country_events,omitempty"`
	NewsEvents    []NewsEvent        `json:"news_events,omitempty"`
	Unknown       projection.Unknown `json:"unknown,omitempty"`
}

// NewsEvent is a news_event block.
type NewsEvent struct {
	ID              string             `json:"id"`
	Title           string             `json:"title"`
	Desc            string             `json:"desc"`
	Picture         string             `json:"picture"`
	Major           bool               `json:"major"`
	IsTriggeredOnly bool               `json:"is_triggered_only"`
	Options         []NewsEventOption  `json:"options,omitempty"`
	Trigger         ast.Value          `json:"trigger,omitempty"`
	Ifs             []ast.Value        `json:"ifs,omitempty"`
	Unknown         projection.Unknown `json:"unknown,omitempty"`
}

// NewsEventOption is one option of a news event.
type NewsEventOption struct {
	Name         string             `json:"name"`
	Desc         string             `json:"desc"`
	Log          string             `json:"log"`
	HiddenEffect ast.Value          `json:"hidden_effect,omitempty"`
	Trigger      ast.Value          `json:"trigger,omitempty"`
	Unknown      projection.Unknown `json:"unknown,omitempty"`
}

var NewsEventOptionSchema = projection.NewSchema("NewsEventOption",
	func(r *NewsEventOption) *projection.Unknown { return &r.Unknown },
	projection.Scalar("name", func(r *NewsEventOption, p ast.Pair, x *projection.Context) { r.Name = x.String(p.Value) }),
	projection.Scalar("desc", func(r *NewsEventOption, p ast.Pair, x *projection.Context) { r.Desc = x.String(p.Value) }),
	projection.Scalar("log", func(r *NewsEventOption, p ast.Pair, x *projection.Context) { r.Log = x.String(p.Value) }),
	projection.Scalar("hidden_effect", func(r *NewsEventOption, p ast.Pair, x *projection.Context) { r.HiddenEffect = p.Value }),
	projection.Scalar("trigger", func(r *NewsEventOption, p ast.Pair, x *projection.Context) { r.Trigger = p.Value }),
)

var NewsEventSchema = projection.NewSchema("NewsEvent",
	func(r *NewsEvent) *projection.Unknown { return &r.Unknown },
	projection.Scalar("id", func(r *NewsEvent, p ast.Pair, x *projection.Context) { r.ID = x.String(p.Value) }),
	projection.Scalar("title", func(r *NewsEvent, p ast.Pair, x *projection.Context) { r.Title = x.String(p.Value) }),
	projection.Scalar("desc", func(r *NewsEvent, p ast.Pair, x *projection.Context) { r.Desc = x.String(p.Value) }),
	projection.Scalar("picture", func(r *NewsEvent, p ast.Pair, x *projection.Context) { r.Picture = x.String(p.Value) }),
	projection.Scalar("major", func(r *NewsEvent, p ast.Pair, x *projection.Context) { r.Major = x.Bool(p.Value) }),
	projection.Scalar("is_triggered_only", func(r *NewsEvent, p ast.Pair, x *projection.Context) {
		r.IsTriggeredOnly = x.Bool(p.Value)
	}),
	projection.Nested("option", func(r *NewsEvent, p ast.Pair, x *projection.Context) {
		r.Options = append(r.Options, NewsEventOptionSchema.ProjectValue(p.Value, x))
	}),
	projection.Scalar("trigger", func(r *NewsEvent, p ast.Pair, x *projection.Context) { r.Trigger = p.Value }),
	projection.List("if", func(r *NewsEvent, p ast.Pair, x *projection.Context) { r.Ifs = append(r.Ifs, p.Value) }),
)

var EventSchema = projection.NewSchema("Event",
	func(r *Event) *projection.Unknown { return &r.Unknown },
	projection.List("add_namespace", func(r *Event, p ast.Pair, x *projection.Context) {
		r.Namespaces = append(r.Namespaces, x.String(p.Value))
	}),
	projection.List("country_event", func(r *Event, p ast.Pair, x *projection.Context) {
		r.CountryEvents = append(r.CountryEvents, p.Value)
	}),
	projection.Nested("news_event", func(r *Event, p ast.Pair, x *projection.Context) {
		r.NewsEvents = append(r.NewsEvents, NewsEventSchema.ProjectValue(p.Value, x))
	}),
)
