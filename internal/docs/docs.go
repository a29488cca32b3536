// Package docs holds the preloaded Pine Script v6 reference material the
// reference index (internal/refindex) searches over. Real deployments
// would load this from a generated JSON blob shipped alongside the
// binary; the compiled-in set here covers the functions the rule
// catalog itself knows about plus enough surrounding material to make
// lookup meaningful.
package docs

// Entry is one documentation record.
type Entry struct {
	Title         string   `json:"title"`
	Tags          []string `json:"tags"`
	Summary       string   `json:"summary"`
	Content       string   `json:"content"`
	Examples      []string `json:"examples,omitempty"`
	CanonicalName string   `json:"canonical_name,omitempty"`
}

// Default returns the compiled-in documentation set.
func Default() []Entry {
	return []Entry{
		{
			Title:   "indicator",
			Tags:    []string{"declaration", "indicator", "overlay"},
			Summary: "Declares a script as an indicator and sets its display properties.",
			Content: "indicator(title, shorttitle, overlay, format, precision, scale, max_bars_back, max_lines_count, max_labels_count, max_boxes_count, max_polylines_count). shorttitle is capped at 10 characters. precision must be an integer in [0, 8]. max_bars_back must be an integer in [1, 5000]. Drawing object counts (lines, labels, boxes, polylines) must be integers in [1, 500].",
		},
		{
			Title:   "strategy",
			Tags:    []string{"declaration", "strategy", "backtest"},
			Summary: "Declares a script as a strategy, sharing indicator's display and drawing-object constraints.",
			Content: "strategy(title, shorttitle, overlay, format, precision, scale, pyramiding, calc_on_order_fills, calc_on_every_tick, max_bars_back, max_lines_count, max_labels_count, max_boxes_count, max_polylines_count). Carries the same shorttitle length cap and drawing-object range constraints as indicator.",
		},
		{
			Title:         "ta.macd",
			Tags:          []string{"ta", "moving average", "oscillator", "momentum"},
			Summary:       "Moving Average Convergence Divergence indicator.",
			Content:       "ta.macd(source, fast_length, slow_length, signal_length) returns [macdLine, signalLine, histLine]. fast_length, slow_length, and signal_length must be simple int, not series expressions.",
			Examples:      []string{"[macdLine, signalLine, histLine] = ta.macd(close, 12, 26, 9)"},
			CanonicalName: "ta.macd",
		},
		{
			Title:   "table.cell",
			Tags:    []string{"table", "drawing", "display"},
			Summary: "Defines the content and formatting of one table cell.",
			Content: "table.cell(table_id, column, row, text, width, height, text_color, text_halign, text_valign, text_size, bgcolor). The legacy parameter names textColor, textHAlign, textVAlign, and textSize are deprecated in favor of their snake_case equivalents.",
		},
		{
			Title:   "ta.sma",
			Tags:    []string{"ta", "moving average"},
			Summary: "Simple moving average.",
			Content: "ta.sma(source, length) returns the arithmetic mean of source over the last length bars.",
		},
		{
			Title:   "plot",
			Tags:    []string{"drawing", "plot", "display"},
			Summary: "Plots a series on the chart.",
			Content: "plot(series, title, color, linewidth, style, trackprice, histbase, offset, join, editable, show_last, display, format, precision, force_overlay).",
		},
		{
			Title:   "type",
			Tags:    []string{"udt", "declaration", "syntax"},
			Summary: "Declares a user-defined type (UDT).",
			Content: "type Name\\n    fieldType fieldName\\n... declares a UDT. Fields may be qualified simple to opt out of series semantics. History access on a UDT's field must wrap the object first: (obj[n]).field, not obj.field[n].",
		},
		{
			Title:   "line continuation",
			Tags:    []string{"syntax", "ternary", "line break"},
			Summary: "Rules for continuing an expression onto the next line.",
			Content: "A line break is only a legal continuation inside an open bracket, or immediately after an operator that still expects a right operand. A bare line break after the ternary ? operator outside brackets is invalid.",
		},
	}
}
