// Package svg builds a minimal vector-graphics document: Circle, Polyline
// and Text primitives with chained attribute setters, collected into a
// Document that renders to the XML subset spec.md §6 requires.
//
// This is the "low-level vector-graphics element serializer" spec.md §1
// scopes outside the core — grounded line-for-line on the original svg.h /
// svg.cpp (PathProps<Owner> fluent setters, ColorPrinter, Text escaping),
// ported to Go's pointer-receiver chaining idiom (each Set* method returns
// its receiver).
package svg

import (
	"fmt"
	"strings"
)

// Point is a projected canvas coordinate.
type Point struct {
	X, Y float64
}

// StrokeLineCap mirrors svg's stroke-linecap values actually used here.
type StrokeLineCap string

const (
	CapRound StrokeLineCap = "round"
)

// StrokeLineJoin mirrors svg's stroke-linejoin values actually used here.
type StrokeLineJoin string

const (
	JoinRound StrokeLineJoin = "round"
)

// pathProps holds the attributes shared by every primitive. Embedding it
// gives each primitive type these fields without repeating them; each type
// declares its own Set* methods so the chain keeps its concrete type.
type pathProps struct {
	fill        Color
	stroke      Color
	strokeWidth *float64
	lineCap     StrokeLineCap
	lineJoin    StrokeLineJoin
}

func (p *pathProps) renderAttrs(sb *strings.Builder) {
	if p.fill.IsSet() {
		fmt.Fprintf(sb, ` fill="%s"`, p.fill.String())
	}
	if p.stroke.IsSet() {
		fmt.Fprintf(sb, ` stroke="%s"`, p.stroke.String())
	}
	if p.strokeWidth != nil {
		fmt.Fprintf(sb, ` stroke-width="%s"`, formatNumber(*p.strokeWidth))
	}
	if p.lineCap != "" {
		fmt.Fprintf(sb, ` stroke-linecap="%s"`, p.lineCap)
	}
	if p.lineJoin != "" {
		fmt.Fprintf(sb, ` stroke-linejoin="%s"`, p.lineJoin)
	}
}

// Circle is an SVG <circle>.
type Circle struct {
	pathProps
	center Point
	radius float64
}

func NewCircle() *Circle { return &Circle{radius: 1} }

func (c *Circle) SetCenter(p Point) *Circle         { c.center = p; return c }
func (c *Circle) SetRadius(r float64) *Circle       { c.radius = r; return c }
func (c *Circle) SetFillColor(col Color) *Circle    { c.fill = col; return c }
func (c *Circle) SetStrokeColor(col Color) *Circle  { c.stroke = col; return c }
func (c *Circle) SetStrokeWidth(w float64) *Circle  { c.strokeWidth = &w; return c }

func (c *Circle) render(sb *strings.Builder) {
	fmt.Fprintf(sb, `<circle cx="%s" cy="%s" r="%s"`,
		formatNumber(c.center.X), formatNumber(c.center.Y), formatNumber(c.radius))
	c.renderAttrs(sb)
	sb.WriteString("/>")
}

// Polyline is an SVG <polyline>.
type Polyline struct {
	pathProps
	points []Point
}

func NewPolyline() *Polyline { return &Polyline{} }

func (p *Polyline) AddPoint(pt Point) *Polyline         { p.points = append(p.points, pt); return p }
func (p *Polyline) SetFillColor(col Color) *Polyline    { p.fill = col; return p }
func (p *Polyline) SetStrokeColor(col Color) *Polyline  { p.stroke = col; return p }
func (p *Polyline) SetStrokeWidth(w float64) *Polyline  { p.strokeWidth = &w; return p }
func (p *Polyline) SetStrokeLineCap(c StrokeLineCap) *Polyline   { p.lineCap = c; return p }
func (p *Polyline) SetStrokeLineJoin(j StrokeLineJoin) *Polyline { p.lineJoin = j; return p }

func (p *Polyline) render(sb *strings.Builder) {
	sb.WriteString(`<polyline points="`)
	for i, pt := range p.points {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(sb, "%s,%s", formatNumber(pt.X), formatNumber(pt.Y))
	}
	sb.WriteString(`"`)
	p.renderAttrs(sb)
	sb.WriteString("/>")
}

// Text is an SVG <text>.
type Text struct {
	pathProps
	pos        Point
	offset     Point
	fontSize   int
	fontFamily string
	fontWeight string
	data       string
}

func NewText() *Text { return &Text{fontSize: 1} }

func (t *Text) SetPosition(p Point) *Text         { t.pos = p; return t }
func (t *Text) SetOffset(p Point) *Text           { t.offset = p; return t }
func (t *Text) SetFontSize(size int) *Text        { t.fontSize = size; return t }
func (t *Text) SetFontFamily(family string) *Text { t.fontFamily = family; return t }
func (t *Text) SetFontWeight(weight string) *Text { t.fontWeight = weight; return t }
func (t *Text) SetData(data string) *Text         { t.data = data; return t }
func (t *Text) SetFillColor(col Color) *Text       { t.fill = col; return t }
func (t *Text) SetStrokeColor(col Color) *Text     { t.stroke = col; return t }
func (t *Text) SetStrokeWidth(w float64) *Text     { t.strokeWidth = &w; return t }
func (t *Text) SetStrokeLineCap(c StrokeLineCap) *Text   { t.lineCap = c; return t }
func (t *Text) SetStrokeLineJoin(j StrokeLineJoin) *Text { t.lineJoin = j; return t }

func (t *Text) render(sb *strings.Builder) {
	fmt.Fprintf(sb, `<text x="%s" y="%s" dx="%s" dy="%s" font-size="%d"`,
		formatNumber(t.pos.X), formatNumber(t.pos.Y),
		formatNumber(t.offset.X), formatNumber(t.offset.Y), t.fontSize)
	if t.fontFamily != "" {
		fmt.Fprintf(sb, ` font-family="%s"`, t.fontFamily)
	}
	if t.fontWeight != "" {
		fmt.Fprintf(sb, ` font-weight="%s"`, t.fontWeight)
	}
	t.renderAttrs(sb)
	sb.WriteString(">")
	sb.WriteString(escapeText(t.data))
	sb.WriteString("</text>")
}

// element is anything Document can hold; each primitive renders itself.
type element interface {
	render(sb *strings.Builder)
}

// Document is an ordered collection of SVG elements. Elements render in the
// order they were added — §4.5/§5 require this to determine z-order.
type Document struct {
	elements []element
}

func NewDocument() *Document { return &Document{} }

func (d *Document) Add(e element) { d.elements = append(d.elements, e) }

// Render serializes the document, beginning with the XML header and the
// <svg> root, per spec.md §6.
func (d *Document) Render() string {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8" ?>`)
	sb.WriteString("\n")
	sb.WriteString(`<svg xmlns="http://www.w3.org/2000/svg" version="1.1">`)
	for _, e := range d.elements {
		e.render(&sb)
	}
	sb.WriteString("</svg>")
	return sb.String()
}

var textEscaper = strings.NewReplacer(
	`&`, "&amp;",
	`"`, "&quot;",
	`'`, "&apos;",
	"`", "&#96;",
	`<`, "&lt;",
	`>`, "&gt;",
)

// escapeText escapes the reserved characters spec.md §6 lists and trims
// leading/trailing spaces.
func escapeText(s string) string {
	return textEscaper.Replace(strings.TrimSpace(s))
}

// formatNumber renders a float without a trailing ".0" for whole numbers,
// matching the compact numeric style of hand-written SVG documents.
func formatNumber(f float64) string {
	s := fmt.Sprintf("%g", f)
	return s
}
