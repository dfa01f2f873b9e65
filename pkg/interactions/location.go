package interactions

import (
	"fmt"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// Location returns the top-left corner of el's border box in the
// coordinates of el's own document (client rect plus scroll offset),
// rounded to whole pixels.
func Location(el *rod.Element) (Point, error) {
	res, err := el.Eval(`() => {
		const r = this.getBoundingClientRect();
		return {
			x: Math.round(r.left + window.pageXOffset),
			y: Math.round(r.top + window.pageYOffset)
		};
	}`)
	if err != nil {
		return Point{}, fmt.Errorf("failed to get element location: %w", err)
	}
	return Point{X: res.Value.Get("x").Int(), Y: res.Value.Get("y").Int()}, nil
}

// Size returns the rounded width and height of el's border box.
func Size(el *rod.Element) (width, height int, err error) {
	res, err := el.Eval(`() => {
		const r = this.getBoundingClientRect();
		return {w: Math.round(r.width), h: Math.round(r.height)};
	}`)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to get element size: %w", err)
	}
	return res.Value.Get("w").Int(), res.Value.Get("h").Int(), nil
}

// Center returns the midpoint of el's content quads in top-level viewport
// coordinates, which is where the pointer lands when moving to el.
func Center(el *rod.Element) (proto.Point, error) {
	shape, err := el.Shape()
	if err != nil {
		return proto.Point{}, fmt.Errorf("failed to get element shape: %w", err)
	}
	box := shape.Box()
	if box == nil {
		return proto.Point{}, ErrNoElement
	}
	return Rect{X: box.X, Y: box.Y, Width: box.Width, Height: box.Height}.Center(), nil
}

// documentArea returns the scrollable extent of page's document in its
// viewport coordinates.
func documentArea(page *rod.Page) (Rect, error) {
	res, err := page.Eval(`() => {
		const d = document.documentElement;
		const b = document.body;
		return {
			x: -window.scrollX,
			y: -window.scrollY,
			w: Math.max(d.scrollWidth, b ? b.scrollWidth : 0, window.innerWidth),
			h: Math.max(d.scrollHeight, b ? b.scrollHeight : 0, window.innerHeight)
		};
	}`)
	if err != nil {
		return Rect{}, fmt.Errorf("failed to measure document: %w", err)
	}
	v := res.Value
	return Rect{X: v.Get("x").Num(), Y: v.Get("y").Num(), Width: v.Get("w").Num(), Height: v.Get("h").Num()}, nil
}

// scrollArea returns the union of the content extents of every scroll
// container enclosing el, including el's own document, translated into
// top-level viewport coordinates.
func scrollArea(el *rod.Element) (Rect, error) {
	res, err := el.Eval(`() => {
		const r = this.getBoundingClientRect();
		const out = {cx: r.left + r.width / 2, cy: r.top + r.height / 2, areas: []};
		for (let n = this.parentElement; n; n = n.parentElement) {
			const s = getComputedStyle(n);
			if (!/(auto|scroll|hidden)/.test(s.overflow + s.overflowX + s.overflowY)) {
				continue;
			}
			const b = n.getBoundingClientRect();
			out.areas.push({
				x: b.left + n.clientLeft - n.scrollLeft,
				y: b.top + n.clientTop - n.scrollTop,
				w: n.scrollWidth,
				h: n.scrollHeight
			});
		}
		const d = document.documentElement;
		const body = document.body;
		out.areas.push({
			x: -window.scrollX,
			y: -window.scrollY,
			w: Math.max(d.scrollWidth, body ? body.scrollWidth : 0, window.innerWidth),
			h: Math.max(d.scrollHeight, body ? body.scrollHeight : 0, window.innerHeight)
		});
		return out;
	}`)
	if err != nil {
		return Rect{}, fmt.Errorf("failed to measure scroll containers: %w", err)
	}

	// Client coordinates are relative to el's frame; the quad centre is in
	// top-level viewport coordinates. Their difference is the frame offset.
	center, err := Center(el)
	if err != nil {
		return Rect{}, err
	}
	dx := center.X - res.Value.Get("cx").Num()
	dy := center.Y - res.Value.Get("cy").Num()

	var area Rect
	for _, a := range res.Value.Get("areas").Arr() {
		r := Rect{X: a.Get("x").Num(), Y: a.Get("y").Num(), Width: a.Get("w").Num(), Height: a.Get("h").Num()}
		area = area.Union(r.Translate(dx, dy))
	}
	return area, nil
}
