// Package render draws the module tree of a composed card.
package render

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"

	"github.com/chazu/pixelcard/pkg/graph"
)

// DOT returns the module tree below root in Graphviz DOT syntax.
func DOT(g *graph.Graph, root graph.NodeID) (string, error) {
	var buf bytes.Buffer
	if err := g.WriteDOT(&buf, root); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// SVG renders the module tree below root with Graphviz's dot layout.
func SVG(ctx context.Context, g *graph.Graph, root graph.NodeID) ([]byte, error) {
	dot, err := DOT(g, root)
	if err != nil {
		return nil, err
	}
	return RenderSVG(ctx, dot)
}

// RenderSVG renders a DOT document to SVG.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	gr, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer gr.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, gr, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
