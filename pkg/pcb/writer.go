package pcb

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"

	perr "github.com/chazu/pixelcard/pkg/errors"
)

// FormatVersion is the KiCad board file version written.
const FormatVersion = "20221018"

// namespace seeds the name-based UUIDs of board items, so rewriting an
// unchanged board yields an identical file.
var namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/chazu/pixelcard"))

func itemUUID(kind string, i int, key string) string {
	return uuid.NewSHA1(namespace, []byte(fmt.Sprintf("%s/%d/%s", kind, i, key))).String()
}

// KiCadWriter writes boards as .kicad_pcb files. The output is parsed back
// before it is written, so a malformed board never reaches disk.
type KiCadWriter struct {
	Path      string    // destination file; ignored when Out is set
	Out       io.Writer // optional destination
	Generator string
}

// Transform encodes b and writes it.
func (w *KiCadWriter) Transform(ctx context.Context, b *Board) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s := Encode(b, w.Generator)
	if err := verify("board", s); err != nil {
		return err
	}
	if w.Out != nil {
		_, err := io.WriteString(w.Out, s)
		return err
	}
	if err := os.WriteFile(w.Path, []byte(s), 0o644); err != nil {
		return perr.Wrap(perr.ErrCodeExternalService, err, "write board %s", w.Path)
	}
	return nil
}

// Encode renders b as a KiCad board s-expression.
func Encode(b *Board, generator string) string {
	if generator == "" {
		generator = "pixelcard"
	}
	root := list("kicad_pcb",
		list("version", FormatVersion),
		list("generator", quote(generator)),
		list("general", list("thickness", "1.6")),
		list("paper", quote("A4")),
		list("layers",
			list("0", quote(LayerFrontCopper), "signal"),
			list("31", quote(LayerBackCopper), "signal"),
			list("36", quote(LayerBackSilk), "user", quote("B.Silkscreen")),
			list("37", quote(LayerFrontSilk), "user", quote("F.Silkscreen")),
			list("44", quote(LayerEdgeCuts), "user"),
			list("49", quote(LayerFrontFab), "user", quote("F.Fabrication")),
		),
		list("setup", list("pad_to_mask_clearance", "0")),
	)

	nets := b.Nets
	if len(nets) == 0 {
		nets = []Net{{}}
	}
	for _, n := range nets {
		root.add(list("net", fmt.Sprint(n.Number), quote(n.Name)))
	}
	for i, fp := range b.Footprints {
		root.add(footprint(i, fp, b.Reference))
	}

	if b.Outline.Width > 0 && b.Outline.Height > 0 {
		lines, arcs := b.Outline.Edges()
		for _, l := range lines {
			root.add(list("gr_line", xy("start", l.Start), xy("end", l.End), edgeStroke(), layer(LayerEdgeCuts)))
		}
		for _, a := range arcs {
			root.add(list("gr_arc", xy("start", a.Start), xy("mid", a.Mid), xy("end", a.End), edgeStroke(), layer(LayerEdgeCuts)))
		}
	}

	for i, t := range b.Texts {
		e := list("gr_text", quote(t.Text),
			list("at", num(t.At.X), num(t.At.Y), num(t.At.Angle)),
			layer(t.Layer),
			list("uuid", quote(itemUUID("text", i, t.Text))))
		effects := list("effects", font(t.Font))
		if t.Mirror {
			effects.add(list("justify", "mirror"))
		}
		root.add(e.add(effects))
	}

	for i, t := range b.Tracks {
		root.add(list("segment", xy("start", t.Start), xy("end", t.End),
			list("width", num(t.Width)), layer(t.Layer),
			list("net", fmt.Sprint(t.Net.Number)),
			list("uuid", quote(itemUUID("segment", i, t.Net.Name)))))
	}
	for i, v := range b.Vias {
		root.add(list("via", xy("at", v.Position),
			list("size", num(v.Size)), list("drill", num(v.Drill)),
			list("layers", quote(v.Layers[0]), quote(v.Layers[1])),
			list("net", fmt.Sprint(v.Net.Number)),
			list("uuid", quote(itemUUID("via", i, v.Net.Name)))))
	}

	for i, z := range b.Zones {
		pts := list("pts")
		for _, p := range z.Outline {
			pts.add(xy("xy", p))
		}
		root.add(list("zone",
			list("net", fmt.Sprint(z.Net)),
			list("net_name", quote(z.NetName)),
			layer(z.Layer),
			list("uuid", quote(itemUUID("zone", i, z.Name))),
			list("name", quote(z.Name)),
			list("hatch", "edge", "0.5"),
			list("connect_pads", list("clearance", "0")),
			list("min_thickness", "0.25"),
			list("filled_areas_thickness", "no"),
			list("fill", "yes", list("thermal_gap", "0.5"), list("thermal_bridge_width", "0.5")),
			list("polygon", pts),
		))
	}
	return root.String()
}

func layer(name string) *expr { return list("layer", quote(name)) }

func edgeStroke() *expr {
	return list("stroke", list("width", "0.05"), list("type", "solid"))
}

func font(f Font) *expr {
	e := list("font")
	if f.Face != "" {
		e.add(list("face", quote(f.Face)))
	}
	e.add(list("size", num(f.Size.Width), num(f.Size.Height)), list("thickness", num(f.Thickness)))
	if f.Bold {
		e.add(list("bold", "yes"))
	}
	return e
}

func footprint(i int, fp Footprint, ref ReferenceStyle) *expr {
	silk, fab := LayerFrontSilk, LayerFrontFab
	padLayers := []any{quote(LayerFrontCopper), quote("F.Paste"), quote("F.Mask")}
	if fp.Layer == LayerBackCopper {
		silk, fab = LayerBackSilk, "B.Fab"
		padLayers = []any{quote(LayerBackCopper), quote("B.Paste"), quote("B.Mask")}
	}
	angle := num(fp.Position.Angle)

	e := list("footprint", quote(fp.Name),
		layer(fp.Layer),
		list("uuid", quote(itemUUID("footprint", i, fp.Path))),
		list("at", num(fp.Position.X), num(fp.Position.Y), angle),
		list("property", quote("Reference"), quote(fp.Reference),
			list("at", num(ref.At.X), num(ref.At.Y), angle),
			layer(silk),
			list("effects", font(ref.Font))),
		list("property", quote("Value"), quote(fp.Value),
			list("at", "0", "0", angle),
			layer(fab),
			"hide",
			list("effects", font(Font{Size: Size{1, 1}, Thickness: 0.15}))),
		list("path", quote("/"+fp.Path)),
	)
	for _, p := range fp.Pads {
		pad := list("pad", quote(p.Number), "smd", "rect",
			list("at", num(p.Position.X), num(p.Position.Y), angle),
			list("size", num(p.Size.Width), num(p.Size.Height)),
			list("layers", padLayers...))
		if p.Net.Number != 0 {
			pad.add(list("net", fmt.Sprint(p.Net.Number), quote(p.Net.Name)))
		}
		e.add(pad)
	}
	return e
}
