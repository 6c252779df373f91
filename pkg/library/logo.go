package library

import "github.com/chazu/pixelcard/pkg/graph"

const (
	TagLogo = "Faebryk_Logo"

	// LogoFootprint is the silkscreen artwork footprint of the logo.
	LogoFootprint = "logo:faebryk_logo"
)

// FaebrykLogo is a silkscreen-only module with a fixed footprint.
type FaebrykLogo struct{ leaf }

func (*FaebrykLogo) TypeTag() string { return TagLogo }

func (*FaebrykLogo) Shape(b *graph.Builder, self graph.NodeID) error {
	b.Attach(self, graph.DesignatorPrefix{Prefix: "LOGO"})
	b.Attach(self, graph.Footprint{Name: LogoFootprint})
	return b.Err()
}
