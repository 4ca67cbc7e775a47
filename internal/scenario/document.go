// Package scenario reads and writes scenario documents: lists of bodies
// with authored positions, velocities and masses.
//
// Two encodings carry the same document. The XML one is the historical
// planets-3d format:
//
//	<planets-3d-universe>
//	  <planet mass="1000000">
//	    <position x="0" y="0" z="0"/>
//	    <velocity x="0" y="0" z="0"/>
//	  </planet>
//	</planets-3d-universe>
//
// The YAML one lists the same fields under a planets key. Velocities in a
// document are authored units; [Load] multiplies them by the universe's
// velocity factor and [Snapshot] divides them back out.
package scenario

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	ErrInvalidScenario = errors.New("scenario: invalid scenario")
	ErrUnknownFormat   = errors.New("scenario: unknown format")
	ErrUnknownPreset   = errors.New("scenario: unknown preset")
)

type Format int

const (
	FormatYAML Format = iota
	FormatXML
)

func (f Format) String() string {
	if f == FormatXML {
		return "xml"
	}
	return "yaml"
}

// FormatFromPath picks the encoding from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xml":
		return FormatXML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(path))
}

type Planet struct {
	Mass     float64    `yaml:"mass"`
	Position [3]float64 `yaml:"position,flow"`
	Velocity [3]float64 `yaml:"velocity,flow"`
}

type Document struct {
	Name    string   `yaml:"name,omitempty"`
	Planets []Planet `yaml:"planets"`
}

// Validate rejects empty documents and bodies a universe would refuse.
func (d *Document) Validate() error {
	if d == nil || len(d.Planets) == 0 {
		return fmt.Errorf("%w: no planets", ErrInvalidScenario)
	}
	for i, p := range d.Planets {
		if !(p.Mass > 0) || math.IsInf(p.Mass, 0) {
			return fmt.Errorf("%w: planet %d: mass %v", ErrInvalidScenario, i, p.Mass)
		}
		for _, v := range [][3]float64{p.Position, p.Velocity} {
			for _, c := range v {
				if math.IsNaN(c) || math.IsInf(c, 0) {
					return fmt.Errorf("%w: planet %d: non-finite component", ErrInvalidScenario, i)
				}
			}
		}
	}
	return nil
}

type xmlVector struct {
	X float64 `xml:"x,attr"`
	Y float64 `xml:"y,attr"`
	Z float64 `xml:"z,attr"`
}

type xmlPlanet struct {
	Mass     float64   `xml:"mass,attr"`
	Position xmlVector `xml:"position"`
	Velocity xmlVector `xml:"velocity"`
}

type xmlUniverse struct {
	XMLName xml.Name    `xml:"planets-3d-universe"`
	Planets []xmlPlanet `xml:"planet"`
}

func fromXML(v xmlVector) [3]float64 { return [3]float64{v.X, v.Y, v.Z} }

func toXML(v [3]float64) xmlVector { return xmlVector{X: v[0], Y: v[1], Z: v[2]} }

// Decode parses a document. Malformed input fails with ErrInvalidScenario;
// an empty but well-formed document decodes and fails only on Validate.
func Decode(r io.Reader, f Format) (*Document, error) {
	switch f {
	case FormatXML:
		var x xmlUniverse
		if err := xml.NewDecoder(r).Decode(&x); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidScenario, err)
		}
		doc := &Document{Planets: make([]Planet, 0, len(x.Planets))}
		for _, p := range x.Planets {
			doc.Planets = append(doc.Planets, Planet{
				Mass:     p.Mass,
				Position: fromXML(p.Position),
				Velocity: fromXML(p.Velocity),
			})
		}
		return doc, nil

	case FormatYAML:
		var doc Document
		if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				return &doc, nil
			}
			return nil, fmt.Errorf("%w: %v", ErrInvalidScenario, err)
		}
		return &doc, nil
	}
	return nil, ErrUnknownFormat
}

func Encode(w io.Writer, doc *Document, f Format) error {
	switch f {
	case FormatXML:
		x := xmlUniverse{Planets: make([]xmlPlanet, 0, len(doc.Planets))}
		for _, p := range doc.Planets {
			x.Planets = append(x.Planets, xmlPlanet{
				Mass:     p.Mass,
				Position: toXML(p.Position),
				Velocity: toXML(p.Velocity),
			})
		}
		if _, err := io.WriteString(w, xml.Header); err != nil {
			return err
		}
		enc := xml.NewEncoder(w)
		enc.Indent("", "  ")
		if err := enc.Encode(x); err != nil {
			return err
		}
		_, err := io.WriteString(w, "\n")
		return err

	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	}
	return ErrUnknownFormat
}
