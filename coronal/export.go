// Package coronal serializes traced field-line sets into the JSON
// interchange document consumed by external visualization and comparison
// tooling. Key names and nesting are a wire contract: they must not change
// between versions.
package coronal

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/solarphys/pfsstrace/fieldline"
)

// Metadata describes the model a line set came from.
type Metadata struct {
	Lmax        int     `json:"lmax"`
	RSource     float64 `json:"r_source"`
	NFieldLines int     `json:"n_field_lines"`
}

// LineDocument is one exported field line: Cartesian points in solar radii,
// per-step field strengths, and the open/closed label.
type LineDocument struct {
	Points    [][3]float64 `json:"points"`
	Strengths []float64    `json:"strengths"`
	Polarity  string       `json:"polarity"`
}

// Document is the top-level interchange document.
type Document struct {
	Metadata   Metadata       `json:"metadata"`
	FieldLines []LineDocument `json:"fieldLines"`
}

// Export converts a line set into the interchange document, mapping each
// spherical point to Cartesian coordinates:
//
//	x = r·sinθ·cosφ,  y = r·sinθ·sinφ,  z = r·cosθ.
func Export(set *fieldline.Set) *Document {
	doc := &Document{
		Metadata: Metadata{
			Lmax:        set.Lmax,
			RSource:     set.RSource,
			NFieldLines: len(set.Lines),
		},
		FieldLines: make([]LineDocument, len(set.Lines)),
	}
	for i, line := range set.Lines {
		points := make([][3]float64, len(line.Points))
		for j, p := range line.Points {
			points[j] = cartesian(p)
		}
		strengths := line.Strengths
		if strengths == nil {
			strengths = []float64{} // marshal as [], never null
		}
		doc.FieldLines[i] = LineDocument{
			Points:    points,
			Strengths: strengths,
			Polarity:  string(line.Polarity),
		}
	}
	return doc
}

// cartesian converts a spherical point to Cartesian coordinates.
func cartesian(p fieldline.Point) [3]float64 {
	st := math.Sin(p.Theta)
	return [3]float64{
		p.R * st * math.Cos(p.Phi),
		p.R * st * math.Sin(p.Phi),
		p.R * math.Cos(p.Theta),
	}
}

// Write serializes the document as compact JSON. encoding/json emits object
// keys in struct declaration order, which the wire contract pins: metadata
// first, then points, strengths, polarity within each line.
func Write(w io.Writer, doc *Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("coronal: marshal document: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("coronal: write document: %w", err)
	}
	return nil
}

// WriteFile serializes the document to path.
func WriteFile(path string, doc *Document) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("coronal: create %s: %w", path, err)
	}
	if err := Write(f, doc); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Parse reads a document back from its serialized form.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("coronal: parse document: %w", err)
	}
	return &doc, nil
}
