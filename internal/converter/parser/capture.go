// Package parser decodes capture records into typed elements.
package parser

import (
	"encoding/json"
	"errors"
	"fmt"

	"floorplan/internal/converter/models"
	"floorplan/internal/converter/pose"
)

// ErrInvalidCapture is returned when the document is not a JSON object.
var ErrInvalidCapture = errors.New("invalid capture record")

// defaultSectionLabel names sections captured without a label.
const defaultSectionLabel = "Room"

// ============================================================
// JSON Structures
// ============================================================

type rawElement struct {
	Identifier       string                     `json:"identifier"`
	ParentIdentifier *string                    `json:"parentIdentifier"`
	Dimensions       []float64                  `json:"dimensions"`
	Transform        []float64                  `json:"transform"`
	Category         map[string]json.RawMessage `json:"category"`
}

type rawFloor struct {
	Transform []float64 `json:"transform"`
}

type rawSection struct {
	Label  *string   `json:"label"`
	Center []float64 `json:"center"`
}

// ============================================================
// Parser
// ============================================================

// ParseCapture decodes a capture record. Elements that cannot be decoded are
// dropped and listed in Capture.Skipped; only a document that is not a JSON
// object fails the whole parse.
func ParseCapture(data []byte) (*models.Capture, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCapture, err)
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: document is null", ErrInvalidCapture)
	}

	p := &captureParser{doc: doc, capture: &models.Capture{}}

	c := p.capture
	wallItems := p.array("walls")
	c.Walls = p.decodeElements("walls", wallItems, models.CategoryWall)
	c.Doors = p.elements("doors", models.CategoryDoor)
	c.Windows = p.elements("windows", models.CategoryWindow)
	c.Openings = p.elements("openings", models.CategoryOpening)
	c.Floors = p.floors()
	c.Sections = p.sections()

	// Older captures list everything under "objects". Only a capture with no
	// wall entries at all falls back, even if every wall entry was malformed.
	if len(wallItems) == 0 {
		p.objects()
	}

	return c, nil
}

type captureParser struct {
	doc     map[string]json.RawMessage
	capture *models.Capture
}

func (p *captureParser) skip(array string, index int, reason string) {
	p.capture.Skipped = append(p.capture.Skipped, models.SkippedElement{
		Array:  array,
		Index:  index,
		Reason: reason,
	})
}

// array returns the items of a top-level array. A missing or null key is an
// empty array; any other non-array value is reported and ignored.
func (p *captureParser) array(key string) []json.RawMessage {
	raw, ok := p.doc[key]
	if !ok {
		return nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		p.skip(key, -1, fmt.Sprintf("not an array: %v", err))
		return nil
	}
	return items
}

func (p *captureParser) elements(key string, category models.Category) []models.Element {
	return p.decodeElements(key, p.array(key), category)
}

func (p *captureParser) decodeElements(key string, items []json.RawMessage, category models.Category) []models.Element {
	var out []models.Element
	for i, item := range items {
		e, ok := p.element(key, i, item)
		if !ok {
			continue
		}
		e.Category = category
		out = append(out, e)
	}
	return out
}

func (p *captureParser) element(key string, index int, item json.RawMessage) (models.Element, bool) {
	var raw rawElement
	if err := json.Unmarshal(item, &raw); err != nil {
		p.skip(key, index, err.Error())
		return models.Element{}, false
	}
	if !pose.Valid(raw.Transform) {
		p.skip(key, index, fmt.Sprintf("transform has %d values, want %d", len(raw.Transform), pose.TransformSize))
		return models.Element{}, false
	}

	e := models.Element{
		ID:         raw.Identifier,
		Dimensions: raw.Dimensions,
		Transform:  raw.Transform,
	}
	if raw.ParentIdentifier != nil {
		e.ParentID = *raw.ParentIdentifier
	}
	return e, true
}

// objects routes each object by the single key of its category map.
func (p *captureParser) objects() {
	c := p.capture
	for i, item := range p.array("objects") {
		var raw rawElement
		if err := json.Unmarshal(item, &raw); err != nil {
			p.skip("objects", i, err.Error())
			continue
		}
		if len(raw.Category) != 1 {
			p.skip("objects", i, fmt.Sprintf("category has %d keys, want 1", len(raw.Category)))
			continue
		}

		var category models.Category
		var key string
		for k := range raw.Category {
			key = k
			category = models.ParseCategory(k)
		}
		if category == models.CategoryUnknown {
			p.skip("objects", i, fmt.Sprintf("unknown category %q", key))
			continue
		}

		e, ok := p.element("objects", i, item)
		if !ok {
			continue
		}
		e.Category = category

		switch category {
		case models.CategoryWall:
			c.Walls = append(c.Walls, e)
		case models.CategoryDoor:
			c.Doors = append(c.Doors, e)
		case models.CategoryWindow:
			c.Windows = append(c.Windows, e)
		case models.CategoryOpening:
			c.Openings = append(c.Openings, e)
		}
	}
}

func (p *captureParser) floors() []models.Floor {
	var out []models.Floor
	for i, item := range p.array("floors") {
		var raw rawFloor
		if err := json.Unmarshal(item, &raw); err != nil {
			p.skip("floors", i, err.Error())
			continue
		}
		out = append(out, models.Floor{Transform: raw.Transform})
	}
	return out
}

func (p *captureParser) sections() []models.Section {
	var out []models.Section
	for i, item := range p.array("sections") {
		var raw rawSection
		if err := json.Unmarshal(item, &raw); err != nil {
			p.skip("sections", i, err.Error())
			continue
		}

		label := defaultSectionLabel
		if raw.Label != nil && *raw.Label != "" {
			label = *raw.Label
		}
		out = append(out, models.Section{Label: label, Center: raw.Center})
	}
	return out
}
