// Package mood holds the fixed catalog of selectable moods.
package mood

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// FallbackColor is used for stored moods that no longer match the catalog.
const FallbackColor = "#666666"

// Option is one selectable mood.
type Option struct {
	DisplayName string `json:"displayName"`
	Level       int    `json:"level"`
	Color       string `json:"color"`
}

// Word returns the label without its emoji, e.g. "Happy".
func (o Option) Word() string {
	return Word(o.DisplayName)
}

// Emoji returns the glyph part of the display name.
func (o Option) Emoji() string {
	fields := strings.Fields(o.DisplayName)
	if len(fields) < 2 {
		return ""
	}
	return fields[len(fields)-1]
}

// RGB parses the option color, falling back to FallbackColor.
func (o Option) RGB() colorful.Color {
	return parseColor(o.Color)
}

func (o Option) String() string {
	return o.DisplayName
}

// Word returns the first word of a stored mood label.
func Word(label string) string {
	fields := strings.Fields(label)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// Catalog is an ordered, immutable list of options.
type Catalog struct {
	options []Option
}

var defaultCatalog = New(
	Option{DisplayName: "Happy 😊", Level: 5, Color: "#4CAF50"},
	Option{DisplayName: "Calm 🙂", Level: 4, Color: "#42A5F5"},
	Option{DisplayName: "Neutral 😐", Level: 3, Color: "#9E9E9E"},
	Option{DisplayName: "Sad 😟", Level: 2, Color: "#5E35B1"},
	Option{DisplayName: "Anxious 😬", Level: 1, Color: "#FF9800"},
)

// Default returns the process wide catalog.
func Default() *Catalog {
	return defaultCatalog
}

// New builds a catalog from the given options in order.
func New(options ...Option) *Catalog {
	cp := make([]Option, len(options))
	copy(cp, options)
	return &Catalog{options: cp}
}

// Options returns the catalog in display order. The slice is a copy.
func (c *Catalog) Options() []Option {
	cp := make([]Option, len(c.options))
	copy(cp, c.options)
	return cp
}

// Len is the number of options.
func (c *Catalog) Len() int {
	return len(c.options)
}

// FindByDisplayName returns the option whose display name equals name.
func (c *Catalog) FindByDisplayName(name string) (Option, bool) {
	for _, o := range c.options {
		if o.DisplayName == name {
			return o, true
		}
	}
	return Option{}, false
}

// FindByLevel returns the first option with the given intensity.
func (c *Catalog) FindByLevel(level int) (Option, bool) {
	for _, o := range c.options {
		if o.Level == level {
			return o, true
		}
	}
	return Option{}, false
}

// Index returns the catalog position of a stored mood, or -1.
func (c *Catalog) Index(name string) int {
	for i, o := range c.options {
		if o.DisplayName == name {
			return i
		}
	}
	return -1
}

// Lookup resolves user input to an option. It accepts the display name,
// the word alone (case-insensitive) or the level as a digit.
func (c *Catalog) Lookup(alias string) (Option, error) {
	alias = strings.TrimSpace(alias)
	if alias == "" {
		return Option{}, fmt.Errorf("mood: empty mood")
	}
	if o, ok := c.FindByDisplayName(alias); ok {
		return o, nil
	}
	if level, err := strconv.Atoi(alias); err == nil {
		if o, ok := c.FindByLevel(level); ok {
			return o, nil
		}
		return Option{}, fmt.Errorf("mood: no mood with level %d", level)
	}
	for _, o := range c.options {
		if strings.EqualFold(o.Word(), alias) {
			return o, nil
		}
	}
	return Option{}, fmt.Errorf("mood: unknown mood %q (expected one of %s)", alias, strings.Join(c.Words(), ", "))
}

// Words lists the lower-case words of every option, used for completions.
func (c *Catalog) Words() []string {
	words := make([]string, 0, len(c.options))
	for _, o := range c.options {
		words = append(words, strings.ToLower(o.Word()))
	}
	return words
}

// ColorFor returns the hex color for a stored mood label.
func (c *Catalog) ColorFor(name string) string {
	if o, ok := c.FindByDisplayName(name); ok && o.Color != "" {
		return o.Color
	}
	return FallbackColor
}

func parseColor(hex string) colorful.Color {
	col, err := colorful.Hex(hex)
	if err != nil {
		col, _ = colorful.Hex(FallbackColor)
	}
	return col
}
