package config

import (
	"fmt"
	"os"

	"github.com/sangkips/receipt-studio/pkg/render"
	"gopkg.in/yaml.v3"
)

// Catalog lists the fonts and layout templates a draft may choose from.
type Catalog struct {
	DefaultFont     string         `yaml:"default_font"`
	DefaultTemplate string         `yaml:"default_template"`
	Fonts           []string       `yaml:"fonts"`
	Templates       []TemplateSpec `yaml:"templates"`
}

type TemplateSpec struct {
	Name      string `yaml:"name"`
	Width     int    `yaml:"width"`
	Separator string `yaml:"separator"`
}

func DefaultCatalog() *Catalog {
	return &Catalog{
		DefaultFont:     "courier",
		DefaultTemplate: "classic",
		Fonts:           []string{"courier", "mono", "receipt"},
		Templates: []TemplateSpec{
			{Name: "classic", Width: 42, Separator: "-"},
			{Name: "compact", Width: 32, Separator: "-"},
			{Name: "wide", Width: 48, Separator: "="},
		},
	}
}

// LoadCatalog reads a YAML catalog. An empty path returns the built-in one.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return DefaultCatalog(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	var c Catalog
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("catalog: parse %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// WriteCatalog dumps a catalog as YAML, e.g. to bootstrap a custom one.
func WriteCatalog(path string, c *Catalog) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

// Validate requires the default font and template to be listed and every
// template to have a usable width.
func (c *Catalog) Validate() error {
	if !c.HasFont(c.DefaultFont) {
		return fmt.Errorf("catalog: default font %q is not listed", c.DefaultFont)
	}
	if _, ok := c.lookup(c.DefaultTemplate); !ok {
		return fmt.Errorf("catalog: default template %q is not listed", c.DefaultTemplate)
	}
	for _, t := range c.Templates {
		if t.Width < render.MinWidth {
			return fmt.Errorf("catalog: template %q width %d is below %d", t.Name, t.Width, render.MinWidth)
		}
		if len(t.Separator) != 1 {
			return fmt.Errorf("catalog: template %q separator must be one character", t.Name)
		}
	}
	return nil
}

func (c *Catalog) HasFont(name string) bool {
	for _, f := range c.Fonts {
		if f == name {
			return true
		}
	}
	return false
}

// Font returns name when it is listed, otherwise the default font.
func (c *Catalog) Font(name string) string {
	if c.HasFont(name) {
		return name
	}
	return c.DefaultFont
}

// Template resolves a template by name, falling back to the default.
func (c *Catalog) Template(name string) render.Template {
	t, ok := c.lookup(name)
	if !ok {
		t, _ = c.lookup(c.DefaultTemplate)
	}
	return render.Template{Name: t.Name, Width: t.Width, Separator: t.Separator[0]}
}

func (c *Catalog) lookup(name string) (TemplateSpec, bool) {
	for _, t := range c.Templates {
		if t.Name == name {
			return t, true
		}
	}
	return TemplateSpec{}, false
}
