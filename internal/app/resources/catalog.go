package resources

import (
	_ "embed"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/PabloGalante/fluid101/internal/domain"
)

//go:embed resources.yaml
var builtin []byte

// Catalog serves the learning-resources directory. It is read-only.
type Catalog struct {
	dir domain.ResourceDirectory
}

// Load parses the built-in directory.
func Load() (*Catalog, error) {
	return Parse(builtin)
}

// Parse builds a catalog from YAML. Every resource needs a title and a link.
func Parse(data []byte) (*Catalog, error) {
	var dir domain.ResourceDirectory
	if err := yaml.Unmarshal(data, &dir); err != nil {
		return nil, errors.Wrap(err, "parsing resource directory")
	}

	for _, cat := range dir.Categories {
		for i, r := range cat.Resources {
			if r.Title == "" || r.Link == "" {
				return nil, errors.Errorf("category %q: resource %d needs a title and a link", cat.Title, i)
			}
		}
	}
	return &Catalog{dir: dir}, nil
}

// Directory returns a copy of the whole directory.
func (c *Catalog) Directory() domain.ResourceDirectory {
	out := c.dir
	out.Categories = make([]domain.ResourceCategory, len(c.dir.Categories))
	for i, cat := range c.dir.Categories {
		out.Categories[i] = domain.ResourceCategory{
			Title:     cat.Title,
			Resources: append([]domain.Resource(nil), cat.Resources...),
		}
	}
	return out
}
