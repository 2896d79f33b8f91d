package listing

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

const DefaultPageSize = 10

//go:embed listing.yaml
var defaultYAML []byte

var columnRE = regexp.MustCompile(`^[a-z_][a-z0-9_]*(\.[a-z_][a-z0-9_]*)?$`)

// Default returns the built-in listing rules.
func Default() (*Config, error) {
	return Parse(defaultYAML)
}

// Load reads an override file. An empty path yields the built-in rules.
// Entities absent from the file keep their built-in rules.
func Load(path string) (*Config, error) {
	base, err := Default()
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(path) == "" {
		return base, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read listing config: %w", err)
	}
	override, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("error loading %s: %w", path, err)
	}
	for name, e := range override.Entities {
		base.Entities[name] = e
	}
	return base, nil
}

func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if cfg.Entities == nil {
		cfg.Entities = map[string]Entity{}
	}
	for name, e := range cfg.Entities {
		setDefaults(&e)
		if err := validate(e); err != nil {
			return nil, fmt.Errorf("invalid listing for %s: %w", name, err)
		}
		cfg.Entities[name] = e
	}
	return &cfg, nil
}

// For returns the rules for an entity, falling back to page size only.
func (c *Config) For(entity string) Entity {
	if c != nil {
		if e, ok := c.Entities[entity]; ok {
			return e
		}
	}
	e := Entity{}
	setDefaults(&e)
	return e
}

func setDefaults(e *Entity) {
	if e.PageSize == 0 {
		e.PageSize = DefaultPageSize
	}
}

// validate keeps every configured name a plain column reference, since they are
// interpolated into SQL.
func validate(e Entity) error {
	if e.PageSize < 0 {
		return fmt.Errorf("page_size must be positive")
	}
	for _, o := range e.Ordering {
		if !columnRE.MatchString(strings.TrimPrefix(o, "-")) {
			return fmt.Errorf("invalid ordering %q", o)
		}
	}
	for _, cols := range [][]string{e.OrderingFields, e.Search} {
		for _, c := range cols {
			if !columnRE.MatchString(c) {
				return fmt.Errorf("invalid column %q", c)
			}
		}
	}
	for param, col := range e.Filters {
		if !columnRE.MatchString(col) {
			return fmt.Errorf("invalid filter column %q for %s", col, param)
		}
	}
	return nil
}
