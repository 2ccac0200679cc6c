package manifoldgen

import (
	"github.com/BurntSushi/toml"
	"github.com/cockroachdb/errors"

	"github.com/daccad/manifoldgen/lower"
)

// Rules is the optional TOML configuration file format. Entries merge
// over the built-in normalization rules and type mappings.
//
//	[aliases]
//	Polygons = "SimplePolygon[]"
//
//	[mappings]
//	DoubleArray = "Vec<f64>"
type Rules struct {
	// Aliases maps an alias name to a replacement definition applied
	// whenever that alias is registered.
	Aliases map[string]string `toml:"aliases"`

	// Mappings rewrites otherwise-unknown type names during fallback
	// lowering.
	Mappings map[string]string `toml:"mappings"`
}

// LoadRules decodes a TOML rules file.
func LoadRules(path string) (*Rules, error) {
	var rules Rules
	if _, err := toml.DecodeFile(path, &rules); err != nil {
		return nil, errors.Wrapf(err, "load rules file %s", path)
	}
	return &rules, nil
}

// applyRules merges the rules file, if configured, into the context.
func applyRules(lctx *lower.Context, path string) error {
	if path == "" {
		return nil
	}
	rules, err := LoadRules(path)
	if err != nil {
		return err
	}
	for name, def := range rules.Aliases {
		if err := lctx.AddRule(name, def); err != nil {
			return err
		}
	}
	for from, to := range rules.Mappings {
		if err := lctx.AddMapping(from, to); err != nil {
			return err
		}
	}
	return nil
}
