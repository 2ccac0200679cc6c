// Package manifoldgen generates Rust type declarations and wasm_bindgen
// binding blocks from the manifold TypeScript declaration files. It is a
// one-shot batch tool: parse all inputs, run the alias-registry pass, lower
// every declaration, and write the partitioned output artifacts.
package manifoldgen

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/daccad/manifoldgen/dts"
	"github.com/daccad/manifoldgen/ir"
	"github.com/daccad/manifoldgen/lower"
	"github.com/daccad/manifoldgen/rust"
	"github.com/daccad/manifoldgen/sink"
)

// Config holds the configuration for one generation run.
type Config struct {
	// DefsDir is the directory holding the declaration artifacts.
	DefsDir string `validate:"required"`

	// OutDir is the directory generated Rust files are written to.
	// Required by Generate; GenerateTo takes an explicit sink instead.
	OutDir string

	// RulesFile optionally points to a TOML file with extra alias
	// normalization rules and type-name mappings, merged over built-ins.
	RulesFile string

	// Logger receives structured progress and degradation logs.
	// Defaults to a no-op logger.
	Logger *zap.Logger
}

// ErrUnknownArtifact marks a .d.ts file whose name matches none of the
// well-known manifold declaration artifacts.
var ErrUnknownArtifact = errors.New("unknown artifact")

// wellKnownArtifacts maps filename substrings to categories, checked in
// order so the more specific names win over the bare "manifold" match.
var wellKnownArtifacts = []struct {
	Substring string
	Category  ir.Category
}{
	{"manifold-global-types", ir.CategoryGlobal},
	{"manifold-encapsulated-types", ir.CategoryEncapsulated},
	{"manifold", ir.CategoryMain},
}

// Categorize determines an artifact's category from its filename.
// An unrecognized artifact is a configuration error; the category never
// changes after this point.
func Categorize(name string) (ir.Category, error) {
	for _, w := range wellKnownArtifacts {
		if strings.Contains(name, w.Substring) {
			return w.Category, nil
		}
	}
	return 0, errors.Wrapf(ErrUnknownArtifact, "%q: expected a manifold declaration file", name)
}

// Generate runs the full pipeline and writes output to cfg.OutDir.
// Re-running overwrites prior output unconditionally.
func Generate(cfg *Config) error {
	if cfg.OutDir == "" {
		return errors.New("OutDir is required")
	}
	return GenerateTo(context.Background(), cfg, sink.NewFilesystemSink(cfg.OutDir))
}

// GenerateTo runs the full pipeline, writing artifacts to the given sink.
func GenerateTo(ctx context.Context, cfg *Config, out sink.OutputSink) error {
	if err := validator.New().Struct(cfg); err != nil {
		return errors.Wrap(err, "invalid config")
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	artifacts, err := loadArtifacts(cfg.DefsDir, log)
	if err != nil {
		return err
	}
	if len(artifacts) == 0 {
		log.Warn("no declaration artifacts found, nothing to generate",
			zap.String("dir", cfg.DefsDir))
		return nil
	}

	// Pass 1: the alias registry must cover every artifact before any
	// lowering, so unions can resolve aliases declared in later files.
	lctx := lower.NewContext(log)
	if err := applyRules(lctx, cfg.RulesFile); err != nil {
		return err
	}
	for _, a := range artifacts {
		if err := lctx.RegisterAliases(a.File, a.Category); err != nil {
			return errors.Wrapf(err, "register aliases from %s", a.File.Name)
		}
	}
	lctx.Freeze()

	// Pass 2: lower every declaration, in artifact order.
	perCat := make(map[ir.Category]*declList)
	for _, a := range artifacts {
		list := perCat[a.Category]
		if list == nil {
			list = newDeclList()
			perCat[a.Category] = list
		}
		for _, d := range a.File.Decls {
			lowered := lowerOne(lctx, d, a.Category)
			if lowered == nil {
				continue
			}
			list.add(a.File.Name, lowered, log)
		}
	}

	// Emission: category artifacts first (their rendering registers the
	// placeholder unions), then the shared todo artifact.
	em := rust.NewEmitter(lctx.Unions)
	type output struct {
		path    string
		content []byte
	}
	var outputs []output
	for _, a := range artifacts {
		list := perCat[a.Category]
		if list == nil || len(list.order) == 0 {
			continue
		}
		outputs = append(outputs, output{
			path:    rust.FileName(a.Category),
			content: em.File(a.File.Name, list.order),
		})
		delete(perCat, a.Category)
	}
	outputs = append(outputs, output{path: rust.TodoFileName, content: em.TodoFile()})

	for _, o := range outputs {
		if err := out.WriteFile(ctx, o.path, o.content); err != nil {
			return errors.Wrapf(err, "write %s", o.path)
		}
		log.Debug("wrote artifact", zap.String("file", o.path), zap.Int("size", len(o.content)))
	}

	log.Info("generation complete",
		zap.Int("artifacts", len(artifacts)),
		zap.Int("files", len(outputs)),
		zap.Int("todo_unions", lctx.Unions.Len()))
	return nil
}

// lowerOne lowers a single declaration, routing enum-synthesized aliases
// to their registered enum instead of generic alias lowering.
func lowerOne(lctx *lower.Context, d dts.Decl, cat ir.Category) ir.Decl {
	if alias, ok := d.(*dts.Alias); ok {
		if e, ok := lctx.SynthesizedEnum(alias.Name); ok {
			return e
		}
	}
	return lctx.LowerDecl(d, cat)
}

// artifact is one categorized, parsed input file.
type artifact struct {
	File     *dts.File
	Category ir.Category
}

// loadArtifacts reads every .d.ts file in dir. An unrecognized declaration
// file is fatal; a missing well-known artifact is only logged.
func loadArtifacts(dir string, log *zap.Logger) ([]artifact, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "read definitions directory %s", dir)
	}

	var artifacts []artifact
	seen := make(map[ir.Category]bool)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".d.ts") {
			continue
		}
		cat, err := Categorize(entry.Name())
		if err != nil {
			return nil, err
		}

		src, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, errors.Wrapf(err, "read %s", entry.Name())
		}
		file, err := dts.Parse(entry.Name(), string(src))
		if err != nil {
			return nil, err
		}

		artifacts = append(artifacts, artifact{File: file, Category: cat})
		seen[cat] = true
		log.Debug("loaded artifact",
			zap.String("file", entry.Name()),
			zap.String("category", cat.String()),
			zap.Int("decls", len(file.Decls)))
	}

	for _, w := range wellKnownArtifacts {
		if !seen[w.Category] {
			log.Info("well-known artifact not present, skipping",
				zap.String("artifact", w.Substring+".d.ts"))
		}
	}
	return artifacts, nil
}

// declList keeps lowered declarations in input order while enforcing the
// collision policy: a second declaration with the same (artifact, name)
// pair replaces the first in place, loudly.
type declList struct {
	order []ir.Decl
	index map[string]int
}

func newDeclList() *declList {
	return &declList{index: make(map[string]int)}
}

func (l *declList) add(artifactName string, d ir.Decl, log *zap.Logger) {
	key := artifactName + "\x00" + d.DeclName()
	if i, ok := l.index[key]; ok {
		log.Warn("duplicate declaration replaces earlier one",
			zap.String("artifact", artifactName),
			zap.String("name", d.DeclName()))
		l.order[i] = d
		return
	}
	l.index[key] = len(l.order)
	l.order = append(l.order, d)
}
