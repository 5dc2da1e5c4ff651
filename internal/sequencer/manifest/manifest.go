// Package manifest loads a TOML operation manifest into a sequencer, the
// declarative alternative (§9's resolved option (b)) to explicit Go
// registration: a manifest lists `[[operation]]` tables naming a kind,
// target identifier, and SQL body, with no Go code on the author's part.
// It is grounded on the teacher's internal/parser/toml (the
// BurntSushi/toml decode-into-struct idiom) but is not a literal
// adaptation of it: that package decodes a [[tables]] schema-definition
// document into core.Database, a structurally unrelated shape from this
// package's flat operation list (see DESIGN.md).
package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"medalc/internal/core"
	"medalc/internal/sequencer"
)

// manifestFile is the top-level TOML document.
type manifestFile struct {
	Name      string              `toml:"name"`
	Layer     string              `toml:"layer"`
	Operation []manifestOperation `toml:"operation"`
}

// manifestOperation maps one [[operation]] table.
type manifestOperation struct {
	Type     string           `toml:"type"`
	Schema   string           `toml:"schema"`
	Object   string           `toml:"object"`
	SQL      string           `toml:"sql"`
	SQLFile  string           `toml:"sql_file"`
	Metadata manifestMetadata `toml:"metadata"`
}

// manifestMetadata maps an [operation.metadata] sub-table.
type manifestMetadata struct {
	CreateStats  bool     `toml:"create_stats"`
	StatsColumns []string `toml:"stats_columns"`
	Filter       string   `toml:"filter"`
}

// layerOf maps a manifest's declared layer string to core.Layer, defaulting
// to LayerSilver (the most permissive discovery shape — a flat list of
// named SQL-producing operations) when absent.
func layerOf(raw string) core.Layer {
	switch raw {
	case "bronze", "BRONZE":
		return core.LayerBronze
	case "gold", "GOLD":
		return core.LayerGold
	case "snapshot", "SNAPSHOT":
		return core.LayerSnapshot
	default:
		return core.LayerSilver
	}
}

// Load reads a TOML operation manifest from path and returns the
// corresponding Sequencer.
func Load(path string) (sequencer.Sequencer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: open %q: %w", path, err)
	}
	defer f.Close()

	var mf manifestFile
	if _, err := toml.NewDecoder(f).Decode(&mf); err != nil {
		return nil, fmt.Errorf("manifest: decode %q: %w", path, err)
	}

	dir := filepath.Dir(path)
	b := sequencer.NewBuilder(mf.Name, layerOf(mf.Layer))
	for i := range mf.Operation {
		op := mf.Operation[i]
		kind := core.OperationKind(op.Type)
		sql, err := resolveSQL(dir, op)
		if err != nil {
			return nil, fmt.Errorf("manifest: operation %s.%s: %w", op.Schema, op.Object, err)
		}
		metadata := core.QueryMetadata{CreateStats: op.Metadata.CreateStats, StatsColumns: op.Metadata.StatsColumns, Filter: op.Metadata.Filter}
		b.Register(kind, op.Schema, op.Object, metadata, nil, func() (string, error) { return sql, nil })
	}
	return b.Build()
}

// resolveSQL returns op.SQL verbatim, or the contents of op.SQLFile
// (resolved relative to the manifest's own directory) when SQL is absent.
// Declaring both is an error to avoid silently preferring one.
func resolveSQL(dir string, op manifestOperation) (string, error) {
	switch {
	case op.SQL != "" && op.SQLFile != "":
		return "", fmt.Errorf("both sql and sql_file set")
	case op.SQLFile != "":
		path := op.SQLFile
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}
		body, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read sql_file %q: %w", op.SQLFile, err)
		}
		return string(body), nil
	default:
		return op.SQL, nil
	}
}
