package core

// QueryMetadata carries planner hints attached to an operation by its
// discovery source: preferred engine, the auto-statistics hint consumed by
// the dispatcher after a CreateTable succeeds, and the fields a silver/gold
// sequencer method's declarative annotation supplies.
//
// Order, ExecutionType, and DependsOn are legacy fields from the source
// annotation format. They are accepted so manifests and encoded JSON that
// still carry them round-trip without error, but no planning code reads
// them — dependencies are always derived from SQL (see §9 open question).
type QueryMetadata struct {
	Type            string     `json:"type,omitempty"`
	TableName       string     `json:"table_name,omitempty"`
	SchemaName      string     `json:"schema_name,omitempty"`
	PreferredEngine EngineHint `json:"preferred_engine,omitempty"`
	UniqueIdx       []string   `json:"unique_idx,omitempty"`
	Filter          string     `json:"filter,omitempty"`
	CreateStats     bool       `json:"create_stats,omitempty"`
	StatsColumns    []string   `json:"stats_columns,omitempty"`

	Order         int      `json:"order,omitempty"`
	ExecutionType string   `json:"execution_type,omitempty"`
	DependsOn     []string `json:"depends_on,omitempty"`
}

// ToMap encodes the metadata as a nested map, omitting zero-valued fields.
func (m *QueryMetadata) ToMap() map[string]any {
	if m == nil {
		return nil
	}
	out := map[string]any{}
	if m.Type != "" {
		out["type"] = m.Type
	}
	if m.TableName != "" {
		out["table_name"] = m.TableName
	}
	if m.SchemaName != "" {
		out["schema_name"] = m.SchemaName
	}
	if m.PreferredEngine != EngineUnspecified {
		out["preferred_engine"] = string(m.PreferredEngine)
	}
	if len(m.UniqueIdx) > 0 {
		out["unique_idx"] = m.UniqueIdx
	}
	if m.Filter != "" {
		out["filter"] = m.Filter
	}
	if m.CreateStats {
		out["create_stats"] = true
	}
	if len(m.StatsColumns) > 0 {
		out["stats_columns"] = m.StatsColumns
	}
	if m.Order != 0 {
		out["order"] = m.Order
	}
	if m.ExecutionType != "" {
		out["execution_type"] = m.ExecutionType
	}
	if len(m.DependsOn) > 0 {
		out["depends_on"] = m.DependsOn
	}
	return out
}

// metadataFromMap decodes a nested metadata map produced by ToMap, ignoring
// the legacy order/execution_type/depends_on fields is not necessary since
// we still parse them for round-trip fidelity.
func metadataFromMap(raw map[string]any) *QueryMetadata {
	if raw == nil {
		return nil
	}
	m := &QueryMetadata{
		Type:            getString(raw, "type"),
		TableName:       getString(raw, "table_name"),
		SchemaName:      getString(raw, "schema_name"),
		PreferredEngine: EngineHint(getString(raw, "preferred_engine")),
		UniqueIdx:       getStringSlice(raw, "unique_idx"),
		Filter:          getString(raw, "filter"),
		CreateStats:     getBool(raw, "create_stats"),
		StatsColumns:    getStringSlice(raw, "stats_columns"),
		ExecutionType:   getString(raw, "execution_type"),
		DependsOn:       getStringSlice(raw, "depends_on"),
	}
	if v, ok := raw["order"]; ok {
		m.Order = int(getFloat(v))
	}
	return m
}
