package core

import "medalc/internal/planerr"

// Insert appends or overwrites rows from either a source query or a literal
// values list.
type Insert struct {
	base
	SourceQuery string
	Values      []map[string]any
	Mode        InsertMode
	Columns     []string
}

func newInsert(c commonFields, f map[string]any) (*Insert, error) {
	op := &Insert{
		base:        c.newBase(KindInsert),
		SourceQuery: getString(f, "source_query"),
		Mode:        InsertMode(getString(f, "mode")),
		Columns:     getStringSlice(f, "columns"),
	}
	if raw, ok := f["values"].([]any); ok {
		op.Values = make([]map[string]any, 0, len(raw))
		for _, item := range raw {
			if m, ok := item.(map[string]any); ok {
				op.Values = append(op.Values, m)
			}
		}
	} else if vs, ok := f["values"].([]map[string]any); ok {
		op.Values = vs
	}
	if op.Mode == "" {
		op.Mode = InsertAppend
	}
	hasSource := op.SourceQuery != ""
	hasValues := len(op.Values) > 0
	if hasSource == hasValues {
		return nil, planerr.New(planerr.CodeValidation, "Insert requires exactly one of source_query or values").
			WithDetail("object", op.QualifiedName())
	}
	return op, nil
}

func (op *Insert) ToMap() map[string]any {
	out := op.baseToMap()
	if op.SourceQuery != "" {
		out["source_query"] = op.SourceQuery
	}
	if len(op.Values) > 0 {
		out["values"] = op.Values
	}
	if op.Mode != "" {
		out["mode"] = string(op.Mode)
	}
	if len(op.Columns) > 0 {
		out["columns"] = op.Columns
	}
	return out
}

// Update sets SetColumns on rows matching an optional WhereClause.
type Update struct {
	base
	SetColumns  map[string]string
	WhereClause string
}

func newUpdate(c commonFields, f map[string]any) (*Update, error) {
	op := &Update{
		base:        c.newBase(KindUpdate),
		SetColumns:  getStringMap(f, "set_columns"),
		WhereClause: getString(f, "where_clause"),
	}
	if len(op.SetColumns) == 0 {
		return nil, planerr.New(planerr.CodeValidation, "Update requires a non-empty set_columns map").
			WithDetail("object", op.QualifiedName())
	}
	return op, nil
}

func (op *Update) ToMap() map[string]any {
	out := op.baseToMap()
	out["set_columns"] = op.SetColumns
	if op.WhereClause != "" {
		out["where_clause"] = op.WhereClause
	}
	return out
}

// Delete removes rows matching an optional WhereClause (absent = all rows).
type Delete struct {
	base
	WhereClause string
}

func newDelete(c commonFields, f map[string]any) (*Delete, error) {
	return &Delete{base: c.newBase(KindDelete), WhereClause: getString(f, "where_clause")}, nil
}

func (op *Delete) ToMap() map[string]any {
	out := op.baseToMap()
	if op.WhereClause != "" {
		out["where_clause"] = op.WhereClause
	}
	return out
}

// Merge upserts rows from SourceQuery into the target under MergeCondition,
// driven by at least one WHEN clause.
type Merge struct {
	base
	SourceQuery               string
	MergeCondition            string
	WhenMatchedUpdate         string
	WhenMatchedDelete         bool
	WhenNotMatchedInsert      string
	WhenNotMatchedBySourceUpdate string
	WhenNotMatchedBySourceDelete bool
}

func newMerge(c commonFields, f map[string]any) (*Merge, error) {
	op := &Merge{
		base:                         c.newBase(KindMerge),
		SourceQuery:                  getString(f, "source_query"),
		MergeCondition:               getString(f, "merge_condition"),
		WhenMatchedUpdate:            getString(f, "when_matched_update"),
		WhenMatchedDelete:            getBool(f, "when_matched_delete"),
		WhenNotMatchedInsert:         getString(f, "when_not_matched_insert"),
		WhenNotMatchedBySourceUpdate: getString(f, "when_not_matched_by_source_update"),
		WhenNotMatchedBySourceDelete: getBool(f, "when_not_matched_by_source_delete"),
	}
	if op.SourceQuery == "" || op.MergeCondition == "" {
		return nil, planerr.New(planerr.CodeValidation, "Merge requires source_query and merge_condition").
			WithDetail("object", op.QualifiedName())
	}
	if op.WhenMatchedUpdate == "" && !op.WhenMatchedDelete && op.WhenNotMatchedInsert == "" &&
		op.WhenNotMatchedBySourceUpdate == "" && !op.WhenNotMatchedBySourceDelete {
		return nil, planerr.New(planerr.CodeValidation, "Merge requires at least one WHEN clause").
			WithDetail("object", op.QualifiedName())
	}
	return op, nil
}

func (op *Merge) ToMap() map[string]any {
	out := op.baseToMap()
	out["source_query"] = op.SourceQuery
	out["merge_condition"] = op.MergeCondition
	if op.WhenMatchedUpdate != "" {
		out["when_matched_update"] = op.WhenMatchedUpdate
	}
	if op.WhenMatchedDelete {
		out["when_matched_delete"] = true
	}
	if op.WhenNotMatchedInsert != "" {
		out["when_not_matched_insert"] = op.WhenNotMatchedInsert
	}
	if op.WhenNotMatchedBySourceUpdate != "" {
		out["when_not_matched_by_source_update"] = op.WhenNotMatchedBySourceUpdate
	}
	if op.WhenNotMatchedBySourceDelete {
		out["when_not_matched_by_source_delete"] = true
	}
	return out
}

// Select is a read-only projection, used by sequencers that emit standalone
// queries (e.g. for validation or preview) rather than a write.
type Select struct {
	base
	Columns      []string
	Distinct     bool
	WhereClause  string
	JoinClause   string
	GroupBy      []string
	HavingClause string
	OrderBy      []string
	Limit        int
	Offset       int
}

func newSelect(c commonFields, f map[string]any) (*Select, error) {
	op := &Select{
		base:         c.newBase(KindSelect),
		Columns:      getStringSlice(f, "columns"),
		Distinct:     getBool(f, "distinct"),
		WhereClause:  getString(f, "where_clause"),
		JoinClause:   getString(f, "join_clause"),
		GroupBy:      getStringSlice(f, "group_by"),
		HavingClause: getString(f, "having_clause"),
		OrderBy:      getStringSlice(f, "order_by"),
		Limit:        getInt(f, "limit"),
		Offset:       getInt(f, "offset"),
	}
	if op.HavingClause != "" && len(op.GroupBy) == 0 {
		return nil, planerr.New(planerr.CodeValidation, "Select having_clause requires group_by").
			WithDetail("object", op.QualifiedName())
	}
	if op.Limit < 0 {
		return nil, planerr.New(planerr.CodeValidation, "Select limit must be > 0 when set").
			WithDetail("object", op.QualifiedName())
	}
	if op.Offset < 0 {
		return nil, planerr.New(planerr.CodeValidation, "Select offset must be >= 0").
			WithDetail("object", op.QualifiedName())
	}
	return op, nil
}

func (op *Select) ToMap() map[string]any {
	out := op.baseToMap()
	if len(op.Columns) > 0 {
		out["columns"] = op.Columns
	}
	if op.Distinct {
		out["distinct"] = true
	}
	if op.WhereClause != "" {
		out["where_clause"] = op.WhereClause
	}
	if op.JoinClause != "" {
		out["join_clause"] = op.JoinClause
	}
	if len(op.GroupBy) > 0 {
		out["group_by"] = op.GroupBy
	}
	if op.HavingClause != "" {
		out["having_clause"] = op.HavingClause
	}
	if len(op.OrderBy) > 0 {
		out["order_by"] = op.OrderBy
	}
	if op.Limit > 0 {
		out["limit"] = op.Limit
	}
	if op.Offset > 0 {
		out["offset"] = op.Offset
	}
	return out
}

// Copy bulk-loads from an external location, preferring the SPARK engine
// when the platform supports it (see internal/dispatch's engine policy).
type Copy struct {
	base
	SourceLocation string
	FileFormat     string
	Columns        []string
	Options        map[string]string
}

func newCopy(c commonFields, f map[string]any) (*Copy, error) {
	op := &Copy{
		base:           c.newBase(KindCopy),
		SourceLocation: getString(f, "source_location"),
		FileFormat:     getString(f, "file_format"),
		Columns:        getStringSlice(f, "columns"),
		Options:        getStringMap(f, "options"),
	}
	if op.SourceLocation == "" {
		return nil, planerr.New(planerr.CodeValidation, "Copy requires source_location").
			WithDetail("object", op.QualifiedName())
	}
	return op, nil
}

func (op *Copy) ToMap() map[string]any {
	out := op.baseToMap()
	out["source_location"] = op.SourceLocation
	if op.FileFormat != "" {
		out["file_format"] = op.FileFormat
	}
	if len(op.Columns) > 0 {
		out["columns"] = op.Columns
	}
	if len(op.Options) > 0 {
		out["options"] = op.Options
	}
	return out
}
