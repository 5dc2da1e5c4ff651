package core

import "medalc/internal/planerr"

// CreateTable is a CTAS (SelectQuery set) or DDL (Columns set) table
// creation, optionally dropping and recreating an existing table/location
// first.
type CreateTable struct {
	base
	SelectQuery string
	Columns     []string
	Location    string
	Recreate    bool
	FileFormat  string
	Partitions  []string
	ClusterBy   []string
	Properties  map[string]string
}

func newCreateTable(c commonFields, f map[string]any) (*CreateTable, error) {
	op := &CreateTable{
		base:        c.newBase(KindCreateTable),
		SelectQuery: getString(f, "select_query"),
		Columns:     getStringSlice(f, "columns"),
		Location:    getString(f, "location"),
		Recreate:    getBool(f, "recreate"),
		FileFormat:  getString(f, "file_format"),
		Partitions:  getStringSlice(f, "partitions"),
		ClusterBy:   getStringSlice(f, "cluster_by"),
		Properties:  getStringMap(f, "properties"),
	}
	hasSelect := op.SelectQuery != ""
	hasColumns := len(op.Columns) > 0
	if hasSelect == hasColumns {
		return nil, planerr.New(planerr.CodeValidation, "CreateTable requires exactly one of select_query or columns").
			WithDetail("object", op.QualifiedName())
	}
	return op, nil
}

func (op *CreateTable) ToMap() map[string]any {
	out := op.baseToMap()
	if op.SelectQuery != "" {
		out["select_query"] = op.SelectQuery
	}
	if len(op.Columns) > 0 {
		out["columns"] = op.Columns
	}
	if op.Location != "" {
		out["location"] = op.Location
	}
	if op.Recreate {
		out["recreate"] = true
	}
	if op.FileFormat != "" {
		out["file_format"] = op.FileFormat
	}
	if len(op.Partitions) > 0 {
		out["partitions"] = op.Partitions
	}
	if len(op.ClusterBy) > 0 {
		out["cluster_by"] = op.ClusterBy
	}
	if len(op.Properties) > 0 {
		out["properties"] = op.Properties
	}
	return out
}

// DropTable drops a table, optionally tolerating its absence.
type DropTable struct {
	base
	IfExists bool
}

func newDropTable(c commonFields, f map[string]any) (*DropTable, error) {
	return &DropTable{base: c.newBase(KindDropTable), IfExists: getBool(f, "if_exists")}, nil
}

func (op *DropTable) ToMap() map[string]any {
	out := op.baseToMap()
	if op.IfExists {
		out["if_exists"] = true
	}
	return out
}

// CreateOrAlterView creates or replaces a view from SelectQuery.
type CreateOrAlterView struct {
	base
	SelectQuery       string
	WithSchemaBinding bool
	Columns           []string
}

func newCreateOrAlterView(c commonFields, f map[string]any) (*CreateOrAlterView, error) {
	op := &CreateOrAlterView{
		base:              c.newBase(KindCreateOrAlterView),
		SelectQuery:       getString(f, "select_query"),
		WithSchemaBinding: getBool(f, "with_schemabinding"),
		Columns:           getStringSlice(f, "columns"),
	}
	if op.SelectQuery == "" {
		return nil, planerr.New(planerr.CodeValidation, "CreateOrAlterView requires select_query").
			WithDetail("object", op.QualifiedName())
	}
	return op, nil
}

func (op *CreateOrAlterView) ToMap() map[string]any {
	out := op.baseToMap()
	out["select_query"] = op.SelectQuery
	if op.WithSchemaBinding {
		out["with_schemabinding"] = true
	}
	if len(op.Columns) > 0 {
		out["columns"] = op.Columns
	}
	return out
}

// DropView drops a view, optionally tolerating its absence.
type DropView struct {
	base
	IfExists bool
}

func newDropView(c commonFields, f map[string]any) (*DropView, error) {
	return &DropView{base: c.newBase(KindDropView), IfExists: getBool(f, "if_exists")}, nil
}

func (op *DropView) ToMap() map[string]any {
	out := op.baseToMap()
	if op.IfExists {
		out["if_exists"] = true
	}
	return out
}

// CreateSchema creates a schema/namespace.
type CreateSchema struct {
	base
	IfNotExists   bool
	Authorization string
}

func newCreateSchema(c commonFields, f map[string]any) (*CreateSchema, error) {
	return &CreateSchema{
		base:          c.newBase(KindCreateSchema),
		IfNotExists:   getBool(f, "if_not_exists"),
		Authorization: getString(f, "authorization"),
	}, nil
}

func (op *CreateSchema) ToMap() map[string]any {
	out := op.baseToMap()
	if op.IfNotExists {
		out["if_not_exists"] = true
	}
	if op.Authorization != "" {
		out["authorization"] = op.Authorization
	}
	return out
}

// DropSchema drops a schema/namespace, optionally cascading to its contents.
type DropSchema struct {
	base
	IfExists bool
	Cascade  bool
}

func newDropSchema(c commonFields, f map[string]any) (*DropSchema, error) {
	return &DropSchema{
		base:     c.newBase(KindDropSchema),
		IfExists: getBool(f, "if_exists"),
		Cascade:  getBool(f, "cascade"),
	}, nil
}

func (op *DropSchema) ToMap() map[string]any {
	out := op.baseToMap()
	if op.IfExists {
		out["if_exists"] = true
	}
	if op.Cascade {
		out["cascade"] = true
	}
	return out
}
