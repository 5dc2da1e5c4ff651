package core

import "medalc/internal/planerr"

// CreateStatistics computes statistics on one (exactly one, enforced by the
// query builder before dispatch — see internal/querybuilder) column, with
// mutually exclusive sampling knobs.
type CreateStatistics struct {
	base
	Columns       []string
	StatsName     string
	SamplePercent *float64
	WithFullscan  bool
	AutoDiscover  bool
}

func newCreateStatistics(c commonFields, f map[string]any) (*CreateStatistics, error) {
	op := &CreateStatistics{
		base:          c.newBase(KindCreateStatistics),
		Columns:       getStringSlice(f, "columns"),
		StatsName:     getString(f, "stats_name"),
		SamplePercent: getFloatPtr(f, "sample_percent"),
		WithFullscan:  getBool(f, "with_fullscan"),
		AutoDiscover:  getBool(f, "auto_discover"),
	}
	if op.SamplePercent != nil && op.WithFullscan {
		return nil, planerr.New(planerr.CodeValidation, "CreateStatistics sample_percent and with_fullscan are mutually exclusive").
			WithDetail("object", op.QualifiedName())
	}
	return op, nil
}

func (op *CreateStatistics) ToMap() map[string]any {
	out := op.baseToMap()
	if len(op.Columns) > 0 {
		out["columns"] = op.Columns
	}
	if op.StatsName != "" {
		out["stats_name"] = op.StatsName
	}
	if op.SamplePercent != nil {
		out["sample_percent"] = *op.SamplePercent
	}
	if op.WithFullscan {
		out["with_fullscan"] = true
	}
	if op.AutoDiscover {
		out["auto_discover"] = true
	}
	return out
}

// ExecuteSQL passes raw SQL through, optionally fetching results shaped per
// ResultFormat. The query builder rejects bodies containing a fixed
// deny-list of dangerous tokens (see core.ContainsForbiddenSQLToken).
type ExecuteSQL struct {
	base
	SQL            string
	ReturnsResults bool
	ResultFormat   ResultFormat
	Limit          int
}

func newExecuteSQL(c commonFields, f map[string]any) (*ExecuteSQL, error) {
	op := &ExecuteSQL{
		base:           c.newBase(KindExecuteSQL),
		SQL:            getString(f, "sql"),
		ReturnsResults: getBool(f, "returns_results"),
		ResultFormat:   ResultFormat(getString(f, "result_format")),
		Limit:          getInt(f, "limit"),
	}
	return op, nil
}

func (op *ExecuteSQL) ToMap() map[string]any {
	out := op.baseToMap()
	out["sql"] = op.SQL
	if op.ReturnsResults {
		out["returns_results"] = true
	}
	if op.ResultFormat != "" {
		out["result_format"] = string(op.ResultFormat)
	}
	if op.Limit > 0 {
		out["limit"] = op.Limit
	}
	return out
}
