package core

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRoundTripEveryVariant builds one operation per kind, encodes it
// through JSON, decodes it back, and asserts the semantically material
// fields survive — the round-trip invariant from §8.
func TestRoundTripEveryVariant(t *testing.T) {
	cases := []struct {
		name   string
		kind   OperationKind
		fields map[string]any
	}{
		{"create_table_ctas", KindCreateTable, map[string]any{"select_query": "SELECT * FROM bronze.raw_a", "recreate": true}},
		{"drop_table", KindDropTable, map[string]any{"if_exists": true}},
		{"insert", KindInsert, map[string]any{"source_query": "SELECT * FROM silver.a", "mode": "overwrite"}},
		{"update", KindUpdate, map[string]any{"set_columns": map[string]any{"x": "1"}, "where_clause": "id = 1"}},
		{"delete", KindDelete, map[string]any{"where_clause": "id = 1"}},
		{"merge", KindMerge, map[string]any{"source_query": "SELECT 1", "merge_condition": "t.id=s.id", "when_matched_update": "x=1"}},
		{"select", KindSelect, map[string]any{"columns": []any{"a", "b"}, "limit": 10.0}},
		{"copy", KindCopy, map[string]any{"source_location": "abfss://x/y", "file_format": "parquet"}},
		{"create_view", KindCreateOrAlterView, map[string]any{"select_query": "SELECT 1"}},
		{"drop_view", KindDropView, map[string]any{"if_exists": true}},
		{"create_stats", KindCreateStatistics, map[string]any{"columns": []any{"a"}, "with_fullscan": true}},
		{"create_schema", KindCreateSchema, map[string]any{"if_not_exists": true}},
		{"drop_schema", KindDropSchema, map[string]any{"cascade": true}},
		{"execute_sql", KindExecuteSQL, map[string]any{"sql": "SELECT 1", "returns_results": true, "result_format": "SCALAR"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			op, err := Build(tc.kind, "silver", "obj", EngineSQL, map[string]string{"k": "v"}, &QueryMetadata{CreateStats: true}, tc.fields)
			require.NoError(t, err)

			encoded := Encode(op)
			data, err := json.Marshal(encoded)
			require.NoError(t, err)

			var decodedRaw map[string]any
			require.NoError(t, json.Unmarshal(data, &decodedRaw))

			decoded, err := Decode(decodedRaw)
			require.NoError(t, err)

			assert.Equal(t, op.Kind(), decoded.Kind())
			assert.Equal(t, op.Schema(), decoded.Schema())
			assert.Equal(t, op.Object(), decoded.Object())
			assert.Equal(t, op.EngineHint(), decoded.EngineHint())
			assert.Equal(t, op.Metadata().CreateStats, decoded.Metadata().CreateStats)
			assert.Equal(t, Encode(op), Encode(decoded))
		})
	}
}

func TestEncodeStagedInjectsStagingKeys(t *testing.T) {
	op, err := Build(KindInsert, "silver", "b", EngineUnspecified, nil, nil, map[string]any{"source_query": "SELECT 1"})
	require.NoError(t, err)
	op.AttachContext(NewExecutionRequestContext("u", "c"))

	m := EncodeStaged(op, 2, 1)
	assert.Equal(t, 2, m["_cte_stage"])
	assert.Equal(t, 1, m["_cte_position"])
	require.Contains(t, m, "_cte_request_context")

	data, err := json.Marshal(m)
	require.NoError(t, err)
	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))

	stage, position, ok := StagePosition(raw)
	require.True(t, ok)
	assert.Equal(t, 2, stage)
	assert.Equal(t, 1, position)

	decoded, err := Decode(raw)
	require.NoError(t, err)
	require.NotNil(t, decoded.Context())
	assert.Equal(t, "u", decoded.Context().UserID)
}
