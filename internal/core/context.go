package core

import "github.com/google/uuid"

// ExecutionRequestContext correlates a planning/execution request across log
// lines: a generated request ID, optional user and correlation IDs, and a
// free-form attribute bag. It is attached to operations and stages after
// planning, never before — see Operation.AttachContext.
type ExecutionRequestContext struct {
	RequestID     string
	UserID        string
	CorrelationID string
	Attributes    map[string]string
}

// NewExecutionRequestContext creates a context with a freshly generated
// request ID, grounded on the original's uuid.uuid4() call in its
// observability context module.
func NewExecutionRequestContext(userID, correlationID string) *ExecutionRequestContext {
	return &ExecutionRequestContext{
		RequestID:     uuid.NewString(),
		UserID:        userID,
		CorrelationID: correlationID,
		Attributes:    map[string]string{},
	}
}

// TelemetryFields derives a flat string map prefixed by "ctx." suitable for
// log enrichment.
func (c *ExecutionRequestContext) TelemetryFields() map[string]string {
	if c == nil {
		return nil
	}
	fields := map[string]string{"ctx.request_id": c.RequestID}
	if c.UserID != "" {
		fields["ctx.user_id"] = c.UserID
	}
	if c.CorrelationID != "" {
		fields["ctx.correlation_id"] = c.CorrelationID
	}
	for k, v := range c.Attributes {
		fields["ctx."+k] = v
	}
	return fields
}

// ToMap encodes the context for embedding as _cte_request_context or the
// plan-level "context" field.
func (c *ExecutionRequestContext) ToMap() map[string]any {
	if c == nil {
		return nil
	}
	out := map[string]any{"request_id": c.RequestID}
	if c.UserID != "" {
		out["user_id"] = c.UserID
	}
	if c.CorrelationID != "" {
		out["correlation_id"] = c.CorrelationID
	}
	if len(c.Attributes) > 0 {
		attrs := map[string]any{}
		for k, v := range c.Attributes {
			attrs[k] = v
		}
		out["attributes"] = attrs
	}
	return out
}

// contextFromMap decodes a context map produced by ToMap.
func contextFromMap(raw map[string]any) *ExecutionRequestContext {
	if raw == nil {
		return nil
	}
	c := &ExecutionRequestContext{
		RequestID:     getString(raw, "request_id"),
		UserID:        getString(raw, "user_id"),
		CorrelationID: getString(raw, "correlation_id"),
		Attributes:    map[string]string{},
	}
	if attrs, ok := raw["attributes"].(map[string]any); ok {
		for k, v := range attrs {
			if s, ok := v.(string); ok {
				c.Attributes[k] = s
			}
		}
	}
	return c
}
