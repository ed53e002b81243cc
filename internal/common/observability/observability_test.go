package observability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/attribute"
)

func TestNilObservabilityIsSafe(t *testing.T) {
	var o *Observability
	ctx := context.Background()

	spanCtx, span := o.StartSpan(ctx, "SearchProperties")
	assert.Equal(t, ctx, spanCtx)
	assert.Empty(t, TraceID(spanCtx))
	span.End()

	o.RecordOperation(ctx, "SearchProperties", "success")
	o.RecordDuration(ctx, "SearchProperties", time.Millisecond)
	o.Shutdown()
}

func TestNew_RecordsAndShutsDown(t *testing.T) {
	o := New("property-search-test")
	ctx := context.Background()

	spanCtx, span := o.StartSpan(ctx, "GetLocationTrends", attribute.String("location", "Austin"))
	assert.True(t, span.SpanContext().IsValid())
	assert.Len(t, TraceID(spanCtx), 32)
	span.End()

	o.RecordOperation(ctx, "GetLocationTrends", "degraded")
	o.RecordDuration(ctx, "GetLocationTrends", 12*time.Millisecond)
	o.Shutdown()
}
