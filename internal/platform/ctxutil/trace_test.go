package ctxutil

import (
	"context"
	"testing"
)

func TestTraceFields(t *testing.T) {
	if kv := TraceFields(context.Background()); kv != nil {
		t.Fatalf("no trace data: want=nil got=%v", kv)
	}
	ctx := WithTraceData(context.Background(), &TraceData{RequestID: "req-7"})
	kv := TraceFields(ctx)
	if len(kv) != 2 || kv[0] != "request_id" || kv[1] != "req-7" {
		t.Fatalf("request only: want=[request_id req-7] got=%v", kv)
	}
	ctx = WithTraceData(context.Background(), &TraceData{TraceID: "t-1", RequestID: "req-8"})
	if kv := TraceFields(ctx); len(kv) != 4 || kv[1] != "t-1" || kv[3] != "req-8" {
		t.Fatalf("both ids: got=%v", kv)
	}
	if WithTraceData(ctx, nil) != ctx {
		t.Fatalf("nil trace data replaced the context")
	}
}
