package ctxutil

import (
	"context"
	"reflect"
	"testing"

	"github.com/google/uuid"
)

func TestLogFields(t *testing.T) {
	if got := LogFields(context.Background()); len(got) != 0 {
		t.Fatalf("empty context: %v", got)
	}

	ctx := WithTraceData(context.Background(), &TraceData{TraceID: "t-1", RequestID: "r-1"})
	want := []interface{}{"trace_id", "t-1", "request_id", "r-1"}
	if got := LogFields(ctx); !reflect.DeepEqual(got, want) {
		t.Fatalf("trace only: want=%v got=%v", want, got)
	}

	actor := uuid.New()
	ctx = WithRequestData(ctx, &RequestData{UserID: actor})
	want = append(want, "actor_id", actor.String())
	if got := LogFields(ctx); !reflect.DeepEqual(got, want) {
		t.Fatalf("with actor: want=%v got=%v", want, got)
	}
}
