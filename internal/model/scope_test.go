package model

import (
	"context"
	"testing"
)

func TestScopeContext(t *testing.T) {
	if _, ok := GetScopeFromContext(context.Background()); ok {
		t.Fatal("empty context should not carry a scope")
	}

	ctx := SetScopeToContext(context.Background(), Scope{UserID: "alice", ClientName: "claude-desktop"})
	sc, ok := GetScopeFromContext(ctx)
	if !ok {
		t.Fatal("expected scope in context")
	}
	if sc.UserID != "alice" || sc.ClientName != "claude-desktop" {
		t.Errorf("unexpected scope: %+v", sc)
	}
	if sc.IsZero() {
		t.Error("scope with user id should not be zero")
	}
	if !(Scope{}).IsZero() {
		t.Error("empty scope should be zero")
	}
}
