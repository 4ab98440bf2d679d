package actorctx

import (
	"context"
	"testing"
)

func TestUserIDRoundTrip(t *testing.T) {
	if _, ok := UserIDFrom(context.Background()); ok {
		t.Fatalf("empty context should carry no actor")
	}

	if _, ok := UserIDFrom(WithUserID(context.Background(), "")); ok {
		t.Fatalf("blank user id should not count as an actor")
	}

	got, ok := UserIDFrom(WithUserID(context.Background(), "u-1"))
	if !ok || got != "u-1" {
		t.Fatalf("got %q, %v", got, ok)
	}
}
