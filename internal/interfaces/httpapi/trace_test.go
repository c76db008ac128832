package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestShouldCreateHTTPAPISpan(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{name: "handler span", in: "httpapi.Handler.FinalizeMatch", want: true},
		{name: "middleware span", in: "httpapi.RequestLogging", want: false},
		{name: "helper span", in: "httpapi.writeError", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := shouldCreateHTTPAPISpan(tt.in)
			if got != tt.want {
				t.Fatalf("shouldCreateHTTPAPISpan(%q)=%v want=%v", tt.in, got, tt.want)
			}
		})
	}
}

func TestPathAttrs(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/v1/matches/m1/scores", nil)
	r.SetPathValue("matchID", "m1")

	attrs := pathAttrs(r, "matchID", "contestID")
	if len(attrs) != 1 {
		t.Fatalf("expected one attribute, got %d", len(attrs))
	}
	if string(attrs[0].Key) != "http.path.matchID" || attrs[0].Value.AsString() != "m1" {
		t.Fatalf("unexpected attribute: %v", attrs[0])
	}
}

func TestStartSpan_NoParentReturnsNoop(t *testing.T) {
	ctx, span := startSpan(context.Background(), "httpapi.Handler.GetTeam")
	defer span.End()

	if span.SpanContext().IsValid() {
		t.Fatalf("expected no span without a parent")
	}
	if ctx != context.Background() {
		t.Fatalf("expected context to be unchanged")
	}
}
