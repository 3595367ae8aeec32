package httpadapter

import (
	"strings"
	"testing"

	"github.com/cloudwego/hertz/pkg/app"
)

func TestApplyCORSHeaders(t *testing.T) {
	ctx := &app.RequestContext{}
	applyCORSHeaders(ctx)

	checks := map[string]string{
		"Access-Control-Allow-Origin":  "*",
		"Access-Control-Allow-Methods": corsAllowMethods,
		"Access-Control-Allow-Headers": corsAllowHeaders,
		"Access-Control-Max-Age":       "600",
	}
	for header, want := range checks {
		if got := string(ctx.Response.Header.Peek(header)); got != want {
			t.Fatalf("%s = %q, want %q", header, got, want)
		}
	}
	if !strings.Contains(corsAllowHeaders, heroIDHeader) {
		t.Fatalf("hero id header missing from %q", corsAllowHeaders)
	}
}
