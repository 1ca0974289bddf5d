package binding

import (
	"encoding/json"
	"testing"
)

func decode(t *testing.T, s string) any {
	t.Helper()
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		t.Fatalf("invalid test json: %v", err)
	}
	return v
}

func TestInterpolateResolvesPaths(t *testing.T) {
	data := decode(t, `{"user":{"name":"Ada","langs":["go","rust"]},"years":12,"ratio":0.5}`)
	got := Interpolate("${user.name} · ${user.langs[1]} · ${years} · ${ratio}", data)
	if want := "Ada · rust · 12 · 0.5"; got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestInterpolateKeepsUnknownPlaceholders(t *testing.T) {
	data := decode(t, `{"a":1}`)
	if got := Interpolate("x ${missing} ${a[0]}", data); got != "x ${missing} ${a[0]}" {
		t.Fatalf("unexpected %q", got)
	}
	if got := Interpolate("${a}", nil); got != "${a}" {
		t.Fatalf("nil data should keep placeholder, got %q", got)
	}
}

func TestInterpolateFallback(t *testing.T) {
	data := decode(t, `{"title":"CV"}`)
	if got := Interpolate("${title|untitled} ${subtitle | none}", data); got != "CV none" {
		t.Fatalf("unexpected %q", got)
	}
	if got := Interpolate("${x|}", nil); got != "" {
		t.Fatalf("empty fallback should yield empty string, got %q", got)
	}
}

func TestLookupNestedArrays(t *testing.T) {
	data := decode(t, `{"m":[[1,2],[3,4]]}`)
	v, ok := Lookup(data, "m[1][0]")
	if !ok || v.(float64) != 3 {
		t.Fatalf("unexpected %v %v", v, ok)
	}
	if _, ok := Lookup(data, "m[5]"); ok {
		t.Fatalf("out of range index should fail")
	}
	if _, ok := Lookup(data, "m[x]"); ok {
		t.Fatalf("non numeric index should fail")
	}
}
