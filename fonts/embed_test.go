package fonts

import "testing"

func TestLoadBuiltinVariants(t *testing.T) {
	for _, name := range []string{Regular, Bold, Italic, "embed:" + BoldItalic} {
		data, err := Load(name)
		if err != nil {
			t.Fatalf("load %s: %v", name, err)
		}
		if len(data) == 0 {
			t.Fatalf("font %s is empty", name)
		}
	}
}

func TestLoadUnknownFont(t *testing.T) {
	if _, err := Load("embed:Inter-Regular"); err == nil {
		t.Fatalf("expected error for unknown font")
	}
	if got := len(Names()); got != 4 {
		t.Fatalf("expected 4 builtin fonts, got %d", got)
	}
}
