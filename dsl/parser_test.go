package dsl_test

import (
	"strings"
	"testing"

	"github.com/ByLCY/monopage/dsl"
)

const sampleDSL = `
doc CV v1 {
  meta {
    title: "CV"
    keywords: [
      "resume"
      "mono"
    ]
  }

  resources {
    font Mono regular {
      src: "embed:lmmono10-regular"
    }

    color Accent = #0F62FE
  }

  fragment Footer {
    text { "page ${page}" }
  }

  page A4 portrait padding 10mm {
    h1: Accent
    frame {
      vsplit -1 {
        top { ftext { "<h1><bo>Hello, ${user.name}!" } }
        bottom { use Footer }
      }
    }
  }
}
`

func TestParseDocument(t *testing.T) {
	doc, err := dsl.ParseString(sampleDSL)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	if doc.Name != "CV" {
		t.Fatalf("expected document name CV, got %s", doc.Name)
	}
	if doc.Version != "v1" {
		t.Fatalf("expected version v1, got %s", doc.Version)
	}
	if len(doc.Sections) != 4 {
		t.Fatalf("expected 4 sections, got %d", len(doc.Sections))
	}

	kinds := make([]string, 0, len(doc.Sections))
	for _, s := range doc.Sections {
		kinds = append(kinds, s.Kind())
	}
	if got := strings.Join(kinds, ","); got != "meta,resources,fragment,page" {
		t.Fatalf("unexpected section kinds: %s", got)
	}

	meta := doc.Sections[0].Meta
	title := meta.Statements[0].Assignment
	if title == nil || title.Key != "title" || string(*title.Value.String) != "CV" {
		t.Fatalf("expected title assignment, got %+v", meta.Statements[0])
	}
	keywords := meta.Statements[1].Assignment
	if keywords == nil || keywords.Value.List == nil || len(keywords.Value.List.Items) != 2 {
		t.Fatalf("expected 2 keywords, got %+v", keywords)
	}

	color := doc.Sections[1].Resources.Statements[1].Command
	if color == nil || color.Name != "color" || len(color.Args) != 3 || color.Args[2].Type != "Color" {
		t.Fatalf("unexpected color resource: %+v", color)
	}

	fragment := doc.Sections[2].Fragment
	if fragment.Name != "Footer" || len(fragment.Block.Statements) != 1 {
		t.Fatalf("unexpected fragment: %+v", fragment)
	}

	page := doc.Sections[3].Page
	if page.Spec.Size != "A4" {
		t.Fatalf("expected page size A4, got %s", page.Spec.Size)
	}
	if len(page.Spec.Params) != 3 || page.Spec.Params[2].Value != "10mm" {
		t.Fatalf("unexpected page params: %+v", page.Spec.Params)
	}

	h1 := page.Block.Statements[0].Assignment
	if h1 == nil || h1.Key != "h1" || h1.Value.Ref == nil || *h1.Value.Ref != "Accent" {
		t.Fatalf("expected h1 assignment, got %+v", page.Block.Statements[0])
	}

	frame := page.Block.Statements[1].Command
	if frame == nil || frame.Name != "frame" || frame.Block == nil {
		t.Fatalf("expected frame command, got %+v", page.Block.Statements[1])
	}
	split := frame.Block.Statements[0].Command
	if split == nil || split.Name != "vsplit" || len(split.Args) != 1 {
		t.Fatalf("expected vsplit command, got %+v", frame.Block.Statements[0])
	}
	if split.Args[0].Type != "Number" || split.Args[0].Value != "-1" {
		t.Fatalf("negative split should lex as a single number, got %+v", split.Args[0])
	}

	top := split.Block.Statements[0].Command
	ftext := top.Block.Statements[0].Command
	if ftext == nil || ftext.Name != "ftext" || ftext.Block.Statements[0].Text == nil {
		t.Fatalf("expected ftext with literal, got %+v", top.Block.Statements[0])
	}
	if got := string(*ftext.Block.Statements[0].Text); got != "<h1><bo>Hello, ${user.name}!" {
		t.Fatalf("unexpected ftext literal %q", got)
	}

	use := split.Block.Statements[1].Command.Block.Statements[0].Command
	if use == nil || use.Name != "use" || use.Args[0].Value != "Footer" {
		t.Fatalf("expected use command, got %+v", use)
	}
}

func TestParseRejectsUnclosedBlock(t *testing.T) {
	if _, err := dsl.ParseString(`doc A v1 { page A4 { frame { text "x" } }`); err == nil {
		t.Fatalf("expected parse error for unclosed block")
	}
}

func TestParseColorValues(t *testing.T) {
	doc, err := dsl.ParseString("doc A v1 {\n page A4 {\n # note: hash comments still work\n fg: #abc\n h1: #A0B1C2\n h2: #00ff00cc\n }\n}")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	stmts := doc.Sections[0].Page.Block.Statements
	if len(stmts) != 3 {
		t.Fatalf("expected 3 statements, got %d", len(stmts))
	}
	for i, want := range []string{"#abc", "#A0B1C2", "#00ff00cc"} {
		v := stmts[i].Assignment.Value
		if v.Color == nil || string(*v.Color) != want {
			t.Fatalf("statement %d: expected colour %s, got %+v", i, want, v)
		}
	}
}

func TestParseRejectsBadColorLength(t *testing.T) {
	for _, c := range []string{"#abcd", "#abcde", "#1234567"} {
		src := "doc A v1 {\n page A4 {\n background: " + c + "\n fg: #fff\n }\n}"
		_, err := dsl.ParseString(src)
		if err == nil {
			t.Fatalf("%s: expected an error instead of a comment", c)
		}
		if !strings.Contains(err.Error(), c) {
			t.Fatalf("%s: error should name the colour, got %v", c, err)
		}
	}
}

func TestParseRejectsInlineObject(t *testing.T) {
	if _, err := dsl.ParseString("doc A v1 {\n meta {\n title: { a: 1 }\n }\n}"); err == nil {
		t.Fatalf("expected parse error for an object value")
	}
}

func TestParseCommandArgsStopAtColon(t *testing.T) {
	if _, err := dsl.ParseString("doc A v1 { page A4 { frame x: 1 } }"); err == nil {
		t.Fatalf("expected parse error for a colon inside command arguments")
	}
}

func TestParseBlankLinesWithIndentation(t *testing.T) {
	doc, err := dsl.ParseString("doc A v1 {\n  page A4 {\n    text \"a\"\n    \n\t\n    text \"b\"\n  }\n}\n")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if n := len(doc.Sections[0].Page.Block.Statements); n != 2 {
		t.Fatalf("expected 2 statements, got %d", n)
	}
}
