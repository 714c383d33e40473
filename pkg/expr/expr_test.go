package expr

import "testing"

func TestFromCurly(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		wantOK bool
	}{
		{name: "plain expression", text: "${{ foo }}", wantOK: true},
		{name: "surrounding whitespace", text: "  ${{ foo  }} \t", wantOK: true},
		{name: "empty body", text: "${{}}", wantOK: true},
		{name: "not an expression", text: "not an expression", wantOK: false},
		{name: "missing end", text: "${{ missing end ", wantOK: false},
		{name: "missing beginning", text: "missing beginning }}", wantOK: false},
		{name: "empty string", text: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, ok := FromCurly(tt.text)
			if ok != tt.wantOK {
				t.Fatalf("FromCurly(%q) ok = %v, want %v", tt.text, ok, tt.wantOK)
			}
			if ok && e.Raw() != tt.text {
				t.Errorf("Raw() = %q, want the original text %q", e.Raw(), tt.text)
			}
		})
	}
}

func TestFromBare(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		wantOK bool
	}{
		{name: "bare condition", text: "github.ref == 'refs/heads/main'", wantOK: true},
		{name: "already curly", text: "${{ foo }}", wantOK: false},
		{name: "curly with whitespace", text: "  ${{ foo }} ", wantOK: false},
		{name: "half-fenced", text: "${{ foo", wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := FromBare(tt.text); ok != tt.wantOK {
				t.Fatalf("FromBare(%q) ok = %v, want %v", tt.text, ok, tt.wantOK)
			}
		})
	}
}

func TestViews(t *testing.T) {
	// Outer whitespace is trimmed; interior whitespace survives untouched.
	e, ok := FromCurly("  ${{ foo  }} \t")
	if !ok {
		t.Fatal("expected FromCurly to accept the input")
	}
	if got := e.Curly(); got != "${{ foo  }}" {
		t.Errorf("Curly() = %q, want %q", got, "${{ foo  }}")
	}
	if got := e.Bare(); got != "foo" {
		t.Errorf("Bare() = %q, want %q", got, "foo")
	}

	interior, ok := FromCurly("${{ foo\t\nbar }}")
	if !ok {
		t.Fatal("expected FromCurly to accept the input")
	}
	if got := interior.Bare(); got != "foo\t\nbar" {
		t.Errorf("Bare() = %q, want interior whitespace preserved", got)
	}
}

func TestBareConstructionSynthesizesFences(t *testing.T) {
	e, ok := FromBare(" failure() ")
	if !ok {
		t.Fatal("expected FromBare to accept the input")
	}
	if got := e.Curly(); got != "${{ failure() }}" {
		t.Errorf("Curly() = %q, want %q", got, "${{ failure() }}")
	}
	if got := e.Bare(); got != "failure()" {
		t.Errorf("Bare() = %q, want %q", got, "failure()")
	}
	if got := e.Raw(); got != " failure() " {
		t.Errorf("Raw() = %q, want the original text", got)
	}
}

func TestCurlyRoundTrip(t *testing.T) {
	inputs := []string{"${{ foo }}", "  ${{ matrix.os }}", "${{ a  &&  b }}\t"}
	for _, input := range inputs {
		e, ok := FromCurly(input)
		if !ok {
			t.Fatalf("FromCurly(%q) rejected valid input", input)
		}
		again, ok := FromCurly(e.Curly())
		if !ok {
			t.Fatalf("FromCurly did not round-trip %q", e.Curly())
		}
		if again.Curly() != e.Curly() || again.Bare() != e.Bare() {
			t.Errorf("round-trip of %q changed the expression: %q vs %q", input, again.Curly(), e.Curly())
		}
	}
}
