package family

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestParseYAMLHouseholdShapes(t *testing.T) {
	data := `
grandfather:
  name: G
  wives:
    - name: W
      children: [A, B]
siblings_of_grandfather:
  - name: OnlySpouse
    wife: SW
  - name: SpouseAndKids
    wife: SW2
    children: [K1]
  - name: ManyWives
    wives:
      - name: MW1
      - name: MW2
        children: [K2]
  - name: KidsOnly
    children: [K3, K4]
  - name: Alone
`
	r, err := Parse([]byte(data), FormatYAML)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(r.Siblings) != 5 {
		t.Fatalf("expected 5 siblings, got %d", len(r.Siblings))
	}

	if h, ok := r.Siblings[0].Household.(Spouse); !ok || h.Name != "SW" || h.Children != nil {
		t.Errorf("sibling 0: got %#v", r.Siblings[0].Household)
	}
	if h, ok := r.Siblings[1].Household.(Spouse); !ok || !reflect.DeepEqual(h.Children, []string{"K1"}) {
		t.Errorf("sibling 1: got %#v", r.Siblings[1].Household)
	}
	if h, ok := r.Siblings[2].Household.(Wives); !ok || len(h) != 2 {
		t.Errorf("sibling 2: got %#v", r.Siblings[2].Household)
	}
	if h, ok := r.Siblings[3].Household.(Children); !ok || len(h) != 2 {
		t.Errorf("sibling 3: got %#v", r.Siblings[3].Household)
	}
	if r.Siblings[4].Household != nil {
		t.Errorf("sibling 4: expected no household, got %#v", r.Siblings[4].Household)
	}

	want := []string{"G", "W", "A", "B", "OnlySpouse", "SW", "SpouseAndKids", "SW2", "K1",
		"ManyWives", "MW1", "MW2", "K2", "KidsOnly", "K3", "K4", "Alone"}
	if got := Flatten(r); !reflect.DeepEqual(got, want) {
		t.Errorf("Flatten = %v", got)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		format Format
		want   error
	}{
		{"missing grandfather", `siblings_of_grandfather: []`, FormatYAML, ErrNoGrandfather},
		{"no wives", "grandfather:\n  name: G\n", FormatYAML, ErrNoWives},
		{"grandfather with wife", "grandfather:\n  name: G\n  wife: W\n  wives: [{name: X}]\n", FormatYAML, ErrGrandfatherShape},
		{
			"wife and wives",
			"grandfather: {name: G, wives: [{name: W}]}\nsiblings_of_grandfather:\n  - {name: S, wife: A, wives: [{name: B}]}\n",
			FormatYAML, ErrAmbiguousHousehold,
		},
		{
			"wives and children",
			`{"grandfather":{"name":"G","wives":[{"name":"W"}]},"siblings_of_grandfather":[{"name":"S","wives":[{"name":"B"}],"children":["C"]}]}`,
			FormatJSON, ErrAmbiguousHousehold,
		},
		{"bad format", `{}`, Format("toml"), ErrUnsupportedFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data), tt.format)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestParseRejectsMalformedInput(t *testing.T) {
	if _, err := Parse([]byte("grandfather: [unclosed"), FormatYAML); err == nil {
		t.Error("expected yaml syntax error")
	}
	if _, err := Parse([]byte(`{"grandfather":`), FormatJSON); err == nil {
		t.Error("expected json syntax error")
	}
	if _, err := Parse([]byte(`{"grandfather":{"name":"G","wives":[{"name":"W"}]},"cousins":[]}`), FormatJSON); err == nil {
		t.Error("expected unknown field error")
	}
	if _, err := Parse([]byte("grandfather:\n  name: G\n  bogus: 1\n  wives: [{name: W}]\n"), FormatYAML); err == nil {
		t.Error("expected unknown yaml key error")
	}
	// A misspelled household key must not drop the sibling's family.
	misspelled := "grandfather: {name: G, wives: [{name: W}]}\nsiblings_of_grandfather:\n  - name: S\n    wifes: [{name: A}]\n"
	if _, err := Parse([]byte(misspelled), FormatYAML); err == nil || !strings.Contains(err.Error(), "wifes") {
		t.Errorf("expected error naming the misspelled key, got %v", err)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	orig := MustDefault()
	for _, format := range []Format{FormatYAML, FormatJSON} {
		var buf bytes.Buffer
		if err := Encode(&buf, orig, format); err != nil {
			t.Fatalf("Encode(%s): %v", format, err)
		}
		back, err := Parse(buf.Bytes(), format)
		if err != nil {
			t.Fatalf("Parse(%s): %v\n%s", format, err, buf.String())
		}
		if !reflect.DeepEqual(Flatten(back), Flatten(orig)) {
			t.Errorf("%s round trip changed names", format)
		}
		if _, ok := back.Siblings[0].Household.(Spouse); !ok {
			t.Errorf("%s round trip lost the spouse household", format)
		}
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := map[string]Format{
		"family.yaml": FormatYAML,
		"x/FAMILY.YML": FormatYAML,
		"f.json":       FormatJSON,
	}
	for path, want := range tests {
		got, err := FormatFromPath(path)
		if err != nil || got != want {
			t.Errorf("FormatFromPath(%q) = %q, %v", path, got, err)
		}
	}
	if _, err := FormatFromPath("family.txt"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestParseErrorNamesSibling(t *testing.T) {
	data := "grandfather: {name: G, wives: [{name: W}]}\nsiblings_of_grandfather:\n  - {name: Trouble, wife: A, wives: [{name: B}]}\n"
	_, err := Parse([]byte(data), FormatYAML)
	if err == nil || !strings.Contains(err.Error(), "Trouble") {
		t.Errorf("expected error to name the sibling, got %v", err)
	}
}
