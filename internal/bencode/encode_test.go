package bencode

import (
	"bytes"
	"testing"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		name     string
		input    Value
		expected string
	}{
		{"string", Bytes("spam"), "4:spam"},
		{"empty string", Bytes{}, "0:"},
		{"binary string", Bytes{0x00, 0xff}, "2:\x00\xff"},
		{"integer", Int(52), "i52e"},
		{"negative integer", Int(-3), "i-3e"},
		{"zero", Int(0), "i0e"},
		{"empty list", List{}, "le"},
		{"list", List{Bytes("spam"), Bytes("eggs")}, "l4:spam4:eggse"},
		{"nested list", List{List{Int(1)}, List{Bytes("test test")}, List{}}, "lli1eel9:test testelee"},
		{"empty dict", Dict{}, "de"},
		{"sorted dict", Dict{
			{Key: Bytes("cow"), Value: Bytes("moo")},
			{Key: Bytes("spam"), Value: Bytes("eggs")},
		}, "d3:cow3:moo4:spam4:eggse"},
		{"unsorted dict is sorted on output", Dict{
			{Key: Bytes("spam"), Value: Bytes("eggs")},
			{Key: Bytes("cow"), Value: Bytes("moo")},
		}, "d3:cow3:moo4:spam4:eggse"},
		{"keys compare as raw bytes", Dict{
			{Key: Bytes("b"), Value: Int(1)},
			{Key: Bytes("B"), Value: Int(2)},
			{Key: Bytes("ab"), Value: Int(3)},
			{Key: Bytes("a"), Value: Int(4)},
		}, "d1:Bi2e1:ai4e2:abi3e1:bi1ee"},
		{"nested dict", Dict{
			{Key: Bytes("info"), Value: Dict{
				{Key: Bytes("name"), Value: Bytes("a")},
				{Key: Bytes("length"), Value: Int(1)},
			}},
			{Key: Bytes("announce"), Value: Bytes("x")},
		}, "d8:announce1:x4:infod6:lengthi1e4:name1:aee"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Encode(tt.input)
			if string(got) != tt.expected {
				t.Errorf("Encode() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestEncodeDoesNotReorderInput(t *testing.T) {
	d := Dict{
		{Key: Bytes("z"), Value: Int(1)},
		{Key: Bytes("a"), Value: Int(2)},
	}
	Encode(d)
	if string(d[0].Key) != "z" {
		t.Errorf("Encode mutated its input: %v", d)
	}
}

func TestEncodeTo(t *testing.T) {
	var buf bytes.Buffer
	n, err := EncodeTo(&buf, List{Int(1)})
	if err != nil {
		t.Fatalf("EncodeTo() error = %v", err)
	}
	if n != 5 || buf.String() != "li1ee" {
		t.Errorf("EncodeTo() wrote %d bytes %q", n, buf.String())
	}
}

func TestRoundTrip(t *testing.T) {
	inputs := []string{
		"4:spam",
		"i-42e",
		"le",
		"de",
		"l4:spami3ed3:cowl1:a1:beee",
		"d8:announce35:http://tracker.example.com/announce4:infod6:lengthi12345e4:name8:test.txt12:piece lengthi16384e6:pieces20:abcdefghijklmnopqrstee",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			v, _, err := Decode([]byte(input))
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			encoded := Encode(v)
			if string(encoded) != input {
				t.Errorf("Encode(Decode(%q)) = %q", input, encoded)
			}
		})
	}
}

func TestRoundTripNormalizesKeyOrder(t *testing.T) {
	v, _, err := Decode([]byte("d4:spam4:eggs3:cow3:mooe"))
	if err != nil {
		t.Fatal(err)
	}

	again, rest, err := Decode(Encode(v))
	if err != nil {
		t.Fatal(err)
	}
	if len(rest) != 0 {
		t.Errorf("unexpected remainder %q", rest)
	}
	if Equal(again, v) {
		t.Error("expected key order to change")
	}
	if !Equal(again, Canonical(v)) {
		t.Errorf("got %v, want %v", again, Canonical(v))
	}
	if !again.(Dict).Sorted() {
		t.Error("re-decoded dictionary is not sorted")
	}
}

func FuzzRoundTrip(f *testing.F) {
	for _, seed := range []string{
		"4:spam", "i52e", "l4:spam4:eggse", "d3:cow3:moo4:spam4:eggse",
		"d1:bi1e1:ai2ee", "lli1eee", "",
	} {
		f.Add([]byte(seed))
	}

	f.Fuzz(func(t *testing.T, input []byte) {
		v, _, err := DecodeWith(input, Options{MaxDepth: 64})
		if err != nil {
			return
		}

		encoded := Encode(v)
		again, rest, err := DecodeWith(encoded, Options{MaxDepth: 64})
		if err != nil {
			t.Fatalf("re-decode of %q failed: %v", encoded, err)
		}
		if len(rest) != 0 {
			t.Fatalf("re-decode of %q left %q", encoded, rest)
		}
		if !Equal(again, Canonical(v)) {
			t.Fatalf("round trip of %q: got %v, want %v", input, again, Canonical(v))
		}
		if !bytes.Equal(Encode(again), encoded) {
			t.Fatalf("encoding of %q is not stable", input)
		}
	})
}
