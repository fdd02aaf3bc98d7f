package canonical

import (
	"encoding/json"
	"testing"

	"github.com/goliatone/go-payware/core"
)

func TestCanonicalize_SortsKeysRegardlessOfInsertionOrder(t *testing.T) {
	first := json.RawMessage(`{"currency":"EUR","amount":"10.00","reasonL1":"x"}`)
	second := json.RawMessage(`{"reasonL1":"x","amount":"10.00","currency":"EUR"}`)
	expected := `{"amount":"10.00","currency":"EUR","reasonL1":"x"}`

	for _, input := range []any{first, second, map[string]any{
		"reasonL1": "x",
		"currency": "EUR",
		"amount":   "10.00",
	}} {
		got, err := String(input)
		if err != nil {
			t.Fatalf("canonicalize: %v", err)
		}
		if got != expected {
			t.Fatalf("canonical mismatch:\ngot:  %s\nwant: %s", got, expected)
		}
	}
}

func TestCanonicalize_SortsNestedObjectsAndKeepsArrayOrder(t *testing.T) {
	value := map[string]any{
		"trData": map[string]any{
			"currency": "EUR",
			"amount":   "25.00",
			"items": []any{
				map[string]any{"qty": 2, "name": "b"},
				map[string]any{"qty": 1, "name": "a"},
			},
		},
		"options": map[string]any{"timeToLive": 120, "callbackUrl": "https://merchant.example/cb"},
	}

	got, err := String(value)
	if err != nil {
		t.Fatalf("canonicalize: %v", err)
	}
	expected := `{"options":{"callbackUrl":"https://merchant.example/cb","timeToLive":120},` +
		`"trData":{"amount":"25.00","currency":"EUR","items":[{"name":"b","qty":2},{"name":"a","qty":1}]}}`
	if got != expected {
		t.Fatalf("canonical mismatch:\ngot:  %s\nwant: %s", got, expected)
	}
}

func TestCanonicalize_IsDeterministic(t *testing.T) {
	value := map[string]any{"z": 1, "a": []any{true, nil, "s"}, "m": map[string]any{"y": 1.5, "b": "c"}}

	first, err := Canonicalize(value)
	if err != nil {
		t.Fatalf("canonicalize first: %v", err)
	}
	for i := 0; i < 20; i++ {
		next, err := Canonicalize(value)
		if err != nil {
			t.Fatalf("canonicalize again: %v", err)
		}
		if string(next) != string(first) {
			t.Fatalf("serialization not deterministic:\nfirst: %s\nnext:  %s", first, next)
		}
	}
}

func TestCanonicalize_Scalars(t *testing.T) {
	cases := []struct {
		name  string
		input any
		want  string
	}{
		{name: "nil", input: nil, want: `null`},
		{name: "empty raw", input: json.RawMessage(" "), want: `null`},
		{name: "string", input: "EUR", want: `"EUR"`},
		{name: "bool", input: true, want: `true`},
		{name: "integer", input: 1754909100, want: `1754909100`},
		{name: "float", input: 10.50, want: `10.5`},
		{name: "raw scalar", input: []byte(` 42 `), want: `42`},
	}
	for _, tc := range cases {
		got, err := String(tc.input)
		if err != nil {
			t.Fatalf("%s: canonicalize: %v", tc.name, err)
		}
		if got != tc.want {
			t.Fatalf("%s: got %s want %s", tc.name, got, tc.want)
		}
	}
}

func TestCanonicalize_NoWhitespaceOrHTMLEscaping(t *testing.T) {
	raw := json.RawMessage("{\n  \"reason\" : \"<b>R&D</b>\",\n  \"list\" : [ 1 , 2 ]\n}")
	got, err := String(raw)
	if err != nil {
		t.Fatalf("canonicalize: %v", err)
	}
	expected := `{"list":[1,2],"reason":"<b>R&D</b>"}`
	if got != expected {
		t.Fatalf("canonical mismatch:\ngot:  %s\nwant: %s", got, expected)
	}

	fromMap, err := String(map[string]any{"reason": "<b>R&D</b>", "list": []int{1, 2}})
	if err != nil {
		t.Fatalf("canonicalize map: %v", err)
	}
	if fromMap != expected {
		t.Fatalf("expected map input to match raw input, got %s", fromMap)
	}
}

func TestCanonicalize_StructsFollowJSONTags(t *testing.T) {
	type transaction struct {
		Currency string `json:"currency"`
		Amount   string `json:"amount"`
		Reason   string `json:"reasonL1,omitempty"`
	}
	got, err := String(transaction{Currency: "EUR", Amount: "1.00"})
	if err != nil {
		t.Fatalf("canonicalize struct: %v", err)
	}
	if got != `{"amount":"1.00","currency":"EUR"}` {
		t.Fatalf("unexpected struct canonical form %s", got)
	}
}

func TestCanonicalize_RejectsInvalidInput(t *testing.T) {
	_, err := Canonicalize(json.RawMessage(`{"a":`))
	if err == nil {
		t.Fatalf("expected invalid json error")
	}
	_, err = Canonicalize([]byte(`1,2`))
	if err == nil {
		t.Fatalf("expected invalid json error for multiple values")
	}
	_, err = Canonicalize(map[string]any{"ch": make(chan int)})
	if err == nil {
		t.Fatalf("expected unsupported type error")
	}
	if !core.IsBadInput(err) {
		t.Fatalf("expected bad input text code, got %v", err)
	}
}

func TestCanonicalize_RejectsIntegersBeyondExactRange(t *testing.T) {
	_, err := String(map[string]any{"id": int64(9007199254740993)})
	if !core.IsBadInput(err) {
		t.Fatalf("expected bad input for integer above 2^53, got %v", err)
	}
	_, err = String(json.RawMessage(`{"id":9007199254740993}`))
	if !core.IsBadInput(err) {
		t.Fatalf("expected bad input for raw integer above 2^53, got %v", err)
	}
	_, err = String(json.RawMessage(`[-99999999999999999999]`))
	if !core.IsBadInput(err) {
		t.Fatalf("expected bad input for integer outside int64, got %v", err)
	}

	got, err := String(map[string]any{"hi": int64(9007199254740992), "lo": int64(-9007199254740992), "f": 1.5})
	if err != nil {
		t.Fatalf("canonicalize boundary integers: %v", err)
	}
	if got != `{"f":1.5,"hi":9007199254740992,"lo":-9007199254740992}` {
		t.Fatalf("unexpected boundary canonical form %s", got)
	}
}

func TestEqual_ComparesCanonicalForms(t *testing.T) {
	same, err := Equal(
		map[string]any{"a": 1, "b": map[string]any{"c": "d"}},
		json.RawMessage(`{"b":{"c":"d"},"a":1}`),
	)
	if err != nil {
		t.Fatalf("equal: %v", err)
	}
	if !same {
		t.Fatalf("expected equal canonical forms")
	}
}
