package validation

import "testing"

func TestRequired(t *testing.T) {
	v := Violations{}
	Required("titulo", "  ", "obligatorio", v)
	if v["titulo"] != "obligatorio" {
		t.Fatalf("expected violation for blank value, got %q", v["titulo"])
	}
	v = Violations{}
	Required("titulo", "Casa en la playa", "obligatorio", v)
	if !v.Empty() {
		t.Fatalf("unexpected violation: %v", v)
	}
}

func TestAddKeepsFirstMessage(t *testing.T) {
	v := Violations{}
	v.Add("descripcion", "vacía")
	v.Add("descripcion", "muy larga")
	if v["descripcion"] != "vacía" {
		t.Fatalf("expected first message to win, got %q", v["descripcion"])
	}
}

func TestMinCharsCountsRunes(t *testing.T) {
	v := Violations{}
	// 5 runes but more than 5 bytes
	MinChars("password", "ñññññ", 6, "corto", v)
	if v["password"] != "corto" {
		t.Fatalf("expected rune-based length check to flag")
	}
	v = Violations{}
	MinChars("password", "ññññññ", 6, "corto", v)
	if !v.Empty() {
		t.Fatalf("6 runes should pass: %v", v)
	}
}

func TestNumeric(t *testing.T) {
	v := Violations{}
	Numeric("categoria", "2", "numérico", v)
	Numeric("precio", "abc", "numérico", v)
	Numeric("wc", "", "numérico", v)
	if _, ok := v["categoria"]; ok {
		t.Fatalf("valid integer flagged")
	}
	if v["precio"] != "numérico" || v["wc"] != "numérico" {
		t.Fatalf("invalid values not flagged: %v", v)
	}
}

func TestEmail(t *testing.T) {
	cases := map[string]bool{
		"correo@correo.com": true,
		"correo@correo":     false,
		"":                  false,
		"a b@c.com":         false,
	}
	for in, ok := range cases {
		v := Violations{}
		Email("email", in, "inválido", v)
		if ok == !v.Empty() {
			t.Fatalf("email %q: expected valid=%v, violations=%v", in, ok, v)
		}
	}
}

func TestEquals(t *testing.T) {
	v := Violations{}
	Equals("repetir_password", "abc123", "abc124", "no coinciden", v)
	if v["repetir_password"] != "no coinciden" {
		t.Fatalf("mismatch not flagged")
	}
}
