package auth

import "testing"

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  Maria.Rossi@Example.COM "); got != "maria.rossi@example.com" {
		t.Errorf("NormalizeEmail = %q", got)
	}
}

func TestValidatePassword(t *testing.T) {
	cases := []struct {
		password string
		valid    bool
	}{
		{"Password1", true},
		{"Sh0rt", false},
		{"alllowercase1", false},
		{"ALLUPPERCASE1", false},
		{"NoDigitsHere", false},
		{"LongEnough22", true},
	}
	for _, tc := range cases {
		msg := ValidatePassword(tc.password)
		if tc.valid && msg != "" {
			t.Errorf("password %q rejected: %s", tc.password, msg)
		}
		if !tc.valid && msg == "" {
			t.Errorf("password %q accepted", tc.password)
		}
	}
}

func TestValidateItalianPhone(t *testing.T) {
	valid := []string{"3331234567", "+39 3331234567", "+393331234567", "333123456"}
	for _, phone := range valid {
		if !ValidateItalianPhone(phone) {
			t.Errorf("phone %q rejected", phone)
		}
	}

	invalid := []string{"0212345678", "12345", "+44 3331234567", "abc"}
	for _, phone := range invalid {
		if ValidateItalianPhone(phone) {
			t.Errorf("phone %q accepted", phone)
		}
	}
}

func TestValidateCodiceFiscale(t *testing.T) {
	valid := []string{"RSSMRA85T10A562S", "RSSMRA85M01H501Q", "bnclra90a41f205i"}
	for _, cf := range valid {
		if !ValidateCodiceFiscale(cf) {
			t.Errorf("codice fiscale %q rejected", cf)
		}
	}

	invalid := []string{
		"RSSMRA85T10A562Z", // wrong check character
		"RSSMRA85T10A56",   // too short
		"1234567890123456", // wrong shape
		"",
	}
	for _, cf := range invalid {
		if ValidateCodiceFiscale(cf) {
			t.Errorf("codice fiscale %q accepted", cf)
		}
	}
}

func TestValidatePartitaIVA(t *testing.T) {
	valid := []string{"12345678903", "01114601006", "00743110157"}
	for _, piva := range valid {
		if !ValidatePartitaIVA(piva) {
			t.Errorf("partita IVA %q rejected", piva)
		}
	}

	invalid := []string{"12345678901", "1234567890", "abcdefghijk", ""}
	for _, piva := range invalid {
		if ValidatePartitaIVA(piva) {
			t.Errorf("partita IVA %q accepted", piva)
		}
	}
}

func TestValidateCodiceSDI(t *testing.T) {
	if !ValidateCodiceSDI("M5UXCR1") {
		t.Error("valid SDI code rejected")
	}
	if !ValidateCodiceSDI("0000000") {
		t.Error("numeric SDI code rejected")
	}
	if ValidateCodiceSDI("TOOLONG1") || ValidateCodiceSDI("SHORT") {
		t.Error("malformed SDI code accepted")
	}
}
