package sim

import (
	"testing"
)

func TestFmt1(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "0.0"},
		{3.14, "3.1"},
		{0.95, "1.0"},
		{1.96, "2.0"},
		{9.99, "10.0"},
		{-1.96, "-2.0"},
		{-0.04, "-0.0"},
	}
	for _, c := range cases {
		if got := fmt1(c.in); got != c.want {
			t.Fatalf("fmt1(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestItoa(t *testing.T) {
	if itoa(0) != "0" || itoa(-42) != "-42" || itoa(1000) != "1000" {
		t.Fatalf("unexpected itoa output: %q %q %q", itoa(0), itoa(-42), itoa(1000))
	}
}
