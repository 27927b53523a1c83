package timemachine

import "testing"

func TestParseName(t *testing.T) {
	cases := []struct {
		name string
		want Variable
	}{
		{"x", Variable{BaseName: "x", Version: 0}},
		{"x#1", Variable{BaseName: "x", Version: 1}},
		{"x#-1", Variable{BaseName: "x", Version: -1}},
		{"x#12", Variable{BaseName: "x", Version: 12}},
	}
	for _, c := range cases {
		got := parseName(c.name)
		if got != c.want {
			t.Errorf("parseName(%q) = %+v, want %+v", c.name, got, c.want)
		}
	}
}

func TestVariableNameRoundTrip(t *testing.T) {
	for _, v := range []Variable{
		{BaseName: "x", Version: 0},
		{BaseName: "y", Version: 3},
		{BaseName: "m", Version: -2},
	} {
		if got := parseName(v.Name()); got != v {
			t.Errorf("round trip of %+v produced %+v", v, got)
		}
	}
}
