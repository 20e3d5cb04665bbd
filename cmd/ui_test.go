package cmd

import (
	"testing"

	"github.com/fatih/color"

	"github.com/typedex/dexgraph/config"
)

func TestMultiplierText(t *testing.T) {
	cases := map[float64]string{
		0:    "0",
		0.25: "1/4",
		0.5:  "1/2",
		1:    ".",
		2:    "2",
		4:    "4",
	}
	for m, want := range cases {
		if got := multiplierText(m); got != want {
			t.Errorf("multiplierText(%g) = %q, want %q", m, got, want)
		}
	}
}

func TestMultiplierCellPadding(t *testing.T) {
	color.NoColor = true
	if got := multiplierCell("1/2", 4, 0.5); got != "1/2 " {
		t.Errorf("cell = %q, want %q", got, "1/2 ")
	}
}

func TestDeltaCell(t *testing.T) {
	color.NoColor = true
	if got := deltaCell(6, 6); got != "    +6" {
		t.Errorf("deltaCell(6) = %q", got)
	}
	if got := deltaCell(-12, 6); got != "   -12" {
		t.Errorf("deltaCell(-12) = %q", got)
	}
	if got := deltaCell(0, 6); got != "    +0" {
		t.Errorf("deltaCell(0) = %q", got)
	}
}

func TestOverrideAddr(t *testing.T) {
	cfg := config.Default()
	overrideAddr(&cfg, "10.1.2.3:9000")
	if cfg.Server.Host != "10.1.2.3" || cfg.Server.Port != 9000 {
		t.Errorf("addr override gave %s:%d", cfg.Server.Host, cfg.Server.Port)
	}
}
