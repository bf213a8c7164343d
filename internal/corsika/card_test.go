package corsika

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/showerpipe/showerpipe/internal/config"
)

func TestSeedBlock_Deterministic(t *testing.T) {
	a := SeedBlock(42)
	b := SeedBlock(42)
	if a != b {
		t.Error("same base seed should give identical SEED blocks")
	}

	lines := strings.Split(a, "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 SEED lines, got %d", len(lines))
	}
	for _, line := range lines {
		if !strings.HasPrefix(line, "SEED") {
			t.Errorf("line does not start with SEED: %q", line)
		}
	}
}

func TestSeedBlock_Random(t *testing.T) {
	if SeedBlock(0) == SeedBlock(0) {
		t.Error("zero base should give fresh seeds on every call")
	}
}

func TestGenerateCard(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.RunNumber = 12
	cfg.Primary = "gamma"
	cfg.EnergyGeV = 1000
	cfg.ZenithDeg = 20
	cfg.ObsLevelM = 2200
	cfg.Seed = 7

	card, err := GenerateCard(cfg, "./abc123/sim_")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	for _, want := range []string{
		"RUNNR   12",
		"PRMPAR  1",
		"ERANGE  1000  1000",
		"THETAP  20  20",
		"OBSLEV  220000", // 2200 m in cm
		"DIRECT  ./abc123/sim_",
		"EXIT",
	} {
		if !strings.Contains(card, want) {
			t.Errorf("card missing %q", want)
		}
	}

	if strings.Count(card, "SEED") != 4 {
		t.Errorf("expected 4 SEED lines, got %d", strings.Count(card, "SEED"))
	}
	if strings.Contains(card, "{{") {
		t.Error("card contains unexpanded placeholders")
	}
}

func TestGenerateCard_UnknownParticle(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Primary = "tachyon"

	if _, err := GenerateCard(cfg, "./x/sim_"); err == nil {
		t.Error("expected error for unknown particle")
	}
}

func TestGenerateCard_InvalidConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.EnergyGeV = -1

	if _, err := GenerateCard(cfg, "./x/sim_"); err == nil {
		t.Error("expected error for invalid config")
	}
}

func TestGenerateCard_CustomTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "card.inp")
	tmpl := "RUNNR {{.RunNumber}}\nPRMPAR {{.ParticleID}}\nDIRECT {{.OutputPrefix}}\nEXIT\n"
	if err := os.WriteFile(path, []byte(tmpl), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := config.DefaultConfig()
	cfg.RunNumber = 3
	cfg.Paths.Template = path

	card, err := GenerateCard(cfg, "./y/sim_")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if !strings.Contains(card, "RUNNR 3") {
		t.Errorf("custom template not applied: %q", card)
	}
	if !strings.Contains(card, "PRMPAR 14") {
		t.Errorf("expected proton code 14 in card: %q", card)
	}
}

func TestGenerateCard_MissingTemplateFile(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Paths.Template = filepath.Join(t.TempDir(), "missing.inp")

	if _, err := GenerateCard(cfg, "./x/sim_"); err == nil {
		t.Error("expected error for missing template file")
	}
}
