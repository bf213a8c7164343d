package corsika

import (
	_ "embed"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"text/template"
	"time"

	"github.com/showerpipe/showerpipe/internal/config"
)

//go:embed card_template.inp
var defaultTemplate string

// cardParams are the values substituted into the input card template.
type cardParams struct {
	RunNumber    int
	Seeds        string
	ParticleID   int
	EnergyGeV    float64
	ZenithDeg    float64
	ObsLevelCM   float64
	OutputPrefix string
}

// seedSequences is the number of independent RNG sequences CORSIKA
// seeds from the input card.
const seedSequences = 4

// SeedBlock generates the SEED lines of the input card. A zero base
// yields fresh seeds on every call, a non-zero base a reproducible set.
func SeedBlock(base int64) string {
	src := rand.NewSource(base)
	if base == 0 {
		src = rand.NewSource(time.Now().UnixNano())
	}
	rng := rand.New(src)

	lines := make([]string, seedSequences)
	for i := range lines {
		lines[i] = fmt.Sprintf("SEED    %d    %d    0     seed for random number sequence %d",
			10_000_000+rng.Int63n(1_000_000_000-10_000_000),
			100+rng.Int63n(900),
			i+1,
		)
	}
	return strings.Join(lines, "\n")
}

// GenerateCard fills the input card template from the run
// configuration. The observation level moves from metres to the
// centimetres CORSIKA expects; outputPrefix becomes the DIRECT keyword
// and must end with the file prefix CORSIKA appends to (e.g. "./abc/sim_").
func GenerateCard(cfg *config.Config, outputPrefix string) (string, error) {
	if err := cfg.Validate(); err != nil {
		return "", fmt.Errorf("corsika: invalid run config: %w", err)
	}

	id, err := ParticleID(cfg.Primary)
	if err != nil {
		return "", err
	}

	text := defaultTemplate
	if cfg.Paths.Template != "" {
		data, err := os.ReadFile(cfg.Paths.Template)
		if err != nil {
			return "", fmt.Errorf("corsika: reading card template: %w", err)
		}
		text = string(data)
	}

	tmpl, err := template.New("card").Option("missingkey=error").Parse(text)
	if err != nil {
		return "", fmt.Errorf("corsika: parsing card template: %w", err)
	}

	var sb strings.Builder
	err = tmpl.Execute(&sb, cardParams{
		RunNumber:    cfg.RunNumber,
		Seeds:        SeedBlock(cfg.Seed),
		ParticleID:   id,
		EnergyGeV:    cfg.EnergyGeV,
		ZenithDeg:    cfg.ZenithDeg,
		ObsLevelCM:   cfg.ObsLevelM * 100,
		OutputPrefix: outputPrefix,
	})
	if err != nil {
		return "", fmt.Errorf("corsika: filling card template: %w", err)
	}
	return sb.String(), nil
}
