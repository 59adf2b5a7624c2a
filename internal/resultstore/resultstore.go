// Package resultstore persists a co-evolution run's durable artifacts to a
// flat result directory: config, generation log, and both Halls of Fame.
package resultstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/redqueen-labs/aces/internal/core"
	"github.com/redqueen-labs/aces/pkg/genome"
)

const (
	configFile             = "config.json"
	evolutionLogFile       = "evolution_log.json"
	hallOfFameAttackerFile = "hall_of_fame_attackers.json"
	hallOfFameDefenderFile = "hall_of_fame_defenders.json"
)

// Store is a core.ResultStore that writes each artifact as its own JSON
// file under a run's output directory, matching the reference
// implementation's save_results layout exactly.
type Store struct {
	dir string
}

// NewStore creates the output directory (if absent) and returns a Store
// bound to it.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create result directory %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// SaveConfig writes the run's resolved configuration as config.json.
func (s *Store) SaveConfig(ctx context.Context, data []byte) error {
	return s.write(configFile, data)
}

// SaveGenerationLog writes the full per-generation metrics history as
// evolution_log.json.
func (s *Store) SaveGenerationLog(ctx context.Context, data []byte) error {
	return s.write(evolutionLogFile, data)
}

// SaveHallOfFame writes both populations' Hall of Fame snapshots.
func (s *Store) SaveHallOfFame(ctx context.Context, attackers, defenders []byte) error {
	if err := s.write(hallOfFameAttackerFile, attackers); err != nil {
		return err
	}
	return s.write(hallOfFameDefenderFile, defenders)
}

func (s *Store) write(name string, data []byte) error {
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// Dir returns the run's output directory.
func (s *Store) Dir() string {
	return s.dir
}

// attackerGeneRecord is one gene's JSON shape inside an attacker Hall of
// Fame entry.
type attackerGeneRecord struct {
	TechniqueID     string                `json:"technique_id"`
	TargetSelector  genome.TargetSelector `json:"target_selector"`
	StealthModifier float64               `json:"stealth_modifier"`
}

// AttackerHOFEntry is one attacker genome's Hall of Fame record.
type AttackerHOFEntry struct {
	KillChain []string             `json:"kill_chain"`
	Fitness   [2]float64           `json:"fitness"`
	Genes     []attackerGeneRecord `json:"genes"`
}

// detectionRuleRecord is one rule's JSON shape inside a defender Hall of
// Fame entry.
type detectionRuleRecord struct {
	TechniqueDetected string                `json:"technique_detected"`
	DetectionLogic    genome.DetectionLogic `json:"detection_logic"`
	Confidence        float64               `json:"confidence"`
	ResponseAction    genome.ResponseAction `json:"response_action"`
	FalsePositiveRate float64               `json:"false_positive_rate"`
}

// DefenderHOFEntry is one defender genome's Hall of Fame record.
type DefenderHOFEntry struct {
	Rules   []detectionRuleRecord `json:"rules"`
	Fitness [2]float64            `json:"fitness"`
}

// NewAttackerHOFEntry builds the JSON-ready record for one attacker genome
// and its aggregate fitness.
func NewAttackerHOFEntry(g *genome.AttackGenome, fitness core.Fitness) AttackerHOFEntry {
	genes := make([]attackerGeneRecord, len(g.Genes))
	for i, gene := range g.Genes {
		genes[i] = attackerGeneRecord{
			TechniqueID:     gene.TechniqueID,
			TargetSelector:  gene.TargetSelector,
			StealthModifier: gene.StealthModifier,
		}
	}
	return AttackerHOFEntry{
		KillChain: g.AttackChain(),
		Fitness:   [2]float64{fitness.Primary, fitness.Secondary},
		Genes:     genes,
	}
}

// NewDefenderHOFEntry builds the JSON-ready record for one defender genome
// and its aggregate fitness.
func NewDefenderHOFEntry(d *genome.DefenseGenome, fitness core.Fitness) DefenderHOFEntry {
	rules := make([]detectionRuleRecord, len(d.Genes))
	for i, gene := range d.Genes {
		rules[i] = detectionRuleRecord{
			TechniqueDetected: gene.TechniqueDetected,
			DetectionLogic:    gene.DetectionLogic,
			Confidence:        gene.Confidence,
			ResponseAction:    gene.ResponseAction,
			FalsePositiveRate: gene.FalsePositiveRate,
		}
	}
	return DefenderHOFEntry{
		Rules:   rules,
		Fitness: [2]float64{fitness.Primary, fitness.Secondary},
	}
}

// MarshalAttackerHOF and MarshalDefenderHOF encode a Hall of Fame slice to
// the JSON bytes SaveHallOfFame expects.
func MarshalAttackerHOF(entries []AttackerHOFEntry) ([]byte, error) {
	return json.MarshalIndent(entries, "", "  ")
}

func MarshalDefenderHOF(entries []DefenderHOFEntry) ([]byte, error) {
	return json.MarshalIndent(entries, "", "  ")
}
