package coevolution

import (
	"encoding/json"

	"github.com/redqueen-labs/aces/internal/config"
	"github.com/redqueen-labs/aces/internal/resultstore"
	metricspkg "github.com/redqueen-labs/aces/pkg/metrics"
)

// configPayload encodes a run's resolved configuration the way
// resultstore.Store.SaveConfig expects: config.json, not the YAML form
// config.Config.SaveYAML produces for a reproducibility sidecar file.
func configPayload(cfg *config.Config) ([]byte, error) {
	return json.MarshalIndent(cfg, "", "  ")
}

// generationLogPayload encodes a run's full metrics history the same way
// metrics.Collector.ToJSON does, but as bytes rather than a file write, so
// the engine can hand it straight to a core.ResultStore.
func generationLogPayload(history []metricspkg.GenerationMetrics) ([]byte, error) {
	return json.MarshalIndent(history, "", "  ")
}

// metricsPayload encodes one generation's metrics for the core.MetricsSink
// broadcast — a plain JSON object, independent of the generation log's
// array-of-all-generations shape.
func metricsPayload(m metricspkg.GenerationMetrics) ([]byte, error) {
	return json.Marshal(m)
}

// hofPayloads converts both Halls of Fame into the JSON bytes
// resultstore.Store.SaveHallOfFame expects.
func hofPayloads(attackerHOF *AttackerHOF, defenderHOF *DefenderHOF) (attackers, defenders []byte, err error) {
	attackerGenomes := attackerHOF.Genomes()
	attackerFitnesses := attackerHOF.Fitnesses()
	attackerEntries := make([]resultstore.AttackerHOFEntry, len(attackerGenomes))
	for i, g := range attackerGenomes {
		attackerEntries[i] = resultstore.NewAttackerHOFEntry(g, attackerFitnesses[i])
	}
	attackers, err = resultstore.MarshalAttackerHOF(attackerEntries)
	if err != nil {
		return nil, nil, err
	}

	defenderGenomes := defenderHOF.Genomes()
	defenderFitnesses := defenderHOF.Fitnesses()
	defenderEntries := make([]resultstore.DefenderHOFEntry, len(defenderGenomes))
	for i, d := range defenderGenomes {
		defenderEntries[i] = resultstore.NewDefenderHOFEntry(d, defenderFitnesses[i])
	}
	defenders, err = resultstore.MarshalDefenderHOF(defenderEntries)
	if err != nil {
		return nil, nil, err
	}
	return attackers, defenders, nil
}
