package genome

import "sort"

// DetectionLogic is the class of analytic a detection rule runs.
type DetectionLogic string

const (
	LogicSignature   DetectionLogic = "signature"
	LogicBehavioral  DetectionLogic = "behavioral"
	LogicCorrelation DetectionLogic = "correlation"
	LogicMLAnomaly   DetectionLogic = "ml_anomaly"
)

// ResponseAction is what a defender does once a detection rule fires.
type ResponseAction string

const (
	ResponseAlertOnly        ResponseAction = "alert_only"
	ResponseIsolateHost       ResponseAction = "isolate_host"
	ResponseKillProcess       ResponseAction = "kill_process"
	ResponseRevokeCredential  ResponseAction = "revoke_credential"
	ResponseBlockTraffic      ResponseAction = "block_traffic"
)

// DeployCosts gives the budget cost of fielding one rule of a given
// detection logic. ml_anomaly costs 3, half a point more than its reference-model
// cost of 2.5, reflecting the added operational overhead of tuning a
// learned detector rather than a fixed rule.
var DeployCosts = map[DetectionLogic]float64{
	LogicSignature:   1.0,
	LogicBehavioral:  2.0,
	LogicCorrelation: 3.0,
	LogicMLAnomaly:   3.0,
}

// DefaultFalsePositiveRanges gives the [low, high) false-positive rate band
// a randomly generated rule of a given logic is drawn from. The table is
// keyed by detection logic only; DefaultFalsePositiveRate accepts a data
// source parameter for future refinement but does not yet use it, since no
// per-data-source figures exist to draw from.
var DefaultFalsePositiveRanges = map[DetectionLogic][2]float64{
	LogicSignature:   {0.01, 0.1},
	LogicBehavioral:  {0.05, 0.25},
	LogicCorrelation: {0.02, 0.15},
	LogicMLAnomaly:   {0.05, 0.2},
}

// DefaultFalsePositiveRate returns the [low, high) band for a rule's random
// false-positive rate, given its data source and logic. dataSource is
// currently unused; see DefaultFalsePositiveRanges.
func DefaultFalsePositiveRate(dataSource string, logic DetectionLogic) (low, high float64) {
	r, ok := DefaultFalsePositiveRanges[logic]
	if !ok {
		return 0.05, 0.15
	}
	return r[0], r[1]
}

// DetectionGene is a single detection rule in a defender's configuration.
type DetectionGene struct {
	TechniqueDetected  string
	DataSource         string
	DetectionLogic     DetectionLogic
	Confidence         float64
	FalsePositiveRate  float64
	ResponseAction     ResponseAction
	DeployCost         float64
}

// DefenseGenome is an unordered, budget-constrained set of DetectionGenes.
type DefenseGenome struct {
	Genes  []DetectionGene
	Budget float64
}

// NewDefenseGenome wraps a gene set, defaulting Budget if unset.
func NewDefenseGenome(genes []DetectionGene, budget float64) *DefenseGenome {
	if budget <= 0 {
		budget = 15
	}
	return &DefenseGenome{Genes: genes, Budget: budget}
}

// CoversTechnique reports whether any gene in the set detects a technique.
func (d *DefenseGenome) CoversTechnique(techniqueID string) bool {
	for _, g := range d.Genes {
		if g.TechniqueDetected == techniqueID {
			return true
		}
	}
	return false
}

// DetectionGenesFor returns every gene covering a technique whose data
// source is among the technique's own data sources — a rule watching a data
// source the technique never touches cannot fire against it.
func (d *DefenseGenome) DetectionGenesFor(techniqueID string, techniqueDataSources []string) []DetectionGene {
	var out []DetectionGene
	for _, g := range d.Genes {
		if g.TechniqueDetected == techniqueID && dataSourceMatches(g.DataSource, techniqueDataSources) {
			out = append(out, g)
		}
	}
	return out
}

func dataSourceMatches(geneDataSource string, techniqueDataSources []string) bool {
	for _, ds := range techniqueDataSources {
		if ds == geneDataSource {
			return true
		}
	}
	return false
}

// DetectionProbability computes the probability that a technique attempt
// against a given stealth modifier is detected, as a probabilistic OR
// across every matching rule: P(detect) = 1 - prod(1 - p_i) where
// p_i = confidence_i * (1 - stealthModifier * (1 - stealthBase)) — a
// technique with a high stealth_base dampens the attacker's own stealth
// modifier more than one with a low stealth_base does, so it is the more
// likely of the two to be detected. The
// attributed rule — the one credited with the detection for logging and
// response purposes — is the matching rule with the lowest deploy cost,
// ties broken by the lowest index, for auditability.
func (d *DefenseGenome) DetectionProbability(techniqueID string, techniqueDataSources []string, stealthModifier, stealthBase float64) (float64, *DetectionGene) {
	matching := d.DetectionGenesFor(techniqueID, techniqueDataSources)
	if len(matching) == 0 {
		return 0.0, nil
	}

	survivalProb := 1.0
	for _, g := range matching {
		p := g.Confidence * (1.0 - stealthModifier*(1.0-stealthBase))
		if p < 0 {
			p = 0
		}
		if p > 1 {
			p = 1
		}
		survivalProb *= 1.0 - p
	}
	probability := 1.0 - survivalProb

	attributed := make([]DetectionGene, len(matching))
	copy(attributed, matching)
	sort.SliceStable(attributed, func(i, j int) bool {
		return attributed[i].DeployCost < attributed[j].DeployCost
	})
	return probability, &attributed[0]
}

// TotalFalsePositiveLoad sums the false-positive rate across every deployed
// rule.
func (d *DefenseGenome) TotalFalsePositiveLoad() float64 {
	total := 0.0
	for _, g := range d.Genes {
		total += g.FalsePositiveRate
	}
	return total
}

// TotalDeployCost sums the deploy cost of every rule.
func (d *DefenseGenome) TotalDeployCost() float64 {
	total := 0.0
	for _, g := range d.Genes {
		total += g.DeployCost
	}
	return total
}

// Len reports the number of rules in the genome.
func (d *DefenseGenome) Len() int {
	return len(d.Genes)
}

// Clone returns a deep copy suitable for mutation without aliasing the
// parent genome.
func (d *DefenseGenome) Clone() *DefenseGenome {
	genes := make([]DetectionGene, len(d.Genes))
	copy(genes, d.Genes)
	return &DefenseGenome{Genes: genes, Budget: d.Budget}
}

// DetectedTechniqueSet returns the set of technique IDs this genome has at
// least one rule for, used for diversity and HOF deduplication.
func (d *DefenseGenome) DetectedTechniqueSet() map[string]struct{} {
	set := make(map[string]struct{}, len(d.Genes))
	for _, g := range d.Genes {
		set[g.TechniqueDetected] = struct{}{}
	}
	return set
}
