package coevolution

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redqueen-labs/aces/internal/config"
	"github.com/redqueen-labs/aces/internal/core"
	"github.com/redqueen-labs/aces/internal/logger"
	"github.com/redqueen-labs/aces/internal/progress"
	"github.com/redqueen-labs/aces/pkg/attck"
	"github.com/redqueen-labs/aces/pkg/genome"
	metricspkg "github.com/redqueen-labs/aces/pkg/metrics"
	"github.com/redqueen-labs/aces/pkg/network"
	"github.com/redqueen-labs/aces/pkg/operators"
	"github.com/redqueen-labs/aces/pkg/scoring"
)

// stagnationEpsilon is the minimum fitness-range improvement over a
// stagnation_window that counts as progress, carried over from the
// reference implementation's fixed threshold.
const stagnationEpsilon = 0.5

// Engine owns one run's co-evolving attacker and defender populations and
// drives them through the generational loop described in the package
// comment of population.go.
type Engine struct {
	runID    string
	cfg      *config.Config
	registry *attck.Registry
	network  *network.Graph

	dispatcher core.MatchupDispatcher
	scorer     *scoring.MatchScorer
	collector  *metricspkg.Collector
	prom       *metricspkg.Registry
	sink       core.MetricsSink
	store      core.ResultStore
	renderer   *progress.Renderer
	log        *logger.Logger

	attackerOps operators.AttackerOps
	defenderOps operators.DefenderOps

	attackerHOF *AttackerHOF
	defenderHOF *DefenderHOF
}

// Dependencies bundles the optional, best-effort collaborators a run may be
// wired with. Dispatcher, Registry, and Network are required; Sink, Store,
// and Prometheus are nil-safe.
type Dependencies struct {
	Registry   *attck.Registry
	Network    *network.Graph
	Dispatcher core.MatchupDispatcher
	Sink       core.MetricsSink
	Store      core.ResultStore
	Prometheus *metricspkg.Registry
	Logger     *logger.Logger
}

// NewEngine builds an Engine ready to Run a co-evolution from scratch. Each
// Engine is tagged with a fresh run id, attached to the wired logger (if
// any) so every log line from this run can be correlated.
func NewEngine(cfg *config.Config, deps Dependencies) *Engine {
	runID := uuid.New().String()
	log := deps.Logger
	if log != nil {
		log = log.WithRunID(runID)
	}
	return &Engine{
		runID:       runID,
		cfg:         cfg,
		registry:    deps.Registry,
		network:     deps.Network,
		dispatcher:  deps.Dispatcher,
		scorer:      scoring.NewMatchScorer(cfg.Scoring),
		collector:   metricspkg.NewCollector(deps.Registry),
		prom:        deps.Prometheus,
		sink:        deps.Sink,
		store:       deps.Store,
		renderer:    progress.NewRenderer(cfg.NumGenerations),
		log:         log,
		attackerOps: operators.NewAttackerOps(deps.Registry, cfg),
		defenderOps: operators.NewDefenderOps(deps.Registry, cfg),
		attackerHOF: NewAttackerHOF(cfg.HallOfFameSize),
		defenderHOF: NewDefenderHOF(cfg.HallOfFameSize),
	}
}

// Result is the final state of a completed (or cancelled) run: the last
// generation actually evaluated and each side's Hall of Fame.
type Result struct {
	RunID          string
	GenerationsRun int
	AttackerHOF    *AttackerHOF
	DefenderHOF    *DefenderHOF
	Metrics        []metricspkg.GenerationMetrics
}

// Run executes the generational loop until num_generations completes or ctx
// is cancelled, persisting the final state through the wired ResultStore if
// one was provided. Cancellation between generations ends the run cleanly
// with whatever generations already completed.
func (e *Engine) Run(ctx context.Context) (*Result, error) {
	rng := rand.New(rand.NewSource(e.cfg.Seed))

	attackers := InitAttackerPopulation(e.attackerOps, e.cfg.PopulationSize, rng)
	defenders := InitDefenderPopulation(e.defenderOps, e.cfg.PopulationSize, rng)

	start := time.Now()
	generationsRun := 0

	for gen := 0; gen < e.cfg.NumGenerations; gen++ {
		if err := ctx.Err(); err != nil {
			break
		}

		attackerFitness, err := e.evaluateAttackers(ctx, gen, attackers, defenders, rng)
		if err != nil {
			return nil, fmt.Errorf("coevolution: generation %d attacker evaluation: %w", gen, err)
		}
		defenderFitness, err := e.evaluateDefenders(ctx, gen, attackers, defenders, rng)
		if err != nil {
			return nil, fmt.Errorf("coevolution: generation %d defender evaluation: %w", gen, err)
		}

		m := e.collector.RecordGeneration(gen, attackers, attackerFitness, defenders, defenderFitness,
			e.attackerHOF.Top1(), e.defenderHOF.Top1())

		if e.prom != nil {
			e.prom.Observe(m)
		}
		e.publishMetrics(ctx, gen, m)

		if e.log != nil {
			e.log.LogGenerationProgress(ctx, gen, m.AttackerEffectiveness.Max, m.DefenderCoverage.Max, map[string]interface{}{
				"unique_kill_chains": m.UniqueKillChains,
			})
		}

		admittedAttackers := e.attackerHOF.Update(attackers, attackerFitness)
		admittedDefenders := e.defenderHOF.Update(defenders, defenderFitness)
		if e.log != nil {
			e.log.LogHOFUpdate(ctx, "attacker", gen, e.attackerHOF.Len(), admittedAttackers)
			e.log.LogHOFUpdate(ctx, "defender", gen, e.defenderHOF.Len(), admittedDefenders)
		}

		offspringAttackers, inheritedAttackers := VaryAttackers(e.attackerOps, attackers, attackerFitness,
			e.cfg.PopulationSize, e.cfg.CrossoverRate, e.cfg.MutationRate, rng)
		offspringDefenders, inheritedDefenders := VaryDefenders(e.defenderOps, defenders, defenderFitness,
			e.cfg.PopulationSize, e.cfg.CrossoverRate, e.cfg.MutationRate, rng)

		offspringAttackers = injectAttackerElites(offspringAttackers, inheritedAttackers, e.attackerHOF)
		offspringDefenders = injectDefenderElites(offspringDefenders, inheritedDefenders, e.defenderHOF)

		stagnant := e.collector.DetectStagnation(e.cfg.StagnationWindow, stagnationEpsilon)
		if stagnant {
			if e.prom != nil {
				e.prom.RecordStagnation()
			}
			var nAttackers, nDefenders int
			offspringAttackers, nAttackers = InjectImmigrantsAttackers(e.attackerOps, offspringAttackers, e.cfg.ImmigrantFraction, rng)
			offspringDefenders, nDefenders = InjectImmigrantsDefenders(e.defenderOps, offspringDefenders, e.cfg.ImmigrantFraction, rng)
			if e.log != nil {
				e.log.LogStagnationEvent(ctx, "attacker", e.cfg.StagnationWindow, e.cfg.StagnationWindow)
				e.log.LogStagnationEvent(ctx, "defender", e.cfg.StagnationWindow, e.cfg.StagnationWindow)
				e.log.LogImmigrantInjection(ctx, "attacker", gen, nAttackers)
				e.log.LogImmigrantInjection(ctx, "defender", gen, nDefenders)
			}
			if e.prom != nil {
				e.prom.RecordImmigrantInjection("attacker", nAttackers)
				e.prom.RecordImmigrantInjection("defender", nDefenders)
			}
		}

		attackers = offspringAttackers
		defenders = offspringDefenders
		generationsRun++

		if e.renderer != nil {
			fmt.Println(e.renderer.Render(gen, m.AttackerEffectiveness.Max, m.DefenderCoverage.Max, time.Since(start), stagnant))
		}
	}

	if err := e.persist(ctx); err != nil {
		return nil, err
	}

	return &Result{
		RunID:          e.runID,
		GenerationsRun: generationsRun,
		AttackerHOF:    e.attackerHOF,
		DefenderHOF:    e.defenderHOF,
		Metrics:        e.collector.History,
	}, nil
}

// evaluateAttackers scores every attacker against its sampled defender
// opponents, aggregating each attacker's per-matchup fitness into one
// vector via scoring.AggregateFitness.
func (e *Engine) evaluateAttackers(ctx context.Context, gen int, attackers []*genome.AttackGenome, defenders []*genome.DefenseGenome, rng *rand.Rand) ([]core.Fitness, error) {
	jobs := make([]core.MatchupJob, 0, len(attackers)*e.cfg.MatchupsPerEval)
	counts := make([]int, len(attackers))

	for i, a := range attackers {
		opponents, ids := sampleDefenderOpponents(defenders, e.defenderHOF, e.cfg.MatchupsPerEval, e.cfg.HOFOpponentFraction, rng)
		counts[i] = len(opponents)
		for j, d := range opponents {
			jobs = append(jobs, core.MatchupJob{
				Generation: gen,
				Attacker:   a,
				AttackerID: attackerID(i),
				Defender:   d,
				DefenderID: ids[j],
				Network:    e.network,
			})
		}
	}

	results, err := e.dispatcher.Dispatch(ctx, jobs)
	if err != nil {
		return nil, err
	}

	fitness := make([]core.Fitness, len(attackers))
	offset := 0
	for i := range attackers {
		batch := results[offset : offset+counts[i]]
		offset += counts[i]
		fitness[i] = scoring.AggregateFitness(e.scoreAttackerBatch(batch))
	}
	return fitness, nil
}

func (e *Engine) scoreAttackerBatch(batch []*core.MatchResult) []core.Fitness {
	scores := make([]core.Fitness, 0, len(batch))
	for _, r := range batch {
		if r == nil {
			continue
		}
		scores = append(scores, e.scorer.AttackerFitness(r))
	}
	return scores
}

// evaluateDefenders scores every defender against its sampled attacker
// opponents. A defender's fitness pairs aggregated match coverage (primary)
// with its own budget efficiency (secondary), computed from the genome
// directly rather than from any single matchup.
func (e *Engine) evaluateDefenders(ctx context.Context, gen int, attackers []*genome.AttackGenome, defenders []*genome.DefenseGenome, rng *rand.Rand) ([]core.Fitness, error) {
	jobs := make([]core.MatchupJob, 0, len(defenders)*e.cfg.MatchupsPerEval)
	counts := make([]int, len(defenders))

	for i, d := range defenders {
		opponents, ids := sampleAttackerOpponents(attackers, e.attackerHOF, e.cfg.MatchupsPerEval, e.cfg.HOFOpponentFraction, rng)
		counts[i] = len(opponents)
		for j, a := range opponents {
			jobs = append(jobs, core.MatchupJob{
				Generation: gen,
				Attacker:   a,
				AttackerID: ids[j],
				Defender:   d,
				DefenderID: defenderID(i),
				Network:    e.network,
			})
		}
	}

	results, err := e.dispatcher.Dispatch(ctx, jobs)
	if err != nil {
		return nil, err
	}

	fitness := make([]core.Fitness, len(defenders))
	offset := 0
	for i, d := range defenders {
		batch := results[offset : offset+counts[i]]
		offset += counts[i]

		scores := make([]core.Fitness, 0, len(batch))
		for _, r := range batch {
			if r == nil {
				continue
			}
			scores = append(scores, e.scorer.DefenderFitness(r))
		}
		coverage := scoring.AggregateFitness(scores).Primary
		efficiency := scoring.GenomeEfficiency(e.cfg.Scoring, d)
		fitness[i] = core.Fitness{Primary: coverage, Secondary: efficiency}
	}
	return fitness, nil
}

// publishMetrics serializes and forwards a generation's metrics to the
// wired MetricsSink, if any, on a best-effort basis — a broadcast failure
// never aborts the run.
func (e *Engine) publishMetrics(ctx context.Context, gen int, m metricspkg.GenerationMetrics) {
	if e.sink == nil {
		return
	}
	payload, err := metricsPayload(m)
	if err != nil {
		if e.log != nil {
			e.log.LogError(ctx, err, "metrics_encode", "generation", gen)
		}
		return
	}
	if err := e.sink.Publish(ctx, gen, payload); err != nil && e.log != nil {
		e.log.LogError(ctx, err, "metrics_publish", "generation", gen)
	}
}

// persist writes the run's config, generation log, and Hall of Fame to the
// wired ResultStore, if any.
func (e *Engine) persist(ctx context.Context) error {
	if e.store == nil {
		return nil
	}

	cfgBytes, err := configPayload(e.cfg)
	if err != nil {
		return fmt.Errorf("coevolution: marshal config: %w", err)
	}
	if err := e.store.SaveConfig(ctx, cfgBytes); err != nil {
		return fmt.Errorf("coevolution: save config: %w", err)
	}

	logBytes, err := generationLogPayload(e.collector.History)
	if err != nil {
		return fmt.Errorf("coevolution: marshal generation log: %w", err)
	}
	if err := e.store.SaveGenerationLog(ctx, logBytes); err != nil {
		return fmt.Errorf("coevolution: save generation log: %w", err)
	}

	attackerHOFBytes, defenderHOFBytes, err := hofPayloads(e.attackerHOF, e.defenderHOF)
	if err != nil {
		return fmt.Errorf("coevolution: marshal hall of fame: %w", err)
	}
	if err := e.store.SaveHallOfFame(ctx, attackerHOFBytes, defenderHOFBytes); err != nil {
		return fmt.Errorf("coevolution: save hall of fame: %w", err)
	}
	return nil
}

func attackerID(i int) string { return "attacker#" + strconv.Itoa(i) }
func defenderID(i int) string { return "defender#" + strconv.Itoa(i) }
