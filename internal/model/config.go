package model

// Config is the full engine configuration. It is loaded by the caller and
// passed down as an immutable parameter; the engine never reads global or
// environment state. Published guideline thresholds are defaults here, not
// hardcoded constants, because the guidelines revise them.
type Config struct {
	Criteria    CriteriaThresholds         `yaml:"criteria" mapstructure:"criteria"`
	Combination CombinationConfig          `yaml:"combination" mapstructure:"combination"`
	DSC         DSCConfig                  `yaml:"dsc" mapstructure:"dsc"`
	Frameworks  map[FrameworkID]TierGates  `yaml:"frameworks" mapstructure:"frameworks"`
	Overrides   map[string]CancerOverride  `yaml:"overrides,omitempty" mapstructure:"overrides"` // keyed by lowercase cancer type
	Collector   CollectorConfig            `yaml:"collector" mapstructure:"collector"`
	LLM         LLMConfig                  `yaml:"llm" mapstructure:"llm"`
	Output      OutputConfig               `yaml:"output" mapstructure:"output"`
	Concurrency ConcurrencyConfig          `yaml:"concurrency" mapstructure:"concurrency"`
}

// CriteriaThresholds holds every numeric cutoff the criterion evaluators use.
type CriteriaThresholds struct {
	VeryCommonAF float64 `yaml:"very_common_af" mapstructure:"very_common_af"` // SBVS1
	CommonAF     float64 `yaml:"common_af" mapstructure:"common_af"`           // SBS1

	EstablishedHotspotMinCount int     `yaml:"established_hotspot_min_count" mapstructure:"established_hotspot_min_count"` // OS3
	EstablishedHotspotMaxQ     float64 `yaml:"established_hotspot_max_q" mapstructure:"established_hotspot_max_q"`         // OS3
	ModerateHotspotMinCount    int     `yaml:"moderate_hotspot_min_count" mapstructure:"moderate_hotspot_min_count"`       // OM3
	SupportingHotspotMinCount  int     `yaml:"supporting_hotspot_min_count" mapstructure:"supporting_hotspot_min_count"`   // OP3

	MinPredictors          int     `yaml:"min_predictors" mapstructure:"min_predictors"`                     // consensus needs this many predictors
	DamagingConsensusRatio float64 `yaml:"damaging_consensus_ratio" mapstructure:"damaging_consensus_ratio"` // OP1
	DamagingConsensusScore float64 `yaml:"damaging_consensus_score" mapstructure:"damaging_consensus_score"` // OP1, when a score is present
	BenignConsensusRatio   float64 `yaml:"benign_consensus_ratio" mapstructure:"benign_consensus_ratio"`     // SBP1
	BenignConsensusScore   float64 `yaml:"benign_consensus_score" mapstructure:"benign_consensus_score"`     // SBP1
	MaxSpliceImpact        float64 `yaml:"max_splice_impact" mapstructure:"max_splice_impact"`               // SBP2 requires splice impact at or below
}

// CombinationRule is one row of the combining table: every count is a
// minimum, all minima must hold for the row to match. Rows of the same
// class form the disjunction the published tables express in prose.
type CombinationRule struct {
	ID         string            `yaml:"id" mapstructure:"id"`
	Class      OncogenicityClass `yaml:"class" mapstructure:"class"`
	VeryStrong int               `yaml:"very_strong" mapstructure:"very_strong"`
	Strong     int               `yaml:"strong" mapstructure:"strong"`
	Moderate   int               `yaml:"moderate" mapstructure:"moderate"`
	Supporting int               `yaml:"supporting" mapstructure:"supporting"`
}

// CombinationConfig drives the oncogenicity combiner.
type CombinationConfig struct {
	Oncogenic       []CombinationRule    `yaml:"oncogenic" mapstructure:"oncogenic"` // evaluated in order, first match wins
	Benign          []CombinationRule    `yaml:"benign" mapstructure:"benign"`
	StrengthPoints  map[Strength]float64 `yaml:"strength_points" mapstructure:"strength_points"`
	ConfidenceScale float64              `yaml:"confidence_scale" mapstructure:"confidence_scale"` // margin divisor for confidence
}

// DSCWeights are the per-context sub-score weights; they must sum to 1.
type DSCWeights struct {
	AlleleFraction float64 `yaml:"allele_fraction" mapstructure:"allele_fraction"`
	SomaticPrior   float64 `yaml:"somatic_prior" mapstructure:"somatic_prior"`
	GenomicContext float64 `yaml:"genomic_context" mapstructure:"genomic_context"`
}

// DSCBands are the allele-fraction consistency band boundaries. The
// guideline publication gives illustrative values only, so every boundary
// is injectable.
type DSCBands struct {
	Tolerance       float64 `yaml:"tolerance" mapstructure:"tolerance"`                 // absolute VAF distance treated as consistent
	MinSubclonalVAF float64 `yaml:"min_subclonal_vaf" mapstructure:"min_subclonal_vaf"` // below this the low range is ambiguous
	HighMin         float64 `yaml:"high_min" mapstructure:"high_min"`                   // consistent band lower bound (upper is 1.0)
	SubclonalMin    float64 `yaml:"subclonal_min" mapstructure:"subclonal_min"`
	SubclonalMax    float64 `yaml:"subclonal_max" mapstructure:"subclonal_max"`
	GermlineSuspect float64 `yaml:"germline_suspect" mapstructure:"germline_suspect"` // VAF near 0.5 or 1.0 without purity support
	Inconsistent    float64 `yaml:"inconsistent" mapstructure:"inconsistent"`
	Neutral         float64 `yaml:"neutral" mapstructure:"neutral"` // no sample measurements at all
}

// PriorDeltas parameterize the somatic/germline prior sub-score. All deltas
// apply to a 0.5 starting point before clipping to [0,1].
type PriorDeltas struct {
	Hotspot              float64 `yaml:"hotspot" mapstructure:"hotspot"`                             // + recurrent position
	Mechanism            float64 `yaml:"mechanism" mapstructure:"mechanism"`                         // + oncogene activation or TSG loss
	AbsentFromPopulation float64 `yaml:"absent_from_population" mapstructure:"absent_from_population"` // + covered and never observed
	PopulationScale      float64 `yaml:"population_scale" mapstructure:"population_scale"`           // − AF × scale, capped
	MaxPopulationPenalty float64 `yaml:"max_population_penalty" mapstructure:"max_population_penalty"`
	GermlinePathogenic   float64 `yaml:"germline_pathogenic" mapstructure:"germline_pathogenic"` // − pathogenic germline assertion
	// GermlineResidualFactor scales the germline-indicative penalties
	// (population AF, germline-pathogenic) in TUMOR_NORMAL runs, where
	// matched-normal subtraction has already removed germline calls.
	GermlineResidualFactor float64 `yaml:"germline_residual_factor" mapstructure:"germline_residual_factor"`
}

// DSCConfig drives the Dynamic Somatic Confidence calculator.
type DSCConfig struct {
	DefaultPurity float64                        `yaml:"default_purity" mapstructure:"default_purity"` // fallback when no purity estimate
	Bands         DSCBands                       `yaml:"bands" mapstructure:"bands"`
	Prior         PriorDeltas                    `yaml:"prior" mapstructure:"prior"`
	Weights       map[AnalysisContext]DSCWeights `yaml:"weights" mapstructure:"weights"`
	// ConfirmatoryThreshold: below this score germline origin cannot be
	// excluded and tier results carry the confirmatory-testing flag.
	ConfirmatoryThreshold float64 `yaml:"confirmatory_threshold" mapstructure:"confirmatory_threshold"`
}

// TierGate ties one framework tier label to the minimum DSC it requires.
type TierGate struct {
	Tier   string  `yaml:"tier" mapstructure:"tier"`
	MinDSC float64 `yaml:"min_dsc" mapstructure:"min_dsc"`
}

// TierGates is a framework's gate ladder, ordered highest tier first, plus
// the floor below which the variant is excluded from tiering entirely.
type TierGates struct {
	Gates          []TierGate `yaml:"gates" mapstructure:"gates"`
	ExclusionFloor float64    `yaml:"exclusion_floor" mapstructure:"exclusion_floor"`
}

// MinDSC returns the gate for a tier label, or 0 when the tier is ungated.
func (t TierGates) MinDSC(tier string) float64 {
	for _, g := range t.Gates {
		if g.Tier == tier {
			return g.MinDSC
		}
	}
	return 0
}

// CancerOverride adjusts evidence weighting for one cancer type.
type CancerOverride struct {
	// CriterionPoints multiplies the applied point weight of a met
	// criterion before combination (e.g. damp hotspot weight in a cancer
	// type with known artifact-prone loci).
	CriterionPoints map[CriterionID]float64 `yaml:"criterion_points" mapstructure:"criterion_points"`
}

// CollectorConfig drives the caller-side evidence collector.
type CollectorConfig struct {
	CacheTTLSeconds   int     `yaml:"cache_ttl_seconds" mapstructure:"cache_ttl_seconds"`
	CacheDir          string  `yaml:"cache_dir" mapstructure:"cache_dir"`                     // "" = memory-only snapshot cache
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"` // per remote source
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size"`
	Parallelism       int     `yaml:"parallelism" mapstructure:"parallelism"` // category fan-out bound
}

// LLMConfig configures the optional narrative generator. Narrative output
// never affects classification.
type LLMConfig struct {
	Provider       string `yaml:"provider" mapstructure:"provider"` // "openai", "anthropic", "ollama", "" = disabled
	Model          string `yaml:"model" mapstructure:"model"`
	APIKey         string `yaml:"-" mapstructure:"-"` // from env only, never config files
	BaseURL        string `yaml:"base_url" mapstructure:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds" mapstructure:"timeout_seconds"`
	MaxTokens      int    `yaml:"max_tokens" mapstructure:"max_tokens"`
	StrictEvidence bool   `yaml:"strict_evidence" mapstructure:"strict_evidence"`
	HTTPProxy      string `yaml:"http_proxy" mapstructure:"http_proxy"`
	HTTPSProxy     string `yaml:"https_proxy" mapstructure:"https_proxy"`
	NoProxy        string `yaml:"no_proxy" mapstructure:"no_proxy"`
}

// OutputConfig controls rendering.
type OutputConfig struct {
	Verbose       bool `yaml:"verbose" mapstructure:"verbose"`
	IncludeFooter bool `yaml:"include_footer" mapstructure:"include_footer"` // provenance footer on Markdown sheets
}

// ConcurrencyConfig controls batch classification.
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// DefaultConfig documents every default in one place. Values follow the
// published combining rules and illustrative DSC bands; deployments revise
// them through configuration, not code.
func DefaultConfig() *Config {
	return &Config{
		Criteria: CriteriaThresholds{
			VeryCommonAF:               0.05,
			CommonAF:                   0.01,
			EstablishedHotspotMinCount: 50,
			EstablishedHotspotMaxQ:     0.01,
			ModerateHotspotMinCount:    10,
			SupportingHotspotMinCount:  1,
			MinPredictors:              3,
			DamagingConsensusRatio:     0.8,
			DamagingConsensusScore:     0.7,
			BenignConsensusRatio:       0.8,
			BenignConsensusScore:       0.3,
			MaxSpliceImpact:            0.1,
		},
		Combination: CombinationConfig{
			Oncogenic: []CombinationRule{
				{ID: "ONC_VS1", Class: ClassOncogenic, VeryStrong: 1},
				{ID: "ONC_S2", Class: ClassOncogenic, Strong: 2},
				{ID: "ONC_S1M2", Class: ClassOncogenic, Strong: 1, Moderate: 2},
				{ID: "LONC_S1M1", Class: ClassLikelyOncogenic, Strong: 1, Moderate: 1},
				{ID: "LONC_S1P2", Class: ClassLikelyOncogenic, Strong: 1, Supporting: 2},
				{ID: "LONC_M3", Class: ClassLikelyOncogenic, Moderate: 3},
				{ID: "LONC_M2P2", Class: ClassLikelyOncogenic, Moderate: 2, Supporting: 2},
				{ID: "LONC_M1P4", Class: ClassLikelyOncogenic, Moderate: 1, Supporting: 4},
			},
			Benign: []CombinationRule{
				{ID: "BEN_VS1", Class: ClassBenign, VeryStrong: 1},
				{ID: "BEN_S2", Class: ClassBenign, Strong: 2},
				{ID: "LBEN_S1P1", Class: ClassLikelyBenign, Strong: 1, Supporting: 1},
				{ID: "LBEN_S1", Class: ClassLikelyBenign, Strong: 1},
				{ID: "LBEN_P2", Class: ClassLikelyBenign, Supporting: 2},
			},
			StrengthPoints: map[Strength]float64{
				StrengthVeryStrong: 8,
				StrengthStrong:     4,
				StrengthModerate:   2,
				StrengthSupporting: 1,
			},
			ConfidenceScale: 12,
		},
		DSC: DSCConfig{
			DefaultPurity: 0.5,
			Bands: DSCBands{
				Tolerance:       0.12,
				MinSubclonalVAF: 0.05,
				HighMin:         0.8,
				SubclonalMin:    0.4,
				SubclonalMax:    0.7,
				GermlineSuspect: 0.2,
				Inconsistent:    0.25,
				Neutral:         0.5,
			},
			Prior: PriorDeltas{
				Hotspot:                0.2,
				Mechanism:              0.1,
				AbsentFromPopulation:   0.1,
				PopulationScale:        10,
				MaxPopulationPenalty:   0.5,
				GermlinePathogenic:     0.3,
				GermlineResidualFactor: 0.2,
			},
			Weights: map[AnalysisContext]DSCWeights{
				TumorOnly:   {AlleleFraction: 0.4, SomaticPrior: 0.4, GenomicContext: 0.2},
				TumorNormal: {AlleleFraction: 0.5, SomaticPrior: 0.3, GenomicContext: 0.2},
			},
			ConfirmatoryThreshold: 0.5,
		},
		Frameworks: map[FrameworkID]TierGates{
			FrameworkAMP: {
				Gates: []TierGate{
					{Tier: "Tier IA", MinDSC: 0.9},
					{Tier: "Tier IB", MinDSC: 0.9},
					{Tier: "Tier IIC", MinDSC: 0.8},
					{Tier: "Tier IID", MinDSC: 0.6},
					{Tier: "Tier III", MinDSC: 0.2},
					{Tier: "Tier IV", MinDSC: 0},
				},
				ExclusionFloor: 0.2,
			},
			FrameworkVICC: {
				Gates: []TierGate{
					{Tier: "Tier A", MinDSC: 0.9},
					{Tier: "Tier B", MinDSC: 0.8},
					{Tier: "Tier C", MinDSC: 0.6},
					{Tier: "Tier D", MinDSC: 0.4},
					{Tier: "Tier E", MinDSC: 0},
				},
				ExclusionFloor: 0.2,
			},
			FrameworkOncoKB: {
				Gates: []TierGate{
					{Tier: "Level 1", MinDSC: 0.9},
					{Tier: "Level 2", MinDSC: 0.8},
					{Tier: "Level 3A", MinDSC: 0.7},
					{Tier: "Level 3B", MinDSC: 0.5},
					{Tier: "Level 4", MinDSC: 0.4},
					{Tier: "None", MinDSC: 0},
				},
				ExclusionFloor: 0.2,
			},
		},
		Overrides: map[string]CancerOverride{},
		Collector: CollectorConfig{
			CacheTTLSeconds:   3600,
			RequestsPerSecond: 5,
			BurstSize:         10,
			Parallelism:       4,
		},
		LLM: LLMConfig{
			Provider:       "", // disabled by default
			TimeoutSeconds: 30,
			MaxTokens:      1000,
			StrictEvidence: true, // CRITICAL: always enforce
		},
		Output: OutputConfig{
			Verbose:       false,
			IncludeFooter: true,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
	}
}

// Validate rejects configurations the engine cannot run with. It checks
// structural soundness, not clinical sensibility.
func (c *Config) Validate() error {
	if c.Combination.ConfidenceScale <= 0 {
		return &ConfigurationError{Parameter: "combination.confidence_scale", Value: c.Combination.ConfidenceScale, Reason: "must be positive"}
	}
	for s, p := range c.Combination.StrengthPoints {
		if p < 0 {
			return &ConfigurationError{Parameter: "combination.strength_points." + string(s), Value: p, Reason: "must be non-negative"}
		}
	}
	for _, side := range [][]CombinationRule{c.Combination.Oncogenic, c.Combination.Benign} {
		for _, r := range side {
			if r.VeryStrong == 0 && r.Strong == 0 && r.Moderate == 0 && r.Supporting == 0 {
				return &ConfigurationError{Parameter: "combination.rule." + r.ID, Value: r, Reason: "rule matches everything"}
			}
			switch r.Class {
			case ClassOncogenic, ClassLikelyOncogenic, ClassBenign, ClassLikelyBenign:
			default:
				return &ConfigurationError{Parameter: "combination.rule." + r.ID, Value: r.Class, Reason: "unknown classification"}
			}
		}
	}
	if c.DSC.DefaultPurity <= 0 || c.DSC.DefaultPurity > 1 {
		return &ConfigurationError{Parameter: "dsc.default_purity", Value: c.DSC.DefaultPurity, Reason: "must be in (0,1]"}
	}
	for ctx, w := range c.DSC.Weights {
		sum := w.AlleleFraction + w.SomaticPrior + w.GenomicContext
		if sum < 0.999 || sum > 1.001 {
			return &ConfigurationError{Parameter: "dsc.weights." + string(ctx), Value: sum, Reason: "weights must sum to 1"}
		}
	}
	if _, ok := c.DSC.Weights[TumorOnly]; !ok {
		return &ConfigurationError{Parameter: "dsc.weights", Value: TumorOnly, Reason: "missing analysis context"}
	}
	if _, ok := c.DSC.Weights[TumorNormal]; !ok {
		return &ConfigurationError{Parameter: "dsc.weights", Value: TumorNormal, Reason: "missing analysis context"}
	}
	for id, gates := range c.Frameworks {
		if !id.Valid() {
			return &ConfigurationError{Parameter: "frameworks", Value: id, Reason: "unknown framework"}
		}
		if len(gates.Gates) == 0 {
			return &ConfigurationError{Parameter: "frameworks." + string(id), Value: gates, Reason: "no tier gates"}
		}
		prev := 1.1
		for _, g := range gates.Gates {
			if g.MinDSC < 0 || g.MinDSC > 1 {
				return &ConfigurationError{Parameter: "frameworks." + string(id) + "." + g.Tier, Value: g.MinDSC, Reason: "gate outside [0,1]"}
			}
			if g.MinDSC > prev {
				return &ConfigurationError{Parameter: "frameworks." + string(id) + "." + g.Tier, Value: g.MinDSC, Reason: "gates must be non-increasing"}
			}
			prev = g.MinDSC
		}
	}
	if c.Concurrency.Workers < 1 {
		return &ConfigurationError{Parameter: "concurrency.workers", Value: c.Concurrency.Workers, Reason: "must be at least 1"}
	}
	return nil
}
