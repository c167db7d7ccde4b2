package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Variant selects which sub-models the engine composes.
type Variant string

const (
	VariantSimple   Variant = "simple"
	VariantLogistic Variant = "logistic"
	VariantExtended Variant = "extended"
)

// TokenDistribution holds the fraction of total supply allocated to each pool.
type TokenDistribution struct {
	Builders           float64 `yaml:"builders"`
	DAOTreasury        float64 `yaml:"dao_treasury"`
	AirdropsGiveaways  float64 `yaml:"airdrops_giveaways"`
	InitiatorRewards   float64 `yaml:"initiator_rewards"`
	TestnetDevelopment float64 `yaml:"testnet_development"`
}

// Sum returns the total allocated fraction.
func (d TokenDistribution) Sum() float64 {
	return d.Builders + d.DAOTreasury + d.AirdropsGiveaways + d.InitiatorRewards + d.TestnetDevelopment
}

// PrivateSale is one private sale tranche.
type PrivateSale struct {
	Name          string  `yaml:"name"`
	TokensSold    float64 `yaml:"tokens_sold"`
	VestingPeriod int     `yaml:"vesting_period"`
}

// Sentiment configures either the uniform draw (MSIMin/MSIMax) or the regime model.
type Sentiment struct {
	MSIMin float64 `yaml:"msi_min"`
	MSIMax float64 `yaml:"msi_max"`

	MSINormal       float64 `yaml:"msi_normal"`
	MSIBull         float64 `yaml:"msi_bull"`
	MSIBear         float64 `yaml:"msi_bear"`
	BullProbability float64 `yaml:"bull_probability"`
	BearProbability float64 `yaml:"bear_probability"`
	EventDuration   int     `yaml:"event_duration"`
}

// UsesRegime reports whether the regime-persistence model is configured.
func (s Sentiment) UsesRegime() bool {
	return s.BullProbability > 0 || s.BearProbability > 0 || s.EventDuration > 0
}

// Missions configures either the logistic or the geometric mission model.
type Missions struct {
	CarryingCapacity   float64            `yaml:"carrying_capacity"`
	GrowthRate         float64            `yaml:"growth_rate"`
	InflectionPoint    float64            `yaml:"inflection_point"`
	SeasonalityByMonth map[string]float64 `yaml:"seasonality_by_month"`

	InitialMissions float64 `yaml:"initial_missions"`
	GrowthRatio     float64 `yaml:"growth_ratio"`
	MaxMissions     float64 `yaml:"max_missions"`
	MissionDuration int     `yaml:"mission_duration"`

	RandomFluctuation float64 `yaml:"random_fluctuation"`
}

// UsesLogistic reports whether the logistic growth model is configured.
func (m Missions) UsesLogistic() bool {
	return m.CarryingCapacity > 0
}

// Config holds the economic model and the run settings.
type Config struct {
	TotalSupply                float64 `yaml:"total_supply"`
	InitialPrice               float64 `yaml:"initial_price"`
	ProjectCost                float64 `yaml:"project_cost"`
	ProtocolFeeRate            float64 `yaml:"protocol_fee_rate"`
	StakingRate                float64 `yaml:"staking_rate"`
	MissionSuccessRate         float64 `yaml:"mission_success_rate"`
	PriceElasticityCoefficient float64 `yaml:"price_elasticity_coefficient"`

	Sentiment Sentiment `yaml:"sentiment"`
	Missions  Missions  `yaml:"missions"`

	TokenDistribution     TokenDistribution `yaml:"token_distribution"`
	BuildersLockupPeriod  int               `yaml:"builders_lockup_period"`
	BuildersVestingPeriod int               `yaml:"builders_vesting_period"`
	PrivateSales          []PrivateSale     `yaml:"private_sales"`

	// Optional, extended variant.
	InitiatorRewardsInitial     float64 `yaml:"initiator_rewards_initial"`
	MinimumRewardPerMission     float64 `yaml:"minimum_reward_per_mission"`
	InitiatorSellingPercentage  float64 `yaml:"initiator_selling_percentage"`
	FellowshipSellingPercentage float64 `yaml:"fellowship_selling_percentage"`
	BuildersSellingPercentage   float64 `yaml:"builders_selling_percentage"`
	DAOAnnualConsumptionRate    float64 `yaml:"dao_annual_consumption_rate"`
	DAOConsumptionStartMonth    int     `yaml:"dao_consumption_start_month"`
	TestnetDistributionPeriod   float64 `yaml:"testnet_distribution_period"` // years

	PriceChangeCap     float64 `yaml:"price_change_cap"`
	PerMissionOutcomes bool    `yaml:"per_mission_outcomes"`
	Variant            Variant `yaml:"variant"`

	// Run settings, consumed by callers of the engine.
	SimulationYears []int  `yaml:"simulation_years"`
	MonthsPerYear   int    `yaml:"months_per_year"`
	Seed            uint64 `yaml:"seed"`
	OutputDir       string `yaml:"output_dir"`
	CompressOutput  bool   `yaml:"compress_output"`
	SQLitePath      string `yaml:"sqlite_path"`
	WatchCron       string `yaml:"watch_cron"`
	LogLevel        string `yaml:"log_level"`

	Telegram Telegram `yaml:"telegram"`
}

// Telegram configures delivery of watch-mode summaries. Empty disables it.
type Telegram struct {
	BotToken string `yaml:"bot_token"`
	ChatID   string `yaml:"chat_id"`
	Proxy    string `yaml:"proxy"`
}

// Enabled reports whether both credentials are set.
func (t Telegram) Enabled() bool {
	return t.BotToken != "" && t.ChatID != ""
}

// Load reads config from a YAML or JSON file, checks it against the schema,
// then applies environment variable overrides and defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes a config document held in memory.
func Parse(data []byte) (*Config, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := checkSchema(raw); err != nil {
		return nil, fmt.Errorf("config schema: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	// Environment variable overrides
	if v := os.Getenv("SIM_SEED"); v != "" {
		if seed, err := strconv.ParseUint(v, 10, 64); err == nil {
			cfg.Seed = seed
		}
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.SQLitePath = v
	}
	if v := os.Getenv("OUTPUT_DIR"); v != "" {
		cfg.OutputDir = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("WATCH_CRON"); v != "" {
		cfg.WatchCron = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}

	// Defaults
	if cfg.MonthsPerYear == 0 {
		cfg.MonthsPerYear = 12
	}
	if len(cfg.SimulationYears) == 0 {
		cfg.SimulationYears = []int{5, 10}
	}
	if cfg.Seed == 0 {
		cfg.Seed = 42
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "output"
	}
	if cfg.WatchCron == "" {
		cfg.WatchCron = "0 0 * * * *"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	return cfg, nil
}

// Validate checks the semantic preconditions the engine relies on.
func (c *Config) Validate() error {
	if c.TotalSupply <= 0 {
		return fmt.Errorf("total_supply must be positive")
	}
	if c.InitialPrice <= 0 {
		return fmt.Errorf("initial_price must be positive")
	}
	if c.ProjectCost < 0 {
		return fmt.Errorf("project_cost must not be negative")
	}
	for name, rate := range map[string]float64{
		"protocol_fee_rate":             c.ProtocolFeeRate,
		"staking_rate":                  c.StakingRate,
		"mission_success_rate":          c.MissionSuccessRate,
		"initiator_selling_percentage":  c.InitiatorSellingPercentage,
		"fellowship_selling_percentage": c.FellowshipSellingPercentage,
		"builders_selling_percentage":   c.BuildersSellingPercentage,
		"dao_annual_consumption_rate":   c.DAOAnnualConsumptionRate,
	} {
		if rate < 0 || rate > 1 {
			return fmt.Errorf("%s must be within [0, 1], got %g", name, rate)
		}
	}

	d := c.TokenDistribution
	for name, frac := range map[string]float64{
		"builders":            d.Builders,
		"dao_treasury":        d.DAOTreasury,
		"airdrops_giveaways":  d.AirdropsGiveaways,
		"initiator_rewards":   d.InitiatorRewards,
		"testnet_development": d.TestnetDevelopment,
	} {
		if frac < 0 {
			return fmt.Errorf("token_distribution.%s must not be negative", name)
		}
	}
	sold := 0.0
	for i, s := range c.PrivateSales {
		if s.TokensSold < 0 {
			return fmt.Errorf("private_sales[%d].tokens_sold must not be negative", i)
		}
		if s.VestingPeriod < 0 {
			return fmt.Errorf("private_sales[%d].vesting_period must not be negative", i)
		}
		sold += s.TokensSold
	}
	if allocated := d.Sum() + sold/c.TotalSupply; allocated > 1+1e-9 {
		return fmt.Errorf("token allocations exceed total supply: %.4f", allocated)
	}

	if c.BuildersLockupPeriod < 0 || c.BuildersVestingPeriod < 0 {
		return fmt.Errorf("builders lockup and vesting periods must not be negative")
	}
	if c.TestnetDistributionPeriod < 0 || c.DAOConsumptionStartMonth < 0 {
		return fmt.Errorf("testnet_distribution_period and dao_consumption_start_month must not be negative")
	}

	sm := c.Sentiment
	if sm.UsesRegime() {
		if sm.BullProbability < 0 || sm.BearProbability < 0 || sm.BullProbability+sm.BearProbability > 1 {
			return fmt.Errorf("sentiment probabilities must be non-negative and sum to at most 1")
		}
		if sm.EventDuration < 1 {
			return fmt.Errorf("sentiment.event_duration must be at least 1")
		}
	} else if sm.MSIMin > sm.MSIMax {
		return fmt.Errorf("sentiment.msi_min must not exceed msi_max")
	}

	m := c.Missions
	if m.RandomFluctuation < 0 {
		return fmt.Errorf("missions.random_fluctuation must not be negative")
	}
	if !m.UsesLogistic() {
		if m.InitialMissions < 0 || m.MaxMissions < 0 || m.MissionDuration < 0 {
			return fmt.Errorf("missions initial_missions, max_missions and mission_duration must not be negative")
		}
	}

	switch c.Variant {
	case "", VariantSimple, VariantLogistic, VariantExtended:
	default:
		return fmt.Errorf("unknown variant %q", c.Variant)
	}
	if c.Variant == VariantLogistic && !m.UsesLogistic() {
		return fmt.Errorf("logistic variant requires missions.carrying_capacity")
	}
	if c.Kind() == VariantExtended {
		if c.MinimumRewardPerMission <= 0 {
			return fmt.Errorf("minimum_reward_per_mission must be positive for the extended variant")
		}
		if c.InitiatorRewardsInitial < c.MinimumRewardPerMission {
			return fmt.Errorf("initiator_rewards_initial must be at least minimum_reward_per_mission")
		}
	}
	if c.PriceChangeCap < 0 {
		return fmt.Errorf("price_change_cap must not be negative")
	}
	if c.MonthsPerYear <= 0 {
		return fmt.Errorf("months_per_year must be positive")
	}
	for _, y := range c.SimulationYears {
		if y <= 0 {
			return fmt.Errorf("simulation_years entries must be positive, got %d", y)
		}
	}
	return nil
}

// Kind returns the configured variant, inferring it from the optional fields
// when none is set explicitly.
func (c *Config) Kind() Variant {
	switch {
	case c.Variant != "":
		return c.Variant
	case c.InitiatorRewardsInitial > 0:
		return VariantExtended
	case c.Missions.UsesLogistic():
		return VariantLogistic
	default:
		return VariantSimple
	}
}

// PriceCap returns the per-month bound on relative price change.
func (c *Config) PriceCap() float64 {
	if c.PriceChangeCap > 0 {
		return c.PriceChangeCap
	}
	if c.Kind() == VariantExtended {
		return 0.2
	}
	return 0.1
}

// Horizons returns the number of months for each configured horizon.
func (c *Config) Horizons() []int {
	months := make([]int, len(c.SimulationYears))
	for i, y := range c.SimulationYears {
		months[i] = y * c.MonthsPerYear
	}
	return months
}

// Clone returns a deep copy, so concurrent runs never share slices or maps.
func (c *Config) Clone() *Config {
	cp := *c
	cp.PrivateSales = append([]PrivateSale(nil), c.PrivateSales...)
	cp.SimulationYears = append([]int(nil), c.SimulationYears...)
	if c.Missions.SeasonalityByMonth != nil {
		cp.Missions.SeasonalityByMonth = make(map[string]float64, len(c.Missions.SeasonalityByMonth))
		for k, v := range c.Missions.SeasonalityByMonth {
			cp.Missions.SeasonalityByMonth[k] = v
		}
	}
	return &cp
}

// toJSONValue converts a decoded YAML document into the value shape the
// schema validator expects.
func toJSONValue(v any) (any, error) {
	b, err := json.Marshal(normalize(v))
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// normalize rewrites maps with non-string keys, such as unquoted month numbers.
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			t[k] = normalize(val)
		}
		return t
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = normalize(val)
		}
		return out
	case []any:
		for i, val := range t {
			t[i] = normalize(val)
		}
		return t
	default:
		return v
	}
}
