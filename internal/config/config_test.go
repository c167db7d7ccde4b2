package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalYAML = `
total_supply: 1000000
initial_price: 1
project_cost: 1000
protocol_fee_rate: 0.1
staking_rate: 0.5
mission_success_rate: 0.8
price_elasticity_coefficient: 1.0
sentiment:
  msi_min: 0.9
  msi_max: 1.1
missions:
  initial_missions: 5
  growth_ratio: 0.05
  max_missions: 100
  random_fluctuation: 0.1
  mission_duration: 2
token_distribution:
  builders: 0.2
  dao_treasury: 0.2
  airdrops_giveaways: 0.05
  initiator_rewards: 0.2
  testnet_development: 0.05
builders_lockup_period: 6
builders_vesting_period: 12
private_sales:
  - name: seed
    tokens_sold: 100000
    vesting_period: 10
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalYAML))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 12, cfg.MonthsPerYear)
	assert.Equal(t, []int{5, 10}, cfg.SimulationYears)
	assert.Equal(t, uint64(42), cfg.Seed)
	assert.Equal(t, "output", cfg.OutputDir)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, VariantSimple, cfg.Kind())
	assert.InDelta(t, 0.1, cfg.PriceCap(), 1e-12)
	assert.Equal(t, []int{60, 120}, cfg.Horizons())
	require.Len(t, cfg.PrivateSales, 1)
	assert.Equal(t, "seed", cfg.PrivateSales[0].Name)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SIM_SEED", "7")
	t.Setenv("SQLITE_PATH", "/tmp/x.db")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")

	cfg, err := Load(writeConfig(t, minimalYAML+"telegram:\n  chat_id: \"42\"\n"))
	require.NoError(t, err)
	assert.Equal(t, uint64(7), cfg.Seed)
	assert.Equal(t, "/tmp/x.db", cfg.SQLitePath)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "123:abc", cfg.Telegram.BotToken)
	assert.True(t, cfg.Telegram.Enabled())
}

func TestLoad_JSON(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "configs", "simple.json"))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, VariantSimple, cfg.Kind())
	assert.Equal(t, 3, cfg.Missions.MissionDuration)
}

func TestLoad_ShippedExtendedConfig(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "configs", "config.yaml"))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, VariantExtended, cfg.Kind())
	assert.True(t, cfg.Sentiment.UsesRegime())
	assert.True(t, cfg.Missions.UsesLogistic())
	assert.InDelta(t, 0.2, cfg.PriceCap(), 1e-12)
	assert.Len(t, cfg.Missions.SeasonalityByMonth, 12)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoad_SchemaRejects(t *testing.T) {
	tests := []struct {
		name string
		edit func(string) string
	}{
		{"missing total supply", func(s string) string {
			return strings.Replace(s, "total_supply: 1000000\n", "", 1)
		}},
		{"negative vesting", func(s string) string {
			return strings.Replace(s, "vesting_period: 10", "vesting_period: -1", 1)
		}},
		{"rate above one", func(s string) string {
			return strings.Replace(s, "staking_rate: 0.5", "staking_rate: 1.5", 1)
		}},
		{"no sentiment model", func(s string) string {
			return strings.Replace(s, "  msi_max: 1.1\n", "", 1)
		}},
		{"unknown variant", func(s string) string {
			return s + "variant: turbo\n"
		}},
		{"unknown telegram key", func(s string) string {
			return s + "telegram:\n  token: x\n"
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.edit(minimalYAML)))
			assert.Error(t, err)
		})
	}
}

func TestValidate(t *testing.T) {
	base, err := Parse([]byte(minimalYAML))
	require.NoError(t, err)

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"over allocated", func(c *Config) { c.TokenDistribution.Builders = 0.6 }, "exceed total supply"},
		{"private sales over allocate", func(c *Config) {
			c.PrivateSales = append(c.PrivateSales, PrivateSale{TokensSold: 400000})
		}, "exceed total supply"},
		{"msi inverted", func(c *Config) { c.Sentiment.MSIMin = 2 }, "msi_min"},
		{"regime probabilities", func(c *Config) {
			c.Sentiment.BullProbability = 0.7
			c.Sentiment.BearProbability = 0.5
			c.Sentiment.EventDuration = 3
		}, "probabilities"},
		{"extended without minimum", func(c *Config) { c.InitiatorRewardsInitial = 100 }, "minimum_reward_per_mission"},
		{"logistic without capacity", func(c *Config) { c.Variant = VariantLogistic }, "carrying_capacity"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base.Clone()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestKind(t *testing.T) {
	c := &Config{}
	assert.Equal(t, VariantSimple, c.Kind())

	c.Missions.CarryingCapacity = 100
	assert.Equal(t, VariantLogistic, c.Kind())

	c.InitiatorRewardsInitial = 50
	assert.Equal(t, VariantExtended, c.Kind())
	assert.InDelta(t, 0.2, c.PriceCap(), 1e-12)

	c.Variant = VariantSimple
	assert.Equal(t, VariantSimple, c.Kind())

	c.PriceChangeCap = 0.05
	assert.InDelta(t, 0.05, c.PriceCap(), 1e-12)
}

func TestClone_Independent(t *testing.T) {
	c := &Config{
		PrivateSales: []PrivateSale{{TokensSold: 1}},
		Missions:     Missions{SeasonalityByMonth: map[string]float64{"1": 1.0}},
	}
	cp := c.Clone()
	cp.PrivateSales[0].TokensSold = 99
	cp.Missions.SeasonalityByMonth["1"] = 2.0
	assert.Equal(t, 1.0, c.PrivateSales[0].TokensSold)
	assert.Equal(t, 1.0, c.Missions.SeasonalityByMonth["1"])
}
