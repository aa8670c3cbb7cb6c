package catalog

import (
	"testing"

	"tapventure/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const wood = domain.CurrencyID("wood")

func validData() *Data {
	return &Data{
		Currencies: []domain.CurrencyID{wood},
		Tools: []domain.Tool{
			{ID: 1, CharacterID: 1, Name: "Pickaxe", UnlockCurrency: domain.MainCurrency,
				MainPowerPerTap: 1, LocalPowerPerTap: 2},
			{ID: 2, CharacterID: 1, Name: "Drill", UnlockLevel: 2, UnlockCost: 100,
				UnlockCurrency: domain.MainCurrency, MainPowerPerTap: 2, LocalPowerPerTap: 4},
		},
		Locations: []domain.Location{
			{ID: 1, CharacterID: 1, Name: "Forest", Currency: wood},
		},
		Levels: []domain.Level{
			{Number: 1, RequiredExp: 0},
			{Number: 2, RequiredExp: 100},
		},
		Rewards: []domain.Reward{
			{ID: 1, Level: 2, Kind: domain.RewardMainCurrency, Amount: 10},
		},
		Helpers: []domain.Helper{
			{ID: 1, LocationID: 1, Name: "Gnome", UnlockCost: 30},
		},
		HelperLevels: []domain.HelperLevel{
			{HelperID: 1, Level: 1, IncomePerHour: 60},
		},
		StorageLevels: []domain.StorageLevel{
			{Currency: wood, Level: 1, Capacity: 50, UpgradeCost: 40},
		},
		ExchangeRates: []domain.ExchangeRate{
			{Currency: wood, Rate: 2},
		},
	}
}

func TestNew_ValidData(t *testing.T) {
	cat, err := New(validData())
	require.NoError(t, err)

	assert.Equal(t, int64(1), cat.StarterTool().ID)
	assert.Equal(t, int64(1), cat.StarterLocation().ID)
	assert.Equal(t, 2, cat.MaxLevel())
	assert.True(t, cat.KnownCurrency(domain.MainCurrency))
	assert.True(t, cat.KnownCurrency(wood))
	assert.False(t, cat.KnownCurrency("gold"))

	rate, ok := cat.ExchangeRate(wood)
	require.True(t, ok)
	assert.Equal(t, 2.0, rate)
}

func TestNew_RewardsSortedByIDWithinLevel(t *testing.T) {
	data := validData()
	data.Rewards = []domain.Reward{
		{ID: 3, Level: 2, Kind: domain.RewardMainCurrency, Amount: 1},
		{ID: 1, Level: 2, Kind: domain.RewardMainCurrency, Amount: 2},
		{ID: 2, Level: 2, Kind: domain.RewardMainCurrency, Amount: 3},
	}

	cat, err := New(data)
	require.NoError(t, err)

	rs := cat.RewardsForLevel(2)
	require.Len(t, rs, 3)
	assert.Equal(t, int64(1), rs[0].ID)
	assert.Equal(t, int64(2), rs[1].ID)
	assert.Equal(t, int64(3), rs[2].ID)
}

func TestNew_RejectsBadLevelTables(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Data)
	}{
		{"no levels", func(d *Data) { d.Levels = nil; d.Rewards = nil }},
		{"missing level 1", func(d *Data) {
			d.Levels = []domain.Level{{Number: 2, RequiredExp: 100}}
		}},
		{"level 1 nonzero threshold", func(d *Data) {
			d.Levels[0].RequiredExp = 10
		}},
		{"level gap", func(d *Data) {
			d.Levels = append(d.Levels, domain.Level{Number: 4, RequiredExp: 500})
		}},
		{"non-increasing threshold", func(d *Data) {
			d.Levels = append(d.Levels, domain.Level{Number: 3, RequiredExp: 100})
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			data := validData()
			tc.mutate(data)
			_, err := New(data)
			assert.Error(t, err)
		})
	}
}

func TestNew_RejectsBadContent(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Data)
	}{
		{"no starter tool", func(d *Data) {
			d.Tools[0].UnlockCost = 10
		}},
		{"no starter location", func(d *Data) {
			d.Locations[0].UnlockCost = 10
		}},
		{"tool in unknown currency", func(d *Data) {
			d.Tools[1].UnlockCurrency = "gold"
		}},
		{"location yields main currency", func(d *Data) {
			d.Locations[0].Currency = domain.MainCurrency
		}},
		{"reward for undefined level", func(d *Data) {
			d.Rewards[0].Level = 9
		}},
		{"reward with unknown kind", func(d *Data) {
			d.Rewards[0].Kind = "mystery_box"
		}},
		{"unlock reward for unknown tool", func(d *Data) {
			d.Rewards[0] = domain.Reward{ID: 1, Level: 2, Kind: domain.RewardUnlockTool, TargetID: 99}
		}},
		{"location currency reward without currency", func(d *Data) {
			d.Rewards[0] = domain.Reward{ID: 1, Level: 2, Kind: domain.RewardLocationCurrency, Amount: 5}
		}},
		{"location currency reward naming main", func(d *Data) {
			d.Rewards[0] = domain.Reward{ID: 1, Level: 2, Kind: domain.RewardLocationCurrency,
				Amount: 5, Currency: domain.MainCurrency}
		}},
		{"helper at unknown location", func(d *Data) {
			d.Helpers[0].LocationID = 99
		}},
		{"helper without level 1 row", func(d *Data) {
			d.HelperLevels[0].Level = 2
		}},
		{"storage table for main currency", func(d *Data) {
			d.StorageLevels[0].Currency = domain.MainCurrency
		}},
		{"storage capacity not increasing", func(d *Data) {
			d.StorageLevels = append(d.StorageLevels,
				domain.StorageLevel{Currency: wood, Level: 2, Capacity: 50})
		}},
		{"non-positive exchange rate", func(d *Data) {
			d.ExchangeRates[0].Rate = 0
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			data := validData()
			tc.mutate(data)
			_, err := New(data)
			assert.Error(t, err)
		})
	}
}

func TestCatalog_HelperAndStorageLookups(t *testing.T) {
	data := validData()
	data.HelperLevels = append(data.HelperLevels,
		domain.HelperLevel{HelperID: 1, Level: 2, IncomePerHour: 120})
	data.StorageLevels = append(data.StorageLevels,
		domain.StorageLevel{Currency: wood, Level: 2, Capacity: 120, UpgradeCost: 100})

	cat, err := New(data)
	require.NoError(t, err)

	assert.Equal(t, 2, cat.HelperMaxLevel(1))
	require.NotNil(t, cat.HelperLevel(1, 2))
	assert.Equal(t, 120.0, cat.HelperLevel(1, 2).IncomePerHour)
	assert.Nil(t, cat.HelperLevel(1, 3))

	assert.Equal(t, 2, cat.StorageMaxLevel(wood))
	require.NotNil(t, cat.StorageLevel(wood, 2))
	assert.Equal(t, 120.0, cat.StorageLevel(wood, 2).Capacity)
	assert.Nil(t, cat.StorageLevel(wood, 3))
}
