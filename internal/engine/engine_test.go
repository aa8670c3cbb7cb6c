package engine

import (
	"context"
	"testing"
	"time"

	"tapventure/internal/catalog"
	"tapventure/internal/clock"
	"tapventure/internal/domain"
	"tapventure/internal/store/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	wood  = domain.CurrencyID("wood")
	stone = domain.CurrencyID("stone")

	pickaxeID = int64(1) // starter tool, character 1
	drillID   = int64(2) // purchasable tool, character 1
	axeID     = int64(3) // character 2 tool

	forestID = int64(1) // starter location, character 1, wood
	quarryID = int64(2) // locked location, character 2, stone

	gnomeID = int64(1) // helper in the forest
)

func testCatalogData() *catalog.Data {
	return &catalog.Data{
		Currencies: []domain.CurrencyID{wood, stone},
		Tools: []domain.Tool{
			{ID: pickaxeID, CharacterID: 1, Name: "Pickaxe", UnlockCurrency: domain.MainCurrency,
				MainPowerPerTap: 2, LocalPowerPerTap: 5},
			{ID: drillID, CharacterID: 1, Name: "Drill", UnlockLevel: 1, UnlockCost: 300,
				UnlockCurrency: domain.MainCurrency, MainPowerPerTap: 4, LocalPowerPerTap: 10},
			{ID: axeID, CharacterID: 2, Name: "Axe", UnlockLevel: 2, UnlockCost: 150,
				UnlockCurrency: wood, MainPowerPerTap: 3, LocalPowerPerTap: 7},
		},
		Locations: []domain.Location{
			{ID: forestID, CharacterID: 1, Name: "Forest", Currency: wood},
			{ID: quarryID, CharacterID: 2, Name: "Quarry", Currency: stone, UnlockLevel: 2, UnlockCost: 500},
		},
		Levels: []domain.Level{
			{Number: 1, RequiredExp: 0},
			{Number: 2, RequiredExp: 100},
			{Number: 3, RequiredExp: 300},
		},
		Rewards: []domain.Reward{
			{ID: 1, Level: 2, Kind: domain.RewardMainCurrency, Amount: 50},
			{ID: 2, Level: 2, Kind: domain.RewardUnlockTool, TargetID: drillID},
			{ID: 3, Level: 3, Kind: domain.RewardLocationCurrency, Amount: 20, Currency: wood},
			{ID: 4, Level: 3, Kind: domain.RewardEnergy, Amount: 10},
		},
		Helpers: []domain.Helper{
			{ID: gnomeID, LocationID: forestID, Name: "Gnome", UnlockLevel: 1, UnlockCost: 30},
		},
		HelperLevels: []domain.HelperLevel{
			{HelperID: gnomeID, Level: 1, IncomePerHour: 60, UpgradeCost: 100},
			{HelperID: gnomeID, Level: 2, IncomePerHour: 120},
		},
		StorageLevels: []domain.StorageLevel{
			{Currency: wood, Level: 1, Capacity: 50, UpgradeCost: 40},
			{Currency: wood, Level: 2, Capacity: 120, UpgradeCost: 100},
		},
		ExchangeRates: []domain.ExchangeRate{
			{Currency: wood, Rate: 2},
		},
	}
}

func newTestEngine(t *testing.T) (*Engine, *memory.Store, *clock.Mock) {
	t.Helper()
	cat, err := catalog.New(testCatalogData())
	require.NoError(t, err)

	clk := &clock.Mock{T: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	st := memory.New()
	e := New(st, cat, clk, Config{DefaultMaxEnergy: 100, RefillInterval: time.Minute})
	return e, st, clk
}

func newTestPlayer(t *testing.T, e *Engine) int64 {
	t.Helper()
	state, err := e.CreatePlayer(context.Background(), 777, "tester", "Test")
	require.NoError(t, err)
	return state.Player.ID
}

// arrange mutates player state directly through the store, bypassing the
// engine, to set up preconditions.
func arrange(t *testing.T, st *memory.Store, playerID int64, fn func(*domain.PlayerState)) {
	t.Helper()
	err := st.Update(context.Background(), playerID, func(s *domain.PlayerState) error {
		fn(s)
		return nil
	})
	require.NoError(t, err)
}

func TestCreatePlayer_StarterState(t *testing.T) {
	e, _, _ := newTestEngine(t)
	ctx := context.Background()

	state, err := e.CreatePlayer(ctx, 42, "alice", "Alice")
	require.NoError(t, err)

	assert.Equal(t, 1, state.Player.Level)
	assert.Equal(t, 100, state.Player.Energy)
	assert.Equal(t, 100, state.Player.MaxEnergy)
	assert.True(t, state.UnlockedTools[pickaxeID], "starter tool unlocked")
	assert.Equal(t, pickaxeID, state.Equipped[1], "starter tool equipped")
	assert.True(t, state.UnlockedLocations[forestID], "starter location unlocked")
}

func TestTap_CreditsAndEnergy(t *testing.T) {
	e, _, _ := newTestEngine(t)
	ctx := context.Background()
	id := newTestPlayer(t, e)

	res, err := e.Tap(ctx, id, forestID)
	require.NoError(t, err)

	assert.Equal(t, 5.0, res.ResourcesGained)
	assert.Equal(t, 2.0, res.MainCurrencyGained)
	assert.Equal(t, int64(5), res.ExperienceGained)
	assert.Equal(t, 99, res.EnergyLeft)

	// Level 1's threshold is zero, so the first resolution always crosses
	// it: the very first tap promotes to level 2 and grants its rewards.
	assert.True(t, res.LevelUp)
	assert.Equal(t, 2, res.Level)

	state, err := e.GetPlayerState(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 5.0, state.Balance(wood))
	// 2 from the tap plus the 50 main-currency level-2 reward.
	assert.Equal(t, 52.0, state.Balance(domain.MainCurrency))
	assert.True(t, state.UnlockedTools[drillID], "level-2 reward unlocked the drill")
}

func TestTap_ZeroEnergyIsHarmless(t *testing.T) {
	e, st, _ := newTestEngine(t)
	ctx := context.Background()
	id := newTestPlayer(t, e)

	arrange(t, st, id, func(s *domain.PlayerState) {
		s.Player.Energy = 0
		s.Balances[wood] = 7
	})

	res, err := e.Tap(ctx, id, forestID)
	require.NoError(t, err)

	assert.Zero(t, res.ResourcesGained)
	assert.Zero(t, res.MainCurrencyGained)
	assert.Zero(t, res.ExperienceGained)
	assert.False(t, res.LevelUp)
	assert.Equal(t, 0, res.EnergyLeft)

	state, err := e.GetPlayerState(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 7.0, state.Balance(wood), "no currency mutation at zero energy")
	assert.Equal(t, 0, state.Player.Energy)
}

func TestTap_EnergyBounds(t *testing.T) {
	e, _, _ := newTestEngine(t)
	ctx := context.Background()
	id := newTestPlayer(t, e)

	// Tap far past the energy pool; energy must stay within [0, max].
	for i := 0; i < 120; i++ {
		res, err := e.Tap(ctx, id, forestID)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, res.EnergyLeft, 0)
		assert.LessOrEqual(t, res.EnergyLeft, 110) // +10 from the level-3 energy reward
	}

	state, err := e.GetPlayerState(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 0, state.Player.Energy)
}

func TestTap_NoToolEquipped(t *testing.T) {
	e, st, _ := newTestEngine(t)
	ctx := context.Background()
	id := newTestPlayer(t, e)

	arrange(t, st, id, func(s *domain.PlayerState) {
		delete(s.Equipped, 1)
	})

	_, err := e.Tap(ctx, id, forestID)
	assert.ErrorIs(t, err, ErrNoToolEquipped)
}

func TestTap_UnknownLocation(t *testing.T) {
	e, _, _ := newTestEngine(t)
	id := newTestPlayer(t, e)

	_, err := e.Tap(context.Background(), id, 999)
	assert.ErrorIs(t, err, ErrUnknownLocation)
}

func TestTap_CascadingLevelUp(t *testing.T) {
	e, st, _ := newTestEngine(t)
	ctx := context.Background()
	id := newTestPlayer(t, e)

	// 245 banked + 5 from the tap = 250: enough to cross the level-2 and
	// level-3 thresholds in a single resolution.
	arrange(t, st, id, func(s *domain.PlayerState) {
		s.Player.Experience = 245
	})

	res, err := e.Tap(ctx, id, forestID)
	require.NoError(t, err)

	assert.True(t, res.LevelUp)
	assert.Equal(t, 3, res.Level)
	require.Len(t, res.Rewards, 4)
	// Level 2 rewards first, then level 3, each in catalog order.
	assert.Equal(t, int64(1), res.Rewards[0].ID)
	assert.Equal(t, int64(2), res.Rewards[1].ID)
	assert.Equal(t, int64(3), res.Rewards[2].ID)
	assert.Equal(t, int64(4), res.Rewards[3].ID)

	state, err := e.GetPlayerState(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 3, state.Player.Level)
	assert.True(t, state.UnlockedTools[drillID], "level-2 reward unlocked the drill")
	assert.Equal(t, 110, state.Player.MaxEnergy, "level-3 reward raised max energy")
	// 50 main from level 2 + 2 from the tap itself.
	assert.Equal(t, 52.0, state.Balance(domain.MainCurrency))
	// 5 wood from the tap + 20 from the level-3 reward.
	assert.Equal(t, 25.0, state.Balance(wood))
}

func TestTap_ExperienceMonotonicAndBounded(t *testing.T) {
	e, _, _ := newTestEngine(t)
	ctx := context.Background()
	id := newTestPlayer(t, e)

	prevExp := int64(0)
	for i := 0; i < 80; i++ {
		_, err := e.Tap(ctx, id, forestID)
		require.NoError(t, err)

		state, err := e.GetPlayerState(ctx, id)
		require.NoError(t, err)

		assert.GreaterOrEqual(t, state.Player.Experience, prevExp, "experience never decreases")
		prevExp = state.Player.Experience

		if next := e.Catalog().Level(state.Player.Level + 1); next != nil {
			cur := e.Catalog().Level(state.Player.Level)
			assert.Less(t, state.Player.Experience, cur.RequiredExp,
				"resolution fully drains excess experience")
		}
	}
}

func TestTap_StorageClamp(t *testing.T) {
	e, st, _ := newTestEngine(t)
	ctx := context.Background()
	id := newTestPlayer(t, e)

	arrange(t, st, id, func(s *domain.PlayerState) {
		s.Balances[wood] = 48
		s.Storage[wood] = &domain.OwnedStorage{Currency: wood, Level: 1, Capacity: 50}
		s.Equipped[1] = drillID // local power 10
		s.UnlockedTools[drillID] = true
		s.Player.Level = 3 // keep level resolution out of the picture
		s.Player.Experience = 301
	})

	res, err := e.Tap(ctx, id, forestID)
	require.NoError(t, err)

	assert.Equal(t, 2.0, res.ResourcesGained, "only the headroom is credited")

	state, err := e.GetPlayerState(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 50.0, state.Balance(wood), "exactly capacity, surplus discarded")
}

func TestEnergyRefill_RemainderPreserved(t *testing.T) {
	e, st, clk := newTestEngine(t)
	ctx := context.Background()
	id := newTestPlayer(t, e)

	start := clk.T
	arrange(t, st, id, func(s *domain.PlayerState) {
		s.Player.Energy = 50
		s.Player.LastEnergyRefill = start
	})

	clk.T = start.Add(90 * time.Second)
	res, err := e.EnergyRefill(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 51, res.Energy)
	assert.Equal(t, start.Add(60*time.Second), res.LastEnergyRefill,
		"mark advances by whole minutes, keeping the 30s remainder")

	clk.T = start.Add(125 * time.Second)
	res, err = e.EnergyRefill(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 52, res.Energy)
	assert.Equal(t, start.Add(120*time.Second), res.LastEnergyRefill)
}

func TestEnergyRefill_SubMinuteNoop(t *testing.T) {
	e, st, clk := newTestEngine(t)
	ctx := context.Background()
	id := newTestPlayer(t, e)

	start := clk.T
	arrange(t, st, id, func(s *domain.PlayerState) {
		s.Player.Energy = 50
		s.Player.LastEnergyRefill = start
	})

	clk.T = start.Add(59 * time.Second)
	res, err := e.EnergyRefill(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 50, res.Energy)
	assert.Equal(t, start, res.LastEnergyRefill)
}

func TestEnergyRefill_CapsAtMax(t *testing.T) {
	e, st, clk := newTestEngine(t)
	ctx := context.Background()
	id := newTestPlayer(t, e)

	start := clk.T
	arrange(t, st, id, func(s *domain.PlayerState) {
		s.Player.Energy = 95
		s.Player.LastEnergyRefill = start
	})

	clk.Advance(30 * time.Minute)
	res, err := e.EnergyRefill(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 100, res.Energy)
}

func TestEnergyRefill_FullLeavesMarkUntouched(t *testing.T) {
	e, st, clk := newTestEngine(t)
	ctx := context.Background()
	id := newTestPlayer(t, e)

	start := clk.T
	arrange(t, st, id, func(s *domain.PlayerState) {
		s.Player.Energy = s.Player.MaxEnergy
		s.Player.LastEnergyRefill = start
	})

	clk.Advance(10 * time.Minute)
	res, err := e.EnergyRefill(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 100, res.Energy)
	assert.Equal(t, start, res.LastEnergyRefill,
		"mark must not drift while full, so a later capacity raise counts correctly")
}

func TestBuyTool_InsufficientFunds(t *testing.T) {
	e, st, _ := newTestEngine(t)
	ctx := context.Background()
	id := newTestPlayer(t, e)

	arrange(t, st, id, func(s *domain.PlayerState) {
		s.Balances[domain.MainCurrency] = 299 // drill costs 300
	})

	ok, err := e.BuyTool(ctx, id, drillID)
	require.NoError(t, err)
	assert.False(t, ok)

	state, err := e.GetPlayerState(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 299.0, state.Balance(domain.MainCurrency), "no partial debit")
	assert.False(t, state.UnlockedTools[drillID])
}

func TestBuyTool_SuccessAndNoAutoEquip(t *testing.T) {
	e, st, _ := newTestEngine(t)
	ctx := context.Background()
	id := newTestPlayer(t, e)

	arrange(t, st, id, func(s *domain.PlayerState) {
		s.Balances[domain.MainCurrency] = 300
	})

	ok, err := e.BuyTool(ctx, id, drillID)
	require.NoError(t, err)
	assert.True(t, ok)

	state, err := e.GetPlayerState(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 0.0, state.Balance(domain.MainCurrency))
	assert.True(t, state.UnlockedTools[drillID])
	assert.Equal(t, pickaxeID, state.Equipped[1], "buying never equips")

	// Second purchase is a normal false, not an error, and charges nothing.
	arrange(t, st, id, func(s *domain.PlayerState) {
		s.Balances[domain.MainCurrency] = 1000
	})
	ok, err = e.BuyTool(ctx, id, drillID)
	require.NoError(t, err)
	assert.False(t, ok)

	state, err = e.GetPlayerState(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 1000.0, state.Balance(domain.MainCurrency))
}

func TestEquipTool_Gating(t *testing.T) {
	e, st, _ := newTestEngine(t)
	ctx := context.Background()
	id := newTestPlayer(t, e)

	err := e.EquipTool(ctx, id, 1, drillID)
	assert.ErrorIs(t, err, ErrToolNotOwned)

	state, err := e.GetPlayerState(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, pickaxeID, state.Equipped[1], "failed equip leaves slot unchanged")

	// Wrong character: the axe belongs to character 2.
	err = e.EquipTool(ctx, id, 1, axeID)
	assert.ErrorIs(t, err, ErrToolNotOwned)

	arrange(t, st, id, func(s *domain.PlayerState) {
		s.UnlockedTools[drillID] = true
	})
	require.NoError(t, e.EquipTool(ctx, id, 1, drillID))

	state, err = e.GetPlayerState(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, drillID, state.Equipped[1])
}

func TestUnlocks_Idempotent(t *testing.T) {
	e, st, _ := newTestEngine(t)
	ctx := context.Background()
	id := newTestPlayer(t, e)

	arrange(t, st, id, func(s *domain.PlayerState) {
		s.UnlockedTools[drillID] = true
		s.UnlockedLocations[quarryID] = true
	})

	before, err := e.GetPlayerState(ctx, id)
	require.NoError(t, err)

	// Re-applying unlock rewards for already-owned targets changes nothing.
	err = st.Update(ctx, id, func(s *domain.PlayerState) error {
		e.applyReward(s, domain.Reward{Kind: domain.RewardUnlockTool, TargetID: drillID})
		e.applyReward(s, domain.Reward{Kind: domain.RewardUnlockLocation, TargetID: quarryID})
		return nil
	})
	require.NoError(t, err)

	after, err := e.GetPlayerState(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, before.UnlockedTools, after.UnlockedTools)
	assert.Equal(t, before.UnlockedLocations, after.UnlockedLocations)
}

func TestUnlockLocation(t *testing.T) {
	e, st, _ := newTestEngine(t)
	ctx := context.Background()
	id := newTestPlayer(t, e)

	// Level gate first.
	arrange(t, st, id, func(s *domain.PlayerState) {
		s.Balances[domain.MainCurrency] = 1000
	})
	_, err := e.UnlockLocation(ctx, id, quarryID)
	assert.ErrorIs(t, err, ErrLevelTooLow)

	arrange(t, st, id, func(s *domain.PlayerState) {
		s.Player.Level = 2
	})
	ok, err := e.UnlockLocation(ctx, id, quarryID)
	require.NoError(t, err)
	assert.True(t, ok)

	state, err := e.GetPlayerState(ctx, id)
	require.NoError(t, err)
	assert.True(t, state.UnlockedLocations[quarryID])
	assert.Equal(t, 500.0, state.Balance(domain.MainCurrency))

	// Already unlocked: false, no charge.
	ok, err = e.UnlockLocation(ctx, id, quarryID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHelper_BuyCollectUpgrade(t *testing.T) {
	e, st, clk := newTestEngine(t)
	ctx := context.Background()
	id := newTestPlayer(t, e)

	arrange(t, st, id, func(s *domain.PlayerState) {
		s.Balances[wood] = 30
		s.Balances[domain.MainCurrency] = 100
	})

	ok, err := e.BuyHelper(ctx, id, gnomeID)
	require.NoError(t, err)
	assert.True(t, ok)

	// 30 minutes at 60/h is 30 wood.
	clk.Advance(30 * time.Minute)
	collected, err := e.CollectHelperIncome(ctx, id)
	require.NoError(t, err)
	require.Len(t, collected, 1)
	assert.Equal(t, gnomeID, collected[0].HelperID)
	assert.Equal(t, wood, collected[0].Currency)
	assert.InDelta(t, 30.0, collected[0].Amount, 1e-9)

	// Immediately collecting again yields nothing.
	collected, err = e.CollectHelperIncome(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, collected)

	ok, err = e.UpgradeHelper(ctx, id, gnomeID)
	require.NoError(t, err)
	assert.True(t, ok)

	state, err := e.GetPlayerState(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 2, state.Helpers[gnomeID].Level)
	assert.Equal(t, 0.0, state.Balance(domain.MainCurrency))

	// Level 2 is the table max.
	ok, err = e.UpgradeHelper(ctx, id, gnomeID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUpgradeStorage(t *testing.T) {
	e, st, _ := newTestEngine(t)
	ctx := context.Background()
	id := newTestPlayer(t, e)

	arrange(t, st, id, func(s *domain.PlayerState) {
		s.Balances[domain.MainCurrency] = 140
	})

	ok, err := e.UpgradeStorage(ctx, id, wood)
	require.NoError(t, err)
	assert.True(t, ok)

	state, err := e.GetPlayerState(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, state.Storage[wood])
	assert.Equal(t, 1, state.Storage[wood].Level)
	assert.Equal(t, 50.0, state.Storage[wood].Capacity)
	assert.Equal(t, 100.0, state.Balance(domain.MainCurrency))

	ok, err = e.UpgradeStorage(ctx, id, wood)
	require.NoError(t, err)
	assert.True(t, ok)

	state, err = e.GetPlayerState(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 120.0, state.Storage[wood].Capacity)

	// Table exhausted.
	ok, err = e.UpgradeStorage(ctx, id, wood)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestExchange(t *testing.T) {
	e, st, _ := newTestEngine(t)
	ctx := context.Background()
	id := newTestPlayer(t, e)

	arrange(t, st, id, func(s *domain.PlayerState) {
		s.Balances[wood] = 10
	})

	// Insufficient balance rejects outright, no clamping.
	_, ok, err := e.Exchange(ctx, id, wood, 11)
	require.NoError(t, err)
	assert.False(t, ok)

	res, ok, err := e.Exchange(ctx, id, wood, 10)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 20.0, res.Received)
	assert.Equal(t, 20.0, res.Balance)

	state, err := e.GetPlayerState(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 0.0, state.Balance(wood))
	assert.Equal(t, 20.0, state.Balance(domain.MainCurrency))

	// Stone has no exchange rate configured.
	_, _, err = e.Exchange(ctx, id, stone, 1)
	assert.ErrorIs(t, err, domain.ErrUnknownCurrency)
}

func TestPlayerNotFound(t *testing.T) {
	e, _, _ := newTestEngine(t)
	ctx := context.Background()

	_, err := e.Tap(ctx, 9999, forestID)
	assert.ErrorIs(t, err, ErrPlayerNotFound)

	_, err = e.GetPlayerState(ctx, 9999)
	assert.ErrorIs(t, err, ErrPlayerNotFound)
}
