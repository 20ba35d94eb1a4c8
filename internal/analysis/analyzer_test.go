package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/codyseavey/tcg-analyzer/internal/models"
	"github.com/codyseavey/tcg-analyzer/internal/store"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func pokemonRecord(id, name string, hp int, types []string, retreat int, attacks []models.Attack, abilities []models.Ability) models.CardRecord {
	return models.CardRecord{
		CardID:      id,
		Name:        name,
		Supertype:   models.SupertypePokemon,
		Subtype:     "Basic",
		HP:          models.IntPtr(hp),
		Types:       models.EncodeStringList(types),
		RetreatCost: models.IntPtr(retreat),
		Attacks:     models.EncodeAttacks(attacks),
		Abilities:   models.EncodeAbilities(abilities),
		Expansion:   "Test Set",
		Rarity:      "Rare",
	}
}

func trainerRecord(id, name, subtype string, rules ...string) models.CardRecord {
	return models.CardRecord{
		CardID:    id,
		Name:      name,
		Supertype: models.SupertypeTrainer,
		Subtype:   subtype,
		Rules:     models.EncodeStringList(rules),
	}
}

func energyRecord(id, name string, rules ...string) models.CardRecord {
	return models.CardRecord{
		CardID:    id,
		Name:      name,
		Supertype: models.SupertypeEnergy,
		Subtype:   "Special",
		Rules:     models.EncodeStringList(rules),
	}
}

func fixtureCards() []models.CardRecord {
	return []models.CardRecord{
		pokemonRecord("sv3-125", "Charizard ex", 330, []string{"Fire"}, 2,
			[]models.Attack{{
				Name:   "Burning Darkness",
				Text:   "This attack does 30 more damage for each Prize card your opponent has taken.",
				Damage: "180+",
				Cost:   []string{"Fire", "Fire"},
			}},
			[]models.Ability{{
				Name: "Infernal Reign",
				Text: "When you play this Pokémon from your hand to evolve 1 of your Pokémon during your turn, you may search your deck for up to 3 Basic Fire Energy cards and attach them to your Pokémon in any way you like. Then, shuffle your deck.",
				Type: "Ability",
			}},
		),
		pokemonRecord("sv3-26", "Charmander", 70, []string{"Fire"}, 1,
			[]models.Attack{{Name: "Blazing Destruction", Text: "Discard a Stadium in play.", Cost: []string{"Fire"}}},
			nil,
		),
		pokemonRecord("sv4-60", "Pidgeot ex", 280, []string{"Colorless"}, 0,
			[]models.Attack{{Name: "Blustery Wind", Text: "You may discard a Stadium in play.", Damage: "120"}},
			[]models.Ability{{Name: "Quick Search", Text: "Once during your turn, you may search your deck for a card and put it into your hand.", Type: "Ability"}},
		),
		pokemonRecord("sv2-150", "Bibarel", 120, []string{"Colorless"}, 3,
			[]models.Attack{{Name: "Tail Smash", Text: "Flip a coin. If tails, this attack does nothing.", Damage: "100"}},
			[]models.Ability{{Name: "Industrious Incisors", Text: "Once during your turn, you may draw cards until you have 5 cards in your hand.", Type: "Ability"}},
		),
		trainerRecord("sv1-189", "Professor's Research", "Supporter",
			"Discard your hand and draw 7 cards.",
			"You may play only 1 Supporter card during your turn."),
		trainerRecord("sv1-181", "Nest Ball", "Item",
			"Search your deck for a Basic Pokémon and put it onto your Bench. Then, shuffle your deck."),
		trainerRecord("sv2-173", "Forest Seal Stone", "Pokémon Tool",
			"The Pokémon V this card is attached to can use the VSTAR Power on this card."),
		energyRecord("sve-2", "Basic Fire Energy"),
		energyRecord("sv5-162", "Luminous Energy",
			"As long as this card is attached to a Pokémon, it provides every type of Energy but provides only 1 Energy at a time."),
	}
}

func newTestAnalyzer(t *testing.T, cards []models.CardRecord, augmenter Augmenter) *Analyzer {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Workers = 4
	cfg.Augmenter = augmenter
	a, err := NewAnalyzer(store.NewMemoryStore(cards), cfg)
	require.NoError(t, err)
	return a
}

type failingStore struct{ err error }

func (s failingStore) GetCard(ctx context.Context, cardID string) (*models.CardRecord, error) {
	return nil, &store.StoreError{Op: "get", Err: s.err}
}

func (s failingStore) ListCards(ctx context.Context) ([]models.CardRecord, error) {
	return nil, &store.StoreError{Op: "list", Err: s.err}
}

type failingAugmenter struct{}

func (failingAugmenter) ExtractTokens(ctx context.Context, text string) ([]string, error) {
	return nil, errors.New("model not loaded")
}

func TestNewAnalyzerRequiresStore(t *testing.T) {
	_, err := NewAnalyzer(nil, DefaultConfig())
	assert.Error(t, err)
}

func TestExtractFeaturesAll(t *testing.T) {
	cards := fixtureCards()
	a := newTestAnalyzer(t, cards, NewLexicalAugmenter())

	features, err := a.ExtractFeatures(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, features, len(cards))

	// ListCards orders by id
	for i := 1; i < len(features); i++ {
		assert.Less(t, features[i-1].CardID, features[i].CardID)
	}

	for _, f := range features {
		assert.Empty(t, f.Degraded, "card %s", f.CardID)
		if len(f.Roles) == 0 {
			continue
		}
		sum := 0.0
		for _, confidence := range f.Roles {
			sum += confidence
		}
		assert.InDelta(t, 1.0, sum, 1e-9, "roles of %s", f.CardID)
	}
}

func TestExtractFeaturesSingle(t *testing.T) {
	a := newTestAnalyzer(t, fixtureCards(), NewLexicalAugmenter())

	features, err := a.ExtractFeatures(context.Background(), "sv3-125")
	require.NoError(t, err)
	require.Len(t, features, 1)

	charizard := features[0]
	assert.Equal(t, "Charizard ex", charizard.Name)
	assert.Equal(t, []string{"Fire"}, charizard.Types)
	assert.True(t, charizard.HasRole(models.RoleMainAttacker))
	assert.True(t, charizard.HasRole(models.RoleEnergyAcceleration))
	assert.True(t, charizard.HasKeyword("attach"))
	assert.True(t, charizard.HasKeyword("search"))
	assert.Contains(t, charizard.Pros, "Very high HP for survivability")
	assert.Contains(t, charizard.Pros, "Energy acceleration capability")
	assert.Contains(t, charizard.SynergyTags, "Fire")
	assert.Contains(t, charizard.SynergyTags, "pokémon_synergy")
}

func TestExtractFeaturesNotFound(t *testing.T) {
	a := newTestAnalyzer(t, fixtureCards(), nil)

	_, err := a.ExtractFeatures(context.Background(), "missing-1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, store.ErrNotFound))

	var nf *store.NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "missing-1", nf.CardID)
}

func TestExtractFeaturesStoreError(t *testing.T) {
	a, err := NewAnalyzer(failingStore{err: errors.New("database is locked")}, DefaultConfig())
	require.NoError(t, err)

	tests := []struct {
		name   string
		cardID string
	}{
		{"all cards", ""},
		{"single card", "sv3-125"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := a.ExtractFeatures(context.Background(), tt.cardID)
			var storeErr *store.StoreError
			require.True(t, errors.As(err, &storeErr))
			assert.False(t, errors.Is(err, store.ErrNotFound))
		})
	}
}

func TestExtractFeaturesCanceled(t *testing.T) {
	a := newTestAnalyzer(t, fixtureCards(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := a.ExtractFeatures(ctx, "")
	assert.Error(t, err)
}

func TestExtractFeaturesDeterministic(t *testing.T) {
	a := newTestAnalyzer(t, fixtureCards(), NewLexicalAugmenter())

	first, err := a.ExtractFeatures(context.Background(), "")
	require.NoError(t, err)
	second, err := a.ExtractFeatures(context.Background(), "")
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("features differ between runs (-first +second):\n%s", diff)
	}

	firstJSON, err := json.Marshal(first)
	require.NoError(t, err)
	secondJSON, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, string(firstJSON), string(secondJSON))

	// A fresh analyzer with a cold cache must agree with the warm one
	cold := newTestAnalyzer(t, fixtureCards(), NewLexicalAugmenter())
	third, err := cold.ExtractFeatures(context.Background(), "")
	require.NoError(t, err)
	if diff := cmp.Diff(first, third); diff != "" {
		t.Errorf("features differ between analyzers (-warm +cold):\n%s", diff)
	}
}

func TestAnalyzeMalformedRecordDegrades(t *testing.T) {
	a := newTestAnalyzer(t, nil, nil)

	rec := models.CardRecord{
		CardID:    "bad-1",
		Name:      "Broken Card",
		Supertype: models.SupertypePokemon,
		HP:        models.IntPtr(60),
		Types:     `["Water"`,
		Attacks:   "Water Gun: 20 damage",
		Rules:     "Draw 2 cards.",
	}

	f := a.Analyze(context.Background(), rec)
	assert.Equal(t, []string{StageParse}, f.Degraded)
	assert.Equal(t, []models.Attack{}, f.Attacks)
	assert.Equal(t, []string{`["Water"`}, f.Types)
	assert.Equal(t, []string{"Draw 2 cards."}, f.Rules)
	assert.Equal(t, 2, f.Effect(models.EffectDrawAmount))
	assert.Contains(t, f.Cons, "Low HP, vulnerable to knockouts")
}

func TestAnalyzeAugmenterFailureDegrades(t *testing.T) {
	a := newTestAnalyzer(t, nil, failingAugmenter{})

	rec := trainerRecord("sv1-189", "Professor's Research", "Supporter", "Discard your hand and draw 7 cards.")
	f := a.Analyze(context.Background(), rec)

	assert.Equal(t, []string{StageAugment}, f.Degraded)
	// category matching still ran
	assert.True(t, f.HasKeyword("draw"))
	assert.True(t, f.HasKeyword("disrupt"))
	assert.Equal(t, map[models.Role]float64{models.RoleDrawSupporter: 1.0}, f.Roles)
}

func TestAnalyzeProsCons(t *testing.T) {
	tests := []struct {
		name     string
		rec      models.CardRecord
		wantPro  string
		wantCon  string
		noPro    string
		noCon    string
		wantRole models.Role
	}{
		{
			name:     "very high hp",
			rec:      pokemonRecord("a", "Big", 250, []string{"Metal"}, 2, nil, nil),
			wantPro:  "Very high HP for survivability",
			wantRole: models.RoleMainAttacker,
		},
		{
			name:    "high retreat cost",
			rec:     pokemonRecord("b", "Heavy", 130, []string{"Fighting"}, 3, nil, nil),
			wantCon: "High retreat cost limits mobility",
			noPro:   "Free retreat for easy pivoting",
		},
		{
			name:     "free retreat",
			rec:      pokemonRecord("c", "Light", 60, []string{"Psychic"}, 0, nil, nil),
			wantPro:  "Free retreat for easy pivoting",
			wantCon:  "Low HP, vulnerable to knockouts",
			wantRole: models.RolePivot,
		},
		{
			name: "damage from attack text",
			rec: pokemonRecord("d", "Hitter", 150, []string{"Lightning"}, 1,
				[]models.Attack{{Name: "Thunder", Text: "This attack does 220 damage to 1 of your opponent's Pokémon."}}, nil),
			wantPro:  "High damage output",
			noCon:    "Low damage output",
			wantRole: models.RoleMainAttacker,
		},
		{
			name: "coin flip",
			rec: pokemonRecord("e", "Gambler", 90, []string{"Colorless"}, 1,
				[]models.Attack{{Name: "Lucky", Text: "Flip a coin. If heads, this attack does 80 damage."}}, nil),
			wantCon: "Relies on coin flips (inconsistent)",
		},
		{
			name:    "strong draw",
			rec:     trainerRecord("f", "Draw Supporter", "Supporter", "Draw 4 cards."),
			wantPro: "Strong draw power (4 cards)",
		},
		{
			name:    "discard cost",
			rec:     trainerRecord("g", "Ultra Ball", "Item", "Discard 2 cards from your hand. Search your deck for a Pokémon."),
			wantPro: "Tutoring effect for consistency",
			wantCon: "Requires discarding resources",
		},
	}

	a := newTestAnalyzer(t, nil, NewLexicalAugmenter())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := a.Analyze(context.Background(), tt.rec)
			if tt.wantPro != "" {
				assert.Contains(t, f.Pros, tt.wantPro)
			}
			if tt.wantCon != "" {
				assert.Contains(t, f.Cons, tt.wantCon)
			}
			if tt.noPro != "" {
				assert.NotContains(t, f.Pros, tt.noPro)
			}
			if tt.noCon != "" {
				assert.NotContains(t, f.Cons, tt.noCon)
			}
			if tt.wantRole != "" {
				assert.True(t, f.HasRole(tt.wantRole), "roles: %v", f.Roles)
			}
		})
	}
}

func TestAnalyzeIgnoresPrintedDamage(t *testing.T) {
	a := newTestAnalyzer(t, nil, NewLexicalAugmenter())

	rec := pokemonRecord("h", "Glass Cannon", 60, []string{"Fire"}, 1,
		[]models.Attack{{Name: "Big Hit", Damage: "160", Text: ""}}, nil)
	f := a.Analyze(context.Background(), rec)

	assert.Empty(t, f.Degraded)
	assert.Equal(t, 0, f.Effect(models.EffectDamageAmount))
	assert.NotContains(t, f.NumericalEffects, models.EffectDamageAmount)
	assert.False(t, f.HasRole(models.RoleMainAttacker), "roles: %v", f.Roles)
	assert.False(t, f.HasRole(models.RoleSecondaryAttacker), "roles: %v", f.Roles)
	assert.Contains(t, f.Cons, "Low damage output")
	assert.NotContains(t, f.Pros, "Decent damage for prizes")
}

func TestAnalyzeMissingStatsCountAsZero(t *testing.T) {
	a := newTestAnalyzer(t, nil, NewLexicalAugmenter())

	rec := pokemonRecord("i", "Unknown Stats", 0, []string{"Water"}, 0, nil, nil)
	rec.HP = nil
	rec.RetreatCost = nil
	f := a.Analyze(context.Background(), rec)

	assert.Nil(t, f.HP)
	assert.Contains(t, f.Cons, "Low HP, vulnerable to knockouts")
	assert.Contains(t, f.Pros, "Free retreat for easy pivoting")
	assert.True(t, f.HasRole(models.RolePivot), "roles: %v", f.Roles)
}

func TestAnalyzeUnknownSupertype(t *testing.T) {
	a := newTestAnalyzer(t, nil, nil)

	f := a.Analyze(context.Background(), models.CardRecord{CardID: "x", Name: "Mystery", Supertype: "Token"})
	assert.Empty(t, f.Roles)
	assert.Empty(t, f.Degraded)
	assert.Equal(t, []string{"token_synergy"}, f.SynergyTags)
}
