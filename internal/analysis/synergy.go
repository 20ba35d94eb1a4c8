package analysis

import (
	"context"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/codyseavey/tcg-analyzer/internal/metrics"
	"github.com/codyseavey/tcg-analyzer/internal/models"
)

const (
	pairThreshold  = 0.3
	maxSynergyList = 10
)

// complementaryRoles are symmetric: either card may hold either role
var complementaryRoles = [][2]models.Role{
	{models.RoleMainAttacker, models.RoleSetupPokemon},
	{models.RoleMainAttacker, models.RoleEnergyAcceleration},
	{models.RoleDrawEngine, models.RoleMainAttacker},
	{models.RoleSearchItem, models.RoleMainAttacker},
	{models.RoleWall, models.RolePivot},
}

// DetectSynergies scores a decklist against the analyzed cards. Names with no
// matching card are reported in UnmatchedCards and otherwise ignored. The only
// error is context cancellation during the pairwise pass.
func (a *Analyzer) DetectSynergies(ctx context.Context, deck models.Decklist, features []models.CardFeatures) (*models.SynergyAnalysis, error) {
	start := time.Now()
	defer func() {
		metrics.SynergyDetectionDuration.Observe(time.Since(start).Seconds())
	}()

	cards, unmatched := expandDeck(deck, features)
	metrics.SynergyDeckSize.Observe(float64(len(cards)))

	result := &models.SynergyAnalysis{
		InterCardSynergies: []models.SynergyPair{},
		ArchetypeFit:       archetypeFit(cards),
		Recommendations:    []models.Recommendation{},
		DeckSize:           len(cards),
		UnmatchedCards:     unmatched,
	}
	if len(cards) == 0 {
		return result, nil
	}

	result.IntraCardScore = a.intraCardSynergy(ctx, cards)

	pairs, err := a.interCardSynergies(ctx, cards)
	if err != nil {
		return nil, err
	}
	result.InterCardSynergies = pairs
	result.Recommendations = a.recommend(cards, result)

	a.logger.Debug("detected deck synergies",
		zap.Int("deck_size", len(cards)),
		zap.Int("pairs", len(pairs)),
		zap.String("primary_archetype", string(result.PrimaryArchetype())),
		zap.Int("unmatched", len(unmatched)))

	return result, nil
}

// expandDeck resolves names against features (last entry wins on duplicate
// names) and repeats each card once per copy. Names are visited in sorted
// order so the expansion is deterministic.
func expandDeck(deck models.Decklist, features []models.CardFeatures) ([]*models.CardFeatures, []string) {
	byName := make(map[string]*models.CardFeatures, len(features))
	for i := range features {
		byName[features[i].Name] = &features[i]
	}

	names := make([]string, 0, len(deck))
	for name := range deck {
		names = append(names, name)
	}
	sort.Strings(names)

	var cards []*models.CardFeatures
	var unmatched []string
	for _, name := range names {
		qty := deck[name]
		if qty <= 0 {
			continue
		}
		card, ok := byName[name]
		if !ok {
			unmatched = append(unmatched, name)
			continue
		}
		for i := 0; i < qty; i++ {
			cards = append(cards, card)
		}
	}
	return cards, unmatched
}

// intraCardSynergy averages, over cards with both abilities and attacks, the
// overlap between ability keywords and attack keywords
func (a *Analyzer) intraCardSynergy(ctx context.Context, cards []*models.CardFeatures) float64 {
	total := 0.0
	count := 0
	for _, card := range cards {
		if len(card.Abilities) == 0 || len(card.Attacks) == 0 {
			continue
		}

		abilityKW := make(map[string]struct{})
		for _, ability := range card.Abilities {
			a.addKeywords(ctx, abilityKW, ability.Text)
		}
		attackKW := make(map[string]struct{})
		for _, attack := range card.Attacks {
			a.addKeywords(ctx, attackKW, attack.Text)
		}

		overlap := 0
		for kw := range abilityKW {
			if _, ok := attackKW[kw]; ok {
				overlap++
			}
		}
		denom := max(len(abilityKW), len(attackKW), 1)
		total += float64(overlap) / float64(denom)
		count++
	}
	if count == 0 {
		return 0
	}
	return total / float64(count)
}

// addKeywords adds the keywords of text to set. A degraded tagger result is
// still usable and the tagger has already logged the failure.
func (a *Analyzer) addKeywords(ctx context.Context, set map[string]struct{}, text string) {
	keywords, _ := a.tagger.Keywords(ctx, text)
	for _, kw := range keywords {
		set[kw] = struct{}{}
	}
}

// interCardSynergies scores every pair of physical copies with distinct card
// ids. Rows fan out across the worker pool and are merged in row order before
// the stable sort, so ties keep generation order.
func (a *Analyzer) interCardSynergies(ctx context.Context, cards []*models.CardFeatures) ([]models.SynergyPair, error) {
	rows := make([][]models.SynergyPair, len(cards))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)
	for i := range cards {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			var row []models.SynergyPair
			for j := i + 1; j < len(cards); j++ {
				if cards[i].CardID == cards[j].CardID {
					continue
				}
				if score := pairSynergy(cards[i], cards[j]); score > pairThreshold {
					row = append(row, models.SynergyPair{
						Card1: cards[i].Name,
						Card2: cards[j].Name,
						Score: score,
					})
				}
			}
			rows[i] = row
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	pairs := []models.SynergyPair{}
	for _, row := range rows {
		pairs = append(pairs, row...)
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		return pairs[i].Score > pairs[j].Score
	})
	if len(pairs) > maxSynergyList {
		pairs = pairs[:maxSynergyList]
	}
	return pairs, nil
}

// pairSynergy estimates the compatibility of two cards, capped at 1.0
func pairSynergy(c1, c2 *models.CardFeatures) float64 {
	score := 0.0

	score += float64(overlapCount(c1.SynergyTags, c2.SynergyTags)) * 0.2

	if rolesComplementary(c1.Roles, c2.Roles) {
		score += 0.4
	}

	if isPokemonSupertype(c1.Supertype) && isPokemonSupertype(c2.Supertype) &&
		overlapCount(c1.Types, c2.Types) > 0 {
		score += 0.3
	}

	score += float64(overlapCount(c1.SemanticKeywords, c2.SemanticKeywords)) * 0.1

	return math.Min(score, 1.0)
}

func rolesComplementary(r1, r2 map[models.Role]float64) bool {
	for _, pair := range complementaryRoles {
		_, a1 := r1[pair[0]]
		_, b1 := r1[pair[1]]
		_, a2 := r2[pair[0]]
		_, b2 := r2[pair[1]]
		if (a1 && b2) || (b1 && a2) {
			return true
		}
	}
	return false
}

// overlapCount returns the number of distinct values present in both slices
func overlapCount(a, b []string) int {
	set := make(map[string]struct{}, len(a))
	for _, v := range a {
		set[v] = struct{}{}
	}
	n := 0
	for _, v := range b {
		if _, ok := set[v]; ok {
			n++
			delete(set, v)
		}
	}
	return n
}

func isPokemonSupertype(s string) bool {
	return foldText(s) == "pokemon"
}

// archetypeFit computes role-count ratios over the deck size for each
// archetype. Midrange is the residual balance 1 - max(other scores).
func archetypeFit(cards []*models.CardFeatures) map[models.Archetype]float64 {
	fit := make(map[models.Archetype]float64, len(models.AllArchetypes()))
	for _, arch := range models.AllArchetypes() {
		fit[arch] = 0
	}
	if len(cards) == 0 {
		return fit
	}

	counts := countRoles(cards)
	total := float64(len(cards))
	ratio := func(roles ...models.Role) float64 {
		n := 0
		for _, role := range roles {
			n += counts[role]
		}
		return math.Min(float64(n)/total, 1.0)
	}

	fit[models.ArchetypeAggro] = ratio(models.RoleMainAttacker, models.RoleSecondaryAttacker)
	fit[models.ArchetypeControl] = ratio(models.RoleDisruptor, models.RoleDrawEngine, models.RoleWall)
	fit[models.ArchetypeEngine] = ratio(models.RoleDrawEngine, models.RoleSetupPokemon, models.RoleSearchItem)
	fit[models.ArchetypeToolbox] = ratio(models.RoleUtility, models.RoleTech, models.RolePivot)
	fit[models.ArchetypeCombo] = ratio(models.RoleEnergyAcceleration)
	fit[models.ArchetypeStall] = ratio(models.RoleWall, models.RoleHeal)

	best := 0.0
	for arch, score := range fit {
		if arch != models.ArchetypeMidrange && score > best {
			best = score
		}
	}
	fit[models.ArchetypeMidrange] = math.Max(0, 1-best)

	return fit
}

// countRoles counts, per role, the physical cards holding it
func countRoles(cards []*models.CardFeatures) map[models.Role]int {
	counts := make(map[models.Role]int)
	for _, card := range cards {
		for role := range card.Roles {
			counts[role]++
		}
	}
	return counts
}
