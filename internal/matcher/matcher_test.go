package matcher

import (
	"testing"

	"github.com/arb-intel/engine/internal/model"
)

func binaryMarket(eventID, eventName, venue, category string) model.Market {
	return model.Market{
		EventID:    eventID,
		Category:   category,
		EventName:  eventName,
		MarketType: model.MarketBinary,
		Outcomes: []model.Outcome{
			{Name: "Yes", OddsDecimal: 2.0, Venue: venue},
			{Name: "No", OddsDecimal: 2.0, Venue: venue},
		},
	}
}

func multiMarket(eventID, eventName, venue, category string, outcomes ...string) model.Market {
	m := model.Market{
		EventID:    eventID,
		Category:   category,
		EventName:  eventName,
		MarketType: model.MarketMulti,
	}
	for _, o := range outcomes {
		m.Outcomes = append(m.Outcomes, model.Outcome{Name: o, OddsDecimal: 3.0, Venue: venue})
	}
	return m
}

func TestMatches_SameEventAcrossVenues(t *testing.T) {
	a := binaryMarket("pm-1", "Will Trump win the 2028 presidential election?", "polymarket", "politics")
	b := binaryMarket("km-1", "Will Trump win the 2028 presidential election?", "kalshi", "politics")

	if !Matches(a, b, DefaultThreshold) {
		t.Error("expected identical event names across venues to match")
	}
}

func TestMatches_SameVenueNeverMatches(t *testing.T) {
	a := binaryMarket("pm-1", "Will Trump win the 2028 presidential election?", "polymarket", "politics")
	b := binaryMarket("pm-2", "Will Trump win the 2028 presidential election?", "polymarket", "politics")

	if Matches(a, b, DefaultThreshold) {
		t.Error("expected markets from the same venue to never match")
	}
}

func TestMatches_IncompatibleCategoriesNeverMatch(t *testing.T) {
	a := binaryMarket("pm-1", "Will the Lakers win the championship?", "polymarket", "sports")
	b := binaryMarket("km-1", "Will the Lakers win the championship?", "kalshi", "crypto")

	if Matches(a, b, DefaultThreshold) {
		t.Error("expected incompatible categories to never match, regardless of name similarity")
	}
}

func TestMatches_BinaryNeverMatchesMultiOutcome(t *testing.T) {
	a := binaryMarket("pm-1", "Who will win the election?", "polymarket", "politics")
	b := multiMarket("km-1", "Who will win the election?", "kalshi", "politics", "Trump", "Biden", "Harris")

	if Matches(a, b, DefaultThreshold) {
		t.Error("expected a binary market to never match a 3+ outcome market")
	}
}

func TestMatches_UnrelatedEventsBelowThreshold(t *testing.T) {
	a := binaryMarket("pm-1", "Will it rain in Tokyo tomorrow?", "polymarket", "world")
	b := binaryMarket("km-1", "Will the Fed cut rates in March?", "kalshi", "economics")

	if Matches(a, b, DefaultThreshold) {
		t.Error("expected unrelated event names to fall below the match threshold")
	}
}

func TestGroups_MergesMatchingMarketsAcrossVenues(t *testing.T) {
	a := binaryMarket("pm-1", "Will Trump win the 2028 presidential election?", "polymarket", "politics")
	b := binaryMarket("km-1", "Will Trump win the 2028 presidential election?", "kalshi", "politics")
	c := binaryMarket("mf-1", "Will it snow in Denver on Christmas?", "manifold", "world")

	groups := Groups([]model.Market{a, b, c}, DefaultThreshold)

	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}

	var merged *Group
	for i := range groups {
		if len(groups[i].Markets) == 2 {
			merged = &groups[i]
		}
	}
	if merged == nil {
		t.Fatal("expected one group with 2 merged markets")
	}
	if merged.Key[:8] != "matched_" {
		t.Errorf("expected a matched_ canonical key, got %q", merged.Key)
	}
}

func TestGroups_SingletonUsesOwnEventID(t *testing.T) {
	a := binaryMarket("pm-1", "Will it snow in Denver on Christmas?", "polymarket", "world")

	groups := Groups([]model.Market{a}, DefaultThreshold)

	if len(groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(groups))
	}
	if groups[0].Key != "pm-1" {
		t.Errorf("expected singleton group key to be its own event_id, got %q", groups[0].Key)
	}
}

func TestRepresentative_PicksLongestEventName(t *testing.T) {
	short := binaryMarket("pm-1", "Trump wins?", "polymarket", "politics")
	long := binaryMarket("km-1", "Will Donald Trump win the 2028 presidential election?", "kalshi", "politics")

	rep := Representative([]model.Market{short, long})
	if rep.EventName != long.EventName {
		t.Errorf("Representative = %q, want the longest name %q", rep.EventName, long.EventName)
	}
}

func TestRepresentative_TiesBrokenByAlphabeticallyFirstVenue(t *testing.T) {
	a := binaryMarket("z-1", "Will X happen?", "zzz-venue", "world")
	b := binaryMarket("a-1", "Will X happen?", "aaa-venue", "world")

	rep := Representative([]model.Market{a, b})
	if rep.EventID != "a-1" {
		t.Errorf("Representative = %q, want the alphabetically-first venue's market", rep.EventID)
	}
}
