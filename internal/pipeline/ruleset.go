package pipeline

import (
	"fbw-backend/internal/models"
)

// Ruleset identifiers
const (
	RulesetOfficial = "official"
	RulesetSpecial  = "special"
)

// Category identifiers
const (
	CategorySecureTrial   = "secure_trial"
	CategoryIndividualVIP = "individual_vip"
	CategoryDailySingles  = "daily_singles"
	CategoryBankerBet     = "banker_bet"
	CategoryValuePicks    = "value_picks"
	CategorySpecial       = "fbw_special"
)

// CategorySpec declares one category's quota, confidence band, and the
// entitlement tier required to view it once published.
type CategorySpec struct {
	ID            string
	Name          string
	Quota         int
	MinConfidence int
	MaxConfidence int
	RequiredTier  string
}

// OfficialCategories are the five buckets of one official run, in
// presentation order. Quotas sum to OfficialTarget. The individual VIP
// bucket is split four picks per VIP plan by the composer.
var OfficialCategories = []CategorySpec{
	{ID: CategorySecureTrial, Name: "Secure Trial", Quota: 4, MinConfidence: 70, MaxConfidence: 95, RequiredTier: models.TierFree},
	{ID: CategoryIndividualVIP, Name: "Individual VIP", Quota: 12, MinConfidence: 70, MaxConfidence: 95, RequiredTier: models.TierVIP},
	{ID: CategoryDailySingles, Name: "Daily Singles", Quota: 15, MinConfidence: 70, MaxConfidence: 95, RequiredTier: models.TierVIP},
	{ID: CategoryBankerBet, Name: "Banker Bet", Quota: 4, MinConfidence: 70, MaxConfidence: 95, RequiredTier: models.TierVIP},
	{ID: CategoryValuePicks, Name: "Value Picks", Quota: 15, MinConfidence: 70, MaxConfidence: 95, RequiredTier: models.TierVIP},
}

// SpecialCategory is the elite bucket produced by its own run.
var SpecialCategory = CategorySpec{
	ID:            CategorySpecial,
	Name:          "FBW Special",
	Quota:         SpecialMaxPicks,
	MinConfidence: 85,
	MaxConfidence: 99,
	RequiredTier:  models.TierElite,
}

// Official ruleset count targets. Totals outside the tolerance band are
// logged, not fatal; the category's value tolerates natural variance.
const (
	OfficialTarget       = 50
	OfficialToleranceMin = 45
	OfficialToleranceMax = 55
)

// Special ruleset bounds. The maximum is a hard invariant: exceeding it
// aborts the run before persistence.
const (
	SpecialMinPicks = 3
	SpecialMaxPicks = 10
)

// CategoryByID returns the definition for a category identifier.
func CategoryByID(id string) (CategorySpec, bool) {
	if id == CategorySpecial {
		return SpecialCategory, true
	}
	for _, c := range OfficialCategories {
		if c.ID == id {
			return c, true
		}
	}
	return CategorySpec{}, false
}
