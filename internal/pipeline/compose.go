package pipeline

import (
	"encoding/json"
	"fmt"
	"strings"

	"fbw-backend/internal/models"
)

// Prompt is a composed instruction pair for one generation call.
type Prompt struct {
	System string
	User   string
}

const officialSystemInstruction = `You are the head football analyst for a betting predictions service.
You study form, motivation, squad news and head-to-head history before committing to a pick.
You only return the JSON object requested, with no commentary around it.
Every pick must reference a match from the fixture list you are given; never invent matches.
Odds are decimal odds greater than 1.01. Confidence is an integer percentage.`

const specialSystemInstruction = `You are the senior analyst in charge of the single elite daily slip.
Reputation depends on restraint: fewer, stronger picks beat volume.
You only return the JSON object requested, with no commentary around it.
Every pick must reference a match from the fixture list you are given; never invent matches.
Odds are decimal odds greater than 1.01. Confidence is an integer percentage.`

// ComposeOfficial builds the prompt for the high-volume official run. Pure
// function: serializes the fixture list and states the five-category quota
// distribution and the shared confidence band.
func ComposeOfficial(fixtures []models.Fixture) (Prompt, error) {
	blob, err := json.Marshal(fixtures)
	if err != nil {
		return Prompt{}, fmt.Errorf("failed to serialize fixtures: %w", err)
	}

	var rules strings.Builder
	rules.WriteString("Produce today's official prediction slate from the fixtures below.\n")
	rules.WriteString("Distribute picks across the categories with EXACTLY these counts:\n")
	for _, c := range OfficialCategories {
		fmt.Fprintf(&rules, "- %s (%s): %d picks", c.ID, c.Name, c.Quota)
		if c.ID == CategoryIndividualVIP {
			rules.WriteString(" (split as 4 picks for each of the three VIP plans, strongest first)")
		}
		rules.WriteString("\n")
	}
	fmt.Fprintf(&rules, "Total picks: %d.\n", OfficialTarget)
	fmt.Fprintf(&rules, "Confidence for every pick must be between %d and %d.\n",
		OfficialCategories[0].MinConfidence, OfficialCategories[0].MaxConfidence)
	rules.WriteString("Allowed prediction labels: Home Win, Away Win, Draw, Double Chance 1X, Double Chance X2, Double Chance 12, Over 1.5, Over 2.5, Under 2.5, Under 3.5, BTTS, BTTS No.\n")
	rules.WriteString("Prefer top-flight leagues when fixtures allow it. Never place the same fixture in more than one category.\n")
	rules.WriteString("\nFixtures (JSON):\n")
	rules.Write(blob)

	return Prompt{System: officialSystemInstruction, User: rules.String()}, nil
}

// ComposeSpecial builds the prompt for the elite run. The eligibility gates
// are hard rules: minimum head-to-head sample, a recency bound, and a
// prohibition on Under picks that head-to-head scoring history contradicts.
func ComposeSpecial(fixtures []models.Fixture) (Prompt, error) {
	blob, err := json.Marshal(fixtures)
	if err != nil {
		return Prompt{}, fmt.Errorf("failed to serialize fixtures: %w", err)
	}

	var rules strings.Builder
	rules.WriteString("Select today's elite special picks from the fixtures below.\n")
	fmt.Fprintf(&rules, "Return between %d and %d picks. Returning fewer than %d, including zero, is correct when not enough fixtures qualify. NEVER return more than %d.\n",
		SpecialMinPicks, SpecialMaxPicks, SpecialMinPicks, SpecialMaxPicks)
	rules.WriteString("Hard eligibility gates, all required for every pick:\n")
	rules.WriteString("- The two teams must have played each other at least 3 times.\n")
	rules.WriteString("- Only head-to-head meetings from the last 5 years count toward that minimum.\n")
	rules.WriteString("- Never pick an Under line when the eligible head-to-head meetings average more goals than that line.\n")
	fmt.Fprintf(&rules, "Confidence for every pick must be between %d and %d.\n",
		SpecialCategory.MinConfidence, SpecialCategory.MaxConfidence)
	rules.WriteString("Allowed prediction labels: Home Win, Away Win, Double Chance 1X, Double Chance X2, Over 1.5, Over 2.5, Under 2.5, BTTS.\n")
	rules.WriteString("\nFixtures (JSON):\n")
	rules.Write(blob)

	return Prompt{System: specialSystemInstruction, User: rules.String()}, nil
}
