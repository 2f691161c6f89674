package pipeline

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"fbw-backend/internal/models"
)

func sampleFixtures() []models.Fixture {
	kickoff := time.Date(2026, 8, 31, 15, 0, 0, 0, time.UTC)
	return []models.Fixture{
		{ID: 1101, HomeTeam: "Arsenal", AwayTeam: "Chelsea", League: "Premier League", Country: "England", Kickoff: kickoff, Status: "NS"},
		{ID: 1102, HomeTeam: "Milan", AwayTeam: "Inter", League: "Serie A", Country: "Italy", Kickoff: kickoff.Add(2 * time.Hour), Status: "NS"},
	}
}

func TestComposeOfficialStatesQuotas(t *testing.T) {
	prompt, err := ComposeOfficial(sampleFixtures())
	if err != nil {
		t.Fatalf("ComposeOfficial failed: %v", err)
	}

	if prompt.System == "" {
		t.Error("official prompt needs a system instruction")
	}
	for _, c := range OfficialCategories {
		want := fmt.Sprintf("%s (%s): %d picks", c.ID, c.Name, c.Quota)
		if !strings.Contains(prompt.User, want) {
			t.Errorf("prompt missing quota line %q", want)
		}
	}
	if !strings.Contains(prompt.User, fmt.Sprintf("Total picks: %d.", OfficialTarget)) {
		t.Error("prompt should state the overall target")
	}
	if !strings.Contains(prompt.User, "4 picks for each of the three VIP plans") {
		t.Error("prompt should state the individual VIP split")
	}
}

func TestComposeOfficialEmbedsFixtures(t *testing.T) {
	prompt, err := ComposeOfficial(sampleFixtures())
	if err != nil {
		t.Fatalf("ComposeOfficial failed: %v", err)
	}

	for _, team := range []string{"Arsenal", "Chelsea", "Milan", "Inter"} {
		if !strings.Contains(prompt.User, team) {
			t.Errorf("prompt missing fixture team %q", team)
		}
	}
}

func TestComposeSpecialStatesEligibilityGates(t *testing.T) {
	prompt, err := ComposeSpecial(sampleFixtures())
	if err != nil {
		t.Fatalf("ComposeSpecial failed: %v", err)
	}

	if !strings.Contains(prompt.User, "at least 3 times") {
		t.Error("prompt should state the head-to-head sample gate")
	}
	if !strings.Contains(prompt.User, "last 5 years") {
		t.Error("prompt should state the recency gate")
	}
	if !strings.Contains(prompt.User, "Never pick an Under line") {
		t.Error("prompt should state the Under prohibition")
	}
	if !strings.Contains(prompt.User, fmt.Sprintf("NEVER return more than %d", SpecialMaxPicks)) {
		t.Error("prompt should state the hard cap")
	}
	if !strings.Contains(prompt.User, "including zero, is correct") {
		t.Error("prompt should allow returning fewer than the minimum")
	}
}

func TestComposeIsDeterministic(t *testing.T) {
	fixtures := sampleFixtures()

	a, err := ComposeOfficial(fixtures)
	if err != nil {
		t.Fatalf("ComposeOfficial failed: %v", err)
	}
	b, err := ComposeOfficial(fixtures)
	if err != nil {
		t.Fatalf("ComposeOfficial failed: %v", err)
	}
	if a.System != b.System || a.User != b.User {
		t.Error("same fixtures must compose to the same prompt")
	}
}
