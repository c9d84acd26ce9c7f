// Copyright (c) 2026 The tag-directory Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Rank is a contributor tier derived from accumulated credits.
type Rank string

// Ranks, lowest first
const (
	RankBronze   Rank = "Bronze"
	RankSilver   Rank = "Silver"
	RankGold     Rank = "Gold"
	RankPlatinum Rank = "Platinum"
	RankDiamond  Rank = "Diamond"
)

// RankTier pairs a rank with its inclusive lower credit bound.
type RankTier struct {
	Rank       Rank  `json:"rank"`
	MinCredits int64 `json:"min_credits"`
}

// rankTiers is the only threshold table. Ordered ascending by MinCredits;
// the first entry must start at 0 so every non-negative total has a tier.
var rankTiers = [...]RankTier{
	{Rank: RankBronze, MinCredits: 0},
	{Rank: RankSilver, MinCredits: 100},
	{Rank: RankGold, MinCredits: 500},
	{Rank: RankPlatinum, MinCredits: 1500},
	{Rank: RankDiamond, MinCredits: 5000},
}

// RankTiers returns a copy of the ordered tier table.
func RankTiers() []RankTier {
	out := make([]RankTier, len(rankTiers))
	copy(out, rankTiers[:])
	return out
}

// RankForCredits maps a credit total to its tier. Negative totals count as zero.
func RankForCredits(credits int64) Rank {
	return rankTiers[tierIndex(credits)].Rank
}

func tierIndex(credits int64) int {
	idx := 0
	for i, tier := range rankTiers {
		if credits >= tier.MinCredits {
			idx = i
		}
	}
	return idx
}

// Level returns the 1-based position of r, or 0 for an unknown rank.
func (r Rank) Level() int {
	for i, tier := range rankTiers {
		if tier.Rank == r {
			return i + 1
		}
	}
	return 0
}

// Label returns the display name used on profiles, e.g. "Gold Contributor".
func (r Rank) Label() string {
	return string(r) + " Contributor"
}

func (r Rank) String() string {
	return string(r)
}

// RankProgress describes where a credit total sits within its tier.
type RankProgress struct {
	Credits       int64 `json:"credits"`
	Rank          Rank  `json:"rank"`
	NextRank      Rank  `json:"next_rank,omitempty"`
	NextThreshold int64 `json:"next_threshold,omitempty"`
	Remaining     int64 `json:"remaining"`
	// Percent is credits relative to the next threshold, capped at 100.
	Percent float64 `json:"percent"`
}

// ProgressForCredits returns the rank progress for a credit total.
// At the top tier Remaining is 0 and Percent is 100.
func ProgressForCredits(credits int64) RankProgress {
	if credits < 0 {
		credits = 0
	}
	idx := tierIndex(credits)
	p := RankProgress{Credits: credits, Rank: rankTiers[idx].Rank, Percent: 100}
	if idx+1 < len(rankTiers) {
		next := rankTiers[idx+1]
		p.NextRank = next.Rank
		p.NextThreshold = next.MinCredits
		p.Remaining = next.MinCredits - credits
		p.Percent = min(100, float64(credits)/float64(next.MinCredits)*100)
	}
	return p
}

// CreditActivity is a contribution that earns a fixed number of credits.
type CreditActivity string

// Credit activities
const (
	ActivitySubmitTag     CreditActivity = "submit_tag"
	ActivityTagVerified   CreditActivity = "tag_verified"
	ActivityViews10       CreditActivity = "views_10"
	ActivityViews50       CreditActivity = "views_50"
	ActivityViews100      CreditActivity = "views_100"
	ActivityFixBug        CreditActivity = "fix_bug"
	ActivityImproveDocs   CreditActivity = "improve_docs"
	ActivityAnswerIssue   CreditActivity = "answer_issue"
	ActivityReviewPR      CreditActivity = "review_pr"
	ActivityMonthlyActive CreditActivity = "monthly_active"
)

// CreditRule describes one entry of the credit schedule.
type CreditRule struct {
	Activity    CreditActivity `json:"activity"`
	Description string         `json:"description"`
	Credits     int64          `json:"credits"`
}

var creditSchedule = []CreditRule{
	{ActivitySubmitTag, "Submit a Tag", 10},
	{ActivityTagVerified, "Tag Gets Verified", 25},
	{ActivityViews10, "Tag Gets 10+ Views", 5},
	{ActivityViews50, "Tag Gets 50+ Views", 15},
	{ActivityViews100, "Tag Gets 100+ Views", 30},
	{ActivityFixBug, "Fix a Bug", 15},
	{ActivityImproveDocs, "Improve Documentation", 10},
	{ActivityAnswerIssue, "Answer Issue", 5},
	{ActivityReviewPR, "Review PR", 10},
	{ActivityMonthlyActive, "Monthly Active", 20},
}

// CreditSchedule returns the credit schedule.
func CreditSchedule() []CreditRule {
	out := make([]CreditRule, len(creditSchedule))
	copy(out, creditSchedule)
	return out
}

// CreditsFor returns the credits awarded for activity.
func CreditsFor(activity CreditActivity) (int64, bool) {
	for _, rule := range creditSchedule {
		if rule.Activity == activity {
			return rule.Credits, true
		}
	}
	return 0, false
}

// ViewMilestone returns the activity earned when a blueprint reaches views,
// if views lands exactly on a milestone.
func ViewMilestone(views int64) (CreditActivity, bool) {
	switch views {
	case 10:
		return ActivityViews10, true
	case 50:
		return ActivityViews50, true
	case 100:
		return ActivityViews100, true
	}
	return "", false
}
