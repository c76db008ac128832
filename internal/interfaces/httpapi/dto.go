package httpapi

import (
	"encoding/json"
	"time"

	"github.com/riskibarqy/cricket-fantasy/internal/domain/contest"
	"github.com/riskibarqy/cricket-fantasy/internal/domain/fantasy"
	"github.com/riskibarqy/cricket-fantasy/internal/domain/performance"
	"github.com/riskibarqy/cricket-fantasy/internal/domain/scoring"
	"github.com/riskibarqy/cricket-fantasy/internal/usecase"
)

type teamRequest struct {
	ID            string   `json:"id" validate:"omitempty,max=64"`
	ContestID     string   `json:"contestId" validate:"omitempty,max=64"`
	MatchID       string   `json:"matchId" validate:"omitempty,max=64"`
	OwnerID       string   `json:"ownerId" validate:"omitempty,max=64"`
	Name          string   `json:"name" validate:"omitempty,max=100"`
	PlayerIDs     []string `json:"playerIds" validate:"required,min=1,dive,required"`
	CaptainID     string   `json:"captainId" validate:"required"`
	ViceCaptainID string   `json:"viceCaptainId" validate:"required"`
}

func (t teamRequest) toTeam() fantasy.Team {
	return fantasy.Team{
		ID:            t.ID,
		ContestID:     t.ContestID,
		MatchID:       t.MatchID,
		OwnerID:       t.OwnerID,
		Name:          t.Name,
		PlayerIDs:     t.PlayerIDs,
		CaptainID:     t.CaptainID,
		ViceCaptainID: t.ViceCaptainID,
	}
}

type upsertTeamRequest struct {
	ID            string   `json:"id" validate:"omitempty,max=64"`
	ContestID     string   `json:"contestId" validate:"required,max=64"`
	MatchID       string   `json:"matchId" validate:"required,max=64"`
	OwnerID       string   `json:"ownerId" validate:"omitempty,max=64"`
	Name          string   `json:"name" validate:"omitempty,max=100"`
	PlayerIDs     []string `json:"playerIds" validate:"required,min=1,dive,required"`
	CaptainID     string   `json:"captainId" validate:"required"`
	ViceCaptainID string   `json:"viceCaptainId" validate:"required"`
}

func (t upsertTeamRequest) toInput() usecase.UpsertTeamInput {
	return usecase.UpsertTeamInput{
		ID:            t.ID,
		ContestID:     t.ContestID,
		MatchID:       t.MatchID,
		OwnerID:       t.OwnerID,
		Name:          t.Name,
		PlayerIDs:     t.PlayerIDs,
		CaptainID:     t.CaptainID,
		ViceCaptainID: t.ViceCaptainID,
	}
}

type previewPayloadRequest struct {
	RuleSet string          `json:"ruleSet" validate:"omitempty,max=32"`
	Payload json.RawMessage `json:"payload" validate:"required"`
	Teams   []teamRequest   `json:"teams" validate:"omitempty,dive"`
}

type prizePoolRequest struct {
	MatchID  string `json:"matchId" validate:"omitempty,max=64"`
	Amount   int64  `json:"amount" validate:"gte=0"`
	Currency string `json:"currency" validate:"required,len=3,alpha"`
}

type teamDTO struct {
	ID            string    `json:"id"`
	ContestID     string    `json:"contestId"`
	MatchID       string    `json:"matchId"`
	OwnerID       string    `json:"ownerId,omitempty"`
	Name          string    `json:"name,omitempty"`
	PlayerIDs     []string  `json:"playerIds"`
	CaptainID     string    `json:"captainId"`
	ViceCaptainID string    `json:"viceCaptainId"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type teamScoreDTO struct {
	TeamID        string                 `json:"teamId"`
	OwnerID       string                 `json:"ownerId,omitempty"`
	Rank          int                    `json:"rank"`
	TotalPoints   float64                `json:"totalPoints"`
	Contributions []fantasy.Contribution `json:"contributions"`
	Warnings      []fantasy.Warning      `json:"warnings,omitempty"`
}

type contestStandingDTO struct {
	ContestID string         `json:"contestId"`
	Teams     []teamScoreDTO `json:"teams"`
}

type diagnosticDTO struct {
	Code     string `json:"code"`
	Innings  int    `json:"innings"`
	PlayerID string `json:"playerId,omitempty"`
	Detail   string `json:"detail"`
}

type contestResultDTO struct {
	MatchID     string               `json:"matchId"`
	RuleSet     string               `json:"ruleSet"`
	Provisional bool                 `json:"provisional"`
	Contests    []contestStandingDTO `json:"contests"`
	Players     []scoring.Breakdown  `json:"players"`
	Diagnostics []diagnosticDTO      `json:"diagnostics,omitempty"`
}

type finalizeResultDTO struct {
	contestResultDTO
	RunID         string                 `json:"runId"`
	Distributions []contest.Distribution `json:"distributions,omitempty"`
}

type storedScoreDTO struct {
	teamScoreDTO
	RuleSet      string    `json:"ruleSet"`
	RunID        string    `json:"runId"`
	Provisional  bool      `json:"provisional"`
	CalculatedAt time.Time `json:"calculatedAt"`
}

type storedStandingDTO struct {
	ContestID string           `json:"contestId"`
	Teams     []storedScoreDTO `json:"teams"`
}

type matchScoresDTO struct {
	MatchID  string              `json:"matchId"`
	Contests []storedStandingDTO `json:"contests"`
}

type ruleSetsDTO struct {
	Default  string        `json:"default"`
	Versions []string      `json:"versions"`
	Rules    scoring.Rules `json:"rules"`
}

type prizePoolDTO struct {
	ContestID string `json:"contestId"`
	MatchID   string `json:"matchId,omitempty"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
}

func teamToDTO(v fantasy.Team) teamDTO {
	return teamDTO{
		ID:            v.ID,
		ContestID:     v.ContestID,
		MatchID:       v.MatchID,
		OwnerID:       v.OwnerID,
		Name:          v.Name,
		PlayerIDs:     append([]string(nil), v.PlayerIDs...),
		CaptainID:     v.CaptainID,
		ViceCaptainID: v.ViceCaptainID,
		CreatedAt:     v.CreatedAt,
		UpdatedAt:     v.UpdatedAt,
	}
}

func scoreResultToDTO(v fantasy.ScoreResult) teamScoreDTO {
	contributions := v.Contributions
	if contributions == nil {
		contributions = []fantasy.Contribution{}
	}
	return teamScoreDTO{
		TeamID:        v.TeamID,
		OwnerID:       v.OwnerID,
		Rank:          v.Rank,
		TotalPoints:   v.TotalPoints,
		Contributions: contributions,
		Warnings:      v.Warnings,
	}
}

func diagnosticsToDTO(items []performance.Diagnostic) []diagnosticDTO {
	if len(items) == 0 {
		return nil
	}
	out := make([]diagnosticDTO, 0, len(items))
	for _, item := range items {
		out = append(out, diagnosticDTO{
			Code:     string(item.Code),
			Innings:  item.Innings,
			PlayerID: item.PlayerID,
			Detail:   item.Detail,
		})
	}
	return out
}

func contestResultToDTO(v usecase.ContestResult) contestResultDTO {
	contests := make([]contestStandingDTO, 0, len(v.Contests))
	for _, c := range v.Contests {
		teams := make([]teamScoreDTO, 0, len(c.Teams))
		for _, t := range c.Teams {
			teams = append(teams, scoreResultToDTO(t))
		}
		contests = append(contests, contestStandingDTO{ContestID: c.ContestID, Teams: teams})
	}

	players := v.Breakdowns
	if players == nil {
		players = []scoring.Breakdown{}
	}

	return contestResultDTO{
		MatchID:     v.MatchID,
		RuleSet:     v.RuleSet,
		Provisional: v.Provisional,
		Contests:    contests,
		Players:     players,
		Diagnostics: diagnosticsToDTO(v.Diagnostics),
	}
}

func matchScoresToDTO(v usecase.MatchScores) matchScoresDTO {
	out := matchScoresDTO{
		MatchID:  v.MatchID,
		Contests: make([]storedStandingDTO, 0, len(v.Contests)),
	}
	for _, c := range v.Contests {
		teams := make([]storedScoreDTO, 0, len(c.Scores))
		for _, s := range c.Scores {
			teams = append(teams, storedScoreDTO{
				teamScoreDTO: scoreResultToDTO(s.ScoreResult),
				RuleSet:      s.RuleSet,
				RunID:        s.RunID,
				Provisional:  s.Provisional,
				CalculatedAt: s.CalculatedAt,
			})
		}
		out.Contests = append(out.Contests, storedStandingDTO{ContestID: c.ContestID, Teams: teams})
	}
	return out
}
