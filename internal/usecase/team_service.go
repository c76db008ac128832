package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/cricket-fantasy/internal/domain/fantasy"
	"github.com/riskibarqy/cricket-fantasy/internal/platform/id"
	"go.opentelemetry.io/otel/attribute"
)

type UpsertTeamInput struct {
	ID            string
	ContestID     string
	MatchID       string
	OwnerID       string
	Name          string
	PlayerIDs     []string
	CaptainID     string
	ViceCaptainID string
}

type TeamService struct {
	teamRepo fantasy.Repository
	idGen    id.Generator
	teamSize int
	now      func() time.Time
}

func NewTeamService(teamRepo fantasy.Repository, idGen id.Generator, teamSize int) *TeamService {
	if idGen == nil {
		idGen = id.NewUUIDGenerator()
	}
	return &TeamService{
		teamRepo: teamRepo,
		idGen:    idGen,
		teamSize: teamSize,
		now:      time.Now,
	}
}

func (s *TeamService) Upsert(ctx context.Context, input UpsertTeamInput) (fantasy.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.Upsert")
	defer span.End()

	team := fantasy.Team{
		ID:            strings.TrimSpace(input.ID),
		ContestID:     strings.TrimSpace(input.ContestID),
		MatchID:       strings.TrimSpace(input.MatchID),
		OwnerID:       strings.TrimSpace(input.OwnerID),
		Name:          strings.TrimSpace(input.Name),
		PlayerIDs:     trimAll(input.PlayerIDs),
		CaptainID:     strings.TrimSpace(input.CaptainID),
		ViceCaptainID: strings.TrimSpace(input.ViceCaptainID),
	}
	if team.ID == "" {
		generated, err := s.idGen.NewID()
		if err != nil {
			return fantasy.Team{}, fmt.Errorf("generate team id: %w", err)
		}
		team.ID = generated
	}

	if err := team.ValidateBasic(); err != nil {
		return fantasy.Team{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := fantasy.Validate(team, s.teamSize); err != nil {
		return fantasy.Team{}, fmt.Errorf("%w: %w", ErrPreconditionFailed, err)
	}

	now := s.now().UTC()
	existing, exists, err := s.teamRepo.GetByID(ctx, team.ID)
	if err != nil {
		return fantasy.Team{}, fmt.Errorf("get team: %w", err)
	}
	team.CreatedAt = now
	if exists {
		if existing.MatchID != team.MatchID {
			return fantasy.Team{}, fmt.Errorf("%w: team %s already belongs to match %s", ErrInvalidInput, team.ID, existing.MatchID)
		}
		team.CreatedAt = existing.CreatedAt
	}
	team.UpdatedAt = now

	if err := s.teamRepo.Upsert(ctx, team); err != nil {
		return fantasy.Team{}, fmt.Errorf("upsert team: %w", err)
	}
	return team, nil
}

func (s *TeamService) Get(ctx context.Context, teamID string) (fantasy.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.Get", attribute.String("fantasy.team_id", teamID))
	defer span.End()

	teamID = strings.TrimSpace(teamID)
	if teamID == "" {
		return fantasy.Team{}, fmt.Errorf("%w: team id is required", ErrInvalidInput)
	}

	team, ok, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return fantasy.Team{}, fmt.Errorf("get team: %w", err)
	}
	if !ok {
		return fantasy.Team{}, fmt.Errorf("%w: team=%s", ErrNotFound, teamID)
	}
	return team, nil
}

func (s *TeamService) ListByMatch(ctx context.Context, matchID string) ([]fantasy.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.ListByMatch", matchAttr(matchID))
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return nil, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	teams, err := s.teamRepo.ListByMatch(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("list teams by match: %w", err)
	}
	return teams, nil
}

func trimAll(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, strings.TrimSpace(item))
	}
	return out
}
