package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/cricket-fantasy/internal/domain/fantasy"
	fantasymock "github.com/riskibarqy/cricket-fantasy/internal/mocks/domain/fantasy"
	"github.com/riskibarqy/cricket-fantasy/internal/platform/id"
	"github.com/stretchr/testify/mock"
)

func validTeamInput() UpsertTeamInput {
	return UpsertTeamInput{
		ContestID:     "contest-1",
		MatchID:       testMatchID,
		OwnerID:       "user-1",
		Name:          "Powerplay XI",
		PlayerIDs:     []string{"a01", "a02", "a03", "a04", "a05", "a06", "a07", "a08", "a09", "b01", " b02 "},
		CaptainID:     "a01",
		ViceCaptainID: "b02",
	}
}

func TestTeamService_Upsert_CreatesWithGeneratedIDUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := fantasymock.NewRepository(t)
	service := NewTeamService(repo, &id.Sequence{IDs: []string{"team-new"}}, 11)
	fixed := time.Date(2026, 3, 1, 14, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return fixed }

	repo.On("GetByID", mock.Anything, "team-new").Return(fantasy.Team{}, false, nil).Once()
	repo.
		On("Upsert", mock.Anything, mock.MatchedBy(func(team fantasy.Team) bool {
			return team.ID == "team-new" && team.PlayerIDs[10] == "b02" && team.CreatedAt.Equal(fixed)
		})).
		Return(nil).
		Once()

	got, err := service.Upsert(ctx, validTeamInput())
	if err != nil {
		t.Fatalf("upsert team: %v", err)
	}
	if got.ID != "team-new" {
		t.Fatalf("unexpected team id: got=%s want=team-new", got.ID)
	}
}

func TestTeamService_Upsert_KeepsCreatedAtUsingMockery(t *testing.T) {
	t.Parallel()

	repo := fantasymock.NewRepository(t)
	service := NewTeamService(repo, nil, 11)
	created := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	input := validTeamInput()
	input.ID = "team-1"

	repo.On("GetByID", mock.Anything, "team-1").Return(fantasy.Team{ID: "team-1", MatchID: testMatchID, CreatedAt: created}, true, nil).Once()
	repo.
		On("Upsert", mock.Anything, mock.MatchedBy(func(team fantasy.Team) bool {
			return team.CreatedAt.Equal(created) && team.UpdatedAt.After(created)
		})).
		Return(nil).
		Once()

	if _, err := service.Upsert(context.Background(), input); err != nil {
		t.Fatalf("upsert team: %v", err)
	}
}

func TestTeamService_Upsert_RejectsInvalidTeamUsingMockery(t *testing.T) {
	t.Parallel()

	repo := fantasymock.NewRepository(t)
	service := NewTeamService(repo, nil, 11)

	input := validTeamInput()
	input.ID = "team-1"
	input.ViceCaptainID = ""

	_, err := service.Upsert(context.Background(), input)
	if !errors.Is(err, ErrPreconditionFailed) || !errors.Is(err, fantasy.ErrMissingViceCaptain) {
		t.Fatalf("expected missing vice-captain precondition, got %v", err)
	}
	repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestTeamService_Upsert_RejectsMatchChangeUsingMockery(t *testing.T) {
	t.Parallel()

	repo := fantasymock.NewRepository(t)
	service := NewTeamService(repo, nil, 11)

	input := validTeamInput()
	input.ID = "team-1"
	repo.On("GetByID", mock.Anything, "team-1").Return(fantasy.Team{ID: "team-1", MatchID: "other-match"}, true, nil).Once()

	if _, err := service.Upsert(context.Background(), input); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestTeamService_GetUsingMockery(t *testing.T) {
	t.Parallel()

	repo := fantasymock.NewRepository(t)
	service := NewTeamService(repo, nil, 11)

	repo.On("GetByID", mock.Anything, "missing").Return(fantasy.Team{}, false, nil).Once()
	if _, err := service.Get(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	repo.On("GetByID", mock.Anything, "broken").Return(fantasy.Team{}, false, errors.New("db down")).Once()
	if _, err := service.Get(context.Background(), "broken"); err == nil || errors.Is(err, ErrNotFound) {
		t.Fatalf("expected wrapped repository error, got %v", err)
	}
}

func TestScoringService_Finalize_ScoreWriteFailureUsingMockery(t *testing.T) {
	t.Parallel()

	scoreRepo := fantasymock.NewScoreRepository(t)
	service := NewScoringService(ScoringDependencies{
		Provider:  &stubScorecardProvider{scorecard: testScorecard(true)},
		TeamRepo:  &stubTeamRepo{teams: testTeams()[:1]},
		ScoreRepo: scoreRepo,
		RunRepo:   &stubRunRepo{},
	}, ScoringServiceConfig{Workers: 1})

	scoreRepo.
		On("UpsertScore", mock.Anything, mock.MatchedBy(func(score fantasy.Score) bool { return score.TeamID == "team-1" })).
		Return(errors.New("connection reset")).
		Once()

	if _, err := service.Finalize(context.Background(), testMatchID); err == nil {
		t.Fatalf("expected finalize to fail when scores cannot be stored")
	}
}
