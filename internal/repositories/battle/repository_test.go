package battle_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-battle/internal/entities/battle"
	"github.com/KirkDiggler/rpg-battle/internal/errors"
	battlerepo "github.com/KirkDiggler/rpg-battle/internal/repositories/battle"
	"github.com/KirkDiggler/rpg-battle/internal/testutils"
)

// RepositoryTestSuite runs the same contract against every store
type RepositoryTestSuite struct {
	suite.Suite
	newRepo func() battlerepo.Repository
	repo    battlerepo.Repository
	ctx     context.Context
}

func TestInMemoryRepository(t *testing.T) {
	suite.Run(t, &RepositoryTestSuite{
		newRepo: func() battlerepo.Repository { return battlerepo.NewInMemory() },
	})
}

func TestRedisRepository(t *testing.T) {
	s := &RepositoryTestSuite{}
	s.newRepo = func() battlerepo.Repository {
		client, _ := testutils.CreateTestRedisClient(s.T())
		repo, err := battlerepo.NewRedis(&battlerepo.RedisConfig{Client: client})
		s.Require().NoError(err)
		return repo
	}
	suite.Run(t, s)
}

func (s *RepositoryTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.repo = s.newRepo()
}

func (s *RepositoryTestSuite) TestCreateAndGet() {
	state := testutils.CreateTestBattle(s.T(), "battle_1")

	_, err := s.repo.Create(s.ctx, battlerepo.CreateInput{State: state})
	s.Require().NoError(err)

	out, err := s.repo.Get(s.ctx, battlerepo.GetInput{ID: "battle_1"})
	s.Require().NoError(err)
	s.Equal(state, out.State)
	s.NoError(out.State.Validate())
}

func (s *RepositoryTestSuite) TestCreateTwice() {
	state := testutils.CreateTestBattle(s.T(), "battle_1")

	_, err := s.repo.Create(s.ctx, battlerepo.CreateInput{State: state})
	s.Require().NoError(err)

	_, err = s.repo.Create(s.ctx, battlerepo.CreateInput{State: state})
	s.True(errors.IsAlreadyExists(err))
}

func (s *RepositoryTestSuite) TestStoredCopyIsIsolated() {
	state := testutils.CreateTestBattle(s.T(), "battle_1")
	_, err := s.repo.Create(s.ctx, battlerepo.CreateInput{State: state})
	s.Require().NoError(err)

	state.Player.Units[0].CurrentHealth = 1

	out, err := s.repo.Get(s.ctx, battlerepo.GetInput{ID: "battle_1"})
	s.Require().NoError(err)
	s.Equal(2, out.State.Player.Units[0].CurrentHealth)

	out.State.Round = 9
	again, err := s.repo.Get(s.ctx, battlerepo.GetInput{ID: "battle_1"})
	s.Require().NoError(err)
	s.Equal(1, again.State.Round)
}

func (s *RepositoryTestSuite) TestUpdate() {
	state := testutils.CreateTestBattle(s.T(), "battle_1")
	_, err := s.repo.Create(s.ctx, battlerepo.CreateInput{State: state})
	s.Require().NoError(err)

	next := state.Clone()
	next.Phase = battle.PhasePlayerAct
	next.Log = append(next.Log, battle.LogEntry{Seq: 3, Round: 1, Phase: battle.PhasePlayerPlace, Message: "Your Knight enters at (1,5)"})

	_, err = s.repo.Update(s.ctx, battlerepo.UpdateInput{State: next})
	s.Require().NoError(err)

	out, err := s.repo.Get(s.ctx, battlerepo.GetInput{ID: "battle_1"})
	s.Require().NoError(err)
	s.Equal(battle.PhasePlayerAct, out.State.Phase)
	s.Len(out.State.Log, 3)
}

func (s *RepositoryTestSuite) TestUpdateMissing() {
	state := testutils.CreateTestBattle(s.T(), "battle_missing")

	_, err := s.repo.Update(s.ctx, battlerepo.UpdateInput{State: state})
	s.True(errors.IsNotFound(err))
}

func (s *RepositoryTestSuite) TestDelete() {
	state := testutils.CreateTestBattle(s.T(), "battle_1")
	_, err := s.repo.Create(s.ctx, battlerepo.CreateInput{State: state})
	s.Require().NoError(err)

	_, err = s.repo.Delete(s.ctx, battlerepo.DeleteInput{ID: "battle_1"})
	s.Require().NoError(err)

	_, err = s.repo.Get(s.ctx, battlerepo.GetInput{ID: "battle_1"})
	s.True(errors.IsNotFound(err))

	_, err = s.repo.Delete(s.ctx, battlerepo.DeleteInput{ID: "battle_1"})
	s.True(errors.IsNotFound(err))
}

func (s *RepositoryTestSuite) TestInvalidInput() {
	_, err := s.repo.Create(s.ctx, battlerepo.CreateInput{})
	s.True(errors.IsInvalidArgument(err))

	_, err = s.repo.Create(s.ctx, battlerepo.CreateInput{State: &battle.State{}})
	s.True(errors.IsInvalidArgument(err))

	_, err = s.repo.Get(s.ctx, battlerepo.GetInput{})
	s.True(errors.IsInvalidArgument(err))

	_, err = s.repo.Update(s.ctx, battlerepo.UpdateInput{})
	s.True(errors.IsInvalidArgument(err))

	_, err = s.repo.Delete(s.ctx, battlerepo.DeleteInput{})
	s.True(errors.IsInvalidArgument(err))
}

func TestRedisExpiry(t *testing.T) {
	client, mr := testutils.CreateTestRedisClient(t)
	repo, err := battlerepo.NewRedis(&battlerepo.RedisConfig{Client: client, TTL: time.Hour})
	require.NoError(t, err)
	ctx := context.Background()

	state := testutils.CreateTestBattle(t, "battle_ttl")
	_, err = repo.Create(ctx, battlerepo.CreateInput{State: state})
	require.NoError(t, err)
	assert.Equal(t, time.Hour, mr.TTL("battle:battle_ttl"))

	// an update pushes the expiry out again
	mr.FastForward(30 * time.Minute)
	_, err = repo.Update(ctx, battlerepo.UpdateInput{State: state})
	require.NoError(t, err)
	assert.Equal(t, time.Hour, mr.TTL("battle:battle_ttl"))

	mr.FastForward(2 * time.Hour)
	_, err = repo.Get(ctx, battlerepo.GetInput{ID: "battle_ttl"})
	assert.True(t, errors.IsNotFound(err), "expected not found after expiry, got %v", err)
}

func TestRedisDefaultTTL(t *testing.T) {
	client, mr := testutils.CreateTestRedisClient(t)
	repo, err := battlerepo.NewRedis(&battlerepo.RedisConfig{Client: client})
	require.NoError(t, err)

	state := testutils.CreateTestBattle(t, "battle_default")
	_, err = repo.Create(context.Background(), battlerepo.CreateInput{State: state})
	require.NoError(t, err)
	assert.Equal(t, battlerepo.DefaultTTL, mr.TTL("battle:battle_default"))
}

func TestNewRedisValidation(t *testing.T) {
	_, err := battlerepo.NewRedis(nil)
	assert.True(t, errors.IsInvalidArgument(err))

	_, err = battlerepo.NewRedis(&battlerepo.RedisConfig{})
	assert.True(t, errors.IsInvalidArgument(err))

	client, _ := testutils.CreateTestRedisClient(t)
	_, err = battlerepo.NewRedis(&battlerepo.RedisConfig{Client: client, TTL: -time.Second})
	assert.True(t, errors.IsInvalidArgument(err))
}
