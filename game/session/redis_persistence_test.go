package session

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
)

type RedisPersistenceTestSuite struct {
	suite.Suite
	miniRedis   *miniredis.Miniredis
	client      *redis.Client
	persistence *RedisPersistence
}

func (s *RedisPersistenceTestSuite) SetupTest() {
	mr, err := miniredis.Run()
	s.Require().NoError(err)
	s.miniRedis = mr

	s.client = redis.NewClient(&redis.Options{Addr: mr.Addr()})

	p, err := NewRedisPersistence(s.client, "test:session:", time.Hour, true)
	s.Require().NoError(err)
	s.persistence = p
}

func (s *RedisPersistenceTestSuite) TearDownTest() {
	s.client.Close()
	s.miniRedis.Close()
}

func (s *RedisPersistenceTestSuite) TestSaveAndLoad() {
	session := newTestSession(s.T(), "Red1")
	s.Require().True(session.Engine.Move("left"))

	s.Require().NoError(s.persistence.Save(session))
	s.True(s.miniRedis.Exists("test:session:red1"))
	s.True(s.persistence.Exists("RED1"))

	raw, err := s.miniRedis.Get("test:session:red1")
	s.Require().NoError(err)
	s.True(IsCompressed([]byte(raw)), "stored value should be a zstd frame")
	s.Greater(s.miniRedis.TTL("test:session:red1"), time.Duration(0))

	loaded, err := s.persistence.Load("red1")
	s.Require().NoError(err)
	s.Equal("Red1", loaded.ID)
	s.Equal("test/1", loaded.LevelID)
	s.Equal(session.Engine.GetPlayerPosition(), loaded.Engine.GetPlayerPosition())
	s.Len(loaded.Engine.GetMoveHistory(), 1)
}

func (s *RedisPersistenceTestSuite) TestLoadMissing() {
	_, err := s.persistence.Load("nope")
	s.ErrorIs(err, ErrSessionNotFound)
	s.False(s.persistence.Exists("nope"))
}

func (s *RedisPersistenceTestSuite) TestListAndDelete() {
	for _, id := range []string{"b2", "a1"} {
		s.Require().NoError(s.persistence.Save(newTestSession(s.T(), id)))
	}

	ids, err := s.persistence.ListAll()
	s.Require().NoError(err)
	s.Equal([]string{"a1", "b2"}, ids)

	s.Require().NoError(s.persistence.Delete("a1"))
	s.ErrorIs(s.persistence.Delete("a1"), ErrSessionNotFound)

	ids, err = s.persistence.ListAll()
	s.Require().NoError(err)
	s.Equal([]string{"b2"}, ids)
}

func (s *RedisPersistenceTestSuite) TestExpiredKeysLeaveIndex() {
	s.Require().NoError(s.persistence.Save(newTestSession(s.T(), "old1")))
	s.miniRedis.FastForward(2 * time.Hour)

	s.False(s.persistence.Exists("old1"))
	ids, err := s.persistence.ListAll()
	s.Require().NoError(err)
	s.Empty(ids)

	s.False(s.miniRedis.Exists("test:session:@index"), "pruned index should be gone")
}

func (s *RedisPersistenceTestSuite) TestUncompressedValues() {
	p, err := NewRedisPersistence(s.client, "", 0, false)
	s.Require().NoError(err)

	s.Require().NoError(p.Save(newTestSession(s.T(), "plain")))
	raw, err := s.miniRedis.Get(defaultRedisPrefix + "plain")
	s.Require().NoError(err)
	s.Contains(raw, `"level_id": "test/1"`)
	s.Equal(time.Duration(0), s.miniRedis.TTL(defaultRedisPrefix+"plain"))

	loaded, err := p.Load("plain")
	s.Require().NoError(err)
	s.Equal("plain", loaded.ID)
}

func (s *RedisPersistenceTestSuite) TestRequiresClient() {
	_, err := NewRedisPersistence(nil, "", 0, false)
	s.Error(err)
}

func TestRedisPersistenceTestSuite(t *testing.T) {
	suite.Run(t, new(RedisPersistenceTestSuite))
}
