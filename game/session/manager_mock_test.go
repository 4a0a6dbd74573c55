package session

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/wricardo/sokoban-game/game/service"
	sessionmocks "github.com/wricardo/sokoban-game/game/session/mocks"
)

type ManagerPersistenceMockTestSuite struct {
	suite.Suite
	ctrl        *gomock.Controller
	persistence *sessionmocks.MockSessionPersistence
	manager     *Manager
}

func (s *ManagerPersistenceMockTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.persistence = sessionmocks.NewMockSessionPersistence(s.ctrl)
	s.manager = NewManagerWithPersistence(s.persistence)
}

func (s *ManagerPersistenceMockTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *ManagerPersistenceMockTestSuite) TestCreateSaves() {
	s.persistence.EXPECT().Save(gomock.Any()).DoAndReturn(func(session *service.Session) error {
		s.Equal("m1", session.ID)
		s.Equal("test/1", session.LevelID)
		return nil
	})

	_, err := s.manager.Create("m1", testLevel(), newTestEngine(s.T()))
	s.Require().NoError(err)
}

func (s *ManagerPersistenceMockTestSuite) TestCreateSurvivesSaveFailure() {
	s.persistence.EXPECT().Save(gomock.Any()).Return(errors.New("disk full"))

	session, err := s.manager.Create("m2", testLevel(), newTestEngine(s.T()))
	s.Require().NoError(err)
	s.Equal("m2", session.ID)
}

func (s *ManagerPersistenceMockTestSuite) TestGetFallsBackToStorage() {
	stored := newTestSession(s.T(), "m3")
	s.persistence.EXPECT().Exists("m3").Return(true)
	s.persistence.EXPECT().Load("m3").Return(stored, nil)

	got, err := s.manager.Get("m3")
	s.Require().NoError(err)
	s.Same(stored, got)

	// Second lookup is served from memory
	got, err = s.manager.Get("m3")
	s.Require().NoError(err)
	s.Same(stored, got)
}

func (s *ManagerPersistenceMockTestSuite) TestGetLoadFailure() {
	s.persistence.EXPECT().Exists("m4").Return(true)
	s.persistence.EXPECT().Load("m4").Return(nil, errors.New("corrupt"))

	_, err := s.manager.Get("m4")
	s.ErrorContains(err, "corrupt")
}

func (s *ManagerPersistenceMockTestSuite) TestGetMissing() {
	s.persistence.EXPECT().Exists("m5").Return(false)

	_, err := s.manager.Get("m5")
	s.ErrorIs(err, ErrSessionNotFound)
}

func (s *ManagerPersistenceMockTestSuite) TestLoadPersistedSessionsSkipsBroken() {
	s.persistence.EXPECT().ListAll().Return([]string{"ok1", "bad1"}, nil)
	s.persistence.EXPECT().Load("ok1").Return(newTestSession(s.T(), "ok1"), nil)
	s.persistence.EXPECT().Load("bad1").Return(nil, errors.New("schema"))

	s.Require().NoError(s.manager.LoadPersistedSessions())
	s.Equal(1, s.manager.Count())
}

func (s *ManagerPersistenceMockTestSuite) TestSaveAllCountsFailures() {
	s.persistence.EXPECT().Save(gomock.Any()).Return(nil).Times(2)
	_, err := s.manager.Create("s1", testLevel(), newTestEngine(s.T()))
	s.Require().NoError(err)
	_, err = s.manager.Create("s2", testLevel(), newTestEngine(s.T()))
	s.Require().NoError(err)

	s.persistence.EXPECT().Save(gomock.Any()).Return(errors.New("offline")).Times(2)
	s.ErrorContains(s.manager.SaveAllSessions(), "failed to save 2 sessions")
}

func (s *ManagerPersistenceMockTestSuite) TestDeleteStoredOnly() {
	s.persistence.EXPECT().Exists("gone").Return(true)
	s.persistence.EXPECT().Delete("gone").Return(nil)

	s.NoError(s.manager.Delete("gone"))
}

func TestManagerPersistenceMockTestSuite(t *testing.T) {
	suite.Run(t, new(ManagerPersistenceMockTestSuite))
}
