package workflowsmedia_test

import (
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"go.temporal.io/sdk/testsuite"

	"github.com/evermarks/evermark-minter/internal/logger"
	"github.com/evermarks/evermark-minter/internal/mocks"
	workflowsmedia "github.com/evermarks/evermark-minter/internal/workflows/media"
)

type WorkflowTestSuite struct {
	suite.Suite
	testsuite.WorkflowTestSuite

	env      *testsuite.TestWorkflowEnvironment
	ctrl     *gomock.Controller
	executor *mocks.MockMediaExecutor
	worker   workflowsmedia.Worker
}

func (s *WorkflowTestSuite) SetupTest() {
	_ = logger.Initialize(logger.Config{Debug: true})

	s.env = s.NewTestWorkflowEnvironment()
	s.ctrl = gomock.NewController(s.T())
	s.executor = mocks.NewMockMediaExecutor(s.ctrl)
	s.worker = workflowsmedia.NewWorker(s.executor)

	s.env.RegisterActivity(s.executor.GenerateDerivedArtifacts)
}

func (s *WorkflowTestSuite) TearDownTest() {
	s.env.AssertExpectations(s.T())
	s.ctrl.Finish()
}

func TestWorkflowTestSuite(t *testing.T) {
	suite.Run(t, new(WorkflowTestSuite))
}

func (s *WorkflowTestSuite) TestGenerateDerivedArtifactsWorkflow_Success() {
	req := artifactsRequest()
	s.env.OnActivity(s.executor.GenerateDerivedArtifacts, mock.Anything, req).Return(nil).Once()

	s.env.ExecuteWorkflow(s.worker.GenerateDerivedArtifactsWorkflow, req)

	s.True(s.env.IsWorkflowCompleted())
	s.NoError(s.env.GetWorkflowError())
}

func (s *WorkflowTestSuite) TestGenerateDerivedArtifactsWorkflow_RetriesThenFails() {
	req := artifactsRequest()
	s.env.OnActivity(s.executor.GenerateDerivedArtifacts, mock.Anything, req).Return(errors.New("cloudflare unavailable")).Times(5)

	s.env.ExecuteWorkflow(s.worker.GenerateDerivedArtifactsWorkflow, req)

	s.True(s.env.IsWorkflowCompleted())
	s.Error(s.env.GetWorkflowError())
}

func (s *WorkflowTestSuite) TestWorkflowID() {
	s.Equal("evermark-artifacts-42", workflowsmedia.WorkflowID("42"))
}
