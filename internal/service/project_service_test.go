package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	apperrors "worktrack/internal/errors"
	"worktrack/internal/model"
)

// MockProjectRepository is a mock implementation of ProjectRepository.
type MockProjectRepository struct {
	mock.Mock
}

func (m *MockProjectRepository) Create(ctx context.Context, project *model.Project) error {
	args := m.Called(ctx, project)
	return args.Error(0)
}

func (m *MockProjectRepository) Update(ctx context.Context, project *model.Project) error {
	args := m.Called(ctx, project)
	return args.Error(0)
}

func (m *MockProjectRepository) FindByID(ctx context.Context, id uint) (*model.Project, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Project), args.Error(1)
}

func (m *MockProjectRepository) List(ctx context.Context) ([]model.Project, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Project), args.Error(1)
}

func (m *MockProjectRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProjectRepository) CountByStatus(ctx context.Context) (map[model.ProjectStatus]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[model.ProjectStatus]int64), args.Error(1)
}

func (m *MockProjectRepository) DeleteWithModules(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestProjectService_CreateProject(t *testing.T) {
	tests := []struct {
		name            string
		input           ProjectInput
		setupMock       func(*MockProjectRepository)
		expectedError   error
		expectedMessage string
		expectedStatus  model.ProjectStatus
	}{
		{
			name: "defaults status to not started",
			input: ProjectInput{
				Title:       "Website Redesign",
				Description: "Revamp the customer portal",
			},
			setupMock: func(m *MockProjectRepository) {
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.Project")).Return(nil)
			},
			expectedStatus: model.ProjectStatusNotStarted,
		},
		{
			name: "keeps an explicit status",
			input: ProjectInput{
				Title:       "Website Redesign",
				Description: "Revamp the customer portal",
				Status:      model.ProjectStatusInProgress,
			},
			setupMock: func(m *MockProjectRepository) {
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.Project")).Return(nil)
			},
			expectedStatus: model.ProjectStatusInProgress,
		},
		{
			name: "missing title",
			input: ProjectInput{
				Description: "Revamp the customer portal",
			},
			setupMock:       func(m *MockProjectRepository) {},
			expectedMessage: "Title and description are required fields.",
		},
		{
			name: "invalid status",
			input: ProjectInput{
				Title:       "Website Redesign",
				Description: "Revamp the customer portal",
				Status:      "Abandoned",
			},
			setupMock:     func(m *MockProjectRepository) {},
			expectedError: apperrors.ErrInvalidStatus,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockProjects := new(MockProjectRepository)
			mockUsers := new(MockUserRepository)
			tt.setupMock(mockProjects)

			service := NewProjectService(mockProjects, mockUsers)
			project, err := service.CreateProject(context.Background(), 1, tt.input)

			switch {
			case tt.expectedMessage != "":
				assert.Nil(t, project)
				var vErr *apperrors.ValidationError
				assert.ErrorAs(t, err, &vErr)
				assert.Equal(t, tt.expectedMessage, vErr.Message)
			case tt.expectedError != nil:
				assert.Nil(t, project)
				assert.Equal(t, tt.expectedError, err)
			default:
				assert.NoError(t, err)
				assert.NotNil(t, project)
				assert.Equal(t, tt.expectedStatus, project.Status)
				assert.Equal(t, uint(1), project.CreatedBy)
			}

			mockProjects.AssertExpectations(t)
		})
	}
}

func TestProjectService_DeleteProject(t *testing.T) {
	t.Run("cascades to modules", func(t *testing.T) {
		mockProjects := new(MockProjectRepository)
		mockProjects.On("FindByID", mock.Anything, uint(2)).Return(&model.Project{ID: 2}, nil)
		mockProjects.On("DeleteWithModules", mock.Anything, uint(2)).Return(nil)

		service := NewProjectService(mockProjects, new(MockUserRepository))
		assert.NoError(t, service.DeleteProject(context.Background(), 2))
		mockProjects.AssertExpectations(t)
	})

	t.Run("missing project", func(t *testing.T) {
		mockProjects := new(MockProjectRepository)
		mockProjects.On("FindByID", mock.Anything, uint(99)).Return(nil, gorm.ErrRecordNotFound)

		service := NewProjectService(mockProjects, new(MockUserRepository))
		err := service.DeleteProject(context.Background(), 99)

		assert.Equal(t, apperrors.ErrProjectNotFound, err)
		mockProjects.AssertNotCalled(t, "DeleteWithModules", mock.Anything, mock.Anything)
		mockProjects.AssertExpectations(t)
	})
}

func TestProjectService_UpdateProject(t *testing.T) {
	t.Run("applies edits to an existing project", func(t *testing.T) {
		mockProjects := new(MockProjectRepository)
		mockProjects.On("FindByID", mock.Anything, uint(2)).Return(&model.Project{
			ID:          2,
			Title:       "Website Redesign",
			Description: "Revamp the customer portal",
			Status:      model.ProjectStatusNotStarted,
			CreatedBy:   1,
		}, nil)
		mockProjects.On("Update", mock.Anything, mock.AnythingOfType("*model.Project")).Return(nil)

		service := NewProjectService(mockProjects, new(MockUserRepository))
		project, err := service.UpdateProject(context.Background(), 2, ProjectInput{
			Status: model.ProjectStatusCompleted,
		})

		assert.NoError(t, err)
		assert.Equal(t, model.ProjectStatusCompleted, project.Status)
		// The creator binding set at creation time never moves
		assert.Equal(t, uint(1), project.CreatedBy)
		mockProjects.AssertExpectations(t)
	})

	t.Run("missing project", func(t *testing.T) {
		mockProjects := new(MockProjectRepository)
		mockProjects.On("FindByID", mock.Anything, uint(99)).Return(nil, gorm.ErrRecordNotFound)

		service := NewProjectService(mockProjects, new(MockUserRepository))
		project, err := service.UpdateProject(context.Background(), 99, ProjectInput{Title: "X"})

		assert.Equal(t, apperrors.ErrProjectNotFound, err)
		assert.Nil(t, project)
		mockProjects.AssertExpectations(t)
	})
}

func TestProjectService_Dashboard(t *testing.T) {
	mockProjects := new(MockProjectRepository)
	mockUsers := new(MockUserRepository)

	mockUsers.On("CountByRole", mock.Anything, model.RoleUser).Return(int64(12), nil)
	mockProjects.On("Count", mock.Anything).Return(int64(5), nil)
	mockProjects.On("CountByStatus", mock.Anything).Return(map[model.ProjectStatus]int64{
		model.ProjectStatusNotStarted: 1,
		model.ProjectStatusInProgress: 3,
		model.ProjectStatusCompleted:  1,
	}, nil)

	service := NewProjectService(mockProjects, mockUsers)
	stats, err := service.Dashboard(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, int64(12), stats.TotalEmployees)
	assert.Equal(t, int64(5), stats.TotalProjects)
	assert.Equal(t, int64(3), stats.ProjectStatusCounts[model.ProjectStatusInProgress])

	mockProjects.AssertExpectations(t)
	mockUsers.AssertExpectations(t)
}
