package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/aonuma/project-management-api/internal/models"
	"github.com/aonuma/project-management-api/internal/repository"
)

type taskTestEnv struct {
	db      *gorm.DB
	service *TaskService
	admin   *models.User
	member  *models.User
	project *models.Project
}

// setupTaskTestEnv creates a project with an admin and a plain member plus
// one public and one normal task.
func setupTaskTestEnv(t *testing.T) taskTestEnv {
	t.Helper()

	db := setupTestDB(t)

	memberRepo := repository.NewMemberRepository(db)
	service := NewTaskService(
		repository.NewTaskRepository(db),
		memberRepo,
		repository.NewUserRepository(db),
	)

	admin := &models.User{Username: "alice", Email: "alice@example.com", Role: models.GlobalRoleUser}
	require.NoError(t, db.Create(admin).Error)
	member := &models.User{Username: "bob", Email: "bob@example.com", Role: models.GlobalRoleUser}
	require.NoError(t, db.Create(member).Error)

	project := &models.Project{Name: "Apollo"}
	require.NoError(t, db.Create(project).Error)

	require.NoError(t, memberRepo.Add(&models.ProjectMember{
		UserID:    admin.ID,
		ProjectID: project.ID,
		Role:      models.ProjectRoleAdmin,
	}))
	require.NoError(t, memberRepo.Add(&models.ProjectMember{
		UserID:    member.ID,
		ProjectID: project.ID,
		Role:      models.ProjectRoleMember,
	}))

	require.NoError(t, db.Create(&models.Task{
		Name:        "Public checklist",
		Description: "Visible to all members",
		Type:        models.TaskTypePublic,
		ProjectID:   project.ID,
	}).Error)
	require.NoError(t, db.Create(&models.Task{
		Name:        "Internal plan",
		Description: "Admins only",
		Type:        models.TaskTypeNormal,
		ProjectID:   project.ID,
	}).Error)

	return taskTestEnv{
		db:      db,
		service: service,
		admin:   admin,
		member:  member,
		project: project,
	}
}

func TestListTasks_AdminSeesEverything(t *testing.T) {
	env := setupTaskTestEnv(t)

	tasks, total, err := env.service.ListTasks(ListTasksInput{
		ProjectID: env.project.ID,
		ActorID:   env.admin.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, tasks, 2)
}

func TestListTasks_MemberSeesOnlyPublic(t *testing.T) {
	env := setupTaskTestEnv(t)

	tasks, total, err := env.service.ListTasks(ListTasksInput{
		ProjectID: env.project.ID,
		ActorID:   env.member.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, tasks, 1)
	assert.Equal(t, models.TaskTypePublic, tasks[0].Type)
}

func TestListTasks_MemberCannotWidenFilter(t *testing.T) {
	env := setupTaskTestEnv(t)

	// Asking for normal tasks explicitly still narrows to public
	normal := models.TaskTypeNormal
	tasks, _, err := env.service.ListTasks(ListTasksInput{
		ProjectID: env.project.ID,
		ActorID:   env.member.ID,
		Type:      &normal,
	})
	require.NoError(t, err)
	for _, task := range tasks {
		assert.Equal(t, models.TaskTypePublic, task.Type)
	}
}

func TestPatchTasks_NarrowsForNonAdmin(t *testing.T) {
	env := setupTaskTestEnv(t)

	done := models.TaskStatusDone

	// The member's patch only reaches the public task
	count, err := env.service.PatchTasks(PatchTasksInput{
		ProjectID: env.project.ID,
		ActorID:   env.member.ID,
		Patch:     repository.TaskPatch{Status: &done},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	var untouched models.Task
	require.NoError(t, env.db.Where("type = ?", models.TaskTypeNormal).First(&untouched).Error)
	assert.Empty(t, untouched.Status)
}

func TestPatchTasks_AdminPatchesEverything(t *testing.T) {
	env := setupTaskTestEnv(t)

	done := models.TaskStatusDone

	count, err := env.service.PatchTasks(PatchTasksInput{
		ProjectID: env.project.ID,
		ActorID:   env.admin.ID,
		Patch:     repository.TaskPatch{Status: &done},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestDeleteTasks_NarrowsForNonAdmin(t *testing.T) {
	env := setupTaskTestEnv(t)

	count, err := env.service.DeleteTasks(env.project.ID, env.member.ID, repository.TaskFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	var remaining int64
	require.NoError(t, env.db.Model(&models.Task{}).
		Where("project_id = ?", env.project.ID).
		Count(&remaining).Error)
	assert.Equal(t, int64(1), remaining)
}

func TestGetTask_NonAdminOnlyFetchesPublic(t *testing.T) {
	env := setupTaskTestEnv(t)

	var public, normal models.Task
	require.NoError(t, env.db.Where("type = ?", models.TaskTypePublic).First(&public).Error)
	require.NoError(t, env.db.Where("type = ?", models.TaskTypeNormal).First(&normal).Error)

	task, err := env.service.GetTask(env.project.ID, public.ID, env.member.ID)
	require.NoError(t, err)
	assert.Equal(t, public.ID, task.ID)

	_, err = env.service.GetTask(env.project.ID, normal.ID, env.member.ID)
	assert.ErrorIs(t, err, ErrTaskNotFound)

	task, err = env.service.GetTask(env.project.ID, normal.ID, env.admin.ID)
	require.NoError(t, err)
	assert.Equal(t, normal.ID, task.ID)
}

func TestGetTask_WrongProject(t *testing.T) {
	env := setupTaskTestEnv(t)

	var task models.Task
	require.NoError(t, env.db.Where("type = ?", models.TaskTypePublic).First(&task).Error)

	_, err := env.service.GetTask(env.project.ID+1, task.ID, env.admin.ID)
	assert.ErrorIs(t, err, ErrTaskWrongProject)
}

func TestCreateTask_Defaults(t *testing.T) {
	env := setupTaskTestEnv(t)

	task, err := env.service.CreateTask(CreateTaskInput{
		ProjectID:   env.project.ID,
		Name:        "New task",
		Description: "Something to do",
	})
	require.NoError(t, err)
	assert.Equal(t, models.TaskTypeNormal, task.Type)

	_, err = env.service.CreateTask(CreateTaskInput{
		ProjectID:   env.project.ID,
		Description: "No name",
	})
	assert.ErrorIs(t, err, ErrTaskNameRequired)

	_, err = env.service.CreateTask(CreateTaskInput{
		ProjectID: env.project.ID,
		Name:      "No description",
	})
	assert.ErrorIs(t, err, ErrTaskDescRequired)
}

func TestCreateTask_ParentReference(t *testing.T) {
	env := setupTaskTestEnv(t)

	parent, err := env.service.CreateTask(CreateTaskInput{
		ProjectID:   env.project.ID,
		Name:        "Parent",
		Description: "Top level",
	})
	require.NoError(t, err)

	child, err := env.service.CreateTask(CreateTaskInput{
		ProjectID:    env.project.ID,
		Name:         "Child",
		Description:  "Nested",
		ParentTaskID: &parent.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, child.ParentTaskID)
	assert.Equal(t, parent.ID, *child.ParentTaskID)

	missing := uint64(9999)
	_, err = env.service.CreateTask(CreateTaskInput{
		ProjectID:    env.project.ID,
		Name:         "Orphan",
		Description:  "Bad parent",
		ParentTaskID: &missing,
	})
	assert.ErrorIs(t, err, ErrParentTaskNotFound)
}

func TestCleanupDoneTasks(t *testing.T) {
	env := setupTaskTestEnv(t)

	// One done task in this project and one in another project
	require.NoError(t, env.db.Create(&models.Task{
		Name:        "Finished",
		Description: "Already done",
		Type:        models.TaskTypeNormal,
		Status:      models.TaskStatusDone,
		ProjectID:   env.project.ID,
	}).Error)

	other := &models.Project{Name: "Gemini"}
	require.NoError(t, env.db.Create(other).Error)
	require.NoError(t, env.db.Create(&models.Task{
		Name:        "Also finished",
		Description: "Done elsewhere",
		Type:        models.TaskTypeNormal,
		Status:      models.TaskStatusDone,
		ProjectID:   other.ID,
	}).Error)

	count, err := env.service.CleanupDoneTasks()
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	var remaining int64
	require.NoError(t, env.db.Model(&models.Task{}).
		Where("status = ?", models.TaskStatusDone).
		Count(&remaining).Error)
	assert.Zero(t, remaining)
}
