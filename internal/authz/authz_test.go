package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/aonuma/project-management-api/internal/models"
	"github.com/aonuma/project-management-api/internal/repository"
)

type evaluatorTestEnv struct {
	db        *gorm.DB
	members   repository.MemberRepository
	evaluator *Evaluator
}

func setupEvaluatorTestEnv(t *testing.T) evaluatorTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.ProjectMember{},
	)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	members := repository.NewMemberRepository(db)

	return evaluatorTestEnv{
		db:        db,
		members:   members,
		evaluator: NewEvaluator(members),
	}
}

func TestDecideGlobal(t *testing.T) {
	evaluator := NewEvaluator(nil)

	tests := []struct {
		name         string
		principal    Principal
		allowedRoles []models.GlobalRole
		ownerID      uint64
		want         Decision
	}{
		{
			name:      "no role is denied",
			principal: Principal{ID: 1},
			allowedRoles: []models.GlobalRole{
				models.GlobalRoleUser,
			},
			ownerID: 1,
			want:    Deny,
		},
		{
			name:      "no role requirement allows anyone",
			principal: Principal{ID: 1, Role: models.GlobalRoleUser},
			ownerID:   99,
			want:      Allow,
		},
		{
			name:      "role not in allowed set is denied",
			principal: Principal{ID: 1, Role: models.GlobalRoleUser},
			allowedRoles: []models.GlobalRole{
				models.GlobalRoleAdmin,
			},
			ownerID: 1,
			want:    Deny,
		},
		{
			name:      "admin bypasses ownership check",
			principal: Principal{ID: 1, Role: models.GlobalRoleAdmin},
			allowedRoles: []models.GlobalRole{
				models.GlobalRoleAdmin,
			},
			ownerID: 42,
			want:    Allow,
		},
		{
			name:      "user acting on own id is allowed",
			principal: Principal{ID: 7, Role: models.GlobalRoleUser},
			allowedRoles: []models.GlobalRole{
				models.GlobalRoleUser,
			},
			ownerID: 7,
			want:    Allow,
		},
		{
			name:      "user acting on another id is denied",
			principal: Principal{ID: 7, Role: models.GlobalRoleUser},
			allowedRoles: []models.GlobalRole{
				models.GlobalRoleUser,
			},
			ownerID: 8,
			want:    Deny,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := evaluator.DecideGlobal(tt.principal, tt.allowedRoles, tt.ownerID)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecideResource_ModifyRequiresAdmin(t *testing.T) {
	env := setupEvaluatorTestEnv(t)

	require.NoError(t, env.members.Add(&models.ProjectMember{
		UserID:    1,
		ProjectID: 10,
		Role:      models.ProjectRoleAdmin,
	}))
	require.NoError(t, env.members.Add(&models.ProjectMember{
		UserID:    2,
		ProjectID: 10,
		Role:      models.ProjectRoleMember,
	}))

	desc := Descriptor{Resource: ResourceProject, Scopes: []string{ScopeModify}}

	decision, err := env.evaluator.DecideResource(Principal{ID: 1}, desc, 10)
	require.NoError(t, err)
	assert.Equal(t, Allow, decision)

	// A plain member may not modify, even though isMember is true
	decision, err = env.evaluator.DecideResource(Principal{ID: 2}, desc, 10)
	require.NoError(t, err)
	assert.Equal(t, Deny, decision)
}

func TestDecideResource_ViewRequiresMembership(t *testing.T) {
	env := setupEvaluatorTestEnv(t)

	require.NoError(t, env.members.Add(&models.ProjectMember{
		UserID:    1,
		ProjectID: 10,
		Role:      models.ProjectRoleAdmin,
	}))
	require.NoError(t, env.members.Add(&models.ProjectMember{
		UserID:    2,
		ProjectID: 10,
		Role:      models.ProjectRoleMember,
	}))

	for _, scope := range []string{ScopeView, ScopeTask} {
		desc := Descriptor{Resource: ResourceProject, Scopes: []string{scope}}

		// Admins are members too
		decision, err := env.evaluator.DecideResource(Principal{ID: 1}, desc, 10)
		require.NoError(t, err)
		assert.Equal(t, Allow, decision)

		decision, err = env.evaluator.DecideResource(Principal{ID: 2}, desc, 10)
		require.NoError(t, err)
		assert.Equal(t, Allow, decision)

		// Non-members are denied
		decision, err = env.evaluator.DecideResource(Principal{ID: 3}, desc, 10)
		require.NoError(t, err)
		assert.Equal(t, Deny, decision)
	}
}

func TestDecideResource_OtherResourceAllows(t *testing.T) {
	env := setupEvaluatorTestEnv(t)

	desc := Descriptor{Resource: "report", Scopes: []string{ScopeModify}}

	decision, err := env.evaluator.DecideResource(Principal{ID: 3}, desc, 10)
	require.NoError(t, err)
	assert.Equal(t, Allow, decision)
}

func TestDecideResource_UnmatchedScopeDenies(t *testing.T) {
	env := setupEvaluatorTestEnv(t)

	require.NoError(t, env.members.Add(&models.ProjectMember{
		UserID:    1,
		ProjectID: 10,
		Role:      models.ProjectRoleAdmin,
	}))

	desc := Descriptor{Resource: ResourceProject, Scopes: []string{"export"}}

	decision, err := env.evaluator.DecideResource(Principal{ID: 1}, desc, 10)
	require.NoError(t, err)
	assert.Equal(t, Deny, decision)
}

func TestDecideResource_LookupFailureFailsClosed(t *testing.T) {
	env := setupEvaluatorTestEnv(t)

	sqlDB, err := env.db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	desc := Descriptor{Resource: ResourceProject, Scopes: []string{ScopeModify}}

	decision, err := env.evaluator.DecideResource(Principal{ID: 1}, desc, 10)
	require.Error(t, err)
	assert.Equal(t, Deny, decision)
}

func TestMembershipPredicates(t *testing.T) {
	env := setupEvaluatorTestEnv(t)

	// Admin membership satisfies both predicates
	require.NoError(t, env.members.Add(&models.ProjectMember{
		UserID:    1,
		ProjectID: 10,
		Role:      models.ProjectRoleAdmin,
	}))

	isMember, err := env.members.CheckMember(1, 10)
	require.NoError(t, err)
	assert.True(t, isMember)

	isAdmin, err := env.members.CheckAdmin(1, 10)
	require.NoError(t, err)
	assert.True(t, isAdmin)

	// A non-admin membership satisfies only CheckMember
	require.NoError(t, env.members.Add(&models.ProjectMember{
		UserID:    2,
		ProjectID: 10,
		Role:      models.ProjectRoleMember,
	}))

	isMember, err = env.members.CheckMember(2, 10)
	require.NoError(t, err)
	assert.True(t, isMember)

	isAdmin, err = env.members.CheckAdmin(2, 10)
	require.NoError(t, err)
	assert.False(t, isAdmin)

	// Deleting the membership revokes both
	require.NoError(t, env.members.Remove(10, 1))

	isMember, err = env.members.CheckMember(1, 10)
	require.NoError(t, err)
	assert.False(t, isMember)

	isAdmin, err = env.members.CheckAdmin(1, 10)
	require.NoError(t, err)
	assert.False(t, isAdmin)
}
