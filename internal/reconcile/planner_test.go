package reconcile

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/awxops/igsync/internal/awx"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	alice = awx.User{ID: 100, Username: "alice"}
	bob   = awx.User{ID: 101, Username: "bob"}
	carol = awx.User{ID: 102, Username: "carol"}
)

func testConfig() Config {
	return Config{
		TeamPrefix:         "t-IG-USE-",
		ParentOrganization: "ADMIN-AREA",
		AllowedRoles:       []string{"admin"},
		SkipInstanceGroups: []string{"default", "controlplane"},
	}
}

// newScenario builds a controller with the parent organization, one
// mapped organization "acme" whose admins are alice and bob, and the
// instance groups default (skip-listed) and prod.
func newScenario() *fakeController {
	f := newFakeController()
	f.addOrganization(1, "ADMIN-AREA")
	f.addOrganization(2, "acme")
	f.addOrgRole(2, 20, "Admin", alice, bob)
	f.addOrgRole(2, 21, "Member", carol)
	f.addInstanceGroup(10, "default", 210)
	f.addInstanceGroup(11, "prod", 211)
	return f
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func plannedActions(plan *Plan) []ActionType {
	actions := make([]ActionType, 0, len(plan.Changes))
	for _, change := range plan.Changes {
		actions = append(actions, change.Action)
	}
	return actions
}

func TestPlanFreshController(t *testing.T) {
	f := newScenario()
	planner := NewPlanner(f, testLogger(), testConfig())

	plan, err := planner.Plan(context.Background())
	require.NoError(t, err)

	want := []PlannedChange{
		{Action: ActionCreateTeam, Organization: "acme", Team: "t-IG-USE-acme"},
		{Action: ActionAddMember, Organization: "acme", Team: "t-IG-USE-acme", User: "alice", UserID: 100},
		{Action: ActionAddMember, Organization: "acme", Team: "t-IG-USE-acme", User: "bob", UserID: 101},
		{Action: ActionGrantUse, Organization: "acme", Team: "t-IG-USE-acme", InstanceGroup: "prod", UseRoleID: 211},
	}
	if diff := cmp.Diff(want, plan.Changes, cmpopts.IgnoreFields(PlannedChange{}, "ID")); diff != "" {
		t.Fatalf("plan mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, PlanModeApply, plan.Metadata.Mode)
	assert.Equal(t, 1, plan.ParentOrganizationID)
	assert.Equal(t, 4, plan.Summary.TotalChanges)
}

func TestPlanIsIdempotentAfterExecution(t *testing.T) {
	f := newScenario()
	cfg := testConfig()

	plan, err := NewPlanner(f, testLogger(), cfg).Plan(context.Background())
	require.NoError(t, err)
	require.False(t, plan.IsEmpty())

	_, err = NewExecutor(f, testLogger(), false).Execute(context.Background(), plan)
	require.NoError(t, err)

	second, err := NewPlanner(f, testLogger(), cfg).Plan(context.Background())
	require.NoError(t, err)
	assert.True(t, second.IsEmpty(), "expected empty plan, got %v", plannedActions(second))
	assert.Empty(t, second.Changes)
}

func TestPlanMirrorsMembership(t *testing.T) {
	f := newScenario()
	// carol is a member but holds no allow-listed role; bob is missing
	team := f.addTeam(500, "t-IG-USE-acme", 1, alice, carol)
	f.addUseHolder(211, *team)

	plan, err := NewPlanner(f, testLogger(), testConfig()).Plan(context.Background())
	require.NoError(t, err)

	want := []PlannedChange{
		{Action: ActionAddMember, Organization: "acme", Team: "t-IG-USE-acme", TeamID: 500, User: "bob", UserID: 101},
		{Action: ActionRemoveMember, Organization: "acme", Team: "t-IG-USE-acme", TeamID: 500, User: "carol", UserID: 102},
	}
	if diff := cmp.Diff(want, plan.Changes, cmpopts.IgnoreFields(PlannedChange{}, "ID")); diff != "" {
		t.Fatalf("plan mismatch (-want +got):\n%s", diff)
	}
}

func TestPlanNeverGrantsSkipListedGroups(t *testing.T) {
	f := newScenario()

	plan, err := NewPlanner(f, testLogger(), testConfig()).Plan(context.Background())
	require.NoError(t, err)

	for _, change := range plan.Changes {
		if change.Action == ActionGrantUse {
			assert.NotEqual(t, "default", change.InstanceGroup)
		}
	}
}

func TestPlanCleanupRevokesStrayManagedGrants(t *testing.T) {
	f := newScenario()
	managed := f.addTeam(500, "t-IG-USE-acme", 1, alice, bob)
	f.addUseHolder(211, *managed)

	// stray prefix-matching team on prod, unmanaged team left alone
	stray := f.addTeam(501, "t-IG-USE-legacy", 1)
	ops := f.addTeam(502, "ops", 3)
	f.addUseHolder(211, *stray)
	f.addUseHolder(211, *ops)
	// a managed grant on a skip-listed group is stray too
	f.addUseHolder(210, *managed)

	cfg := testConfig()
	cfg.Cleanup = true
	plan, err := NewPlanner(f, testLogger(), cfg).Plan(context.Background())
	require.NoError(t, err)

	want := []PlannedChange{
		{Action: ActionRevokeUse, Team: "t-IG-USE-acme", TeamID: 500, InstanceGroup: "default", UseRoleID: 210},
		{Action: ActionRevokeUse, Team: "t-IG-USE-legacy", TeamID: 501, InstanceGroup: "prod", UseRoleID: 211},
	}
	if diff := cmp.Diff(want, plan.Changes, cmpopts.IgnoreFields(PlannedChange{}, "ID")); diff != "" {
		t.Fatalf("plan mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, PlanModeSync, plan.Metadata.Mode)
}

func TestPlanWithoutCleanupLeavesStrayGrants(t *testing.T) {
	f := newScenario()
	managed := f.addTeam(500, "t-IG-USE-acme", 1, alice, bob)
	f.addUseHolder(211, *managed)

	stray := f.addTeam(501, "t-IG-USE-legacy", 1)
	f.addUseHolder(211, *stray)

	plan, err := NewPlanner(f, testLogger(), testConfig()).Plan(context.Background())
	require.NoError(t, err)
	assert.True(t, plan.IsEmpty(), "expected empty plan, got %v", plannedActions(plan))
}

func TestPlanUnknownParentOrganization(t *testing.T) {
	f := newFakeController()
	f.addOrganization(2, "acme")

	_, err := NewPlanner(f, testLogger(), testConfig()).Plan(context.Background())
	require.Error(t, err)

	var unknownParent *UnknownParentOrganizationError
	require.True(t, errors.As(err, &unknownParent))
	assert.Equal(t, "ADMIN-AREA", unknownParent.Name)
}

func TestPlanSkipsParentOrganizationMapping(t *testing.T) {
	f := newScenario()
	f.addOrgRole(1, 30, "Admin", carol)

	plan, err := NewPlanner(f, testLogger(), testConfig()).Plan(context.Background())
	require.NoError(t, err)

	for _, change := range plan.Changes {
		assert.NotEqual(t, "t-IG-USE-ADMIN-AREA", change.Team)
	}
}

func TestAllowedRoleMatchingIsCaseInsensitive(t *testing.T) {
	f := newScenario()
	cfg := testConfig()
	cfg.AllowedRoles = []string{"ADMIN", "inventory admin"}
	f.addOrgRole(2, 22, "Inventory Admin", carol)

	plan, err := NewPlanner(f, testLogger(), cfg).Plan(context.Background())
	require.NoError(t, err)

	var added []string
	for _, change := range plan.Changes {
		if change.Action == ActionAddMember {
			added = append(added, change.User)
		}
	}
	assert.Equal(t, []string{"alice", "bob", "carol"}, added)
}
