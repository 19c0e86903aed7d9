package reconcile

import (
	"context"
	"fmt"

	"github.com/awxops/igsync/internal/awx"
)

// fakeController is an in-memory controller. Mutations are recorded and
// applied to the state, so a plan/execute/plan round trip exercises the
// idempotence of the mapping.
type fakeController struct {
	organizations []awx.Organization
	groups        []awx.InstanceGroup

	// orgID -> object roles, roleID -> role holders
	orgRoles  map[int][]awx.ObjectRole
	roleUsers map[int][]awx.User

	// igID -> "use" object role ID, roleID -> teams holding it
	useRoles  map[int]int
	roleTeams map[int][]awx.Team

	teams      map[string]*awx.Team
	teamUsers  map[int][]awx.User
	nextTeamID int

	mutations []string
	failOn    string
}

func newFakeController() *fakeController {
	return &fakeController{
		orgRoles:   make(map[int][]awx.ObjectRole),
		roleUsers:  make(map[int][]awx.User),
		useRoles:   make(map[int]int),
		roleTeams:  make(map[int][]awx.Team),
		teams:      make(map[string]*awx.Team),
		teamUsers:  make(map[int][]awx.User),
		nextTeamID: 1000,
	}
}

func (f *fakeController) addOrganization(id int, name string) {
	f.organizations = append(f.organizations, awx.Organization{ID: id, Name: name})
}

func (f *fakeController) addOrgRole(orgID, roleID int, name string, users ...awx.User) {
	f.orgRoles[orgID] = append(f.orgRoles[orgID], awx.ObjectRole{ID: roleID, Name: name})
	f.roleUsers[roleID] = users
}

func (f *fakeController) addInstanceGroup(id int, name string, useRoleID int) {
	f.groups = append(f.groups, awx.InstanceGroup{ID: id, Name: name})
	f.useRoles[id] = useRoleID
}

func (f *fakeController) addTeam(id int, name string, orgID int, members ...awx.User) *awx.Team {
	team := &awx.Team{ID: id, Name: name, Organization: orgID}
	f.teams[name] = team
	f.teamUsers[id] = members
	return team
}

func (f *fakeController) addUseHolder(useRoleID int, team awx.Team) {
	f.roleTeams[useRoleID] = append(f.roleTeams[useRoleID], team)
}

func (f *fakeController) fail(step string, args ...any) error {
	if f.failOn == step {
		return fmt.Errorf("injected failure on %s %v", step, args)
	}
	return nil
}

func (f *fakeController) ListOrganizations(context.Context) ([]awx.Organization, error) {
	return f.organizations, nil
}

func (f *fakeController) FindOrganization(_ context.Context, name string) (*awx.Organization, error) {
	for _, org := range f.organizations {
		if org.Name == name {
			o := org
			return &o, nil
		}
	}
	return nil, nil
}

func (f *fakeController) ListInstanceGroups(context.Context) ([]awx.InstanceGroup, error) {
	return f.groups, nil
}

func (f *fakeController) ListTeams(context.Context) ([]awx.Team, error) {
	var teams []awx.Team
	for _, team := range f.teams {
		teams = append(teams, *team)
	}
	return teams, nil
}

func (f *fakeController) FindTeam(_ context.Context, name string, organizationID int) (*awx.Team, error) {
	team, ok := f.teams[name]
	if !ok || team.Organization != organizationID {
		return nil, nil
	}
	t := *team
	return &t, nil
}

func (f *fakeController) CreateTeam(_ context.Context, team awx.TeamCreate) (*awx.Team, error) {
	if err := f.fail("create-team", team.Name); err != nil {
		return nil, err
	}
	f.nextTeamID++
	created := &awx.Team{ID: f.nextTeamID, Name: team.Name, Organization: team.Organization}
	f.teams[team.Name] = created
	f.mutations = append(f.mutations, fmt.Sprintf("create-team %s", team.Name))
	t := *created
	return &t, nil
}

func (f *fakeController) ListTeamUsers(_ context.Context, teamID int) ([]awx.User, error) {
	return f.teamUsers[teamID], nil
}

func (f *fakeController) AssociateTeamUser(_ context.Context, teamID, userID int) error {
	if err := f.fail("associate-user", teamID, userID); err != nil {
		return err
	}
	f.teamUsers[teamID] = append(f.teamUsers[teamID], awx.User{ID: userID})
	f.mutations = append(f.mutations, fmt.Sprintf("associate-user %d %d", teamID, userID))
	return nil
}

func (f *fakeController) DisassociateTeamUser(_ context.Context, teamID, userID int) error {
	var kept []awx.User
	for _, user := range f.teamUsers[teamID] {
		if user.ID != userID {
			kept = append(kept, user)
		}
	}
	f.teamUsers[teamID] = kept
	f.mutations = append(f.mutations, fmt.Sprintf("disassociate-user %d %d", teamID, userID))
	return nil
}

func (f *fakeController) ListOrganizationObjectRoles(_ context.Context, organizationID int) ([]awx.ObjectRole, error) {
	return f.orgRoles[organizationID], nil
}

func (f *fakeController) ListInstanceGroupObjectRoles(_ context.Context, instanceGroupID int) ([]awx.ObjectRole, error) {
	roleID, ok := f.useRoles[instanceGroupID]
	if !ok {
		return nil, nil
	}
	return []awx.ObjectRole{{ID: roleID, Name: "Use"}}, nil
}

func (f *fakeController) ListRoleUsers(_ context.Context, roleID int) ([]awx.User, error) {
	return f.roleUsers[roleID], nil
}

func (f *fakeController) ListRoleTeams(_ context.Context, roleID int) ([]awx.Team, error) {
	return f.roleTeams[roleID], nil
}

func (f *fakeController) AssociateRoleTeam(_ context.Context, roleID, teamID int) error {
	if err := f.fail("associate-role-team", roleID, teamID); err != nil {
		return err
	}
	for _, team := range f.teams {
		if team.ID == teamID {
			f.roleTeams[roleID] = append(f.roleTeams[roleID], *team)
			break
		}
	}
	f.mutations = append(f.mutations, fmt.Sprintf("grant %d %d", roleID, teamID))
	return nil
}

func (f *fakeController) DisassociateRoleTeam(_ context.Context, roleID, teamID int) error {
	var kept []awx.Team
	for _, team := range f.roleTeams[roleID] {
		if team.ID != teamID {
			kept = append(kept, team)
		}
	}
	f.roleTeams[roleID] = kept
	f.mutations = append(f.mutations, fmt.Sprintf("revoke %d %d", roleID, teamID))
	return nil
}
