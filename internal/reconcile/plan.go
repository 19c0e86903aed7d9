package reconcile

import (
	"fmt"
	"time"
)

// PlanMode represents the mode of plan generation. Apply mode only adds
// missing state; sync mode additionally revokes stray managed grants.
type PlanMode string

const (
	PlanModeApply PlanMode = "apply"
	PlanModeSync  PlanMode = "sync"
)

// ActionType represents the type of change
type ActionType string

const (
	ActionCreateTeam   ActionType = "create-team"
	ActionAddMember    ActionType = "add-member"
	ActionRemoveMember ActionType = "remove-member"
	ActionGrantUse     ActionType = "grant-use"
	ActionRevokeUse    ActionType = "revoke-use"
)

// PlannedChange represents a single mutation against the controller.
type PlannedChange struct {
	ID     string     `json:"id"`
	Action ActionType `json:"action"`

	// Organization is the organization whose membership produced this
	// change. Empty for cleanup revocations.
	Organization string `json:"organization,omitempty"`

	// Team is the managed team the change acts on. TeamID is zero when
	// the team is created earlier in the same plan.
	Team   string `json:"team"`
	TeamID int    `json:"team_id,omitempty"`

	// User identifies the member for membership changes.
	User   string `json:"user,omitempty"`
	UserID int    `json:"user_id,omitempty"`

	// InstanceGroup and UseRoleID identify the grant for grant/revoke
	// changes.
	InstanceGroup string `json:"instance_group,omitempty"`
	UseRoleID     int    `json:"use_role_id,omitempty"`
}

// PlanMetadata contains plan generation information
type PlanMetadata struct {
	GeneratedAt time.Time `json:"generated_at"`
	Mode        PlanMode  `json:"mode"`
}

// PlanSummary provides overview statistics
type PlanSummary struct {
	TotalChanges int                `json:"total_changes"`
	ByAction     map[ActionType]int `json:"by_action"`
}

// Plan is the ordered set of changes that reconciles the controller's
// observed state with the computed mapping.
type Plan struct {
	Metadata PlanMetadata `json:"metadata"`

	// ParentOrganizationID is the organization that owns every managed
	// team; team creations execute against it.
	ParentOrganizationID int `json:"parent_organization_id"`

	Changes []PlannedChange `json:"changes"`
	Summary PlanSummary     `json:"summary"`
}

// NewPlan creates a new plan with metadata
func NewPlan(mode PlanMode, parentOrganizationID int) *Plan {
	return &Plan{
		Metadata: PlanMetadata{
			GeneratedAt: time.Now().UTC(),
			Mode:        mode,
		},
		ParentOrganizationID: parentOrganizationID,
		Changes:              []PlannedChange{},
		Summary: PlanSummary{
			ByAction: make(map[ActionType]int),
		},
	}
}

// AddChange appends a change, assigning its position-based ID and
// updating the summary counts.
func (p *Plan) AddChange(change PlannedChange) {
	change.ID = fmt.Sprintf("%d:%s:%s", len(p.Changes)+1, change.Action, change.Team)
	p.Changes = append(p.Changes, change)
	p.Summary.TotalChanges = len(p.Changes)
	p.Summary.ByAction[change.Action]++
}

// IsEmpty returns true when the observed state already matches the
// mapping and no mutations are needed.
func (p *Plan) IsEmpty() bool {
	return len(p.Changes) == 0
}
