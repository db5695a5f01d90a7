package models

type RoleKind string

const (
	RoleKindClient  RoleKind = "CLIENT"
	RoleKindPlanner RoleKind = "PLANNER"
	RoleKindHelper  RoleKind = "HELPER"
)

var roleKindHumanName = map[RoleKind]string{
	RoleKindClient:  "Client",
	RoleKindPlanner: "Planner",
	RoleKindHelper:  "Helper",
}

func (r RoleKind) ToHuman() string {
	if human, exist := roleKindHumanName[r]; exist {
		return human
	}
	return string(r)
}

func (r RoleKind) IsValid() bool {
	_, exist := roleKindHumanName[r]
	return exist
}

// RoleRef is the role-scoped identity every domain record references.
// RoleID is the id of the client/planner/helper row, never the account id.
type RoleRef struct {
	Kind   RoleKind
	RoleID string
}

func (r RoleRef) IsZero() bool {
	return r.RoleID == ""
}

func (r RoleRef) Is(kind RoleKind, roleID string) bool {
	return r.Kind == kind && r.RoleID == roleID
}
