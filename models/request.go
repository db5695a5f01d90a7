package models

// RequestKind discriminates the two request variants sharing one table.
type RequestKind string

const (
	RequestKindHelper  RequestKind = "helper"
	RequestKindPlanner RequestKind = "planner"
)

func (k RequestKind) IsValid() bool {
	return k == RequestKindHelper || k == RequestKindPlanner
}

// CandidateRoleKind returns the role kind allowed to apply on this request variant.
func (k RequestKind) CandidateRoleKind() RoleKind {
	if k == RequestKindPlanner {
		return RoleKindPlanner
	}
	return RoleKindHelper
}

type RequestStatus string

const (
	RequestStatusOpen     RequestStatus = "open"
	RequestStatusInReview RequestStatus = "in_review"
	// RequestStatusFilled is the closed-by-fulfillment label of the helper track.
	RequestStatusFilled RequestStatus = "filled"
	// RequestStatusApproved is the closed-by-fulfillment label of the planner track.
	RequestStatusApproved  RequestStatus = "approved"
	RequestStatusCancelled RequestStatus = "cancelled"
)

var requestStatusHumanName = map[RequestStatus]string{
	RequestStatusOpen:      "Open",
	RequestStatusInReview:  "In review",
	RequestStatusFilled:    "Filled",
	RequestStatusApproved:  "Approved",
	RequestStatusCancelled: "Cancelled",
}

func (s RequestStatus) ToHuman() string {
	if human, exist := requestStatusHumanName[s]; exist {
		return human
	}
	return string(s)
}

// FulfilledStatus is the closed label a request of the given kind receives
// once its fulfillment quota is met.
func FulfilledStatus(kind RequestKind) RequestStatus {
	if kind == RequestKindPlanner {
		return RequestStatusApproved
	}
	return RequestStatusFilled
}

// AcceptsApplications reports whether new applications may be submitted.
func (s RequestStatus) AcceptsApplications() bool {
	return s == RequestStatusOpen || s == RequestStatusInReview
}

// AllowCancel reports whether the requester may still cancel.
func (s RequestStatus) AllowCancel() bool {
	return s == RequestStatusOpen || s == RequestStatusInReview
}

func (s RequestStatus) IsTerminal() bool {
	return s == RequestStatusFilled || s == RequestStatusApproved || s == RequestStatusCancelled
}

// IsAllowChange lists the legal edges of the request machine. Both variants
// share the shape; only the closed label differs.
func (s RequestStatus) IsAllowChange(next RequestStatus) bool {
	switch s {
	case RequestStatusOpen:
		return next == RequestStatusInReview ||
			next == RequestStatusFilled ||
			next == RequestStatusApproved ||
			next == RequestStatusCancelled
	case RequestStatusInReview:
		return next == RequestStatusFilled ||
			next == RequestStatusApproved ||
			next == RequestStatusCancelled
	}
	return false
}

// DefaultEngagementHours is assumed when only one of start/end time is given
// on a request schedule.
const DefaultEngagementHours = 1.0
