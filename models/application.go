package models

type ApplicationStatus string

const (
	ApplicationStatusPending  ApplicationStatus = "pending"
	ApplicationStatusApproved ApplicationStatus = "approved"
	ApplicationStatusRejected ApplicationStatus = "rejected"
)

var applicationStatusHumanName = map[ApplicationStatus]string{
	ApplicationStatusPending:  "Pending",
	ApplicationStatusApproved: "Approved",
	ApplicationStatusRejected: "Rejected",
}

func (s ApplicationStatus) ToHuman() string {
	if human, exist := applicationStatusHumanName[s]; exist {
		return human
	}
	return string(s)
}

func (s ApplicationStatus) IsTerminal() bool {
	return s == ApplicationStatusApproved || s == ApplicationStatusRejected
}

// BlocksReapply reports whether an existing application on the same request
// forbids the candidate from submitting another one. Rejected applications do
// not block a fresh attempt.
func (s ApplicationStatus) BlocksReapply() bool {
	return s == ApplicationStatusPending || s == ApplicationStatusApproved
}
