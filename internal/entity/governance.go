package entity

type GovernanceStatus string

const (
	GovernanceIncomplete GovernanceStatus = "INCOMPLETE"
	GovernanceActive     GovernanceStatus = "ACTIVE"
	GovernanceSuspended  GovernanceStatus = "SUSPENDED"
)

// CanOperate is true only for ACTIVE. Unknown or malformed values never
// unlock order-taking.
func CanOperate(status GovernanceStatus) bool {
	return status == GovernanceActive
}
