package domain

import "strings"

const (
	StatusQRMenuInstall     = "QR_MENU_INSTALL"
	StatusServiceTerminated = "SERVICE_TERMINATED"
	StatusUnusedTerminated  = "UNUSED_TERMINATED"
	StatusDefectRepair      = "DEFECT_REPAIR"
	StatusPending           = "PENDING"
	StatusRegistered        = "REGISTERED"
	StatusInstallRequested  = "INSTALL_REQUESTED"
	StatusInstallScheduled  = "INSTALL_SCHEDULED"
	StatusUnknown           = "UNKNOWN"

	UnassignedOwnerID = "unassigned"
)

// StatusGroups describes how lifecycle statuses map onto funnel stages.
type StatusGroups struct {
	FullyInstalled    string
	ServiceTerminated string
	UnusedTerminated  string
	DefectRepair      string
	Pending           string
	InstallCompleted  map[string]struct{}
	Churned           map[string]struct{}
}

// DefaultStatusGroups is the production status table.
func DefaultStatusGroups() StatusGroups {
	return NewStatusGroups(
		StatusQRMenuInstall,
		StatusServiceTerminated,
		StatusUnusedTerminated,
		StatusDefectRepair,
		StatusPending,
		[]string{StatusQRMenuInstall, StatusServiceTerminated, StatusUnusedTerminated, StatusDefectRepair},
		[]string{StatusServiceTerminated, StatusUnusedTerminated},
	)
}

func NewStatusGroups(fullyInstalled, serviceTerminated, unusedTerminated, defectRepair, pending string, installCompleted, churned []string) StatusGroups {
	return StatusGroups{
		FullyInstalled:    normalizeStatus(fullyInstalled),
		ServiceTerminated: normalizeStatus(serviceTerminated),
		UnusedTerminated:  normalizeStatus(unusedTerminated),
		DefectRepair:      normalizeStatus(defectRepair),
		Pending:           normalizeStatus(pending),
		InstallCompleted:  statusSet(installCompleted),
		Churned:           statusSet(churned),
	}
}

func (g StatusGroups) IsInstallCompleted(status string) bool {
	_, ok := g.InstallCompleted[normalizeStatus(status)]
	return ok
}

func (g StatusGroups) IsChurned(status string) bool {
	_, ok := g.Churned[normalizeStatus(status)]
	return ok
}

func statusSet(statuses []string) map[string]struct{} {
	set := make(map[string]struct{}, len(statuses))
	for _, status := range statuses {
		status = normalizeStatus(status)
		if status == "" {
			continue
		}
		set[status] = struct{}{}
	}
	return set
}

func normalizeStatus(status string) string {
	return strings.ToUpper(strings.TrimSpace(status))
}

// KnownStatuses seeds per-status tallies so every report carries the same keys.
var KnownStatuses = []string{
	StatusRegistered,
	StatusInstallRequested,
	StatusInstallScheduled,
	StatusPending,
	StatusQRMenuInstall,
	StatusDefectRepair,
	StatusServiceTerminated,
	StatusUnusedTerminated,
}

func NewStatusTally() map[string]int {
	tally := make(map[string]int, len(KnownStatuses))
	for _, status := range KnownStatuses {
		tally[status] = 0
	}
	return tally
}
