package vm

import (
	"fmt"
	"strings"

	"github.com/jbweber/onectl/internal/resource"
)

// State is the coarse VM state.
type State int

const (
	StateInit State = iota
	StatePending
	StateHold
	StateActive
	StateStopped
	StateSuspended
	StateDone
	StateFailed // deprecated
	StatePoweroff
	StateUndeployed
	StateCloning
	StateCloningFailure
)

var stateNames = []string{
	"INIT", "PENDING", "HOLD", "ACTIVE", "STOPPED", "SUSPENDED", "DONE",
	"FAILED", "POWEROFF", "UNDEPLOYED", "CLONING", "CLONING_FAILURE",
}

func (s State) String() string {
	return nameOf(stateNames, int(s))
}

// LCMState is the life-cycle state of an ACTIVE VM.
type LCMState int

const (
	LCMInit    LCMState = 0
	LCMProlog  LCMState = 1
	LCMBoot    LCMState = 2
	LCMRunning LCMState = 3
	LCMMigrate LCMState = 4
	LCMEpilog  LCMState = 11
	LCMUnknown LCMState = 16
	LCMHotplug LCMState = 17
)

var lcmStateNames = []string{
	"LCM_INIT", "PROLOG", "BOOT", "RUNNING", "MIGRATE", "SAVE_STOP",
	"SAVE_SUSPEND", "SAVE_MIGRATE", "PROLOG_MIGRATE", "PROLOG_RESUME",
	"EPILOG_STOP", "EPILOG", "SHUTDOWN", "CANCEL", "FAILURE",
	"CLEANUP_RESUBMIT", "UNKNOWN", "HOTPLUG", "SHUTDOWN_POWEROFF",
	"BOOT_UNKNOWN", "BOOT_POWEROFF", "BOOT_SUSPENDED", "BOOT_STOPPED",
	"CLEANUP_DELETE", "HOTPLUG_SNAPSHOT", "HOTPLUG_NIC", "HOTPLUG_SAVEAS",
	"HOTPLUG_SAVEAS_POWEROFF", "HOTPLUG_SAVEAS_SUSPENDED",
	"SHUTDOWN_UNDEPLOY", "EPILOG_UNDEPLOY", "PROLOG_UNDEPLOY",
	"BOOT_UNDEPLOY", "HOTPLUG_PROLOG_POWEROFF", "HOTPLUG_EPILOG_POWEROFF",
	"BOOT_MIGRATE", "BOOT_FAILURE", "BOOT_MIGRATE_FAILURE",
	"PROLOG_MIGRATE_FAILURE", "PROLOG_FAILURE", "EPILOG_FAILURE",
	"EPILOG_STOP_FAILURE", "EPILOG_UNDEPLOY_FAILURE",
	"PROLOG_MIGRATE_POWEROFF", "PROLOG_MIGRATE_POWEROFF_FAILURE",
	"PROLOG_MIGRATE_SUSPEND", "PROLOG_MIGRATE_SUSPEND_FAILURE",
	"BOOT_UNDEPLOY_FAILURE", "BOOT_STOPPED_FAILURE", "PROLOG_RESUME_FAILURE",
	"PROLOG_UNDEPLOY_FAILURE", "DISK_SNAPSHOT_POWEROFF",
	"DISK_SNAPSHOT_REVERT_POWEROFF", "DISK_SNAPSHOT_DELETE_POWEROFF",
	"DISK_SNAPSHOT_SUSPENDED", "DISK_SNAPSHOT_REVERT_SUSPENDED",
	"DISK_SNAPSHOT_DELETE_SUSPENDED", "DISK_SNAPSHOT", "DISK_SNAPSHOT_REVERT",
	"DISK_SNAPSHOT_DELETE", "PROLOG_MIGRATE_UNKNOWN",
	"PROLOG_MIGRATE_UNKNOWN_FAILURE", "DISK_RESIZE", "DISK_RESIZE_POWEROFF",
	"DISK_RESIZE_UNDEPLOYED", "HOTPLUG_NIC_POWEROFF", "HOTPLUG_RESIZE",
	"HOTPLUG_SAVEAS_UNDEPLOYED", "HOTPLUG_SAVEAS_STOPPED", "BACKUP",
	"BACKUP_POWEROFF",
}

func (s LCMState) String() string {
	return nameOf(lcmStateNames, int(s))
}

// HostState is the monitoring state of a host.
type HostState int

const (
	HostInit HostState = iota
	HostMonitoringMonitored
	HostMonitored
	HostError
	HostDisabled
	HostMonitoringError
	HostMonitoringInit
	HostMonitoringDisabled
	HostOffline
)

var hostStateNames = []string{
	"INIT", "MONITORING_MONITORED", "MONITORED", "ERROR", "DISABLED",
	"MONITORING_ERROR", "MONITORING_INIT", "MONITORING_DISABLED", "OFFLINE",
}

func (s HostState) String() string {
	return nameOf(hostStateNames, int(s))
}

// ParseHostState converts a host state name such as "MONITORED".
func ParseHostState(name string) (HostState, error) {
	for i, n := range hostStateNames {
		if strings.EqualFold(n, name) {
			return HostState(i), nil
		}
	}
	return 0, fmt.Errorf("unknown host state %q", name)
}

// ParseHostStates converts a list of host state names.
func ParseHostStates(names []string) ([]HostState, error) {
	states := make([]HostState, 0, len(names))
	for _, n := range names {
		s, err := ParseHostState(n)
		if err != nil {
			return nil, err
		}
		states = append(states, s)
	}
	return states, nil
}

// nameOf converts a state to a human-readable string.
func nameOf(names []string, state int) string {
	if state < 0 || state >= len(names) {
		return fmt.Sprintf("unknown(%d)", state)
	}
	return names[state]
}

// Status folds STATE and LCM_STATE of a VM into one name.
func Status(h *resource.Handle) string {
	if State(h.State) == StateActive {
		return LCMState(h.LCMState).String()
	}
	return State(h.State).String()
}

// ParseStatus normalizes a VM status name and checks that it is known.
func ParseStatus(name string) (string, error) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	for _, n := range stateNames {
		if n == upper {
			return upper, nil
		}
	}
	for _, n := range lcmStateNames {
		if n == upper {
			return upper, nil
		}
	}
	return "", fmt.Errorf("unknown VM state %q", name)
}

// ParseStatuses normalizes a list of VM status names.
func ParseStatuses(names []string) ([]string, error) {
	out := make([]string, 0, len(names))
	for _, n := range names {
		s, err := ParseStatus(n)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// StateName renders the state of any handle for display. Kinds without a
// meaningful state return "".
func StateName(h *resource.Handle) string {
	switch h.Kind {
	case resource.KindVM:
		return Status(h)
	case resource.KindHost:
		return HostState(h.State).String()
	}
	return ""
}
