package vm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jbweber/onectl/internal/resource"
)

func TestStateNames(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{name: "pending", got: StatePending.String(), want: "PENDING"},
		{name: "poweroff", got: StatePoweroff.String(), want: "POWEROFF"},
		{name: "cloning failure", got: StateCloningFailure.String(), want: "CLONING_FAILURE"},
		{name: "lcm running", got: LCMRunning.String(), want: "RUNNING"},
		{name: "lcm epilog", got: LCMEpilog.String(), want: "EPILOG"},
		{name: "lcm hotplug", got: LCMHotplug.String(), want: "HOTPLUG"},
		{name: "lcm backup poweroff", got: LCMState(70).String(), want: "BACKUP_POWEROFF"},
		{name: "host monitored", got: HostMonitored.String(), want: "MONITORED"},
		{name: "host offline", got: HostOffline.String(), want: "OFFLINE"},
		{name: "unknown", got: State(99).String(), want: "unknown(99)"},
		{name: "negative", got: HostState(-1).String(), want: "unknown(-1)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}

func TestStatus(t *testing.T) {
	active := vmIn(StateActive, LCMBoot)
	assert.Equal(t, "BOOT", Status(&active))

	pending := vmIn(StatePending, LCMInit)
	assert.Equal(t, "PENDING", Status(&pending))

	off := vmIn(StatePoweroff, LCMInit)
	assert.Equal(t, "POWEROFF", Status(&off))
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus(" running ")
	require.NoError(t, err)
	assert.Equal(t, "RUNNING", s)

	s, err = ParseStatus("poweroff")
	require.NoError(t, err)
	assert.Equal(t, "POWEROFF", s)

	_, err = ParseStatus("sleeping")
	assert.Error(t, err)

	got, err := ParseStatuses([]string{"pending", "RUNNING"})
	require.NoError(t, err)
	assert.Equal(t, []string{"PENDING", "RUNNING"}, got)

	got, err = ParseStatuses(nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestParseHostState(t *testing.T) {
	s, err := ParseHostState("monitored")
	require.NoError(t, err)
	assert.Equal(t, HostMonitored, s)

	_, err = ParseHostState("busy")
	assert.Error(t, err)

	states, err := ParseHostStates([]string{"ERROR", "OFFLINE"})
	require.NoError(t, err)
	assert.Equal(t, []HostState{HostError, HostOffline}, states)
}

func TestStateName(t *testing.T) {
	running := vmIn(StateActive, LCMRunning)
	assert.Equal(t, "RUNNING", StateName(&running))

	host := resource.Handle{Kind: resource.KindHost, State: int(HostDisabled)}
	assert.Equal(t, "DISABLED", StateName(&host))

	user := resource.Handle{Kind: resource.KindUser}
	assert.Equal(t, "", StateName(&user))
}
