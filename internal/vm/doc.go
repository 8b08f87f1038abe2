// Package vm provides the VM and host specific pieces the generic helpers
// need: readable state names, labels and attributes kept in the user
// template, and wait specifications built on top of package wait.
//
// State Names:
//
// A VM has two state fields. STATE is the coarse state (PENDING, ACTIVE,
// POWEROFF, ...). While a VM is ACTIVE the LCM_STATE field carries the
// detailed life-cycle state (PROLOG, BOOT, RUNNING, ...). Status folds both
// into one name: the LCM state while ACTIVE, the coarse state otherwise.
// Waits on VMs compare these status names.
package vm
