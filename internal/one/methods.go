package one

import (
	"fmt"

	"github.com/jbweber/onectl/internal/resource"
)

const (
	// filterAll lists every object the user can use (-2 in the pool filter).
	filterAll  = -2
	rangeAll   = -1
	anyVMState = -1
)

// poolMethod returns the pool-info method and its arguments for a kind.
func poolMethod(kind resource.Kind) (string, []interface{}, error) {
	switch kind {
	case resource.KindVM:
		return "one.vmpool.info", []interface{}{filterAll, rangeAll, rangeAll, anyVMState}, nil
	case resource.KindTemplate:
		return "one.templatepool.info", []interface{}{filterAll, rangeAll, rangeAll}, nil
	case resource.KindHost:
		return "one.hostpool.info", nil, nil
	case resource.KindCluster:
		return "one.clusterpool.info", nil, nil
	case resource.KindDatastore:
		return "one.datastorepool.info", nil, nil
	case resource.KindUser:
		return "one.userpool.info", nil, nil
	case resource.KindGroup:
		return "one.grouppool.info", nil, nil
	}
	return "", nil, fmt.Errorf("no pool method for kind %q", kind)
}

// objectMethod returns a per-object method such as one.vm.info.
func objectMethod(kind resource.Kind, action string) string {
	return fmt.Sprintf("one.%s.%s", kind, action)
}

// supportsOwnership reports whether chmod and chown exist for a kind.
func supportsOwnership(kind resource.Kind) bool {
	switch kind {
	case resource.KindVM, resource.KindTemplate, resource.KindDatastore:
		return true
	}
	return false
}

// SupportsOwnership reports whether chmod and chown exist for a kind, so
// callers can reject a kind before connecting.
func SupportsOwnership(kind resource.Kind) bool {
	return supportsOwnership(kind)
}
