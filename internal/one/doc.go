// Package one provides a client wrapper for the OpenNebula XML-RPC API.
//
// This package wraps github.com/OpenNebula/one/src/oca/go/src/goca to provide:
//   - Connection setup (endpoint fallback, credentials, certificate validation)
//   - Pool listing and per-object info decoded into resource.Handle values
//   - chmod and chown for the kinds that support them
//   - The server suggested retry interval used by pollers
//
// Errors are classified so callers can use errors.Is:
//
//	vms, err := client.Pool(ctx, resource.KindVM)
//	if errors.Is(err, one.ErrConnectivity) {
//	    // endpoint unreachable
//	}
//
// Consumer-Side Interfaces:
//
// Like the rest of the module, this package does not define interfaces for
// its callers. internal/locator, internal/permissions, internal/params and
// internal/vm each declare the few methods they need and *one.Client
// satisfies them implicitly.
package one
