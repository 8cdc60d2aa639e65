// Package openmotics provides a Go client library for the OpenMotics home
// automation platform.
//
// The library talks to two deployments of the same API surface: the HTTP API
// of an on-premise gateway, and the multi-tenant OpenMotics cloud. Both
// clients share the request engine (timeouts, retries, error classification)
// and the record types.
//
// # Local gateway
//
// A LocalGateway authenticates with username/password and manages the
// resulting bearer token transparently, re-logging-in before it expires:
//
//	gw, err := openmotics.NewLocalGateway("user", "pass", "192.168.1.50")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer gw.Close()
//
//	outputs, err := gw.Outputs.List(ctx)
//	for _, o := range outputs {
//	    fmt.Printf("%s on=%v\n", o.Name, o.Status != nil && o.Status.On)
//	}
//
// Gateways ship with self-signed certificates, so certificate verification
// is off by default; enable it with WithVerifyTLS(true) or pin a certificate
// with WithTLSConfig.
//
// # Cloud
//
// A CloudClient authenticates with a bearer token (or a refreshing
// oauth2.TokenSource) and scopes resource paths by installation:
//
//	cloud, err := openmotics.NewCloudClient(token, openmotics.WithInstallationID(21))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer cloud.Close()
//
//	lights, err := cloud.Lights.List(ctx)
//	err = cloud.Lights.TurnOn(ctx, lights[0].ID, 80)
//
// # Raw access
//
// Endpoints without a typed accessor are reachable through Get, Post and
// Delete on either client; JSON responses come back decoded, anything else
// as the body string:
//
//	v, err := cloud.Get(ctx, "/base/installations/21/outputs", nil)
//
// # Errors
//
// Failures are classified into sentinel errors (ErrConnection, ErrTimeout,
// ErrTLS, ErrAuthentication) with matching Is* predicates; non-auth HTTP
// error statuses surface as *APIError. Only connection-kind failures are
// retried, with exponential backoff.
package openmotics
