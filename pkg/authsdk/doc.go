// Package authsdk is the HTTP client for the quizdesk auth service.
//
// Downstream services use it to resolve a caller's opaque token into an
// identity; tests and tooling use it to register, log in and log out.
//
//	client := authsdk.NewClient("http://auth:8003")
//	login, err := client.Login(ctx, "alice", "pw123!")
//	me, err := client.Me(ctx, login.Token)
//
// Non-2xx responses are returned as *httpx.APIError so callers can switch on
// StatusCode or Code.
package authsdk
