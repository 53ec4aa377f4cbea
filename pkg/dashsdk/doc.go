// Package dashsdk is the Go client for the nutridash API, and home of the
// request and response types shared with the server.
//
// Logging in takes two calls: Login checks the password and triggers the
// emailed code, CompleteTwoFactor exchanges the pending token and code for
// an authenticated Session.
//
//	c := dashsdk.NewClient("https://nutridash.example.com")
//	pending, err := c.Login(ctx, "alice@example.com", password)
//	if err != nil {
//		return err
//	}
//	sess, err := c.CompleteTwoFactor(ctx, pending.PendingToken, codeFromEmail)
//	if err != nil {
//		return err
//	}
//	dash, err := sess.GetDashboard(ctx)
//
// Failed calls return *httpx.APIError carrying the HTTP status and one of the
// ErrorCode constants. IsRetryable reports whether a failed second-factor
// attempt may be repeated with the same pending token.
package dashsdk
