/*
Package brokersdk provides a client SDK and the shared wire types for the
Veil privacy broker's HTTP API.

The package is organised around two types:

  - SDKClient: unauthenticated operations and login flows
  - Session: token-bearing operations for a signed-in user

Create an SDKClient for public endpoints and to authenticate:

	client := brokersdk.NewSDKClient("https://broker.example.com")

	login, err := client.Login(ctx, "ada@example.com", password)
	if err != nil {
		// handle
	}
	if login.MFAPending {
		login, err = client.CompleteLoginMFA(ctx, login.UserID, codeFromChannel)
	}
	session := client.NewSession(login.AccessToken)

Use the Session for everything behind the verification gate:

	status, err := session.VerificationStatus(ctx)
	grants, err := session.ListPermissions(ctx)

Errors decode into *APIError; switch on its Code field:

	var apiErr *brokersdk.APIError
	if errors.As(err, &apiErr) && apiErr.Code == brokersdk.ErrorCodeNotVerified {
		// prompt the user to finish verification
	}

The request/response structs in this package are the single source of truth
for the wire format; the server's handlers use them too.
*/
package brokersdk
