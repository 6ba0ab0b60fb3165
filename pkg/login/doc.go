// Package login runs the sign-in round trip with an external identity
// provider and issues the session token for the resolved account.
//
//	GET  /api/auth/{provider}/login     redirect to the provider
//	GET  /api/auth/{provider}/callback  exchange code, resolve account, set cookie
//	POST /api/auth/logout               clear the cookie
//	GET  /me                            current account
package login
