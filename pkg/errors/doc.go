// Package errors provides structured error handling with error codes for simple-library.
//
// Services return *Error values carrying an ErrorCode; the HTTP layer maps the
// code to a status with MapErrorCodeToHTTPStatus. Store-level sentinels
// (for example account.ErrAccountNotFound) are wrapped, so errors.Is keeps
// working through the structured error.
//
// # Basic Usage
//
//	import liberrors "github.com/tendant/simple-library/pkg/errors"
//
//	err := liberrors.NotFound("reservation", id.String())
//	err := liberrors.Wrap(dbErr, liberrors.ErrCodeInternal, "failed to save account")
//
//	if liberrors.IsCode(err, liberrors.ErrCodeForbidden) {
//		// 403
//	}
//
// # Codes
//
//   - ErrCodeNotFound: reservation, book or account absent (404)
//   - ErrCodeForbidden: role or ownership check failed (403)
//   - ErrCodeUnauthorized: no principal on a protected operation (401)
//   - ErrCodeUpstreamIdentity: provider exchange failed or returned an
//     incomplete identity (502); fatal for the login attempt
//   - ErrCodeInvalidInput: bad pagination or payload (400)
package errors
