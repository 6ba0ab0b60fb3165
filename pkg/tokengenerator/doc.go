// Package tokengenerator issues the HS256 session tokens that carry a
// principal between requests, and sets them as the access_token cookie.
package tokengenerator
