// Wayfarer - Group Trip Planning and Destination Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

/*
Package auth identifies the caller of an HTTP request.

Tokens are issued by the account service; this package only verifies them.
Two modes are supported (configured via AUTH_MODE):

 1. jwt (default): an HS256 bearer token in the Authorization header, or a
    "token" cookie, signed with JWT_SECRET. The user ID is read from the
    user_id claim, falling back to a numeric sub claim.

 2. none: development only. Every request is let through; an X-User-ID
    header, when present, names the caller.

The verified Principal is stored in the request context:

	p, ok := auth.PrincipalFromContext(r.Context())
*/
package auth
