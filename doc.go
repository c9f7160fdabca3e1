// Package authapi issues and verifies signed, time-bounded authentication
// tokens for a username/password login flow, and exposes the authenticated
// identity to callers holding a valid token.
//
// Token lifecycle:
//   - TokenService signs a fixed-shape claim set (issuer, issued-at, expiry,
//     subject, embedded user payload) with HS256 and a single process-wide
//     secret. There is no algorithm negotiation, revocation, or refresh; a
//     token is valid purely as a function of the secret, its claims, and the
//     current clock reading.
//   - Auther orchestrates the two operations: Login (credential check via a
//     UserDirectory, then token issuance) and CurrentUser (bearer token
//     validation, then a live directory re-fetch of the subject).
//
// User directory:
//   - UserDirectory is the external collaborator owning credential storage.
//     DirectoryProvider is the bundled implementation over a bun Users
//     repository with bcrypt hashes and login-attempt cool down.
//
// HTTP surface:
//   - AuthController mounts POST /login and GET /me on a fiber router and
//     resolves every failure at the boundary into a status code plus a
//     machine readable error code.
package authapi
