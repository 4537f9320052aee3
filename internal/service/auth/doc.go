// Package auth implements static bearer-token authentication.
//
// Two tokens are configured out of process, one per role. A request's token
// resolves to an identity carrying that role, and each protected route
// requires one exact role: admin does not satisfy a user requirement.
package auth
