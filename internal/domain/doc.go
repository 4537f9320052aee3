// Package domain contains the core business entities and errors of the task
// API: the Task record, the partial field set used for creates and updates,
// roles and the request identity. It is independent of any storage or
// delivery mechanism.
package domain
