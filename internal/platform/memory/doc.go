// Package memory provides a process-local implementation of store.TaskStore.
// Tasks live only as long as the process; IDs start at 1 and are never reused.
package memory
