// Package engine provides the core types and interfaces for the HomeForge
// provisioning engine. It defines the task orchestration workflow
// (register -> graph -> schedule -> record) and the generic resource
// reconciliation driver (check -> classify -> apply) shared by every
// resource kind.
package engine
