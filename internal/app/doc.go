// Package app assembles a runnable server from configuration, a contract
// document and the operation handlers built for one statechart model.
//
// Construction is all-or-nothing: a model that fails to load or a contract
// that cannot be bound fully yields an error and no server.
package app
