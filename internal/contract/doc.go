// Package contract binds a Swagger-style API contract to echo routes.
//
// A Document maps path templates to lower-case methods to operation
// descriptors. Plan resolves every operation against a Handlers table without
// touching the router; Bind registers the planned routes only once the whole
// plan is valid, so a broken contract never leaves a half-built router behind.
// POST and PUT operations that consume application/json are guarded by
// RequireJSON and ParseJSONBody.
package contract
