// Package testbed defines the contracts bfrobot consumes from the device
// automation library: the lifecycle hooks invoked around a run, the device
// manager used to resolve live device instances, and the merged testbed
// configuration with its environment definition tree.
//
// bfrobot never implements devices or protocols itself. Everything in this
// package is a boundary: the library behind it owns device objects,
// reservation, provisioning, and teardown.
package testbed
