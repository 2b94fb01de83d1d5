// Package factory provides the provider registry: a name to constructor
// mapping for email and SMS providers with lazy registration of the
// built-in adapters, plugin discovery and instantiation from configuration.
//
// A Registry is an ordinary value. Construct one with New and share it;
// all methods are safe for concurrent use.
package factory
