// Package types defines the capability contracts and data structures shared by
// every TempIdentity provider: the email and SMS provider interfaces, provider
// descriptors and setup fields, identities, messages and the ProviderError type
// adapters use internally before normalizing failures into result values.
package types
