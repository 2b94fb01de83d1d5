package factory

import (
	"github.com/OlliePage/temp-identity-project/pkg/providers/mailgw"
	"github.com/OlliePage/temp-identity-project/pkg/providers/textverified"
	"github.com/OlliePage/temp-identity-project/pkg/types"
)

type emailBuiltin struct {
	name    string
	factory types.EmailFactory
}

type smsBuiltin struct {
	name    string
	factory types.SMSFactory
}

// builtinEmailProviders is the static list of email adapters shipped with the module
func builtinEmailProviders() []emailBuiltin {
	return []emailBuiltin{
		{name: mailgw.Name, factory: mailgw.Factory},
		{name: mailgw.MailTmName, factory: mailgw.MailTmFactory},
	}
}

// builtinSMSProviders is the static list of SMS adapters shipped with the module
func builtinSMSProviders() []smsBuiltin {
	return []smsBuiltin{
		{name: textverified.Name, factory: textverified.Factory},
	}
}

// RegisterDefaultProviders registers (or restores) all built-in providers
func RegisterDefaultProviders(r *Registry) {
	for _, b := range builtinEmailProviders() {
		r.RegisterEmailProvider(b.name, b.factory)
	}
	for _, b := range builtinSMSProviders() {
		r.RegisterSMSProvider(b.name, b.factory)
	}
}
