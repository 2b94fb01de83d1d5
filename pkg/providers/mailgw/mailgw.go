// Package mailgw implements the email provider contract for Mail.gw and its
// sibling Mail.tm. Both expose the same hydra JSON-LD API and differ only in
// their base URL.
package mailgw

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"net/url"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/OlliePage/temp-identity-project/pkg/providers/base"
	"github.com/OlliePage/temp-identity-project/pkg/providers/common/config"
	"github.com/OlliePage/temp-identity-project/pkg/types"
)

const (
	// Name is the registry name of the Mail.gw provider
	Name = "mail.gw"
	// MailTmName is the registry name of the Mail.tm provider
	MailTmName = "mail.tm"

	DefaultBaseURL       = "https://api.mail.gw"
	DefaultMailTmBaseURL = "https://api.mail.tm"

	// DefaultRateLimit is the documented per-IP limit in requests per second
	DefaultRateLimit = 8

	credentialLength = 12
	credentialChars  = "abcdefghijklmnopqrstuvwxyz0123456789"
)

var errNoCredentials = errors.New("no mailbox credentials")

// Descriptor is the static identity of the Mail.gw provider
var Descriptor = types.ProviderDescriptor{
	Name:        Name,
	DisplayName: "Mail.gw",
	Description: "Free temporary email service",
	Kind:        types.ProviderKindEmail,
}

// MailTmDescriptor is the static identity of the Mail.tm provider
var MailTmDescriptor = types.ProviderDescriptor{
	Name:        MailTmName,
	DisplayName: "Mail.tm",
	Description: "Free temporary email service (Mail.gw sibling)",
	Kind:        types.ProviderKindEmail,
}

// Provider is a hydra mailbox adapter. It holds the credentials of at most
// one mailbox and logs in lazily whenever the session token is missing or
// expired.
type Provider struct {
	*base.BaseProvider

	mu       sync.Mutex
	address  string
	password string
	token    *oauth2.Token
}

// New creates a Mail.gw provider. It needs no API key and accepts an empty config.
func New(cfg types.ProviderConfig) *Provider {
	return newProvider(Descriptor, DefaultBaseURL, cfg)
}

// NewMailTm creates a Mail.tm provider
func NewMailTm(cfg types.ProviderConfig) *Provider {
	return newProvider(MailTmDescriptor, DefaultMailTmBaseURL, cfg)
}

// Factory adapts New to types.EmailFactory
func Factory(cfg types.ProviderConfig) types.EmailProvider {
	return New(cfg)
}

// MailTmFactory adapts NewMailTm to types.EmailFactory
func MailTmFactory(cfg types.ProviderConfig) types.EmailProvider {
	return NewMailTm(cfg)
}

func newProvider(descriptor types.ProviderDescriptor, baseURL string, cfg types.ProviderConfig) *Provider {
	components := base.InitializeProviderComponents(base.ProviderInitConfig{
		Descriptor: descriptor,
		Config:     cfg,
		Defaults: config.Defaults{
			BaseURL:   baseURL,
			RateLimit: DefaultRateLimit,
		},
	})
	return &Provider{BaseProvider: components.BaseProvider}
}

// CreateEmail allocates a mailbox on the first advertised domain with a
// random local part and password, then logs in. Both credentials are
// returned only when every step succeeded.
func (p *Provider) CreateEmail(ctx context.Context) (bool, string, string) {
	const op = "create_email"

	if err := p.ConfigError(); err != nil {
		p.LogFailure(op, err)
		return false, "", ""
	}

	domain, err := p.firstDomain(ctx)
	if err != nil {
		p.LogFailure(op, err)
		return false, "", ""
	}

	local, err := randomString(credentialLength)
	if err != nil {
		p.LogFailure(op, err)
		return false, "", ""
	}
	password, err := randomString(credentialLength)
	if err != nil {
		p.LogFailure(op, err)
		return false, "", ""
	}
	creds := credentials{Address: local + "@" + domain, Password: password}

	resp, err := p.Requests().ExecuteRequest(ctx, http.MethodPost, "/accounts", creds, nil)
	if err != nil {
		p.LogFailure(op, err)
		return false, "", ""
	}
	if err := p.Responses().CheckStatusCode(resp, http.StatusCreated); err != nil {
		p.LogFailure(op, err)
		return false, "", ""
	}
	var created account
	if err := p.Responses().ParseJSON(resp, &created); err != nil {
		p.LogFailure(op, err)
		return false, "", ""
	}
	p.Logger().Debug("mailbox created", zap.String("account_id", created.ID))

	tok, err := p.login(ctx, creds)
	if err != nil {
		p.LogFailure(op, fmt.Errorf("login after account creation: %w", err))
		return false, "", ""
	}

	p.mu.Lock()
	p.address, p.password, p.token = creds.Address, creds.Password, tok
	p.mu.Unlock()

	return true, creds.Address, creds.Password
}

// CheckMessages lists the inbox, newest first
func (p *Provider) CheckMessages(ctx context.Context) []types.Message {
	const op = "check_messages"

	var page hydraCollection[message]
	if err := p.authorizedGet(ctx, "/messages", &page); err != nil {
		p.LogFailure(op, err)
		return []types.Message{}
	}

	out := make([]types.Message, 0, len(page.Members))
	for _, m := range page.Members {
		out = append(out, m.toMessage())
	}
	return out
}

// GetMessageContent fetches a full message including its text and HTML bodies
func (p *Provider) GetMessageContent(ctx context.Context, messageID string) (types.Message, bool) {
	const op = "get_message_content"

	if messageID == "" {
		p.LogFailure(op, types.NewProviderError(p.Name(), types.ErrCodeInvalidRequest, "empty message id"))
		return types.Message{}, false
	}

	var m message
	if err := p.authorizedGet(ctx, "/messages/"+url.PathEscape(messageID), &m); err != nil {
		p.LogFailure(op, err)
		return types.Message{}, false
	}
	return m.toMessage(), true
}

// Attach points the provider at an existing mailbox. The next message
// operation logs in with the given credentials.
func (p *Provider) Attach(identity types.EmailIdentity) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.address, p.password, p.token = identity.Address, identity.Password, nil
}

// Address returns the mailbox the provider is bound to
func (p *Provider) Address() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.address
}

func (p *Provider) firstDomain(ctx context.Context) (string, error) {
	resp, err := p.Requests().ExecuteRequest(ctx, http.MethodGet, "/domains", nil, nil)
	if err != nil {
		return "", err
	}
	if err := p.Responses().CheckStatusCode(resp, http.StatusOK); err != nil {
		return "", err
	}

	var page hydraCollection[domain]
	if err := p.Responses().ParseJSON(resp, &page); err != nil {
		return "", err
	}
	for _, d := range page.Members {
		if d.Domain == "" || (d.IsActive != nil && !*d.IsActive) {
			continue
		}
		return d.Domain, nil
	}
	return "", types.NewProviderError(p.Name(), types.ErrCodeNoAllocation, "no domains available").
		WithOperation("get_domains")
}

func (p *Provider) login(ctx context.Context, creds credentials) (*oauth2.Token, error) {
	resp, err := p.Requests().ExecuteRequest(ctx, http.MethodPost, "/token", creds, nil)
	if err != nil {
		return nil, err
	}
	if err := p.Responses().CheckStatusCode(resp, http.StatusOK); err != nil {
		return nil, err
	}

	var out tokenResponse
	if err := p.Responses().ParseJSON(resp, &out); err != nil {
		return nil, err
	}
	if out.Token == "" {
		return nil, types.NewMalformedError(p.Name(), errors.New("token response without token"))
	}
	return newSessionToken(out.Token), nil
}

// session returns a valid token, logging in first when needed
func (p *Provider) session(ctx context.Context) (*oauth2.Token, error) {
	p.mu.Lock()
	tok := p.token
	creds := credentials{Address: p.address, Password: p.password}
	p.mu.Unlock()

	if tok.Valid() {
		return tok, nil
	}
	if creds.Address == "" {
		return nil, types.NewProviderError(p.Name(), types.ErrCodeAuthentication, errNoCredentials.Error()).
			WithOriginalErr(errNoCredentials)
	}

	p.Logger().Debug("logging in", zap.String("address", creds.Address))
	tok, err := p.login(ctx, creds)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	if p.address == creds.Address {
		p.token = tok
	}
	p.mu.Unlock()
	return tok, nil
}

func (p *Provider) authorizedGet(ctx context.Context, path string, target interface{}) error {
	if err := p.ConfigError(); err != nil {
		return err
	}

	tok, err := p.session(ctx)
	if err != nil {
		return err
	}

	resp, err := p.Requests().ExecuteRequest(ctx, http.MethodGet, path, nil,
		map[string]string{"Authorization": authorization(tok)})
	if err != nil {
		return err
	}
	if err := p.Responses().CheckStatusCode(resp, http.StatusOK); err != nil {
		if types.IsAuthError(err) {
			p.dropToken(tok)
		}
		return err
	}
	return p.Responses().ParseJSON(resp, target)
}

// dropToken forgets tok unless it was already replaced
func (p *Provider) dropToken(tok *oauth2.Token) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.token == tok {
		p.token = nil
	}
}

func randomString(n int) (string, error) {
	limit := big.NewInt(int64(len(credentialChars)))
	b := make([]byte, n)
	for i := range b {
		idx, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", fmt.Errorf("generate credentials: %w", err)
		}
		b[i] = credentialChars[idx.Int64()]
	}
	return string(b), nil
}
