package server

import (
	"context"
	"fmt"
	"sync"

	"github.com/mlazzje/dlgmail/internal/gmail"
	"github.com/mlazzje/dlgmail/internal/instrumentation"
)

// ServerContext holds the shared state of the MCP server: per-account Gmail
// clients, the download directory tools save into, and the instrumentation
// provider.
type ServerContext struct {
	ctx          context.Context
	cancel       context.CancelFunc
	gmailClients map[string]*gmail.Client
	downloadDir  string
	provider     *instrumentation.Provider
	mu           sync.RWMutex
	shutdown     bool
}

// NewServerContext creates a new server context. Tools save downloaded
// attachments under downloadDir.
func NewServerContext(ctx context.Context, downloadDir string) (*ServerContext, error) {
	shutdownCtx, cancel := context.WithCancel(ctx)

	gmailClients := make(map[string]*gmail.Client)

	// Clients are lazily initialized; a missing token only surfaces when a
	// tool actually needs the account.
	if gmail.HasToken() {
		gmailClient, err := gmail.NewClientForAccount(shutdownCtx, "default")
		if err != nil {
			fmt.Printf("Warning: failed to create Gmail client for default account: %v\n", err)
		} else {
			gmailClients["default"] = gmailClient
		}
	}

	return &ServerContext{
		ctx:          shutdownCtx,
		cancel:       cancel,
		gmailClients: gmailClients,
		downloadDir:  downloadDir,
		shutdown:     false,
	}, nil
}

// Context returns the server context.
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// GmailClientForAccount returns the Gmail client for a specific account,
// creating and caching it on first use. Returns nil if the account has no
// token.
func (sc *ServerContext) GmailClientForAccount(account string) *gmail.Client {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if client, ok := sc.gmailClients[account]; ok {
		return client
	}

	if !gmail.HasTokenForAccount(account) {
		return nil
	}

	client, err := gmail.NewClientForAccount(sc.ctx, account)
	if err != nil {
		fmt.Printf("Warning: failed to create Gmail client for account %s: %v\n", account, err)
		return nil
	}

	sc.gmailClients[account] = client
	return client
}

// GmailClient returns the Gmail client for the default account.
func (sc *ServerContext) GmailClient() *gmail.Client {
	return sc.GmailClientForAccount("default")
}

// SetGmailClientForAccount sets the Gmail client for a specific account.
func (sc *ServerContext) SetGmailClientForAccount(account string, client *gmail.Client) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.gmailClients[account] = client
}

// SetGmailClient sets the Gmail client for the default account.
func (sc *ServerContext) SetGmailClient(client *gmail.Client) {
	sc.SetGmailClientForAccount("default", client)
}

// DownloadDir returns the directory downloaded attachments are saved into.
func (sc *ServerContext) DownloadDir() string {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.downloadDir
}

// SetInstrumentation attaches the instrumentation provider.
func (sc *ServerContext) SetInstrumentation(provider *instrumentation.Provider) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.provider = provider
}

// Instrumentation returns the instrumentation provider, or nil when none is
// attached.
func (sc *ServerContext) Instrumentation() *instrumentation.Provider {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.provider
}

// Metrics returns the metrics recorder, or nil when instrumentation is not
// attached. Recording on a nil recorder is a no-op.
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	if sc.provider == nil {
		return nil
	}
	return sc.provider.Metrics()
}

// IsShutdown returns whether the server has been shutdown.
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown shuts down the server context.
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}

	sc.shutdown = true
	sc.cancel()
	return nil
}
