package one

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/OpenNebula/one/src/oca/go/src/goca"
	"go.uber.org/zap"

	"github.com/jbweber/onectl/internal/resource"
)

const (
	// DefaultEndpoint is tried when no API URL is configured.
	DefaultEndpoint = "http://localhost:2633/RPC2"

	defaultProbeAddress  = "localhost:2633"
	defaultRetryInterval = time.Second
	defaultProbeTimeout  = 5 * time.Second
)

var (
	// ErrConnectivity means the endpoint could not be reached or no
	// credentials could be resolved.
	ErrConnectivity = errors.New("connectivity failure")

	// ErrAuthorization is returned when the remote system refuses an action.
	ErrAuthorization = errors.New("not authorized")

	// ErrNoExists is returned when the requested object does not exist.
	ErrNoExists = errors.New("object does not exist")

	// ErrRemote wraps any other failure reported by the remote system.
	ErrRemote = errors.New("remote call failed")
)

// Config holds the connection settings.
type Config struct {
	URL           string
	Username      string
	Password      string
	ValidateCerts bool

	// RetryInterval is the server suggested delay between polls.
	// If zero, defaults to one second.
	RetryInterval time.Duration

	// ProbeTimeout bounds the TCP probe of the default endpoint.
	// If zero, defaults to 5 seconds.
	ProbeTimeout time.Duration
}

// caller is the subset of *goca.Client used here.
type caller interface {
	CallContext(ctx context.Context, method string, args ...interface{}) (*goca.Response, error)
}

// Client wraps a goca XML-RPC client and exposes the pool, info and mutate
// calls the helpers need. A Client is used serially within one invocation
// and is not safe for concurrent reuse.
type Client struct {
	rpc           caller
	httpClient    *http.Client
	retryInterval time.Duration
	closed        bool
}

// Connect builds a client for the configured endpoint.
//
// If cfg.URL is empty, the default local endpoint is probed first and a
// warning is logged. Missing credentials fail with ErrConnectivity.
func Connect(ctx context.Context, cfg Config, log *zap.Logger) (*Client, error) {
	if log == nil {
		log = zap.NewNop()
	}

	url := cfg.URL
	if url == "" {
		url = DefaultEndpoint
		log.Warn("api_url was not provided, trying default endpoint", zap.String("url", url))

		timeout := cfg.ProbeTimeout
		if timeout == 0 {
			timeout = defaultProbeTimeout
		}
		if err := probe(ctx, defaultProbeAddress, timeout); err != nil {
			return nil, fmt.Errorf("%w: api_url was not provided, default %q also unavailable: %v", ErrConnectivity, url, err)
		}
	}

	if cfg.Username == "" || cfg.Password == "" {
		return nil, fmt.Errorf("%w: no credentials provided", ErrConnectivity)
	}

	httpClient := &http.Client{}
	if !cfg.ValidateCerts {
		httpClient.Transport = &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			// #nosec G402 -- certificate validation is disabled on request
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}

	rpc := goca.NewClient(goca.NewConfig(cfg.Username, cfg.Password, url), httpClient)

	log.Debug("created OpenNebula client", zap.String("url", url), zap.Bool("validate_certs", cfg.ValidateCerts))

	return newClient(rpc, httpClient, cfg.RetryInterval), nil
}

func newClient(rpc caller, httpClient *http.Client, retryInterval time.Duration) *Client {
	if retryInterval <= 0 {
		retryInterval = defaultRetryInterval
	}
	return &Client{rpc: rpc, httpClient: httpClient, retryInterval: retryInterval}
}

func probe(ctx context.Context, address string, timeout time.Duration) error {
	dialer := &net.Dialer{Timeout: timeout}
	conn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return err
	}
	return conn.Close()
}

// Close releases the session. It is safe to call Close multiple times.
func (c *Client) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	if c.httpClient != nil {
		c.httpClient.CloseIdleConnections()
	}
	return nil
}

// RetryInterval returns the delay the server suggests between polls.
func (c *Client) RetryInterval() time.Duration {
	return c.retryInterval
}

// Ping verifies the endpoint answers and returns the OpenNebula version.
func (c *Client) Ping(ctx context.Context) (string, error) {
	return c.call(ctx, "one.system.version")
}

// Pool fetches the full pool of the given kind.
func (c *Client) Pool(ctx context.Context, kind resource.Kind) ([]resource.Handle, error) {
	method, args, err := poolMethod(kind)
	if err != nil {
		return nil, err
	}

	body, err := c.call(ctx, method, args...)
	if err != nil {
		return nil, err
	}

	return resource.DecodePool(kind, []byte(body))
}

// Info fetches a single object by ID.
func (c *Client) Info(ctx context.Context, kind resource.Kind, id int) (*resource.Handle, error) {
	body, err := c.call(ctx, objectMethod(kind, "info"), id)
	if err != nil {
		return nil, err
	}

	return resource.DecodeHandle(kind, []byte(body))
}

// Chmod changes the permissions of an object. bits are passed positionally
// as owner/group/other times use/manage/admin.
func (c *Client) Chmod(ctx context.Context, kind resource.Kind, id int, bits [9]int) error {
	if !supportsOwnership(kind) {
		return fmt.Errorf("chmod is not supported for %s", kind)
	}

	args := make([]interface{}, 0, 10)
	args = append(args, id)
	for _, b := range bits {
		args = append(args, b)
	}

	_, err := c.call(ctx, objectMethod(kind, "chmod"), args...)
	return err
}

// Chown changes the owner and group of an object.
func (c *Client) Chown(ctx context.Context, kind resource.Kind, id, ownerID, groupID int) error {
	if !supportsOwnership(kind) {
		return fmt.Errorf("chown is not supported for %s", kind)
	}

	_, err := c.call(ctx, objectMethod(kind, "chown"), id, ownerID, groupID)
	return err
}

func (c *Client) call(ctx context.Context, method string, args ...interface{}) (string, error) {
	if c.closed {
		return "", fmt.Errorf("%s: %w: client is closed", method, ErrConnectivity)
	}

	resp, err := c.rpc.CallContext(ctx, method, args...)
	if err != nil {
		return "", classify(method, err)
	}

	return resp.Body(), nil
}

// classify maps goca errors onto the error taxonomy.
func classify(method string, err error) error {
	var respErr *goca.ResponseError
	if errors.As(err, &respErr) {
		switch respErr.Code {
		case goca.OneAuthorizationError:
			return fmt.Errorf("%s: %w: %w", method, ErrAuthorization, err)
		case goca.OneNoExists:
			return fmt.Errorf("%s: %w: %w", method, ErrNoExists, err)
		}
		return fmt.Errorf("%s: %w: %w", method, ErrRemote, err)
	}

	var clientErr *goca.ClientError
	if errors.As(err, &clientErr) && clientErr.Code == goca.ClientReqHTTP {
		return fmt.Errorf("%s: %w: %w", method, ErrConnectivity, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return fmt.Errorf("%s: %w: %w", method, ErrConnectivity, err)
	}

	return fmt.Errorf("%s: %w: %w", method, ErrRemote, err)
}
