package pairing

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmt-technologies/otrmtv/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
)

const (
	DefaultLookupURL = "https://cmt-technologies.net/casting/get_wifi.php"
	userAgent        = "otrmtv"
)

// Looker fetches the pairing payload for a normalized device identity.
type Looker interface {
	Lookup(ctx context.Context, deviceName string) (models.PairingPayload, error)
}

// Client queries the casting lookup service. A zero timeout leaves the
// request bounded only by the transport.
type Client struct {
	url     string
	timeout time.Duration
}

func NewClient(lookupURL string, timeout time.Duration) *Client {
	if lookupURL == "" {
		lookupURL = DefaultLookupURL
	}
	return &Client{url: lookupURL, timeout: timeout}
}

type lookupResult struct {
	payload models.PairingPayload
	err     error
}

// Lookup stops waiting when ctx is done; the request itself keeps running
// until the transport returns and its result is discarded.
func (c *Client) Lookup(ctx context.Context, deviceName string) (models.PairingPayload, error) {
	done := make(chan lookupResult, 1)
	go func() {
		payload, err := c.lookup(deviceName)
		done <- lookupResult{payload, err}
	}()

	select {
	case <-ctx.Done():
		return models.PairingPayload{}, newError(models.ReasonTransport, ctx.Err())
	case res := <-done:
		return res.payload, res.err
	}
}

func (c *Client) lookup(deviceName string) (models.PairingPayload, error) {
	agent := fiber.AcquireAgent()

	req := agent.Request()
	c.prepareURI(req, deviceName)
	req.Header.SetMethod(fiber.MethodGet)
	req.Header.SetContentType(fiber.MIMEApplicationJSON)
	err := agent.Parse()
	if err != nil {
		fiber.ReleaseAgent(agent)
		return models.PairingPayload{}, newError(models.ReasonTransport, err)
	}
	if c.timeout > 0 {
		agent.Timeout(c.timeout)
	}

	slog.Debug("Requesting pairing payload", "url", c.url, "device", deviceName)

	// Bytes hands the agent back to the pool.
	status, body, errs := agent.Bytes()
	if len(errs) != 0 {
		return models.PairingPayload{}, newError(models.ReasonTransport, errs[0])
	}
	if status < fiber.StatusOK || status >= fiber.StatusMultipleChoices {
		return models.PairingPayload{}, newError(models.ReasonTransport, fmt.Errorf("%w: %d", ErrHTTPStatus, status))
	}

	return DecodePayload(body)
}

func (c *Client) prepareURI(req *fasthttp.Request, deviceName string) {
	req.SetRequestURI(c.url)
	req.Header.SetUserAgent(userAgent)
	req.URI().QueryArgs().Set("device_name", deviceName)
}
