package runtime

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// CredentialHeader is the fixed authentication header attached to every call.
const CredentialHeader = "X-API-Key"

// DefaultTimeout bounds the single outbound HTTP call.
const DefaultTimeout = 30 * time.Second

// Executor issues one synchronous HTTP call per process invocation. There are
// no retries and no concurrency; the timeout on the embedded client is the
// only bound.
type Executor struct {
	client     *http.Client
	credential string
	log        *logrus.Logger
}

func NewExecutor(credential string, timeout time.Duration, log *logrus.Logger) *Executor {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if log == nil {
		log = logrus.New()
		log.SetLevel(logrus.WarnLevel)
	}
	return &Executor{
		client:     &http.Client{Timeout: timeout},
		credential: credential,
		log:        log,
	}
}

// Response is the triaged result of one call: the parsed body view and the
// raw envelope view (status, headers, body). OK reflects a 2xx status.
type Response struct {
	Status int
	OK     bool
	Body   any
	Raw    map[string]any
}

// Execute performs the HTTP call. A malformed response body never fails the
// call: unparseable text degrades to a JSON string value, an empty body to
// JSON null.
func (e *Executor) Execute(ctx context.Context, method string, u *url.URL, body any, hasBody bool) (*Response, error) {
	var reader io.Reader
	if hasBody {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return nil, fmt.Errorf("invalid method: %w", err)
	}
	req.Header.Set(CredentialHeader, e.credential)
	if hasBody {
		req.Header.Set("Content-Type", "application/json")
	}

	e.log.Debugf("%s %s", method, u)
	resp, err := e.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	text, _ := io.ReadAll(resp.Body)

	var bodyValue any
	if strings.TrimSpace(string(text)) != "" {
		if v, err := decodeJSON(string(text)); err != nil {
			bodyValue = string(text)
		} else {
			bodyValue = v
		}
	}

	headers := make(map[string]any, len(resp.Header))
	for name, values := range resp.Header {
		headers[name] = strings.Join(values, ", ")
	}

	return &Response{
		Status: resp.StatusCode,
		OK:     resp.StatusCode >= 200 && resp.StatusCode < 300,
		Body:   bodyValue,
		Raw: map[string]any{
			"status":  resp.StatusCode,
			"headers": headers,
			"body":    bodyValue,
		},
	}, nil
}
