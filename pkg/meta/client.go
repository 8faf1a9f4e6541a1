package meta

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"strings"
	"time"

	pkgerrors "github.com/vintagegrove/backend/pkg/errors"
)

const (
	defaultBaseURL             = "https://graph.facebook.com"
	defaultAPIVersion          = "v21.0"
	actionSourceWebsite        = "website"
	requestBodyReadLimit int64 = 1024
)

var (
	errAccessTokenRequired = errors.New("meta access token is required")
	errPixelIDRequired     = errors.New("meta pixel id is required")
)

// Client wraps the Meta Conversions API used for server-side event delivery.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	apiVersion  string
	pixelID     string
	accessToken string
	testCode    string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the Graph API base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// WithAPIVersion pins the Graph API version segment.
func WithAPIVersion(version string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(version)
		if trimmed != "" {
			c.apiVersion = trimmed
		}
	}
}

// WithTestEventCode tags every delivery with Meta's test event code.
func WithTestEventCode(code string) Option {
	return func(c *Client) {
		c.testCode = strings.TrimSpace(code)
	}
}

// NewClient builds the Conversions API client for one pixel.
func NewClient(pixelID, accessToken string, opts ...Option) (*Client, error) {
	trimmedPixel := strings.TrimSpace(pixelID)
	if trimmedPixel == "" {
		return nil, errPixelIDRequired
	}
	trimmedToken := strings.TrimSpace(accessToken)
	if trimmedToken == "" {
		return nil, errAccessTokenRequired
	}

	client := &Client{
		pixelID:     trimmedPixel,
		accessToken: trimmedToken,
		baseURL:     defaultBaseURL,
		apiVersion:  defaultAPIVersion,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if client.baseURL == "" {
		client.baseURL = defaultBaseURL
	}
	if client.apiVersion == "" {
		client.apiVersion = defaultAPIVersion
	}

	return client, nil
}

// UserData carries the identity subset known for the visitor. Fields Meta
// requires hashed are hashed at marshal time; fbp/fbc/IP/user agent go plain.
type UserData struct {
	Email      string
	Phone      string
	FirstName  string
	ExternalID string
	Fbp        string
	Fbc        string
	ClientIP   string
	UserAgent  string
}

// CustomData carries the commerce fields attached to a funnel event.
type CustomData struct {
	Currency        string   `json:"currency,omitempty"`
	Value           string   `json:"value,omitempty"`
	ContentIDs      []string `json:"content_ids,omitempty"`
	ContentName     string   `json:"content_name,omitempty"`
	ContentCategory string   `json:"content_category,omitempty"`
	ContentType     string   `json:"content_type,omitempty"`
	OrderID         string   `json:"order_id,omitempty"`
}

// Event is one server-side conversions event.
type Event struct {
	Name       string
	Time       time.Time
	ID         string
	SourceURL  string
	UserData   UserData
	CustomData CustomData
}

type wireUserData struct {
	Em             []string `json:"em,omitempty"`
	Ph             []string `json:"ph,omitempty"`
	Fn             []string `json:"fn,omitempty"`
	ExternalID     []string `json:"external_id,omitempty"`
	Fbp            string   `json:"fbp,omitempty"`
	Fbc            string   `json:"fbc,omitempty"`
	ClientIP       string   `json:"client_ip_address,omitempty"`
	ClientUA       string   `json:"client_user_agent,omitempty"`
}

type wireEvent struct {
	EventName    string       `json:"event_name"`
	EventTime    int64        `json:"event_time"`
	EventID      string       `json:"event_id,omitempty"`
	ActionSource string       `json:"action_source"`
	SourceURL    string       `json:"event_source_url,omitempty"`
	UserData     wireUserData `json:"user_data"`
	CustomData   *CustomData  `json:"custom_data,omitempty"`
}

type wirePayload struct {
	Data          []wireEvent `json:"data"`
	TestEventCode string      `json:"test_event_code,omitempty"`
}

// SendEvent delivers a single event to the pixel's /events edge.
func (c *Client) SendEvent(ctx context.Context, event Event) error {
	if c == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "conversions client not configured")
	}
	if strings.TrimSpace(event.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "event name is required")
	}

	when := event.Time
	if when.IsZero() {
		when = time.Now()
	}

	wire := wireEvent{
		EventName:    event.Name,
		EventTime:    when.Unix(),
		EventID:      event.ID,
		ActionSource: actionSourceWebsite,
		SourceURL:    event.SourceURL,
		UserData:     buildWireUserData(event.UserData),
	}
	if !reflect.DeepEqual(event.CustomData, CustomData{}) {
		custom := event.CustomData
		wire.CustomData = &custom
	}

	payload, err := json.Marshal(wirePayload{Data: []wireEvent{wire}, TestEventCode: c.testCode})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "marshal conversions payload")
	}

	endpoint := fmt.Sprintf("%s/%s/%s/events?access_token=%s",
		strings.TrimRight(c.baseURL, "/"), c.apiVersion, url.PathEscape(c.pixelID), url.QueryEscape(c.accessToken))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build conversions request")
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute conversions request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, requestBodyReadLimit))
		return pkgerrors.Wrap(pkgerrors.CodeDependency,
			fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "conversions request failed")
	}

	return nil
}

func buildWireUserData(u UserData) wireUserData {
	wire := wireUserData{
		Fbp:      strings.TrimSpace(u.Fbp),
		Fbc:      strings.TrimSpace(u.Fbc),
		ClientIP: strings.TrimSpace(u.ClientIP),
		ClientUA: strings.TrimSpace(u.UserAgent),
	}
	if h := NormalizeAndHash(u.Email); h != "" {
		wire.Em = []string{h}
	}
	if h := NormalizeAndHash(u.Phone); h != "" {
		wire.Ph = []string{h}
	}
	if h := NormalizeAndHash(u.FirstName); h != "" {
		wire.Fn = []string{h}
	}
	if h := NormalizeAndHash(u.ExternalID); h != "" {
		wire.ExternalID = []string{h}
	}
	return wire
}

// NormalizeAndHash lowercases, trims and SHA-256 hashes a match-key value the
// way Meta expects. Empty input returns an empty string.
func NormalizeAndHash(value string) string {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if normalized == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])
}
