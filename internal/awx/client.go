package awx

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/awxops/igsync/internal/awx/httpclient"
	"github.com/awxops/igsync/internal/cmd/common"
	"github.com/awxops/igsync/internal/config"
)

const apiBasePath = "/api/v2"

// HTTPDoer is the minimal HTTP client surface the AWX client needs.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// API is the controller surface consumed by the reconciler and the
// read-only commands.
type API interface {
	ListOrganizations(ctx context.Context) ([]Organization, error)
	FindOrganization(ctx context.Context, name string) (*Organization, error)
	ListInstanceGroups(ctx context.Context) ([]InstanceGroup, error)
	ListTeams(ctx context.Context) ([]Team, error)
	FindTeam(ctx context.Context, name string, organizationID int) (*Team, error)
	CreateTeam(ctx context.Context, team TeamCreate) (*Team, error)
	ListTeamUsers(ctx context.Context, teamID int) ([]User, error)
	AssociateTeamUser(ctx context.Context, teamID, userID int) error
	DisassociateTeamUser(ctx context.Context, teamID, userID int) error
	ListOrganizationObjectRoles(ctx context.Context, organizationID int) ([]ObjectRole, error)
	ListInstanceGroupObjectRoles(ctx context.Context, instanceGroupID int) ([]ObjectRole, error)
	ListRoleUsers(ctx context.Context, roleID int) ([]User, error)
	ListRoleTeams(ctx context.Context, roleID int) ([]Team, error)
	AssociateRoleTeam(ctx context.Context, roleID, teamID int) error
	DisassociateRoleTeam(ctx context.Context, roleID, teamID int) error
}

// APIFactory builds an API from the profile configuration. Commands resolve
// the factory through the context so tests can substitute a fake controller.
type APIFactory func(cfg config.Hook, logger *slog.Logger) (API, error)

// Empty type to represent the _type_ APIFactory. Genesis is to support a key in a Context
type APIFactoryTypeKey struct{}

// APIFactoryKey is a global instance of the APIFactoryTypeKey type
var APIFactoryKey = APIFactoryTypeKey{}

// DefaultAPIFactory builds a real client from the controller.* config paths.
func DefaultAPIFactory(cfg config.Hook, logger *slog.Logger) (API, error) {
	baseURL := cfg.GetString(common.ControllerURLConfigPath)
	if baseURL == "" {
		return nil, fmt.Errorf("no controller URL configured (--%s)", common.ControllerURLFlagName)
	}
	token := cfg.GetString(common.ControllerTokenConfigPath)
	if token == "" {
		return nil, fmt.Errorf("no controller token configured (--%s)", common.ControllerTokenFlagName)
	}

	return NewClient(baseURL, token,
		WithHTTPClient(httpclient.NewLoggingHTTPClient(logger, cfg.GetBool(common.IgnoreCertsConfigPath))),
		WithPageSize(cfg.GetIntOrElse(common.PageSizeConfigPath, common.DefaultPageSize)),
	), nil
}

// Client is a typed client for the controller's v2 REST API.
type Client struct {
	baseURL  string
	token    string
	http     HTTPDoer
	pageSize int
}

type ClientOption func(*Client)

func WithHTTPClient(doer HTTPDoer) ClientOption {
	return func(c *Client) {
		c.http = doer
	}
}

func WithPageSize(size int) ClientOption {
	return func(c *Client) {
		if size > 0 {
			c.pageSize = size
		}
	}
}

func NewClient(baseURL, token string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		token:    token,
		http:     &http.Client{},
		pageSize: common.DefaultPageSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// APIError is a non-2xx response from the controller.
type APIError struct {
	StatusCode int
	Method     string
	URL        string
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s %s: %d: %s", e.Method, e.URL, e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("%s %s: %d", e.Method, e.URL, e.StatusCode)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding %s %s request: %w", method, path, err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp, method, u)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decoding %s %s response: %w", method, u, err)
		}
	}
	return nil
}

func newAPIError(resp *http.Response, method, url string) *APIError {
	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Method:     method,
		URL:        url,
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil || len(raw) == 0 {
		return apiErr
	}

	// The controller reports failures as {"detail": "..."}; fall back to
	// the raw body for anything else.
	var payload struct {
		Detail string `json:"detail"`
	}
	if jsonErr := json.Unmarshal(raw, &payload); jsonErr == nil && payload.Detail != "" {
		apiErr.Detail = payload.Detail
	} else {
		apiErr.Detail = strings.TrimSpace(string(raw))
	}
	return apiErr
}

// listAll follows the controller's next links until the collection is
// exhausted.
func listAll[T any](ctx context.Context, c *Client, path string, query url.Values) ([]T, error) {
	if query == nil {
		query = url.Values{}
	}
	query.Set("page_size", fmt.Sprintf("%d", c.pageSize))

	var all []T
	nextPath := path
	nextQuery := query
	for {
		var p page[T]
		if err := c.do(ctx, http.MethodGet, nextPath, nextQuery, nil, &p); err != nil {
			return nil, err
		}
		all = append(all, p.Results...)

		if p.Next == nil || *p.Next == "" {
			return all, nil
		}
		parsed, err := url.Parse(*p.Next)
		if err != nil {
			return nil, fmt.Errorf("parsing next link %q: %w", *p.Next, err)
		}
		nextPath = parsed.Path
		nextQuery = parsed.Query()
	}
}

// findFirst queries a collection endpoint expecting at most one match.
func findFirst[T any](ctx context.Context, c *Client, path string, query url.Values) (*T, error) {
	query.Set("page_size", "1")
	query.Set("page", "1")

	var p page[T]
	if err := c.do(ctx, http.MethodGet, path, query, nil, &p); err != nil {
		return nil, err
	}
	if p.Count == 0 || len(p.Results) == 0 {
		return nil, nil
	}
	return &p.Results[0], nil
}
