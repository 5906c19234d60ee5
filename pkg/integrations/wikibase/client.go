package wikibase

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/matzehuels/lineage/pkg/cache"
	"github.com/matzehuels/lineage/pkg/integrations"
	"github.com/matzehuels/lineage/pkg/person"
)

// SourceName identifies this data source in cache keys and logs.
const SourceName = "wikibase"

const (
	defaultEndpoint   = "https://masssly.wikibase.cloud/query/sparql"
	defaultEntityBase = "https://masssly.wikibase.cloud/entity/"
	defaultPropBase   = "https://masssly.wikibase.cloud/prop/direct/"
	defaultItemBase   = "https://masssly.wikibase.cloud/wiki/Item:"
	defaultLanguage   = "en"
	defaultLimit      = 200
	defaultTimeout    = 10 * time.Second

	sparqlAccept = "application/sparql-results+json"
)

// Properties names the property and class IDs used by the query.
type Properties struct {
	InstanceOf string `toml:"instance_of"`
	Person     string `toml:"person_class"`
	Father     string `toml:"father"`
	Mother     string `toml:"mother"`
	BirthDate  string `toml:"birth_date"`
	DeathDate  string `toml:"death_date"`
	BirthOrder string `toml:"birth_order"`
	Residence  string `toml:"residence"`
	Occupation string `toml:"occupation"`
	Image      string `toml:"image"`
	WallPhoto  string `toml:"wall_photo"`
}

// DefaultProperties returns the IDs of the default instance.
func DefaultProperties() Properties {
	return Properties{
		InstanceOf: "P3",
		Person:     "Q4",
		Father:     "P4",
		Mother:     "P5",
		BirthDate:  "P21",
		DeathDate:  "P23",
		BirthOrder: "P18",
		Residence:  "P19",
		Occupation: "P20",
		Image:      "P1",
		WallPhoto:  "P22",
	}
}

// Config describes the query service and the shape of the query.
type Config struct {
	Endpoint   string        // SPARQL endpoint URL
	EntityBase string        // prefix of entity URIs in results
	PropBase   string        // prefix of direct-property URIs
	ItemBase   string        // prefix of human-facing item pages
	Language   string        // label language
	Limit      int           // maximum rows requested
	Timeout    time.Duration // per-request timeout
	RateLimit  float64       // requests per second, 0 for none
	Properties Properties
}

// DefaultConfig returns the configuration of the default instance.
func DefaultConfig() Config {
	return Config{
		Endpoint:   defaultEndpoint,
		EntityBase: defaultEntityBase,
		PropBase:   defaultPropBase,
		ItemBase:   defaultItemBase,
		Language:   defaultLanguage,
		Limit:      defaultLimit,
		Timeout:    defaultTimeout,
		Properties: DefaultProperties(),
	}
}

// withDefaults fills zero fields from [DefaultConfig].
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Endpoint == "" {
		c.Endpoint = d.Endpoint
	}
	if c.EntityBase == "" {
		c.EntityBase = d.EntityBase
	}
	if c.PropBase == "" {
		c.PropBase = d.PropBase
	}
	if c.ItemBase == "" {
		c.ItemBase = d.ItemBase
	}
	if c.Language == "" {
		c.Language = d.Language
	}
	if c.Limit <= 0 {
		c.Limit = d.Limit
	}
	if c.Timeout <= 0 {
		c.Timeout = d.Timeout
	}
	if c.Properties == (Properties{}) {
		c.Properties = d.Properties
	}
	return c
}

// Client queries a Wikibase SPARQL endpoint.
//
// All methods are safe for concurrent use.
type Client struct {
	*integrations.Client
	cfg   Config
	keyer cache.Keyer
}

// NewClient creates a client that caches parsed snapshots in backend for
// cacheTTL. Zero fields of cfg take their defaults.
func NewClient(backend cache.Cache, cacheTTL time.Duration, cfg Config) *Client {
	cfg = cfg.withDefaults()
	base := integrations.NewClient(backend, SourceName+":", cacheTTL, map[string]string{
		"Accept": sparqlAccept,
	}).WithTimeout(cfg.Timeout).WithRateLimit(cfg.RateLimit, 1)
	return &Client{Client: base, cfg: cfg, keyer: cache.NewDefaultKeyer()}
}

// Config returns the effective configuration.
func (c *Client) Config() Config { return c.cfg }

// Name returns [SourceName].
func (c *Client) Name() string { return SourceName }

// FetchPeople runs the person query and returns one record per entity, in
// the order the service returned them.
//
// If refresh is true the cache is bypassed. An empty result is not an
// error.
func (c *Client) FetchPeople(ctx context.Context, refresh bool) ([]person.Person, error) {
	key := c.keyer.PeopleKey(c.cfg.Endpoint, cache.PeopleKeyOpts{
		Language:    c.cfg.Language,
		PersonClass: c.cfg.Properties.Person,
		Limit:       c.cfg.Limit,
	})

	var people []person.Person
	err := c.Cached(ctx, key, refresh, &people, func() error {
		var resp sparqlResponse
		if err := c.Get(ctx, c.queryURL(peopleQuery(c.cfg)), &resp); err != nil {
			if errors.Is(err, integrations.ErrNotFound) {
				return fmt.Errorf("%w: sparql endpoint %s", err, c.cfg.Endpoint)
			}
			return err
		}
		people = groupPeople(resp.Results.Bindings, c.cfg.ItemBase)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return people, nil
}

// Ping runs a one-row query to check that the endpoint answers.
func (c *Client) Ping(ctx context.Context) error {
	var resp sparqlResponse
	return c.Get(ctx, c.queryURL(pingQuery(c.cfg)), &resp)
}

func (c *Client) queryURL(query string) string {
	v := url.Values{}
	v.Set("query", query)
	v.Set("format", "json")
	sep := "?"
	if strings.Contains(c.cfg.Endpoint, "?") {
		sep = "&"
	}
	return c.cfg.Endpoint + sep + v.Encode()
}
