package resolver

// AllPaths is the selector the CORS headers are attached to. It matches every
// request path, the root included.
const AllPaths = "/:path*"

const (
	apiSource  = "/api/:path*"
	csrfSource = "/sanctum/csrf-cookie"
)

const (
	HeaderAllowCredentials = "Access-Control-Allow-Credentials"
	HeaderAllowOrigin      = "Access-Control-Allow-Origin"
	HeaderAllowMethods     = "Access-Control-Allow-Methods"
	HeaderAllowHeaders     = "Access-Control-Allow-Headers"
)

const (
	allowMethods = "GET,DELETE,PATCH,POST,PUT"
	allowHeaders = "X-CSRF-Token, X-Requested-With, Accept, Accept-Version, Content-Length, Content-MD5, Content-Type, Date, X-Api-Version"
)

var bundlerExternals = []string{"canvas", "jsdom"}

// RewriteRule maps an inbound path pattern to an absolute destination
// template on the backend.
type RewriteRule struct {
	Source      string `json:"source" yaml:"source"`
	Destination string `json:"destination" yaml:"destination"`
}

// HeaderEntry is a single response header.
type HeaderEntry struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

// HeaderRule attaches a list of headers to every response whose request path
// matches Source.
type HeaderRule struct {
	Source  string        `json:"source" yaml:"source"`
	Headers []HeaderEntry `json:"headers" yaml:"headers"`
}

// Options are the inputs of a single resolution.
type Options struct {
	Origin      string
	CORSEnabled bool
	Externals   []string
}

// Resolved is the complete configuration handed to the HTTP layer and the
// bundler. It must not be modified after Resolve returns it.
type Resolved struct {
	Origin    string
	Rewrites  []RewriteRule
	Headers   []HeaderRule
	Externals []string
}

// ResolveRewrites returns the rewrite rules forwarding API and CSRF cookie
// requests to origin.
func ResolveRewrites(origin string) ([]RewriteRule, error) {
	if err := ValidateOrigin(origin); err != nil {
		return nil, err
	}

	return []RewriteRule{
		{Source: apiSource, Destination: origin + apiSource},
		{Source: csrfSource, Destination: origin + csrfSource},
	}, nil
}

// ResolveHeaders returns the CORS headers allowing credentialed requests from
// origin. When enabled is false no headers are produced and origin is not
// inspected.
func ResolveHeaders(origin string, enabled bool) ([]HeaderEntry, error) {
	if !enabled {
		return []HeaderEntry{}, nil
	}

	if err := ValidateOrigin(origin); err != nil {
		return nil, err
	}

	return []HeaderEntry{
		{Key: HeaderAllowCredentials, Value: "true"},
		{Key: HeaderAllowOrigin, Value: origin},
		{Key: HeaderAllowMethods, Value: allowMethods},
		{Key: HeaderAllowHeaders, Value: allowHeaders},
	}, nil
}

// ResolveExternals returns existing followed by the modules the bundler must
// leave out of the bundle. existing is copied, never modified, and entries
// already present are not deduplicated.
func ResolveExternals(existing []string) []string {
	out := make([]string, 0, len(existing)+len(bundlerExternals))
	out = append(out, existing...)
	return append(out, bundlerExternals...)
}

// Resolve runs every resolution step for opts. On error nothing is returned.
func Resolve(opts Options) (*Resolved, error) {
	rewrites, err := ResolveRewrites(opts.Origin)
	if err != nil {
		return nil, err
	}

	entries, err := ResolveHeaders(opts.Origin, opts.CORSEnabled)
	if err != nil {
		return nil, err
	}

	headers := []HeaderRule{}
	if len(entries) > 0 {
		headers = append(headers, HeaderRule{Source: AllPaths, Headers: entries})
	}

	return &Resolved{
		Origin:    opts.Origin,
		Rewrites:  rewrites,
		Headers:   headers,
		Externals: ResolveExternals(opts.Externals),
	}, nil
}
