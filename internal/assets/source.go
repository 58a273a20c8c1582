package assets

import (
	"context"
	"embed"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"
	"time"
)

//go:embed data
var embedded embed.FS

// Source opens named resources such as "shaders/vertex.glsl". Names always use forward slashes.
type Source interface {
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	String() string
}

// FSSource reads resources from a file system (embedded assets or a directory).
type FSSource struct {
	FS   fs.FS
	Name string
}

func (s FSSource) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.FS.Open(name)
}

func (s FSSource) String() string { return s.Name }

// Embedded returns the assets compiled into the binary.
func Embedded() FSSource {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		panic(err)
	}
	return FSSource{FS: sub, Name: "embedded"}
}

// Dir returns a source reading from a directory laid out like the embedded data
// (shaders/, meshes/).
func Dir(dir string) FSSource {
	return FSSource{FS: os.DirFS(dir), Name: dir}
}

const (
	defaultUserAgent = "orrery/1.0"
	fetchTimeout     = 30 * time.Second
)

// HTTPSource fetches resources relative to a base URL.
type HTTPSource struct {
	Base   *url.URL
	Client *http.Client
}

// NewHTTPSource parses base (http or https). A trailing slash is added so names resolve below it.
func NewHTTPSource(base string) (*HTTPSource, error) {
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("assets: base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("assets: base url %q: scheme must be http or https", base)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return &HTTPSource{Base: u, Client: &http.Client{Timeout: fetchTimeout}}, nil
}

func (s *HTTPSource) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	ref, err := url.Parse(path.Clean(name))
	if err != nil {
		return nil, err
	}
	u := s.Base.ResolveReference(ref)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", defaultUserAgent)
	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("GET %s: HTTP %d", u, resp.StatusCode)
	}
	return resp.Body, nil
}

func (s *HTTPSource) String() string { return s.Base.String() }

// NewSource picks a source from a config value: empty means embedded assets, an http(s) URL
// means HTTPSource, anything else is a directory.
func NewSource(spec string) (Source, error) {
	switch {
	case spec == "":
		return Embedded(), nil
	case strings.HasPrefix(spec, "http://"), strings.HasPrefix(spec, "https://"):
		s, err := NewHTTPSource(spec)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	info, err := os.Stat(spec)
	if err != nil {
		return nil, fmt.Errorf("assets: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("assets: %s is not a directory", spec)
	}
	return Dir(spec), nil
}
