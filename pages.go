package nfallback

import (
	"io"
	"os"

	"github.com/muir/nfallback/ntake"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// PageConfig describes one error page.  Set either Body or File.
// Files are opened when the response body is read, not before.
type PageConfig struct {
	// Status is the code the page is for.  For the default page,
	// and for the status sent, 0 means the code of the failure.
	Status      int    `yaml:"status"`
	ContentType string `yaml:"content_type"`
	Body        string `yaml:"body"`
	File        string `yaml:"file"`
}

// PagesConfig is the YAML layout read by LoadPages:
//
//	pages:
//	  - status: 404
//	    content_type: text/html
//	    file: ./404.html
//	default:
//	  body: something went wrong
type PagesConfig struct {
	Pages   []PageConfig `yaml:"pages"`
	Default *PageConfig  `yaml:"default"`
}

// Pages is a Resolver that serves a configured page per status code
type Pages struct {
	byCode      map[int]PageConfig
	defaultPage *PageConfig
}

var _ Resolver = &Pages{}

func NewPages(cfg PagesConfig) (*Pages, error) {
	p := &Pages{
		byCode: make(map[int]PageConfig, len(cfg.Pages)),
	}
	for _, page := range cfg.Pages {
		if page.Status < 100 || page.Status > 599 {
			return nil, errors.Errorf("page status %d is not an HTTP status", page.Status)
		}
		if _, dup := p.byCode[page.Status]; dup {
			return nil, errors.Errorf("duplicate page for status %d", page.Status)
		}
		if err := page.validate(); err != nil {
			return nil, err
		}
		p.byCode[page.Status] = page
	}
	if cfg.Default != nil {
		if cfg.Default.Status != 0 && (cfg.Default.Status < 100 || cfg.Default.Status > 599) {
			return nil, errors.Errorf("default page status %d is not an HTTP status", cfg.Default.Status)
		}
		if err := cfg.Default.validate(); err != nil {
			return nil, errors.Wrap(err, "default page")
		}
		d := *cfg.Default
		p.defaultPage = &d
	}
	return p, nil
}

// LoadPages reads a PagesConfig in YAML.  Unknown fields are errors.
func LoadPages(r io.Reader) (*Pages, error) {
	var cfg PagesConfig
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	err := dec.Decode(&cfg)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Wrap(err, "decode fallback pages")
	}
	return NewPages(cfg)
}

func LoadPagesFile(path string) (*Pages, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open fallback pages")
	}
	defer f.Close()
	p, err := LoadPages(f)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	return p, nil
}

func (p *Pages) Route(fc Context) (ntake.Response, bool, error) {
	page, ok := p.byCode[fc.Code()]
	if !ok {
		if p.defaultPage == nil {
			return nil, false, nil
		}
		page = *p.defaultPage
	}
	code := page.Status
	if code == 0 {
		code = fc.Code()
	}
	return page.response(code), true, nil
}

func (page PageConfig) validate() error {
	if page.Body != "" && page.File != "" {
		return errors.Errorf("page for status %d has both body and file", page.Status)
	}
	return nil
}

func (page PageConfig) response(code int) ntake.Response {
	contentType := page.ContentType
	if contentType == "" {
		contentType = "text/plain; charset=utf-8"
	}
	res := ntake.RsWithType(ntake.RsWithStatus(ntake.RsEmpty(), code), contentType)
	if page.File == "" {
		return ntake.RsWithBody(res, []byte(page.Body))
	}
	path := page.File
	return ntake.RsOf(
		res.Head,
		func() (io.Reader, error) {
			f, err := os.Open(path)
			if err != nil {
				return nil, errors.Wrap(err, "open fallback page")
			}
			return f, nil
		})
}
