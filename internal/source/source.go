// Package source resolves command line references into in-memory PDF buffers.
//
// A reference is one of:
//   - a filesystem path, or file://path
//   - "-" for standard input
//   - an http:// or https:// URL
//   - s3://bucket/key
package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog/log"

	"github.com/local/pdftools/internal/config"
	"github.com/local/pdftools/internal/filetype"
)

// Stdin is the reference that reads standard input.
const Stdin = "-"

var (
	// ErrTooManyFiles is returned when more references are given than allowed.
	ErrTooManyFiles = errors.New("too many files")
	// ErrTooLarge is returned when the inputs exceed the byte budget.
	ErrTooLarge = errors.New("input too large")
	// ErrNotPDF is returned for inputs that are not PDF documents.
	ErrNotPDF = errors.New("not a PDF")
)

// Source is a resolved input.
type Source struct {
	Ref  string
	Name string
	Data []byte
	Type *filetype.FileTypeInfo
}

// Options configures a Resolver.
type Options struct {
	Limits      config.LimitsConfig
	S3          config.S3Config
	HTTPTimeout time.Duration

	// HTTPClient overrides the client built from HTTPTimeout.
	HTTPClient *http.Client
	// Stdin overrides os.Stdin.
	Stdin io.Reader
}

// OptionsFrom maps the source related sections of cfg.
func OptionsFrom(cfg config.Config) Options {
	return Options{Limits: cfg.Limits, S3: cfg.S3, HTTPTimeout: cfg.HTTPTimeout}
}

// Resolver fetches sources. It is safe for concurrent use.
type Resolver struct {
	opts Options
	http *http.Client

	s3Once   sync.Once
	s3Client *s3.Client
	s3Err    error
}

// New returns a Resolver.
func New(opts Options) *Resolver {
	client := opts.HTTPClient
	if client == nil {
		timeout := opts.HTTPTimeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	return &Resolver{opts: opts, http: client}
}

// Fetch resolves a single reference under the total byte limit.
func (r *Resolver) Fetch(ctx context.Context, ref string) (*Source, error) {
	return r.fetch(ctx, ref, r.opts.Limits.MaxTotalBytes)
}

// FetchAll resolves refs in order. The number of references and their
// combined size are bounded by the configured limits.
func (r *Resolver) FetchAll(ctx context.Context, refs []string) ([]*Source, error) {
	if max := r.opts.Limits.MaxFiles; max > 0 && len(refs) > max {
		return nil, fmt.Errorf("%d files given, at most %d allowed: %w", len(refs), max, ErrTooManyFiles)
	}
	stdin := 0
	for _, ref := range refs {
		if ref == Stdin {
			stdin++
		}
	}
	if stdin > 1 {
		return nil, fmt.Errorf("standard input can be used only once")
	}

	limit := r.opts.Limits.MaxTotalBytes
	var used uint64
	out := make([]*Source, 0, len(refs))
	for _, ref := range refs {
		remaining := uint64(0)
		if limit > 0 {
			if used >= limit {
				return nil, fmt.Errorf("%s: total size limit of %s reached: %w", ref, humanize.Bytes(limit), ErrTooLarge)
			}
			remaining = limit - used
		}
		src, err := r.fetch(ctx, ref, remaining)
		if err != nil {
			return nil, err
		}
		used += uint64(len(src.Data))
		out = append(out, src)
	}
	return out, nil
}

// fetch reads ref, allowing at most limit bytes (0 means unlimited).
func (r *Resolver) fetch(ctx context.Context, ref string, limit uint64) (*Source, error) {
	var (
		data []byte
		name string
		err  error
	)
	switch {
	case ref == Stdin:
		name = "document.pdf"
		data, err = readLimited(r.opts.Stdin, limit)
	case strings.HasPrefix(ref, "s3://"):
		data, name, err = r.fetchS3(ctx, ref, limit)
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		data, name, err = r.fetchHTTP(ctx, ref, limit)
	default:
		p := strings.TrimPrefix(ref, "file://")
		name = filepath.Base(p)
		data, err = readFile(p, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ref, err)
	}

	info := filetype.Detect(data)
	if !info.IsPDF {
		return nil, fmt.Errorf("%s: %s: %w", ref, info.Description, ErrNotPDF)
	}
	log.Debug().Str("ref", ref).Str("size", humanize.Bytes(uint64(len(data)))).Msg("source fetched")
	return &Source{Ref: ref, Name: name, Data: data, Type: info}, nil
}

func readFile(p string, limit uint64) ([]byte, error) {
	st, err := os.Stat(p)
	if err != nil {
		return nil, err
	}
	if st.IsDir() {
		return nil, fmt.Errorf("is a directory")
	}
	if err := checkSize(uint64(st.Size()), limit); err != nil {
		return nil, err
	}
	// reject from the header before reading a large non-PDF file
	info, err := filetype.DetectFile(p)
	if err != nil {
		return nil, err
	}
	if st.Size() > 0 && !info.IsPDF {
		return nil, fmt.Errorf("%s: %w", info.Description, ErrNotPDF)
	}
	return os.ReadFile(p)
}

func (r *Resolver) fetchHTTP(ctx context.Context, ref string, limit uint64) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return nil, "", err
	}
	resp, err := r.http.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("http %d", resp.StatusCode)
	}
	if resp.ContentLength > 0 {
		if err := checkSize(uint64(resp.ContentLength), limit); err != nil {
			return nil, "", err
		}
	}
	data, err := readLimited(resp.Body, limit)
	if err != nil {
		return nil, "", err
	}
	return data, nameFromURL(req.URL), nil
}

func (r *Resolver) fetchS3(ctx context.Context, ref string, limit uint64) ([]byte, string, error) {
	bucket, key, err := ParseS3(ref)
	if err != nil {
		return nil, "", err
	}
	client, err := r.s3(ctx)
	if err != nil {
		return nil, "", err
	}

	head, err := client.HeadObject(ctx, &s3.HeadObjectInput{Bucket: aws.String(bucket), Key: aws.String(key)})
	if err != nil {
		return nil, "", fmt.Errorf("head object: %w", err)
	}
	if err := checkSize(uint64(aws.ToInt64(head.ContentLength)), limit); err != nil {
		return nil, "", err
	}

	buf := manager.NewWriteAtBuffer(make([]byte, 0, aws.ToInt64(head.ContentLength)))
	n, err := manager.NewDownloader(client).Download(ctx, buf, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, "", fmt.Errorf("download: %w", err)
	}
	log.Debug().Str("bucket", bucket).Str("key", key).Int64("bytes", n).Msg("downloaded s3 object")
	return buf.Bytes()[:n], path.Base(key), nil
}

// s3 builds the client once from the default AWS chain, with static
// credentials and a custom endpoint when configured.
func (r *Resolver) s3(ctx context.Context) (*s3.Client, error) {
	r.s3Once.Do(func() {
		c := r.opts.S3
		var loadOpts []func(*awscfg.LoadOptions) error
		if c.Region != "" {
			loadOpts = append(loadOpts, awscfg.WithRegion(c.Region))
		}
		if c.AccessKeyID != "" {
			loadOpts = append(loadOpts, awscfg.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(c.AccessKeyID, c.SecretAccessKey, "")))
		}
		cfg, err := awscfg.LoadDefaultConfig(ctx, loadOpts...)
		if err != nil {
			r.s3Err = fmt.Errorf("failed to load AWS config: %w", err)
			return
		}
		r.s3Client = s3.NewFromConfig(cfg, func(o *s3.Options) {
			if c.Endpoint != "" {
				o.BaseEndpoint = aws.String(c.Endpoint)
			}
			o.UsePathStyle = c.UsePathStyle
		})
	})
	return r.s3Client, r.s3Err
}

// ParseS3 splits s3://bucket/key.
func ParseS3(ref string) (bucket, key string, err error) {
	p := strings.TrimPrefix(ref, "s3://")
	slash := strings.Index(p, "/")
	if slash <= 0 || slash == len(p)-1 {
		return "", "", fmt.Errorf("invalid s3 url: %s", ref)
	}
	return p[:slash], p[slash+1:], nil
}

func nameFromURL(u *url.URL) string {
	base := path.Base(u.Path)
	if base == "/" || base == "." || base == "" {
		return "document.pdf"
	}
	return base
}

func checkSize(size, limit uint64) error {
	if limit > 0 && size > limit {
		return fmt.Errorf("%s exceeds the remaining %s: %w", humanize.Bytes(size), humanize.Bytes(limit), ErrTooLarge)
	}
	return nil
}

// readLimited reads rd fully, failing once more than limit bytes arrive.
func readLimited(rd io.Reader, limit uint64) ([]byte, error) {
	if limit == 0 {
		return io.ReadAll(rd)
	}
	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(rd, int64(limit)+1))
	if err != nil {
		return nil, err
	}
	if uint64(n) > limit {
		return nil, fmt.Errorf("more than %s: %w", humanize.Bytes(limit), ErrTooLarge)
	}
	return buf.Bytes(), nil
}
