package tasks

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"go.trai.ch/tgr/internal/core/domain"
	"go.trai.ch/tgr/internal/engine/task"
	"go.trai.ch/zerr"
)

// TypeDownload fetches the value input "url" into the output "out".
//
// The optional value input "sha256" is checked against the body. The optional
// value input "maxAge" (a duration such as "24h") expires cache entries older
// than that.
const TypeDownload = "download"

type downloadKind struct {
	Base
	client *http.Client
	url    string
	sum    string
	maxAge time.Duration
}

var _ task.Freshness = (*downloadKind)(nil)

func newDownload(b Base, env Env) (task.Kind, error) {
	k := &downloadKind{Base: b, client: env.Client}

	url, err := stringValue(b, "url", true)
	if err != nil {
		return nil, err
	}
	k.url = url

	if k.sum, err = stringValue(b, "sha256", false); err != nil {
		return nil, err
	}
	k.sum = strings.ToLower(k.sum)

	maxAge, err := stringValue(b, "maxAge", false)
	if err != nil {
		return nil, err
	}
	if maxAge != "" {
		if k.maxAge, err = time.ParseDuration(maxAge); err != nil {
			return nil, zerr.With(zerr.With(zerr.With(domain.ErrInvalidValue, "task", b.name), "input", "maxAge"), "value", maxAge)
		}
	}

	if err := b.requireOutput("out"); err != nil {
		return nil, err
	}
	return k, nil
}

// UpToDate expires entries older than maxAge. Without maxAge entries never expire.
func (k *downloadKind) UpToDate(lastExecuted time.Time, c task.Context) (bool, error) {
	if k.maxAge <= 0 {
		return true, nil
	}
	return c.Now().Sub(lastExecuted) < k.maxAge, nil
}

func (k *downloadKind) Run(ctx context.Context, rc task.RunContext) error {
	path, err := rc.OutputPath("out")
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, k.url, nil)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrDownloadFailed.Error()), "url", k.url)
	}
	resp, err := k.client.Do(req)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrDownloadFailed.Error()), "url", k.url)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return zerr.With(zerr.With(domain.ErrDownloadFailed, "url", k.url), "status", resp.Status)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, domain.FilePerm)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create output"), "path", path)
	}
	h := sha256.New()
	n, copyErr := io.Copy(io.MultiWriter(f, h), resp.Body)
	closeErr := f.Close()
	if copyErr != nil {
		return zerr.With(zerr.Wrap(copyErr, domain.ErrDownloadFailed.Error()), "url", k.url)
	}
	if closeErr != nil {
		return zerr.With(zerr.Wrap(closeErr, "failed to close output"), "path", path)
	}

	if k.sum != "" {
		if got := hex.EncodeToString(h.Sum(nil)); got != k.sum {
			_ = os.Remove(path)
			return zerr.With(zerr.With(zerr.With(domain.ErrChecksumMismatch, "url", k.url), "expected", k.sum), "actual", got)
		}
	}
	_, _ = fmt.Fprintf(rc.Stdout(), "downloaded %s (%d bytes)\n", k.url, n)
	return nil
}

// stringValue reads a string value input. A missing optional input yields "".
func stringValue(b Base, name string, required bool) (string, error) {
	v, ok, err := b.value(name)
	if err != nil {
		return "", err
	}
	if !ok {
		if required {
			return "", zerr.With(zerr.With(domain.ErrMissingInput, "task", b.name), "input", name)
		}
		return "", nil
	}
	s, isString := v.(string)
	if !isString {
		return "", zerr.With(zerr.With(zerr.With(domain.ErrTypeMismatch, "task", b.name), "input", name), "expected", "string")
	}
	return s, nil
}
