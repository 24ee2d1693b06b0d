/*
Copyright 2026 RDK Management

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

     http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package uploadpipe is the two-stage upload pipeline (C8): a
// presigned-URL metadata POST (Stage A) followed by an S3 PUT
// (Stage B), with proxy fallback. spec.md §4.4 fixes the request
// shape; the TLS/OAuth stack is injected as a Transport per channel.
package uploadpipe

import (
	"bufio"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/rdkcentral/stb-logupload-agent/internal/telemetry"
)

// DefaultSidecarPath is the well-known path external consumers may
// rely on to recover the last presigned URL (spec.md §6).
const DefaultSidecarPath = "/tmp/httpresult.txt"

// MD5Result carries the outcome of computing the archive's MD5,
// mirroring uploadstblogs/src/md5_utils.c: if computation failed,
// Stage A proceeds without the MD5 field rather than failing the
// attempt (SPEC_FULL.md §C.4).
type MD5Result struct {
	OK     bool
	Base64 string
}

// Pipeline drives one upload attempt's two stages plus proxy
// fallback. A Pipeline is shared across attempts and channels within
// one invocation; only the per-attempt arguments vary.
type Pipeline struct {
	UploadURL       string
	ProxyBucketHost string // empty disables proxy fallback
	SidecarPath     string // defaults to DefaultSidecarPath if empty

	// ProxyTransport is used for the proxy-bucket PUT instead of the
	// channel's own transport, since the proxy path resolves its dial
	// proxy from the environment (see NewProxyFallbackTransport). Nil
	// falls back to the attempt's own transport.
	ProxyTransport Transport

	Telemetry telemetry.Sink
	Logger    zerolog.Logger
}

func (p *Pipeline) sidecarPath() string {
	if p.SidecarPath != "" {
		return p.SidecarPath
	}
	return DefaultSidecarPath
}

// AttemptResult is everything one Stage A + Stage B (+ optional
// proxy PUT) attempt observed, for the retry controller to classify.
type AttemptResult struct {
	StageAHTTPStatus    int
	StageATransportCode int
	StageAURL           string

	StageBHTTPStatus    int
	StageBTransportCode int

	UsedProxy        bool
	ProxyHTTPStatus  int
	ProxyTransportErr int
}

// Succeeded reports whether the attempt (including any proxy
// fallback) ultimately landed a 200 with no transport error, per
// spec.md §4.4's verification rule.
func (r AttemptResult) Succeeded() bool {
	if r.UsedProxy {
		return r.ProxyTransportErr == 0 && r.ProxyHTTPStatus == 200
	}
	return r.StageBTransportCode == 0 && r.StageBHTTPStatus == 200
}

// Attempt runs Stage A, and if it succeeds, Stage B, and if Stage B
// fails and proxy fallback applies, the proxy PUT. archivePath is the
// local archive file; basename is what Stage A reports as the
// filename field. Proxy fallback applies only on the Direct channel
// for mediaclient devices (spec.md §4.4): isDirectChannel gates it
// independently of isMediaClient so a CodeBig attempt never triggers
// a proxy PUT.
func (p *Pipeline) Attempt(transport Transport, isMediaClient, isDirectChannel bool, archivePath, basename string, md5 MD5Result) (AttemptResult, error) {
	var result AttemptResult

	stageAURL, httpStatus, transportCode, err := p.stageA(transport, basename, md5)
	result.StageAHTTPStatus = httpStatus
	result.StageATransportCode = transportCode
	result.StageAURL = stageAURL
	if p.Telemetry != nil {
		p.Telemetry.Count(telemetry.EventUploadAttempt)
	}
	if transportCode != 0 || httpStatus != 200 || stageAURL == "" {
		return result, err
	}

	httpStatus, transportCode, _ = p.stageB(transport, stageAURL, archivePath)
	result.StageBHTTPStatus = httpStatus
	result.StageBTransportCode = transportCode
	if result.Succeeded() {
		return result, nil
	}

	if isMediaClient && isDirectChannel && p.ProxyBucketHost != "" {
		proxyErr := p.proxyPUT(transport, stageAURL, archivePath, &result)
		if proxyErr != nil {
			return result, proxyErr
		}
	}
	return result, nil
}

// stageA performs the metadata POST and returns the presigned URL (if
// any), the HTTP status, and the transport error code.
func (p *Pipeline) stageA(transport Transport, basename string, md5 MD5Result) (presignedURL string, httpStatus int, transportCode int, err error) {
	form := url.Values{}
	form.Set("filename", basename)
	if md5.OK {
		form.Set("MD5", md5.Base64)
	}

	req, err := http.NewRequest(http.MethodPost, p.UploadURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", 0, 0, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := transport.Do(req)
	if err != nil {
		return "", 0, transportErrorCode(err), err
	}
	defer resp.Body.Close()

	httpStatus = resp.StatusCode
	if httpStatus != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return "", httpStatus, 0, nil
	}

	line, err := firstLine(resp.Body)
	if err != nil || line == "" {
		return "", httpStatus, 0, fmt.Errorf("uploadpipe: stage A response had no URL: %w", err)
	}
	if _, parseErr := url.Parse(line); parseErr != nil {
		return "", httpStatus, 0, fmt.Errorf("uploadpipe: stage A response %q is not a URL: %w", line, parseErr)
	}

	if err := p.writeSidecar(line); err != nil {
		p.Logger.Warn().Err(err).Str("path", p.sidecarPath()).Msg("uploadpipe: failed to persist presigned URL sidecar")
	}
	return line, httpStatus, 0, nil
}

func (p *Pipeline) stageB(transport Transport, presignedURL, archivePath string) (httpStatus, transportCode int, err error) {
	return p.put(transport, presignedURL, archivePath)
}

// proxyPUT re-issues the PUT against the proxy bucket, per spec.md
// §4.4: strip scheme/host/query from the Stage A URL and prefix with
// the proxy bucket host.
func (p *Pipeline) proxyPUT(transport Transport, presignedURL, archivePath string, result *AttemptResult) error {
	proxyURL, err := proxyURLFor(p.ProxyBucketHost, presignedURL)
	if err != nil {
		return err
	}
	result.UsedProxy = true
	proxyTransport := transport
	if p.ProxyTransport != nil {
		proxyTransport = p.ProxyTransport
	}
	httpStatus, transportCode, _ := p.put(proxyTransport, proxyURL, archivePath)
	result.ProxyHTTPStatus = httpStatus
	result.ProxyTransportErr = transportCode
	if p.Telemetry != nil {
		p.Telemetry.Count(telemetry.EventProxyFallback)
	}
	return nil
}

// proxyURLFor builds "https://<proxyHost>/<path>" from presignedURL,
// stripping scheme, host, and query string (spec.md §4.4).
func proxyURLFor(proxyHost, presignedURL string) (string, error) {
	u, err := url.Parse(presignedURL)
	if err != nil {
		return "", fmt.Errorf("uploadpipe: parsing presigned URL for proxy fallback: %w", err)
	}
	return "https://" + proxyHost + u.Path, nil
}

func (p *Pipeline) put(transport Transport, dest, archivePath string) (httpStatus, transportCode int, err error) {
	f, err := os.Open(archivePath)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()
	fi, err := f.Stat()
	if err != nil {
		return 0, 0, err
	}

	req, err := http.NewRequest(http.MethodPut, dest, f)
	if err != nil {
		return 0, 0, err
	}
	req.ContentLength = fi.Size()

	resp, err := transport.Do(req)
	if err != nil {
		return 0, transportErrorCode(err), err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, 0, nil
}

func (p *Pipeline) writeSidecar(line string) error {
	return os.WriteFile(p.sidecarPath(), []byte(line+"\n"), 0644)
}

// ReadSidecar re-reads the persisted presigned URL. Kept for the
// legacy side-effect some external consumers rely on (spec.md §9,
// open question 1); Pipeline itself never calls this since it
// threads the URL in memory.
func ReadSidecar(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	line := strings.TrimSpace(strings.SplitN(string(b), "\n", 2)[0])
	return line, nil
}

func firstLine(r io.Reader) (string, error) {
	scanner := bufio.NewScanner(r)
	if scanner.Scan() {
		return strings.TrimSpace(scanner.Text()), nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", nil
}

// transportErrorCode maps a Go transport error to one of spec.md §7's
// fixed curl-derived codes when recognizable, or a generic nonzero
// code otherwise. Certificate-shaped errors are recognized by
// substring match on the underlying net/tls error text, since Go's
// stdlib does not expose curl's numeric codes directly.
func transportErrorCode(err error) int {
	if err == nil {
		return 0
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "certificate") && strings.Contains(msg, "expired"):
		return 51
	case strings.Contains(msg, "x509"):
		return 60
	case strings.Contains(msg, "tls"):
		return 35
	default:
		return 7 // generic "couldn't connect" style failure
	}
}
