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

package uploadpipe

import (
	"crypto/tls"
	"crypto/x509"
	"net/http"
	"net/url"
	"os"
	"time"

	"golang.org/x/net/http/httpproxy"
	"golang.org/x/oauth2"
)

// Transport performs one HTTP round trip under a channel's auth/TLS
// contract. The TLS stack itself is out of this spec's scope
// (spec.md §1): this interface only fixes that Direct uses mTLS and
// CodeBig uses an OAuth bearer token, the way
// perkeep.org/pkg/client.Client.TLSConfig/DialFunc fix the shape of
// the client's TLS dial without this repo reimplementing crypto/tls.
type Transport interface {
	Do(req *http.Request) (*http.Response, error)
}

// CertConfig names the client-certificate triad used for mTLS.
type CertConfig struct {
	CertFile string
	KeyFile  string
	CAFile   string
}

// TLSMinVersion enforces spec.md §6: "TLS version: enforce 1.2 or
// greater".
const TLSMinVersion = tls.VersionTLS12

// NewDirectTransport builds an mTLS http.Client using the device's
// client certificate, key, and CA, per spec.md §4.4. When ocspEnabled
// is true, a VerifyConnection hook runs VerifyOCSPStaple on the
// server's stapled response and fails the handshake if the staple is
// missing, unverifiable, or not "good".
func NewDirectTransport(certs CertConfig, ocspEnabled bool, timeout, handshakeTimeout time.Duration) (*http.Client, error) {
	cert, err := tls.LoadX509KeyPair(certs.CertFile, certs.KeyFile)
	if err != nil {
		return nil, err
	}
	caPool := x509.NewCertPool()
	if certs.CAFile != "" {
		caPEM, err := os.ReadFile(certs.CAFile)
		if err != nil {
			return nil, err
		}
		caPool.AppendCertsFromPEM(caPEM)
	}
	tlsConfig := &tls.Config{
		MinVersion:   TLSMinVersion,
		Certificates: []tls.Certificate{cert},
		RootCAs:      caPool,
	}
	if ocspEnabled {
		tlsConfig.VerifyConnection = func(state tls.ConnectionState) error {
			return VerifyOCSPStaple(state, true)
		}
	}
	transport := &http.Transport{
		TLSClientConfig:     tlsConfig,
		TLSHandshakeTimeout: handshakeTimeout,
	}
	return &http.Client{Transport: transport, Timeout: timeout}, nil
}

// NewCodeBigTransport builds a standard-TLS http.Client that attaches
// an OAuth bearer token to every request via oauth2.Transport,
// grounded in perkeep.org/pkg/importer/mastodon's use of
// golang.org/x/oauth2 for bearer-token-authenticated API calls.
func NewCodeBigTransport(tokenSource oauth2.TokenSource, timeout, handshakeTimeout time.Duration) *http.Client {
	base := &http.Transport{
		TLSClientConfig:     &tls.Config{MinVersion: TLSMinVersion},
		TLSHandshakeTimeout: handshakeTimeout,
	}
	return &http.Client{
		Transport: &oauth2.Transport{Source: tokenSource, Base: base},
		Timeout:   timeout,
	}
}

// NewProxyFallbackTransport builds the http.Client used for the
// proxy-bucket PUT (spec.md §4.4's proxy fallback). It shares Direct's
// mTLS materials (the proxy bucket still expects the device
// certificate) but resolves its own dial proxy from the environment
// via golang.org/x/net/http/httpproxy, rather than net/http's default
// ProxyFromEnvironment, so the agent's one proxy-aware code path is
// explicit and testable rather than implicit package-level state.
func NewProxyFallbackTransport(certs CertConfig, timeout, handshakeTimeout time.Duration) (*http.Client, error) {
	cert, err := tls.LoadX509KeyPair(certs.CertFile, certs.KeyFile)
	if err != nil {
		return nil, err
	}
	caPool := x509.NewCertPool()
	if certs.CAFile != "" {
		caPEM, err := os.ReadFile(certs.CAFile)
		if err != nil {
			return nil, err
		}
		caPool.AppendCertsFromPEM(caPEM)
	}

	proxyCfg := httpproxy.FromEnvironment()
	transport := &http.Transport{
		TLSClientConfig: &tls.Config{
			MinVersion:   TLSMinVersion,
			Certificates: []tls.Certificate{cert},
			RootCAs:      caPool,
		},
		TLSHandshakeTimeout: handshakeTimeout,
		Proxy: func(req *http.Request) (*url.URL, error) {
			return proxyCfg.ProxyFunc()(req.URL)
		},
	}
	return &http.Client{Transport: transport, Timeout: timeout}, nil
}

// httpClientTransport adapts *http.Client to the Transport interface.
type httpClientTransport struct {
	client *http.Client
}

func (t httpClientTransport) Do(req *http.Request) (*http.Response, error) {
	return t.client.Do(req)
}

// WrapHTTPClient adapts a standard *http.Client to Transport, for
// tests that supply an httptest.Server-backed client directly.
func WrapHTTPClient(c *http.Client) Transport {
	return httpClientTransport{client: c}
}
