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

// Package classify turns a raw (HTTP status, transport error code)
// pair into one of the error kinds spec.md §7 defines, the way
// pkg/blobserver/s3/s3_preflight.go inspects awserr.Error to recover
// AWS-specific codes rather than matching on an opaque error string.
package classify

import (
	"fmt"

	"github.com/aws/aws-sdk-go/aws/awserr"
)

// Kind is one of the error kinds from spec.md §7, classified by how
// it is acted upon rather than by where it came from.
type Kind int

const (
	KindNone Kind = iota
	KindInvalidArgument
	KindFilesystemMissing
	KindTransportError
	KindCertificateError
	KindHTTPTerminal
	KindHTTPRetryable
	KindUploadBlocked
)

func (k Kind) String() string {
	switch k {
	case KindInvalidArgument:
		return "InvalidArgument"
	case KindFilesystemMissing:
		return "FilesystemMissing"
	case KindTransportError:
		return "TransportError"
	case KindCertificateError:
		return "CertificateError"
	case KindHTTPTerminal:
		return "HttpTerminal"
	case KindHTTPRetryable:
		return "HttpRetryable"
	case KindUploadBlocked:
		return "UploadBlocked"
	default:
		return "None"
	}
}

// certificateTransportCodes are the transport error codes spec.md §7
// singles out as certificate-related (originally curl error codes:
// 35=SSL connect error, 51=peer cert invalid, 53=SSL crypto engine,
// 54=cannot set SSL crypto engine as default, 58=problem with local
// cert, 59=cipher not usable, 60=peer cert cannot be authenticated,
// 64=TFTP-unrelated placeholder kept for parity with the curl table,
// 66=SSL engine init failed, 77=problem with CA cert, 80=failed
// SSL shutdown, 82=CRL file load failed, 83=issuer check failed,
// 90=SSL public key pinning failed, 91=invalid cert status).
var certificateTransportCodes = map[int]bool{
	35: true, 51: true, 53: true, 54: true, 58: true, 59: true,
	60: true, 64: true, 66: true, 77: true, 80: true, 82: true,
	83: true, 90: true, 91: true,
}

// Error is a classified upload failure. It wraps the underlying cause
// so callers can errors.As/Unwrap down to it.
type Error struct {
	Kind          Kind
	HTTPStatus    int
	TransportCode int
	Host          string
	Err           error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: http=%d transport=%d host=%q: %v", e.Kind, e.HTTPStatus, e.TransportCode, e.Host, e.Err)
	}
	return fmt.Sprintf("%s: http=%d transport=%d host=%q", e.Kind, e.HTTPStatus, e.TransportCode, e.Host)
}

func (e *Error) Unwrap() error { return e.Err }

// IsCertificateCode reports whether code is one of the curl-derived
// certificate transport codes spec.md §7 lists.
func IsCertificateCode(code int) bool {
	return certificateTransportCodes[code]
}

// FromAttempt classifies one upload attempt's recorded (http,
// transport) pair into an error Kind, per spec.md §4.4's
// verification rule and §7's error-kind table. host is used only to
// populate CertificateError telemetry (certerr_split).
func FromAttempt(httpStatus, transportCode int, host string, cause error) *Error {
	if transportCode != 0 {
		if IsCertificateCode(transportCode) {
			return &Error{Kind: KindCertificateError, HTTPStatus: httpStatus, TransportCode: transportCode, Host: host, Err: cause}
		}
		return &Error{Kind: KindTransportError, HTTPStatus: httpStatus, TransportCode: transportCode, Host: host, Err: cause}
	}
	if httpStatus == 200 {
		return nil // success, not an error
	}
	if httpStatus == 404 {
		return &Error{Kind: KindHTTPTerminal, HTTPStatus: httpStatus, Host: host, Err: cause}
	}
	return &Error{Kind: KindHTTPRetryable, HTTPStatus: httpStatus, Host: host, Err: cause}
}

// AWSErrorCode extracts the symbolic error code from an awserr.Error
// cause, if the transport layer returned one (e.g. a request sent
// through the AWS SDK transport during S3 PUT retries). It returns
// "" for any other error, including nil.
func AWSErrorCode(cause error) string {
	if aerr, ok := cause.(awserr.Error); ok {
		return aerr.Code()
	}
	return ""
}
