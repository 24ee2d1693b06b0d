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

package classify

import (
	"errors"
	"testing"
)

func TestFromAttempt(t *testing.T) {
	cases := []struct {
		name          string
		httpStatus    int
		transportCode int
		wantNil       bool
		wantKind      Kind
	}{
		{"success", 200, 0, true, KindNone},
		{"http retryable 500", 500, 0, false, KindHTTPRetryable},
		{"http retryable 503", 503, 0, false, KindHTTPRetryable},
		{"http terminal 404", 404, 0, false, KindHTTPTerminal},
		{"transport error generic", 0, 7, false, KindTransportError},
		{"transport error ssl connect", 0, 35, false, KindCertificateError},
		{"transport error peer cert invalid", 0, 51, false, KindCertificateError},
		{"transport dominates over http status", 500, 35, false, KindCertificateError},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := FromAttempt(c.httpStatus, c.transportCode, "host", nil)
			if c.wantNil {
				if got != nil {
					t.Fatalf("FromAttempt(%d, %d) = %v, want nil", c.httpStatus, c.transportCode, got)
				}
				return
			}
			if got == nil {
				t.Fatalf("FromAttempt(%d, %d) = nil, want Kind %v", c.httpStatus, c.transportCode, c.wantKind)
			}
			if got.Kind != c.wantKind {
				t.Errorf("Kind = %v, want %v", got.Kind, c.wantKind)
			}
		})
	}
}

func TestIsCertificateCode(t *testing.T) {
	for _, code := range []int{35, 51, 53, 54, 58, 59, 60, 64, 66, 77, 80, 82, 83, 90, 91} {
		if !IsCertificateCode(code) {
			t.Errorf("IsCertificateCode(%d) = false, want true", code)
		}
	}
	for _, code := range []int{0, 1, 6, 7, 28, 52} {
		if IsCertificateCode(code) {
			t.Errorf("IsCertificateCode(%d) = true, want false", code)
		}
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := FromAttempt(500, 0, "host", cause)
	if !errors.Is(err, cause) {
		t.Errorf("errors.Is(err, cause) = false, want true")
	}
}

func TestAWSErrorCode(t *testing.T) {
	if got := AWSErrorCode(nil); got != "" {
		t.Errorf("AWSErrorCode(nil) = %q, want empty", got)
	}
	if got := AWSErrorCode(errors.New("not an awserr")); got != "" {
		t.Errorf("AWSErrorCode(plain error) = %q, want empty", got)
	}
}
