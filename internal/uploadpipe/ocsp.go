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
	"fmt"

	"golang.org/x/crypto/ocsp"
)

// VerifyOCSPStaple inspects a completed TLS handshake's stapled OCSP
// response (spec.md §4.4, §6: "OCSP stapling per setting"). It is a
// no-op success when ocspEnabled is false; the Direct transport only
// installs this check when OCSP is enabled. The leaf and its issuer,
// needed to verify the OCSP response's signature, are taken from the
// first verified chain.
func VerifyOCSPStaple(state tls.ConnectionState, ocspEnabled bool) error {
	if !ocspEnabled {
		return nil
	}
	if len(state.OCSPResponse) == 0 {
		return fmt.Errorf("uploadpipe: ocsp stapling enabled but server sent no staple")
	}
	if len(state.VerifiedChains) == 0 || len(state.VerifiedChains[0]) < 2 {
		return fmt.Errorf("uploadpipe: ocsp verification requires a verified chain with an issuer")
	}
	leaf := state.VerifiedChains[0][0]
	issuer := state.VerifiedChains[0][1]

	resp, err := ocsp.ParseResponseForCert(state.OCSPResponse, leaf, issuer)
	if err != nil {
		return fmt.Errorf("uploadpipe: parsing ocsp staple: %w", err)
	}
	if resp.Status != ocsp.Good {
		return fmt.Errorf("uploadpipe: ocsp staple reports non-good status: %d", resp.Status)
	}
	return nil
}
