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

package finalize

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/rdkcentral/stb-logupload-agent/internal/runtimectx"
)

func TestMarkerDecision(t *testing.T) {
	cases := []struct {
		name              string
		sess              *runtimectx.Session
		wantDirect        bool
		wantCodeBig       bool
	}{
		{
			name:       "direct success marks nothing",
			sess:       &runtimectx.Session{Primary: runtimectx.ChannelDirect, Success: true, Direct: runtimectx.ChannelAttempts{Count: 1}},
			wantDirect: false, wantCodeBig: false,
		},
		{
			name:       "direct attempted and failed marks direct only",
			sess:       &runtimectx.Session{Primary: runtimectx.ChannelDirect, Success: false, Direct: runtimectx.ChannelAttempts{Count: 3}},
			wantDirect: true, wantCodeBig: false,
		},
		{
			// Reflects the uploader's post-swap field state
			// (internal/workflow/uploader.go): once Direct is
			// exhausted and swapped away from, Primary holds the
			// channel actually being tried (CodeBig) and Fallback
			// holds the channel swapped away from (Direct), not the
			// pre-swap values.
			name: "codebig attempted and failed after direct attempted marks both",
			sess: &runtimectx.Session{
				Primary: runtimectx.ChannelCodeBig, Fallback: runtimectx.ChannelDirect,
				Success: false, UsedFallback: true,
				Direct:  runtimectx.ChannelAttempts{Count: 3},
				CodeBig: runtimectx.ChannelAttempts{Count: 3},
			},
			wantDirect: true, wantCodeBig: true,
		},
		{
			// Same post-swap field state, but the CodeBig attempt
			// this time succeeds: Primary still holds CodeBig, the
			// channel that actually succeeded.
			name: "codebig success after direct attempted also marks direct",
			sess: &runtimectx.Session{
				Primary: runtimectx.ChannelCodeBig, Fallback: runtimectx.ChannelDirect,
				Success: true, UsedFallback: true,
				Direct:  runtimectx.ChannelAttempts{Count: 3},
				CodeBig: runtimectx.ChannelAttempts{Count: 1},
			},
			wantDirect: true, wantCodeBig: false,
		},
		{
			name:       "codebig success with direct never attempted marks nothing",
			sess:       &runtimectx.Session{Primary: runtimectx.ChannelCodeBig, Success: true, CodeBig: runtimectx.ChannelAttempts{Count: 1}},
			wantDirect: false, wantCodeBig: false,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			gotDirect, gotCodeBig := markerDecision(c.sess)
			if gotDirect != c.wantDirect || gotCodeBig != c.wantCodeBig {
				t.Errorf("markerDecision() = (%v, %v), want (%v, %v)", gotDirect, gotCodeBig, c.wantDirect, c.wantCodeBig)
			}
		})
	}
}

func TestFinalizeTouchesMarkersAndRemovesSidecar(t *testing.T) {
	dir := t.TempDir()
	directPath := filepath.Join(dir, "direct")
	codebigPath := filepath.Join(dir, "codebig")
	sidecar := filepath.Join(dir, "sidecar.txt")

	if err := touch(sidecar, time.Now()); err != nil {
		t.Fatalf("seeding sidecar: %v", err)
	}

	sess := &runtimectx.Session{Primary: runtimectx.ChannelDirect, Success: false, Direct: runtimectx.ChannelAttempts{Count: 3}}
	now := time.Now()
	if err := Finalize(sess, MarkerPaths{Direct: directPath, CodeBig: codebigPath}, sidecar, now); err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	if got := ReadMarkerTime(directPath); got.IsZero() {
		t.Error("direct marker not written")
	}
	if got := ReadMarkerTime(codebigPath); !got.IsZero() {
		t.Error("codebig marker unexpectedly written")
	}
	if got := ReadMarkerTime(sidecar); !got.IsZero() {
		t.Error("sidecar should have been removed")
	}
}

func TestReadMarkerTimeMissing(t *testing.T) {
	got := ReadMarkerTime(filepath.Join(t.TempDir(), "absent"))
	if !got.IsZero() {
		t.Errorf("ReadMarkerTime(absent) = %v, want zero time", got)
	}
}
