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

// Package finalize is the block-marker and cleanup finalizer (C10):
// after all upload attempts in an invocation, it updates the
// per-channel block markers that gate the next invocation's channel
// selection (spec.md §4.6), and purges ephemeral sidecars.
package finalize

import (
	"os"
	"time"

	"github.com/rdkcentral/stb-logupload-agent/internal/runtimectx"
)

// DefaultDirectMarkerPath and DefaultCodeBigMarkerPath are the
// well-known block-marker file locations (spec.md §6). Their content
// is ignored; only the mtime matters.
const (
	DefaultDirectMarkerPath  = "/tmp/.lastdirectfail_upl"
	DefaultCodeBigMarkerPath = "/tmp/.lastcodebigfail_upl"
)

// MarkerPaths names where the two channel block markers live.
type MarkerPaths struct {
	Direct  string
	CodeBig string
}

func (p MarkerPaths) direct() string {
	if p.Direct != "" {
		return p.Direct
	}
	return DefaultDirectMarkerPath
}

func (p MarkerPaths) codebig() string {
	if p.CodeBig != "" {
		return p.CodeBig
	}
	return DefaultCodeBigMarkerPath
}

// Finalize applies spec.md §4.6's marker rules for one invocation's
// session, then removes sidecarPath (the presigned-URL sidecar) as a
// best effort.
func Finalize(sess *runtimectx.Session, paths MarkerPaths, sidecarPath string, now time.Time) error {
	touchDirect, touchCodeBig := markerDecision(sess)

	var firstErr error
	if touchDirect {
		if err := touch(paths.direct(), now); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if touchCodeBig {
		if err := touch(paths.codebig(), now); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if sidecarPath != "" {
		os.Remove(sidecarPath) // best effort; absence is not an error
	}
	return firstErr
}

// markerDecision implements spec.md §4.6's rules in priority order:
// Direct success suppresses all markers; otherwise each channel that
// was attempted and did not itself succeed is marked. This naturally
// covers CodeBig succeeding after Direct was attempted: Direct's
// count is nonzero and Direct did not succeed, so its marker is
// touched, while CodeBig's own marker is not.
//
// succeededVia is always sess.Primary when sess.Success: the
// uploader's channel swap (internal/workflow/uploader.go) keeps a
// local loop variable and sess.Primary in lock-step, so whichever
// channel actually produced the success — original primary or
// post-swap fallback — is exactly what sess.Primary holds by the time
// Upload returns. sess.Fallback no longer names the channel that
// succeeded once a swap has happened; it holds the channel that was
// swapped away from.
func markerDecision(sess *runtimectx.Session) (touchDirect, touchCodeBig bool) {
	succeededVia := runtimectx.ChannelNone
	if sess.Success {
		succeededVia = sess.Primary
	}

	if succeededVia == runtimectx.ChannelDirect {
		return false, false
	}

	if sess.Direct.Count > 0 && succeededVia != runtimectx.ChannelDirect {
		touchDirect = true
	}
	if sess.CodeBig.Count > 0 && succeededVia != runtimectx.ChannelCodeBig {
		touchCodeBig = true
	}
	return touchDirect, touchCodeBig
}

// touch updates path's mtime to now, creating an empty file if it
// does not exist (block markers carry no meaningful content).
func touch(path string, now time.Time) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	f.Close()
	return os.Chtimes(path, now, now)
}

// ReadMarkerTime returns the marker's mtime, or the zero time if it
// does not exist, for channel-selection's isBlocked check.
func ReadMarkerTime(path string) time.Time {
	fi, err := os.Stat(path)
	if err != nil {
		return time.Time{}
	}
	return fi.ModTime()
}
