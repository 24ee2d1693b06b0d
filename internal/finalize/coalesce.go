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
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/rdkcentral/stb-logupload-agent/internal/runtimectx"
)

// Coalescer collapses concurrent Finalize calls keyed by the pair of
// block-marker paths into one execution, the way perkeep.org/pkg/client coalesces
// concurrent discovery/prefix lookups via a sync.Once-shaped guard
// (generalized here to the keyed case, since a main session and a DRI
// session can in principle finalize around the same archive
// directory). In the single-invocation, single-thread model spec.md
// §5 describes this never actually races; it exists so a future
// concurrent caller (e.g. main + DRI finalizing at once) gets the
// same one-winner guarantee for free.
type Coalescer struct {
	group singleflight.Group
}

// Do runs fn at most once per concurrent call sharing key, sharing
// fn's (error) result with every caller that arrived while it ran.
func (c *Coalescer) Do(key string, fn func() error) error {
	_, err, _ := c.group.Do(key, func() (interface{}, error) {
		return nil, fn()
	})
	return err
}

// DefaultCoalescer is the process-wide Coalescer cmd/loguploader and
// cmd/loguploadnow both finalize through, keyed by marker path pair so
// a main session and its DRI sub-session never update the same
// block-marker files twice concurrently.
var DefaultCoalescer = &Coalescer{}

// FinalizeCoalesced runs Finalize through DefaultCoalescer, keyed by
// the marker paths it will touch.
func FinalizeCoalesced(sess *runtimectx.Session, paths MarkerPaths, sidecarPath string, now time.Time) error {
	key := paths.Direct + "|" + paths.CodeBig
	return DefaultCoalescer.Do(key, func() error {
		return Finalize(sess, paths, sidecarPath, now)
	})
}
