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

package workflow

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/rdkcentral/stb-logupload-agent/internal/runtimectx"
	"github.com/rdkcentral/stb-logupload-agent/internal/telemetry"
)

// RRD, PrivacyAbort, and NoLogs bypass the four-phase engine entirely
// (spec.md §4.2.4); they are plain functions rather than Handlers.

// RunRRD verifies the pre-built Remote-Debug archive exists and
// uploads it once through the normal pipeline. Retry/fallback
// book-keeping still applies per channel; only the setup/archive/
// cleanup phases are skipped, since there is no archive to build.
func RunRRD(rc *runtimectx.RuntimeContext, sess *runtimectx.Session, uploader *Uploader, logger zerolog.Logger) error {
	if _, err := os.Stat(rc.Paths.RRDArchivePath); err != nil {
		return fmt.Errorf("workflow: rrd: pre-built archive missing: %w", err)
	}
	sess.ArchivePath = rc.Paths.RRDArchivePath
	sess.ArchiveFileName = filepath.Base(rc.Paths.RRDArchivePath)
	md5 := computeMD5(rc, sess.ArchivePath, logger)
	return uploader.Upload(rc, sess, sess.ArchivePath, sess.ArchiveFileName, md5)
}

// RunPrivacyAbort emits telemetry and performs no filesystem mutation
// or upload, per spec.md §4.2.4 and §8 scenario S6.
func RunPrivacyAbort(telem telemetry.Sink) {
	if telem != nil {
		telem.Count(telemetry.EventPrivacyOptOut)
	}
}

// RunNoLogs emits telemetry and performs no filesystem mutation or
// upload, per spec.md §4.2.4.
func RunNoLogs(telem telemetry.Sink) {
	if telem != nil {
		telem.Count(telemetry.EventNoLogsReboot)
	}
}
