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
	"time"

	"github.com/rs/zerolog"

	"github.com/rdkcentral/stb-logupload-agent/internal/archive"
	"github.com/rdkcentral/stb-logupload-agent/internal/collector"
	"github.com/rdkcentral/stb-logupload-agent/internal/fsutil"
	"github.com/rdkcentral/stb-logupload-agent/internal/runtimectx"
	"github.com/rdkcentral/stb-logupload-agent/internal/telemetry"
	"github.com/rdkcentral/stb-logupload-agent/internal/uploadpipe"
)

// OnDemandTempDir is the scratch directory the OnDemand strategy
// fills in setup and destroys in cleanup (spec.md §4.2.1, §3).
const OnDemandTempDir = "/tmp/log_on_demand"

// OnDemandJournalPath records the archive's intended permanent-path
// name for audit purposes (spec.md §4.2.1: "append the intended
// permanent-path name to a lastlog_path journal").
const OnDemandJournalPath = "/tmp/lastlog_path"

// OnDemand builds the four-phase Handler for the OnDemand strategy.
func OnDemand(clock Clock, uploader *Uploader, telem telemetry.Sink, logger zerolog.Logger) Handler {
	od := &onDemand{clock: clock, uploader: uploader, telemetry: telem, logger: logger}
	return Handler{Setup: od.setup, Archive: od.archive, Upload: od.upload, Cleanup: od.cleanup}
}

type onDemand struct {
	clock     Clock
	uploader  *Uploader
	telemetry telemetry.Sink
	logger    zerolog.Logger
}

func (od *onDemand) setup(rc *runtimectx.RuntimeContext, sess *runtimectx.Session) error {
	hasLogs, err := fsutil.HasAny(rc.Paths.MainLogDir, collector.OnDemandPatterns...)
	if err != nil {
		return err
	}
	if !hasLogs {
		if od.telemetry != nil {
			od.telemetry.Count(telemetry.EventNoLogsOnDemand)
		}
		return fmt.Errorf("workflow: onDemand setup: no matching files in %s", rc.Paths.MainLogDir)
	}

	if err := fsutil.EnsureEmptyDir(OnDemandTempDir, 0755); err != nil {
		return err
	}
	if _, err := collector.CollectForOnDemand(rc.Paths.MainLogDir, OnDemandTempDir); err != nil {
		return err
	}

	now := od.clock.Now()
	sess.ArchiveFileName = archive.FileName(rc.Identity.MACCompact(), archive.KindLogs, now)
	return od.appendJournal(rc, sess, now)
}

func (od *onDemand) appendJournal(rc *runtimectx.RuntimeContext, sess *runtimectx.Session, now time.Time) error {
	intendedPath := filepath.Join(rc.Paths.MainLogDir, sess.ArchiveFileName)
	f, err := os.OpenFile(OnDemandJournalPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		od.logger.Warn().Err(err).Msg("workflow: onDemand: failed to open lastlog_path journal")
		return nil
	}
	defer f.Close()
	_, err = fmt.Fprintf(f, "%s %s\n", now.Format(time.RFC3339), intendedPath)
	return err
}

func (od *onDemand) archive(rc *runtimectx.RuntimeContext, sess *runtimectx.Session) error {
	sess.ArchivePath = filepath.Join(rc.Paths.TempDir, sess.ArchiveFileName)
	return archive.BuildFromDir(OnDemandTempDir, sess.ArchivePath)
}

func (od *onDemand) upload(rc *runtimectx.RuntimeContext, sess *runtimectx.Session) error {
	if !rc.Flags.Flag {
		sess.Success = false
		return nil
	}
	md5 := computeMD5(rc, sess.ArchivePath, od.logger)
	return od.uploader.Upload(rc, sess, sess.ArchivePath, sess.ArchiveFileName, md5)
}

func (od *onDemand) cleanup(rc *runtimectx.RuntimeContext, sess *runtimectx.Session, uploadSucceeded bool) error {
	return os.RemoveAll(OnDemandTempDir)
}

// computeMD5 computes the archive's MD5 when encrypt-cloud-upload is
// enabled, failing soft (no MD5 field) on any error, matching
// uploadstblogs/src/md5_utils.c's skip-on-failure behavior
// (SPEC_FULL.md §C.4).
func computeMD5(rc *runtimectx.RuntimeContext, archivePath string, logger zerolog.Logger) uploadpipe.MD5Result {
	if !rc.Settings.EncryptCloudUpload {
		return uploadpipe.MD5Result{}
	}
	sum, err := fsutil.MD5Base64(archivePath)
	if err != nil {
		logger.Warn().Err(err).Str("path", archivePath).Msg("workflow: MD5 computation failed, proceeding without MD5 field")
		return uploadpipe.MD5Result{}
	}
	return uploadpipe.MD5Result{OK: true, Base64: sum}
}
