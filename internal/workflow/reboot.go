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

	"github.com/rdkcentral/stb-logupload-agent/internal/archive"
	"github.com/rdkcentral/stb-logupload-agent/internal/collector"
	"github.com/rdkcentral/stb-logupload-agent/internal/fsutil"
	"github.com/rdkcentral/stb-logupload-agent/internal/runtimectx"
	"github.com/rdkcentral/stb-logupload-agent/internal/strategy"
	"github.com/rdkcentral/stb-logupload-agent/internal/telemetry"
	"github.com/rdkcentral/stb-logupload-agent/internal/tsmark"
)

// DCMBatchListPath is the file a deferred Reboot cleanup appends the
// freshly created permanent-backup path to, for the Dcm strategy's
// next invocation to pick up (spec.md §4.2.2, §6). Its exact location
// is not fixed bit-for-bit by the spec; this implementation uses a
// fixed path under /tmp.
const DCMBatchListPath = "/tmp/dcm_batch_list.txt"

// Reboot builds the four-phase Handler shared by the Reboot and
// NonDcm strategies (spec.md §4.2.2: "NonDcm: uses the same workflow
// body as Reboot").
func Reboot(clock Clock, sleeper Sleeper, uptime UptimeReader, reasonChecker strategy.RebootReasonChecker, uploader *Uploader, telem telemetry.Sink, logger zerolog.Logger) Handler {
	r := &reboot{
		clock: clock, sleeper: sleeper, uptime: uptime, reasonChecker: reasonChecker,
		uploader: uploader, telemetry: telem, logger: logger, marker: &tsmark.Marker{},
	}
	return Handler{Setup: r.setup, Archive: r.archive, Upload: r.upload, Cleanup: r.cleanup}
}

type reboot struct {
	clock         Clock
	sleeper       Sleeper
	uptime        UptimeReader
	reasonChecker strategy.RebootReasonChecker
	uploader      *Uploader
	telemetry     telemetry.Sink
	logger        zerolog.Logger
	marker        *tsmark.Marker
}

func (r *reboot) setup(rc *runtimectx.RuntimeContext, sess *runtimectx.Session) error {
	hasLogs, err := fsutil.HasAny(rc.Paths.PrevBootLogDir, collector.LogPatterns...)
	if err != nil {
		return err
	}
	if !hasLogs {
		if r.telemetry != nil {
			r.telemetry.Count(telemetry.EventNoLogsReboot)
		}
		return fmt.Errorf("workflow: reboot setup: no matching files in %s", rc.Paths.PrevBootLogDir)
	}

	if up, err := r.uptime.Uptime(); err == nil && up < UptimeQuiesceThreshold {
		r.sleeper.Sleep(UptimeQuiesceSleep)
	}

	if _, err := collector.SweepOldPermanentBackups(rc.Paths.MainLogDir, r.clock.Now()); err != nil {
		r.logger.Warn().Err(err).Msg("workflow: reboot setup: permanent-backup sweep failed")
	}

	now := r.clock.Now()
	sess.ArchiveFileName = archive.FileName(rc.Identity.MACCompact(), archive.KindLogs, now)
	return r.marker.Mark(rc.Paths.PrevBootLogDir, now)
}

func (r *reboot) archive(rc *runtimectx.RuntimeContext, sess *runtimectx.Session) error {
	if rc.Settings.IncludePCAP {
		if err := r.copyMostRecentPCAP(rc.Paths.MainLogDir, rc.Paths.PrevBootLogDir); err != nil {
			r.logger.Warn().Err(err).Msg("workflow: reboot archive: pcap copy failed")
		}
	}
	sess.ArchivePath = filepath.Join(rc.Paths.TempDir, sess.ArchiveFileName)
	if err := archive.BuildFromDir(rc.Paths.PrevBootLogDir, sess.ArchivePath); err != nil {
		return err
	}
	r.sleeper.Sleep(PostArchiveSleep)
	return nil
}

func (r *reboot) copyMostRecentPCAP(mainLogDir, prevBootDir string) error {
	name, err := collector.MostRecentPCAP(mainLogDir)
	if err != nil || name == "" {
		return err
	}
	return fsutil.CopyFile(filepath.Join(mainLogDir, name), filepath.Join(prevBootDir, name))
}

// eligible implements spec.md §4.2.2's three-rule cascade.
func (r *reboot) eligible(rc *runtimectx.RuntimeContext) bool {
	if !rc.Flags.DCM {
		return true // rule (a)
	}
	if rc.Flags.UploadOnReboot {
		return true // rule (b)
	}
	// rule (c)
	return !r.reasonChecker.WasScheduledOrMaintenance() && !rc.Settings.UploadOnUnscheduledRebootDisabled
}

func (r *reboot) upload(rc *runtimectx.RuntimeContext, sess *runtimectx.Session) error {
	if !r.eligible(rc) {
		sess.Success = false
		return nil
	}

	md5 := computeMD5(rc, sess.ArchivePath, r.logger)
	if err := r.uploader.Upload(rc, sess, sess.ArchivePath, sess.ArchiveFileName, md5); err != nil {
		return err
	}

	if rc.Settings.IncludeDRI {
		r.uploadDRI(rc, sess)
	}

	if rc.Settings.IncludePCAP {
		if _, err := collector.ClearPCAPs(rc.Paths.MainLogDir, r.clock.Now()); err != nil {
			r.logger.Warn().Err(err).Msg("workflow: reboot upload: pcap clear failed")
		}
	}
	return nil
}

// uploadDRI builds and uploads a separate DRI archive under a fresh
// session with reset counters (spec.md §4.2.2), emitting DRI
// telemetry regardless of its outcome.
func (r *reboot) uploadDRI(rc *runtimectx.RuntimeContext, mainSess *runtimectx.Session) {
	driSess := &runtimectx.Session{
		Strategy: mainSess.Strategy,
		Primary:  mainSess.Primary,
		Fallback: mainSess.Fallback,
	}
	if r.telemetry != nil {
		defer r.telemetry.Count(telemetry.EventDRIUpload)
	}

	if _, err := os.Stat(rc.Paths.DRILogDir); err != nil {
		return
	}
	now := r.clock.Now()
	driSess.ArchiveFileName = archive.FileName(rc.Identity.MACCompact(), archive.KindDRILogs, now)
	driSess.ArchivePath = filepath.Join(rc.Paths.TempDir, driSess.ArchiveFileName)

	if err := archive.BuildFromDir(rc.Paths.DRILogDir, driSess.ArchivePath); err != nil {
		r.logger.Warn().Err(err).Msg("workflow: reboot: DRI archive build failed")
		return
	}
	md5 := computeMD5(rc, driSess.ArchivePath, r.logger)
	if err := r.uploader.Upload(rc, driSess, driSess.ArchivePath, driSess.ArchiveFileName, md5); err != nil {
		r.logger.Warn().Err(err).Msg("workflow: reboot: DRI upload failed")
		return
	}
	if driSess.Success {
		os.Remove(driSess.ArchivePath)
	}
}

func (r *reboot) cleanup(rc *runtimectx.RuntimeContext, sess *runtimectx.Session, uploadSucceeded bool) error {
	r.sleeper.Sleep(PreCleanupSleep)

	if uploadSucceeded {
		os.Remove(sess.ArchivePath)
	}

	if err := r.marker.Unmark(rc.Paths.PrevBootLogDir); err != nil {
		r.logger.Warn().Err(err).Msg("workflow: reboot cleanup: unmark failed")
	}

	backupDir := filepath.Join(rc.Paths.MainLogDir, r.marker.Stamp()+"logbackup")
	if err := fsutil.MoveAll(rc.Paths.PrevBootLogDir, backupDir); err != nil {
		r.logger.Warn().Err(err).Msg("workflow: reboot cleanup: moving into permanent backup failed")
	}
	if err := fsutil.EnsureEmptyDir(rc.Paths.PrevBootBackupDir, 0755); err != nil {
		r.logger.Warn().Err(err).Msg("workflow: reboot cleanup: recreating previous-boot-backup dir failed")
	}

	if rc.Flags.DCM && !rc.Flags.UploadOnReboot {
		if err := r.appendDCMBatchList(backupDir); err != nil {
			r.logger.Warn().Err(err).Msg("workflow: reboot cleanup: appending DCM batch list failed")
		}
	}
	return nil
}

func (r *reboot) appendDCMBatchList(path string) error {
	f, err := os.OpenFile(DCMBatchListPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = fmt.Fprintln(f, path)
	return err
}
