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
	"github.com/rdkcentral/stb-logupload-agent/internal/dcmsettings"
	"github.com/rdkcentral/stb-logupload-agent/internal/fsutil"
	"github.com/rdkcentral/stb-logupload-agent/internal/runtimectx"
	"github.com/rdkcentral/stb-logupload-agent/internal/telemetry"
	"github.com/rdkcentral/stb-logupload-agent/internal/tsmark"
)

// Dcm builds the four-phase Handler for the Dcm strategy (spec.md
// §4.2.3): logs accumulate in the DCM batch dir across invocations
// until the DCM settings file says it's time to upload them together.
func Dcm(clock Clock, sleeper Sleeper, uploader *Uploader, telem telemetry.Sink, logger zerolog.Logger) Handler {
	d := &dcm{clock: clock, sleeper: sleeper, uploader: uploader, telemetry: telem, logger: logger, marker: &tsmark.Marker{}}
	return Handler{Setup: d.setup, Archive: d.archive, Upload: d.upload, Cleanup: d.cleanup}
}

type dcm struct {
	clock     Clock
	sleeper   Sleeper
	uploader  *Uploader
	telemetry telemetry.Sink
	logger    zerolog.Logger
	marker    *tsmark.Marker
}

func (d *dcm) setup(rc *runtimectx.RuntimeContext, sess *runtimectx.Session) error {
	if _, err := os.Stat(rc.Paths.DCMBatchDir); err != nil {
		return fmt.Errorf("workflow: dcm setup: batch dir %s: %w", rc.Paths.DCMBatchDir, err)
	}

	enabled, err := dcmsettings.UploadEnabled(rc.Paths.DCMSettingsFile)
	if err != nil {
		return err
	}
	if !enabled {
		return fmt.Errorf("workflow: dcm setup: upload not enabled in %s", rc.Paths.DCMSettingsFile)
	}

	now := d.clock.Now()
	sess.ArchiveFileName = archive.FileName(rc.Identity.MACCompact(), archive.KindLogs, now)
	return d.marker.Mark(rc.Paths.DCMBatchDir, now)
}

func (d *dcm) archive(rc *runtimectx.RuntimeContext, sess *runtimectx.Session) error {
	if rc.Settings.IncludePCAP {
		if name, err := collector.MostRecentPCAP(rc.Paths.MainLogDir); err == nil && name != "" {
			if err := fsutil.CopyFile(filepath.Join(rc.Paths.MainLogDir, name), filepath.Join(rc.Paths.DCMBatchDir, name)); err != nil {
				d.logger.Warn().Err(err).Msg("workflow: dcm archive: pcap copy failed")
			}
		}
	}
	sess.ArchivePath = filepath.Join(rc.Paths.TempDir, sess.ArchiveFileName)
	if err := archive.BuildFromDir(rc.Paths.DCMBatchDir, sess.ArchivePath); err != nil {
		return err
	}
	d.sleeper.Sleep(PostArchiveSleep)
	return nil
}

func (d *dcm) upload(rc *runtimectx.RuntimeContext, sess *runtimectx.Session) error {
	md5 := computeMD5(rc, sess.ArchivePath, d.logger)
	if err := d.uploader.Upload(rc, sess, sess.ArchivePath, sess.ArchiveFileName, md5); err != nil {
		return err
	}
	if rc.Settings.IncludePCAP {
		if _, err := collector.ClearPCAPs(rc.Paths.MainLogDir, d.clock.Now()); err != nil {
			d.logger.Warn().Err(err).Msg("workflow: dcm upload: pcap clear failed")
		}
	}
	return nil
}

func (d *dcm) cleanup(rc *runtimectx.RuntimeContext, sess *runtimectx.Session, uploadSucceeded bool) error {
	if uploadSucceeded {
		os.Remove(sess.ArchivePath)
	}
	return os.RemoveAll(rc.Paths.DCMBatchDir)
}
