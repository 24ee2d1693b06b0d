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

// Command loguploadnow is the externally-triggered "UploadLogsNow"
// path: it timestamp-marks the live main log directory in place
// (skipping reboot.log and ABLReason.txt), then runs the OnDemand
// workflow, which copies the matching files into its temp dir and
// archives them from there. It reports progress through the
// well-known status sidecar (spec.md §6) so the external trigger can
// poll it.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/rdkcentral/stb-logupload-agent/internal/bootstrap"
	"github.com/rdkcentral/stb-logupload-agent/internal/config"
	"github.com/rdkcentral/stb-logupload-agent/internal/finalize"
	"github.com/rdkcentral/stb-logupload-agent/internal/logging"
	"github.com/rdkcentral/stb-logupload-agent/internal/runtimectx"
	"github.com/rdkcentral/stb-logupload-agent/internal/status"
	"github.com/rdkcentral/stb-logupload-agent/internal/telemetry"
	"github.com/rdkcentral/stb-logupload-agent/internal/tsmark"
	"github.com/rdkcentral/stb-logupload-agent/internal/uploadpipe"
	"github.com/rdkcentral/stb-logupload-agent/internal/workflow"
)

// excludedFromMark are the files the UploadLogsNow timestamp-mark
// step skips, per spec.md §9 open question 2.
var excludedFromMark = []string{"reboot.log", "ABLReason.txt"}

func main() {
	os.Exit(run())
}

func run() int {
	fs := pflag.NewFlagSet("loguploadnow", pflag.ExitOnError)
	overrides := config.RegisterFlags(fs)
	if err := fs.Parse(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "loguploadnow: parsing flags:", err)
		return 1
	}

	logger, err := logging.New(os.Stderr, overrides.LogFormat, overrides.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, "loguploadnow: building logger:", err)
		return 1
	}

	statusWriter := status.Writer{}
	statusWriter.Write(status.Triggered, time.Now())

	cfg, err := config.Loader{Store: config.EnvParameterStore{}}.Load()
	if err != nil {
		logger.Error().Err(err).Msg("loading configuration")
		statusWriter.Write(status.Failed, time.Now())
		return 1
	}
	cfg = overrides.Apply(cfg)

	os.Setenv("STBLOGUPLOAD_TRIGGER_TYPE", "5")
	rc := bootstrap.RuntimeContext(cfg)

	telem := telemetry.NopSink{}
	uploader, err := bootstrap.Uploader(rc, telem, logger)
	if err != nil {
		logger.Error().Err(err).Msg("building uploader")
		statusWriter.Write(status.Failed, time.Now())
		return 1
	}

	marker := &tsmark.Marker{}
	if err := marker.Mark(rc.Paths.MainLogDir, time.Now(), excludedFromMark...); err != nil {
		logger.Error().Err(err).Msg("marking main log dir failed")
		statusWriter.Write(status.Failed, time.Now())
		return 1
	}
	defer func() {
		if err := marker.Unmark(rc.Paths.MainLogDir); err != nil {
			logger.Warn().Err(err).Msg("unmarking main log dir failed")
		}
	}()

	statusWriter.Write(status.InProgress, time.Now())

	sess := &runtimectx.Session{
		Strategy: runtimectx.StrategyOnDemand,
		Primary:  runtimectx.ChannelDirect,
		Fallback: runtimectx.ChannelCodeBig,
	}
	runErr := workflow.OnDemand(workflow.RealClock{}, uploader, telem, logger).Run(rc, sess)

	now := time.Now()
	if ferr := finalize.FinalizeCoalesced(sess, finalize.MarkerPaths{}, uploadpipe.DefaultSidecarPath, now); ferr != nil {
		logger.Warn().Err(ferr).Msg("finalize: marker update failed")
	}

	if runErr != nil || !sess.Success {
		statusWriter.Write(status.Failed, now)
		return 1
	}
	statusWriter.Write(status.Complete, now)
	return 0
}
