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

// Command loguploader is the agent's main entry point: one process,
// one invocation, one strategy (spec.md §1, §5).
package main

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/rdkcentral/stb-logupload-agent/internal/bootstrap"
	"github.com/rdkcentral/stb-logupload-agent/internal/config"
	"github.com/rdkcentral/stb-logupload-agent/internal/finalize"
	"github.com/rdkcentral/stb-logupload-agent/internal/logging"
	"github.com/rdkcentral/stb-logupload-agent/internal/runtimectx"
	"github.com/rdkcentral/stb-logupload-agent/internal/strategy"
	"github.com/rdkcentral/stb-logupload-agent/internal/telemetry"
	"github.com/rdkcentral/stb-logupload-agent/internal/uploadpipe"
	"github.com/rdkcentral/stb-logupload-agent/internal/workflow"
)

const (
	exitSuccess = 0
	exitFailure = 1
)

func main() {
	os.Exit(run())
}

func run() int {
	fs := pflag.NewFlagSet("loguploader", pflag.ExitOnError)
	overrides := config.RegisterFlags(fs)
	if err := fs.Parse(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "loguploader: parsing flags:", err)
		return exitFailure
	}

	logger, err := logging.New(os.Stderr, overrides.LogFormat, overrides.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, "loguploader: building logger:", err)
		return exitFailure
	}
	invocationID := newInvocationID()

	cfg, err := config.Loader{Store: config.EnvParameterStore{}}.Load()
	if err != nil {
		logger.Error().Err(err).Msg("loading configuration")
		return exitFailure
	}
	cfg = overrides.Apply(cfg)

	rc := bootstrap.RuntimeContext(cfg)
	if overrides.TriggerType != 0 {
		rc.Flags.TriggerType = overrides.TriggerType
	}
	logger = logging.WithInvocation(logger, invocationID, rc.Identity.MAC)

	telem := buildTelemetrySink(os.Getenv("STBLOGUPLOAD_PROMETHEUS_ENABLE") == "true")

	chosen, err := strategy.Select(rc)
	if err != nil {
		logger.Error().Err(err).Msg("strategy selection failed")
		return exitFailure
	}
	logger.Info().Str("strategy", chosen.String()).Msg("strategy selected")

	directMarker := finalize.DefaultDirectMarkerPath
	codebigMarker := finalize.DefaultCodeBigMarkerPath
	now := time.Now()
	primary, fallback := strategy.SelectChannels(rc,
		finalize.ReadMarkerTime(directMarker),
		finalize.ReadMarkerTime(codebigMarker),
		now,
	)

	sess := &runtimectx.Session{Strategy: chosen, Primary: primary, Fallback: fallback}

	uploader, err := bootstrap.Uploader(rc, telem, logger)
	if err != nil {
		logger.Error().Err(err).Msg("building uploader")
		return exitFailure
	}

	runErr := dispatch(chosen, rc, sess, uploader, telem, logger)

	if sess.Strategy.UsesWorkflowEngine() || sess.Strategy == runtimectx.StrategyRRD {
		if ferr := finalize.FinalizeCoalesced(sess, finalize.MarkerPaths{Direct: directMarker, CodeBig: codebigMarker}, uploadpipe.DefaultSidecarPath, now); ferr != nil {
			logger.Warn().Err(ferr).Msg("finalize: marker update failed")
		}
	}

	if runErr != nil {
		logger.Error().Err(runErr).Msg("invocation failed")
		return exitFailure
	}
	if chosen.UsesWorkflowEngine() && !sess.Success {
		return exitFailure
	}
	return exitSuccess
}

// dispatch routes to the short-circuit paths (spec.md §4.2.4) or the
// four-phase engine, per the selected strategy.
func dispatch(chosen runtimectx.Strategy, rc *runtimectx.RuntimeContext, sess *runtimectx.Session, uploader *workflow.Uploader, telem telemetry.Sink, logger zerolog.Logger) error {
	switch chosen {
	case runtimectx.StrategyRRD:
		return workflow.RunRRD(rc, sess, uploader, logger)
	case runtimectx.StrategyPrivacyAbort:
		workflow.RunPrivacyAbort(telem)
		return nil
	case runtimectx.StrategyNoLogs:
		workflow.RunNoLogs(telem)
		return nil
	case runtimectx.StrategyOnDemand:
		return workflow.OnDemand(workflow.RealClock{}, uploader, telem, logger).Run(rc, sess)
	case runtimectx.StrategyReboot, runtimectx.StrategyNonDcm:
		reasonChecker := workflow.FileRebootReasonChecker{Path: rc.Paths.PrevBootBackupDir + "/reboot_reason.txt"}
		return workflow.Reboot(workflow.RealClock{}, workflow.RealSleeper{}, workflow.SysinfoUptimeReader{}, reasonChecker, uploader, telem, logger).Run(rc, sess)
	case runtimectx.StrategyDcm:
		return workflow.Dcm(workflow.RealClock{}, workflow.RealSleeper{}, uploader, telem, logger).Run(rc, sess)
	default:
		return fmt.Errorf("loguploader: unknown strategy %s", chosen)
	}
}

func buildTelemetrySink(prometheusEnabled bool) telemetry.Sink {
	if !prometheusEnabled {
		return telemetry.NopSink{}
	}
	return telemetry.NewPrometheusSink(prometheus.DefaultRegisterer)
}

// newInvocationID derives a short, process-unique id from the current
// time, avoiding a UUID dependency the teacher never imports.
func newInvocationID() string {
	sum := sha1.Sum([]byte(time.Now().Format(time.RFC3339Nano)))
	return hex.EncodeToString(sum[:])[:12]
}
