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

// Package bootstrap builds the shared runtime wiring both cmd/
// entry points need: a RuntimeContext from process-level inputs, and
// an Uploader with its transports. Kept out of cmd/ so
// cmd/loguploader and cmd/loguploadnow do not duplicate it.
package bootstrap

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"

	"github.com/rdkcentral/stb-logupload-agent/internal/config"
	"github.com/rdkcentral/stb-logupload-agent/internal/runtimectx"
	"github.com/rdkcentral/stb-logupload-agent/internal/telemetry"
	"github.com/rdkcentral/stb-logupload-agent/internal/uploadpipe"
	"github.com/rdkcentral/stb-logupload-agent/internal/workflow"
)

// RuntimeContext builds the immutable per-invocation configuration
// from cfg plus the process environment (spec.md §6's process-level
// inputs not covered by the TR-181-style ParameterStore, e.g. device
// identity).
func RuntimeContext(cfg config.RuntimeConfig) *runtimectx.RuntimeContext {
	mac := os.Getenv("STBLOGUPLOAD_MAC")
	if mac == "" {
		mac = "00:00:00:00:00:00"
	}
	deviceType := os.Getenv("STBLOGUPLOAD_DEVICE_TYPE")

	return &runtimectx.RuntimeContext{
		Identity: runtimectx.Identity{MAC: mac, DeviceType: deviceType, BuildType: os.Getenv("STBLOGUPLOAD_BUILD_TYPE")},
		Paths: runtimectx.Paths{
			MainLogDir:        cfg.MainLogDir,
			PrevBootLogDir:    os.Getenv("STBLOGUPLOAD_PREV_BOOT_LOG_DIR"),
			PrevBootBackupDir: os.Getenv("STBLOGUPLOAD_PREV_BOOT_BACKUP_DIR"),
			DCMBatchDir:       cfg.DCMLogDir,
			DCMSettingsFile:   os.Getenv("STBLOGUPLOAD_DCM_SETTINGS_FILE"),
			DRILogDir:         cfg.DRILogDir,
			TelemetryDir:      os.Getenv("STBLOGUPLOAD_TELEMETRY_DIR"),
			TempDir:           os.TempDir(),
			CertDir:           os.Getenv("STBLOGUPLOAD_CERT_DIR"),
			RRDArchivePath:    os.Getenv("STBLOGUPLOAD_RRD_ARCHIVE_PATH"),
		},
		Endpoints: runtimectx.Endpoints{
			UploadURL:       cfg.UploadURL,
			ProxyBucketHost: os.Getenv("STBLOGUPLOAD_PROXY_BUCKET_HOST"),
		},
		Flags: runtimectx.Flags{
			RRD:            os.Getenv("STBLOGUPLOAD_RRD_FLAG") == "true",
			DCM:            os.Getenv("STBLOGUPLOAD_DCM_FLAG") == "true",
			Flag:           os.Getenv("STBLOGUPLOAD_FLAG") == "true",
			UploadOnReboot: os.Getenv("STBLOGUPLOAD_UPLOAD_ON_REBOOT") == "true",
			TriggerType:    triggerTypeFromEnv(),
		},
		Settings: runtimectx.Settings{
			PrivacyOptOut:                     os.Getenv("STBLOGUPLOAD_PRIVACY_OPTOUT") == "true",
			OCSPEnabled:                       cfg.OCSPEnabled,
			EncryptCloudUpload:                cfg.EncryptUpload,
			IncludePCAP:                       os.Getenv("STBLOGUPLOAD_INCLUDE_PCAP") == "true",
			IncludeDRI:                        os.Getenv("STBLOGUPLOAD_INCLUDE_DRI") == "true",
			TLSEnabled:                        true,
			UploadOnUnscheduledRebootDisabled: cfg.DisableUnsched,
		},
		Retry: runtimectx.DefaultRetryPolicy(),
	}
}

func triggerTypeFromEnv() int {
	if os.Getenv("STBLOGUPLOAD_TRIGGER_TYPE") == "5" {
		return runtimectx.TriggerTypeOnDemand
	}
	return 0
}

// Uploader builds the C8/C9 uploader, wiring Direct (mTLS), CodeBig
// (OAuth bearer), and the proxy-fallback transport.
func Uploader(rc *runtimectx.RuntimeContext, telem telemetry.Sink, logger zerolog.Logger) (*workflow.Uploader, error) {
	certs := uploadpipe.CertConfig{
		CertFile: rc.Paths.CertDir + "/client.crt",
		KeyFile:  rc.Paths.CertDir + "/client.key",
		CAFile:   rc.Paths.CertDir + "/ca.crt",
	}

	directClient, err := uploadpipe.NewDirectTransport(certs, rc.Settings.OCSPEnabled, rc.Retry.HTTPTimeout, rc.Retry.TLSHandshakeTimeout)
	if err != nil {
		return nil, fmt.Errorf("building direct transport: %w", err)
	}
	proxyClient, err := uploadpipe.NewProxyFallbackTransport(certs, rc.Retry.HTTPTimeout, rc.Retry.TLSHandshakeTimeout)
	if err != nil {
		return nil, fmt.Errorf("building proxy transport: %w", err)
	}

	tokenSource := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: os.Getenv("STBLOGUPLOAD_CODEBIG_TOKEN")})
	codeBigClient := uploadpipe.NewCodeBigTransport(tokenSource, rc.Retry.HTTPTimeout, rc.Retry.TLSHandshakeTimeout)

	pipeline := &uploadpipe.Pipeline{
		UploadURL:       rc.Endpoints.UploadURL,
		ProxyBucketHost: rc.Endpoints.ProxyBucketHost,
		ProxyTransport:  uploadpipe.WrapHTTPClient(proxyClient),
		Telemetry:       telem,
		Logger:          logger,
	}

	return &workflow.Uploader{
		Pipeline:         pipeline,
		DirectTransport:  uploadpipe.WrapHTTPClient(directClient),
		CodeBigTransport: uploadpipe.WrapHTTPClient(codeBigClient),
		RetryPolicy:      rc.Retry,
		Telemetry:        telem,
		Logger:           logger,
	}, nil
}
