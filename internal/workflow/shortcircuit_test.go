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
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/rdkcentral/stb-logupload-agent/internal/runtimectx"
	"github.com/rdkcentral/stb-logupload-agent/internal/telemetry"
)

func TestRunRRDFailsWhenArchiveMissing(t *testing.T) {
	rc := &runtimectx.RuntimeContext{Paths: runtimectx.Paths{RRDArchivePath: filepath.Join(t.TempDir(), "missing.tgz")}}
	sess := &runtimectx.Session{Primary: runtimectx.ChannelDirect}
	u := &Uploader{RetryPolicy: runtimectx.DefaultRetryPolicy(), Logger: zerolog.Nop()}

	if err := RunRRD(rc, sess, u, zerolog.Nop()); err == nil {
		t.Fatal("RunRRD() = nil error, want error for missing pre-built archive")
	}
}

func TestRunRRDSkipsUploadWhenNoChannelAvailable(t *testing.T) {
	dir := t.TempDir()
	archivePath := filepath.Join(dir, "remote-debug.tgz")
	if err := os.WriteFile(archivePath, []byte("x"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	rc := &runtimectx.RuntimeContext{Paths: runtimectx.Paths{RRDArchivePath: archivePath}}
	sess := &runtimectx.Session{Primary: runtimectx.ChannelNone}
	u := &Uploader{RetryPolicy: runtimectx.DefaultRetryPolicy(), Logger: zerolog.Nop()}

	if err := RunRRD(rc, sess, u, zerolog.Nop()); err != nil {
		t.Fatalf("RunRRD: %v", err)
	}
	if sess.Success {
		t.Error("RunRRD() left Success = true with no channel available, want false")
	}
	if sess.ArchiveFileName != "remote-debug.tgz" {
		t.Errorf("ArchiveFileName = %q, want %q", sess.ArchiveFileName, "remote-debug.tgz")
	}
}

func TestRunPrivacyAbortEmitsTelemetryOnly(t *testing.T) {
	telem := &fakeTelemetry{}
	RunPrivacyAbort(telem)
	if !telem.has(telemetry.EventPrivacyOptOut) {
		t.Errorf("counts = %v, want it to include %s", telem.counts, telemetry.EventPrivacyOptOut)
	}
}

func TestRunPrivacyAbortToleratesNilSink(t *testing.T) {
	RunPrivacyAbort(nil)
}

func TestRunNoLogsEmitsTelemetryOnly(t *testing.T) {
	telem := &fakeTelemetry{}
	RunNoLogs(telem)
	if !telem.has(telemetry.EventNoLogsReboot) {
		t.Errorf("counts = %v, want it to include %s", telem.counts, telemetry.EventNoLogsReboot)
	}
}

