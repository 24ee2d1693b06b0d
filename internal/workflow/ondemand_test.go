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
	"time"

	"github.com/rs/zerolog"

	"github.com/rdkcentral/stb-logupload-agent/internal/runtimectx"
	"github.com/rdkcentral/stb-logupload-agent/internal/telemetry"
)

func newOnDemand() *onDemand {
	return &onDemand{
		clock:     fakeClock{now: time.Date(2026, 7, 29, 14, 30, 0, 0, time.UTC)},
		telemetry: telemetry.NopSink{},
		logger:    zerolog.Nop(),
	}
}

func resetOnDemandScratch(t *testing.T) {
	t.Helper()
	os.RemoveAll(OnDemandTempDir)
	os.Remove(OnDemandJournalPath)
	t.Cleanup(func() {
		os.RemoveAll(OnDemandTempDir)
		os.Remove(OnDemandJournalPath)
	})
}

func TestOnDemandSetupFailsWhenNoMatchingFiles(t *testing.T) {
	resetOnDemandScratch(t)
	od := newOnDemand()
	rc := &runtimectx.RuntimeContext{Paths: runtimectx.Paths{MainLogDir: t.TempDir()}}
	sess := &runtimectx.Session{}

	if err := od.setup(rc, sess); err == nil {
		t.Fatal("setup() = nil error, want error for empty log dir")
	}
}

func TestOnDemandSetupCollectsFilesAndBuildsJournal(t *testing.T) {
	resetOnDemandScratch(t)
	od := newOnDemand()
	mainDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(mainDir, "app.log"), []byte("x"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	rc := &runtimectx.RuntimeContext{
		Identity: runtimectx.Identity{MAC: "AA:BB:CC:DD:EE:FF"},
		Paths:    runtimectx.Paths{MainLogDir: mainDir},
	}
	sess := &runtimectx.Session{}

	if err := od.setup(rc, sess); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if sess.ArchiveFileName == "" {
		t.Fatal("setup did not set ArchiveFileName")
	}
	if _, err := os.Stat(filepath.Join(OnDemandTempDir, "app.log")); err != nil {
		t.Errorf("app.log not collected into scratch dir: %v", err)
	}
	if _, err := os.Stat(OnDemandJournalPath); err != nil {
		t.Errorf("lastlog_path journal not written: %v", err)
	}
}

func TestOnDemandArchiveAndCleanup(t *testing.T) {
	resetOnDemandScratch(t)
	od := newOnDemand()
	mainDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(mainDir, "app.log"), []byte("hello"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	tempDir := t.TempDir()
	rc := &runtimectx.RuntimeContext{
		Identity: runtimectx.Identity{MAC: "AA:BB:CC:DD:EE:FF"},
		Paths:    runtimectx.Paths{MainLogDir: mainDir, TempDir: tempDir},
	}
	sess := &runtimectx.Session{}

	if err := od.setup(rc, sess); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := od.archive(rc, sess); err != nil {
		t.Fatalf("archive: %v", err)
	}
	if _, err := os.Stat(sess.ArchivePath); err != nil {
		t.Fatalf("archive file not created: %v", err)
	}

	if err := od.cleanup(rc, sess, true); err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	if _, err := os.Stat(OnDemandTempDir); !os.IsNotExist(err) {
		t.Errorf("cleanup did not remove scratch dir, stat err = %v", err)
	}
}

func TestOnDemandUploadSkippedWhenFlagOff(t *testing.T) {
	resetOnDemandScratch(t)
	od := newOnDemand()
	rc := &runtimectx.RuntimeContext{Flags: runtimectx.Flags{Flag: false}}
	sess := &runtimectx.Session{Success: true}

	if err := od.upload(rc, sess); err != nil {
		t.Fatalf("upload: %v", err)
	}
	if sess.Success {
		t.Error("upload() left Success = true with Flag disabled, want false")
	}
}
