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

// Package collector is the log collector (C4): it decides which
// files count as "logs" for the purposes of strategy selection and
// archiving, and it age-sweeps stale PCAPs and permanent-backup
// directories. It owns no upload or workflow logic.
package collector

import (
	"time"

	"github.com/rdkcentral/stb-logupload-agent/internal/fsutil"
)

// LogPatterns are the glob patterns that count as "logs" for the
// purposes of the NoLogs/setup checks in spec.md §4.1 and §4.2.
var LogPatterns = []string{"*.txt", "*.log"}

// OnDemandPatterns additionally match files already carrying an
// extension suffix (e.g. "foo.log.1", "bar.txt.gz"), per spec.md
// §4.2.1's "every `*.txt*` and `*.log*` file".
var OnDemandPatterns = []string{"*.txt*", "*.log*"}

const pcapPattern = "*.pcap"

// PermanentBackupPattern matches REBOOT's per-boot permanent-backup
// directories, named "<MM-DD-YY-HH-MMAM/PM>-logbackup" (spec.md §6).
const PermanentBackupPattern = "*-*-*-*-*M-logbackup"

// PermanentBackupAgeLimit is how old a permanent-backup directory
// must be before the next REBOOT invocation sweeps it (spec.md §4.2.2).
const PermanentBackupAgeLimit = 3 * 24 * time.Hour

// HasLogs reports whether dir contains at least one file matching
// LogPatterns. A missing dir is not an error here; callers decide how
// to react to "missing" vs "empty".
func HasLogs(dir string) (bool, error) {
	return fsutil.HasAny(dir, LogPatterns...)
}

// CollectForOnDemand copies every OnDemandPatterns-matching file from
// srcDir into dstDir (spec.md §4.2.1), returning the copied basenames.
func CollectForOnDemand(srcDir, dstDir string) ([]string, error) {
	return fsutil.CopyMatching(srcDir, dstDir, OnDemandPatterns...)
}

// MostRecentPCAP returns the basename of the most recently modified
// *.pcap file in dir, or "" if none exist.
func MostRecentPCAP(dir string) (string, error) {
	return fsutil.MostRecentlyModified(dir, pcapPattern)
}

// ClearPCAPs removes every *.pcap file directly inside dir,
// unconditionally (the original script's clear_old_packet_captures
// has no age check: it runs once per upload and removes everything
// already collected). Only called for mediaclient devices with
// include-pcap enabled (spec.md §4.2.2, §4.2.3).
func ClearPCAPs(dir string, now time.Time) ([]string, error) {
	return fsutil.SweepOlderThan(dir, pcapPattern, 0, now)
}

// SweepOldPermanentBackups removes permanent-backup directories under
// mainLogDir older than PermanentBackupAgeLimit (spec.md §4.2.2: "such
// directories are themselves age-swept (>3 days) on the next REBOOT
// invocation").
func SweepOldPermanentBackups(mainLogDir string, now time.Time) ([]string, error) {
	return fsutil.SweepOlderThan(mainLogDir, PermanentBackupPattern, PermanentBackupAgeLimit, now)
}
