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
	"time"

	"golang.org/x/sys/unix"
)

// UptimeReader reports how long the device has been up, for the
// Reboot/NonDcm setup phase's quiesce check (spec.md §4.2.2).
type UptimeReader interface {
	Uptime() (time.Duration, error)
}

// SysinfoUptimeReader reads uptime via the Linux sysinfo() syscall,
// the same call the set-top box's underlying kernel exposes, through
// golang.org/x/sys/unix since no pure-Go stdlib call exposes it.
type SysinfoUptimeReader struct{}

func (SysinfoUptimeReader) Uptime() (time.Duration, error) {
	var info unix.Sysinfo_t
	if err := unix.Sysinfo(&info); err != nil {
		return 0, err
	}
	return time.Duration(info.Uptime) * time.Second, nil
}
