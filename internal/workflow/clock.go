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

import "time"

// Clock and Sleeper are injected so the three fixed sleeps in
// spec.md §4.2.2/§4.2.3/§5 (330s uptime quiesce, 60s post-archive
// settle, 5s pre-cleanup settle) can be faked out in tests without
// the test suite actually blocking for minutes.
type Clock interface {
	Now() time.Time
}

type Sleeper interface {
	Sleep(d time.Duration)
}

// RealClock and RealSleeper are the production implementations.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

type RealSleeper struct{}

func (RealSleeper) Sleep(d time.Duration) { time.Sleep(d) }

// Fixed sleep durations, spec.md §4.2.2/§4.2.3/§5.
const (
	UptimeQuiesceSleep    = 330 * time.Second
	PostArchiveSleep      = 60 * time.Second
	PreCleanupSleep       = 5 * time.Second
	UptimeQuiesceThreshold = 900 * time.Second
)
