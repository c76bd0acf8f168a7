// Package profile runs the optional runtime profiler of the rtm command.
//
// Profiling is compiled in only with the "pprof" build tag:
//
//	go build -tags pprof .
//	rtm --pprof-mode cpu lint withdraw.rtm
//	go tool pprof -http=: ~/.cache/rtm/pprof/cpu.pprof
//
// Without the tag [Modes] is empty and [Profiler.Start] does nothing, so
// callers never need to check [Enabled].
package profile
