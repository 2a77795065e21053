// Package prof wraps runtime profiling for CLI runs on large decks.
package prof

import (
	"os"
	"runtime"
	"runtime/pprof"
)

// Session owns the files behind an active profiling run.
type Session struct {
	cpuFile *os.File
}

// StartCPU enables CPU profiling and writes samples to the provided
// path. Stop must be called to flush the profile.
func StartCPU(path string) (*Session, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		_ = f.Close()
		return nil, err
	}
	return &Session{cpuFile: f}, nil
}

// Stop ends the CPU profile and closes the underlying file.
func (s *Session) Stop() {
	if s == nil {
		return
	}
	pprof.StopCPUProfile()
	if s.cpuFile != nil {
		_ = s.cpuFile.Close()
		s.cpuFile = nil
	}
}

// WriteHeap captures a heap profile to the supplied file path.
func WriteHeap(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			panic(closeErr)
		}
	}()
	runtime.GC()
	return pprof.WriteHeapProfile(f)
}
