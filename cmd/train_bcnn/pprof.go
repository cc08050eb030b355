package main

import "os"
import "runtime/pprof"
import "sync"

import "github.com/apex/log"

// startProfile collects CPU profile data into name until the returned
// function is called. The returned function may be called more than once.
func startProfile(name string) func() {
	f, err := os.Create(name)
	if err != nil {
		log.WithError(err).Warn("cannot create " + name)
		return func() {}
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		log.WithError(err).Warn("cannot start profile")
		f.Close()
		return func() {}
	}
	var once sync.Once
	return func() {
		once.Do(func() {
			pprof.StopCPUProfile()
			if err := f.Close(); err != nil {
				log.WithError(err).Warn("cannot close " + name)
			}
		})
	}
}
