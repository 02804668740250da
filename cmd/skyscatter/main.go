package main

import (
	"os"
	"runtime/pprof"
)

func main() {
	profile := os.Getenv("PROFILE") != ""
	if profile {
		f, err := os.Create("cpu.out")
		if err != nil {
			panic(err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			panic(err)
		}
		defer func() {
			pprof.StopCPUProfile()
			_ = f.Close()
		}()
	}

	if err := Execute(); err != nil {
		pprof.StopCPUProfile()
		os.Exit(1)
	}
}
