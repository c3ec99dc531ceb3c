package main

import (
	"flag"
	"io"
)

type cmdArgs struct {
	fs        *flag.FlagSet
	help      bool
	Clients   uint
	Requests  uint
	NodeSize  uint
	BlockSize uint
	Tests     string
	Loop      bool
}

func newCmdArgs(output io.Writer) (ca *cmdArgs) {
	ca = &cmdArgs{
		fs: flag.NewFlagSet("poolbench", flag.ContinueOnError),
	}
	ca.fs.SetOutput(output)
	ca.fs.BoolVar(&ca.help, "-help", false, "Shows usage")
	ca.fs.UintVar(&ca.Clients, "c", 8, "Number of goroutines hammering the pool concurrently")
	ca.fs.UintVar(&ca.Requests, "n", 1000000, "Total number of allocate/deallocate pairs per goroutine")
	ca.fs.UintVar(&ca.NodeSize, "sz", 64, "Node size in bytes")
	ca.fs.UintVar(&ca.BlockSize, "bsz", 1<<20, "Initial arena block size in bytes")
	ca.fs.StringVar(&ca.Tests, "t", "churn,fill", "Comma separated list of tests: churn, fill")
	ca.fs.BoolVar(&ca.Loop, "l", false, "Loop. Run the tests forever")
	return
}

func (ca *cmdArgs) Parse(arguments []string) (err error) {
	err = ca.fs.Parse(arguments)
	return
}
