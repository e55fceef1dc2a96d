package main

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"runtime/debug"
)

// printBuildInfo will print the module version and a hash of the running
// executable so two builds can be told apart
func printBuildInfo(w io.Writer) {
	version := "(devel)"
	if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" {
		version = bi.Main.Version
	}
	fmt.Fprintf(w, "icefunprog %s\n", version)

	exe, err := os.Executable()
	if err != nil {
		fmt.Fprintf(w, "Build hash: [[ unknown: %v ]]\n\n", err)
		return
	}
	sum, err := fileMD5(exe)
	if err != nil {
		fmt.Fprintf(w, "Build hash (%s): [[ %v ]]\n\n", exe, err)
		return
	}
	fmt.Fprintf(w, "Build hash (%s): %s\n\n", exe, sum)
}

func fileMD5(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := md5.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
