package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/deepself/deepself-cli/cmd"
)

func main() {
	// A .env file never overrides variables already set
	_ = godotenv.Load()

	// Set up signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "\nInterrupting...")
		cancel()
		// Second signal forces exit
		<-sigChan
		fmt.Fprintln(os.Stderr, "\nForce exiting...")
		os.Exit(1)
	}()

	code := cmd.Run(ctx, os.Args[1:], cmd.StdEnv())
	cancel()
	os.Exit(code)
}
