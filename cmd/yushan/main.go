package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/maugus0/yushan-platform-frontend-sub001/internal/cli"
	apierrors "github.com/maugus0/yushan-platform-frontend-sub001/internal/errors"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := cli.NewRootCommand().ExecuteContext(ctx)
	stop()
	if err == nil {
		return
	}
	// backend failures already carry a user-facing message
	if apiErr, ok := apierrors.As(err); ok {
		fmt.Fprintln(os.Stderr, "Error:", apiErr.Message)
	} else {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	os.Exit(1)
}
