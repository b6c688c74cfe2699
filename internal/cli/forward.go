package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/voxclip/voxclip/internal/ipc"
	"github.com/voxclip/voxclip/internal/session"
)

// tryForward sends command to a running session. handled is false when no
// session owns the socket.
func tryForward(ctx context.Context, command string) (ipc.Response, bool, error) {
	resp, err := ipc.Send(ctx, ipc.SocketPath(), ipc.Request{Command: command}, forwardTimeout)
	if err == nil {
		if resp.OK {
			return resp, true, nil
		}
		return resp, true, errors.New(resp.Error)
	}
	if errors.Is(err, os.ErrNotExist) || errors.Is(err, syscall.ECONNREFUSED) {
		return ipc.Response{}, false, nil
	}
	return ipc.Response{}, true, fmt.Errorf("forward %q: %w", command, err)
}

// forwardOrFail requires a running session to accept the command.
func (a *app) forwardOrFail(ctx context.Context, command string) error {
	resp, handled, err := tryForward(ctx, command)
	if !handled {
		return errors.New("no active voxclip session")
	}
	if err != nil {
		return err
	}
	if resp.Message != "" {
		fmt.Fprintln(a.stdout, resp.Message)
	}
	return nil
}

func newStopCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the active recording and transcribe it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.forwardOrFail(cmd.Context(), ipc.CommandStop)
		},
	}
}

func newCancelCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "cancel",
		Short: "Discard the active recording without transcribing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.forwardOrFail(cmd.Context(), ipc.CommandCancel)
		},
	}
}

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Print the state of the active session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			resp, handled, err := tryForward(cmd.Context(), ipc.CommandStatus)
			if handled && err == nil && resp.State != "" {
				fmt.Fprintln(a.stdout, resp.State)
				return nil
			}
			fmt.Fprintln(a.stdout, string(session.StateIdle))
			return nil
		},
	}
}
