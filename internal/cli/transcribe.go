package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/voxclip/voxclip/internal/media"
	"github.com/voxclip/voxclip/internal/output"
)

func newTranscribeCmd(a *app) *cobra.Command {
	var noClipboard bool

	cmd := &cobra.Command{
		Use:   "transcribe <audio-file>",
		Short: "Transcribe an existing audio file",
		Long: `Transcribe runs an audio file through the same probe, split, and stitch
pipeline as live dictation, prints the transcript, and copies it to the
clipboard.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(); err != nil {
				return err
			}
			defer a.teardown()
			return a.runTranscribe(cmd, args[0], noClipboard)
		},
	}

	cmd.Flags().BoolVar(&noClipboard, "no-clipboard", false, "print the transcript without copying it")
	return cmd
}

func (a *app) runTranscribe(cmd *cobra.Command, path string, noClipboard bool) error {
	// The pipeline deletes the asset it is given, so it runs on a copy and
	// the user's file is left alone.
	asset, err := copyToTemp(path)
	if err != nil {
		return err
	}

	result, err := a.buildRunner(a.notifier()).Run(cmd.Context(), asset)
	if err != nil {
		return err
	}

	text := strings.TrimSpace(result.Text)
	fmt.Fprintln(a.stdout, text)

	if !noClipboard {
		committer := output.NewCommitter(a.loaded.Config, a.logger)
		if err := committer.Commit(cmd.Context(), text); err != nil {
			return err
		}
	}
	return nil
}

func copyToTemp(path string) (media.Asset, error) {
	src, err := os.Open(path)
	if err != nil {
		return media.Asset{}, fmt.Errorf("open audio file: %w", err)
	}
	defer src.Close()

	dst, err := os.CreateTemp("", "voxclip-in-*"+filepath.Ext(path))
	if err != nil {
		return media.Asset{}, fmt.Errorf("create temp copy: %w", err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(dst.Name())
		return media.Asset{}, fmt.Errorf("copy audio file: %w", err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(dst.Name())
		return media.Asset{}, err
	}
	return media.Asset{Path: dst.Name()}, nil
}
