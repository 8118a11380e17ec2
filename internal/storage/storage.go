// Package storage copies artifacts to and from the object storage
// bucket by shelling out to gsutil, which handles credentials and
// resumable transfers on the CI agents.
package storage

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// runCommand is swappable in tests.
var runCommand = func(cmd *exec.Cmd) ([]byte, error) { return cmd.CombinedOutput() }

// Client invokes gsutil for bucket transfers.
type Client struct {
	// GsutilPath overrides the gsutil binary looked up on PATH.
	GsutilPath string
}

func (c *Client) gsutil() string {
	if c.GsutilPath != "" {
		return c.GsutilPath
	}
	return "gsutil"
}

// Dest builds a gs:// destination from a bucket and path parts.
func Dest(bucket string, parts ...string) string {
	return "gs://" + bucket + "/" + strings.Join(parts, "/")
}

// Copy copies a single object.
func (c *Client) Copy(ctx context.Context, src, dst string) error {
	return c.run(ctx, "cp", src, dst)
}

// CopyTree copies a directory tree with parallel transfers.
func (c *Client) CopyTree(ctx context.Context, src, dst string) error {
	return c.run(ctx, "-m", "cp", "-r", src, dst)
}

func (c *Client) run(ctx context.Context, args ...string) error {
	cmd := exec.CommandContext(ctx, c.gsutil(), args...)
	out, err := runCommand(cmd)
	if err != nil {
		return fmt.Errorf("gsutil %s: %w: %s", strings.Join(args, " "), err, strings.TrimSpace(string(out)))
	}
	return nil
}

// CopyTreeCommand returns the gsutil invocation for copying a tree, as
// a single shell command line. Pipeline steps embed this rather than
// executing it locally.
func CopyTreeCommand(src, dst string) string {
	return strings.Join([]string{"gsutil", "-m", "cp", "-r", src, dst}, " ")
}

// CopyCommand returns the gsutil invocation for a single-object copy.
func CopyCommand(src, dst string) string {
	return strings.Join([]string{"gsutil", "cp", src, dst}, " ")
}
