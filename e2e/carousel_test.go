//go:build e2e && unix

package main

import (
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func startCarousel(t *testing.T, cols, rows, items int, args ...string) *TUITestFramework {
	t.Helper()
	tf := NewTUITest(t)
	t.Cleanup(tf.Cleanup)

	_, err := tf.CreateTestWorkspace()
	require.NoError(t, err, "Failed to create test workspace")
	cfgPath, err := tf.WriteConfig(items, "")
	require.NoError(t, err, "Failed to write config")

	err = tf.StartApp(cols, rows, append(args, "--config", cfgPath)...)
	require.NoError(t, err, "Failed to start app")
	return tf
}

func TestHelpCommand(t *testing.T) {
	t.Parallel()

	out, err := exec.Command(binPath, "--help").CombinedOutput()
	require.NoError(t, err, "Help command should run without error")

	output := string(out)
	require.Contains(t, output, "Usage")
	require.Contains(t, output, "frames")
	require.Contains(t, output, "--config")
}

func TestVersionCommand(t *testing.T) {
	t.Parallel()

	out, err := exec.Command(binPath, "version").CombinedOutput()
	require.NoError(t, err)
	require.Equal(t, "carousel version "+e2eVersion+"\n", string(out))
}

func TestFramesCommand(t *testing.T) {
	t.Parallel()
	tf := NewTUITest(t)
	defer tf.Cleanup()

	_, err := tf.CreateTestWorkspace()
	require.NoError(t, err)
	cfgPath, err := tf.WriteConfig(8, "")
	require.NoError(t, err)

	out, err := exec.Command(binPath, "frames", "--no-pager", "--width", "100", "--config", cfgPath).CombinedOutput()
	require.NoError(t, err, string(out))

	output := ansiRe.ReplaceAllString(string(out), "")
	require.Contains(t, output, "window 1/6")
	require.Contains(t, output, "window 6/6  items 6-8 of 8")
	require.NotContains(t, output, "window 7/")
}

func TestKeyboardNavigation(t *testing.T) {
	t.Parallel()
	// 120 cells x 8px is the md tier
	tf := startCarousel(t, 120, 40, 8)

	require.True(t, tf.SeePlain("md · 3 visible"), "Should show the md tier")
	require.True(t, tf.SeePlain("1-3 of 8"), "Should show the first window")

	require.NoError(t, tf.Next())
	require.True(t, tf.SeePlain("2-4 of 8"), "Next should advance one item")

	require.NoError(t, tf.SendKeys(KeyLast))
	require.True(t, tf.SeePlain("6-8 of 8"), "Last should stop at the final full window")

	require.NoError(t, tf.Prev())
	require.True(t, tf.SeePlain("5-7 of 8"), "Previous should move back one item")
}

func TestResizeChangesBreakpoint(t *testing.T) {
	t.Parallel()
	tf := startCarousel(t, 120, 40, 8)
	require.True(t, tf.SeePlain("md · 3 visible"))

	require.NoError(t, tf.Resize(140, 40))
	require.True(t, tf.SeePlain("lg · 4 visible"), "Widening should reach the lg tier")

	require.NoError(t, tf.Resize(60, 40))
	require.True(t, tf.SeePlain("xs · 1 visible"), "Narrowing should fall back to xs")
}

func TestHelpPopup(t *testing.T) {
	t.Parallel()
	tf := startCarousel(t, 120, 40, 4)
	require.True(t, tf.SeePlain("1-3 of 4"))

	require.NoError(t, tf.SendKeys(KeyHelp))
	require.True(t, tf.SeePlain("Carousel Help"), "Should show the help popup")
}

func TestApplicationExit(t *testing.T) {
	t.Parallel()
	tf := startCarousel(t, 120, 40, 3)
	require.True(t, tf.SeePlain("of 3"))

	done := make(chan error, 1)
	go func() {
		done <- tf.cmd.Wait()
	}()

	require.NoError(t, tf.Quit())

	select {
	case err := <-done:
		require.NoError(t, err, "Process should exit cleanly with 'q'")
	case <-time.After(3 * time.Second):
		tf.SendCtrlC()
		t.Fatal("'q' did not exit within 3 seconds")
	}
}

func TestWatchFollowsTerminalResize(t *testing.T) {
	t.Parallel()
	tf := startCarousel(t, 120, 40, 8, "watch")

	require.True(t, tf.SeePlain("container 960px  md  3 visible"), tf.SnapshotPlain())

	require.NoError(t, tf.Resize(80, 40))
	require.True(t, tf.SeePlain("container 640px  sm  2 visible"), tf.SnapshotPlain())

	require.NoError(t, tf.SendCtrlC())
}
