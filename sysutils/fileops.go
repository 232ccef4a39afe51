package sysutils

import (
	"bufio"
	"io"
	"os"

	"github.com/cheggaaa/pb"
	"go.uber.org/multierr"
)

// progressThreshold is the smallest payload that gets a progress bar.
const progressThreshold = 2048

// FileExists reports whether path names an existing file or directory,
// following symlinks.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ConcatFiles writes the contents of srcs, in order and without any framing,
// to dst. Every source is opened before dst is touched so a missing source
// leaves no empty dst behind; dst is removed again if copying fails.
func ConcatFiles(dst string, showProgress bool, srcs ...string) (err error) {
	var total int64
	files := make([]*os.File, 0, len(srcs))
	defer func() {
		for _, f := range files {
			f.Close()
		}
	}()

	for _, src := range srcs {
		f, err := os.Open(src)
		if err != nil {
			return err
		}
		files = append(files, f)

		stat, err := f.Stat()
		if err != nil {
			return err
		}
		total += stat.Size()
	}

	dstFile, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, dstFile.Close())
		if err != nil {
			os.Remove(dst)
		}
	}()

	writer := bufio.NewWriter(dstFile)
	var out io.Writer = writer
	if showProgress && total > progressThreshold {
		pbar := pb.New64(total)
		pbar.ShowSpeed = true
		pbar.Units = pb.U_BYTES
		pbar.Output = os.Stderr
		pbar.Start()
		defer pbar.Finish()

		out = io.MultiWriter(writer, pbar)
	}

	for _, f := range files {
		if _, err := io.Copy(out, bufio.NewReader(f)); err != nil {
			return err
		}
	}

	return writer.Flush()
}
