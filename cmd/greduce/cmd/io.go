package cmd

import (
	"io"
	"os"
)

type stdinReader struct{ io.Reader }

func (stdinReader) Close() error { return nil }

// openInput opens path, or stdin when path is empty.
func openInput(path string) (io.ReadCloser, error) {
	if path == "" {
		return stdinReader{os.Stdin}, nil
	}
	return os.Open(path)
}

type stdoutWriter struct{ io.Writer }

func (stdoutWriter) Close() error { return nil }

// openOutput creates path, or stdout when path is empty.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return stdoutWriter{os.Stdout}, nil
	}
	return os.Create(path)
}
