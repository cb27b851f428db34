package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// fileSeparator keeps the last message of one file apart from the first of
// the next under every split mode but whole.
const fileSeparator = "\n\n"

// openInput returns a reader over the named files, in order, or over the
// command's stdin if no names (or just "-") are given. The returned close
// function must be called once reading is done.
func openInput(cmd *cobra.Command, names []string) (io.Reader, func() error, error) {
	if len(names) == 0 || (len(names) == 1 && names[0] == "-") {
		return cmd.InOrStdin(), func() error { return nil }, nil
	}

	var (
		files   []*os.File
		readers []io.Reader
	)
	closeAll := func() (err error) {
		for _, f := range files {
			if cerr := f.Close(); err == nil {
				err = cerr
			}
		}
		return err
	}
	for i, name := range names {
		f, err := os.Open(name)
		if err != nil {
			return nil, nil, errors.Join(fmt.Errorf("opening input: %w", err), closeAll())
		}
		files = append(files, f)
		if i > 0 {
			readers = append(readers, strings.NewReader(fileSeparator))
		}
		readers = append(readers, f)
	}
	return io.MultiReader(readers...), closeAll, nil
}
