package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/simonhull/anytag"
	"github.com/simonhull/anytag/internal/riff"
)

// riff-dump prints the chunk tree of a RIFF file, with the text of INFO
// entries, to check what the codec sees on disk.
func main() {
	version := flag.Bool("version", false, "print version and exit")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: riff-dump [-version] <file.wav>")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *version {
		fmt.Println("riff-dump", anytag.GetVersionInfo())
		return
	}
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}

	if err := run(flag.Arg(0)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return err
	}

	c, err := riff.Parse(f, st.Size(), path)
	if err != nil {
		return err
	}

	fmt.Printf("RIFF %s (size: %d)\n", c.Form, c.Size())
	return dumpChunks(c.Chunks, 12, 1, false)
}

// dumpChunks prints chunks starting at offset. Sub-chunks of an INFO list
// are printed with their text.
func dumpChunks(chunks []riff.Chunk, offset int64, depth int, info bool) error {
	indent := strings.Repeat("  ", depth)
	for _, ch := range chunks {
		switch {
		case ch.ID == riff.IDList:
			list, err := riff.ParseList(ch)
			if err != nil {
				return err
			}
			fmt.Printf("%sLIST %s (size: %d, offset: %d)\n", indent, list.Type, len(ch.Data), offset)
			if err := dumpChunks(list.Chunks, offset+12, depth+1, list.Type == riff.IDInfo); err != nil {
				return err
			}
		case info:
			fmt.Printf("%s%s (size: %d, offset: %d) %q\n", indent, ch.ID, len(ch.Data), offset, strings.TrimRight(string(ch.Data), "\x00"))
		default:
			fmt.Printf("%s%s (size: %d, offset: %d)\n", indent, ch.ID, len(ch.Data), offset)
		}

		offset += 8 + int64(len(ch.Data)) + int64(len(ch.Data)%2)
	}
	return nil
}
